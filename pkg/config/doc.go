/*
Package config loads the declarative migration configuration for rethrow.

	            +-------------+
	            |   Config    |
	            | rule sets,  |
	            |   targets   |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |           |           |
	+-----+----+ +----+----+ +----+----+ +----+----+
	|   YAML   | |   HCL   | |  JSON   | | builtin |
	|  Parser  | | Parser  | | Parser  | | (embed) |
	+----------+ +---------+ +---------+ +---------+

🎯 Purpose:
- Declares rule sets, import directives, classifiers and targets
- Expands the legacy/emit and wildcard shorthands into engine rules
- Ships the Dart service-layer preset used with --builtin

🔄 Flow:
1. Parser chosen by file extension
2. Decode with unknown fields rejected
3. Validate references, fill defaults
4. RuleSet(name) expands one rule set for compilation

⚡ Rule shapes:
- raw: match + replacement, regexp.Expand template syntax
- legacy + emit: string-keyed throw to structured throw
- wildcard: any *Exception('Error al <action>: $e')

📝 Templates:
Replacement text is expanded with regexp.Expand, so a literal Dart "$" is
written "$$". Target vars such as ${service} are bound before compilation.
In HCL every ${ must additionally be written $${ since HCL interpolates it.

🔍 Example:

	cfg, err := config.Load(ctx, "rethrow.yaml")
	if err != nil {
		return err
	}
	set, err := cfg.RuleSet(cfg.Targets[0].RuleSet)
*/
package config
