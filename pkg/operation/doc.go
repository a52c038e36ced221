/*
Package operation runs configured rule sets over target files.

	+-------------+
	|  BuildJobs  |  targets -> (path, rule set, imports)
	+------+------+
	       |
	+------+------+
	| Transformer |  Loaded -> ImportsEnsured -> RulesApplied -> Written
	+------+------+
	       |
	+------+------+
	|   Report    |  changed / unchanged / missing / failed
	+-------------+

🎯 Purpose:
- Expands targets (paths and doublestar globs) into jobs
- Runs each file through the transformer state machine
- Parallelises across files, never within one file
- Turns the report into the process exit error

⚡ Failure policy:
- missing file: recorded, run continues, ErrFilesMissing at the end
- rule compile error: that rule is skipped, others still apply
- anchor not found: imports skipped, rules still apply
- write failure: fatal for that file only
- check mode: ErrPendingChanges when any file would change
*/
package operation
