package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/config"
	"github.com/walteh/rethrow/pkg/text"
)

// 📋 RuleSetCheck is the static verification result for one rule set
type RuleSetCheck struct {
	Name          string
	Rules         int
	Compiled      int
	CompileErrors []*text.RuleCompileError
	Conflicts     []text.MarkerConflict
}

// OK reports whether the rule set compiled cleanly and consumes its markers
func (c RuleSetCheck) OK() bool {
	return len(c.CompileErrors) == 0 && len(c.Conflicts) == 0
}

// 🔍 CheckRuleSets compiles every rule set and runs the pairwise
// marker-consumption check. Vars come from the first target using the set.
func CheckRuleSets(ctx context.Context, cfg *config.Config) ([]RuleSetCheck, error) {
	logger := zerolog.Ctx(ctx)

	var (
		checks []RuleSetCheck
		errs   []error
	)
	for _, rs := range cfg.RuleSets {
		set, err := cfg.RuleSet(rs.Name)
		if err != nil {
			return nil, err
		}

		compiled, compileErrs := text.Compile(set, varsFor(cfg, rs.Name))
		check := RuleSetCheck{
			Name:          rs.Name,
			Rules:         len(set.Rules),
			Compiled:      compiled.Len(),
			CompileErrors: compileErrs,
			Conflicts:     compiled.CheckMarkers(),
		}
		for _, ce := range compileErrs {
			errs = append(errs, ce)
		}
		if err := compiled.Validate(); err != nil {
			errs = append(errs, err)
		}

		logger.Debug().
			Str("rule_set", rs.Name).
			Int("rules", check.Rules).
			Int("compiled", check.Compiled).
			Int("conflicts", len(check.Conflicts)).
			Msg("checked rule set")
		checks = append(checks, check)
	}

	return checks, errors.Join(errs...)
}

func varsFor(cfg *config.Config, ruleSet string) map[string]string {
	for _, t := range cfg.Targets {
		if t.RuleSet != ruleSet {
			continue
		}
		p := t.Path
		if p == "" {
			p = t.Glob
		}
		return config.TargetVars(t, p)
	}
	return nil
}
