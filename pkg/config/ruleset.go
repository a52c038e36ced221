package config

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/text"
)

// 🔧 RuleSet expands the named rule set into engine rules, applying the
// config-level variables and classifiers where a rule leaves them unset
func (cfg *Config) RuleSet(name string) (text.RuleSet, error) {
	for _, rs := range cfg.RuleSets {
		if rs.Name != name {
			continue
		}
		out := text.RuleSet{Name: rs.Name, Rules: make([]text.PatternRule, 0, len(rs.Rules))}
		for i, r := range rs.Rules {
			rule, err := cfg.expand(r)
			if err != nil {
				return text.RuleSet{}, errors.Errorf("rule_sets[%s].rules[%d]: %w", rs.Name, i, err)
			}
			out.Rules = append(out.Rules, rule)
		}
		return out, nil
	}
	return text.RuleSet{}, errors.Errorf("unknown rule_set %q", name)
}

func (cfg *Config) classifiers() []text.Classifier {
	if len(cfg.Classifiers) > 0 {
		return cfg.Classifiers
	}
	return text.DefaultClassifiers
}

func (cfg *Config) expand(r RuleConfig) (text.PatternRule, error) {
	var (
		rule text.PatternRule
		err  error
	)

	switch {
	case r.Wildcard != nil:
		w := *r.Wildcard
		if w.Name == "" {
			w.Name = r.Name
		}
		if len(w.Variables) == 0 {
			w.Variables = cfg.Variables
		}
		if r.Classify && len(w.Site.Classifiers) == 0 {
			w.Site.Classifiers = cfg.classifiers()
		}
		rule, err = w.Rule()
	case r.Legacy != nil:
		legacy, site := *r.Legacy, *r.Emit
		if len(legacy.Variables) == 0 {
			legacy.Variables = cfg.Variables
		}
		if r.Classify && len(site.Classifiers) == 0 {
			site.Classifiers = cfg.classifiers()
		}
		rule, err = text.BuildRule(r.Name, legacy, site)
	default:
		rule = text.PatternRule{
			Name:              r.Name,
			Match:             r.Match,
			Replacement:       r.Replacement,
			InlineReplacement: r.InlineReplacement,
			Marker:            r.Marker,
			DotAll:            r.DotAll,
		}
	}
	if err != nil {
		return text.PatternRule{}, err
	}

	if r.Scope != "" {
		rule.Scope = r.Scope
	}
	if r.Marker != "" {
		rule.Marker = r.Marker
	}
	return rule, nil
}
