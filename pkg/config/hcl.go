// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/text"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
//
// Template text must escape interpolation as $${...} since HCL evaluates ${...}.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclClassifier struct {
	Name        string `hcl:"name,label"`
	Predicate   string `hcl:"predicate"`
	Constructor string `hcl:"constructor"`
}

type hclImports struct {
	Name          string   `hcl:"name,label"`
	Required      []string `hcl:"required"`
	Anchor        string   `hcl:"anchor,optional"`
	AnchorPattern string   `hcl:"anchor_pattern,optional"`
}

type hclLegacy struct {
	Exception    string   `hcl:"exception,optional"`
	Message      string   `hcl:"message"`
	Prefix       bool     `hcl:"prefix,optional"`
	Interpolated bool     `hcl:"interpolated,optional"`
	Variables    []string `hcl:"variables,optional"`
}

type hclSite struct {
	Kind             string          `hcl:"kind"`
	Code             string          `hcl:"code"`
	TechnicalMessage string          `hcl:"technical_message,optional"`
	OriginalError    bool            `hcl:"original_error,optional"`
	Classifiers      []hclClassifier `hcl:"classifier,block"`
}

type hclWildcard struct {
	Exception    string   `hcl:"exception,optional"`
	ActionPrefix string   `hcl:"action_prefix,optional"`
	Variables    []string `hcl:"variables,optional"`
	Emit         hclSite  `hcl:"emit,block"`
}

type hclRule struct {
	Name              string       `hcl:"name,label"`
	Match             string       `hcl:"match,optional"`
	Replacement       string       `hcl:"replacement,optional"`
	InlineReplacement string       `hcl:"inline_replacement,optional"`
	Scope             string       `hcl:"scope,optional"`
	Marker            string       `hcl:"marker,optional"`
	DotAll            bool         `hcl:"dot_all,optional"`
	Classify          bool         `hcl:"classify,optional"`
	Legacy            *hclLegacy   `hcl:"legacy,block"`
	Emit              *hclSite     `hcl:"emit,block"`
	Wildcard          *hclWildcard `hcl:"wildcard,block"`
}

type hclRuleSet struct {
	Name  string    `hcl:"name,label"`
	Rules []hclRule `hcl:"rule,block"`
}

type hclTarget struct {
	Path    string            `hcl:"path,optional"`
	Glob    string            `hcl:"glob,optional"`
	RuleSet string            `hcl:"rule_set"`
	Imports string            `hcl:"imports,optional"`
	Vars    map[string]string `hcl:"vars,optional"`
}

type hclConfig struct {
	Root             string          `hcl:"root,optional"`
	Concurrency      int             `hcl:"concurrency,optional"`
	VerifyIdempotent *bool           `hcl:"verify_idempotent,optional"`
	Variables        []string        `hcl:"variables,optional"`
	Classifiers      []hclClassifier `hcl:"classifier,block"`
	Imports          []hclImports    `hcl:"imports,block"`
	RuleSets         []hclRuleSet    `hcl:"rule_set,block"`
	Targets          []hclTarget     `hcl:"target,block"`
}

// evalContext exposes the process environment as env.NAME and a few string functions
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && hclIdentifier(k) {
			env[k] = cty.StringVal(v)
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"join":   stdlib.JoinFunc,
			"concat": stdlib.ConcatFunc,
		},
	}
}

func hclIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "rethrow.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Root:             hclCfg.Root,
		Concurrency:      hclCfg.Concurrency,
		VerifyIdempotent: hclCfg.VerifyIdempotent,
		Variables:        hclCfg.Variables,
		Classifiers:      convertClassifiers(hclCfg.Classifiers),
	}

	for _, imp := range hclCfg.Imports {
		cfg.Imports = append(cfg.Imports, text.ImportDirective{
			Name:          imp.Name,
			Required:      imp.Required,
			Anchor:        imp.Anchor,
			AnchorPattern: imp.AnchorPattern,
		})
	}

	for _, rs := range hclCfg.RuleSets {
		set := RuleSetConfig{Name: rs.Name}
		for _, r := range rs.Rules {
			set.Rules = append(set.Rules, convertRule(r))
		}
		cfg.RuleSets = append(cfg.RuleSets, set)
	}

	for _, t := range hclCfg.Targets {
		cfg.Targets = append(cfg.Targets, Target(t))
	}

	return cfg, nil
}

func convertClassifiers(in []hclClassifier) []text.Classifier {
	var out []text.Classifier
	for _, c := range in {
		out = append(out, text.Classifier(c))
	}
	return out
}

func convertSite(s hclSite) text.ThrowSite {
	return text.ThrowSite{
		Kind:             s.Kind,
		Code:             s.Code,
		TechnicalMessage: s.TechnicalMessage,
		OriginalError:    s.OriginalError,
		Classifiers:      convertClassifiers(s.Classifiers),
	}
}

func convertRule(r hclRule) RuleConfig {
	rule := RuleConfig{
		Name:              r.Name,
		Match:             r.Match,
		Replacement:       r.Replacement,
		InlineReplacement: r.InlineReplacement,
		Scope:             r.Scope,
		Marker:            r.Marker,
		DotAll:            r.DotAll,
		Classify:          r.Classify,
	}
	if r.Legacy != nil {
		legacy := text.LegacyThrow(*r.Legacy)
		rule.Legacy = &legacy
	}
	if r.Emit != nil {
		site := convertSite(*r.Emit)
		rule.Emit = &site
	}
	if r.Wildcard != nil {
		rule.Wildcard = &text.WildcardRule{
			Name:         r.Name,
			Exception:    r.Wildcard.Exception,
			ActionPrefix: r.Wildcard.ActionPrefix,
			Variables:    r.Wildcard.Variables,
			Site:         convertSite(r.Wildcard.Emit),
		}
	}
	return rule
}
