package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHCLParser(t *testing.T) {
	t.Setenv("RETHROW_TEST_KIND", "DatabaseException")

	data := []byte(`
root        = "app"
concurrency = 3
variables   = ["e", "error"]

classifier "transport" {
  predicate   = "NetworkErrorDetector.isNetworkError"
  constructor = "NetworkErrorDetector.detectNetworkError"
}

imports "app_exceptions" {
  anchor         = "import '../models/models.dart';"
  anchor_pattern = "^import '[^']+';"
  required       = ["import '../utils/app_exception.dart';"]
}

rule_set "projects" {
  rule "auth" {
    legacy {
      exception = "ProjectsException"
      message   = "Usuario no autenticado"
    }
    emit {
      kind              = "AuthenticationException"
      code              = "not_authenticated"
      technical_message = "User not authenticated"
    }
  }

  rule "generic" {
    classify = true
    wildcard {
      emit {
        kind              = env.RETHROW_TEST_KIND
        code              = lower("DATABASE_QUERY_FAILED")
        technical_message = "Error in $${service}"
      }
    }
  }

  rule "raw" {
    match       = "foo"
    replacement = "bar"
    scope       = "**/*.dart"
  }
}

target {
  path     = "lib/services/projects_service.dart"
  rule_set = "projects"
  imports  = "app_exceptions"
  vars = {
    service = "ProjectsService"
  }
}
`)

	cfg, err := Parse(testContext(t), "rethrow.hcl", data)
	require.NoError(t, err, "parsing HCL config")

	assert.Equal(t, "app", cfg.Root)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, []string{"e", "error"}, cfg.Variables)
	require.Len(t, cfg.Classifiers, 1)
	assert.Equal(t, "transport", cfg.Classifiers[0].Name)

	imp, ok := cfg.Import("app_exceptions")
	require.True(t, ok)
	assert.Equal(t, "^import '[^']+';", imp.AnchorPattern)

	require.Len(t, cfg.RuleSets, 1)
	rules := cfg.RuleSets[0].Rules
	require.Len(t, rules, 3)
	require.NotNil(t, rules[0].Legacy)
	assert.Equal(t, "ProjectsException", rules[0].Legacy.Exception)
	require.NotNil(t, rules[1].Wildcard)
	assert.Equal(t, "DatabaseException", rules[1].Wildcard.Site.Kind, "env lookup should resolve")
	assert.Equal(t, "database_query_failed", rules[1].Wildcard.Site.Code, "functions should be available")
	assert.Equal(t, "Error in ${service}", rules[1].Wildcard.Site.TechnicalMessage, "$${ should escape interpolation")
	assert.True(t, rules[1].Classify)
	assert.Equal(t, "foo", rules[2].Match)

	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, "ProjectsService", cfg.Targets[0].Vars["service"])
	assert.True(t, cfg.ShouldVerify())
}

func TestHCLParser_Errors(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		errContains string
	}{
		{name: "syntax", data: `rule_set "x" {`, errContains: "parsing HCL"},
		{name: "unknown_attribute", data: `bogus = 1`, errContains: "decoding HCL"},
		{name: "missing_rule_set", data: `target { path = "a.dart" }`, errContains: "decoding HCL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(testContext(t), "rethrow.hcl", []byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
