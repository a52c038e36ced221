package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "legacy_emit_rule",
			data: `{
				"rule_sets": [{
					"name": "tasks",
					"rules": [{
						"name": "get_tasks",
						"classify": true,
						"legacy": {"exception": "TasksException", "message": "Error al obtener tareas", "interpolated": true},
						"emit": {"kind": "DatabaseException", "code": "database_query_failed", "technical_message": "Error getting tasks", "original_error": true}
					}]
				}],
				"targets": [{"path": "lib/services/tasks_service.dart", "rule_set": "tasks"}]
			}`,
			check: func(t *testing.T, cfg *Config) {
				rule := cfg.RuleSets[0].Rules[0]
				require.NotNil(t, rule.Legacy)
				require.NotNil(t, rule.Emit)
				assert.True(t, rule.Legacy.Interpolated)
				assert.True(t, rule.Emit.OriginalError)
			},
		},
		{
			name:        "unknown_field",
			data:        `{"targets": [], "nope": 1}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "invalid_glob",
			data:        `{"rule_sets": [{"name": "a", "rules": []}], "targets": [{"glob": "lib/[", "rule_set": "a"}]}`,
			wantErr:     true,
			errContains: "invalid glob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(testContext(t), "rethrow.json", []byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{filename: "rethrow.yaml", want: &YAMLParser{}},
		{filename: "RETHROW.YML", want: &YAMLParser{}},
		{filename: "rethrow.hcl", want: &HCLParser{}},
		{filename: "rethrow.json", want: &JSONParser{}},
		{filename: "rethrow.toml", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}
