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

package text

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, name string, rules ...PatternRule) *CompiledRuleSet {
	t.Helper()
	set, errs := Compile(RuleSet{Name: name, Rules: rules}, nil)
	require.Empty(t, errs, "rule set should compile")
	return set
}

func mustBuild(t *testing.T, name string, legacy LegacyThrow, site ThrowSite) PatternRule {
	t.Helper()
	rule, err := BuildRule(name, legacy, site)
	require.NoError(t, err, "building rule %s", name)
	return rule
}

func genericRule(t *testing.T) PatternRule {
	t.Helper()
	rule, err := WildcardRule{
		Name: "generic",
		Site: ThrowSite{
			Kind:        "DatabaseException",
			Code:        "database_query_failed",
			Classifiers: DefaultClassifiers,
		},
	}.Rule()
	require.NoError(t, err, "building wildcard rule")
	return rule
}

func TestApplyRule(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		rule      PatternRule
		want      string
		wantCount int
	}{
		{
			name:      "simple_replacement",
			content:   "Hello World",
			rule:      PatternRule{Name: "r", Match: "World", Replacement: "Universe"},
			want:      "Hello Universe",
			wantCount: 1,
		},
		{
			name:      "multiple_occurrences",
			content:   "World World",
			rule:      PatternRule{Name: "r", Match: "World", Replacement: "Universe"},
			want:      "Universe Universe",
			wantCount: 2,
		},
		{
			name:      "named_capture",
			content:   "throw FooException('x');",
			rule:      PatternRule{Name: "r", Match: `throw (?P<type>\w+)\(`, Replacement: "raise ${type}("},
			want:      "raise FooException('x');",
			wantCount: 1,
		},
		{
			name:      "literal_dollar",
			content:   "msg(e)",
			rule:      PatternRule{Name: "r", Match: `msg\((?P<v>\w+)\)`, Replacement: "'$$${v}'"},
			want:      "'$e'",
			wantCount: 1,
		},
		{
			name:      "whitespace_crosses_lines",
			content:   "call(\n    'a',\n);",
			rule:      PatternRule{Name: "r", Match: `call\(\s*'a',?\s*\);`, Replacement: "done();"},
			want:      "done();",
			wantCount: 1,
		},
		{
			name:      "dot_does_not_cross_lines_by_default",
			content:   "begin\nend",
			rule:      PatternRule{Name: "r", Match: `begin.*end`, Replacement: "x"},
			want:      "begin\nend",
			wantCount: 0,
		},
		{
			name:      "dot_all_crosses_lines",
			content:   "begin\nend",
			rule:      PatternRule{Name: "r", Match: `begin.*end`, Replacement: "x", DotAll: true},
			want:      "x",
			wantCount: 1,
		},
		{
			name:      "caret_matches_each_line",
			content:   "a\n  b\n",
			rule:      PatternRule{Name: "r", Match: `^(?P<indent>[ \t]*)b`, Replacement: "${indent}c"},
			want:      "a\n  c\n",
			wantCount: 1,
		},
		{
			name:      "marker_absent_skips",
			content:   "Hello World",
			rule:      PatternRule{Name: "r", Match: "World", Replacement: "Universe", Marker: "Goodbye"},
			want:      "Hello World",
			wantCount: 0,
		},
		{
			name:      "no_match",
			content:   "Hello World",
			rule:      PatternRule{Name: "r", Match: "Goodbye", Replacement: "Hi"},
			want:      "Hello World",
			wantCount: 0,
		},
		{
			name:      "empty_content",
			content:   "",
			rule:      PatternRule{Name: "r", Match: "World", Replacement: "Universe"},
			want:      "",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := CompileRule(tt.rule, nil)
			require.NoError(t, err, "rule should compile")

			got, count := ApplyRule(tt.content, compiled)
			assert.Equal(t, tt.want, got, "content should match")
			assert.Equal(t, tt.wantCount, count, "count should match")
		})
	}
}

func TestCompile_ReportsBadRuleAndKeepsOthers(t *testing.T) {
	set, errs := Compile(RuleSet{
		Name: "mixed",
		Rules: []PatternRule{
			{Name: "broken", Match: "(unclosed", Replacement: "x"},
			{Name: "empty", Match: "", Replacement: "x"},
			{Name: "good", Match: "World", Replacement: "Universe"},
		},
	}, nil)

	require.Len(t, errs, 2, "two rules should fail to compile")
	assert.ErrorIs(t, errs[0], ErrRuleCompile, "error should be a rule compile error")
	assert.Equal(t, "broken", errs[0].Rule, "first failure should name the rule")
	assert.Equal(t, 0, errs[0].Index, "first failure should carry the index")
	assert.Equal(t, "empty", errs[1].Rule, "second failure should name the rule")
	assert.Contains(t, errs[0].Error(), "mixed[0] broken", "message should locate the rule")

	require.Equal(t, 1, set.Len(), "good rule should still compile")
	result := set.Apply("", "Hello World")
	assert.Equal(t, "Hello Universe", result.ModifiedContent, "good rule should still apply")
}

func TestCompileRule_InlineReplacement(t *testing.T) {
	_, err := CompileRule(PatternRule{Name: "r", Match: `throw`, Replacement: "x", InlineReplacement: "y"}, nil)
	require.Error(t, err, "inline replacement without a lead capture should be rejected")

	rule, err := CompileRule(PatternRule{
		Name:              "r",
		Match:             `^(?P<indent>[ \t]*)(?P<lead>[^ \t\n][^\n]*?)?fail\(\);`,
		Replacement:       "${indent}stmt();",
		InlineReplacement: "${indent}${lead}expr();",
	}, nil)
	require.NoError(t, err)

	got, n := ApplyRule("  fail();\n  if (x) fail();\n", rule)
	assert.Equal(t, 2, n)
	assert.Equal(t, "  stmt();\n  if (x) expr();\n", got, "the lead picks the template")
}

func TestCompile_BindsTargetVars(t *testing.T) {
	set, errs := Compile(RuleSet{
		Name: "vars",
		Rules: []PatternRule{
			{Name: "r", Match: `fail\((?P<var>\w+)\)`, Replacement: "log('${service}: $$${var}')"},
		},
	}, map[string]string{"service": "ProjectsService", "var": "ignored"})
	require.Empty(t, errs)

	result := set.Apply("", "fail(e)")
	assert.Equal(t, "log('ProjectsService: $e')", result.ModifiedContent, "vars bind but captures win")
}

func TestCompiledRuleSet_Apply_Scope(t *testing.T) {
	set := mustCompile(t, "scoped",
		PatternRule{Name: "files_only", Match: "legacy", Replacement: "modern", Scope: "**/files_service.dart"},
	)

	hit := set.Apply("lib/services/files_service.dart", "legacy")
	assert.Equal(t, "modern", hit.ModifiedContent, "in-scope file should be rewritten")

	miss := set.Apply("lib/services/tasks_service.dart", "legacy")
	assert.Equal(t, "legacy", miss.ModifiedContent, "out-of-scope file should be untouched")
	assert.False(t, miss.WasModified, "out-of-scope file should not be modified")
}

func TestCompiledRuleSet_Apply_OrderSensitivity(t *testing.T) {
	specific := mustBuild(t, "upload",
		LegacyThrow{Exception: "FilesException", Message: "Error al subir archivo", Interpolated: true},
		ThrowSite{Kind: "FileException", Code: "file_upload_failed", TechnicalMessage: "Error uploading file", OriginalError: true, Classifiers: DefaultClassifiers},
	)
	generic := genericRule(t)
	input := "    } catch (e) {\n      throw FilesException('Error al subir archivo: $e');\n    }\n"

	t.Run("specific_first", func(t *testing.T) {
		result := mustCompile(t, "files", specific, generic).Apply("", input)
		assert.Contains(t, result.ModifiedContent, "throw FileException(", "specific rule should win")
		assert.Contains(t, result.ModifiedContent, "'file_upload_failed'", "specific code should be used")
		assert.NotContains(t, result.ModifiedContent, "DatabaseException", "catch-all should never fire")
		require.Len(t, result.Hits, 1, "only one rule should fire")
		assert.Equal(t, "upload", result.Hits[0].Rule)
	})

	t.Run("generic_first", func(t *testing.T) {
		result := mustCompile(t, "files", generic, specific).Apply("", input)
		assert.Contains(t, result.ModifiedContent, "throw DatabaseException(", "catch-all consumes the span when first")
		assert.NotContains(t, result.ModifiedContent, "FileException(", "specific rule is starved")
	})
}

func TestWildcardRule_CaptureCorrectness(t *testing.T) {
	set := mustCompile(t, "generic", genericRule(t))

	result := set.Apply("", "throw FooException('Error al bar: $e');")
	out := result.ModifiedContent

	assert.Contains(t, out, "technicalMessage: 'bar failed in FooException: $e'", "message should embed action and type")
	assert.Contains(t, out, "originalError: e,", "original error should be passed")

	transport := strings.Index(out, "NetworkErrorDetector.isNetworkError(e)")
	backend := strings.Index(out, "SupabaseErrorInterceptor.isSupabaseError(e)")
	fallback := strings.Index(out, "throw DatabaseException(")
	require.GreaterOrEqual(t, transport, 0, "transport check should be present")
	require.GreaterOrEqual(t, backend, 0, "backend check should be present")
	require.GreaterOrEqual(t, fallback, 0, "fallback throw should be present")
	assert.Less(t, transport, backend, "transport check should come first")
	assert.Less(t, backend, fallback, "backend check should precede the fallback")
}

func TestWildcardRule_Variables(t *testing.T) {
	rule, err := WildcardRule{
		Name:      "generic",
		Variables: []string{"e", "error"},
		Site:      ThrowSite{Kind: "DatabaseException", Code: "database_query_failed"},
	}.Rule()
	require.NoError(t, err)
	set := mustCompile(t, "generic", rule)

	result := set.Apply("", "throw XException('Error al leer: $error');")
	assert.Contains(t, result.ModifiedContent, "originalError: error,", "listed variable should be captured")

	result = set.Apply("", "throw XException('Error al leer: $err');")
	assert.False(t, result.WasModified, "unlisted variable should not match")

	result = set.Apply("", "throw XException('Error al leer: ${e}');")
	assert.Contains(t, result.ModifiedContent, "originalError: e,", "braced interpolation should match")

	_, err = WildcardRule{Variables: []string{"1x"}, Site: ThrowSite{Kind: "K", Code: "c"}}.Rule()
	require.Error(t, err, "invalid identifier should be rejected")
	assert.Contains(t, err.Error(), "invalid error variable name")
}

func TestCompiledRuleSet_Apply_InlineThrows(t *testing.T) {
	set := mustCompile(t, "services",
		mustBuild(t, "auth",
			LegacyThrow{Message: "Usuario no autenticado"},
			ThrowSite{Kind: "AuthenticationException", Code: "not_authenticated", TechnicalMessage: "User not authenticated"},
		),
		genericRule(t),
	)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "guard_clause",
			content: "    if (user == null) throw const UserException('Usuario no autenticado');\n",
			want: "    if (user == null) throw AuthenticationException(\n" +
				"      'not_authenticated',\n" +
				"      technicalMessage: 'User not authenticated',\n" +
				"    );\n",
		},
		{
			name:    "arrow_body_with_classifiers",
			content: "    future.catchError((e) => throw UserException('Error al cargar: $e'));\n",
			want: "    future.catchError((e) => throw NetworkErrorDetector.isNetworkError(e) ? NetworkErrorDetector.detectNetworkError(e) : " +
				"SupabaseErrorInterceptor.isSupabaseError(e) ? SupabaseErrorInterceptor.handleError(e) : DatabaseException(\n" +
				"      'database_query_failed',\n" +
				"      technicalMessage: 'cargar failed in UserException: $e',\n" +
				"      originalError: e,\n" +
				"    ));\n",
		},
		{
			name:    "line_comment_untouched",
			content: "    // throw const UserException('Usuario no autenticado');\n",
			want:    "    // throw const UserException('Usuario no autenticado');\n",
		},
		{
			name:    "trailing_comment_untouched",
			content: "    check(); // throw UserException('Error al cargar: $e');\n",
			want:    "    check(); // throw UserException('Error al cargar: $e');\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := set.Apply("", tt.content)
			assert.Equal(t, tt.want, result.ModifiedContent, "content should match")
			assert.NoError(t, set.VerifyIdempotent("", result.ModifiedContent), "inline output should be stable")
		})
	}
}

func remainingServicesRules(t *testing.T) []PatternRule {
	t.Helper()
	return []PatternRule{
		mustBuild(t, "auth",
			LegacyThrow{Message: "Usuario no autenticado"},
			ThrowSite{Kind: "AuthenticationException", Code: "not_authenticated", TechnicalMessage: "User not authenticated"},
		),
		genericRule(t),
		mustBuild(t, "permission",
			LegacyThrow{Message: "No tienes permisos", Prefix: true},
			ThrowSite{Kind: "PermissionException", Code: "access_denied", TechnicalMessage: "User does not have permission"},
		),
	}
}

const projectsService = `import '../models/models.dart';

class ProjectsService {
  Future<List<Project>> getProjects() async {
    if (user == null) {
      throw const ProjectsException('Usuario no autenticado');
    }
    try {
      return [];
    } catch (e) {
      throw ProjectsException('Error al obtener proyectos: $e');
    }
  }

  Future<void> create() async {
    try {
    } catch (e) {
      throw ProjectsException('Error al crear proyecto: $e');
    }
  }

  Future<void> remove() async {
    try {
    } catch (e) {
      throw ProjectsException(
        'Error al eliminar proyecto: $e',
      );
    }
  }

  void guard() {
    throw const ProjectsException('No tienes permisos para editar este proyecto');
  }
}
`

func TestCompiledRuleSet_Apply_EndToEnd(t *testing.T) {
	set := mustCompile(t, "remaining", remainingServicesRules(t)...)

	result := set.Apply("lib/services/projects_service.dart", projectsService)
	require.True(t, result.WasModified)
	assert.Equal(t, 5, result.ReplacementCount, "five throw sites should be rewritten")

	out := result.ModifiedContent
	legacy := regexp.MustCompile(`throw\s+(?:const\s+)?ProjectsException`)
	assert.Empty(t, legacy.FindAllString(out, -1), "no legacy throw should remain")

	kinds := regexp.MustCompile(`throw (\w+Exception)\(`).FindAllStringSubmatch(out, -1)
	got := make([]string, 0, len(kinds))
	for _, k := range kinds {
		got = append(got, k[1])
	}
	assert.Equal(t, []string{
		"AuthenticationException",
		"DatabaseException",
		"DatabaseException",
		"DatabaseException",
		"PermissionException",
	}, got, "structured throws should be of the expected kinds")

	assert.Contains(t, out, "      throw AuthenticationException(\n        'not_authenticated',", "indentation should be preserved")
	assert.Contains(t, out, "'eliminar proyecto failed in ProjectsException: $e'", "multi-line legacy throw should be captured")
}

func TestCompiledRuleSet_Apply_Idempotent(t *testing.T) {
	set := mustCompile(t, "remaining", remainingServicesRules(t)...)

	once := set.Apply("", projectsService)
	twice := set.Apply("", once.ModifiedContent)

	assert.Equal(t, once.ModifiedContent, twice.ModifiedContent, "second pass should change nothing")
	assert.False(t, twice.WasModified, "second pass should not report modification")
	assert.Empty(t, twice.Hits, "no rule should fire on migrated code")
	require.NoError(t, set.VerifyIdempotent("", once.ModifiedContent))
}

func TestCompiledRuleSet_Apply_NoOp(t *testing.T) {
	set := mustCompile(t, "remaining", remainingServicesRules(t)...)
	content := "class Clean {\n  void ok() {}\n}\n"

	result := set.Apply("", content)
	assert.False(t, result.WasModified)
	assert.Equal(t, content, result.ModifiedContent)
	assert.Zero(t, result.ReplacementCount)
}

func TestCompiledRuleSet_CheckMarkers(t *testing.T) {
	t.Run("builtin_style_rules_consume_markers", func(t *testing.T) {
		set := mustCompile(t, "remaining", remainingServicesRules(t)...)
		assert.Empty(t, set.CheckMarkers(), "no rule should match another rule's output")
		assert.NoError(t, set.Validate())
	})

	t.Run("self_reintroducing_rule", func(t *testing.T) {
		set := mustCompile(t, "bad",
			PatternRule{Name: "grow", Match: "a", Replacement: "aa"},
			PatternRule{Name: "other", Match: "zzz", Replacement: "y"},
		)
		conflicts := set.CheckMarkers()
		require.Len(t, conflicts, 1)
		assert.Equal(t, MarkerConflict{Producer: "grow", Consumer: "grow"}, conflicts[0])

		err := set.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMarkerNotConsumed)

		err = set.VerifyIdempotent("", "aa")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotIdempotent)
	})
}
