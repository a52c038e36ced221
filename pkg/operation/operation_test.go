package operation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/walteh/rethrow/pkg/config"
)

const serviceConfig = `
concurrency: 2
imports:
  - name: app_exceptions
    anchor: "import '../models/models.dart';"
    anchor_pattern: "^import '[^']+';"
    required:
      - "import '../utils/app_exception.dart';"
      - "import '../utils/network_error_detector.dart';"
      - "import 'supabase_interceptor.dart';"
rule_sets:
  - name: services
    rules:
      - name: not_authenticated
        legacy: {message: Usuario no autenticado}
        emit: {kind: AuthenticationException, code: not_authenticated, technical_message: User not authenticated}
      - name: generic
        classify: true
        wildcard:
          site: {kind: DatabaseException, code: database_query_failed, technical_message: "Error in ${service}"}
      - name: access_denied
        legacy: {message: No tienes permisos, prefix: true}
        emit: {kind: PermissionException, code: access_denied, technical_message: User does not have permission}
targets:
  - glob: "lib/services/*_service.dart"
    rule_set: services
    imports: app_exceptions
  - path: lib/services/missing_service.dart
    rule_set: services
    imports: app_exceptions
`

const projectsService = `import 'package:supabase_flutter/supabase_flutter.dart';
import '../models/models.dart';

class ProjectsService {
  Future<List<Project>> getProjects() async {
    final user = _supabase.auth.currentUser;
    if (user == null) {
      throw const ProjectsException('Usuario no autenticado');
    }
    try {
      return await _supabase.from('projects').select();
    } catch (e) {
      throw ProjectsException('Error al obtener proyectos: $e');
    }
  }

  Future<void> deleteProject(int id) async {
    try {
      if (!await _canDelete(id)) {
        throw const ProjectsException(
          'No tienes permisos para eliminar este proyecto',
        );
      }
      await _supabase.from('projects').delete().eq('id', id);
    } catch (e) {
      throw ProjectsException('Error al eliminar proyecto: $e');
    }
  }
}
`

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func loadConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Parse(testContext(t), "rethrow.yaml", []byte(yaml))
	require.NoError(t, err, "parsing test config")
	return cfg
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}
