package opts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
root: app
rule_sets:
  - name: rename
    rules:
      - {name: rename, match: LegacyException, replacement: AppException}
targets:
  - {glob: "**/*.dart", rule_set: rename}
`

func TestRootOpts_LoadConfig(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	dir := t.TempDir()
	path := filepath.Join(dir, ".rethrow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "app"), 0755))

	t.Run("local_file", func(t *testing.T) {
		o := &RootOpts{ConfigPath: path}
		cfg, err := o.LoadConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.Location())

		root, err := o.ResolveRoot(cfg)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "app"), root, "relative root follows the config file")
	})

	t.Run("root_flag_wins", func(t *testing.T) {
		o := &RootOpts{ConfigPath: path, Root: dir}
		cfg, err := o.LoadConfig(ctx)
		require.NoError(t, err)
		root, err := o.ResolveRoot(cfg)
		require.NoError(t, err)
		assert.Equal(t, dir, root)
	})

	t.Run("builtin", func(t *testing.T) {
		o := &RootOpts{ConfigPath: "ignored.yaml", Builtin: true}
		cfg, err := o.LoadConfig(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.Targets)
		assert.Equal(t, "builtin/rethrow.yaml", o.ConfigName())
	})

	t.Run("missing_file", func(t *testing.T) {
		o := &RootOpts{ConfigPath: filepath.Join(dir, "nope.yaml")}
		_, err := o.LoadConfig(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--builtin")
	})

	t.Run("root_is_a_file", func(t *testing.T) {
		o := &RootOpts{ConfigPath: path, Root: path}
		cfg, err := o.LoadConfig(ctx)
		require.NoError(t, err)
		_, err = o.ResolveRoot(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}
