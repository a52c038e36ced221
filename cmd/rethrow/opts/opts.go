package opts

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/config"
	"github.com/walteh/rethrow/pkg/log"
	"github.com/walteh/rethrow/pkg/remote/github"
)

// DefaultConfigFile is looked up in the working directory
const DefaultConfigFile = ".rethrow.yaml"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigPath is a local file or github.com/org/repo[@ref]:path
	ConfigPath string
	// Builtin selects the embedded preset instead of ConfigPath
	Builtin bool
	// Root overrides the config root
	Root  string
	Debug bool

	Console *log.Logger
}

// 📂 LoadConfig resolves the configuration source
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	logger := zerolog.Ctx(ctx)

	switch {
	case o.Builtin:
		logger.Debug().Msg("using builtin rules")
		return config.LoadBuiltin(ctx)
	case github.IsRemote(o.ConfigPath):
		logger.Debug().Str("location", o.ConfigPath).Msg("fetching remote rules")
		return config.LoadRemote(ctx, github.New(ctx), o.ConfigPath)
	default:
		if _, err := os.Stat(o.ConfigPath); err != nil {
			return nil, errors.Errorf("config %s: %w (use --builtin for the embedded rules)", o.ConfigPath, err)
		}
		return config.Load(ctx, o.ConfigPath)
	}
}

// 📍 ResolveRoot returns the absolute directory targets are relative to.
// A relative root in a local config file is taken from the file's directory.
func (o *RootOpts) ResolveRoot(cfg *config.Config) (string, error) {
	root := o.Root
	if root == "" {
		root = cfg.Root
		if !filepath.IsAbs(root) && !o.Builtin && !github.IsRemote(o.ConfigPath) {
			root = filepath.Join(filepath.Dir(o.ConfigPath), root)
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Errorf("resolving root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Errorf("root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", errors.Errorf("root %s is not a directory", abs)
	}
	return abs, nil
}

// ConfigName is how the config source is shown to the user
func (o *RootOpts) ConfigName() string {
	if o.Builtin {
		return config.BuiltinName
	}
	return o.ConfigPath
}
