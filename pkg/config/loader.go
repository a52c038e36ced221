package config

import (
	"context"
	_ "embed"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

//go:embed builtin/rethrow.yaml
var builtinYAML []byte

// BuiltinName is the pseudo-location reported for the embedded preset
const BuiltinName = "builtin/rethrow.yaml"

// 🎯 Load loads the configuration from a file; the format follows the extension
func Load(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	return Parse(ctx, path, data)
}

// 📝 Parse picks a parser by file name, decodes and validates
func Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	p := GetParser(filename)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", filename)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = filename

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 📦 LoadBuiltin returns the embedded preset for the Dart service layer
func LoadBuiltin(ctx context.Context) (*Config, error) {
	return Parse(ctx, BuiltinName, builtinYAML)
}

// 🔌 Fetcher resolves a remote location to a file name and its content
type Fetcher interface {
	Fetch(ctx context.Context, location string) (string, []byte, error)
}

// 🌐 LoadRemote fetches and parses a config; the parser follows the fetched file name
func LoadRemote(ctx context.Context, f Fetcher, location string) (*Config, error) {
	name, data, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, errors.Errorf("fetching config: %w", err)
	}

	cfg, err := Parse(ctx, name, data)
	if err != nil {
		return nil, err
	}
	cfg.location = location
	return cfg, nil
}
