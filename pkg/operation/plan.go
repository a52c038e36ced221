package operation

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/config"
	"github.com/walteh/rethrow/pkg/text"
)

// 🗺️ BuildJobs expands every target into per-file jobs, in target order.
//
// Glob targets are expanded under root. A file reached by more than one
// target keeps the first; later targets are skipped for it. Rules that fail
// to compile are carried on the job so the file reports them.
func BuildJobs(ctx context.Context, cfg *config.Config, root string) ([]Job, error) {
	logger := zerolog.Ctx(ctx)
	if root == "" {
		root = "."
	}

	seen := make(map[string]string)
	var jobs []Job

	for i, target := range cfg.Targets {
		set, err := cfg.RuleSet(target.RuleSet)
		if err != nil {
			return nil, errors.Errorf("targets[%d]: %w", i, err)
		}

		var imports *text.ImportDirective
		if target.Imports != "" {
			d, ok := cfg.Import(target.Imports)
			if !ok {
				return nil, errors.Errorf("targets[%d]: unknown imports %q", i, target.Imports)
			}
			imports = &d
		}

		paths, err := expandTarget(root, target)
		if err != nil {
			return nil, errors.Errorf("targets[%d]: %w", i, err)
		}
		if target.Glob != "" && len(paths) == 0 {
			logger.Warn().Str("glob", target.Glob).Str("root", root).Msg("glob matched no files")
		}

		for _, p := range paths {
			if prev, ok := seen[p]; ok {
				logger.Debug().Str("path", p).Str("kept", prev).Str("skipped", target.String()).Msg("file already targeted")
				continue
			}
			seen[p] = target.String()

			compiled, errs := text.Compile(set, config.TargetVars(target, p))
			for _, e := range errs {
				logger.Error().Err(e).Str("path", p).Str("rule", e.Rule).Msg("rule failed to compile")
			}

			jobs = append(jobs, Job{
				Path:          p,
				RuleSet:       compiled,
				Imports:       imports,
				CompileErrors: errs,
				Verify:        cfg.ShouldVerify(),
			})
		}
	}

	return jobs, nil
}

func expandTarget(root string, target config.Target) ([]string, error) {
	if target.Glob == "" {
		return []string{path.Clean(filepath.ToSlash(target.Path))}, nil
	}
	matches, err := doublestar.Glob(os.DirFS(root), target.Glob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("expanding glob %q: %w", target.Glob, err)
	}
	return matches, nil
}
