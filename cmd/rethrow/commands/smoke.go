package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/cmd/rethrow/opts"
	"github.com/walteh/rethrow/pkg/smoke"
)

// NewSmokeCmd creates the smoke command
func NewSmokeCmd(o *opts.RootOpts) *cobra.Command {
	var (
		url     string
		apiKey  string
		timeout time.Duration
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Exercise the authentication backend with the test users",
		Long: `Smoke checks the backend health endpoint, signs up each test user and
logs in with every user that was created. Individual failures are reported
per user; only an unhealthy backend aborts the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if apiKey == "" {
				return errors.Errorf("an api key is required (--api-key or SUPABASE_ANON_KEY)")
			}

			client := smoke.NewClient(url, apiKey, smoke.WithTimeout(timeout))
			o.Console.Header("smoke testing " + client.BaseURL())

			report, err := smoke.Run(ctx, client, smoke.DefaultUsers)
			if err != nil {
				o.Console.Validation(false, "backend unreachable", err)
				return err
			}
			if err := o.Console.SmokeResults(report); err != nil {
				return errors.Errorf("rendering smoke results: %w", err)
			}

			if report.OK() {
				return nil
			}
			if strict {
				return errors.Errorf("smoke test incomplete: %s, %s", report.Created(), report.LoggedIn())
			}
			o.Console.Warningf("smoke test incomplete: %s, %s", report.Created(), report.LoggedIn())
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", envOr("SUPABASE_URL", smoke.DefaultBaseURL), "backend base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("SUPABASE_ANON_KEY"), "anon API key")
	cmd.Flags().DurationVar(&timeout, "timeout", smoke.DefaultTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero unless every user is created and logs in")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
