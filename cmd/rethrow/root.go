package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/rethrow/cmd/rethrow/opts"
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigPath, "config", "c", opts.DefaultConfigFile, "config file path or github.com/org/repo[@ref]:path")
	cmd.PersistentFlags().BoolVar(&o.Builtin, "builtin", false, "use the embedded rules instead of --config")
	cmd.PersistentFlags().StringVar(&o.Root, "root", "", "directory targets are resolved in (overrides the config root)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) zerolog.Logger {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
	return log
}
