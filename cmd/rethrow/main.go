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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/rethrow/cmd/rethrow/commands"
	"github.com/walteh/rethrow/cmd/rethrow/opts"
	"github.com/walteh/rethrow/pkg/log"
)

func main() {
	ctx := context.Background()
	o := &opts.RootOpts{}

	rootCmd := newRootCmd(o)
	rootCmd.AddCommand(
		commands.NewMigrateCmd(o),
		commands.NewCheckCmd(o),
		commands.NewRulesCmd(o),
		commands.NewSmokeCmd(o),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if o.Console == nil {
			o.Console = log.New(os.Stderr, zerolog.New(os.Stderr))
		}
		o.Console.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rethrow",
		Short: "Migrate legacy string-keyed throws to structured exceptions",
		Long: `rethrow rewrites throw sites like

    throw ProjectsException('Error al obtener proyectos: $e');

into structured exceptions carrying a kind, a stable code and a technical
message, optionally routed through error classifiers first. The rewrites are
declarative rule sets, applied in order, and running them twice is a no-op.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(o.Debug)
			o.Console = log.New(cmd.OutOrStdout(), logger)
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}

	addRootFlags(cmd, o)
	return cmd
}
