// Package cli provides the command-line interface for tablecheck.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablecraft/contract/internal/cli/commands"
	"github.com/tablecraft/contract/internal/cli/config"
)

// Version information (set at build time).
var Version = "0.1.0"

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablecheck",
		Short: "tablecheck - data contract validation",
		Long: `tablecheck validates tabular datasets against data contracts.

A contract bundles one or more table schemas: typed fields with
constraints, primary and foreign keys, and cross-field rules. Every
violation is reported; validation never stops at the first problem.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			if cfg.Verbose {
				if used := config.ConfigFileUsed(); used != "" {
					slog.Debug("using config file", "path", used)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tablecheck.yaml)")
	rootCmd.PersistentFlags().StringP("contract", "c", "", "contract definition file (YAML or JSON)")
	rootCmd.PersistentFlags().StringP("schema", "s", "", "schema name within the contract (default: first)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table|markdown|json)")
	rootCmd.PersistentFlags().Int("max-rows", 0, "cap on flagged rows shown (0 = all)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	getCfg := func() *config.Config { return cfg }
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewValidateCommand(getCfg))
	rootCmd.AddCommand(commands.NewInspectCommand(getCfg))
	rootCmd.AddCommand(commands.NewExportCommand(getCfg))

	return rootCmd
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, commands.ErrInvalidData) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
