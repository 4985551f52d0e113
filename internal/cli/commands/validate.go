package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	contract "github.com/tablecraft/contract"
	"github.com/tablecraft/contract/internal/cli/config"
)

// ErrInvalidData signals a clean run that found violations, so the CLI can
// exit non-zero without printing a usage error.
var ErrInvalidData = fmt.Errorf("dataset violates the contract")

// NewValidateCommand creates the validate command.
func NewValidateCommand(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dataset.json>",
		Short: "Validate a dataset against a contract schema",
		Long: `Read a JSON array of records and check every row against the
selected schema of the contract. Violations are reported per row; the
command exits non-zero when any are found.`,
		Example: `  # Validate against the first schema of ./contract.yaml
  tablecheck validate data.json

  # Pick a contract file and schema explicitly
  tablecheck validate --contract plants.yaml --schema sites data.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			s, name, err := pickSchema(c)
			if err != nil {
				return err
			}
			slog.Debug("validating dataset", "schema", name, "file", args[0])

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rep, err := contract.ValidateDataset(s, contract.JSONRows(f))
			if err != nil {
				return err
			}
			if err := renderDatasetReport(cmd.OutOrStdout(), rep, c.OutputFormat, c.MaxRows); err != nil {
				return err
			}
			if !rep.Valid() {
				return ErrInvalidData
			}
			return nil
		},
	}
	return cmd
}

// pickSchema loads the configured contract and selects one schema: the named
// one, or the only/first one when no name is given.
func pickSchema(c *config.Config) (*contract.TableSchema, string, error) {
	ct, err := contract.LoadContract(c.ContractPath)
	if err != nil {
		return nil, "", fmt.Errorf("load contract %s: %w", c.ContractPath, err)
	}
	if c.Schema != "" {
		s, ok := ct.Schema(c.Schema)
		if !ok {
			return nil, "", fmt.Errorf("contract %s has no schema %q", ct.Name(), c.Schema)
		}
		return s, c.Schema, nil
	}
	first := ct.Schemas()[0]
	return first.Schema, first.Name, nil
}
