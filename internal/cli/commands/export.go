package commands

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	contract "github.com/tablecraft/contract"
	"github.com/tablecraft/contract/internal/cli/config"
)

// NewExportCommand creates the export command.
func NewExportCommand(cfg func() *config.Config) *cobra.Command {
	var schemaOnly bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the contract in its canonical JSON form",
		Long: `Load the contract (YAML or JSON) and print its canonical
external JSON document. With --schema-only, only the selected schema's
document is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cfg()
			ct, err := contract.LoadContract(c.ContractPath)
			if err != nil {
				return fmt.Errorf("load contract %s: %w", c.ContractPath, err)
			}

			var v any
			if schemaOnly {
				s, _, err := pickSchema(c)
				if err != nil {
					return err
				}
				v = contract.EncodeSchema(s)
			} else {
				v = contract.EncodeContract(ct)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
	cmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "Export a single schema document instead of the whole contract")
	return cmd
}
