package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	contract "github.com/tablecraft/contract"
	"github.com/tablecraft/contract/internal/cli/config"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the schemas a contract declares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cfg()
			ct, err := contract.LoadContract(c.ContractPath)
			if err != nil {
				return fmt.Errorf("load contract %s: %w", c.ContractPath, err)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s v%s", ct.Name(), ct.Version())
			if ct.Title() != "" {
				_, _ = fmt.Fprintf(out, " - %s", ct.Title())
			}
			_, _ = fmt.Fprintln(out)
			if tags := ct.Tags(); len(tags) > 0 {
				_, _ = fmt.Fprintf(out, "tags: %s\n", strings.Join(tags, ", "))
			}

			for _, ns := range ct.Schemas() {
				_, _ = fmt.Fprintf(out, "\nschema %s", ns.Name)
				if pk := ns.Schema.PrimaryKey(); len(pk) > 0 {
					_, _ = fmt.Fprintf(out, " (primary key: %s)", strings.Join(pk, ", "))
				}
				_, _ = fmt.Fprintln(out)

				t := table.NewWriter()
				t.SetOutputMirror(out)
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Field", "Type", "Required", "Title"})
				for _, f := range ns.Schema.Fields() {
					t.AppendRow(table.Row{f.FieldName(), string(f.Kind()), f.IsRequired(), fieldTitle(f)})
				}
				if c.OutputFormat == "md" || c.OutputFormat == "markdown" {
					t.RenderMarkdown()
				} else {
					t.Render()
				}
			}
			return nil
		},
	}
}

func fieldTitle(f contract.FieldSpec) string {
	switch v := f.(type) {
	case contract.StringField:
		return v.Title
	case contract.IntegerField:
		return v.Title
	case contract.NumberField:
		return v.Title
	case contract.BoolField:
		return v.Title
	case contract.DateField:
		return v.Title
	case contract.DatetimeField:
		return v.Title
	case contract.EnumField:
		return v.Title
	case contract.ArrayField:
		return v.Title
	case contract.ObjectField:
		return v.Title
	}
	return ""
}
