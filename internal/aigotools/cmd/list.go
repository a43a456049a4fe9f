package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/leofalp/aigotools/internal/utils"
)

var listExample = heredoc.Doc(`
	# Print every configured tool
	aigotools list

	# Print names, descriptions, schemas and cost metrics as JSON
	aigotools list --json`)

func newCmdList(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the configured tools",
		Example: listExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			descriptions := catalog.Descriptions()

			if asJSON {
				enc := json.NewEncoder(a.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(descriptions)
			}

			w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOST\tDESCRIPTION")
			for _, d := range descriptions {
				costText := "-"
				if d.Metrics != nil {
					costText = d.Metrics.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, costText, utils.TruncateString(d.Description, 80))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print full tool descriptions as JSON")
	return cmd
}
