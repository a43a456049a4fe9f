package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

func newCmdSchema(a *app) *cobra.Command {
	var output bool

	cmd := &cobra.Command{
		Use:   "schema TOOL",
		Short: "Print the JSON schema of a tool",
		Example: heredoc.Doc(`
			# Input schema of the YouTube video search
			aigotools schema YouTubeSearchVideos

			# Output schema instead
			aigotools schema YouTubeSearchVideos --output`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			info := t.ToolInfo()
			schema := info.Parameters
			if output {
				schema = info.Output
			}
			if schema == nil {
				return fmt.Errorf("tool %s has no schema", info.Name)
			}
			fmt.Fprintln(a.Out, schema.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&output, "output", false, "print the output schema instead of the input schema")
	return cmd
}
