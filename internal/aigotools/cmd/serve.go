package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/leofalp/aigotools/internal/mcpserver"
)

func newCmdServe(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured tools over MCP on stdio",
		Long: heredoc.Doc(`
			Serve every configured tool to an MCP client over stdin and stdout.
			Logs go to stderr. The accumulated cost of the session is logged on exit.
		`),
		Example: heredoc.Doc(`
			# Register with an MCP client
			{"command": "aigotools", "args": ["serve"], "env": {"BRAVE_SEARCH_API_KEY": "..."}}`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			catalog, err := a.catalog(ctx)
			if err != nil {
				return err
			}
			srv, err := mcpserver.New(catalog,
				mcpserver.WithVersion(Version),
				mcpserver.WithObserver(a.observer),
			)
			if err != nil {
				return err
			}
			return srv.ServeStdio(ctx, a.In, a.Out)
		},
	}
}
