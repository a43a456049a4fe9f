package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/leofalp/aigotools/core/cost"
)

var callExample = heredoc.Doc(`
	# Search the web with Brave
	aigotools call BraveSearch '{"query": "golang generics", "total_results": 25}'

	# Read the input from stdin
	echo '{"url": "https://go.dev"}' | aigotools call WebFetch -

	# Pretty print the output and report the cost of the call
	aigotools call ExaAnswer '{"query": "who maintains Go?"}' --pretty --cost`)

func newCmdCall(a *app) *cobra.Command {
	var pretty, showCost bool

	cmd := &cobra.Command{
		Use:   "call TOOL [INPUT|-]",
		Short: "Run one tool and print its JSON output",
		Long: heredoc.Doc(`
			Run one tool and print its JSON output on stdout.

			INPUT is a JSON object matching the tool schema (see "aigotools schema").
			Malformed JSON is repaired when possible. Use "-" to read it from stdin;
			without INPUT the tool gets an empty object.
		`),
		Example: callExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.readInput(args[1:])
			if err != nil {
				return err
			}

			t, err := a.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if a.cfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
				defer cancel()
			}

			outcome, err := t.Execute(ctx, input)
			if err != nil {
				return fmt.Errorf("%s failed: %w", t.ToolInfo().Name, err)
			}

			output := outcome.Output
			if pretty {
				var buf bytes.Buffer
				if json.Indent(&buf, []byte(output), "", "  ") == nil {
					output = buf.String()
				}
			}
			fmt.Fprintln(a.Out, output)

			if showCost {
				summary := cost.NewSummary()
				summary.Add(t.ToolInfo().Name, t.GetMetrics(), outcome.DynamicCost)
				fmt.Fprintf(a.ErrOut, "%s\nduration: %s\n", summary, outcome.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().BoolVar(&showCost, "cost", false, "print the cost and duration of the call on stderr")
	return cmd
}

func (a *app) readInput(args []string) (string, error) {
	if len(args) == 0 {
		return "{}", nil
	}
	if args[0] != "-" {
		return args[0], nil
	}
	b, err := io.ReadAll(a.In)
	if err != nil {
		return "", fmt.Errorf("error reading input from stdin: %w", err)
	}
	input := strings.TrimSpace(string(b))
	if input == "" {
		return "{}", nil
	}
	return input, nil
}
