// Package cmd implements the aigotools command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/leofalp/aigotools/internal/aigotools/config"
	"github.com/leofalp/aigotools/providers/observability"
	"github.com/leofalp/aigotools/providers/observability/slogobs"
	"github.com/leofalp/aigotools/providers/observability/zerologobs"
	"github.com/leofalp/aigotools/providers/tool"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=v1.2.3".
var Version = "dev"

// IOStreams are the standard streams a command reads and writes.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type catalogBuilder func(ctx context.Context, cfg *config.Config, obs observability.Provider) (*tool.Catalog, error)

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	IOStreams

	viper      *viper.Viper
	configPath string
	envFile    string
	build      catalogBuilder

	cfg      *config.Config
	observer observability.Provider
}

// NewDefaultAigotoolsCommand creates the `aigotools` command bound to the
// process streams.
func NewDefaultAigotoolsCommand() *cobra.Command {
	return NewAigotoolsCommand(os.Stdin, os.Stdout, os.Stderr)
}

func NewAigotoolsCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return newCommand(IOStreams{In: in, Out: out, ErrOut: errOut}, buildCatalog)
}

func newCommand(streams IOStreams, build catalogBuilder) *cobra.Command {
	a := &app{IOStreams: streams, viper: viper.New(), build: build}

	cmds := &cobra.Command{
		Use:   "aigotools",
		Short: "aigotools runs search and API tools for agents",
		Long: heredoc.Doc(`
			aigotools exposes web search, page fetching, Google Calendar, YouTube and X
			as tools with JSON input and output.

			Run a single tool from the shell with "aigotools call", or serve every
			configured tool to an MCP client over stdio with "aigotools serve".

			Credentials are read from flags, AIGOTOOLS_* variables, the provider
			variables (BRAVE_SEARCH_API_KEY, EXA_API_KEY, YOUTUBE_API_KEY, X_*,
			GOOGLE_*), a .env file and an optional YAML config file.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmds.SetIn(streams.In)
	cmds.SetOut(streams.Out)
	cmds.SetErr(streams.ErrOut)

	flags := cmds.PersistentFlags()
	addGlobalFlags(flags, a)
	bindFlags(a.viper, flags)

	cmds.AddCommand(
		newCmdList(a),
		newCmdCall(a),
		newCmdSchema(a),
		newCmdServe(a),
		newCmdVersion(a),
	)
	return cmds
}

func addGlobalFlags(flags *pflag.FlagSet, a *app) {
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("log-backend", config.DefaultLogBackend, "logging backend: slog or zerolog")
	flags.String("log-level", config.DefaultLogLevel, "log level: trace, debug, info, warn or error")
	flags.String("log-format", config.DefaultLogFormat, "log format: compact, json or console")
	flags.Duration("timeout", config.DefaultTimeout, "timeout of a single tool call")
	flags.Int("retries", config.DefaultRetries, "retries of a failed page fetch on 429 and 5xx responses")
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for key, name := range map[string]string{
		"log.backend": "log-backend",
		"log.level":   "log-level",
		"log.format":  "log-format",
		"timeout":     "timeout",
		"retries":     "retries",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func (a *app) init(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.viper, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.observer = newObserver(cfg.Log, a.ErrOut)
	cmd.SetContext(observability.ContextWithProvider(cmd.Context(), a.observer))
	return nil
}

func (a *app) catalog(ctx context.Context) (*tool.Catalog, error) {
	catalog, err := a.build(ctx, a.cfg, a.observer)
	if err != nil {
		return nil, err
	}
	a.observer.Debug(ctx, "Tool catalog ready", observability.Int(observability.AttrMCPToolCount, catalog.Size()))
	return catalog, nil
}

func (a *app) lookup(ctx context.Context, name string) (tool.GenericTool, error) {
	catalog, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool %q, run \"aigotools list\" to see the available tools", name)
	}
	return t, nil
}

// newObserver writes logs to w, which is stderr so stdout stays free for
// results and the MCP transport.
func newObserver(cfg config.LogConfig, w io.Writer) observability.Provider {
	if cfg.Backend == "zerolog" {
		return zerologobs.New(
			zerologobs.WithOutput(w),
			zerologobs.WithLevelName(cfg.Level),
			zerologobs.WithConsole(cfg.Format != "json"),
		)
	}
	return slogobs.New(
		slogobs.WithOutput(w),
		slogobs.WithLevel(slogobs.ParseLevel(cfg.Level)),
		slogobs.WithFormat(slogobs.ParseFormat(cfg.Format)),
	)
}
