// Package mcpserver serves a tool catalog over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/providers/observability"
	"github.com/leofalp/aigotools/providers/tool"
)

const (
	DefaultName    = "aigotools"
	DefaultVersion = "dev"
)

var emptyObjectSchema = json.RawMessage(`{"type":"object"}`)

// Server exposes every tool of a catalog as an MCP tool.
type Server struct {
	name     string
	version  string
	observer observability.Provider
	summary  *cost.Summary

	mcp   *server.MCPServer
	tools int
}

// Option configures a Server.
type Option func(*Server)

// WithName sets the server name reported on initialize. Defaults to [DefaultName].
func WithName(name string) Option {
	return func(s *Server) { s.name = name }
}

// WithVersion sets the reported server version. Defaults to [DefaultVersion].
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithObserver sets the provider used for logs and tool call spans.
func WithObserver(p observability.Provider) Option {
	return func(s *Server) { s.observer = p }
}

// WithSummary records call counts and spend into summary instead of a
// private one.
func WithSummary(summary *cost.Summary) Option {
	return func(s *Server) { s.summary = summary }
}

// New registers every tool of catalog. It fails when a tool schema cannot
// be encoded.
func New(catalog *tool.Catalog, opts ...Option) (*Server, error) {
	s := &Server{name: DefaultName, version: DefaultVersion}
	for _, opt := range opts {
		opt(s)
	}
	s.observer = observability.OrNop(s.observer)
	if s.summary == nil {
		s.summary = cost.NewSummary()
	}

	s.mcp = server.NewMCPServer(s.name, s.version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, info := range catalog.Descriptions() {
		t, _ := catalog.Get(info.Name)
		schema := emptyObjectSchema
		if info.Parameters != nil {
			raw, err := info.Parameters.JSON()
			if err != nil {
				return nil, fmt.Errorf("error encoding schema of tool %s: %w", info.Name, err)
			}
			schema = raw
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(info.Name, info.Description, schema), s.handler(t))
		s.tools++
	}
	return s, nil
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Summary returns the running cost summary of served calls.
func (s *Server) Summary() *cost.Summary { return s.summary }

// ServeStdio speaks MCP over in/out until ctx is done or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	attrs := []observability.Attribute{
		observability.String(observability.AttrMCPServerName, s.name),
		observability.Int(observability.AttrMCPToolCount, s.tools),
	}
	s.observer.Info(ctx, "MCP server listening on stdio", attrs...)

	err := server.NewStdioServer(s.mcp).Listen(ctx, in, out)

	s.observer.Info(ctx, "MCP server stopped",
		append(attrs, observability.Float64(observability.AttrCostTotal, s.summary.Total()))...)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func (s *Server) handler(t tool.GenericTool) server.ToolHandlerFunc {
	info := t.ToolInfo()
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = observability.ContextWithProvider(ctx, s.observer)
		ctx, span := s.observer.StartSpan(ctx, observability.SpanMCPToolCall,
			observability.String(observability.AttrToolName, info.Name))
		defer span.End()

		input := "{}"
		if args := req.GetArguments(); len(args) > 0 {
			raw, err := json.Marshal(args)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
			input = string(raw)
		}

		start := time.Now()
		outcome, err := t.Execute(ctx, input)
		if err != nil {
			s.summary.AddError(info.Name)
			span.RecordError(err)
			span.SetStatus(observability.StatusError, err.Error())
			s.observer.Warn(ctx, "Tool call failed",
				observability.String(observability.AttrToolName, info.Name),
				observability.Duration(observability.AttrToolDuration, time.Since(start)),
				observability.Error(err),
			)
			return mcp.NewToolResultError(err.Error()), nil
		}

		s.summary.Add(info.Name, t.GetMetrics(), outcome.DynamicCost)
		span.SetStatus(observability.StatusOK, "")
		s.observer.Debug(ctx, "Tool call served",
			observability.String(observability.AttrToolName, info.Name),
			observability.Duration(observability.AttrToolDuration, outcome.Duration),
			observability.Float64(observability.AttrToolCostDynamic, outcome.DynamicCost),
		)
		return mcp.NewToolResultText(outcome.Output), nil
	}
}
