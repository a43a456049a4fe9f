package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/providers/observability/slogobs"
	"github.com/leofalp/aigotools/providers/tool"
)

type echoInput struct {
	Text string `json:"text" jsonschema:"description=Text to echo,required"`
}

type echoOutput struct {
	Text string  `json:"text"`
	Cost float64 `json:"cost,omitempty"`
}

func (o echoOutput) CallCost() float64 { return o.Cost }

func testCatalog() *tool.Catalog {
	echo := tool.NewTool[echoInput, echoOutput]("Echo",
		func(_ context.Context, in echoInput) (echoOutput, error) {
			if in.Text == "fail" {
				return echoOutput{}, errors.New("echo refused")
			}
			out := echoOutput{Text: strings.ToUpper(in.Text)}
			if in.Text == "paid" {
				out.Cost = 0.25
			}
			return out, nil
		},
		tool.WithDescription("Echo text back in upper case."),
		tool.WithMetrics(cost.ToolMetrics{Amount: 0.01, Currency: "USD"}),
	)
	ping := tool.NewTool[struct{}, string]("Ping",
		func(context.Context, struct{}) (string, error) { return "pong", nil },
	)
	return tool.NewCatalogWithTools(echo, ping)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(testCatalog(), WithName("test"), WithVersion("1.0.0"), WithObserver(slogobs.New(slogobs.WithOutput(io.Discard))))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %+v", res)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestToolsList(t *testing.T) {
	s := newTestServer(t)

	resp := s.MCP().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	tools := gjson.GetBytes(raw, "result.tools")
	if n := len(tools.Array()); n != 2 {
		t.Fatalf("expected 2 tools, got %d: %s", n, raw)
	}

	echo := gjson.GetBytes(raw, `result.tools.#(name=="Echo")`)
	if got := echo.Get("description").String(); got != "Echo text back in upper case." {
		t.Errorf("unexpected description %q", got)
	}
	if got := echo.Get("inputSchema.properties.text.type").String(); got != "string" {
		t.Errorf("expected text property of type string, got %q", got)
	}
	if got := echo.Get("inputSchema.required.0").String(); got != "text" {
		t.Errorf("expected text to be required, got %q", got)
	}

	ping := gjson.GetBytes(raw, `result.tools.#(name=="Ping")`)
	if got := ping.Get("inputSchema.type").String(); got != "object" {
		t.Errorf("expected object schema for Ping, got %q", got)
	}
}

func TestCallTool(t *testing.T) {
	s := newTestServer(t)
	t1, _ := testCatalog().Get("echo")

	res, err := s.handler(t1)(context.Background(), callRequest("Echo", map[string]any{"text": "hi"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != `{"text":"HI"}` {
		t.Errorf("unexpected output %s", got)
	}
	if s.Summary().Calls("Echo") != 1 {
		t.Errorf("expected one recorded call")
	}
	if total := s.Summary().Total(); total != 0.01 {
		t.Errorf("expected static cost 0.01, got %f", total)
	}
}

func TestCallToolDynamicCost(t *testing.T) {
	s := newTestServer(t)
	echo, _ := testCatalog().Get("echo")

	if _, err := s.handler(echo)(context.Background(), callRequest("Echo", map[string]any{"text": "paid"})); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if total := s.Summary().Total(); total != 0.25 {
		t.Errorf("expected dynamic cost 0.25, got %f", total)
	}
}

func TestCallToolError(t *testing.T) {
	s := newTestServer(t)
	echo, _ := testCatalog().Get("echo")

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"tool failure", map[string]any{"text": "fail"}, "echo refused"},
		{"bad input", map[string]any{"text": []int{1, 2}}, "invalid input for tool Echo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handler(echo)(context.Background(), callRequest("Echo", tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if !res.IsError {
				t.Fatal("expected tool error result")
			}
			if got := resultText(t, res); !strings.Contains(got, tt.want) {
				t.Errorf("expected %q in %q", tt.want, got)
			}
		})
	}

	if got := s.Summary().Errors("Echo"); got != 2 {
		t.Errorf("expected 2 recorded errors, got %d", got)
	}
	if s.Summary().Total() != 0 {
		t.Error("failed calls must not be charged")
	}
}

func TestCallToolWithoutArguments(t *testing.T) {
	s := newTestServer(t)
	ping, _ := testCatalog().Get("ping")

	res, err := s.handler(ping)(context.Background(), callRequest("Ping", nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if got := resultText(t, res); got != `"pong"` {
		t.Errorf("unexpected output %s", got)
	}
}

func TestCallToolThroughMessages(t *testing.T) {
	s := newTestServer(t)

	resp := s.MCP().HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"Echo","arguments":{"text":"go"}}}`))
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	if got := gjson.GetBytes(raw, "result.content.0.text").String(); got != `{"text":"GO"}` {
		t.Errorf("unexpected response %s", raw)
	}
}

func TestServeStdioStopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	in, _ := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeStdio(ctx, in, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error after cancel, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ServeStdio did not stop after cancel")
	}
}
