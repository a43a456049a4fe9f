package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/core/parse"
	"github.com/leofalp/aigotools/internal/jsonschema"
	"github.com/leofalp/aigotools/providers/observability"
)

// Description is what a tool advertises to its callers: an agent, the MCP
// server or the CLI.
type Description struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
	Output      *jsonschema.Schema `json:"output,omitempty"`
	Metrics     *cost.ToolMetrics  `json:"metrics,omitempty"`
}

// Tool binds a name and description to a typed function. JSON schemas for
// the input I and output O are derived by reflection in [NewTool].
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Output      *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
	// Metrics holds the static cost and performance profile of one call.
	Metrics *cost.ToolMetrics
}

// Outcome is the result of [GenericTool.Execute].
type Outcome struct {
	// Output is the JSON encoded tool output.
	Output string
	// DynamicCost is the per-call cost reported by the output, when the
	// output implements [cost.DynamicCost].
	DynamicCost float64
	Duration    time.Duration
}

// GenericTool is the type-erased view of a [Tool] used by catalogs and
// dispatchers.
type GenericTool interface {
	ToolInfo() Description

	// Call parses inputJSON, runs the tool and returns its JSON output.
	Call(ctx context.Context, inputJSON string) (string, error)

	// Execute is Call with the per-call cost and duration.
	Execute(ctx context.Context, inputJSON string) (*Outcome, error)

	// GetMetrics returns the static metrics, or nil.
	GetMetrics() *cost.ToolMetrics
}

type funcToolOptions struct {
	Description string
	Metrics     *cost.ToolMetrics
}

// WithDescription sets the text shown to whoever picks the tool.
func WithDescription(description string) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Description = description
	}
}

// WithMetrics sets the cost and performance profile of the tool.
func WithMetrics(toolMetrics cost.ToolMetrics) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Metrics = &toolMetrics
	}
}

// NewTool builds a [Tool] around function.
//
// Example:
//
//	searchTool := tool.NewTool("BraveSearch", bravesearch.Search,
//	    tool.WithDescription("Searches the web."),
//	    tool.WithMetrics(cost.ToolMetrics{Amount: 0.005, Currency: "USD"}),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(tool *funcToolOptions)) *Tool[I, O] {
	toolOptions := &funcToolOptions{}
	for _, option := range options {
		option(toolOptions)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: toolOptions.Description,
		Parameters:  jsonschema.GenerateJSONSchema[I](),
		Output:      jsonschema.GenerateJSONSchema[O](),
		Function:    function,
		Metrics:     toolOptions.Metrics,
	}
}

// ToolInfo returns the tool's [Description].
func (t *Tool[I, O]) ToolInfo() Description {
	return Description{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
		Output:      t.Output,
		Metrics:     t.Metrics,
	}
}

// Call runs the tool and returns its JSON output.
func (t *Tool[I, O]) Call(ctx context.Context, inputJSON string) (string, error) {
	outcome, err := t.Execute(ctx, inputJSON)
	if err != nil {
		return "", err
	}
	return outcome.Output, nil
}

// Execute parses inputJSON leniently into I, runs the function and encodes
// the output. Span events are added to the span carried by ctx, and call
// metrics are recorded on the provider carried by ctx.
func (t *Tool[I, O]) Execute(ctx context.Context, inputJSON string) (*Outcome, error) {
	span := observability.SpanFromContext(ctx)
	obs := observability.OrNop(observability.ProviderFromContext(ctx))
	nameAttr := observability.String(observability.AttrToolName, t.Name)

	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			nameAttr,
			observability.String(observability.AttrToolInput, observability.TruncateString(inputJSON, observability.DefaultMaxStringLength)),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd, nameAttr)
	}

	start := time.Now()
	obs.Counter(observability.MetricToolCalls).Add(ctx, 1, nameAttr)

	failed := func(err error) (*Outcome, error) {
		obs.Counter(observability.MetricToolErrors).Add(ctx, 1, nameAttr)
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(
				observability.String(observability.AttrToolError, err.Error()),
				observability.Duration(observability.AttrToolDuration, time.Since(start)),
			)
		}
		return nil, err
	}

	parsedInput, err := parse.ParseStringAs[I](inputJSON)
	if err != nil {
		return failed(fmt.Errorf("invalid input for tool %s: %w", t.Name, err))
	}

	output, err := t.Function(ctx, parsedInput)
	if err != nil {
		return failed(err)
	}

	outputBytes, err := json.Marshal(output)
	if err != nil {
		return failed(fmt.Errorf("error marshaling output of tool %s: %w", t.Name, err))
	}

	outcome := &Outcome{Output: string(outputBytes), Duration: time.Since(start)}
	if dc, ok := any(output).(cost.DynamicCost); ok {
		outcome.DynamicCost = dc.CallCost()
	}
	obs.Histogram(observability.MetricToolDuration).Record(ctx, float64(outcome.Duration.Milliseconds()), nameAttr)

	if span != nil {
		attrs := []observability.Attribute{
			observability.String(observability.AttrToolOutput, observability.TruncateString(outcome.Output, observability.DefaultMaxStringLength)),
			observability.Duration(observability.AttrToolDuration, outcome.Duration),
		}
		if t.Metrics != nil {
			attrs = append(attrs,
				observability.Float64(observability.AttrToolCostAmount, t.Metrics.Amount),
				observability.String(observability.AttrToolCostCurrency, t.Metrics.Currency),
			)
			if t.Metrics.CostDescription != "" {
				attrs = append(attrs, observability.String(observability.AttrToolCostDescription, t.Metrics.CostDescription))
			}
			if t.Metrics.Accuracy > 0 {
				attrs = append(attrs, observability.Float64(observability.AttrToolAccuracy, t.Metrics.Accuracy))
			}
			if t.Metrics.AverageDurationInMillis > 0 {
				attrs = append(attrs, observability.Int64(observability.AttrToolAvgDurationMs, t.Metrics.AverageDurationInMillis))
			}
		}
		if outcome.DynamicCost > 0 {
			attrs = append(attrs, observability.Float64(observability.AttrToolCostDynamic, outcome.DynamicCost))
		}
		span.SetAttributes(attrs...)
	}

	return outcome, nil
}

// GetMetrics returns the static metrics, or nil.
func (t *Tool[I, O]) GetMetrics() *cost.ToolMetrics {
	return t.Metrics
}
