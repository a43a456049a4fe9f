package cost

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ToolMetrics is the static cost and quality profile of a tool.
type ToolMetrics struct {
	// Amount charged per call.
	Amount float64 `json:"amount"`
	// Currency of Amount, USD when empty.
	Currency string `json:"currency,omitempty"`
	// CostDescription qualifies the amount, e.g. "per search query".
	CostDescription string `json:"cost_description,omitempty"`
	// Accuracy is a 0..1 reliability estimate.
	Accuracy float64 `json:"accuracy,omitempty"`
	// AverageDurationInMillis is the typical wall time of one call.
	AverageDurationInMillis int64 `json:"average_duration_ms,omitempty"`
}

// String renders "0.005000 USD (per search query)".
func (m ToolMetrics) String() string {
	currency := m.Currency
	if currency == "" {
		currency = "USD"
	}
	s := fmt.Sprintf("%.6f %s", m.Amount, currency)
	if m.CostDescription != "" {
		s += " (" + m.CostDescription + ")"
	}
	return s
}

// DynamicCost is implemented by tool outputs that carry a vendor reported
// cost for the call that produced them.
type DynamicCost interface {
	CallCost() float64
}

// Summary tallies calls and spend per tool. The zero value is not usable;
// call NewSummary.
type Summary struct {
	mu     sync.Mutex
	calls  map[string]int
	spend  map[string]float64
	errors map[string]int
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{
		calls:  make(map[string]int),
		spend:  make(map[string]float64),
		errors: make(map[string]int),
	}
}

// Add records one successful call of tool. A positive dynamic cost replaces
// the static amount for that call.
func (s *Summary) Add(tool string, metrics *ToolMetrics, dynamic float64) {
	amount := dynamic
	if amount <= 0 && metrics != nil {
		amount = metrics.Amount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[tool]++
	s.spend[tool] += amount
}

// AddError records one failed call of tool. Failed calls are not charged.
func (s *Summary) AddError(tool string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[tool]++
}

// Total is the spend across all tools.
func (s *Summary) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, v := range s.spend {
		total += v
	}
	return total
}

// Calls returns how many successful calls tool made.
func (s *Summary) Calls(tool string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[tool]
}

// Errors returns how many calls of tool failed.
func (s *Summary) Errors(tool string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors[tool]
}

// String lists tools alphabetically with their call count and spend.
func (s *Summary) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.calls))
	for name := range s.calls {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	var total float64
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %d calls, $%.6f\n", name, s.calls[name], s.spend[name])
		total += s.spend[name]
	}
	fmt.Fprintf(&b, "total: $%.6f", total)
	return b.String()
}
