//go:build integration

package exa

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

func requireKey(t *testing.T) context.Context {
	t.Helper()
	if os.Getenv(envAPIKey) == "" {
		t.Skip("EXA_API_KEY not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestExaSearch_Integration(t *testing.T) {
	ctx := requireKey(t)

	output, err := Search(ctx, SearchInput{Query: "Go programming language", NumResults: 3})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(output.Results) == 0 || len(output.Results) > 3 {
		t.Errorf("unexpected result count %d", len(output.Results))
	}
	for i, r := range output.Results {
		if r.URL == "" {
			t.Errorf("result %d: expected non-empty URL", i)
		}
	}
	t.Logf("search cost: $%.4f", output.CostDollars)
}

func TestExaSearchAdvanced_Integration(t *testing.T) {
	ctx := requireKey(t)

	output, err := SearchAdvanced(ctx, SearchInput{
		Query:             "machine learning research papers",
		NumResults:        2,
		Category:          "research paper",
		IncludeHighlights: true,
	})
	if err != nil {
		t.Fatalf("SearchAdvanced failed: %v", err)
	}
	if len(output.Results) == 0 {
		t.Error("expected at least one result")
	}
	t.Logf("resolved search type: %s", output.ResolvedSearchType)
}

func TestExaFindSimilar_Integration(t *testing.T) {
	ctx := requireKey(t)

	output, err := FindSimilar(ctx, SimilarInput{URL: "https://go.dev", NumResults: 3})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(output.Results) == 0 {
		t.Error("expected at least one similar page")
	}
}

func TestExaAnswer_Integration(t *testing.T) {
	ctx := requireKey(t)

	output, err := Answer(ctx, AnswerInput{Query: "Who created the Go programming language?"})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if output.Answer == "" {
		t.Error("expected non-empty answer")
	}
	t.Logf("answer with %d citations: %s", len(output.Citations), output.Answer)
}

func TestExaGetContents_Integration(t *testing.T) {
	ctx := requireKey(t)

	output, err := GetContents(ctx, ContentsInput{URLs: []string{"https://go.dev/doc/"}})
	if err != nil {
		t.Fatalf("GetContents failed: %v", err)
	}
	if len(output.Results) != 1 {
		t.Errorf("got %d results, want 1", len(output.Results))
	}
}
