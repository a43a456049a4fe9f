package tool

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
)

func namedTool(name string) *Tool[calcInput, calcOutput] {
	return NewTool(name, func(_ context.Context, in calcInput) (calcOutput, error) {
		return calcOutput{Result: in.Value}, nil
	}, WithDescription(name+" tool"))
}

func TestCatalog_Lookup(t *testing.T) {
	brave := namedTool("BraveSearch")
	catalog := NewCatalogWithTools(brave, namedTool("ExaAnswer"), nil)

	if catalog.Size() != 2 {
		t.Fatalf("expected 2 tools, got %d", catalog.Size())
	}

	tests := []struct {
		query string
		found bool
	}{
		{"BraveSearch", true},
		{"bravesearch", true},
		{"BRAVESEARCH", true},
		{"  BraveSearch ", true},
		{"exaanswer", true},
		{"GoogleSearch", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := catalog.Get(tt.query)
			if ok != tt.found || catalog.Has(tt.query) != tt.found {
				t.Fatalf("Get(%q): expected found=%v, got %v", tt.query, tt.found, ok)
			}
			if tt.query == "BraveSearch" && got != GenericTool(brave) {
				t.Error("Get returned a different tool")
			}
		})
	}
}

func TestCatalog_AddToolsReplacesByName(t *testing.T) {
	first := namedTool("WebFetch")
	second := namedTool("webfetch")
	catalog := NewCatalogWithTools(first)
	catalog.AddTools(second)

	if catalog.Size() != 1 {
		t.Fatalf("expected names differing only in case to collide, got %v", catalog.Names())
	}
	got, _ := catalog.Get("WebFetch")
	if got != GenericTool(second) {
		t.Error("expected the later registration to win")
	}
}

func TestCatalog_NamesAndDescriptions(t *testing.T) {
	catalog := NewCatalogWithTools(
		namedTool("YouTubeSearchVideos"),
		namedTool("BraveSearch"),
		namedTool("XGetFollowers"),
	)

	names := catalog.Names()
	want := []string{"bravesearch", "xgetfollowers", "youtubesearchvideos"}
	if !slices.Equal(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}

	descs := catalog.Descriptions()
	if len(descs) != 3 {
		t.Fatalf("expected 3 descriptions, got %d", len(descs))
	}
	if descs[0].Name != "BraveSearch" || descs[2].Name != "YouTubeSearchVideos" {
		t.Errorf("descriptions out of order: %s, %s", descs[0].Name, descs[2].Name)
	}
	if descs[1].Description != "XGetFollowers tool" {
		t.Errorf("unexpected description %q", descs[1].Description)
	}
}

func TestCatalog_Empty(t *testing.T) {
	catalog := NewCatalog()
	if catalog.Size() != 0 || len(catalog.Names()) != 0 || len(catalog.Descriptions()) != 0 {
		t.Error("expected an empty catalog")
	}
}

func TestCatalog_Concurrent(t *testing.T) {
	catalog := NewCatalog()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			catalog.AddTools(namedTool(fmt.Sprintf("tool%d", i%10)))
		}()
		go func() {
			defer wg.Done()
			catalog.Get(fmt.Sprintf("TOOL%d", i%10))
			catalog.Descriptions()
		}()
	}
	wg.Wait()

	if catalog.Size() != 10 {
		t.Errorf("expected 10 tools, got %d", catalog.Size())
	}
}
