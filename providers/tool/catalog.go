package tool

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Catalog is the set of tools exposed by the CLI and the MCP server. Names
// are matched case-insensitively. A Catalog is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]GenericTool
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tools: map[string]GenericTool{}}
}

// NewCatalogWithTools returns a catalog holding tools.
func NewCatalogWithTools(tools ...GenericTool) *Catalog {
	c := NewCatalog()
	c.AddTools(tools...)
	return c
}

// AddTools registers tools under their ToolInfo name. A later tool with
// the same name replaces the earlier one; nil tools are ignored.
func (c *Catalog) AddTools(tools ...GenericTool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		if t != nil {
			c.tools[key(t.ToolInfo().Name)] = t
		}
	}
}

// Get returns the tool registered as name.
func (c *Catalog) Get(name string) (GenericTool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[key(name)]
	return t, ok
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Names returns the registered names, lower-cased and sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.tools))
}

// Descriptions returns the [Description] of every tool in name order.
func (c *Catalog) Descriptions() []Description {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Description, 0, len(c.tools))
	for _, name := range slices.Sorted(maps.Keys(c.tools)) {
		out = append(out, c.tools[name].ToolInfo())
	}
	return out
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
