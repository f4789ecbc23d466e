// Package incremental tracks a dirty set of changed modules and
// exposes the set of modules that need re-analysis, delegating
// invalidation closure to internal/depgraph and change detection to
// internal/modid.
package incremental

import (
	"os"
	"sync"

	"github.com/GriffinCanCode/gradualtype/internal/depgraph"
	"github.com/GriffinCanCode/gradualtype/internal/modid"
)

// Engine tracks which modules have changed since the last analysis run.
type Engine struct {
	mu      sync.Mutex
	graph   *depgraph.Graph
	dirty   map[modid.ModuleId]struct{}
	enabled bool
}

// New creates an Engine over graph. When enabled is false, Invalid
// always returns every module in graph, matching "all modules (when
// disabled)".
func New(graph *depgraph.Graph, enabled bool) *Engine {
	return &Engine{graph: graph, dirty: make(map[modid.ModuleId]struct{}), enabled: enabled}
}

// MarkChanged records id as dirty.
func (e *Engine) MarkChanged(id modid.ModuleId) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty[id] = struct{}{}
}

// Invalid returns the set of modules that must be re-analyzed: the
// closure of the dirty set under the dependency graph in incremental
// mode, or every known module when incremental mode is disabled.
func (e *Engine) Invalid(allModules []modid.ModuleId) []modid.ModuleId {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return allModules
	}
	if len(e.dirty) == 0 {
		return nil
	}
	seeds := make([]modid.ModuleId, 0, len(e.dirty))
	for id := range e.dirty {
		seeds = append(seeds, id)
	}
	return e.graph.Invalidate(seeds)
}

// Clear resets the dirty set, typically after a full analysis pass
// completes and results have been written back to the cache.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = make(map[modid.ModuleId]struct{})
}

// NeedsRecheck hashes the file at path and compares it against the
// ContentHash already recorded for id, reporting true if they differ
// or if the file cannot be read.
func NeedsRecheck(graph *depgraph.Graph, id modid.ModuleId, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return true, err
	}
	hash := modid.FromBytes(data)
	return graph.HasChanged(id, hash), nil
}
