// Package depgraph maintains the project-wide module dependency graph
//: forward/reverse edges, invalidation closure, and Kahn-style
// dependency layering for the parallel analyzer.
package depgraph

import (
	"sort"
	"sync"

	"github.com/hashicorp/go-set/v3"

	"github.com/GriffinCanCode/gradualtype/internal/modid"
)

// Graph is a concurrency-safe module dependency graph keyed by ModuleId.
// Edge sets are backed by hashicorp/go-set per module; go-set iterates
// in no fixed order, so ids drawn from them are sorted before they are
// returned.
type Graph struct {
	mu       sync.RWMutex
	metadata map[modid.ModuleId]modid.Metadata
	forward  map[modid.ModuleId]*set.Set[modid.ModuleId] // id -> ids it imports
	reverse  map[modid.ModuleId]*set.Set[modid.ModuleId] // id -> ids that import it
}

// New creates an empty dependency graph.
func New() *Graph {
	return &Graph{
		metadata: make(map[modid.ModuleId]modid.Metadata),
		forward:  make(map[modid.ModuleId]*set.Set[modid.ModuleId]),
		reverse:  make(map[modid.ModuleId]*set.Set[modid.ModuleId]),
	}
}

// AddModule registers or updates a module's metadata and edges. It is
// idempotent: a re-add overwrites the previous hash and edge set rather
// than accumulating duplicates.
func (g *Graph) AddModule(meta modid.Metadata) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.forward[meta.Id]; ok {
		for _, dep := range old.Slice() {
			if rev, ok := g.reverse[dep]; ok {
				rev.Remove(meta.Id)
			}
		}
	}

	g.metadata[meta.Id] = meta
	fwd := set.New[modid.ModuleId](len(meta.Imports))
	for _, dep := range meta.Imports {
		fwd.Insert(dep)
		rev, ok := g.reverse[dep]
		if !ok {
			rev = set.New[modid.ModuleId](1)
			g.reverse[dep] = rev
		}
		rev.Insert(meta.Id)
	}
	g.forward[meta.Id] = fwd
	if _, ok := g.reverse[meta.Id]; !ok {
		g.reverse[meta.Id] = set.New[modid.ModuleId](0)
	}
}

// HasChanged reports whether newHash differs from the stored ContentHash
// for id. An unregistered module is always considered changed.
func (g *Graph) HasChanged(id modid.ModuleId, newHash modid.ContentHash) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	meta, ok := g.metadata[id]
	if !ok {
		return true
	}
	return !meta.Content.Equal(newHash)
}

// Invalidate returns the BFS closure over reverse edges, seeded by
// changed, including the seeds themselves.
func (g *Graph) Invalidate(changed []modid.ModuleId) []modid.ModuleId {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := set.New[modid.ModuleId](len(changed))
	queue := make([]modid.ModuleId, 0, len(changed))
	for _, id := range changed {
		if visited.Insert(id) {
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		rev, ok := g.reverse[cur]
		if !ok {
			continue
		}
		for _, dependent := range rev.Slice() {
			if visited.Insert(dependent) {
				queue = append(queue, dependent)
			}
		}
	}
	out := visited.Slice()
	sortIds(out)
	return out
}

// CircularMember flags a module that belongs to a dependency cycle and
// was appended to the final degenerate layer.
type CircularMember struct {
	Id    modid.ModuleId
	Cycle []modid.ModuleId
}

// Layers computes Kahn-style dependency layers: layer 0 holds
// modules with no dependencies; layer k+1 holds modules whose
// dependencies are all resolved by layers 0..k. Modules caught in a
// cycle are never emitted by the main Kahn pass; they are appended as
// one final degenerate layer, each flagged via circular.
func (g *Graph) Layers() (layers [][]modid.ModuleId, circular []CircularMember) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	remaining := make(map[modid.ModuleId]int, len(g.forward))
	for id, deps := range g.forward {
		remaining[id] = deps.Size()
	}

	resolved := set.New[modid.ModuleId](len(remaining))
	for len(remaining) > 0 {
		var layer []modid.ModuleId
		for id, n := range remaining {
			if n == 0 {
				layer = append(layer, id)
			}
		}
		if len(layer) == 0 {
			break // everything left is in a cycle
		}
		sortIds(layer)
		layers = append(layers, layer)
		for _, id := range layer {
			resolved.Insert(id)
			delete(remaining, id)
		}
		for id := range remaining {
			deps := g.forward[id]
			count := 0
			for _, d := range deps.Slice() {
				if !resolved.Contains(d) {
					count++
				}
			}
			remaining[id] = count
		}
	}

	if len(remaining) > 0 {
		var cycleIds []modid.ModuleId
		for id := range remaining {
			cycleIds = append(cycleIds, id)
		}
		sortIds(cycleIds)
		layers = append(layers, cycleIds)
		for _, id := range cycleIds {
			circular = append(circular, CircularMember{Id: id, Cycle: cycleIds})
		}
	}

	return layers, circular
}

func sortIds(ids []modid.ModuleId) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
