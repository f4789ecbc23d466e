// Package analyzer implements the parallel analyzer: given a
// set of modules, it computes dependency layers (internal/depgraph),
// runs a worker pool per layer with a strict barrier between layers,
// consulting the result cache (internal/rescache) and the
// incremental engine (internal/incremental) so unchanged modules are
// served without re-running inference (internal/infer) and the effect
// analyzer (internal/effects).
package analyzer

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/gradualtype/internal/ast"
	"github.com/GriffinCanCode/gradualtype/internal/depgraph"
	"github.com/GriffinCanCode/gradualtype/internal/diag"
	"github.com/GriffinCanCode/gradualtype/internal/incremental"
	"github.com/GriffinCanCode/gradualtype/internal/infer"
	"github.com/GriffinCanCode/gradualtype/internal/metrics"
	"github.com/GriffinCanCode/gradualtype/internal/modid"
	"github.com/GriffinCanCode/gradualtype/internal/rescache"
	"github.com/GriffinCanCode/gradualtype/internal/tenv"
	"github.com/GriffinCanCode/gradualtype/internal/types"
)

// Source is one module offered for analysis: its canonical path, raw
// text (for content hashing), the AST already produced by the external
// parser, and the resolved file paths of its imports (so the
// dependency graph can be built without this package knowing anything
// about import-resolution rules).
type Source struct {
	Path    string
	Content []byte
	AST     *ast.Module
	Imports []string
}

// ModuleResult is one module's analysis outcome.
type ModuleResult struct {
	Module      modid.ModuleId
	Path        string
	Diagnostics []diag.Diagnostic
	Types       []rescache.TypeBinding
	CacheHit    bool
}

// EventKind names the points in a run an Event hook may observe.
type EventKind string

const (
	EventLayerStart      EventKind = "layer_start"
	EventModuleStart     EventKind = "module_start"
	EventModuleDone      EventKind = "module_done"
	EventCircular        EventKind = "circular"
	EventCacheWriteError EventKind = "cache_write_error"
)

// Event is delivered to an optional caller-supplied hook. Internal
// packages never log or print; the hook is how the CLI (or a test)
// observes per-module progress without the core depending on an
// output sink.
type Event struct {
	Kind   EventKind
	Layer  int
	Module string // path, empty for layer-level events
	Hit    bool
	Err    error // set on EventCacheWriteError
}

// Config holds the options this component consumes directly.
type Config struct {
	Workers            int
	MaxErrorsPerModule int
	Incremental        bool
}

// Analyzer drives the dependency graph (layers), the result cache,
// and the incremental engine (dirty set) over a worker pool.
type Analyzer struct {
	Graph   *depgraph.Graph
	Cache   *rescache.Cache
	Classes *tenv.ClassRegistry
	Incr    *incremental.Engine
	Cfg     Config
	OnEvent func(Event)

	// Metrics is an optional instrument a caller threads in to observe
	// per-module timings and counters for a run. Nil disables collection
	// entirely; internal/* otherwise stays silent.
	Metrics *metrics.Collector
}

// New creates an Analyzer. graph and cache may be freshly constructed
// or reused across runs (the cache in particular is meant to persist
// across invocations); classes is the shared, insert-if-absent class
// registry every module's Inferer reads through.
func New(graph *depgraph.Graph, cache *rescache.Cache, classes *tenv.ClassRegistry, incr *incremental.Engine, cfg Config, onEvent func(Event)) *Analyzer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Analyzer{Graph: graph, Cache: cache, Classes: classes, Incr: incr, Cfg: cfg, OnEvent: onEvent}
}

func (a *Analyzer) emit(e Event) {
	if a.OnEvent != nil {
		a.OnEvent(e)
	}
}

// timeModule starts a per-module timing measurement if Metrics is
// configured; otherwise it is a no-op stop function.
func (a *Analyzer) timeModule() func() {
	if a.Metrics == nil {
		return func() {}
	}
	return a.Metrics.Time("analyze.module")
}

func (a *Analyzer) count(name string) {
	if a.Metrics != nil {
		a.Metrics.Increment(name)
	}
}

// Analyze registers every source's identity and edges in the
// dependency graph, computes layers, and runs analysis per layer with
// a strict barrier between layers and a bounded worker pool within a
// layer. A module that failed to parse (nil AST) becomes a PAR001
// diagnostic for that module; other modules continue. A panic during
// one module's analysis is not recovered.
func (a *Analyzer) Analyze(ctx context.Context, sources []Source) ([]ModuleResult, error) {
	byPath := make(map[string]Source, len(sources))
	idOf := make(map[string]modid.ModuleId, len(sources))
	for _, src := range sources {
		byPath[src.Path] = src
		idOf[src.Path] = modid.FromPath(src.Path)
	}

	allIds := make([]modid.ModuleId, 0, len(sources))
	byId := make(map[modid.ModuleId]Source, len(sources))
	for _, src := range sources {
		id := idOf[src.Path]
		allIds = append(allIds, id)
		byId[id] = src

		imports := make([]modid.ModuleId, 0, len(src.Imports))
		for _, imp := range src.Imports {
			if impID, ok := idOf[imp]; ok {
				imports = append(imports, impID)
			}
		}
		a.Graph.AddModule(modid.Metadata{
			Id:      id,
			Path:    src.Path,
			Content: modid.FromBytes(src.Content),
			Imports: imports,
		})
	}

	toAnalyze := allIds
	if a.Cfg.Incremental && a.Incr != nil {
		toAnalyze = a.Incr.Invalid(allIds)
	}
	wanted := make(map[modid.ModuleId]bool, len(toAnalyze))
	for _, id := range toAnalyze {
		wanted[id] = true
	}

	layers, circular := a.Graph.Layers()
	circularSet := make(map[modid.ModuleId]bool, len(circular))
	for _, c := range circular {
		circularSet[c.Id] = true
		if src, ok := byId[c.Id]; ok {
			a.count("circular")
			a.emit(Event{Kind: EventCircular, Module: src.Path})
		}
	}

	var (
		mu      sync.Mutex
		results []ModuleResult
	)

	for layerIdx, layer := range layers {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		a.emit(Event{Kind: EventLayerStart, Layer: layerIdx})

		group, gctx := errgroup.WithContext(ctx)
		group.SetLimit(a.Cfg.Workers)

		for _, id := range layer {
			id := id
			src, ok := byId[id]
			if !ok || !wanted[id] {
				continue
			}
			if gctx.Err() != nil {
				break
			}
			group.Go(func() error {
				res := a.analyzeOne(src, circularSet[id])
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return results, err
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	if a.Cfg.Incremental && a.Incr != nil {
		a.Incr.Clear()
	}
	return results, nil
}

// analyzeOne runs the per-module pipeline: probe the
// cache, and on miss run inference + effect analysis, then write back.
func (a *Analyzer) analyzeOne(src Source, circular bool) ModuleResult {
	stop := a.timeModule()
	defer stop()

	id := modid.FromPath(src.Path)
	hash := modid.FromBytes(src.Content)
	key := rescache.Key{Module: id, Content: hash}

	a.emit(Event{Kind: EventModuleStart, Module: src.Path})

	if entry, ok := a.Cache.Get(key); ok {
		a.count("cache.hit")
		a.emit(Event{Kind: EventModuleDone, Module: src.Path, Hit: true})
		return ModuleResult{Module: id, Path: src.Path, Diagnostics: entry.Errors, Types: entry.Types, CacheHit: true}
	}
	a.count("cache.miss")

	diagnostics, bindings := a.runModule(src, circular)

	entry := &rescache.Entry{Module: id, Content: hash, Types: bindings, Errors: diagnostics}
	if b, err := json.Marshal(entry); err == nil {
		entry.SizeBytes = int64(len(b))
	}
	// Cache write failures never fail the module, but they are surfaced
	// through OnEvent/Metrics so a caller that wants visibility has
	// somewhere to look; the core itself never logs.
	if err := a.Cache.Put(key, entry); err != nil {
		a.count("cache.write_error")
		a.emit(Event{Kind: EventCacheWriteError, Module: src.Path, Err: err})
	}

	a.emit(Event{Kind: EventModuleDone, Module: src.Path, Hit: false})
	return ModuleResult{Module: id, Path: src.Path, Diagnostics: diagnostics, Types: bindings, CacheHit: false}
}

// runModule executes inference over one module's AST and renders its
// top-level bindings for the cache entry. A nil AST (the external
// parser failed) becomes a synthetic TypeError rather than a panic.
func (a *Analyzer) runModule(src Source, circular bool) ([]diag.Diagnostic, []rescache.TypeBinding) {
	if src.AST == nil {
		return []diag.Diagnostic{{
			Code: diag.PAR001, Phase: diag.PhaseParse, File: src.Path,
			Message: "module failed to parse; analysis skipped",
		}}, nil
	}

	i := infer.New(src.Path, src.Content, a.Classes, a.Cfg.MaxErrorsPerModule)
	i.InferModule(src.AST)

	diagnostics := i.Diags.Diagnostics()
	if circular {
		diagnostics = append(diagnostics, diag.Diagnostic{
			Code: diag.TC010, Phase: diag.PhaseDepGraph, File: src.Path,
			Message: "module participates in a circular import dependency",
		})
	}

	names := diag.SortStable(i.Env().Names())
	bindings := make([]rescache.TypeBinding, 0, len(names))
	for _, name := range names {
		t, ok := i.Env().Lookup(name)
		if !ok {
			continue
		}
		bindings = append(bindings, rescache.TypeBinding{Name: name, Type: types.Display(t)})
	}
	return diagnostics, bindings
}
