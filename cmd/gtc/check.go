package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/gradualtype/internal/analyzer"
	"github.com/GriffinCanCode/gradualtype/internal/ast"
	"github.com/GriffinCanCode/gradualtype/internal/config"
	"github.com/GriffinCanCode/gradualtype/internal/depgraph"
	"github.com/GriffinCanCode/gradualtype/internal/frontend"
	"github.com/GriffinCanCode/gradualtype/internal/incremental"
	"github.com/GriffinCanCode/gradualtype/internal/metrics"
	"github.com/GriffinCanCode/gradualtype/internal/modid"
	"github.com/GriffinCanCode/gradualtype/internal/rescache"
	"github.com/GriffinCanCode/gradualtype/internal/tenv"
)

// runCheck type-checks every .gt file reachable from roots and prints a
// diagnostic + summary report. It returns false if any
// module produced a diagnostic, so main can set a non-zero exit code.
func runCheck(cfg config.Config, roots []string) bool {
	files, err := collectFiles(roots)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return false
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no .gt files found under %v\n", yellow("Warning"), roots)
		return true
	}

	sources, parseErrs := loadSources(files)
	for _, e := range parseErrs {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), e)
	}

	graph := depgraph.New()
	cache, err := rescache.New(cfg.CacheDir, cfg.CacheMaxMB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return false
	}
	incr := incremental.New(graph, cfg.Incremental)
	// A fresh process has no record of earlier runs, so every loaded
	// module counts as changed; unchanged content is still served by the
	// cache.
	for _, src := range sources {
		incr.MarkChanged(modid.FromPath(src.Path))
	}

	a := analyzer.New(graph, cache, tenv.NewBuiltinClassRegistry(), incr, analyzer.Config{
		Workers:            cfg.ResolveWorkers(),
		MaxErrorsPerModule: cfg.MaxErrorsPerModule,
		Incremental:        cfg.Incremental,
	}, func(ev analyzer.Event) {
		switch ev.Kind {
		case analyzer.EventCircular:
			fmt.Printf("%s %s participates in a circular import\n", yellow("⟳"), ev.Module)
		case analyzer.EventCacheWriteError:
			fmt.Fprintf(os.Stderr, "%s: cache write for %s failed: %v\n", yellow("Warning"), ev.Module, ev.Err)
		}
	})
	a.Metrics = metrics.New("gtc")

	results, err := a.Analyze(context.Background(), sources)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return false
	}

	clean := true
	for _, r := range results {
		if len(r.Diagnostics) > 0 {
			clean = false
			fmt.Printf("%s %s\n", red("✗"), r.Path)
			for _, d := range r.Diagnostics {
				fmt.Printf("  %s %s\n", red(string(d.Code)), d.Message)
				for _, s := range d.Suggestions {
					fmt.Printf("    %s %s\n", dim("hint:"), s)
				}
			}
			continue
		}
		hit := ""
		if r.CacheHit {
			hit = dim(" (cached)")
		}
		fmt.Printf("%s %s%s\n", green("✓"), r.Path, hit)
	}

	for _, cycle := range circularClusters(graph) {
		clean = false
		fmt.Printf("%s %s %s\n", red("✗"), red("DEP001"), describeCycle(cycle, sources))
	}

	stats := cache.Stats()
	fmt.Printf("\n%s modules checked: %d, cache hits: %d, misses: %d, evictions: %d\n",
		cyan("→"), len(results), stats.Hits, stats.Misses, stats.Evictions)

	if report := a.Metrics.Summary().Report(); report != "" {
		fmt.Printf("\n%s\n%s", dim("performance:"), dim(report))
	}

	if clean {
		fmt.Printf("%s No type errors found!\n", green("✓"))
	}
	return clean && len(parseErrs) == 0
}

func collectFiles(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".gt") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// loadSources parses every file into an analyzer.Source, resolving
// dotted import paths to sibling .gt files relative to the working
// directory (the minimal module-resolution rule this front end needs;
// a production resolver would live outside the core).
func loadSources(files []string) ([]analyzer.Source, []error) {
	var sources []analyzer.Source
	var errs []error
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", f, err))
			continue
		}
		mod, perr := frontend.Parse(f, content)
		src := analyzer.Source{Path: f, Content: content}
		if perr != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", f, perr))
		} else {
			src.AST = mod
			src.Imports = resolveImports(mod)
		}
		sources = append(sources, src)
	}
	return sources, errs
}

// circularClusters dedups depgraph.Layers' per-member cycle reporting
// down to one entry per distinct cycle, for the graph-level DEP001
// diagnostic (distinct from the per-module TC010 flag).
func circularClusters(graph *depgraph.Graph) [][]modid.ModuleId {
	_, circular := graph.Layers()
	seen := map[string]bool{}
	var clusters [][]modid.ModuleId
	for _, c := range circular {
		key := ""
		for _, id := range c.Cycle {
			key += id.Hex() + ","
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		clusters = append(clusters, c.Cycle)
	}
	return clusters
}

func describeCycle(cycle []modid.ModuleId, sources []analyzer.Source) string {
	byId := make(map[modid.ModuleId]string, len(sources))
	for _, src := range sources {
		byId[modid.FromPath(src.Path)] = src.Path
	}
	paths := make([]string, 0, len(cycle))
	for _, id := range cycle {
		if p, ok := byId[id]; ok {
			paths = append(paths, p)
		} else {
			paths = append(paths, id.Hex())
		}
	}
	return strings.Join(paths, " -> ")
}

func resolveImports(mod *ast.Module) []string {
	var resolved []string
	for _, stmt := range mod.Body {
		imp, ok := stmt.(*ast.ImportStmt)
		if !ok {
			continue
		}
		candidate := strings.ReplaceAll(imp.Path, ".", string(filepath.Separator)) + ".gt"
		if _, err := os.Stat(candidate); err == nil {
			resolved = append(resolved, candidate)
		}
	}
	return resolved
}
