package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gradualtype/internal/ast"
	"github.com/GriffinCanCode/gradualtype/internal/depgraph"
	"github.com/GriffinCanCode/gradualtype/internal/incremental"
	"github.com/GriffinCanCode/gradualtype/internal/metrics"
	"github.com/GriffinCanCode/gradualtype/internal/modid"
	"github.com/GriffinCanCode/gradualtype/internal/rescache"
	"github.com/GriffinCanCode/gradualtype/internal/tenv"
)

// assignModule builds `name = 1` as a single-statement module, enough
// to exercise inference without depending on an external parser.
func assignModule(path, name string) *ast.Module {
	return &ast.Module{
		Path: path,
		File: path,
		Body: []ast.Stmt{
			&ast.AssignStmt{Target: name, Value: &ast.Literal{Kind: ast.LitInt, Raw: "1"}},
		},
	}
}

func newAnalyzer(t *testing.T, cfg Config) *Analyzer {
	t.Helper()
	cache, err := rescache.New("", 100)
	require.NoError(t, err)
	graph := depgraph.New()
	return New(graph, cache, tenv.NewBuiltinClassRegistry(), incremental.New(graph, cfg.Incremental), cfg, nil)
}

func TestAnalyzeSingleModuleNoDiagnostics(t *testing.T) {
	a := newAnalyzer(t, Config{Workers: 2, MaxErrorsPerModule: 10})
	sources := []Source{{Path: "/a.py", Content: []byte("x = 1\n"), AST: assignModule("/a.py", "x")}}

	results, err := a.Analyze(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Empty(t, results[0].Diagnostics)
	require.False(t, results[0].CacheHit)
	require.Contains(t, results[0].Types, rescache.TypeBinding{Name: "x", Type: "int"})
}

func TestAnalyzeSecondRunHitsCache(t *testing.T) {
	a := newAnalyzer(t, Config{Workers: 2, MaxErrorsPerModule: 10})
	sources := []Source{{Path: "/a.py", Content: []byte("x = 1\n"), AST: assignModule("/a.py", "x")}}

	_, err := a.Analyze(context.Background(), sources)
	require.NoError(t, err)

	results, err := a.Analyze(context.Background(), sources)
	require.NoError(t, err)
	require.True(t, results[0].CacheHit)
	require.Equal(t, int64(1), a.Cache.Stats().Hits)
}

func TestAnalyzeLinearDependencyOrder(t *testing.T) {
	// A, B, C with imports B->A, C->B: every module must still
	// be analyzed and layering must not crash on inter-module edges.
	a := newAnalyzer(t, Config{Workers: 4, MaxErrorsPerModule: 10})
	sources := []Source{
		{Path: "/a.py", Content: []byte("x = 1\n"), AST: assignModule("/a.py", "x")},
		{Path: "/b.py", Content: []byte("y = 1\n"), AST: assignModule("/b.py", "y"), Imports: []string{"/a.py"}},
		{Path: "/c.py", Content: []byte("z = 1\n"), AST: assignModule("/c.py", "z"), Imports: []string{"/b.py"}},
	}

	results, err := a.Analyze(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, results, 3)

	layers, circular := a.Graph.Layers()
	require.Empty(t, circular)
	require.Len(t, layers, 3)
}

func TestAnalyzeFlagsCircularDependency(t *testing.T) {
	a := newAnalyzer(t, Config{Workers: 2, MaxErrorsPerModule: 10})
	sources := []Source{
		{Path: "/a.py", Content: []byte("x = 1\n"), AST: assignModule("/a.py", "x"), Imports: []string{"/b.py"}},
		{Path: "/b.py", Content: []byte("y = 1\n"), AST: assignModule("/b.py", "y"), Imports: []string{"/a.py"}},
	}

	results, err := a.Analyze(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NotEmpty(t, r.Diagnostics)
	}
}

func TestAnalyzeNilASTBecomesParseDiagnostic(t *testing.T) {
	a := newAnalyzer(t, Config{Workers: 1, MaxErrorsPerModule: 10})
	sources := []Source{{Path: "/broken.py", Content: []byte("???")}}

	results, err := a.Analyze(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Diagnostics, 1)
	require.Equal(t, "PAR001", string(results[0].Diagnostics[0].Code))
}

func TestAnalyzeIncrementalFiltersToMarkedModules(t *testing.T) {
	graph := depgraph.New()
	cache, err := rescache.New("", 100)
	require.NoError(t, err)
	incr := incremental.New(graph, true)
	a := New(graph, cache, tenv.NewBuiltinClassRegistry(), incr, Config{Workers: 2, MaxErrorsPerModule: 10, Incremental: true}, nil)

	sources := []Source{
		{Path: "/a.py", Content: []byte("x = 1\n"), AST: assignModule("/a.py", "x")},
		{Path: "/b.py", Content: []byte("y = 1\n"), AST: assignModule("/b.py", "y")},
	}
	incr.MarkChanged(modid.FromPath("/a.py"))

	results, err := a.Analyze(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "/a.py", results[0].Path)
}

func TestAnalyzeRecordsMetricsWhenConfigured(t *testing.T) {
	a := newAnalyzer(t, Config{Workers: 2, MaxErrorsPerModule: 10})
	a.Metrics = metrics.New("gtc_test")
	sources := []Source{{Path: "/a.py", Content: []byte("x = 1\n"), AST: assignModule("/a.py", "x")}}

	_, err := a.Analyze(context.Background(), sources)
	require.NoError(t, err)
	_, err = a.Analyze(context.Background(), sources)
	require.NoError(t, err)

	summary := a.Metrics.Summary()
	require.Equal(t, int64(1), summary.Counters["cache.miss"])
	require.Equal(t, int64(1), summary.Counters["cache.hit"])
	require.Contains(t, summary.Timings, "analyze.module")
	require.Equal(t, 2, summary.Timings["analyze.module"].Count)
}

func TestAnalyzeRespectsCancellation(t *testing.T) {
	a := newAnalyzer(t, Config{Workers: 1, MaxErrorsPerModule: 10})
	sources := []Source{{Path: "/a.py", Content: []byte("x = 1\n"), AST: assignModule("/a.py", "x")}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Analyze(ctx, sources)
	require.Error(t, err)
}
