package depgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gradualtype/internal/modid"
)

func meta(id modid.ModuleId, imports ...modid.ModuleId) modid.Metadata {
	return modid.Metadata{Id: id, Imports: imports}
}

func TestAddModuleIsIdempotent(t *testing.T) {
	a, b := modid.ModuleId(1), modid.ModuleId(2)
	g := New()
	g.AddModule(meta(a))
	g.AddModule(meta(b, a))
	g.AddModule(meta(b, a)) // re-add with identical edges must not duplicate

	invalid := g.Invalidate([]modid.ModuleId{a})
	require.ElementsMatch(t, []modid.ModuleId{a, b}, invalid)
}

func TestLayersLinearChain(t *testing.T) {
	// A, B, C with imports B->A, C->B.
	a, b, c := modid.ModuleId(1), modid.ModuleId(2), modid.ModuleId(3)
	g := New()
	g.AddModule(meta(a))
	g.AddModule(meta(b, a))
	g.AddModule(meta(c, b))

	layers, circular := g.Layers()
	require.Empty(t, circular)
	require.Equal(t, [][]modid.ModuleId{{a}, {b}, {c}}, layers)
}

func TestInvalidationClosure(t *testing.T) {
	a, b, c := modid.ModuleId(1), modid.ModuleId(2), modid.ModuleId(3)
	g := New()
	g.AddModule(meta(a))
	g.AddModule(meta(b, a))
	g.AddModule(meta(c, b))

	invalid := g.Invalidate([]modid.ModuleId{a})
	require.ElementsMatch(t, []modid.ModuleId{a, b, c}, invalid)
}

func TestHasChangedUnregisteredIsTrue(t *testing.T) {
	g := New()
	require.True(t, g.HasChanged(modid.ModuleId(99), modid.ContentHash{}))
}

func TestHasChangedComparesContentHash(t *testing.T) {
	g := New()
	h1 := modid.FromBytes([]byte("v1"))
	h2 := modid.FromBytes([]byte("v2"))
	m := modid.Metadata{Id: 1, Content: h1}
	g.AddModule(m)

	require.False(t, g.HasChanged(1, h1))
	require.True(t, g.HasChanged(1, h2))
}

func TestLayersFlagsCircularDependency(t *testing.T) {
	a, b := modid.ModuleId(1), modid.ModuleId(2)
	g := New()
	g.AddModule(meta(a, b))
	g.AddModule(meta(b, a))

	layers, circular := g.Layers()
	require.Len(t, layers, 1)
	require.Len(t, circular, 2)
	for _, c := range circular {
		require.ElementsMatch(t, []modid.ModuleId{a, b}, c.Cycle)
	}
}

func TestAddModuleOverwritesEdges(t *testing.T) {
	a, b, c := modid.ModuleId(1), modid.ModuleId(2), modid.ModuleId(3)
	g := New()
	g.AddModule(meta(a))
	g.AddModule(meta(b))
	g.AddModule(meta(c, a))
	g.AddModule(meta(c, b)) // c now depends on b, not a

	invalid := g.Invalidate([]modid.ModuleId{a})
	require.ElementsMatch(t, []modid.ModuleId{a}, invalid)
}
