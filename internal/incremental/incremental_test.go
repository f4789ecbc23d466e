package incremental

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gradualtype/internal/depgraph"
	"github.com/GriffinCanCode/gradualtype/internal/modid"
)

func TestInvalidReturnsAllWhenDisabled(t *testing.T) {
	g := depgraph.New()
	all := []modid.ModuleId{1, 2, 3}
	e := New(g, false)
	require.Equal(t, all, e.Invalid(all))
}

func TestInvalidReturnsClosureWhenEnabled(t *testing.T) {
	a, b, c := modid.ModuleId(1), modid.ModuleId(2), modid.ModuleId(3)
	g := depgraph.New()
	g.AddModule(modid.Metadata{Id: a})
	g.AddModule(modid.Metadata{Id: b, Imports: []modid.ModuleId{a}})
	g.AddModule(modid.Metadata{Id: c, Imports: []modid.ModuleId{b}})

	e := New(g, true)
	e.MarkChanged(a)

	require.ElementsMatch(t, []modid.ModuleId{a, b, c}, e.Invalid(nil))
}

func TestInvalidEmptyWhenNothingDirty(t *testing.T) {
	g := depgraph.New()
	e := New(g, true)
	require.Empty(t, e.Invalid(nil))
}

func TestClearResetsDirtySet(t *testing.T) {
	g := depgraph.New()
	g.AddModule(modid.Metadata{Id: 1})
	e := New(g, true)
	e.MarkChanged(1)
	e.Clear()
	require.Empty(t, e.Invalid(nil))
}

func TestNeedsRecheckDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.gt")
	require.NoError(t, os.WriteFile(path, []byte("let x = 1"), 0o644))

	id := modid.FromPath(path)
	g := depgraph.New()
	g.AddModule(modid.Metadata{Id: id, Content: modid.FromBytes([]byte("let x = 1"))})

	changed, err := NeedsRecheck(g, id, path)
	require.NoError(t, err)
	require.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("let x = 2"), 0o644))
	changed, err = NeedsRecheck(g, id, path)
	require.NoError(t, err)
	require.True(t, changed)
}
