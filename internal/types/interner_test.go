package types

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternerSeedsWellKnownPrimitives(t *testing.T) {
	in := NewInterner()
	for _, p := range AllPrimitives {
		id := in.Intern(p)
		require.Equal(t, uint64(p.Kind), id)
	}
}

func TestInternerIdsNeverRecycle(t *testing.T) {
	in := NewInterner()
	id1 := in.Intern(&Class{Name: "A"})
	id2 := in.Intern(&Class{Name: "B"})
	require.NotEqual(t, id1, id2)
	require.True(t, in.Contains(&Class{Name: "A"}))
	require.Equal(t, id1, in.Intern(&Class{Name: "A"}), "re-interning returns the same id")
}

func TestInternerConcurrentInsert(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	ids := make([]uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = in.Intern(&Generic{Name: "Box", Args: []Type{Int}})
		}(i)
	}
	wg.Wait()
	first := ids[0]
	for _, id := range ids {
		require.Equal(t, first, id, "concurrent interning of the same type converges on one id")
	}
}

func TestTypeDisplayRoundTrips(t *testing.T) {
	u := Union([]Type{Int, Str, Bool})
	again := Union([]Type{u, Int})
	require.Equal(t, Display(u), Display(again))
}
