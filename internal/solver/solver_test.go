package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gradualtype/internal/tenv"
	"github.com/GriffinCanCode/gradualtype/internal/types"
)

func TestUnifyBindsVariable(t *testing.T) {
	sub := NewSubstitution()
	v := &types.Var{ID: 1}
	require.NoError(t, Unify(sub, v, types.Int))
	require.True(t, types.Equals(sub.Apply(v), types.Int))
}

func TestUnifyOccursCheckFails(t *testing.T) {
	sub := NewSubstitution()
	v := &types.Var{ID: 7}
	cyclic := &types.List{Elem: v}
	err := Unify(sub, v, cyclic)
	require.Error(t, err)
}

func TestUnifyStructuralRecursion(t *testing.T) {
	sub := NewSubstitution()
	v1, v2 := &types.Var{ID: 1}, &types.Var{ID: 2}
	a := &types.List{Elem: v1}
	b := &types.List{Elem: v2}
	require.NoError(t, Unify(sub, a, b))
	require.NoError(t, Unify(sub, v2, types.Str))
	require.True(t, types.Equals(sub.Apply(v1), types.Str))
}

func TestSolveSubtypeRecordsBound(t *testing.T) {
	s := New(tenv.NewBuiltinClassRegistry())
	v := &types.Var{ID: 1}
	errs := s.Solve([]Constraint{Subtype(v, types.Int)})
	require.Empty(t, errs)
	bound, ok := s.Bound(1)
	require.True(t, ok)
	require.True(t, types.Equals(bound, types.Int))
}

func TestSolveNumericDefersOnVar(t *testing.T) {
	s := New(tenv.NewBuiltinClassRegistry())
	v := &types.Var{ID: 3}
	errs := s.Solve([]Constraint{Numeric(v)})
	// Never resolved within the cap: no failure recorded, simply unresolved.
	require.Empty(t, errs)
}

func TestSolveNumericFailsOnNonNumeric(t *testing.T) {
	s := New(tenv.NewBuiltinClassRegistry())
	errs := s.Solve([]Constraint{Numeric(types.Str)})
	require.Len(t, errs, 1)
}

func TestSolveHashableRejectsContainers(t *testing.T) {
	s := New(tenv.NewBuiltinClassRegistry())
	errs := s.Solve([]Constraint{Hashable(&types.List{Elem: types.Int})})
	require.Len(t, errs, 1)

	s2 := New(tenv.NewBuiltinClassRegistry())
	errs2 := s2.Solve([]Constraint{Hashable(&types.Tuple{Elems: []types.Type{types.Int, types.Str}})})
	require.Empty(t, errs2)
}

func TestSolveCallableChecksArityAndVariance(t *testing.T) {
	s := New(tenv.NewBuiltinClassRegistry())
	fn := &types.Function{Params: []types.Type{types.Any}, Return: types.Int}
	errs := s.Solve([]Constraint{Callable(fn, []types.Type{types.Str}, types.Union([]types.Type{types.Int, types.Str}))})
	require.Empty(t, errs)

	s2 := New(tenv.NewBuiltinClassRegistry())
	errs2 := s2.Solve([]Constraint{Callable(fn, []types.Type{types.Str, types.Str}, types.Int)})
	require.Len(t, errs2, 1, "arity mismatch must fail")
}

func TestSolveHasAttributeResolvesThroughBuiltins(t *testing.T) {
	s := New(tenv.NewBuiltinClassRegistry())
	result := &types.Var{ID: 9}
	errs := s.Solve([]Constraint{HasAttribute(&types.Class{Name: "str"}, "upper", result)})
	require.Empty(t, errs)
	require.True(t, types.Equals(s.Sub.Apply(result), &types.Function{Return: types.Str}))
}

func TestSolveBoundedConflictFails(t *testing.T) {
	s := New(tenv.NewBuiltinClassRegistry())
	v := &types.Var{ID: 1}
	errs := s.Solve([]Constraint{
		Subtype(v, types.Int),
		Subtype(v, types.Str),
	})
	require.NotEmpty(t, errs)
}
