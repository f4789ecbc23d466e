package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Reflexivity.
func TestIsSubtypeReflexive(t *testing.T) {
	cases := []Type{
		Int, Str, Bool, None,
		&List{Elem: Int},
		&Dict{Key: Str, Value: Int},
		&Function{Params: []Type{Int}, Return: Bool},
		&Class{Name: "Widget"},
	}
	for _, c := range cases {
		require.True(t, IsSubtype(c, c), "expected %s <: %s", c, c)
	}
}

// Never and Any are bottom and top.
func TestIsSubtypeNeverAny(t *testing.T) {
	ty := &List{Elem: &Function{Params: []Type{Int, Str}, Return: Bool}}
	require.True(t, IsSubtype(Never, ty))
	require.True(t, IsSubtype(ty, Any))
}

// UnionType/subtype left-distributivity.
func TestUnionLeftDistributive(t *testing.T) {
	a, b, c := Int, Str, Union([]Type{Int, Str, Bool})
	require.Equal(t, IsSubtype(Union([]Type{a, b}), c), IsSubtype(a, c) && IsSubtype(b, c))
	require.True(t, IsSubtype(Union([]Type{a, b}), c))

	notC := Union([]Type{Int, Bool}) // Str is not a member
	require.False(t, IsSubtype(Union([]Type{a, b}), notC))
}

// Containers are covariant in their element types.
func TestContainerCovariance(t *testing.T) {
	wide := Union([]Type{Int, Str})
	require.True(t, IsSubtype(&List{Elem: Int}, &List{Elem: wide}))
	require.False(t, IsSubtype(&List{Elem: wide}, &List{Elem: Int}))

	require.True(t, IsSubtype(&Set{Elem: Int}, &Set{Elem: wide}))
	require.True(t, IsSubtype(
		&Dict{Key: Str, Value: Int},
		&Dict{Key: Str, Value: wide}))
	require.False(t, IsSubtype(
		&Dict{Key: wide, Value: Int},
		&Dict{Key: Str, Value: Int}))
}

// Function variance.
func TestFunctionVariance(t *testing.T) {
	sub := &Function{Params: []Type{Any}, Return: Int}
	sup := &Function{Params: []Type{Int}, Return: Union([]Type{Int, Str})}
	require.True(t, IsSubtype(sub, sup), "contravariant params, covariant return")

	notSub := &Function{Params: []Type{Int}, Return: Any}
	notSup := &Function{Params: []Type{Any}, Return: Int}
	require.False(t, IsSubtype(notSub, notSup))
}

// UnionType idempotence and identity.
func TestUnionIdempotenceAndIdentity(t *testing.T) {
	x := Union([]Type{Int, Str})
	require.True(t, Equals(Union([]Type{x, Int, Str}), x))
	require.True(t, Equals(Union([]Type{Int}), Int))
	require.True(t, Equals(Union(nil), Never))
}

// IntersectionType identity.
func TestIntersectionIdentity(t *testing.T) {
	require.True(t, Equals(Intersection([]Type{Int}), Int))
	require.True(t, Equals(Intersection(nil), Any))
	require.True(t, Equals(Intersection([]Type{Int, Any}), Int))
}

func TestUnionDropsSubsumedMembers(t *testing.T) {
	// A class-free Int is subsumed by Union(Int, Str); dropping Never and
	// ordering aside, the union of {Int, Never, Int} collapses to Int.
	got := Union([]Type{Int, Never, Int})
	require.True(t, Equals(got, Int))
}

func TestUnionWideFastPath(t *testing.T) {
	members := make([]Type, 0, 12)
	for i := 0; i < 12; i++ {
		members = append(members, &Class{Name: "C"})
	}
	members = append(members, Int)
	got := Union(members)
	require.True(t, Equals(got, Union([]Type{&Class{Name: "C"}, Int})))
}

// Effect subsumption.
func TestEffectSubsumption(t *testing.T) {
	e1 := &Effect{Inner: Int, Set: NewEffectSet(EffIO)}
	e2 := &Effect{Inner: Int, Set: NewEffectSet(EffIO, EffNetwork)}
	require.True(t, IsSubtype(e1, e2))
	require.False(t, IsSubtype(e2, e1))
}

func TestRefinementSubtyping(t *testing.T) {
	positive := &Refinement{Base: Int, Pred: Compare(OpGt, Value(), IntLit(0))}
	nonneg := &Refinement{Base: Int, Pred: Or(
		Compare(OpGt, Value(), IntLit(0)),
		Compare(OpEq, Value(), IntLit(0)),
	)}
	require.True(t, positive.Pred.Implies(nonneg.Pred))
	require.True(t, IsSubtype(positive, nonneg))
}

func TestRecursiveUnfoldAndProductivity(t *testing.T) {
	// rec List. None | Tuple[Int, Class(List)] — productive: the back
	// reference sits inside a Tuple.
	body := Union([]Type{None, &Tuple{Elems: []Type{Int, &Class{Name: "IntList"}}}})
	require.True(t, IsProductiveRecursive("IntList", body))

	rec := &Recursive{Name: "IntList", Body: body}
	unfolded := Unfold(rec)
	// The back-edge should now point at rec itself, one level deep.
	u, ok := unfolded.(*UnionType)
	require.True(t, ok)
	found := false
	for _, m := range u.Members {
		if tup, ok := m.(*Tuple); ok {
			require.True(t, Equals(tup.Elems[1], rec))
			found = true
		}
	}
	require.True(t, found)

	// rec Bad. Class(Bad) is unproductive: an unguarded self-reference.
	require.False(t, IsProductiveRecursive("Bad", &Class{Name: "Bad"}))
}

func TestConditionalIsOpaque(t *testing.T) {
	c1 := &Conditional{Cond: Cond{Op: CondExtends, A: Int, B: Any}, Then: Str, Else: Bool}
	c2 := &Conditional{Cond: Cond{Op: CondExtends, A: Int, B: Any}, Then: Str, Else: Bool}
	c3 := &Conditional{Cond: Cond{Op: CondExtends, A: Str, B: Any}, Then: Str, Else: Bool}
	require.True(t, IsSubtype(c1, c2), "syntactically identical Conditionals relate")
	require.False(t, IsSubtype(c1, c3))
}
