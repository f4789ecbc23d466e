package tenv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gradualtype/internal/types"
)

func TestFreshVarNeverRepeats(t *testing.T) {
	a := FreshVar()
	b := FreshVar()
	require.NotEqual(t, a.ID, b.ID)
}

func TestTypeEnvShadowing(t *testing.T) {
	root := NewTypeEnv(NewClassRegistry())
	root.Bind("x", types.Int)

	child := root.Child()
	child.Bind("x", types.Str)

	v, ok := child.Lookup("x")
	require.True(t, ok)
	require.True(t, types.Equals(v, types.Str))

	v, ok = root.Lookup("x")
	require.True(t, ok)
	require.True(t, types.Equals(v, types.Int))
}

func TestTypeEnvLookupMiss(t *testing.T) {
	env := NewTypeEnv(NewClassRegistry())
	_, ok := env.Lookup("nope")
	require.False(t, ok)
}

func TestClassRegistryMRODiamond(t *testing.T) {
	r := NewClassRegistry()
	r.RegisterIfAbsent(NewClassSchema("Base").WithMethod("greet", &types.Function{Return: types.Str}))
	r.RegisterIfAbsent(NewClassSchema("Left", "Base"))
	r.RegisterIfAbsent(NewClassSchema("Right", "Base").WithMethod("greet", &types.Function{Return: types.Int}))
	r.RegisterIfAbsent(NewClassSchema("Diamond", "Left", "Right"))

	mro := r.MRO("Diamond")
	require.Equal(t, []string{"Diamond", "Left", "Base", "Right"}, mro)

	m, ok := r.ResolveMember("Diamond", "greet")
	require.True(t, ok)
	// Left comes before Right in MRO, so Base's greet (reached via Left)
	// wins over Right's override.
	fn := m.Type.(*types.Function)
	require.True(t, types.Equals(fn.Return, types.Str))
}

func TestHasAttributeUnionRequiresAllMembers(t *testing.T) {
	classes := NewBuiltinClassRegistry()
	env := NewTypeEnv(classes)

	u := types.Union([]types.Type{&types.Class{Name: "str"}, &types.Class{Name: "list"}})
	_, ok := env.HasAttribute(u, "append")
	require.False(t, ok, "append exists on list but not str")

	both := types.Union([]types.Type{&types.Class{Name: "list"}, &types.Class{Name: "list"}})
	_, ok = env.HasAttribute(both, "append")
	require.True(t, ok)
}

func TestHasAttributeDelegatesThroughRefinementAndEffect(t *testing.T) {
	classes := NewBuiltinClassRegistry()
	env := NewTypeEnv(classes)

	refined := &types.Refinement{Base: &types.Class{Name: "str"}, Pred: types.True()}
	rt, ok := env.HasAttribute(refined, "upper")
	require.True(t, ok)
	require.True(t, types.Equals(rt.(*types.Function).Return, types.Str))

	impure := &types.Effect{Inner: &types.Class{Name: "list"}, Set: types.NewEffectSet(types.EffMutation)}
	_, ok = env.HasAttribute(impure, "append")
	require.True(t, ok)
}

func TestHasAttributeOnPrimitiveAndContainerShapes(t *testing.T) {
	classes := NewBuiltinClassRegistry()
	env := NewTypeEnv(classes)

	// The shapes synthesis actually produces: a *Primitive for string
	// literals, *List/*Set/*Dict for container literals.
	ut, ok := env.HasAttribute(types.Str, "upper")
	require.True(t, ok)
	require.True(t, types.Equals(ut.(*types.Function).Return, types.Str))

	at, ok := env.HasAttribute(&types.List{Elem: types.Int}, "append")
	require.True(t, ok)
	require.True(t, types.Equals(at.(*types.Function).Return, types.None))

	kt, ok := env.HasAttribute(&types.Dict{Key: types.Str, Value: types.Int}, "keys")
	require.True(t, ok)
	require.IsType(t, &types.Function{}, kt)

	_, ok = env.HasAttribute(&types.Set{Elem: types.Int}, "add")
	require.True(t, ok)

	dt, ok := env.HasAttribute(types.Bytes, "decode")
	require.True(t, ok)
	require.True(t, types.Equals(dt.(*types.Function).Return, types.Str))

	_, ok = env.HasAttribute(types.Int, "upper")
	require.False(t, ok)

	require.Contains(t, env.AttributeCandidates(types.Str), "upper")
	require.Contains(t, env.AttributeCandidates(&types.List{Elem: types.Int}), "append")
}

func TestAttributeCandidatesSorted(t *testing.T) {
	classes := NewBuiltinClassRegistry()
	env := NewTypeEnv(classes)
	names := env.AttributeCandidates(&types.Class{Name: "str"})
	require.Contains(t, names, "upper")
	require.Contains(t, names, "lower")
	for i := 1; i < len(names); i++ {
		require.LessOrEqual(t, names[i-1], names[i], "candidates must be sorted for deterministic output")
	}
}
