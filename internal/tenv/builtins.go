package tenv

import "github.com/GriffinCanCode/gradualtype/internal/types"

// NewBuiltinClassRegistry builds the shared class registry seeded with
// schemas for the language's built-in container and scalar classes,
// limited to the small, fixed vocabulary the inferer needs for built-in
// attribute resolution (str/list/dict/set method tables). Method
// signatures omit the implicit receiver; argument checking against a
// resolved method type happens the same way as any other Callable
// constraint in the solver.
func NewBuiltinClassRegistry() *ClassRegistry {
	r := NewClassRegistry()

	str := NewClassSchema("str").
		WithMethod("upper", &types.Function{Return: types.Str}).
		WithMethod("lower", &types.Function{Return: types.Str}).
		WithMethod("strip", &types.Function{Return: types.Str}).
		WithMethod("split", &types.Function{Params: []types.Type{types.Str}, Return: &types.List{Elem: types.Str}}).
		WithMethod("join", &types.Function{Params: []types.Type{&types.List{Elem: types.Str}}, Return: types.Str}).
		WithMethod("replace", &types.Function{Params: []types.Type{types.Str, types.Str}, Return: types.Str}).
		WithMethod("startswith", &types.Function{Params: []types.Type{types.Str}, Return: types.Bool}).
		WithMethod("endswith", &types.Function{Params: []types.Type{types.Str}, Return: types.Bool}).
		WithMethod("format", &types.Function{Params: []types.Type{types.Any}, Return: types.Str}).
		WithMethod("encode", &types.Function{Return: types.Bytes})
	r.RegisterIfAbsent(str)

	bytesSchema := NewClassSchema("bytes").
		WithMethod("decode", &types.Function{Return: types.Str})
	r.RegisterIfAbsent(bytesSchema)

	listElem := types.Any
	list := NewClassSchema("list").
		WithMethod("append", &types.Function{Params: []types.Type{listElem}, Return: types.None}).
		WithMethod("extend", &types.Function{Params: []types.Type{&types.List{Elem: listElem}}, Return: types.None}).
		WithMethod("pop", &types.Function{Return: listElem}).
		WithMethod("sort", &types.Function{Return: types.None}).
		WithMethod("index", &types.Function{Params: []types.Type{listElem}, Return: types.Int}).
		WithMethod("count", &types.Function{Params: []types.Type{listElem}, Return: types.Int})
	r.RegisterIfAbsent(list)

	dict := NewClassSchema("dict").
		WithMethod("get", &types.Function{Params: []types.Type{types.Any}, Return: types.Any}).
		WithMethod("keys", &types.Function{Return: &types.List{Elem: types.Any}}).
		WithMethod("values", &types.Function{Return: &types.List{Elem: types.Any}}).
		WithMethod("items", &types.Function{Return: &types.List{Elem: &types.Tuple{Elems: []types.Type{types.Any, types.Any}}}}).
		WithMethod("update", &types.Function{Params: []types.Type{types.Any}, Return: types.None}).
		WithMethod("pop", &types.Function{Params: []types.Type{types.Any}, Return: types.Any})
	r.RegisterIfAbsent(dict)

	set := NewClassSchema("set").
		WithMethod("add", &types.Function{Params: []types.Type{types.Any}, Return: types.None}).
		WithMethod("discard", &types.Function{Params: []types.Type{types.Any}, Return: types.None}).
		WithMethod("union", &types.Function{Params: []types.Type{types.Any}, Return: types.Any}).
		WithMethod("intersection", &types.Function{Params: []types.Type{types.Any}, Return: types.Any})
	r.RegisterIfAbsent(set)

	object := NewClassSchema("object")
	r.RegisterIfAbsent(object)

	return r
}
