package infer

import (
	"github.com/GriffinCanCode/gradualtype/internal/ast"
	"github.com/GriffinCanCode/gradualtype/internal/tenv"
	"github.com/GriffinCanCode/gradualtype/internal/types"
)

// builtinCallTable names the builtin call targets with predefined
// result shapes, as data rather than a switch statement. The value is
// unused beyond membership.
var builtinCallTable = map[string]bool{
	"int": true, "float": true, "str": true, "bool": true,
	"list": true, "dict": true, "set": true, "tuple": true,
	"len": true, "range": true, "enumerate": true, "zip": true,
	"map": true, "filter": true,
}

// visitBuiltinCall computes the predefined result shape for a builtin
// call.
func (i *Inferer) visitBuiltinCall(name string, n *ast.Call) any {
	args := make([]types.Type, len(n.Args))
	for idx, a := range n.Args {
		args[idx] = i.synthesize(a)
	}

	switch name {
	case "int":
		return types.Type(types.Int)
	case "float":
		return types.Type(types.Float)
	case "str":
		return types.Type(types.Str)
	case "bool":
		return types.Type(types.Bool)
	case "len":
		return types.Type(types.Int)
	case "range":
		return &types.Class{Name: "range"}
	case "list":
		if len(args) == 1 {
			return &types.List{Elem: elemOf(args[0])}
		}
		return &types.List{Elem: tenv.FreshVar()}
	case "set":
		if len(args) == 1 {
			return &types.Set{Elem: elemOf(args[0])}
		}
		return &types.Set{Elem: tenv.FreshVar()}
	case "dict":
		return &types.Dict{Key: tenv.FreshVar(), Value: tenv.FreshVar()}
	case "tuple":
		if len(args) == 1 {
			return &types.Tuple{Elems: []types.Type{elemOf(args[0])}}
		}
		return &types.Tuple{Elems: nil}
	case "enumerate":
		elem := types.Type(types.Any)
		if len(args) == 1 {
			elem = elemOf(args[0])
		}
		return &types.List{Elem: &types.Tuple{Elems: []types.Type{types.Int, elem}}}
	case "zip":
		elems := make([]types.Type, len(args))
		for idx, a := range args {
			elems[idx] = elemOf(a)
		}
		return &types.List{Elem: &types.Tuple{Elems: elems}}
	case "map":
		if len(args) == 2 {
			if fn, ok := args[0].(*types.Function); ok {
				return &types.List{Elem: fn.Return}
			}
		}
		return &types.List{Elem: types.Any}
	case "filter":
		if len(args) == 2 {
			return &types.List{Elem: elemOf(args[1])}
		}
		return &types.List{Elem: types.Any}
	default:
		return types.Type(tenv.FreshVar())
	}
}
