package infer

import (
	"strconv"

	"github.com/GriffinCanCode/gradualtype/internal/ast"
	"github.com/GriffinCanCode/gradualtype/internal/refine"
	"github.com/GriffinCanCode/gradualtype/internal/tenv"
	"github.com/GriffinCanCode/gradualtype/internal/types"
)

var namedPrimitives = map[string]*types.Primitive{
	"int": types.Int, "float": types.Float, "str": types.Str, "bool": types.Bool,
	"bytes": types.Bytes, "None": types.None, "Any": types.Any, "Never": types.Never,
}

// ResolveType maps a syntactic type annotation to an internal/types
// value, including refinement sugars (Positive, Bounded(lo,hi),
// NonEmpty, Even, Odd, Negative) and effect wrappers. A nil annotation
// returns a fresh type variable, matching "missing annotations
// introduce fresh variables".
func ResolveType(te ast.TypeExpr) types.Type {
	if te == nil {
		return tenv.FreshVar()
	}
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		return resolveNamed(t)
	case *ast.RefinementTypeExpr:
		return resolveRefinement(t)
	case *ast.EffectTypeExpr:
		inner := ResolveType(t.Base)
		return &types.Effect{Inner: inner, Set: types.NewEffectSet(t.Effects...)}
	default:
		return types.Any
	}
}

func resolveNamed(t *ast.NamedTypeExpr) types.Type {
	if p, ok := namedPrimitives[t.Name]; ok {
		return p
	}
	switch t.Name {
	case "List", "list":
		if len(t.Args) == 1 {
			return &types.List{Elem: ResolveType(t.Args[0])}
		}
		return &types.List{Elem: types.Any}
	case "Set", "set":
		if len(t.Args) == 1 {
			return &types.Set{Elem: ResolveType(t.Args[0])}
		}
		return &types.Set{Elem: types.Any}
	case "Dict", "dict":
		if len(t.Args) == 2 {
			return &types.Dict{Key: ResolveType(t.Args[0]), Value: ResolveType(t.Args[1])}
		}
		return &types.Dict{Key: types.Any, Value: types.Any}
	case "Tuple", "tuple":
		elems := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			elems[i] = ResolveType(a)
		}
		return &types.Tuple{Elems: elems}
	case "Union":
		members := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			members[i] = ResolveType(a)
		}
		return types.Union(members)
	}
	if len(t.Args) == 0 {
		return &types.Class{Name: t.Name}
	}
	args := make([]types.Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = ResolveType(a)
	}
	return &types.Generic{Name: t.Name, Args: args}
}

// resolveRefinement expands the named refinement sugars into concrete
// Refinement/Dependent values.
func resolveRefinement(t *ast.RefinementTypeExpr) types.Type {
	base := resolveSugarBase(t.Base)
	switch t.Base.Name {
	case "Positive":
		return &types.Refinement{Base: base, Pred: refine.Positive()}
	case "Negative":
		return &types.Refinement{Base: base, Pred: refine.Negative()}
	case "NonNegative":
		return &types.Refinement{Base: base, Pred: refine.NonNegative()}
	case "Even":
		return &types.Refinement{Base: base, Pred: refine.Even()}
	case "Odd":
		return &types.Refinement{Base: base, Pred: refine.Odd()}
	case "Bounded":
		lo, hi := int64(argInt(t.Args, 0)), int64(argInt(t.Args, 1))
		return &types.Refinement{Base: base, Pred: refine.Bounded(lo, hi)}
	case "NonEmpty":
		return &types.Dependent{Base: base, Constraint: refine.NonEmpty()}
	case "Length":
		return &types.Dependent{Base: base, Constraint: refine.Length(argInt(t.Args, 0))}
	default:
		return &types.Refinement{Base: base, Pred: types.CustomPredicate(t.Base.Name)}
	}
}

// resolveSugarBase resolves the sugar's underlying base type: its
// single syntactic argument if given, else a per-sugar default.
func resolveSugarBase(base ast.NamedTypeExpr) types.Type {
	if len(base.Args) == 1 {
		return ResolveType(base.Args[0])
	}
	switch base.Name {
	case "NonEmpty":
		return types.Str
	default:
		return types.Int
	}
}

func argInt(args []string, i int) int {
	if i >= len(args) {
		return 0
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0
	}
	return n
}
