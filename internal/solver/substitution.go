package solver

import "github.com/GriffinCanCode/gradualtype/internal/types"

// Substitution maps type-variable ids to their resolved types.
// It is not safe for concurrent use; each inference run owns one.
type Substitution struct {
	bindings map[uint64]types.Type
}

// NewSubstitution returns an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[uint64]types.Type{}}
}

// Bind records v -> t, overwriting any previous binding.
func (s *Substitution) Bind(v uint64, t types.Type) {
	s.bindings[v] = t
}

// Lookup returns the direct binding for v, if any (not chased).
func (s *Substitution) Lookup(v uint64) (types.Type, bool) {
	t, ok := s.bindings[v]
	return t, ok
}

// Apply chases variable bindings eagerly: reading a variable follows
// the substitution chain until it reaches a non-variable or an unbound
// variable, then recursively substitutes inside composite types
// so the result is free of any variable this substitution resolves.
func (s *Substitution) Apply(t types.Type) types.Type {
	return s.apply(t, map[uint64]bool{})
}

func (s *Substitution) apply(t types.Type, guard map[uint64]bool) types.Type {
	switch v := t.(type) {
	case *types.Var:
		if guard[v.ID] {
			return v // cyclic chain guard; occurs_check should have prevented this
		}
		if bound, ok := s.bindings[v.ID]; ok {
			guard[v.ID] = true
			return s.apply(bound, guard)
		}
		return v
	case *types.List:
		return &types.List{Elem: s.apply(v.Elem, guard)}
	case *types.Set:
		return &types.Set{Elem: s.apply(v.Elem, guard)}
	case *types.Dict:
		return &types.Dict{Key: s.apply(v.Key, guard), Value: s.apply(v.Value, guard)}
	case *types.Tuple:
		elems := make([]types.Type, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = s.apply(e, guard)
		}
		return &types.Tuple{Elems: elems}
	case *types.Function:
		params := make([]types.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = s.apply(p, guard)
		}
		return &types.Function{Params: params, Return: s.apply(v.Return, guard)}
	case *types.UnionType:
		return types.Union(s.applyAll(v.Members, guard))
	case *types.IntersectionType:
		return types.Intersection(s.applyAll(v.Members, guard))
	case *types.Generic:
		return &types.Generic{Name: v.Name, Args: s.applyAll(v.Args, guard)}
	case *types.Nominal:
		return &types.Nominal{Name: v.Name, Inner: s.apply(v.Inner, guard)}
	case *types.Effect:
		return &types.Effect{Inner: s.apply(v.Inner, guard), Set: v.Set}
	case *types.Refinement:
		return &types.Refinement{Base: s.apply(v.Base, guard), Pred: v.Pred}
	case *types.Dependent:
		return &types.Dependent{Base: s.apply(v.Base, guard), Constraint: v.Constraint}
	default:
		return t
	}
}

func (s *Substitution) applyAll(ts []types.Type, guard map[uint64]bool) []types.Type {
	out := make([]types.Type, len(ts))
	for i, t := range ts {
		out[i] = s.apply(t, guard)
	}
	return out
}

// OccursCheck reports whether Var(v) appears anywhere within t's
// structure, used to reject unification that would build an infinite
// type.
func OccursCheck(v uint64, t types.Type) bool {
	switch x := t.(type) {
	case *types.Var:
		return x.ID == v
	case *types.List:
		return OccursCheck(v, x.Elem)
	case *types.Set:
		return OccursCheck(v, x.Elem)
	case *types.Dict:
		return OccursCheck(v, x.Key) || OccursCheck(v, x.Value)
	case *types.Tuple:
		for _, e := range x.Elems {
			if OccursCheck(v, e) {
				return true
			}
		}
		return false
	case *types.Function:
		for _, p := range x.Params {
			if OccursCheck(v, p) {
				return true
			}
		}
		return OccursCheck(v, x.Return)
	case *types.UnionType:
		for _, m := range x.Members {
			if OccursCheck(v, m) {
				return true
			}
		}
		return false
	case *types.IntersectionType:
		for _, m := range x.Members {
			if OccursCheck(v, m) {
				return true
			}
		}
		return false
	case *types.Generic:
		for _, a := range x.Args {
			if OccursCheck(v, a) {
				return true
			}
		}
		return false
	case *types.Nominal:
		return OccursCheck(v, x.Inner)
	case *types.Effect:
		return OccursCheck(v, x.Inner)
	case *types.Refinement:
		return OccursCheck(v, x.Base)
	case *types.Dependent:
		return OccursCheck(v, x.Base)
	default:
		return false
	}
}
