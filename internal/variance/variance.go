// Package variance implements the variance analyzer: computing
// the variance of a type parameter within a type body, and validating
// a declared variance against the computed one.
package variance

import "github.com/GriffinCanCode/gradualtype/internal/types"

// Position is the variance position algebra.
type Position uint8

const (
	Co Position = iota
	Contra
	Inv
	Bi
)

func (p Position) String() string {
	switch p {
	case Co:
		return "covariant"
	case Contra:
		return "contravariant"
	case Inv:
		return "invariant"
	default:
		return "bivariant"
	}
}

// Flip swaps covariant and contravariant; invariant and bivariant are
// fixed points.
func (p Position) Flip() Position {
	switch p {
	case Co:
		return Contra
	case Contra:
		return Co
	default:
		return p
	}
}

// Compose combines the variance of a nested occurrence (inner) as seen
// through an enclosing position (outer), following the standard
// variance algebra: invariant absorbs, otherwise composition multiplies
// like signs (co∘co=co, co∘contra=contra, contra∘contra=co), and
// bivariant is the identity.
func Compose(outer, inner Position) Position {
	if outer == Inv || inner == Inv {
		return Inv
	}
	if outer == Bi {
		return inner
	}
	if inner == Bi {
		return outer
	}
	if outer == inner {
		return Co
	}
	return Contra
}

// Compute returns the variance of Var(id) as it occurs within body, as
// seen from position.
func Compute(body types.Type, id uint64, position Position) Position {
	switch t := body.(type) {
	case *types.Var:
		if t.ID == id {
			return position
		}
		return Bi
	case *types.List:
		return foldInvariantContainer(t.Elem, id)
	case *types.Set:
		return foldInvariantContainer(t.Elem, id)
	case *types.Dict:
		k := foldInvariantContainer(t.Key, id)
		v := foldInvariantContainer(t.Value, id)
		return mergeOccurrences(k, v)
	case *types.Tuple:
		result := Bi
		for _, e := range t.Elems {
			result = mergeOccurrences(result, Compute(e, id, position))
		}
		return result
	case *types.Function:
		result := Bi
		for _, p := range t.Params {
			result = mergeOccurrences(result, Compute(p, id, position.Flip()))
		}
		return mergeOccurrences(result, Compute(t.Return, id, position))
	case *types.UnionType:
		return foldChildren(t.Members, id, position)
	case *types.IntersectionType:
		return foldChildren(t.Members, id, position)
	case *types.Generic:
		result := Bi
		for _, a := range t.Args {
			result = mergeOccurrences(result, Compute(a, id, position))
		}
		return result
	case *types.Nominal:
		return Compute(t.Inner, id, position)
	case *types.Effect:
		return Compute(t.Inner, id, position)
	case *types.Refinement:
		return Compute(t.Base, id, position)
	case *types.Dependent:
		return Compute(t.Base, id, position)
	default:
		return Bi
	}
}

// foldInvariantContainer handles List/Set/Dict-key/Dict-value: if Var(id)
// occurs at all, the mutable container forces Invariant.
func foldInvariantContainer(elem types.Type, id uint64) Position {
	if Compute(elem, id, Co) == Bi {
		return Bi
	}
	return Inv
}

// mergeOccurrences folds two independently computed variances: any
// Invariant occurrence is absorbing, Bi is the identity, and matching
// definite variances agree; a Co/Contra clash also yields Invariant
// (the parameter occurs both co- and contravariantly).
func mergeOccurrences(a, b Position) Position {
	if a == Bi {
		return b
	}
	if b == Bi {
		return a
	}
	if a == b {
		return a
	}
	return Inv
}

func foldChildren(members []types.Type, id uint64, position Position) Position {
	result := Bi
	for _, m := range members {
		result = mergeOccurrences(result, Compute(m, id, position))
	}
	return result
}

// Error is a VarianceError: the declared variance on a
// type parameter does not match its computed occurrence.
type Error struct {
	Param    string
	Declared Position
	Computed Position
}

func (e *Error) Error() string {
	return "variance mismatch for " + e.Param + ": declared " + e.Declared.String() + ", computed " + e.Computed.String()
}

// Validate checks a declared variance for parameter id against its
// computed occurrence in body, returning a *Error on mismatch.
func Validate(param string, body types.Type, id uint64, declared Position) *Error {
	computed := Compute(body, id, Co)
	if computed == Bi || computed == declared {
		return nil
	}
	return &Error{Param: param, Declared: declared, Computed: computed}
}
