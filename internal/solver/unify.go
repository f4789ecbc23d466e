package solver

import (
	"fmt"

	"github.com/GriffinCanCode/gradualtype/internal/types"
)

// Unify attempts to make a and b equal under sub, recording new
// bindings as needed and chasing existing ones. It composes with the
// constraint solver: Equal(a,b) constraints delegate here.
func Unify(sub *Substitution, a, b types.Type) error {
	a = sub.Apply(a)
	b = sub.Apply(b)

	if va, ok := a.(*types.Var); ok {
		return bindVar(sub, va, b)
	}
	if vb, ok := b.(*types.Var); ok {
		return bindVar(sub, vb, a)
	}

	if types.Equals(a, b) {
		return nil
	}

	switch x := a.(type) {
	case *types.List:
		y, ok := b.(*types.List)
		if !ok {
			return mismatch(a, b)
		}
		return Unify(sub, x.Elem, y.Elem)
	case *types.Set:
		y, ok := b.(*types.Set)
		if !ok {
			return mismatch(a, b)
		}
		return Unify(sub, x.Elem, y.Elem)
	case *types.Dict:
		y, ok := b.(*types.Dict)
		if !ok {
			return mismatch(a, b)
		}
		if err := Unify(sub, x.Key, y.Key); err != nil {
			return err
		}
		return Unify(sub, x.Value, y.Value)
	case *types.Tuple:
		y, ok := b.(*types.Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return mismatch(a, b)
		}
		for i := range x.Elems {
			if err := Unify(sub, x.Elems[i], y.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	case *types.Function:
		y, ok := b.(*types.Function)
		if !ok || len(x.Params) != len(y.Params) {
			return mismatch(a, b)
		}
		for i := range x.Params {
			if err := Unify(sub, x.Params[i], y.Params[i]); err != nil {
				return err
			}
		}
		return Unify(sub, x.Return, y.Return)
	case *types.Generic:
		y, ok := b.(*types.Generic)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return mismatch(a, b)
		}
		for i := range x.Args {
			if err := Unify(sub, x.Args[i], y.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case *types.Nominal:
		y, ok := b.(*types.Nominal)
		if !ok || x.Name != y.Name {
			return mismatch(a, b)
		}
		return Unify(sub, x.Inner, y.Inner)
	case *types.Effect:
		y, ok := b.(*types.Effect)
		if !ok || !x.Set.Equals(y.Set) {
			return mismatch(a, b)
		}
		return Unify(sub, x.Inner, y.Inner)
	}

	return mismatch(a, b)
}

func bindVar(sub *Substitution, v *types.Var, t types.Type) error {
	if other, ok := t.(*types.Var); ok && other.ID == v.ID {
		return nil
	}
	if OccursCheck(v.ID, t) {
		return fmt.Errorf("infinite type: Var(%d) occurs in %s", v.ID, types.Display(t))
	}
	if existing, ok := sub.Lookup(v.ID); ok {
		return Unify(sub, existing, t)
	}
	sub.Bind(v.ID, t)
	return nil
}

func mismatch(a, b types.Type) error {
	return fmt.Errorf("cannot unify %s with %s", types.Display(a), types.Display(b))
}
