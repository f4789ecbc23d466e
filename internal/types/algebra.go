package types

// Equals reports structural equality between a and b. Class and
// Nominal compare by name only — schema contents live in the type
// environment, not on the type value.
func Equals(a, b Type) bool {
	switch x := a.(type) {
	case *Primitive:
		y, ok := b.(*Primitive)
		return ok && x.Kind == y.Kind
	case *List:
		y, ok := b.(*List)
		return ok && Equals(x.Elem, y.Elem)
	case *Set:
		y, ok := b.(*Set)
		return ok && Equals(x.Elem, y.Elem)
	case *Dict:
		y, ok := b.(*Dict)
		return ok && Equals(x.Key, y.Key) && Equals(x.Value, y.Value)
	case *Tuple:
		y, ok := b.(*Tuple)
		return ok && equalTypeSlices(x.Elems, y.Elems)
	case *Function:
		y, ok := b.(*Function)
		return ok && equalTypeSlices(x.Params, y.Params) && Equals(x.Return, y.Return)
	case *UnionType:
		y, ok := b.(*UnionType)
		return ok && equalMemberSets(x.Members, y.Members)
	case *IntersectionType:
		y, ok := b.(*IntersectionType)
		return ok && equalMemberSets(x.Members, y.Members)
	case *Class:
		y, ok := b.(*Class)
		return ok && x.Name == y.Name
	case *Nominal:
		y, ok := b.(*Nominal)
		return ok && x.Name == y.Name && Equals(x.Inner, y.Inner)
	case *Generic:
		y, ok := b.(*Generic)
		return ok && x.Name == y.Name && equalTypeSlices(x.Args, y.Args)
	case *HigherKinded:
		y, ok := b.(*HigherKinded)
		if !ok || x.Name != y.Name || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if x.Params[i] != y.Params[i] {
				return false
			}
		}
		return true
	case *Var:
		y, ok := b.(*Var)
		return ok && x.ID == y.ID
	case *Effect:
		y, ok := b.(*Effect)
		return ok && Equals(x.Inner, y.Inner) && x.Set.Equals(y.Set)
	case *Refinement:
		y, ok := b.(*Refinement)
		return ok && Equals(x.Base, y.Base) && structurallyEqualPred(x.Pred, y.Pred)
	case *Dependent:
		y, ok := b.(*Dependent)
		return ok && Equals(x.Base, y.Base) && x.Constraint == y.Constraint
	case *Recursive:
		y, ok := b.(*Recursive)
		return ok && x.Name == y.Name && Equals(x.Body, y.Body)
	case *Conditional:
		y, ok := b.(*Conditional)
		return ok && x.Cond == y.Cond && Equals(x.Then, y.Then) && Equals(x.Else, y.Else)
	default:
		return false
	}
}

func equalTypeSlices(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equals(a[i], b[i]) {
			return false
		}
	}
	return true
}

// equalMemberSets compares UnionType/IntersectionType member lists order-independently,
// since canonicalization does not guarantee a fixed member order.
func equalMemberSets(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if !used[j] && Equals(x, y) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsSubtype reports whether a <: b. It is a single-pass
// structural recursion; the only memoization is for Recursive unfolding,
// handled by the visited-pairs guard below.
func IsSubtype(a, b Type) bool {
	return isSubtype(a, b, map[pairKey]bool{})
}

type pairKey struct{ a, b Type }

func isSubtype(a, b Type, seen map[pairKey]bool) bool {
	// Never <: T and T <: Any, for all T.
	if IsPrimitiveKind(a, KindNever) {
		return true
	}
	if IsPrimitiveKind(b, KindAny) {
		return true
	}
	if Equals(a, b) {
		return true
	}

	// UnionType is left-distributive: Union(A,B) <: C iff A<:C and B<:C.
	if ua, ok := a.(*UnionType); ok {
		for _, m := range ua.Members {
			if !isSubtype(m, b, seen) {
				return false
			}
		}
		return true
	}
	// A <: Union(B1..Bn) iff A <: some Bi.
	if ub, ok := b.(*UnionType); ok {
		for _, m := range ub.Members {
			if isSubtype(a, m, seen) {
				return true
			}
		}
		return false
	}
	// IntersectionType on the right: A <: Intersection(B1..Bn) iff A <: every Bi.
	if ib, ok := b.(*IntersectionType); ok {
		for _, m := range ib.Members {
			if !isSubtype(a, m, seen) {
				return false
			}
		}
		return true
	}
	// IntersectionType on the left: any component fitting suffices.
	if ia, ok := a.(*IntersectionType); ok {
		for _, m := range ia.Members {
			if isSubtype(m, b, seen) {
				return true
			}
		}
		return false
	}

	switch x := a.(type) {
	case *List:
		// Containers are covariant in their element types. Unsound for
		// mutation, like the checked language itself; the variance
		// analyzer still forces declared type parameters inside mutable
		// containers to invariant.
		y, ok := b.(*List)
		return ok && isSubtype(x.Elem, y.Elem, seen)
	case *Set:
		y, ok := b.(*Set)
		return ok && isSubtype(x.Elem, y.Elem, seen)
	case *Dict:
		y, ok := b.(*Dict)
		return ok && isSubtype(x.Key, y.Key, seen) && isSubtype(x.Value, y.Value, seen)
	case *Tuple:
		y, ok := b.(*Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !isSubtype(x.Elems[i], y.Elems[i], seen) {
				return false
			}
		}
		return true
	case *Function:
		y, ok := b.(*Function)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		// Contravariant in params, covariant in return.
		for i := range x.Params {
			if !isSubtype(y.Params[i], x.Params[i], seen) {
				return false
			}
		}
		return isSubtype(x.Return, y.Return, seen)
	case *Class:
		// Nominal subtyping for classes is resolved against the class
		// schema's base-class list by the type environment; the bare
		// type model only knows identity.
		y, ok := b.(*Class)
		return ok && x.Name == y.Name
	case *Nominal:
		y, ok := b.(*Nominal)
		if ok && x.Name == y.Name {
			return true
		}
		return isSubtype(x.Inner, b, seen)
	case *Effect:
		y, ok := b.(*Effect)
		if !ok {
			return false
		}
		return isSubtype(x.Inner, y.Inner, seen) && x.Set.IsSubsetOf(y.Set)
	case *Refinement:
		y, ok := b.(*Refinement)
		if !ok {
			return isSubtype(x.Base, b, seen)
		}
		return isSubtype(x.Base, y.Base, seen) && x.Pred.Implies(y.Pred)
	case *Dependent:
		y, ok := b.(*Dependent)
		if !ok {
			return isSubtype(x.Base, b, seen)
		}
		return isSubtype(x.Base, y.Base, seen) && x.Constraint == y.Constraint
	case *Generic:
		y, ok := b.(*Generic)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !isSubtype(x.Args[i], y.Args[i], seen) {
				return false
			}
		}
		return true
	case *Recursive:
		key := pairKey{a, b}
		if seen[key] {
			return true // coinductive: already assumed while unfolding
		}
		seen[key] = true
		return isSubtype(Unfold(x), b, seen)
	case *Var:
		// Bare variables are only related to themselves (already handled
		// by the Equals check above) or resolved upstream by the solver.
		return false
	case *Conditional:
		// Opaque: only syntactic identity relates two Conditional
		// types, already covered by the Equals check above.
		return false
	default:
		if y, ok := b.(*Recursive); ok {
			key := pairKey{a, b}
			if seen[key] {
				return true
			}
			seen[key] = true
			return isSubtype(a, Unfold(y), seen)
		}
		return false
	}
}

// Unfold performs one step of on-demand unfolding of a Recursive type,
// substituting Class(name) back-edges in Body with the Recursive type
// itself. Never materializes the infinite expansion.
func Unfold(r *Recursive) Type {
	return substituteClassRef(r.Body, r.Name, r)
}

func substituteClassRef(t Type, name string, replacement Type) Type {
	switch x := t.(type) {
	case *Class:
		if x.Name == name {
			return replacement
		}
		return x
	case *List:
		return &List{Elem: substituteClassRef(x.Elem, name, replacement)}
	case *Set:
		return &Set{Elem: substituteClassRef(x.Elem, name, replacement)}
	case *Dict:
		return &Dict{
			Key:   substituteClassRef(x.Key, name, replacement),
			Value: substituteClassRef(x.Value, name, replacement),
		}
	case *Tuple:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = substituteClassRef(e, name, replacement)
		}
		return &Tuple{Elems: elems}
	case *Function:
		params := make([]Type, len(x.Params))
		for i, p := range x.Params {
			params[i] = substituteClassRef(p, name, replacement)
		}
		return &Function{Params: params, Return: substituteClassRef(x.Return, name, replacement)}
	case *UnionType:
		return Union(substituteSlice(x.Members, name, replacement))
	case *IntersectionType:
		return Intersection(substituteSlice(x.Members, name, replacement))
	case *Generic:
		return &Generic{Name: x.Name, Args: substituteSlice(x.Args, name, replacement)}
	case *Effect:
		return &Effect{Inner: substituteClassRef(x.Inner, name, replacement), Set: x.Set}
	case *Refinement:
		return &Refinement{Base: substituteClassRef(x.Base, name, replacement), Pred: x.Pred}
	case *Dependent:
		return &Dependent{Base: substituteClassRef(x.Base, name, replacement), Constraint: x.Constraint}
	case *Nominal:
		return &Nominal{Name: x.Name, Inner: substituteClassRef(x.Inner, name, replacement)}
	default:
		return t
	}
}

func substituteSlice(ts []Type, name string, replacement Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = substituteClassRef(t, name, replacement)
	}
	return out
}

// IsProductiveRecursive reports whether every syntactic back-reference to
// name in body is guarded by a composite type constructor. Unproductive
// recursive types are rejected upstream; callers that see a false result
// here should use Never rather than constructing the Recursive value.
func IsProductiveRecursive(name string, body Type) bool {
	return productive(body, name, false)
}

// productive walks body; guarded tracks whether we have passed through at
// least one composite constructor since the last unguarded position.
func productive(t Type, name string, guarded bool) bool {
	switch x := t.(type) {
	case *Class:
		if x.Name == name {
			return guarded
		}
		return true
	case *List:
		return productive(x.Elem, name, true)
	case *Set:
		return productive(x.Elem, name, true)
	case *Dict:
		return productive(x.Key, name, true) && productive(x.Value, name, true)
	case *Tuple:
		for _, e := range x.Elems {
			if !productive(e, name, true) {
				return false
			}
		}
		return true
	case *Function:
		for _, p := range x.Params {
			if !productive(p, name, true) {
				return false
			}
		}
		return productive(x.Return, name, true)
	case *UnionType:
		for _, m := range x.Members {
			if !productive(m, name, guarded) {
				return false
			}
		}
		return true
	case *IntersectionType:
		for _, m := range x.Members {
			if !productive(m, name, guarded) {
				return false
			}
		}
		return true
	case *Generic:
		for _, a := range x.Args {
			if !productive(a, name, true) {
				return false
			}
		}
		return true
	case *Effect:
		return productive(x.Inner, name, guarded)
	case *Refinement:
		return productive(x.Base, name, guarded)
	case *Dependent:
		return productive(x.Base, name, guarded)
	case *Nominal:
		return productive(x.Inner, name, guarded)
	default:
		return true
	}
}
