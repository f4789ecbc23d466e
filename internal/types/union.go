package types

// unionFastPathThreshold is the member count at or above which UnionType dedupes
// through an interner id-set before the O(n²) subtype-elimination pass,
// rather than running elimination over the full member list.
const unionFastPathThreshold = 10

// sharedInterner backs the ≥10-member UnionType fast path. It is process-wide
// and is safe for concurrent use from multiple analyzer workers.
var sharedInterner = NewInterner()

// Union builds the canonical union of ts: flatten nested unions,
// drop Never, remove elements subsumed by another element, collapse a
// singleton result to that element, and return Never for an empty input.
func Union(ts []Type) Type {
	flat := flattenUnion(ts)
	if len(flat) == 0 {
		return Never
	}
	if len(flat) >= unionFastPathThreshold {
		flat = dedupeByInternedID(flat)
	}
	reduced := eliminateSubsumed(flat)
	if len(reduced) == 1 {
		return reduced[0]
	}
	return &UnionType{Members: reduced}
}

func flattenUnion(ts []Type) []Type {
	var out []Type
	for _, t := range ts {
		switch x := t.(type) {
		case *UnionType:
			out = append(out, flattenUnion(x.Members)...)
		default:
			if IsPrimitiveKind(t, KindNever) {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

// dedupeByInternedID removes exact duplicates in O(n) using interned ids
// before the O(n²) elimination pass runs on the (usually much smaller)
// result. The result is identical to running
// elimination on the full list; this only skips comparing types already
// known to be identical.
func dedupeByInternedID(ts []Type) []Type {
	seen := make(map[uint64]bool, len(ts))
	out := make([]Type, 0, len(ts))
	for _, t := range ts {
		id := sharedInterner.Intern(t)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, t)
	}
	return out
}

// eliminateSubsumed drops any member that is a (strict or equal) subtype
// of another distinct member, then collapses remaining duplicates.
func eliminateSubsumed(ts []Type) []Type {
	keep := make([]bool, len(ts))
	for i := range ts {
		keep[i] = true
	}
	for i := range ts {
		if !keep[i] {
			continue
		}
		for j := range ts {
			if i == j || !keep[j] {
				continue
			}
			if Equals(ts[i], ts[j]) {
				// Keep the earlier of two equal members.
				if j < i {
					keep[i] = false
				} else {
					keep[j] = false
				}
				continue
			}
			if IsSubtype(ts[i], ts[j]) {
				keep[i] = false
			}
		}
	}
	out := make([]Type, 0, len(ts))
	for i, k := range keep {
		if k {
			out = append(out, ts[i])
		}
	}
	return out
}

// Intersection builds the canonical intersection of ts: drop
// Any, collapse a singleton to that element, and return Any for an empty
// input. Deeper simplification is deliberately not
// performed here.
func Intersection(ts []Type) Type {
	flat := flattenIntersection(ts)
	var out []Type
	for _, t := range flat {
		if IsPrimitiveKind(t, KindAny) {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return Any
	}
	if len(out) == 1 {
		return out[0]
	}
	return &IntersectionType{Members: out}
}

func flattenIntersection(ts []Type) []Type {
	var out []Type
	for _, t := range ts {
		if x, ok := t.(*IntersectionType); ok {
			out = append(out, flattenIntersection(x.Members)...)
		} else {
			out = append(out, t)
		}
	}
	return out
}

// Display returns the stable textual form of t. It is an
// alias for t.String(); both round-trip to themselves under
// UnionType/IntersectionType canonicalization by construction, since String()
// never reorders or renames already-canonical members.
func Display(t Type) string { return t.String() }
