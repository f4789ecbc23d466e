package types

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// EffectTag is one of the canonical effect tags, or a custom tag
// carrying an arbitrary name.
type EffectTag struct {
	Name string // one of the canonical names below, or an arbitrary Custom(name)
}

// Canonical effect tag names.
const (
	EffPure      = "Pure"
	EffIO        = "IO"
	EffNetwork   = "Network"
	EffMutation  = "Mutation"
	EffException = "Exception"
	EffAsync     = "Async"
	EffRandom    = "Random"
	EffTime      = "Time"
)

// EffectSet is a set of effect tags. Subset-of defines effect
// subtyping. Backed by hashicorp/go-set so membership,
// union, and subset tests are a handful of calls rather than hand-rolled
// map bookkeeping, and iteration order is deterministic once sorted.
type EffectSet struct {
	tags *set.Set[string]
}

// NewEffectSet builds an EffectSet from tag names. "Pure" is kept only
// when it is the sole tag: Pure is redundant whenever any
// other tag is present.
func NewEffectSet(names ...string) EffectSet {
	s := set.New[string](len(names))
	for _, n := range names {
		s.Insert(n)
	}
	if s.Size() > 1 {
		s.Remove(EffPure)
	}
	return EffectSet{tags: s}
}

// EmptyEffectSet is the pure effect set (no tags).
func EmptyEffectSet() EffectSet { return NewEffectSet() }

// Len returns the number of distinct tags (0 for pure, ignoring an
// explicit lone "Pure" tag which counts as 1 for display purposes).
func (e EffectSet) Len() int {
	if e.tags == nil {
		return 0
	}
	return e.tags.Size()
}

// IsPure reports whether the set carries no effect beyond Pure.
func (e EffectSet) IsPure() bool {
	return e.Len() == 0 || (e.Len() == 1 && e.Has(EffPure))
}

// Has reports whether tag is present.
func (e EffectSet) Has(tag string) bool {
	if e.tags == nil {
		return false
	}
	return e.tags.Contains(tag)
}

// Union returns the union of e and other. Pure is dropped from the
// result whenever any other tag is present.
func (e EffectSet) Union(other EffectSet) EffectSet {
	names := e.Names()
	names = append(names, other.Names()...)
	return NewEffectSet(names...)
}

// Add returns e with tag inserted.
func (e EffectSet) Add(tag string) EffectSet {
	return e.Union(NewEffectSet(tag))
}

// IsSubsetOf reports whether every tag in e is also in other. Subset-of
// defines effect subtyping: Effect(T,E1) <: Effect(T,E2) iff E1 ⊆ E2.
func (e EffectSet) IsSubsetOf(other EffectSet) bool {
	if e.tags == nil || e.tags.Size() == 0 {
		return true
	}
	if other.tags == nil {
		return false
	}
	return e.tags.Subset(other.tags)
}

// Equals reports set equality irrespective of insertion order.
func (e EffectSet) Equals(other EffectSet) bool {
	return e.IsSubsetOf(other) && other.IsSubsetOf(e)
}

// Names returns the tags sorted for deterministic iteration.
func (e EffectSet) Names() []string {
	if e.tags == nil {
		return nil
	}
	names := e.tags.Slice()
	sort.Strings(names)
	return names
}

// String renders the set as `{A, B, C}`, or `{Pure}` when empty.
func (e EffectSet) String() string {
	names := e.Names()
	if len(names) == 0 {
		return "{Pure}"
	}
	return "{" + strings.Join(names, ", ") + "}"
}
