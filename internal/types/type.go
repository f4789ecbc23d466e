// Package types implements the gradual type algebra: the tagged sum of
// type shapes, structural/nominal subtyping, union/intersection
// canonicalization, and the process-wide type interner. The
// algebra is closed and known in advance, so it is represented as a
// tagged sum with per-variant data rather than an open class hierarchy —
// see DESIGN.md for why.
package types

import "fmt"

// Type is any member of the type algebra. All variants are
// value-equal under structural equality and cheaply cloneable; once
// constructed a Type is never mutated in place.
type Type interface {
	// String returns the stable textual form used in diagnostics. It round-trips to itself under union/intersection
	// canonicalization.
	String() string

	typeNode()
}

// ---- Primitives ----

// Primitive is one of the eight ground types.
type Primitive struct {
	Kind PrimitiveKind
}

// PrimitiveKind enumerates the ground types.
type PrimitiveKind uint8

const (
	KindAny PrimitiveKind = iota
	KindNever
	KindNone
	KindBool
	KindInt
	KindFloat
	KindStr
	KindBytes
)

var primitiveNames = [...]string{
	KindAny:   "Any",
	KindNever: "Never",
	KindNone:  "None",
	KindBool:  "Bool",
	KindInt:   "Int",
	KindFloat: "Float",
	KindStr:   "Str",
	KindBytes: "Bytes",
}

func (k PrimitiveKind) String() string { return primitiveNames[k] }

func (p *Primitive) String() string { return p.Kind.String() }
func (*Primitive) typeNode()        {}

// Well-known, shared primitive values. Construct these instead of
// allocating fresh *Primitive values so pointer identity lines up with the
// interner's pre-seeded well-known ids.
var (
	Any   = &Primitive{Kind: KindAny}
	Never = &Primitive{Kind: KindNever}
	None  = &Primitive{Kind: KindNone}
	Bool  = &Primitive{Kind: KindBool}
	Int   = &Primitive{Kind: KindInt}
	Float = &Primitive{Kind: KindFloat}
	Str   = &Primitive{Kind: KindStr}
	Bytes = &Primitive{Kind: KindBytes}
)

// AllPrimitives lists the eight ground types in interner seed order.
var AllPrimitives = []*Primitive{Any, Never, None, Bool, Int, Float, Str, Bytes}

// IsPrimitiveKind reports whether t is the primitive of the given kind.
func IsPrimitiveKind(t Type, k PrimitiveKind) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind == k
}

// ---- Composites ----

// List is a homogeneous, mutable sequence type.
type List struct{ Elem Type }

func (t *List) String() string { return fmt.Sprintf("List[%s]", t.Elem) }
func (*List) typeNode()        {}

// Set is a homogeneous, mutable unordered collection type.
type Set struct{ Elem Type }

func (t *Set) String() string { return fmt.Sprintf("Set[%s]", t.Elem) }
func (*Set) typeNode()        {}

// Dict is a homogeneous key/value mapping type.
type Dict struct{ Key, Value Type }

func (t *Dict) String() string { return fmt.Sprintf("Dict[%s, %s]", t.Key, t.Value) }
func (*Dict) typeNode()        {}

// Tuple is a fixed-length, heterogeneous product type.
type Tuple struct{ Elems []Type }

func (t *Tuple) String() string {
	s := "Tuple["
	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}
func (*Tuple) typeNode() {}

// ---- Function ----

// Function is a callable signature: contravariant in Params, covariant in
// Return.
type Function struct {
	Params []Type
	Return Type
}

func (t *Function) String() string {
	s := "("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + t.Return.String()
}
func (*Function) typeNode() {}

// ---- Algebraic ----

// UnionType is a canonicalized sum of ≥2 distinct, non-subsumed members.
// Construct via the Union function, never directly, to keep that
// invariant.
type UnionType struct{ Members []Type }

func (t *UnionType) String() string { return joinTypes(t.Members, " | ") }
func (*UnionType) typeNode()        {}

// IntersectionType is a canonicalized product of ≥2 members.
// Construct via the Intersection function.
type IntersectionType struct{ Members []Type }

func (t *IntersectionType) String() string { return joinTypes(t.Members, " & ") }
func (*IntersectionType) typeNode()        {}

func joinTypes(ts []Type, sep string) string {
	s := ""
	for i, m := range ts {
		if i > 0 {
			s += sep
		}
		s += m.String()
	}
	return s
}

// ---- Nominal ----

// Class is a reference to a user- or builtin-defined class by name; its
// members are resolved through the type environment's class schema
// registry, not carried on the type itself.
type Class struct{ Name string }

func (t *Class) String() string { return t.Name }
func (*Class) typeNode()        {}

// Nominal wraps an inner structural type with a distinct name, giving it
// nominal rather than structural identity for subtyping purposes.
type Nominal struct {
	Name  string
	Inner Type
}

func (t *Nominal) String() string { return t.Name }
func (*Nominal) typeNode()        {}

// ---- Parametric ----

// Generic is a named type constructor applied to argument types, e.g. a
// user-defined `Box[T]`.
type Generic struct {
	Name string
	Args []Type
}

func (t *Generic) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return t.Name + "[" + joinTypes(t.Args, ", ") + "]"
}
func (*Generic) typeNode() {}

// KindedParam is one parameter of a HigherKinded constructor, paired with
// its own arity (kind).
type KindedParam struct {
	Name  string
	Arity int // 0 = a plain type parameter, >0 = itself a type constructor
}

// HigherKinded is a named constructor whose parameters are themselves
// parameterized (kind arity > 0 for at least one parameter).
type HigherKinded struct {
	Name   string
	Params []KindedParam
}

func (t *HigherKinded) String() string {
	s := t.Name + "["
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Name
	}
	return s + "]"
}
func (*HigherKinded) typeNode() {}

// Var is an inference (or generic) type variable. Ids are drawn from
// the monotonic counter held by the type environment and are never
// reused within a process.
type Var struct{ ID uint64 }

func (t *Var) String() string { return fmt.Sprintf("'t%d", t.ID) }
func (*Var) typeNode()        {}

// ---- Annotated ----

// Effect wraps a type with the set of side effects performing it may
// incur.
type Effect struct {
	Inner Type
	Set   EffectSet
}

func (t *Effect) String() string {
	if t.Set.Len() == 0 {
		return t.Inner.String()
	}
	return fmt.Sprintf("%s ! %s", t.Inner, t.Set.String())
}
func (*Effect) typeNode() {}

// Refinement pairs a base type with a predicate restricting its values.
type Refinement struct {
	Base Type
	Pred Predicate
}

func (t *Refinement) String() string {
	return fmt.Sprintf("%s{%s}", t.Base, t.Pred.String())
}
func (*Refinement) typeNode() {}

// DependentConstraint restricts a value beyond its base type: a fixed
// length, a length range, or equality with an expression.
// Kind determines which of Min/Max/Expr/Custom are meaningful.
type DependentConstraint struct {
	Kind   DependentKind
	Min    int
	Max    int
	Expr   PredicateExpr
	Custom string
}

// DependentKind enumerates the forms of DependentConstraint.
type DependentKind uint8

const (
	DepLength DependentKind = iota
	DepLengthRange
	DepValueEq
	DepCustom
)

func (c DependentConstraint) String() string {
	switch c.Kind {
	case DepLength:
		return fmt.Sprintf("Length(%d)", c.Min)
	case DepLengthRange:
		return fmt.Sprintf("LengthRange(%d, %d)", c.Min, c.Max)
	case DepValueEq:
		return fmt.Sprintf("ValueEq(%s)", c.Expr)
	default:
		return c.Custom
	}
}

// Dependent pairs a base type with a dependent constraint.
type Dependent struct {
	Base       Type
	Constraint DependentConstraint
}

func (t *Dependent) String() string {
	return fmt.Sprintf("%s[%s]", t.Base, t.Constraint)
}
func (*Dependent) typeNode() {}

// ---- Fixpoint ----

// Recursive is a named, productive fixpoint type: Body may refer back
// to Class(Name) as a guarded back-edge. The unfolding is never
// materialized eagerly; see Unfold.
type Recursive struct {
	Name string
	Body Type
}

func (t *Recursive) String() string { return fmt.Sprintf("rec %s. %s", t.Name, t.Body) }
func (*Recursive) typeNode()        {}

// ---- Conditional ----

// CondOp enumerates the condition forms a Conditional type may carry.
type CondOp uint8

const (
	CondExtends CondOp = iota
	CondEqual
	CondHasProperty
	CondCustom
)

// Cond is the condition attached to a Conditional type. A condition
// has no evaluation semantics beyond syntactic identity: IsSubtype
// treats two Conditional types as related only when they are
// structurally identical.
type Cond struct {
	Op       CondOp
	A, B     Type   // used by CondExtends, CondEqual
	Property string // used by CondHasProperty
	Custom   string // used by CondCustom
}

func (c Cond) String() string {
	switch c.Op {
	case CondExtends:
		return fmt.Sprintf("%s extends %s", c.A, c.B)
	case CondEqual:
		return fmt.Sprintf("%s == %s", c.A, c.B)
	case CondHasProperty:
		return fmt.Sprintf("hasProperty(%s, %s)", c.A, c.Property)
	default:
		return c.Custom
	}
}

// Conditional is `cond ? then : else`, preserved but not evaluated.
type Conditional struct {
	Cond Cond
	Then Type
	Else Type
}

func (t *Conditional) String() string {
	return fmt.Sprintf("%s ? %s : %s", t.Cond, t.Then, t.Else)
}
func (*Conditional) typeNode() {}
