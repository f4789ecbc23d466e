// Package solver implements the constraint solver and unification
// engine: an iterative fixpoint over subtype/equality/
// capability constraints, backed by a first-order unifier with occurs
// checking.
package solver

import "github.com/GriffinCanCode/gradualtype/internal/types"

// Kind tags the constraint shapes the solver accepts.
type Kind uint8

const (
	KindSubtype Kind = iota
	KindEqual
	KindHasAttribute
	KindCallable
	KindProtocol
	KindBounded
	KindNumeric
	KindComparable
	KindHashable
)

// ProtocolMember is one (name, type) pair of a Protocol constraint.
type ProtocolMember struct {
	Name string
	Type types.Type
}

// Constraint is a single obligation handed to the solver. Only the
// fields relevant to Kind are populated; the rest are zero.
type Constraint struct {
	Kind Kind

	A, B types.Type // Subtype(A,B), Equal(A,B), Numeric(A), Comparable(A), Hashable(A)

	Attr   string     // HasAttribute
	Result types.Type // HasAttribute's U, Callable's expected ret

	Params []types.Type     // Callable
	Ret    types.Type       // Callable
	Members []ProtocolMember // Protocol

	Var types.Type // Bounded: must be *types.Var

	// Origin carries an opaque description for diagnostics; the solver
	// never interprets it.
	Origin string
}

// Subtype builds a Subtype(a,b) constraint.
func Subtype(a, b types.Type) Constraint { return Constraint{Kind: KindSubtype, A: a, B: b} }

// Equal builds an Equal(a,b) constraint.
func Equal(a, b types.Type) Constraint { return Constraint{Kind: KindEqual, A: a, B: b} }

// HasAttribute builds a HasAttribute(T,name,U) constraint.
func HasAttribute(t types.Type, name string, u types.Type) Constraint {
	return Constraint{Kind: KindHasAttribute, A: t, Attr: name, Result: u}
}

// Callable builds a Callable(T,params,ret) constraint.
func Callable(t types.Type, params []types.Type, ret types.Type) Constraint {
	return Constraint{Kind: KindCallable, A: t, Params: params, Ret: ret}
}

// Protocol builds a Protocol(T,members) constraint.
func Protocol(t types.Type, members []ProtocolMember) Constraint {
	return Constraint{Kind: KindProtocol, A: t, Members: members}
}

// Bounded builds a Bounded(v,t) constraint; v must be a *types.Var.
func Bounded(v *types.Var, t types.Type) Constraint {
	return Constraint{Kind: KindBounded, Var: v, B: t}
}

// Numeric, Comparable, and Hashable build their single-type constraints.
func Numeric(t types.Type) Constraint    { return Constraint{Kind: KindNumeric, A: t} }
func Comparable(t types.Type) Constraint { return Constraint{Kind: KindComparable, A: t} }
func Hashable(t types.Type) Constraint   { return Constraint{Kind: KindHashable, A: t} }

// Status is the outcome of attempting to resolve one constraint during
// a fixpoint pass.
type Status uint8

const (
	StatusProgress Status = iota
	StatusDefer
	StatusFail
)

// Diagnostic is the solver's minimal failure payload; the diag package
// wraps this into a full Diagnostic with location and suggestions.
type Diagnostic struct {
	Message string
}
