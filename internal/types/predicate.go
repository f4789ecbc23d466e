package types

import (
	"fmt"
	"strings"
)

// CompareOp is a predicate comparator.
type CompareOp string

const (
	OpEq CompareOp = "=="
	OpNe CompareOp = "!="
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
)

// ExprKind enumerates the PredicateExpr grammar.
type ExprKind uint8

const (
	ExprValue ExprKind = iota // the refined subject itself
	ExprLiteral
	ExprProperty
	ExprBinOp
)

// ArithOp is a PredicateExpr binary arithmetic operator.
type ArithOp string

const (
	ArithAdd ArithOp = "+"
	ArithSub ArithOp = "-"
	ArithMul ArithOp = "*"
	ArithDiv ArithOp = "/"
	ArithMod ArithOp = "%"
)

// PredicateExpr is the expression grammar refinement predicates are
// built from: Value | Literal(i64) | Property(name) | BinOp(l, op, r).
type PredicateExpr struct {
	Kind     ExprKind
	Literal  int64
	Property string
	Op       ArithOp
	L, R     *PredicateExpr
}

// Value is the expression referring to the subject being refined.
func Value() PredicateExpr { return PredicateExpr{Kind: ExprValue} }

// IntLit builds a literal expression.
func IntLit(v int64) PredicateExpr { return PredicateExpr{Kind: ExprLiteral, Literal: v} }

// Property builds a property-access expression.
func Prop(name string) PredicateExpr { return PredicateExpr{Kind: ExprProperty, Property: name} }

// BinOp builds an arithmetic expression.
func BinExpr(l PredicateExpr, op ArithOp, r PredicateExpr) PredicateExpr {
	return PredicateExpr{Kind: ExprBinOp, Op: op, L: &l, R: &r}
}

func (e PredicateExpr) String() string {
	switch e.Kind {
	case ExprValue:
		return "value"
	case ExprLiteral:
		return fmt.Sprintf("%d", e.Literal)
	case ExprProperty:
		return e.Property
	case ExprBinOp:
		return fmt.Sprintf("(%s %s %s)", e.L, e.Op, e.R)
	default:
		return "?"
	}
}

// PredKind enumerates the Predicate grammar.
type PredKind uint8

const (
	PredTrue PredKind = iota
	PredCompare
	PredAnd
	PredOr
	PredNot
	PredCustom
)

// Predicate is `True | Compare{op,lhs,rhs} | And([P]) | Or([P]) | Not(P) |
// Custom(string)` over PredicateExpr.
type Predicate struct {
	Kind     PredKind
	Op       CompareOp
	Lhs, Rhs PredicateExpr
	Sub      []Predicate // And/Or operands, or the single Not operand at index 0
	Custom   string
}

// True is the always-satisfied predicate.
func True() Predicate { return Predicate{Kind: PredTrue} }

// Compare builds a comparison predicate.
func Compare(op CompareOp, lhs, rhs PredicateExpr) Predicate {
	return Predicate{Kind: PredCompare, Op: op, Lhs: lhs, Rhs: rhs}
}

// And builds a conjunction.
func And(ps ...Predicate) Predicate { return Predicate{Kind: PredAnd, Sub: ps} }

// Or builds a disjunction.
func Or(ps ...Predicate) Predicate { return Predicate{Kind: PredOr, Sub: ps} }

// Not builds a negation.
func Not(p Predicate) Predicate { return Predicate{Kind: PredNot, Sub: []Predicate{p}} }

// CustomPredicate builds an opaque, named predicate that only implies
// itself and True.
func CustomPredicate(name string) Predicate { return Predicate{Kind: PredCustom, Custom: name} }

func (p Predicate) String() string {
	switch p.Kind {
	case PredTrue:
		return "true"
	case PredCompare:
		return fmt.Sprintf("%s %s %s", p.Lhs, p.Op, p.Rhs)
	case PredAnd:
		return joinPreds(p.Sub, " && ")
	case PredOr:
		return joinPreds(p.Sub, " || ")
	case PredNot:
		return "!(" + p.Sub[0].String() + ")"
	default:
		return p.Custom
	}
}

func joinPreds(ps []Predicate, sep string) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, sep)
}

// Implies is a conservative approximation of predicate implication:
// True only implies True; And distributes over its conjuncts; an Or
// consequent holds when the antecedent implies one of its disjuncts;
// an Or antecedent implies q only when every disjunct does; everything
// else is unproven (false). Incompleteness here is not unsoundness:
// failure to prove an implication surfaces as a type error rather
// than silently accepting a program.
func (p Predicate) Implies(q Predicate) bool {
	if q.Kind == PredTrue {
		return true
	}
	if q.Kind == PredOr {
		for _, disjunct := range q.Sub {
			if p.Implies(disjunct) {
				return true
			}
		}
	}
	switch p.Kind {
	case PredTrue:
		return q.Kind == PredTrue
	case PredAnd:
		for _, conjunct := range p.Sub {
			if conjunct.Implies(q) {
				return true
			}
		}
		return structurallyEqualPred(p, q)
	case PredOr:
		for _, disjunct := range p.Sub {
			if !disjunct.Implies(q) {
				return false
			}
		}
		return len(p.Sub) > 0
	default:
		return structurallyEqualPred(p, q)
	}
}

func structurallyEqualPred(a, b Predicate) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case PredTrue:
		return true
	case PredCompare:
		return a.Op == b.Op && a.Lhs == b.Lhs && a.Rhs == b.Rhs
	case PredCustom:
		return a.Custom == b.Custom
	case PredNot:
		return structurallyEqualPred(a.Sub[0], b.Sub[0])
	case PredAnd, PredOr:
		if len(a.Sub) != len(b.Sub) {
			return false
		}
		for i := range a.Sub {
			if !structurallyEqualPred(a.Sub[i], b.Sub[i]) {
				return false
			}
		}
		return true
	}
	return false
}
