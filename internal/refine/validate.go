package refine

import "github.com/GriffinCanCode/gradualtype/internal/types"

// Validate evaluates p against subject, a concrete runtime value
// (int64, string, or []any for list/tuple-shaped data), substituting
// types.Value() with subject. Arithmetic mismatches and
// division/modulo by zero cause validation to fail rather than panic.
func Validate(p types.Predicate, subject any) bool {
	switch p.Kind {
	case types.PredTrue:
		return true
	case types.PredCompare:
		lhs, ok := evalExpr(p.Lhs, subject)
		if !ok {
			return false
		}
		rhs, ok := evalExpr(p.Rhs, subject)
		if !ok {
			return false
		}
		return compareOp(p.Op, lhs, rhs)
	case types.PredAnd:
		for _, sub := range p.Sub {
			if !Validate(sub, subject) {
				return false
			}
		}
		return true
	case types.PredOr:
		for _, sub := range p.Sub {
			if Validate(sub, subject) {
				return true
			}
		}
		return false
	case types.PredNot:
		if len(p.Sub) != 1 {
			return false
		}
		return !Validate(p.Sub[0], subject)
	case types.PredCustom:
		// No executable semantics for an opaque custom predicate name;
		// conservatively fail rather than guess.
		return false
	default:
		return false
	}
}

func compareOp(op types.CompareOp, l, r int64) bool {
	switch op {
	case types.OpEq:
		return l == r
	case types.OpNe:
		return l != r
	case types.OpLt:
		return l < r
	case types.OpLe:
		return l <= r
	case types.OpGt:
		return l > r
	case types.OpGe:
		return l >= r
	default:
		return false
	}
}

// evalExpr reduces a PredicateExpr to an int64 given subject, failing
// (ok=false) on a type mismatch, an unresolvable property, or
// division/modulo by zero.
func evalExpr(e types.PredicateExpr, subject any) (int64, bool) {
	switch e.Kind {
	case types.ExprValue:
		return toInt64(subject)
	case types.ExprLiteral:
		return e.Literal, true
	case types.ExprProperty:
		return evalProperty(e.Property, subject)
	case types.ExprBinOp:
		l, ok := evalExpr(*e.L, subject)
		if !ok {
			return 0, false
		}
		r, ok := evalExpr(*e.R, subject)
		if !ok {
			return 0, false
		}
		return applyArith(e.Op, l, r)
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		return int64(len(n)), false // strings have no numeric value; see evalProperty for length
	default:
		return 0, false
	}
}

func evalProperty(name string, subject any) (int64, bool) {
	if name != "length" {
		return 0, false
	}
	switch v := subject.(type) {
	case string:
		return int64(len(v)), true
	case []any:
		return int64(len(v)), true
	default:
		return 0, false
	}
}

func applyArith(op types.ArithOp, l, r int64) (int64, bool) {
	switch op {
	case types.ArithAdd:
		return l + r, true
	case types.ArithSub:
		return l - r, true
	case types.ArithMul:
		return l * r, true
	case types.ArithDiv:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case types.ArithMod:
		if r == 0 {
			return 0, false
		}
		return l % r, true
	default:
		return 0, false
	}
}
