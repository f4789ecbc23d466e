// Package refine implements the refinement checker: constructors
// for the common refinement predicates, and a runtime-value validator
// that evaluates a types.Predicate against a concrete value.
package refine

import "github.com/GriffinCanCode/gradualtype/internal/types"

// Positive builds `Value > 0`.
func Positive() types.Predicate {
	return types.Compare(types.OpGt, types.Value(), types.IntLit(0))
}

// Negative builds `Value < 0`.
func Negative() types.Predicate {
	return types.Compare(types.OpLt, types.Value(), types.IntLit(0))
}

// NonNegative builds `Value > 0 or Value == 0`.
func NonNegative() types.Predicate {
	return types.Or(Positive(), types.Compare(types.OpEq, types.Value(), types.IntLit(0)))
}

// Even builds `Value % 2 == 0`.
func Even() types.Predicate {
	return types.Compare(types.OpEq, types.BinExpr(types.Value(), types.ArithMod, types.IntLit(2)), types.IntLit(0))
}

// Odd builds `Value % 2 != 0`.
func Odd() types.Predicate {
	return types.Compare(types.OpNe, types.BinExpr(types.Value(), types.ArithMod, types.IntLit(2)), types.IntLit(0))
}

// Bounded builds `lo <= Value <= hi`.
func Bounded(lo, hi int64) types.Predicate {
	return types.And(
		types.Compare(types.OpGe, types.Value(), types.IntLit(lo)),
		types.Compare(types.OpLe, types.Value(), types.IntLit(hi)),
	)
}

// NonEmpty builds the dependent constraint `Length(Value) >= 1`,
// expressed as a DependentConstraint rather than a Predicate since it
// concerns the subject's length rather than its value.
func NonEmpty() types.DependentConstraint {
	return types.DependentConstraint{Kind: types.DepLengthRange, Min: 1, Max: -1}
}

// Length builds the exact-length dependent constraint `Length(Value) == n`.
func Length(n int) types.DependentConstraint {
	return types.DependentConstraint{Kind: types.DepLength, Min: n, Max: n}
}
