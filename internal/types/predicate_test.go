package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicateImplicationTrue(t *testing.T) {
	require.True(t, True().Implies(True()))
	p := Compare(OpGt, Value(), IntLit(0))
	require.True(t, p.Implies(True()))
}

func TestPredicateAndDistributes(t *testing.T) {
	p := And(Compare(OpGt, Value(), IntLit(0)), Compare(OpLt, Value(), IntLit(100)))
	require.True(t, p.Implies(Compare(OpGt, Value(), IntLit(0))))
	require.True(t, p.Implies(Compare(OpLt, Value(), IntLit(100))))
	require.False(t, p.Implies(Compare(OpEq, Value(), IntLit(5))))
}

func TestPredicateOrChecksEveryDisjunct(t *testing.T) {
	q := Compare(OpGt, Value(), IntLit(0))
	p := Or(q, Compare(OpEq, Value(), IntLit(0)))
	require.True(t, p.Implies(Or(q, Compare(OpEq, Value(), IntLit(0)))))
	require.False(t, p.Implies(q)) // the == 0 disjunct does not imply q
}

func TestPredicateCustomOnlyImpliesItselfAndTrue(t *testing.T) {
	c := CustomPredicate("matches(/^[a-z]+$/)")
	require.True(t, c.Implies(True()))
	require.True(t, c.Implies(c))
	require.False(t, c.Implies(CustomPredicate("other")))
}
