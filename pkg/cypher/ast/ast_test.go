package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnonNamesAreUniqueAndDeterministic(t *testing.T) {
	a := NewArena()
	require.Equal(t, "_default_0", a.NextAnonName())
	names := map[string]bool{"_default_0": true}
	for i := 0; i < 5; i++ {
		n := a.NextAnonName()
		require.False(t, names[n], "duplicate anon name %s", n)
		names[n] = true
	}

	a.Reset()
	require.Equal(t, "_default_0", a.NextAnonName(), "counter restarts after Reset")
}

func TestPrintRoundTripLiteral(t *testing.T) {
	a := NewArena()
	id := a.NewExpr(&Literal{Kind: LitInt, Int: 42})
	s1 := Print(a, id)
	require.Equal(t, "42", s1)
}

func TestPrintRoundTripChainCmp(t *testing.T) {
	a := NewArena()
	x := a.NewExpr(&Variable{Name: "a"})
	y := a.NewExpr(&Literal{Kind: LitInt, Int: 1})
	z := a.NewExpr(&Literal{Kind: LitInt, Int: 2})
	chain := a.NewExpr(&ChainCmp{Terms: []ExprID{x, y, z}, Ops: []BinaryOp{OpLt, OpLt}})
	s := Print(a, chain)
	require.Equal(t, "(a < 1) AND (1 < 2)", s)
}

func TestPrintBoolTreeFlattened(t *testing.T) {
	a := NewArena()
	t1 := a.NewExpr(&Literal{Kind: LitBool, Bool: true})
	t2 := a.NewExpr(&Literal{Kind: LitBool, Bool: false})
	t3 := a.NewExpr(&Literal{Kind: LitBool, Bool: true})
	tree := a.NewExpr(&BoolTree{Op: OpAnd, Operands: []ExprID{t1, t2, t3}})
	require.Equal(t, "(true AND false AND true)", Print(a, tree))
}

func TestVarLenHiInfinite(t *testing.T) {
	v := VarLen{Lo: 1, Hi: -1}
	require.True(t, v.HiInfinite())
	v2 := VarLen{Lo: 1, Hi: 3}
	require.False(t, v2.HiInfinite())
}
