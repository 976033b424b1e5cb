package binder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/cyphererr"
)

func TestDeclareAndLookup(t *testing.T) {
	b := New(ast.NewArena())
	bd, err := b.Declare("a", KindVertex, ast.NoExpr, false)
	require.NoError(t, err)
	require.Equal(t, "a", bd.Name)

	found, err := b.Lookup("a")
	require.NoError(t, err)
	require.Same(t, bd, found)
}

func TestLookupUnknownVariableErrors(t *testing.T) {
	b := New(ast.NewArena())
	_, err := b.Lookup("missing")
	require.Error(t, err)
	require.True(t, cyphererr.ErrUnknownVariable.Is(err))
}

func TestDuplicateBindingSameClauseConflictingKind(t *testing.T) {
	b := New(ast.NewArena())
	_, err := b.Declare("x", KindVertex, ast.NoExpr, false)
	require.NoError(t, err)
	_, err = b.Declare("x", KindEdge, ast.NoExpr, false)
	require.Error(t, err)
	require.True(t, cyphererr.ErrDuplicateBinding.Is(err))
}

func TestCreateCannotRebindWithDifferentKind(t *testing.T) {
	b := New(ast.NewArena())
	_, err := b.Declare("n", KindVertex, ast.NoExpr, false)
	require.NoError(t, err)
	b.Advance()

	_, err = b.Declare("n", KindEdge, ast.NoExpr, true)
	require.Error(t, err)
	require.True(t, cyphererr.ErrDuplicateBinding.Is(err))
}

func TestAdvanceResetsDeclaredInCurrentClause(t *testing.T) {
	b := New(ast.NewArena())
	bd, err := b.Declare("n", KindVertex, ast.NoExpr, false)
	require.NoError(t, err)
	require.True(t, bd.DeclaredInCurrentClause)

	b.Advance()
	require.False(t, bd.DeclaredInCurrentClause)

	// Same name, same kind, in a later clause: allowed, re-marks current.
	again, err := b.Declare("n", KindVertex, ast.NoExpr, false)
	require.NoError(t, err)
	require.Same(t, bd, again)
	require.True(t, bd.DeclaredInCurrentClause)
}

func TestNameNodeAssignsAnonymousName(t *testing.T) {
	a := ast.NewArena()
	b := New(a)
	n := &ast.NodePattern{}
	_, err := b.NameNode(n, false)
	require.NoError(t, err)
	require.Equal(t, "_default_0", n.Name)
}

func TestNameRelPicksVleEdgeKind(t *testing.T) {
	a := ast.NewArena()
	b := New(a)
	r := &ast.RelPattern{VarLen: &ast.VarLen{Lo: 1, Hi: -1}}
	bd, err := b.NameRel(r, false)
	require.NoError(t, err)
	require.Equal(t, KindVleEdge, bd.Kind)
}

func TestAllReturnsInsertionOrder(t *testing.T) {
	b := New(ast.NewArena())
	_, _ = b.Declare("b", KindVertex, ast.NoExpr, false)
	_, _ = b.Declare("a", KindVertex, ast.NoExpr, false)
	all := b.All()
	require.Len(t, all, 2)
	require.Equal(t, "b", all[0].Name)
	require.Equal(t, "a", all[1].Name)
}
