package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/binder"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
	"github.com/cyphergraph/cyphercore/pkg/cypher/plan"
)

func TestTransformOnePathOmitsUnconstrainedTerminalNode(t *testing.T) {
	arena := ast.NewArena()
	b := binder.New(arena)
	path := ast.Path{
		Nodes: []ast.NodePattern{
			{Name: "a", Label: "Person", Props: ast.NoExpr},
			{Props: ast.NoExpr},
		},
		Rels: []ast.RelPattern{{Name: "r", Direction: ast.DirOut, Props: ast.NoExpr}},
	}
	node, preds, edgeNames, _, err := transformOnePath(arena, catalog.New(), "g", b, path, false)
	require.NoError(t, err)
	require.Equal(t, []string{"r"}, edgeNames)

	join, ok := node.(*plan.Join)
	require.True(t, ok)
	_, leftIsRTE := join.Left.(*plan.RangeTableEntry)
	require.True(t, leftIsRTE)

	// The anonymous, unconstrained endpoint gets no range-table entry, so
	// the join holds only a and r; the predicates still carry a's label
	// filter and r's endpoint predicate on a's side.
	pred := and(arena, preds...)
	require.NotEqual(t, ast.NoExpr, pred)
}

func TestTransformOnePathInteriorAnonymousNodeOmitted(t *testing.T) {
	arena := ast.NewArena()
	b := binder.New(arena)
	path := ast.Path{
		Nodes: []ast.NodePattern{
			{Name: "a", Label: "Person", Props: ast.NoExpr},
			{Props: ast.NoExpr},
			{Name: "c", Label: "Person", Props: ast.NoExpr},
		},
		Rels: []ast.RelPattern{
			{Name: "r1", Direction: ast.DirOut, Props: ast.NoExpr},
			{Name: "r2", Direction: ast.DirOut, Props: ast.NoExpr},
		},
	}
	_, _, edgeNames, _, err := transformOnePath(arena, catalog.New(), "g", b, path, false)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"r1", "r2"}, edgeNames)
}

func TestTransformOnePathRejectsInvalidVLERange(t *testing.T) {
	arena := ast.NewArena()
	b := binder.New(arena)
	path := ast.Path{
		Nodes: []ast.NodePattern{{Name: "a", Props: ast.NoExpr}, {Name: "b", Props: ast.NoExpr}},
		Rels:  []ast.RelPattern{{Name: "r", Direction: ast.DirOut, Props: ast.NoExpr, VarLen: &ast.VarLen{Lo: 5, Hi: 2}}},
	}
	_, _, _, _, err := transformOnePath(arena, catalog.New(), "g", b, path, false)
	require.Error(t, err)
}

func TestEdgeUniquenessRequiresAtLeastTwoEdges(t *testing.T) {
	arena := ast.NewArena()
	require.Equal(t, ast.NoExpr, edgeUniqueness(arena, []string{"r"}, nil))
	require.NotEqual(t, ast.NoExpr, edgeUniqueness(arena, []string{"r1", "r2"}, nil))
}

func TestLabelIDFilterBuildsExtractCall(t *testing.T) {
	arena := ast.NewArena()
	id := labelIDFilter(arena, "a", "Person")
	bin, ok := arena.Expr(id).(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.OpEq, bin.Op)
	fc, ok := arena.Expr(bin.Left).(*ast.FuncCall)
	require.True(t, ok)
	require.Equal(t, "extract_label_id", fc.Name)
}
