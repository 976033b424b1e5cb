package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/binder"
)

func TestTransformCreateBuildsVertexAndEdgeDirectives(t *testing.T) {
	arena := ast.NewArena()
	b := binder.New(arena)
	c := &ast.Create{Patterns: []ast.Path{{
		Nodes: []ast.NodePattern{{Name: "a", Label: "Person", Props: ast.NoExpr}, {Name: "b", Label: "Company", Props: ast.NoExpr}},
		Rels:  []ast.RelPattern{{Name: "r", Label: "WORKS_AT", Direction: ast.DirOut, Props: ast.NoExpr}},
	}}}
	wc, err := transformCreate(arena, b, c)
	require.NoError(t, err)
	require.Equal(t, "_create_clause", wc.FuncName)
	d := wc.Directive.(*CreateDirective)
	require.Len(t, d.Vertices, 2)
	require.Len(t, d.Edges, 1)
	require.Equal(t, "a", d.Edges[0].StartAlias)
	require.Equal(t, "b", d.Edges[0].EndAlias)
}

func TestTransformCreateRejectsParamAsWholePropertyMap(t *testing.T) {
	arena := ast.NewArena()
	b := binder.New(arena)
	param := arena.NewExpr(&ast.Parameter{Name: "props"})
	c := &ast.Create{Patterns: []ast.Path{{
		Nodes: []ast.NodePattern{{Name: "a", Props: param}},
	}}}
	_, err := transformCreate(arena, b, c)
	require.Error(t, err)
}

func TestTransformCreateRejectsRebindingPriorClauseVariable(t *testing.T) {
	arena := ast.NewArena()
	b := binder.New(arena)
	_, err := b.Declare("a", binder.KindVertex, ast.NoExpr, false)
	require.NoError(t, err)
	b.Advance()

	c := &ast.Create{Patterns: []ast.Path{{
		Nodes: []ast.NodePattern{{Name: "a", Label: "Person", Props: ast.NoExpr}},
	}}}
	_, err = transformCreate(arena, b, c)
	require.Error(t, err)
}

func TestTransformSetRejectsTargetWithoutProperty(t *testing.T) {
	arena := ast.NewArena()
	b := binder.New(arena)
	_, _ = b.Declare("a", binder.KindVertex, ast.NoExpr, false)

	s := &ast.Set{Items: []ast.SetItem{{Variable: "a"}}}
	_, err := transformSetClause(arena, b, s)
	require.Error(t, err)
}

func TestTransformSetBuildsLabelDirective(t *testing.T) {
	arena := ast.NewArena()
	b := binder.New(arena)
	_, _ = b.Declare("a", binder.KindVertex, ast.NoExpr, false)

	s := &ast.Set{Items: []ast.SetItem{{Variable: "a", IsLabel: true, Label: "Admin"}}}
	wc, err := transformSetClause(arena, b, s)
	require.NoError(t, err)
	d := wc.Directive.(*SetDirective)
	require.Len(t, d.Labels, 1)
	require.Equal(t, "Admin", d.Labels[0].Label)
}

func TestTransformMergeBuildsOnCreateAndOnMatchDirectives(t *testing.T) {
	arena := ast.NewArena()
	b := binder.New(arena)
	val := arena.NewExpr(&ast.Literal{Kind: ast.LitInt, Int: 1})
	m := &ast.Merge{
		Path:        ast.Path{Nodes: []ast.NodePattern{{Name: "a", Label: "Person", Props: ast.NoExpr}}},
		OnCreateSet: []ast.SetItem{{Variable: "a", Property: "visits", Value: val}},
	}
	wc, err := transformMerge(arena, b, m)
	require.NoError(t, err)
	d := wc.Directive.(*MergeDirective)
	require.NotNil(t, d.OnCreateSet)
	require.Len(t, d.OnCreateSet.Properties, 1)
	require.Nil(t, d.OnMatchSet)
}
