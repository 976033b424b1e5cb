package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
)

func TestParseSimpleMatchReturn(t *testing.T) {
	q, err := Parse("MATCH (a:Person)-[r:KNOWS]->(b:Person) WHERE a.age > 30 RETURN a.name, b.name AS friend")
	require.NoError(t, err)
	require.NotEqual(t, ast.NoClause, q.Head)

	m, ok := q.Arena.Clause(q.Head).(*ast.Match)
	require.True(t, ok)
	require.False(t, m.Optional)
	require.Len(t, m.Patterns, 1)
	path := m.Patterns[0]
	require.Len(t, path.Nodes, 2)
	require.Len(t, path.Rels, 1)
	require.Equal(t, "a", path.Nodes[0].Name)
	require.Equal(t, "Person", path.Nodes[0].Label)
	require.Equal(t, "r", path.Rels[0].Name)
	require.Equal(t, "KNOWS", path.Rels[0].Label)
	require.Equal(t, ast.DirOut, path.Rels[0].Direction)
	require.NotEqual(t, ast.NoExpr, m.Where)

	second := q.Arena.NextOf(q.Head)
	ret, ok := q.Arena.Clause(second).(*ast.Return)
	require.True(t, ok)
	require.Len(t, ret.Items, 2)
	require.Equal(t, "friend", ret.Items[1].Alias)
}

func TestParseOptionalMatchWithVarLengthEdge(t *testing.T) {
	q, err := Parse("MATCH (a) OPTIONAL MATCH (a)-[:LINK*1..3]->(b) RETURN b")
	require.NoError(t, err)

	second := q.Arena.Clause(q.Arena.NextOf(q.Head)).(*ast.Match)
	require.True(t, second.Optional)
	rel := second.Patterns[0].Rels[0]
	require.NotNil(t, rel.VarLen)
	require.Equal(t, 1, rel.VarLen.Lo)
	require.Equal(t, 3, rel.VarLen.Hi)
}

func TestParseUnboundedVarLength(t *testing.T) {
	q, err := Parse("MATCH (a)-[:LINK*]->(b) RETURN b")
	require.NoError(t, err)
	m := q.Arena.Clause(q.Head).(*ast.Match)
	vl := m.Patterns[0].Rels[0].VarLen
	require.Equal(t, 1, vl.Lo)
	require.True(t, vl.HiInfinite())
}

func TestParseCreateMergeSetDelete(t *testing.T) {
	q, err := Parse(`CREATE (a:Person {name: 'Alice'})
MERGE (b:Person {name: 'Bob'}) ON CREATE SET b.created = true
SET a.age = 30, a:Active
REMOVE a.temp
DETACH DELETE a`)
	require.NoError(t, err)

	links := collectClauses(q)
	require.Len(t, links, 5)

	create, ok := q.Arena.Clause(links[0]).(*ast.Create)
	require.True(t, ok)
	require.Equal(t, "Alice", mustLiteralString(t, q.Arena, create.Patterns[0].Nodes[0].Props))

	merge, ok := q.Arena.Clause(links[1]).(*ast.Merge)
	require.True(t, ok)
	require.Len(t, merge.OnCreateSet, 1)
	require.Equal(t, "created", merge.OnCreateSet[0].Property)

	set, ok := q.Arena.Clause(links[2]).(*ast.Set)
	require.True(t, ok)
	require.False(t, set.IsRemove)
	require.Len(t, set.Items, 2)
	require.True(t, set.Items[1].IsLabel)
	require.Equal(t, "Active", set.Items[1].Label)

	remove, ok := q.Arena.Clause(links[3]).(*ast.Set)
	require.True(t, ok)
	require.True(t, remove.IsRemove)
	require.Equal(t, "temp", remove.Items[0].Property)

	del, ok := q.Arena.Clause(links[4]).(*ast.Delete)
	require.True(t, ok)
	require.True(t, del.Detach)
}

func TestParseWithStarAndUnwind(t *testing.T) {
	q, err := Parse("MATCH (a) WITH *, a.name AS n UNWIND [1,2,3] AS x RETURN n, x")
	require.NoError(t, err)
	links := collectClauses(q)
	with, ok := q.Arena.Clause(links[1]).(*ast.With)
	require.True(t, ok)
	require.True(t, with.Star)
	require.Len(t, with.Items, 1)

	un, ok := q.Arena.Clause(links[2]).(*ast.Unwind)
	require.True(t, ok)
	require.Equal(t, "x", un.As)
}

func TestParseUnionAll(t *testing.T) {
	q, err := Parse("MATCH (a) RETURN a.name AS n UNION ALL MATCH (b) RETURN b.name AS n")
	require.NoError(t, err)
	union, ok := q.Arena.Clause(q.Head).(*ast.Return)
	require.True(t, ok)
	require.Equal(t, ast.SetOpUnionAll, union.Op)
	require.NotEqual(t, ast.NoClause, union.Larg)
	require.NotEqual(t, ast.NoClause, union.Rarg)
}

func TestParseChainedComparisonBuildsChainCmp(t *testing.T) {
	q, err := Parse("MATCH (a) WHERE 1 < a.age < 65 RETURN a")
	require.NoError(t, err)
	m := q.Arena.Clause(q.Head).(*ast.Match)
	chain, ok := q.Arena.Expr(m.Where).(*ast.ChainCmp)
	require.True(t, ok)
	require.Len(t, chain.Terms, 3)
	require.Equal(t, []ast.BinaryOp{ast.OpLt, ast.OpLt}, chain.Ops)
}

func TestParseAndFlattensIntoSingleBoolTree(t *testing.T) {
	q, err := Parse("MATCH (a) WHERE a.x = 1 AND a.y = 2 AND a.z = 3 RETURN a")
	require.NoError(t, err)
	m := q.Arena.Clause(q.Head).(*ast.Match)
	tree, ok := q.Arena.Expr(m.Where).(*ast.BoolTree)
	require.True(t, ok)
	require.Equal(t, ast.OpAnd, tree.Op)
	require.Len(t, tree.Operands, 3)
}

func TestParseUnaryMinusFoldsIntoLiteral(t *testing.T) {
	q, err := Parse("RETURN -5")
	require.NoError(t, err)
	ret := q.Arena.Clause(q.Head).(*ast.Return)
	lit, ok := q.Arena.Expr(ret.Items[0].Expr).(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, ast.LitInt, lit.Kind)
	require.Equal(t, int64(-5), lit.Int)
}

func TestParseCallYieldIsAcceptedSyntactically(t *testing.T) {
	q, err := Parse("CALL db.labels() YIELD label RETURN label")
	require.NoError(t, err)
	c, ok := q.Arena.Clause(q.Head).(*ast.CallYield)
	require.True(t, ok)
	require.Equal(t, "db.labels", c.Procedure)
	require.Len(t, c.Yields, 1)
	require.Equal(t, "label", c.Yields[0].Name)
}

func TestParseTypecastAndSubscript(t *testing.T) {
	q, err := Parse("RETURN a[0]::integer")
	require.NoError(t, err)
	ret := q.Arena.Clause(q.Head).(*ast.Return)
	cast, ok := q.Arena.Expr(ret.Items[0].Expr).(*ast.TypeCast)
	require.True(t, ok)
	require.Equal(t, "integer", cast.Target)
	_, ok = q.Arena.Expr(cast.Operand).(*ast.Subscript)
	require.True(t, ok)
}

func collectClauses(q *ast.Query) []ast.ClauseID {
	var out []ast.ClauseID
	for id := q.Head; id != ast.NoClause; id = q.Arena.NextOf(id) {
		out = append(out, id)
	}
	return out
}

func mustLiteralString(t *testing.T, a *ast.Arena, id ast.ExprID) string {
	t.Helper()
	m, ok := a.Expr(id).(*ast.MapLiteral)
	require.True(t, ok)
	require.Len(t, m.Keys, 1)
	lit, ok := a.Expr(m.Values[0]).(*ast.Literal)
	require.True(t, ok)
	return lit.Str
}
