package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
	"github.com/cyphergraph/cyphercore/pkg/cypher/parser"
	"github.com/cyphergraph/cyphercore/pkg/cypher/plan"
)

func compile(t *testing.T, src string) (*ast.Query, *Result) {
	t.Helper()
	q, err := parser.Parse(src)
	require.NoError(t, err)
	r, err := Transform(q, catalog.New(), "g")
	require.NoError(t, err)
	return q, r
}

func TestTransformSimpleMatchBuildsScanAndProjection(t *testing.T) {
	_, r := compile(t, "MATCH (a:Person) RETURN a")
	proj, ok := r.Plan.(*plan.Projection)
	require.True(t, ok)
	require.Len(t, proj.Items, 1)
	require.Equal(t, "a", proj.Items[0].Alias)

	filter, ok := proj.Input.(*plan.Filter)
	require.True(t, ok)
	rte, ok := filter.Input.(*plan.RangeTableEntry)
	require.True(t, ok)
	require.Equal(t, "Person", rte.Label)
}

func TestTransformDirectedEdgeJoinsOnStartEnd(t *testing.T) {
	_, r := compile(t, "MATCH (a:Person)-[r:KNOWS]->(b:Person) RETURN r")
	proj := r.Plan.(*plan.Projection)
	filter := proj.Input.(*plan.Filter)
	_, ok := filter.Input.(*plan.Join)
	require.True(t, ok)
}

func TestTransformOptionalMatchUsesLateralLeftJoin(t *testing.T) {
	_, r := compile(t, "MATCH (a:Person) OPTIONAL MATCH (a)-[:KNOWS]->(b) RETURN a, b")
	proj := r.Plan.(*plan.Projection)
	join, ok := proj.Input.(*plan.Join)
	require.True(t, ok)
	require.Equal(t, plan.JoinLateralLeft, join.Kind)
}

func TestTransformVariableLengthEdgeBuildsVLECall(t *testing.T) {
	_, r := compile(t, "MATCH (a)-[r:KNOWS*2..4]->(b) RETURN r")
	proj := r.Plan.(*plan.Projection)
	filter := proj.Input.(*plan.Filter)
	join := filter.Input.(*plan.Join)
	vc, ok := join.Right.(*plan.VLECall)
	require.True(t, ok)
	require.Equal(t, 2, vc.Lo)
	require.Equal(t, 4, vc.Hi)
	require.False(t, vc.HiInfinite)
}

func TestTransformCreateRejectsUndirectedEdge(t *testing.T) {
	q, err := parser.Parse("CREATE (a)-[:KNOWS]-(b)")
	require.NoError(t, err)
	_, err = Transform(q, catalog.New(), "g")
	require.Error(t, err)
}

func TestTransformCreateRejectsUnlabeledEdge(t *testing.T) {
	q, err := parser.Parse("CREATE (a)-[r]->(b)")
	require.NoError(t, err)
	_, err = Transform(q, catalog.New(), "g")
	require.Error(t, err)
}

func TestTransformWithRescopesBindings(t *testing.T) {
	_, r := compile(t, "MATCH (a:Person) WITH a.name AS name RETURN name")
	proj := r.Plan.(*plan.Projection)
	require.Equal(t, "name", proj.Items[0].Alias)
	inner, ok := proj.Input.(*plan.Projection)
	require.True(t, ok)
	require.Equal(t, "name", inner.Items[0].Alias)
}

func TestTransformUnwindDeclaresScalar(t *testing.T) {
	_, r := compile(t, "UNWIND [1,2,3] AS x RETURN x")
	proj := r.Plan.(*plan.Projection)
	_, ok := proj.Input.(*plan.Unwind)
	require.True(t, ok)
}

func TestTransformUnionBuildsSetOp(t *testing.T) {
	_, r := compile(t, "MATCH (a:Person) RETURN a.name AS n UNION MATCH (b:Company) RETURN b.name AS n")
	_, ok := r.Plan.(*plan.SetOp)
	require.True(t, ok)
}

func TestTransformExistsRegistersSubquery(t *testing.T) {
	_, r := compile(t, "MATCH (a:Person) WHERE EXISTS { (a)-[:KNOWS]->(b:Person) } RETURN a")
	require.Len(t, r.Exists, 1)
	for _, ex := range r.Exists {
		require.Contains(t, ex.OuterRefs, "a")
	}
}

func TestTransformMergeRejectsReboundEdge(t *testing.T) {
	q, err := parser.Parse("MATCH (a)-[r:KNOWS]->(b) MERGE (a)-[r:KNOWS]->(b)")
	require.NoError(t, err)
	_, err = Transform(q, catalog.New(), "g")
	require.Error(t, err)
}

func TestTransformDeleteRequiresPriorBinding(t *testing.T) {
	q, err := parser.Parse("MATCH (a) DELETE b")
	require.NoError(t, err)
	_, err = Transform(q, catalog.New(), "g")
	require.Error(t, err)
}

func TestTransformReturnAllowsUnaliasedPropertyAccess(t *testing.T) {
	_, r := compile(t, "MATCH (a:Person)-[:KNOWS]->(b:Person) RETURN a.k, b.k")
	proj, ok := r.Plan.(*plan.Projection)
	require.True(t, ok)
	require.Len(t, proj.Items, 2)
	require.Equal(t, "a.k", proj.Items[0].Alias)
	require.Equal(t, "b.k", proj.Items[1].Alias)
}

func TestTransformWithStillRequiresAliasOnNonVariableItem(t *testing.T) {
	q, err := parser.Parse("MATCH (a:Person) WITH a.k RETURN a")
	require.NoError(t, err)
	_, err = Transform(q, catalog.New(), "g")
	require.Error(t, err)
}

func TestTransformLowersChainedComparisonIntoConjoinedBinaries(t *testing.T) {
	q, err := parser.Parse("MATCH (a:Person) WHERE 1 < a.age < 65 RETURN a")
	require.NoError(t, err)
	r, err := Transform(q, catalog.New(), "g")
	require.NoError(t, err)
	proj := r.Plan.(*plan.Projection)
	filter, ok := proj.Input.(*plan.Filter)
	require.True(t, ok)
	assertNoChainCmp(t, q.Arena, filter.Predicate)
}

func TestTransformLowersChainedComparisonNestedInsideAnd(t *testing.T) {
	q, err := parser.Parse("MATCH (a:Person) WHERE a.x < a.y AND a.y <= a.z < a.w RETURN a")
	require.NoError(t, err)
	r, err := Transform(q, catalog.New(), "g")
	require.NoError(t, err)
	proj := r.Plan.(*plan.Projection)
	filter := proj.Input.(*plan.Filter)
	assertNoChainCmp(t, q.Arena, filter.Predicate)
}

func assertNoChainCmp(t *testing.T, arena *ast.Arena, id ast.ExprID) {
	t.Helper()
	if id == ast.NoExpr {
		return
	}
	switch e := arena.Expr(id).(type) {
	case *ast.ChainCmp:
		t.Fatalf("unlowered ChainCmp survived into the plan")
	case *ast.Binary:
		assertNoChainCmp(t, arena, e.Left)
		assertNoChainCmp(t, arena, e.Right)
	case *ast.BoolTree:
		for _, o := range e.Operands {
			assertNoChainCmp(t, arena, o)
		}
	}
}

func TestTransformRejectsLimitReferencingVariable(t *testing.T) {
	q, err := parser.Parse("MATCH (a:Person) RETURN a LIMIT a.age")
	require.NoError(t, err)
	_, err = Transform(q, catalog.New(), "g")
	require.Error(t, err)
}

func TestTransformAllowsLimitWithConstant(t *testing.T) {
	_, r := compile(t, "MATCH (a:Person) RETURN a LIMIT 10")
	lo := r.Plan.(*plan.LimitOffset)
	_, ok := lo.Input.(*plan.Projection)
	require.True(t, ok)
}
