package cypher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphergraph/cyphercore/pkg/config"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
)

func compileTest(t *testing.T, query string) *Compiled {
	t.Helper()
	cfg := config.LoadFromEnv()
	cat := catalog.New()
	c, err := Compile(cfg, cat, "g", query)
	require.NoError(t, err)
	return c
}

func TestCompileSimpleMatch(t *testing.T) {
	c := compileTest(t, "MATCH (a:Person) RETURN a")
	require.NotNil(t, c.Plan)
	require.Equal(t, "g", c.GraphName)
	text := Format(c)
	require.Contains(t, text, "Scan(vertex)")
	require.Contains(t, text, "Project")
}

func TestCompileOptionalMatchUsesLateralLeftJoin(t *testing.T) {
	c := compileTest(t, "MATCH (a:Person) OPTIONAL MATCH (a)-[:KNOWS]->(b) RETURN a, b")
	text := Format(c)
	require.Contains(t, text, "LateralLeftJoin")
}

func TestCompileVariableLengthEdge(t *testing.T) {
	c := compileTest(t, "MATCH (a)-[r:KNOWS*1..3]->(b) RETURN r")
	text := Format(c)
	require.Contains(t, text, "VLE")
	require.Contains(t, text, "range=[1..3]")
}

func TestCompileUnboundedVLE(t *testing.T) {
	c := compileTest(t, "MATCH (a)-[r:KNOWS*]->(b) RETURN r")
	text := Format(c)
	require.Contains(t, text, "range=[1..inf]")
}

func TestCompileUnion(t *testing.T) {
	c := compileTest(t, "MATCH (a:Person) RETURN a.name AS name UNION MATCH (b:Company) RETURN b.name AS name")
	text := Format(c)
	require.Contains(t, text, "Union")
}

func TestCompileCreateEmitsWriterCall(t *testing.T) {
	c := compileTest(t, "CREATE (a:Person {name: 'Ada'})-[:WORKS_AT]->(b:Company {name: 'Acme'})")
	text := Format(c)
	require.Contains(t, text, "WriterCall(_create_clause)")
}

func TestCompileCreateRejectsUndirectedEdge(t *testing.T) {
	cfg := config.LoadFromEnv()
	cat := catalog.New()
	_, err := Compile(cfg, cat, "g", "CREATE (a)-[:KNOWS]-(b)")
	require.Error(t, err)
}

func TestCompileExistsSubquery(t *testing.T) {
	c := compileTest(t, "MATCH (a:Person) WHERE EXISTS { (a)-[:KNOWS]->(:Person) } RETURN a")
	require.Len(t, c.Exists, 1)
}

func TestCompileRejectsOversizedQuery(t *testing.T) {
	cfg := &config.Config{MaxQueryLength: 4, MaxVLEUpperBound: 15, DefaultGraphNamespace: "g"}
	cat := catalog.New()
	_, err := Compile(cfg, cat, "g", "MATCH (a) RETURN a")
	require.Error(t, err)
}

func TestCompileRejectsVLEAboveConfiguredBound(t *testing.T) {
	cfg := &config.Config{MaxQueryLength: 65536, MaxVLEUpperBound: 2, DefaultGraphNamespace: "g"}
	cat := catalog.New()
	_, err := Compile(cfg, cat, "g", "MATCH (a)-[r*1..5]->(b) RETURN r")
	require.Error(t, err)
}
