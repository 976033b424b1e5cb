package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdjacencyIndexIsBuiltOnEdgeInsert(t *testing.T) {
	c := New()
	g := c.AddGraph("social", "public")
	person := c.AddLabel(g, "Person", KindVertex)
	knows := c.AddLabel(g, "KNOWS", KindEdge)

	c.AddVertex(1, person, map[string]any{"name": "Alice"})
	c.AddVertex(2, person, map[string]any{"name": "Bob"})
	c.AddEdge(100, knows, 1, 2, nil)

	out := c.OutEdges(1)
	require.Len(t, out, 1)
	require.Equal(t, int64(100), out[0].EdgeID)
	require.Equal(t, int64(2), out[0].OtherID)

	in := c.InEdges(2)
	require.Len(t, in, 1)
	require.Equal(t, int64(1), in[0].OtherID)

	require.Empty(t, c.SelfEdges(1))
}

func TestSelfLoopEdgeGoesInSelfList(t *testing.T) {
	c := New()
	g := c.AddGraph("g", "public")
	v := c.AddLabel(g, "V", KindVertex)
	e := c.AddLabel(g, "E", KindEdge)
	c.AddVertex(1, v, nil)
	c.AddEdge(10, e, 1, 1, nil)

	require.Empty(t, c.OutEdges(1))
	require.Empty(t, c.InEdges(1))
	require.Len(t, c.SelfEdges(1), 1)
}

func TestLabelLookupByNameAndID(t *testing.T) {
	c := New()
	g := c.AddGraph("g", "public")
	l := c.AddLabel(g, "Person", KindVertex)

	found, ok := c.Label(g, "Person")
	require.True(t, ok)
	require.Equal(t, l.ID, found.ID)

	byID, ok := c.LabelByID(l.ID)
	require.True(t, ok)
	require.Equal(t, "Person", byID.Name)

	_, ok = c.Label(g, "NoSuchLabel")
	require.False(t, ok)
}
