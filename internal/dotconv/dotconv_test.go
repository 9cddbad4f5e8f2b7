package dotconv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagrelayout/dagrelayout/dagre"
)

func TestFromDOTBuildsNodesAndEdges(t *testing.T) {
	t.Parallel()
	src := `digraph {
		rankdir=LR
		a [width=30, height=20]
		b [width=30, height=20]
		a -> b [minlen=2, weight=3]
	}`

	g, err := FromDOT(strings.NewReader(src))
	require.NoError(t, err)

	require.NoError(t, dagre.Layout(g, dagre.LayoutOptions{}))

	a, b := g.NodeResult("a"), g.NodeResult("b")
	assert.Equal(t, 30.0, a.Width)
	assert.Less(t, a.Rank, b.Rank)
}

func TestFromDOTRejectsUndirectedGraph(t *testing.T) {
	t.Parallel()
	_, err := FromDOT(strings.NewReader(`graph { a -- b }`))
	assert.Error(t, err)
}

func TestFromDOTChainedEdgesExpandPairwise(t *testing.T) {
	t.Parallel()
	g, err := FromDOT(strings.NewReader(`digraph { a -> b -> c }`))
	require.NoError(t, err)
	assert.True(t, g.HasEdge(dagre.EdgeID{V: "a", W: "b"}))
	assert.True(t, g.HasEdge(dagre.EdgeID{V: "b", W: "c"}))
}

func TestFromDOTSubgraphBecomesCompoundParent(t *testing.T) {
	t.Parallel()
	g, err := FromDOT(strings.NewReader(`digraph {
		subgraph cluster_0 {
			a [width=10, height=10]
			b [width=10, height=10]
			a -> b
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "cluster_0", g.Parent("a"))
	assert.Equal(t, "cluster_0", g.Parent("b"))
}

func TestFromDOTNodeDefaultsApplyForwardOnly(t *testing.T) {
	t.Parallel()
	g, err := FromDOT(strings.NewReader(`digraph {
		a [width=1, height=1]
		node [width=40, height=40]
		b
		c [width=5, height=5]
	}`))
	require.NoError(t, err)
	assert.Equal(t, 1.0, g.NodeResult("a").Width)
	assert.Equal(t, 40.0, g.NodeResult("b").Width)
	assert.Equal(t, 5.0, g.NodeResult("c").Width)
}

func TestFromDOTPassthroughAttrsSurviveRoundTrip(t *testing.T) {
	t.Parallel()
	g, err := FromDOT(strings.NewReader(`digraph { a [shape=box] }`))
	require.NoError(t, err)
	assert.Equal(t, "box", g.NodeResult("a").Attrs["shape"])
}

func TestToDOTWritesPositionedGraph(t *testing.T) {
	t.Parallel()
	g, err := FromDOT(strings.NewReader(`digraph { a -> b }`))
	require.NoError(t, err)
	require.NoError(t, dagre.Layout(g, dagre.LayoutOptions{}))

	var buf bytes.Buffer
	require.NoError(t, ToDOT(&buf, g))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph {"))
	assert.Contains(t, out, "a -> b")
	assert.Contains(t, out, "pos=")
}

func TestParseErrorReportsPosition(t *testing.T) {
	t.Parallel()
	_, err := FromDOT(strings.NewReader(`digraph { a -> }`))
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
