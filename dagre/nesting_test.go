package dagre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanupNestingRemovesNestingEdges(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetParent("a", "p")
	g.SetParent("b", "p")
	g.SetEdgeAttrs(EdgeID{V: "a", W: "b"}, InputEdgeAttrs{})

	runNesting(g)

	var sawNestingEdge bool
	for _, e := range g.Edges() {
		if g.edge(e).NestingEdge {
			sawNestingEdge = true
			break
		}
	}
	assert.True(t, sawNestingEdge, "runNesting should have added at least one nesting edge")

	cleanupNesting(g)

	for _, e := range g.Edges() {
		assert.False(t, g.edge(e).NestingEdge, "cleanupNesting should have removed every nesting edge, found %s", e)
	}
	assert.False(t, g.HasNode(nestingRootID))
	assert.True(t, g.HasEdge(EdgeID{V: "a", W: "b"}), "the real edge must survive cleanup")
}

func TestCleanupNestingRescalesRealEdgeMinlen(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetParent("a", "p")
	g.SetParent("b", "p")
	g.SetEdgeAttrs(EdgeID{V: "a", W: "b"}, InputEdgeAttrs{Minlen: 1, Weight: 1})

	runNesting(g)
	nodeSep := g.nodeRankFactor
	ab := g.edge(EdgeID{V: "a", W: "b"})
	assert.Equal(t, nodeSep, ab.Minlen, "runNesting should have scaled the real edge's minlen by nodeSep")

	cleanupNesting(g)

	assert.Equal(t, 1, g.edge(EdgeID{V: "a", W: "b"}).Minlen)
}
