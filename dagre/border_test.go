package dagre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunBorderSegmentsSpansMinToMaxRank(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetParent("child", "cluster")
	g.node("cluster").MinRank = 0
	g.node("cluster").MaxRank = 2

	runBorderSegments(g)

	cluster := g.node("cluster")
	assert.Len(t, cluster.BorderLeft, 3)
	assert.Len(t, cluster.BorderRight, 3)
	for i, id := range cluster.BorderLeft {
		assert.Equal(t, i, g.node(id).Rank)
		assert.Equal(t, DummyBorder, g.node(id).Dummy)
		assert.Equal(t, "cluster", g.Parent(id))
	}
	// adjacent border nodes are chained
	assert.True(t, g.HasEdge(EdgeID{V: cluster.BorderLeft[0], W: cluster.BorderLeft[1]}))
	assert.True(t, g.HasEdge(EdgeID{V: cluster.BorderRight[1], W: cluster.BorderRight[2]}))
}

func TestRunBorderSegmentsSkipsLeafNodes(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("leaf")

	runBorderSegments(g)

	assert.Empty(t, g.node("leaf").BorderLeft)
}

func TestRemoveBorderNodesSizesContainer(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetParent("child", "cluster")
	g.node("cluster").MinRank = 0
	g.node("cluster").MaxRank = 1

	runBorderSegments(g)
	cluster := g.node("cluster")
	g.node(cluster.BorderLeft[0]).X, g.node(cluster.BorderLeft[0]).Y = 0, 0
	g.node(cluster.BorderLeft[1]).X, g.node(cluster.BorderLeft[1]).Y = 0, 50
	g.node(cluster.BorderRight[0]).X, g.node(cluster.BorderRight[0]).Y = 100, 0
	g.node(cluster.BorderRight[1]).X, g.node(cluster.BorderRight[1]).Y = 100, 50

	removeBorderNodes(g)

	assert.Equal(t, 50.0, g.node("cluster").X)
	assert.Equal(t, 25.0, g.node("cluster").Y)
	assert.Equal(t, 100.0+2*defaultBorderPadding, g.node("cluster").Width)
	assert.Equal(t, 50.0+2*defaultBorderPadding, g.node("cluster").Height)
	for _, id := range append(cluster.BorderLeft, cluster.BorderRight...) {
		assert.False(t, g.HasNode(id))
	}
}
