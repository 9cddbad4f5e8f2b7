package dagre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveSelfEdgesStashesAndDeletes(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	g.SetEdge(EdgeID{V: "a", W: "a"}, edgeLabel{Minlen: 1, Weight: 1, Width: 10, Height: 6})
	g.SetEdge(EdgeID{V: "a", W: "b"}, edgeLabel{Minlen: 1, Weight: 1})

	removeSelfEdges(g)

	assert.False(t, g.HasEdge(EdgeID{V: "a", W: "a"}))
	assert.True(t, g.HasEdge(EdgeID{V: "a", W: "b"}))
	stash := g.node("a").SelfEdges
	assert.Len(t, stash, 1)
	assert.Equal(t, 10.0, stash[0].Label.Width)
}

func TestInsertSelfEdgesShiftsSubsequentOrders(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	g.node("a").Rank = 0
	g.node("a").SelfEdges = []selfEdgeStash{
		{Edge: EdgeID{V: "a", W: "a"}, Label: edgeLabel{Width: 10, Height: 6}},
	}
	g.SetNode("b")
	g.node("b").Rank = 0

	insertSelfEdges(g)

	assert.Equal(t, 0, g.node("a").Order)
	assert.Equal(t, 2, g.node("b").Order)
	assert.Empty(t, g.node("a").SelfEdges)

	var dummy string
	for _, v := range g.Nodes() {
		if g.node(v).Dummy == DummySelfEdge {
			dummy = v
		}
	}
	assert.NotEmpty(t, dummy)
	assert.Equal(t, 1, g.node(dummy).Order)
	assert.Equal(t, 0, g.node(dummy).Rank)
}

func TestPositionSelfEdgesBuildsLoopAndReinstallsEdge(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	a := g.node("a")
	a.X, a.Y, a.Width, a.Height = 100, 50, 40, 20

	dummy := addDummyNode(g, DummySelfEdge, nodeLabel{
		Rank: 0, Order: 1, Width: 10, Height: 6,
		EdgeObj:       EdgeID{V: "a", W: "a"},
		SelfEdgeLabel: edgeLabel{Width: 10, Height: 6, Weight: 1},
	}, "se")
	g.node(dummy).X = 140
	g.node(dummy).Y = 50

	positionSelfEdges(g)

	assert.False(t, g.HasNode(dummy))
	assert.True(t, g.HasEdge(EdgeID{V: "a", W: "a"}))
	el := g.edge(EdgeID{V: "a", W: "a"})
	assert.Len(t, el.Points, 5)
	// dx = 140 - (100+20) = 20; loop should bow out to the right of the owner
	assert.InDelta(t, 120.0+2.0/3*20.0, el.Points[0].X, 1e-9)
	assert.InDelta(t, 50.0-10.0, el.Points[0].Y, 1e-9)
	assert.InDelta(t, 120.0+20.0, el.Points[2].X, 1e-9)
	assert.InDelta(t, 50.0, el.Points[2].Y, 1e-9)
}
