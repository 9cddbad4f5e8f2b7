package dagre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunNormalizeSplitsLongEdge(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	g.SetNode("b")
	g.node("a").Rank = 0
	g.node("b").Rank = 3
	g.SetEdge(EdgeID{V: "a", W: "b"}, edgeLabel{Minlen: 3, Weight: 1, LabelRank: -1})

	runNormalize(g)

	assert.False(t, g.HasEdge(EdgeID{V: "a", W: "b"}))
	assert.Len(t, g.dummyChains, 1)

	// two dummies should sit between a (rank 0) and b (rank 3): ranks 1, 2
	var ranks []int
	v := g.dummyChains[0]
	for {
		n := g.node(v)
		assert.Equal(t, DummyEdge, n.Dummy)
		ranks = append(ranks, n.Rank)
		succs := g.Successors(v)
		if len(succs) == 0 || succs[0] == "b" {
			break
		}
		v = succs[0]
	}
	assert.Equal(t, []int{1, 2}, ranks)
}

func TestRunNormalizeLeavesAdjacentRankEdgeAlone(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	g.SetNode("b")
	g.node("b").Rank = 1
	g.SetEdge(EdgeID{V: "a", W: "b"}, edgeLabel{Minlen: 1, Weight: 1})

	runNormalize(g)

	assert.True(t, g.HasEdge(EdgeID{V: "a", W: "b"}))
	assert.Empty(t, g.dummyChains)
}

func TestNormalizeRoundTrip(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	g.SetNode("b")
	g.node("b").Rank = 3
	g.SetEdge(EdgeID{V: "a", W: "b"}, edgeLabel{Minlen: 3, Weight: 2, LabelRank: -1})

	runNormalize(g)
	for _, v := range g.dummyChains {
		n := g.node(v)
		n.X, n.Y = float64(n.Rank)*10, 5
		for _, succ := range g.Successors(v) {
			if g.node(succ).Dummy == DummyEdge {
				g.node(succ).X, g.node(succ).Y = float64(g.node(succ).Rank)*10, 5
			}
		}
	}

	undoNormalize(g)

	assert.True(t, g.HasEdge(EdgeID{V: "a", W: "b"}))
	el := g.edge(EdgeID{V: "a", W: "b"})
	assert.Equal(t, 2.0, el.Weight)
	assert.Len(t, el.Points, 2)
	assert.Empty(t, g.dummyChains)
	assert.False(t, g.HasNode("a_d1"))
}

func TestNormalizeLabelDummyCarriesSize(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	g.SetNode("b")
	g.node("b").Rank = 2
	g.SetEdge(EdgeID{V: "a", W: "b"}, edgeLabel{Minlen: 2, Weight: 1, Width: 40, Height: 10, LabelRank: 1})

	runNormalize(g)

	head := g.dummyChains[0]
	n := g.node(head)
	assert.Equal(t, DummyEdgeLabel, n.Dummy)
	assert.Equal(t, 40.0, n.Width)
	assert.Equal(t, 10.0, n.Height)
}
