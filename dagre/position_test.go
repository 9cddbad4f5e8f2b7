package dagre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setPosGraph(lbl *graphLabel) {
	lbl.NodeSep = 50
	lbl.EdgeSep = 20
	lbl.RankSep = 30
}

func TestAssignYCumulativeRankHeights(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	g.node("a").Rank, g.node("a").Height = 0, 40
	g.SetNode("b")
	g.node("b").Rank, g.node("b").Height = 1, 20
	lbl := g.GraphLabel()
	setPosGraph(&lbl)
	g.SetGraphLabel(lbl)

	assignY(g, buildLayers(g))

	assert.Equal(t, 20.0, g.node("a").Y) // 40/2
	assert.Equal(t, 40.0+30+20.0/2, g.node("b").Y)
}

func TestRunPositionStraightensSingleChain(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	for _, id := range []string{"a", "b", "c"} {
		g.SetNode(id)
		g.node(id).Width, g.node(id).Height = 30, 20
	}
	g.node("a").Rank, g.node("b").Rank, g.node("c").Rank = 0, 1, 2
	g.SetEdge(EdgeID{V: "a", W: "b"}, edgeLabel{Minlen: 1, Weight: 1})
	g.SetEdge(EdgeID{V: "b", W: "c"}, edgeLabel{Minlen: 1, Weight: 1})
	lbl := g.GraphLabel()
	setPosGraph(&lbl)
	g.SetGraphLabel(lbl)

	runPosition(g)

	assert.Equal(t, g.node("a").X, g.node("b").X)
	assert.Equal(t, g.node("b").X, g.node("c").X)
	assert.Less(t, g.node("a").Y, g.node("b").Y)
	assert.Less(t, g.node("b").Y, g.node("c").Y)
}

func TestRunPositionSeparatesSiblings(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	for _, id := range []string{"a", "b"} {
		g.SetNode(id)
		g.node(id).Width, g.node(id).Height = 30, 20
	}
	g.node("a").Rank, g.node("a").Order = 0, 0
	g.node("b").Rank, g.node("b").Order = 0, 1
	lbl := g.GraphLabel()
	setPosGraph(&lbl)
	g.SetGraphLabel(lbl)

	runPosition(g)

	assert.GreaterOrEqual(t, g.node("b").X-g.node("a").X, 30.0+50.0)
}

func TestRunPositionEmptyGraphNoPanic(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	assert.NotPanics(t, func() { runPosition(g) })
}

func TestBkSepUsesEdgeSepForDummyNodes(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("real1")
	g.node("real1").Width = 10
	g.SetNode("real2")
	g.node("real2").Width = 10
	g.SetNode("dummy1")
	g.node("dummy1").Width = 0
	g.node("dummy1").Dummy = DummyEdge

	sep := bkSep(g, 50, 20)
	assert.Equal(t, 60.0, sep("real1", "real2"))
	assert.Equal(t, 25.0, sep("dummy1", "real2"))
}

func TestCombineAlignmentsHonorsGraphAlign(t *testing.T) {
	t.Parallel()
	pos := map[string]bkPosition{"a": {Layer: 0, Order: 0}}
	xs := [4]map[string]float64{
		{"a": 1},
		{"a": 2},
		{"a": 3},
		{"a": 4},
	}

	out := combineAlignments(pos, "ul", xs)
	assert.Equal(t, 1.0, out["a"])

	out = combineAlignments(pos, "dr", xs)
	assert.Equal(t, 4.0, out["a"])
}

func TestCombineAlignmentsAveragesWithoutBias(t *testing.T) {
	t.Parallel()
	pos := map[string]bkPosition{"a": {Layer: 0, Order: 0}}
	xs := [4]map[string]float64{
		{"a": 0},
		{"a": 0},
		{"a": 0},
		{"a": 0},
	}

	out := combineAlignments(pos, "", xs)
	assert.Equal(t, 0.0, out["a"])
}

// TestTypeOneConflictsMarksCrossingPair builds a 2x2 bilayer with one inner
// segment (a dummy-to-dummy edge, d1->d2) and one real edge (q->s) whose
// endpoints straddle it (d1 is leftmost at rank 0, q rightmost; s is
// leftmost at rank 1, d2 rightmost), so the two segments visually cross.
// Only the crossing edge should be flagged; the inner segment itself never
// conflicts with itself.
func TestTypeOneConflictsMarksCrossingPair(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("d1")
	g.node("d1").Rank, g.node("d1").Order = 0, 0
	g.node("d1").Dummy = DummyEdge
	g.SetNode("q")
	g.node("q").Rank, g.node("q").Order = 0, 1
	g.SetNode("s")
	g.node("s").Rank, g.node("s").Order = 1, 0
	g.SetNode("d2")
	g.node("d2").Rank, g.node("d2").Order = 1, 1
	g.node("d2").Dummy = DummyEdge

	g.SetEdge(EdgeID{V: "d1", W: "d2"}, edgeLabel{Minlen: 1, Weight: 1})
	g.SetEdge(EdgeID{V: "q", W: "s"}, edgeLabel{Minlen: 1, Weight: 1})

	pos := map[string]bkPosition{
		"d1": {0, 0}, "q": {0, 1}, "s": {1, 0}, "d2": {1, 1},
	}
	layers := [][]string{{"d1", "q"}, {"s", "d2"}}
	nb := computeBKNeighbors(g, pos)

	conflicts := typeOneConflicts(g, layers, pos, nb)
	assert.True(t, conflicts[[2]string{"q", "s"}])
	assert.False(t, conflicts[[2]string{"d1", "d2"}])
	assert.Len(t, conflicts, 1)
}
