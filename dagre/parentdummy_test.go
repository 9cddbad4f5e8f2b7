package dagre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCompoundPostorderAncestry(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetParent("child", "parent")
	g.SetParent("parent", "grandparent")
	g.SetNode("unrelated")

	pos := computeCompoundPostorder(g)

	gp, p, c := pos["grandparent"], pos["parent"], pos["child"]
	assert.True(t, gp.low <= p.low && p.lim <= gp.lim, "parent should nest inside grandparent")
	assert.True(t, p.low <= c.low && c.lim <= p.lim, "child should nest inside parent")
}

func TestFindCompoundPathSiblings(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetParent("a", "cluster")
	g.SetParent("b", "cluster")
	pos := computeCompoundPostorder(g)

	path, lca := findCompoundPath(g, pos, "a", "b")
	assert.Equal(t, "cluster", lca)
	assert.Contains(t, path, "cluster")
}

func TestFindCompoundPathTopLevel(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	g.SetNode("b")
	pos := computeCompoundPostorder(g)

	_, lca := findCompoundPath(g, pos, "a", "b")
	assert.Equal(t, "", lca)
}

func TestParentDummyChainsReparentsAcrossContainer(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetParent("inside", "cluster")
	g.node("cluster").MinRank = 1
	g.node("cluster").MaxRank = 2
	g.node("inside").Rank = 1
	g.SetNode("outside")
	g.node("outside").Rank = 0
	g.SetParent("dest", "cluster")
	g.node("dest").Rank = 2

	orig := EdgeID{V: "outside", W: "dest"}
	g.SetEdge(orig, edgeLabel{Minlen: 2, Weight: 1, LabelRank: -1})
	runNormalize(g)
	assert.Len(t, g.dummyChains, 1)

	parentDummyChains(g)

	head := g.dummyChains[0]
	// the edge enters cluster, and its single dummy sits at rank 1, inside
	// the cluster's rank span
	assert.Equal(t, "cluster", g.Parent(head))
}

func TestParentDummyChainsNoOpWithoutCompoundStructure(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNode("a")
	g.SetNode("b")
	g.node("b").Rank = 2
	g.SetEdge(EdgeID{V: "a", W: "b"}, edgeLabel{Minlen: 2, Weight: 1, LabelRank: -1})
	runNormalize(g)

	parentDummyChains(g)

	head := g.dummyChains[0]
	assert.Equal(t, "", g.Parent(head))
}
