package dagre

// The nesting graph (spec §4.4) lets the ordinary ranker solve the compound
// case unmodified: before ranking, every compound subtree gets a synthetic
// top/bottom node pair connected by high-weight edges that force its
// children to rank between them; cleanupNesting removes the synthetics
// once ranking is done.
//
// This is new relative to the teacher: godagre/compound.go instead
// redirects cross-container edges to arbitrary children post hoc
// (findBorderNode picks "first/last child" without regard to rank), which
// cannot guarantee spec invariant 4 (minRank/maxRank enclosure). The
// nesting-graph technique is the standard one named directly in spec §4.4;
// grounded structurally on the teacher's own recursive descent over
// g.children/g.parent in compound.go's buildHierarchy.

const nestingRootID = "_nesting_root"

func runNesting(g *Graph) {
	g.SetNode(nestingRootID)
	depths := treeDepths(g)
	height := 0
	for _, d := range depths {
		if d > height {
			height = d
		}
	}
	height--
	if height < 0 {
		height = 0
	}
	nodeSep := 2*height + 1

	lbl := g.GraphLabel()
	lbl.NestingRoot = nestingRootID
	g.SetGraphLabel(lbl)

	for _, e := range g.Edges() {
		el := g.edge(e)
		el.Minlen *= nodeSep
	}

	weight := sumWeights(g) + 1

	for _, child := range g.Children("") {
		nestingDFS(g, nestingRootID, nodeSep, weight, height, depths, child)
	}

	// node rank factor, consulted by removeEmptyRanks so label-proxy ranks
	// and border ranks created at this spacing are never collapsed.
	g.nodeRankFactor = nodeSep
}

func treeDepths(g *Graph) map[string]int {
	depths := make(map[string]int)
	var dfs func(v string, depth int)
	dfs = func(v string, depth int) {
		for _, c := range g.Children(v) {
			dfs(c, depth+1)
		}
		depths[v] = depth
	}
	for _, v := range g.Children("") {
		dfs(v, 1)
	}
	return depths
}

func sumWeights(g *Graph) float64 {
	sum := 0.0
	for _, e := range g.Edges() {
		sum += g.edge(e).Weight
	}
	return sum
}

func nestingDFS(g *Graph, root string, nodeSep int, weight float64, height int, depths map[string]int, v string) {
	children := g.Children(v)
	if len(children) == 0 {
		if v != root {
			g.SetEdge(EdgeID{V: root, W: v}, edgeLabel{Weight: 0, Minlen: nodeSep, NestingEdge: true})
		}
		return
	}

	n := g.node(v)
	top := addDummyNode(g, DummyNestingTop, nodeLabel{Width: 0, Height: 0}, "bt")
	bottom := addDummyNode(g, DummyNestingBottom, nodeLabel{Width: 0, Height: 0}, "bb")
	g.SetParent(top, v)
	g.SetParent(bottom, v)
	n.BorderTop = top
	n.BorderBottom = bottom

	for _, child := range children {
		nestingDFS(g, root, nodeSep, weight, height, depths, child)

		cn := g.node(child)
		childTop, childBottom := child, child
		thisWeight := 2 * weight
		if cn.BorderTop != "" {
			childTop = cn.BorderTop
			childBottom = cn.BorderBottom
			thisWeight = weight
		}
		minlen := 1
		if childTop == childBottom {
			minlen = height - depths[v] + 1
		}

		g.SetEdge(EdgeID{V: top, W: childTop}, edgeLabel{Weight: thisWeight, Minlen: minlen, NestingEdge: true})
		g.SetEdge(EdgeID{V: childBottom, W: bottom}, edgeLabel{Weight: thisWeight, Minlen: minlen, NestingEdge: true})
	}

	if g.Parent(v) == "" {
		g.SetEdge(EdgeID{V: root, W: top}, edgeLabel{Weight: 0, Minlen: height + depths[v], NestingEdge: true})
	}
}

// cleanupNesting removes the synthetic root and every nesting edge, leaving
// behind only the rank each real node was assigned. A nesting edge (tagged
// NestingEdge by nestingDFS) never corresponds to anything the caller drew,
// so it is deleted outright rather than rescaled — left in place it would
// span whatever large rank gap runNesting's nodeSep spacing created and get
// split into spurious dummy chains by normalize, perturbing order/position
// for the real nodes.
func cleanupNesting(g *Graph) {
	lbl := g.GraphLabel()
	root := lbl.NestingRoot
	if root == "" {
		return
	}

	for _, e := range g.Edges() {
		if g.edge(e).NestingEdge {
			g.RemoveEdge(e.V, e.W, e.Name)
		}
	}
	g.RemoveNode(root)
	lbl.NestingRoot = ""
	g.SetGraphLabel(lbl)

	for _, e := range g.Edges() {
		el := g.edge(e)
		if el.Minlen > 1 && g.nodeRankFactor > 1 && el.Minlen%g.nodeRankFactor == 0 {
			el.Minlen /= g.nodeRankFactor
		}
	}
}

// addDummyNode creates a fresh dummy node with the given kind and template
// label, returning its generated ID.
func addDummyNode(g *Graph, kind DummyKind, tmpl nodeLabel, prefix string) string {
	id := g.nextDummyID(prefix)
	tmpl.Dummy = kind
	g.setNodeInternal(id, &tmpl)
	return id
}
