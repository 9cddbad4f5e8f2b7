package dagre

// removeSelfEdges stashes every loop edge (v, v) onto its owner node and
// deletes it from the graph. Self-loops have no meaningful rank delta and
// would confuse both the ranker (zero-slack edge to itself) and the
// crossing-minimizer (an edge with identical endpoints on both sides of
// every bilayer); they're reinstalled once ordering has given their owner a
// stable position to loop around (insertSelfEdges, positionSelfEdges).
func removeSelfEdges(g *Graph) {
	for _, e := range g.Edges() {
		if e.V != e.W {
			continue
		}
		n := g.node(e.V)
		n.SelfEdges = append(n.SelfEdges, selfEdgeStash{Edge: e, Label: *g.edge(e)})
		g.RemoveEdge(e.V, e.W, e.Name)
	}
}

// insertSelfEdges runs after ordering has assigned every node its in-rank
// Order. For each node with stashed self-edges it inserts one DummySelfEdge
// node immediately after it per loop, at incrementing orders, reserving the
// horizontal space position will later give the loop's hump. Every node
// after the first with self-edges in a rank has its own Order shifted by
// however many dummies were inserted before it in that rank.
func insertSelfEdges(g *Graph) {
	for _, layer := range buildLayers(g) {
		orderShift := 0
		for i, v := range layer {
			n := g.node(v)
			n.Order = i + orderShift
			for _, se := range n.SelfEdges {
				orderShift++
				addDummyNode(g, DummySelfEdge, nodeLabel{
					Rank:          n.Rank,
					Order:         i + orderShift,
					Width:         se.Label.Width,
					Height:        se.Label.Height,
					EdgeObj:       se.Edge,
					SelfEdgeLabel: se.Label,
				}, "se")
			}
			n.SelfEdges = nil
		}
	}
}

// positionSelfEdges runs after x/y assignment. Every DummySelfEdge dummy is
// replaced by its original edge, reinstalled with a hand-built 5-point
// polyline that loops out to the right of its owner and back: the fractional
// offsets (2/3, 5/6, 1, 5/6, 2/3 of dx) and the ±height/2 vertical spread are
// the two arcs of a rounded loop passing through the dummy's reserved x
// position. Grounded on the teacher's edge_routing.go routeSameRankEdge,
// which builds a similar multi-point arc between two node centers but never
// closes the loop back onto a single owner (it only ever routes between two
// distinct same-rank nodes); the closed loop shape and its exact fractional
// coefficients are this package's own, since nothing in the teacher produces
// a true self-loop.
func positionSelfEdges(g *Graph) {
	for _, v := range g.Nodes() {
		n := g.node(v)
		if n.Dummy != DummySelfEdge {
			continue
		}
		owner := g.node(n.EdgeObj.V)
		x := owner.X + owner.Width/2
		y := owner.Y
		dx := n.X - x
		dy := owner.Height / 2

		label := n.SelfEdgeLabel
		label.Points = []Point{
			{X: x + 2*dx/3, Y: y - dy},
			{X: x + 5*dx/6, Y: y - dy},
			{X: x + dx, Y: y},
			{X: x + 5*dx/6, Y: y + dy},
			{X: x + 2*dx/3, Y: y + dy},
		}
		label.X = n.X
		label.Y = n.Y

		g.RemoveNode(v)
		g.SetEdge(n.EdgeObj, label)
	}
}
