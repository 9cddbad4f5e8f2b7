package dagre

// runNormalize replaces every edge spanning more than one rank with a chain
// of unit-length edges through freshly created dummy nodes, one per
// intermediate rank, so ordering and positioning only ever have to deal
// with edges between adjacent ranks. The dummy that lands on the edge's
// LabelRank (computed by the edge-label-proxy pass before ranking) carries
// the edge's label width/height and is tagged DummyEdgeLabel instead of
// plain DummyEdge, so position can treat it as a label anchor rather than a
// zero-size routing point.
//
// Grounded on godagre/order.go's addDummyNodes/removeDummyNodes, which
// perform the same rank-gap splitting but only as throwaway ordering
// scratch state: they run entirely inside order() and discard every dummy
// coordinate, and their ID scheme (`"_d" + string(rune(dummyCount))`)
// collides and produces unprintable IDs past rune 127. This version keeps
// the chain alive across ordering *and* positioning — each dummy's final
// X/Y becomes a waypoint on the original edge's polyline — and records
// each chain's head on the graph so undoNormalize can walk it directly.
func runNormalize(g *Graph) {
	g.dummyChains = nil

	for _, e := range g.Edges() {
		normalizeEdge(g, e)
	}
}

func normalizeEdge(g *Graph, e EdgeID) {
	vRank := g.node(e.V).Rank
	wRank := g.node(e.W).Rank
	if wRank-vRank <= 1 {
		return
	}

	orig := *g.edge(e)
	labelRank := orig.LabelRank
	weight := orig.Weight

	g.RemoveEdge(e.V, e.W, e.Name)

	v := e.V
	chainHead := ""
	for i, r := 0, vRank+1; r < wRank; i, r = i+1, r+1 {
		tmpl := nodeLabel{
			Dummy:   DummyEdge,
			Rank:    r,
			EdgeObj: e,
			EdgeLhs: e.V,
			EdgeRhs: e.W,
		}
		if r == labelRank {
			tmpl.Dummy = DummyEdgeLabel
			tmpl.Width = orig.Width
			tmpl.Height = orig.Height
		}
		id := g.nextDummyID("edge")
		g.setNodeInternal(id, &tmpl)

		g.SetEdge(EdgeID{V: v, W: id, Name: e.Name}, edgeLabel{Weight: weight, Minlen: 1})
		if i == 0 {
			chainHead = id
			g.dummyChains = append(g.dummyChains, chainHead)
			g.chainOrig[chainHead] = orig
		}
		v = id
	}

	g.SetEdge(EdgeID{V: v, W: e.W, Name: e.Name}, edgeLabel{Weight: weight, Minlen: 1})
}

// undoNormalize restores every normalized edge to a single edge carrying
// the accumulated dummy coordinates as its polyline, and removes the chain
// of dummy nodes that represented it.
func undoNormalize(g *Graph) {
	for _, head := range g.dummyChains {
		orig := g.chainOrig[head]
		origID := g.node(head).EdgeObj
		orig.Points = nil

		v := head
		for {
			node := g.node(v)
			if node.Dummy != DummyEdge && node.Dummy != DummyEdgeLabel {
				break
			}
			orig.Points = append(orig.Points, Point{X: node.X, Y: node.Y})
			if node.Dummy == DummyEdgeLabel {
				orig.X, orig.Y = node.X, node.Y
			}
			succs := g.Successors(v)
			g.RemoveNode(v)
			if len(succs) == 0 {
				v = ""
				break
			}
			v = succs[0]
		}

		g.SetEdge(origID, orig)
	}
	g.dummyChains = nil
	g.chainOrig = make(map[string]edgeLabel)
}
