package dagre

// runAcyclic breaks cycles in g by reversing a feedback arc set, chosen
// per graph.acyclicer (default "greedy"). It sets Reversed=true on every
// edge it flips so undoAcyclic (and the final reversePointsForReversedEdges
// pass) can recover original direction.
//
// Grounded on godagre/layout.go's makeAcyclic DFS back-edge detection, but
// the teacher mutated edge.V/edge.W in place with no record beyond a
// returned slice, which loses multi-edge identity when two parallel edges
// between the same pair are both reversed (the second SetEdge silently
// replaces the first because the edge key collides). This version reverses
// by removing and re-adding under the new key, so multigraph identity
// (spec §9 "Multigraph identity") survives.
func runAcyclic(g *Graph) error {
	acyclicer := g.GraphLabel().Acyclicer
	switch acyclicer {
	case "", "greedy":
		return greedyAcyclic(g)
	case "none":
		return nil
	default:
		return newError(Unsupported, "unknown acyclicer %q", acyclicer)
	}
}

func greedyAcyclic(g *Graph) error {
	for _, id := range g.Nodes() {
		for _, e := range g.OutEdges(id) {
			if e.V == e.W {
				return newError(InvariantViolation, "self-edge %s cannot be made acyclic", e)
			}
		}
	}

	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var toReverse []EdgeID

	var dfs func(v string)
	dfs = func(v string) {
		visited[v] = true
		onStack[v] = true
		for _, e := range g.OutEdges(v) {
			if !visited[e.W] {
				dfs(e.W)
			} else if onStack[e.W] {
				toReverse = append(toReverse, e)
			}
		}
		onStack[v] = false
	}

	for _, id := range g.Nodes() {
		if !visited[id] {
			dfs(id)
		}
	}

	for _, e := range toReverse {
		reverseEdge(g, e)
	}
	return nil
}

func reverseEdge(g *Graph, e EdgeID) {
	l := *g.edge(e)
	g.RemoveEdge(e.V, e.W, e.Name)
	l.Reversed = true
	l.ForwardName = e.Name
	rid := EdgeID{V: e.W, W: e.V, Name: e.Name}
	g.SetEdge(rid, l)
}

// undoAcyclic flips every reversed edge back to its original direction and
// re-keys it accordingly. It leaves Points untouched: reversePointsForReversedEdges
// (layout.go), which runs immediately before this stage while Reversed is
// still true, is the one place the polyline gets flipped. Flipping it again
// here would cancel that out and leave a reversed edge's points reading
// target-to-source instead of source-to-target.
func undoAcyclic(g *Graph) {
	for _, e := range g.Edges() {
		l := g.edge(e)
		if !l.Reversed {
			continue
		}
		lv := *l
		g.RemoveEdge(e.V, e.W, e.Name)
		lv.Reversed = false
		rid := EdgeID{V: e.W, W: e.V, Name: lv.ForwardName}
		lv.ForwardName = ""
		g.SetEdge(rid, lv)
	}
}

func reversePoints(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
