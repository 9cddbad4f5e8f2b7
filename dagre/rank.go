package dagre

// rank assigns every node a Rank consistent with each edge's Minlen
// constraint (rank(w) - rank(v) >= minlen for every edge v->w), per
// graph.ranker (default "network-simplex").
func rank(g *Graph) error {
	ranker := g.GraphLabel().Ranker
	switch ranker {
	case "", "network-simplex":
		return networkSimplexRank(g)
	case "tight-tree":
		return tightTreeRank(g)
	case "longest-path":
		longestPathRank(g)
		return nil
	default:
		return newError(Unsupported, "unknown ranker %q", ranker)
	}
}

// longestPathRank assigns each node the greatest distance from any source
// that reaches it: a node's rank is the maximum, over its in-edges, of the
// predecessor's rank plus that edge's Minlen; nodes with no in-edges rank 0.
// This is feasible (every edge's minlen constraint holds) but usually far
// from compact, which is why it only serves as the seed for the tighter
// rankers below.
func longestPathRank(g *Graph) {
	visited := make(map[string]bool)
	var dfs func(v string) int
	dfs = func(v string) int {
		if visited[v] {
			return g.node(v).Rank
		}
		visited[v] = true
		r := 0
		for _, e := range g.InEdges(v) {
			if cand := dfs(e.V) + g.edge(e).Minlen; cand > r {
				r = cand
			}
		}
		g.node(v).Rank = r
		return r
	}
	for _, v := range g.Nodes() {
		dfs(v)
	}
}

// tightTreeRank runs longest-path ranking followed by a single feasible-tree
// tightening pass: network simplex's starting point, without the cut-value
// exchange loop that follows it. The result is feasible but not necessarily
// rank-optimal; graph.ranker = "tight-tree" asks for this cheaper mode.
func tightTreeRank(g *Graph) error {
	if g.NodeCount() == 0 {
		return nil
	}
	ns := newNetworkSimplex(g)
	ns.buildFeasibleTree()
	return nil
}
