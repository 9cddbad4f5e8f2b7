package dagre

// parentDummyChains reassigns every dummy node created by runNormalize to
// the compound ancestor its edge is actually passing through at that rank,
// rather than leaving every dummy parented to the lowest common ancestor of
// the edge's endpoints. Without this, an edge chain entering and leaving a
// sibling container would draw straight through nodes it has no business
// overlapping.
//
// New module — the teacher's compound handling collapses cross-container
// edges down to a single redirected edge (compound.go's
// collapseEdgesToCompounds) and never threads dummy chains through
// intermediate ancestors at all, so there is nothing to ground this against
// directly; it follows the standard technique for the problem (walk the
// compound-tree path between the edge's endpoints, switching the dummy's
// parent to the next ancestor on that path once the dummy's rank leaves the
// current ancestor's rank span) named generically in spec §4/§9's compound
// bookkeeping requirements, using a low/lim postorder-interval test
// (computeCompoundPostorder, below) for compound-tree containment.
func parentDummyChains(g *Graph) {
	if len(g.dummyChains) == 0 {
		return
	}
	pos := computeCompoundPostorder(g)

	for _, head := range g.dummyChains {
		edgeObj := g.node(head).EdgeObj
		path, lca := findCompoundPath(g, pos, edgeObj.V, edgeObj.W)

		pathIdx := 0
		ascending := true
		pathV := ""
		if len(path) > 0 {
			pathV = path[0]
		}

		v := head
		for v != edgeObj.W {
			node := g.node(v)

			if ascending {
				for pathIdx < len(path) && path[pathIdx] != lca && g.node(path[pathIdx]).MaxRank < node.Rank {
					pathIdx++
				}
				if pathIdx < len(path) {
					pathV = path[pathIdx]
				} else {
					pathV = lca
				}
				if pathV == lca {
					ascending = false
				}
			}

			if !ascending {
				for pathIdx < len(path)-1 && g.node(path[pathIdx+1]).MinRank <= node.Rank {
					pathIdx++
				}
				if pathIdx < len(path) {
					pathV = path[pathIdx]
				}
			}

			g.SetParent(v, pathV)

			succs := g.Successors(v)
			if len(succs) == 0 {
				break
			}
			v = succs[0]
		}
	}
}

type compoundPos struct {
	low, lim int
}

// computeCompoundPostorder numbers every node by a postorder DFS over the
// compound parent/child tree (not the layout graph): low is the smallest
// postorder number in a node's subtree, lim is its own postorder number.
// Node b is an ancestor of a exactly when low(b) <= lim(a) <= lim(b).
func computeCompoundPostorder(g *Graph) map[string]compoundPos {
	pos := make(map[string]compoundPos)
	next := 1
	var dfs func(v string)
	dfs = func(v string) {
		low := next
		for _, c := range g.Children(v) {
			dfs(c)
		}
		lim := next
		next++
		pos[v] = compoundPos{low: low, lim: lim}
	}
	for _, top := range g.Children("") {
		dfs(top)
	}
	return pos
}

// findCompoundPath returns the chain of ancestors from v up to (and
// including) the lowest common ancestor of v and w, followed by the chain
// of ancestors from the LCA back down to w, plus the LCA itself ("" if v
// and w share no ancestor, i.e. either is top-level in the shared path).
func findCompoundPath(g *Graph, pos map[string]compoundPos, v, w string) ([]string, string) {
	low := pos[v].low
	if pos[w].low < low {
		low = pos[w].low
	}
	lim := pos[v].lim
	if pos[w].lim > lim {
		lim = pos[w].lim
	}

	var vPath []string
	parent := v
	for {
		parent = g.Parent(parent)
		vPath = append(vPath, parent)
		if parent == "" {
			break
		}
		p := pos[parent]
		if !(p.low > low || lim > p.lim) {
			break
		}
	}
	lca := parent

	var wPath []string
	parent = w
	for {
		parent = g.Parent(parent)
		if parent == lca {
			break
		}
		wPath = append(wPath, parent)
	}
	for i, j := 0, len(wPath)-1; i < j; i, j = i+1, j-1 {
		wPath[i], wPath[j] = wPath[j], wPath[i]
	}

	return append(vPath, wPath...), lca
}
