package dagre

import "sort"

// runOrder assigns each node an Order within its rank, minimizing edge
// crossings between adjacent ranks via the weighted-median heuristic with
// an adjacent-transposition cleanup pass, repeated over alternating down/up
// sweeps until 4 consecutive sweeps fail to improve on the best crossing
// count seen, while keeping that best ordering (spec §4.6).
//
// Grounded on godagre/order.go's overall shape — down/up barycenter
// sweeps, a bilayer crossing count, keep-best-of-N — with two changes: the
// initial order comes from a DFS over the graph (a node's not-yet-placed
// neighbors are emitted contiguously after it) rather than a plain
// alphabetic ID sort, which gives the sweep a far better starting point on
// anything but a trivial graph; and the sweep itself uses the proper
// weighted median (util.go's median) rather than a mean barycenter, matching the median heuristic spec §4.6
// names explicitly — a mean lets one high-degree neighbor drag a node
// across the whole layer, where the median is robust to that outlier.
func runOrder(g *Graph) {
	layers := buildLayers(g)
	if len(layers) == 0 {
		return
	}

	initOrderDFS(g, layers)

	best := cloneLayers(layers)
	bestCC := countCrossings(g, layers)

	// Sweep down/up until 4 consecutive iterations fail to improve on the
	// best crossing count seen so far (spec §4.6's "typically 24" sweeps is
	// the usual outcome of this rule on real graphs, not a fixed count).
	for iter, noImprovement := 0, 0; bestCC > 0 && noImprovement < 4; iter++ {
		downward := iter%2 == 0
		sweep(g, layers, downward)
		transpose(g, layers)
		if cc := countCrossings(g, layers); cc < bestCC {
			bestCC = cc
			best = cloneLayers(layers)
			noImprovement = 0
		} else {
			noImprovement++
		}
	}

	applyOrder(g, best)
}

func initOrderDFS(g *Graph, layers [][]string) {
	visited := make(map[string]bool)
	counters := make([]int, len(layers))

	var dfs func(v string)
	dfs = func(v string) {
		if visited[v] {
			return
		}
		visited[v] = true
		n := g.node(v)
		if n.Rank < 0 {
			return
		}
		n.Order = counters[n.Rank]
		counters[n.Rank]++
		for _, w := range g.Successors(v) {
			dfs(w)
		}
	}

	for _, layer := range layers {
		for _, v := range layer {
			dfs(v)
		}
	}

	for _, layer := range layers {
		sort.SliceStable(layer, func(i, j int) bool {
			return g.node(layer[i]).Order < g.node(layer[j]).Order
		})
	}
}

func cloneLayers(layers [][]string) [][]string {
	out := make([][]string, len(layers))
	for i, l := range layers {
		out[i] = append([]string{}, l...)
	}
	return out
}

func applyOrder(g *Graph, layers [][]string) {
	for _, layer := range layers {
		for i, v := range layer {
			g.node(v).Order = i
		}
	}
}

func sweep(g *Graph, layers [][]string, downward bool) {
	if downward {
		for i := 1; i < len(layers); i++ {
			reorderLayer(g, layers[i], true)
		}
	} else {
		for i := len(layers) - 2; i >= 0; i-- {
			reorderLayer(g, layers[i], false)
		}
	}
}

// reorderLayer resorts layer by the median rank-neighbor position of each
// node (looking at in-edges on a downward sweep, out-edges on an upward
// one). Nodes with no such neighbor keep their current relative position.
func reorderLayer(g *Graph, layer []string, useIn bool) {
	meds := make(map[string]float64, len(layer))
	has := make(map[string]bool, len(layer))

	for _, v := range layer {
		var positions []float64
		if useIn {
			for _, e := range g.InEdges(v) {
				positions = append(positions, float64(g.node(e.V).Order))
			}
		} else {
			for _, e := range g.OutEdges(v) {
				positions = append(positions, float64(g.node(e.W).Order))
			}
		}
		if len(positions) == 0 {
			continue
		}
		sort.Float64s(positions)
		meds[v] = median(positions)
		has[v] = true
	}

	sort.SliceStable(layer, func(i, j int) bool {
		a, b := layer[i], layer[j]
		if !has[a] || !has[b] {
			return false
		}
		return meds[a] < meds[b]
	})
	for i, v := range layer {
		g.node(v).Order = i
	}
}

// transpose repeatedly swaps adjacent nodes within a layer whenever doing
// so strictly reduces the crossings that layer participates in, until a
// full pass makes no improvement or a pass budget is exhausted.
func transpose(g *Graph, layers [][]string) {
	for pass := 0; pass < 4; pass++ {
		improved := false
		for i, layer := range layers {
			var upper, lower []string
			if i > 0 {
				upper = layers[i-1]
			}
			if i < len(layers)-1 {
				lower = layers[i+1]
			}
			for j := 0; j < len(layer)-1; j++ {
				before := localCrossings(g, upper, layer, lower)
				swapAdjacent(g, layer, j)
				after := localCrossings(g, upper, layer, lower)
				if after < before {
					improved = true
				} else {
					swapAdjacent(g, layer, j)
				}
			}
		}
		if !improved {
			break
		}
	}
}

func swapAdjacent(g *Graph, layer []string, j int) {
	layer[j], layer[j+1] = layer[j+1], layer[j]
	g.node(layer[j]).Order = j
	g.node(layer[j+1]).Order = j + 1
}

func localCrossings(g *Graph, upper, layer, lower []string) int {
	c := 0
	if upper != nil {
		c += bilayerCrossings(g, upper, layer)
	}
	if lower != nil {
		c += bilayerCrossings(g, layer, lower)
	}
	return c
}

func countCrossings(g *Graph, layers [][]string) int {
	total := 0
	for i := 0; i < len(layers)-1; i++ {
		total += bilayerCrossings(g, layers[i], layers[i+1])
	}
	return total
}

// bilayerCrossings counts crossings between two adjacent, already-ordered
// layers by building, for each upper node in order, the sorted list of its
// lower-layer neighbor positions, concatenating them, and counting
// inversions in the result — the standard reduction from bilayer crossing
// counting to inversion counting.
func bilayerCrossings(g *Graph, upper, lower []string) int {
	pos := make(map[string]int, len(lower))
	for i, v := range lower {
		pos[v] = i
	}
	var seq []int
	for _, v := range upper {
		var targets []int
		for _, e := range g.OutEdges(v) {
			if p, ok := pos[e.W]; ok {
				targets = append(targets, p)
			}
		}
		sort.Ints(targets)
		seq = append(seq, targets...)
	}
	return countInversions(seq)
}

func countInversions(seq []int) int {
	count := 0
	for i := 0; i < len(seq); i++ {
		for j := i + 1; j < len(seq); j++ {
			if seq[i] > seq[j] {
				count++
			}
		}
	}
	return count
}
