package dagre

import "strings"

// adjustCoordinateSystem and undoCoordinateSystem let position.go solve
// only the top-to-bottom case: adjust swaps width/height for a left-right
// layout before positioning runs (so "rank span" always maps to vertical
// extent internally), and undo swaps X/Y (and negates Y) back afterward to
// match whatever RankDir the caller actually asked for.
//
// New module — the teacher inlines this as three separate rankDir switches
// duplicated across assignPositions and routeEdges in godagre/layout.go
// (each one repeating the TB/BT/LR/RL branching independently, so a bug
// fixed in one copy can persist in the others). Factored into one pair of
// functions per spec §4.7, matching the standard coordinate-system
// technique of swapping axes around a single-orientation solver rather than
// writing four orientation-specific positioners.
func adjustCoordinateSystem(g *Graph) {
	if isHorizontal(g) {
		swapWidthHeight(g)
	}
}

func undoCoordinateSystem(g *Graph) {
	dir := strings.ToLower(g.GraphLabel().RankDir)
	if dir == "bt" || dir == "rl" {
		reverseY(g)
	}
	if isHorizontal(g) {
		swapXY(g)
		swapWidthHeight(g)
	}
}

func isHorizontal(g *Graph) bool {
	dir := strings.ToLower(g.GraphLabel().RankDir)
	return dir == "lr" || dir == "rl"
}

func swapWidthHeight(g *Graph) {
	for _, v := range g.Nodes() {
		n := g.node(v)
		n.Width, n.Height = n.Height, n.Width
	}
	for _, e := range g.Edges() {
		el := g.edge(e)
		el.Width, el.Height = el.Height, el.Width
	}
}

func reverseY(g *Graph) {
	for _, v := range g.Nodes() {
		n := g.node(v)
		n.Y = -n.Y
	}
	for _, e := range g.Edges() {
		el := g.edge(e)
		for i := range el.Points {
			el.Points[i].Y = -el.Points[i].Y
		}
		el.Y = -el.Y
	}
}

func swapXY(g *Graph) {
	for _, v := range g.Nodes() {
		n := g.node(v)
		n.X, n.Y = n.Y, n.X
	}
	for _, e := range g.Edges() {
		el := g.edge(e)
		for i := range el.Points {
			el.Points[i].X, el.Points[i].Y = el.Points[i].Y, el.Points[i].X
		}
		el.X, el.Y = el.Y, el.X
	}
}
