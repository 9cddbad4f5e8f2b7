package dagre

import (
	"math"
	"sort"
)

// itoa is a tiny allocation-free int formatter used by Graph.nextDummyID;
// the teacher's godagre/order.go built dummy IDs with
// `"_d" + string(rune(count))`, which turns unprintable / colliding past
// rune 127. Dummy IDs here are always plain ASCII.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// buildLayers groups node IDs by rank, each rank's slice ordered by Order
// (callers that need a fresh, unordered grouping sort it themselves). Nodes
// with children are never ranked (asNonCompoundGraph excludes them from the
// ranker) and carry the Rank=-1 sentinel; they're skipped here rather than
// mistaken for an empty rank 0.
func buildLayers(g *Graph) [][]string {
	maxRank := -1
	for _, id := range g.Nodes() {
		if r := g.node(id).Rank; r > maxRank {
			maxRank = r
		}
	}
	if maxRank < 0 {
		return nil
	}
	layers := make([][]string, maxRank+1)
	for _, id := range g.Nodes() {
		n := g.node(id)
		if n.Rank < 0 {
			continue
		}
		layers[n.Rank] = append(layers[n.Rank], id)
	}
	for _, layer := range layers {
		sort.SliceStable(layer, func(i, j int) bool {
			return g.node(layer[i]).Order < g.node(layer[j]).Order
		})
	}
	return layers
}

// maxRankOf returns the highest rank assigned to any node, or -1 if empty.
func maxRankOf(g *Graph) int {
	max := -1
	for _, id := range g.Nodes() {
		if r := g.node(id).Rank; r > max {
			max = r
		}
	}
	return max
}

// rect is an axis-aligned rectangle centered at (X, Y).
type rect struct {
	X, Y, W, H float64
}

// intersectRect returns the point where the segment from the rectangle's
// center to p crosses the rectangle's boundary. Used to clip edge polylines
// to node boundaries (spec §4.1 assignNodeIntersects).
func intersectRect(r rect, p Point) Point {
	dx := p.X - r.X
	dy := p.Y - r.Y
	w := r.W / 2
	h := r.H / 2
	if w == 0 && h == 0 {
		return Point{X: r.X, Y: r.Y}
	}
	if dx == 0 && dy == 0 {
		return Point{X: r.X, Y: r.Y}
	}

	var sx, sy float64
	if math.Abs(dy)*w > math.Abs(dx)*h {
		// intersects top or bottom edge
		if dy < 0 {
			h = -h
		}
		sx = 0
		if dy != 0 {
			sx = h * dx / dy
		}
		sy = h
	} else {
		// intersects left or right edge
		if dx < 0 {
			w = -w
		}
		sy = 0
		if dx != 0 {
			sy = w * dy / dx
		}
		sx = w
	}
	return Point{X: r.X + sx, Y: r.Y + sy}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// median of a sorted-ascending float slice (caller sorts), spec §4.6's
// median position rule.
func median(sorted []float64) float64 {
	n := len(sorted)
	switch n {
	case 0:
		return math.NaN()
	case 1:
		return sorted[0]
	default:
		mid := n / 2
		if n%2 == 1 {
			return sorted[mid]
		}
		if n == 2 {
			return (sorted[0] + sorted[1]) / 2
		}
		left := sorted[mid-1] - sorted[0]
		right := sorted[n-1] - sorted[mid]
		if left+right == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return (sorted[mid-1]*right + sorted[mid]*left) / (left + right)
	}
}
