package dagre

import (
	"math"
	"strings"

	"cdr.dev/slog"
)

// InputNodeAttrs is the set of node attributes a caller may provide before
// calling Layout. Width and Height are required (defaulting to 0, an
// isolated point); Attrs is an optional passthrough bag for attributes
// Layout never interprets — kept so a round-trip consumer like
// internal/dotconv can carry unrelated DOT attributes through a layout call
// unmolested. Attrs is stored as given: its keys are not lowercased, and
// neither its values nor the typed fields above are changed.
type InputNodeAttrs struct {
	Width, Height float64
	Attrs         map[string]string
}

// InputEdgeAttrs is the set of edge attributes a caller may provide before
// calling Layout.
type InputEdgeAttrs struct {
	Minlen      int
	Weight      float64
	Width       float64
	Height      float64
	LabelOffset float64
	LabelPos    string // "l", "c", "r"; "" defaults to "r"
	Attrs       map[string]string
}

// InputGraphAttrs is the set of graph-level attributes a caller may provide
// before calling Layout.
type InputGraphAttrs struct {
	RankDir   string // TB, BT, LR, RL; "" defaults to TB
	NodeSep   float64
	EdgeSep   float64
	RankSep   float64
	MarginX   float64
	MarginY   float64
	Ranker    string // network-simplex, tight-tree, longest-path
	Acyclicer string // greedy, none
	Align     string
}

// SetNodeAttrs installs a's fields on node id, creating it if absent. The
// zero value of every numeric field in InputNodeAttrs/InputEdgeAttrs/
// InputGraphAttrs means "not set, use the stage default" rather than
// "explicitly zero" — a deliberate departure from the duck-typed source,
// where a missing attribute key and a present-but-zero one are
// distinguishable. Only marginx/marginy keep zero as a meaningful value
// (their default is itself zero), so no defaulting ambiguity exists there.
func (g *Graph) SetNodeAttrs(id string, a InputNodeAttrs) {
	g.SetNode(id)
	n := g.node(id)
	n.Width, n.Height = a.Width, a.Height
	n.Attrs = a.Attrs
}

// SetEdgeAttrs installs a's fields on edge id, creating its endpoints if
// absent.
func (g *Graph) SetEdgeAttrs(id EdgeID, a InputEdgeAttrs) {
	g.SetEdge(id, edgeLabel{
		Minlen:      a.Minlen,
		Weight:      a.Weight,
		Width:       a.Width,
		Height:      a.Height,
		LabelOffset: a.LabelOffset,
		LabelPos:    a.LabelPos,
		Attrs:       a.Attrs,
	})
}

// SetGraphAttrs installs a as the graph-level label.
func (g *Graph) SetGraphAttrs(a InputGraphAttrs) {
	g.SetGraphLabel(graphLabel{
		RankDir:   a.RankDir,
		NodeSep:   a.NodeSep,
		EdgeSep:   a.EdgeSep,
		RankSep:   a.RankSep,
		MarginX:   a.MarginX,
		MarginY:   a.MarginY,
		Ranker:    a.Ranker,
		Acyclicer: a.Acyclicer,
		Align:     a.Align,
	})
}

// LayoutOptions configures a Layout invocation.
type LayoutOptions struct {
	// DebugTiming, when non-nil, receives one debug-level log line per
	// pipeline stage naming its wall-clock duration. Purely advisory: per
	// spec, timing instrumentation must never affect layout output, and
	// nothing downstream of runLayout ever reads it back.
	DebugTiming *slog.Logger
}

// Layout assigns x, y, rank to every node in g and a routed points
// polyline to every edge, mutating g in place. Everything on g outside the
// whitelists in buildLayoutGraph/updateInputGraph is left untouched —
// Layout never discovers or preserves attributes it doesn't model.
func Layout(g *Graph, opts LayoutOptions) error {
	l, err := buildLayoutGraph(g)
	if err != nil {
		return err
	}
	if err := runLayout(l, opts.DebugTiming); err != nil {
		return err
	}
	updateInputGraph(g, l)
	return nil
}

func validDim(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultNum(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// isCenteredLabel reports whether pos names the centered label position
// ("c"; an empty pos counts as centered too). Shared between makeSpaceForEdgeLabels and fixupEdgeLabelCoords
// so their matching +=/-= labeloffset adjustments can never drift apart
// (spec §9 open question: the asymmetry around "c" is preserved exactly,
// not re-derived per call site).
func isCenteredLabel(pos string) bool {
	return pos == "" || pos == "c"
}

// hasEdgeLabelPosition reports whether el carries an actual rendered label
// (as opposed to every edge's default, unused labelpos="r"). Both width and
// height must be positive: makeSpaceForEdgeLabels pads one axis of every
// non-centered edge's label box regardless of whether it has a label, so
// only the axis *not* touched by that padding still reads zero for a
// labelless edge.
func hasEdgeLabelPosition(el *edgeLabel) bool {
	return el.Width > 0 && el.Height > 0
}

// buildLayoutGraph validates I's attributes and copies a fresh layout graph
// L from the whitelisted fields only (spec §4.1 item 1). Defaults are
// applied per field; every per-node/per-edge invariant violation is
// collected via multierr (DESIGN.md) so a caller sees the whole offending
// set at once instead of the first.
func buildLayoutGraph(in *Graph) (*Graph, error) {
	var errs errCollector

	inLbl := in.GraphLabel()
	gl := graphLabel{
		RankDir:   defaultStr(inLbl.RankDir, "TB"),
		NodeSep:   defaultNum(inLbl.NodeSep, 50),
		EdgeSep:   defaultNum(inLbl.EdgeSep, 20),
		RankSep:   defaultNum(inLbl.RankSep, 50),
		MarginX:   inLbl.MarginX,
		MarginY:   inLbl.MarginY,
		Ranker:    defaultStr(inLbl.Ranker, "network-simplex"),
		Acyclicer: defaultStr(inLbl.Acyclicer, "greedy"),
		Align:     strings.ToLower(inLbl.Align),
	}
	switch strings.ToUpper(gl.RankDir) {
	case "TB", "BT", "LR", "RL":
	default:
		errs.add(newError(Unsupported, "unknown rankdir %q", gl.RankDir))
	}
	switch gl.Ranker {
	case "network-simplex", "tight-tree", "longest-path":
	default:
		errs.add(newError(Unsupported, "unknown ranker %q", gl.Ranker))
	}
	switch gl.Acyclicer {
	case "greedy", "none":
	default:
		errs.add(newError(Unsupported, "unknown acyclicer %q", gl.Acyclicer))
	}

	// Rank starts at -1, the sentinel buildLayers/removeEmptyRanks/
	// normalizeRanks treat as "not a ranked node" until the
	// rank stage overwrites it. A compound parent is never a ranker input
	// (its span comes from assignRankMinMax's border nodes instead) and so
	// keeps this sentinel for the rest of the pipeline.
	l := NewGraph(GraphOptions{Directed: true, Multigraph: in.IsMultigraph(), Compound: in.IsCompound()})
	l.SetGraphLabel(gl)

	for _, v := range in.Nodes() {
		inNode := in.node(v)
		if !validDim(inNode.Width) || !validDim(inNode.Height) {
			errs.add(newError(InvariantViolation, "node %q has a negative or non-finite width/height", v))
			continue
		}
		l.SetNode(v)
		ln := l.node(v)
		ln.Width, ln.Height = inNode.Width, inNode.Height
		ln.Rank = -1
	}
	if in.IsCompound() {
		for _, v := range in.Nodes() {
			if p := in.Parent(v); p != "" && l.HasNode(v) {
				l.SetParent(v, p)
			}
		}
	}

	for _, e := range in.Edges() {
		inEdge := in.edge(e)

		minlen := inEdge.Minlen
		if minlen == 0 {
			minlen = 1
		}
		weight := inEdge.Weight
		if weight == 0 {
			weight = 1
		}
		labelOffset := inEdge.LabelOffset
		if labelOffset == 0 {
			labelOffset = 10
		}
		labelPos := defaultStr(strings.ToLower(inEdge.LabelPos), "r")

		switch {
		case minlen < 1:
			errs.add(newError(InvariantViolation, "edge %s has minlen < 1", e))
			continue
		case weight <= 0:
			errs.add(newError(InvariantViolation, "edge %s has non-positive weight", e))
			continue
		case !validDim(inEdge.Width) || !validDim(inEdge.Height):
			errs.add(newError(InvariantViolation, "edge %s has a negative or non-finite width/height", e))
			continue
		case labelPos != "l" && labelPos != "c" && labelPos != "r":
			errs.add(newError(InvariantViolation, "edge %s has unknown labelpos %q", e, inEdge.LabelPos))
			continue
		}

		l.SetEdge(e, edgeLabel{
			Minlen:      minlen,
			Weight:      weight,
			Width:       inEdge.Width,
			Height:      inEdge.Height,
			LabelOffset: labelOffset,
			LabelPos:    labelPos,
		})
	}

	if err := errs.errOrNil(); err != nil {
		return nil, err
	}
	return l, nil
}

// updateInputGraph copies the whitelisted output attributes (spec §4.1 item
// 3) from the finished layout graph l back onto the caller's graph in,
// leaving everything else on in untouched (spec invariant 8, the round-trip
// property).
func updateInputGraph(in, l *Graph) {
	for _, v := range in.Nodes() {
		inNode := in.node(v)
		ln := l.node(v)
		inNode.X, inNode.Y, inNode.Rank = ln.X, ln.Y, ln.Rank
		// makeSpaceForEdgeLabels doubled every minlen; report ranks in the
		// caller's units. The -1 sentinel of a compound parent is kept.
		if ln.Rank >= 0 {
			inNode.Rank = ln.Rank / 2
		}
		if len(l.Children(v)) > 0 {
			inNode.Width, inNode.Height = ln.Width, ln.Height
		}
	}
	for _, e := range in.Edges() {
		inEdge := in.edge(e)
		le := l.edge(e)
		inEdge.Points = le.Points
		if hasEdgeLabelPosition(le) {
			inEdge.X, inEdge.Y = le.X, le.Y
		}
	}

	ilbl := in.GraphLabel()
	llbl := l.GraphLabel()
	ilbl.Width, ilbl.Height = llbl.Width, llbl.Height
	in.SetGraphLabel(ilbl)
}

func timeStage(logger *slog.Logger, stage string, fn func()) {
	defer stageTimer(logger, stage)()
	fn()
}

func timeStageErr(logger *slog.Logger, stage string, fn func() error) error {
	defer stageTimer(logger, stage)()
	return fn()
}

// runLayout runs every pipeline stage on l in the exact order spec §2/§4.1
// require: each stage relies on invariants the previous one established,
// and several later stages (normalize.undo, undoCoordinateSystem,
// acyclic.undo) exist specifically to invert an earlier one.
func runLayout(l *Graph, logger *slog.Logger) error {
	defer stageTimer(logger, "total")()

	timeStage(logger, "makeSpaceForEdgeLabels", func() { makeSpaceForEdgeLabels(l) })
	timeStage(logger, "removeSelfEdges", func() { removeSelfEdges(l) })
	if err := timeStageErr(logger, "acyclic", func() error { return runAcyclic(l) }); err != nil {
		return wrapStage("acyclic", err)
	}
	timeStage(logger, "nestingGraph.run", func() { runNesting(l) })
	if err := timeStageErr(logger, "rank", func() error { return rankNonCompound(l) }); err != nil {
		return wrapStage("rank", err)
	}
	timeStage(logger, "injectEdgeLabelProxies", func() { injectEdgeLabelProxies(l) })
	timeStage(logger, "removeEmptyRanks", func() { removeEmptyRanks(l) })
	timeStage(logger, "nestingGraph.cleanup", func() { cleanupNesting(l) })
	timeStage(logger, "normalizeRanks", func() { normalizeRanks(l) })
	timeStage(logger, "assignRankMinMax", func() { assignRankMinMax(l) })
	timeStage(logger, "removeEdgeLabelProxies", func() { removeEdgeLabelProxies(l) })
	timeStage(logger, "normalize.run", func() { runNormalize(l) })
	timeStage(logger, "parentDummyChains", func() { parentDummyChains(l) })
	timeStage(logger, "addBorderSegments", func() { runBorderSegments(l) })
	timeStage(logger, "order", func() { runOrder(l) })
	timeStage(logger, "insertSelfEdges", func() { insertSelfEdges(l) })
	timeStage(logger, "adjustCoordinateSystem", func() { adjustCoordinateSystem(l) })
	timeStage(logger, "position", func() { runPosition(l) })
	timeStage(logger, "positionSelfEdges", func() { positionSelfEdges(l) })
	timeStage(logger, "removeBorderNodes", func() { removeBorderNodes(l) })
	timeStage(logger, "normalize.undo", func() { undoNormalize(l) })
	timeStage(logger, "fixupEdgeLabelCoords", func() { fixupEdgeLabelCoords(l) })
	timeStage(logger, "undoCoordinateSystem", func() { undoCoordinateSystem(l) })
	timeStage(logger, "translateGraph", func() { translateGraph(l) })
	timeStage(logger, "assignNodeIntersects", func() { assignNodeIntersects(l) })
	timeStage(logger, "reversePoints", func() { reversePointsForReversedEdges(l) })
	timeStage(logger, "acyclic.undo", func() { undoAcyclic(l) })

	return nil
}

// asNonCompoundGraph returns a flattened copy of g containing only nodes
// with no children, plus every edge whose endpoints both survive into that
// copy. A compound parent's width/height/rank come from its children's
// extent, not from ranking the parent alongside them, so the ranker must
// never see it — running network simplex or longest-path on a container
// would assign it some arbitrary rank (network simplex's feasible-tree
// construction pulls in any disconnected node at whatever rank it finds
// room for) and let it leak into buildLayers/order/position as if it were
// an ordinary sibling of its own children.
func asNonCompoundGraph(g *Graph) *Graph {
	flat := NewGraph(GraphOptions{Directed: true, Multigraph: g.IsMultigraph()})
	flat.SetGraphLabel(g.GraphLabel())
	for _, v := range g.Nodes() {
		if len(g.Children(v)) > 0 {
			continue
		}
		flat.SetNode(v)
		*flat.node(v) = *g.node(v)
	}
	for _, e := range g.Edges() {
		if !flat.HasNode(e.V) || !flat.HasNode(e.W) {
			continue
		}
		flat.SetEdge(e, *g.edge(e))
	}
	return flat
}

// rankNonCompound runs the configured ranker on a flattened, non-compound
// view of g and copies the resulting Rank back onto g's own nodes. Nodes
// excluded from the flattened view (compound parents) keep the Rank=-1
// sentinel buildLayoutGraph gave them.
func rankNonCompound(g *Graph) error {
	flat := asNonCompoundGraph(g)
	if err := rank(flat); err != nil {
		return err
	}
	for _, v := range flat.Nodes() {
		g.node(v).Rank = flat.node(v).Rank
	}
	return nil
}

// makeSpaceForEdgeLabels halves ranksep and doubles every edge's minlen so
// normalize always reserves at least one intermediate rank per edge — the
// Gansner paper's trick for giving an edge label somewhere to sit — then
// widens (TB/BT) or heightens (LR/RL) each non-centered label's box by its
// labeloffset so the reserved dummy has room for the label beside the line,
// not just on it.
func makeSpaceForEdgeLabels(g *Graph) {
	lbl := g.GraphLabel()
	lbl.RankSep /= 2
	g.SetGraphLabel(lbl)

	horiz := isHorizontal(g)
	for _, e := range g.Edges() {
		el := g.edge(e)
		el.Minlen *= 2
		if isCenteredLabel(el.LabelPos) {
			continue
		}
		if horiz {
			el.Height += el.LabelOffset
		} else {
			el.Width += el.LabelOffset
		}
	}
}

// injectEdgeLabelProxies anchors a dummy node at each labeled edge's
// midpoint rank, before ranks are compacted, so removeEmptyRanks has a real
// node occupying that rank and never collapses it away from under the
// label.
func injectEdgeLabelProxies(g *Graph) {
	for _, e := range g.Edges() {
		el := g.edge(e)
		if !hasEdgeLabelPosition(el) {
			continue
		}
		v, w := g.node(e.V), g.node(e.W)
		addDummyNode(g, DummyEdgeProxy, nodeLabel{Rank: (v.Rank + w.Rank) / 2, EdgeObj: e}, "ep")
	}
}

// removeEmptyRanks compacts ranks holding no nodes, except those that are a
// multiple of nodeRankFactor — the spacing the nesting graph (and the
// label-proxy trick above) deliberately introduced, which must survive so
// a later stage can still find an edge's reserved label rank at the
// expected offset. Unranked compound parents (Rank=-1) never entered a
// layer and are left alone.
func removeEmptyRanks(g *Graph) {
	var nodes []string
	for _, v := range g.Nodes() {
		if g.node(v).Rank >= 0 {
			nodes = append(nodes, v)
		}
	}
	if len(nodes) == 0 {
		return
	}

	offset := g.node(nodes[0]).Rank
	for _, v := range nodes {
		if r := g.node(v).Rank; r < offset {
			offset = r
		}
	}
	maxIdx := 0
	for _, v := range nodes {
		if idx := g.node(v).Rank - offset; idx > maxIdx {
			maxIdx = idx
		}
	}
	layers := make([][]string, maxIdx+1)
	for _, v := range nodes {
		idx := g.node(v).Rank - offset
		layers[idx] = append(layers[idx], v)
	}

	factor := g.nodeRankFactor
	if factor <= 0 {
		factor = 1
	}

	delta := 0
	for i, vs := range layers {
		if len(vs) == 0 {
			if i%factor != 0 {
				delta--
			}
			continue
		}
		if delta != 0 {
			for _, v := range vs {
				g.node(v).Rank += delta
			}
		}
	}
}

// normalizeRanks shifts every ranked node's rank so the minimum is 0.
// Unranked compound parents (Rank=-1) are left at their sentinel.
func normalizeRanks(g *Graph) {
	var nodes []string
	for _, v := range g.Nodes() {
		if g.node(v).Rank >= 0 {
			nodes = append(nodes, v)
		}
	}
	if len(nodes) == 0 {
		return
	}
	min := g.node(nodes[0]).Rank
	for _, v := range nodes {
		if r := g.node(v).Rank; r < min {
			min = r
		}
	}
	if min == 0 {
		return
	}
	for _, v := range nodes {
		g.node(v).Rank -= min
	}
}

// assignRankMinMax records each compound parent's rank span from its
// nesting-graph border nodes (still present at this point in the
// pipeline, deleted only much later by removeBorderNodes) and the global
// maximum rank onto the graph label.
func assignRankMinMax(g *Graph) {
	maxRank := 0
	for _, v := range g.Nodes() {
		n := g.node(v)
		if n.BorderTop != "" {
			n.MinRank = g.node(n.BorderTop).Rank
			n.MaxRank = g.node(n.BorderBottom).Rank
		}
		if n.Rank >= 0 && n.Rank > maxRank {
			maxRank = n.Rank
		}
	}
	lbl := g.GraphLabel()
	lbl.MaxRank = maxRank
	g.SetGraphLabel(lbl)
}

// removeEdgeLabelProxies copies each proxy's rank onto its edge as
// LabelRank, for normalizeEdge to use when choosing which chain dummy
// becomes the DummyEdgeLabel anchor, then deletes the proxy.
func removeEdgeLabelProxies(g *Graph) {
	for _, v := range g.Nodes() {
		n := g.node(v)
		if n.Dummy != DummyEdgeProxy {
			continue
		}
		if el := g.edge(n.EdgeObj); el != nil {
			el.LabelRank = n.Rank
		}
		g.RemoveNode(v)
	}
}

// translateGraph shifts every coordinate so the drawing sits in the
// non-negative quadrant with the requested margin, and records the
// resulting graph.width/height. An empty graph is handled as its own case
// per spec §8 scenario 1 rather than falling out of the general bounding
// box math, which (as in the upstream algorithm this is grounded on)
// leaves minX/minY at +Inf when there is nothing to bound.
func translateGraph(g *Graph) {
	lbl := g.GraphLabel()
	if g.NodeCount() == 0 {
		lbl.Width = 2 * lbl.MarginX
		lbl.Height = 2 * lbl.MarginY
		g.SetGraphLabel(lbl)
		return
	}

	minX, maxX := math.Inf(1), 0.0
	minY, maxY := math.Inf(1), 0.0
	extend := func(x, y, w, h float64) {
		minX = minF(minX, x-w/2)
		maxX = maxF(maxX, x+w/2)
		minY = minF(minY, y-h/2)
		maxY = maxF(maxY, y+h/2)
	}

	for _, v := range g.Nodes() {
		n := g.node(v)
		extend(n.X, n.Y, n.Width, n.Height)
	}
	for _, e := range g.Edges() {
		el := g.edge(e)
		if hasEdgeLabelPosition(el) {
			extend(el.X, el.Y, el.Width, el.Height)
		}
	}

	minX -= lbl.MarginX
	minY -= lbl.MarginY

	for _, v := range g.Nodes() {
		n := g.node(v)
		n.X -= minX
		n.Y -= minY
	}
	for _, e := range g.Edges() {
		el := g.edge(e)
		for i := range el.Points {
			el.Points[i].X -= minX
			el.Points[i].Y -= minY
		}
		if hasEdgeLabelPosition(el) {
			el.X -= minX
			el.Y -= minY
		}
	}

	lbl.Width = maxX - minX + lbl.MarginX
	lbl.Height = maxY - minY + lbl.MarginY
	g.SetGraphLabel(lbl)
}

// assignNodeIntersects clips each edge's polyline to its endpoints'
// rectangles: the first and last points become where the line actually
// crosses the node boundary, rather than the node's center. A degenerate
// edge with no interior points is seeded with each endpoint's opposite
// center, so the clip still has a direction to work from. Self-loops are
// skipped: they keep the 5-point loop positionSelfEdges built.
func assignNodeIntersects(g *Graph) {
	for _, e := range g.Edges() {
		if e.V == e.W {
			continue
		}
		el := g.edge(e)
		vNode, wNode := g.node(e.V), g.node(e.W)

		var seedAtV, seedAtW Point
		if len(el.Points) == 0 {
			seedAtV = Point{X: wNode.X, Y: wNode.Y}
			seedAtW = Point{X: vNode.X, Y: vNode.Y}
		} else {
			seedAtV = el.Points[0]
			seedAtW = el.Points[len(el.Points)-1]
		}

		start := intersectRect(rect{X: vNode.X, Y: vNode.Y, W: vNode.Width, H: vNode.Height}, seedAtV)
		end := intersectRect(rect{X: wNode.X, Y: wNode.Y, W: wNode.Width, H: wNode.Height}, seedAtW)

		pts := make([]Point, 0, len(el.Points)+2)
		pts = append(pts, start)
		pts = append(pts, el.Points...)
		pts = append(pts, end)
		el.Points = pts
	}
}

// fixupEdgeLabelCoords undoes makeSpaceForEdgeLabels's width padding for
// non-centered labels and shifts the label's x so it sits beside the edge
// line rather than on top of it: to the left of the line for labelpos "l",
// to the right for "r".
func fixupEdgeLabelCoords(g *Graph) {
	for _, e := range g.Edges() {
		el := g.edge(e)
		if isCenteredLabel(el.LabelPos) || !hasEdgeLabelPosition(el) {
			continue
		}
		el.Width -= el.LabelOffset
		if el.LabelPos == "l" {
			el.X -= el.Width/2 + el.LabelOffset
		} else {
			el.X += el.Width/2 + el.LabelOffset
		}
	}
}

// reversePointsForReversedEdges flips the polyline of every edge Acyclic
// reversed, so by the time acyclic.undo restores the edge's original
// direction its points already read original-source to original-target.
func reversePointsForReversedEdges(g *Graph) {
	for _, e := range g.Edges() {
		el := g.edge(e)
		if el.Reversed {
			reversePoints(el.Points)
		}
	}
}
