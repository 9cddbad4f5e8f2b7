// Package dagre implements a layered directed-graph layout engine: given a
// directed graph with node sizes and edge weights, it assigns coordinates to
// every node and routes every edge so that nodes flow along ranks, edges
// cross as little as possible, and compound subgraphs tightly enclose their
// children.
package dagre

import (
	"fmt"
	"sort"
)

// DummyKind tags the role a synthetic node plays in the pipeline. Real input
// nodes always carry DummyNone.
type DummyKind int

const (
	DummyNone DummyKind = iota
	DummyEdge
	DummyEdgeLabel
	DummyEdgeProxy
	DummyBorder
	DummySelfEdge
	DummyNestingTop
	DummyNestingBottom
)

func (k DummyKind) String() string {
	switch k {
	case DummyEdge:
		return "edge"
	case DummyEdgeLabel:
		return "edge-label"
	case DummyEdgeProxy:
		return "edge-proxy"
	case DummyBorder:
		return "border"
	case DummySelfEdge:
		return "selfedge"
	case DummyNestingTop:
		return "nesting-top"
	case DummyNestingBottom:
		return "nesting-bottom"
	default:
		return ""
	}
}

// Point is a single vertex of an edge polyline, in graph coordinates.
type Point struct {
	X, Y float64
}

// nodeLabel is the full set of attributes a node carries through the
// pipeline. Only a subset is meaningful at any given stage; fields left at
// their zero value are simply unused until a later stage sets them.
type nodeLabel struct {
	Width, Height float64
	X, Y          float64
	Rank          int
	Order         int

	Dummy DummyKind

	// compound-parent extras
	MinRank      int
	MaxRank      int
	BorderTop    string
	BorderBottom string
	BorderLeft   []string
	BorderRight  []string

	// self-edges stashed during removeSelfEdges, consumed by insertSelfEdges
	SelfEdges []selfEdgeStash

	// dummy-edge-chain bookkeeping (normalize)
	EdgeObj  EdgeID // for DummyEdge / DummyEdgeProxy: the original edge this dummy belongs to
	EdgeLhs  string
	EdgeRhs  string

	// self-edge bookkeeping: for a DummySelfEdge dummy, EdgeObj names the
	// (v, v, name) edge to reinstall and SelfEdgeLabel its original label.
	SelfEdgeLabel edgeLabel

	// nesting graph bookkeeping
	NestingParent string

	// Attrs is a freeform passthrough bag for attributes Layout never
	// interprets, set via SetNodeAttrs and read back via NodeResult. It is
	// never copied onto the internal layout graph buildLayoutGraph builds,
	// since nothing in the pipeline reads it -- it just rides along on the
	// caller's own Graph untouched, the way invariant 8 requires.
	Attrs map[string]string
}

type selfEdgeStash struct {
	Edge  EdgeID
	Label edgeLabel
}

// edgeLabel is the full set of attributes an edge carries through the
// pipeline.
type edgeLabel struct {
	Minlen      int
	Weight      float64
	Width       float64
	Height      float64
	LabelOffset float64
	LabelPos    string // "l", "c", "r"

	Points    []Point
	X, Y      float64
	LabelRank int

	Reversed    bool
	ForwardName string // original Name before Acyclic renamed a reversed edge, if it did

	// OrigMinlen, Tree and Cutvalue are not set by any stage: normalize
	// records its chains in Graph.dummyChains, and network simplex keeps
	// tree membership and cut values in its own maps.
	OrigMinlen int

	Tree     bool
	Cutvalue float64

	// NestingEdge marks an edge nestingDFS added to force a compound
	// subtree's children to rank between its top/bottom dummies.
	// cleanupNesting deletes every edge tagged this way; none of them
	// represent a real edge the caller drew, so leaving one in place would
	// feed a spurious, large-minlen edge into normalize/order/position.
	NestingEdge bool

	// Attrs is a freeform passthrough bag for attributes Layout never
	// interprets, set via SetEdgeAttrs and read back via EdgeResult.
	Attrs map[string]string
}

// graphLabel holds graph-level configuration and computed outputs.
type graphLabel struct {
	RankDir   string
	RankSep   float64
	NodeSep   float64
	EdgeSep   float64
	MarginX   float64
	MarginY   float64
	Ranker    string
	Acyclicer string
	Align     string

	Width   float64
	Height  float64
	MaxRank int

	NestingRoot string
}

// EdgeID identifies an edge: its tail, head, and (for multigraphs) a name
// distinguishing parallel edges between the same pair of nodes.
type EdgeID struct {
	V, W, Name string
}

func (e EdgeID) key() string {
	if e.Name != "" {
		return e.V + "\x00" + e.W + "\x00" + e.Name
	}
	return e.V + "\x00" + e.W
}

func (e EdgeID) String() string {
	if e.Name != "" {
		return fmt.Sprintf("%s->%s[%s]", e.V, e.W, e.Name)
	}
	return fmt.Sprintf("%s->%s", e.V, e.W)
}

// GraphOptions configures a new Graph's structural capabilities.
type GraphOptions struct {
	Directed   bool
	Multigraph bool
	Compound   bool
}

// Graph is a directed multigraph with optional compound (parent/child)
// structure. It is the "graph container" collaborator described in the
// specification: node/edge/parent storage with label attachments, no layout
// logic of its own.
type Graph struct {
	opts GraphOptions

	label graphLabel

	nodeOrder []string
	nodes     map[string]*nodeLabel

	edgeOrder []string // insertion order of edge keys, for deterministic iteration
	edges     map[string]*edgeLabel
	edgeIDs   map[string]EdgeID

	outEdges map[string][]string // node -> ordered edge keys
	inEdges  map[string][]string

	parent   map[string]string
	children map[string][]string // insertion order preserved

	defaultEdgeLabel func(v, w, name string) edgeLabel

	// Pipeline-scoped counters. Each Layout call works on its own Graph
	// instance (buildLayoutGraph makes a fresh copy), so these live on the
	// struct rather than as package state — two concurrent Layout calls
	// never share a Graph and therefore never race (spec §5).
	dummySeq       int
	nodeRankFactor int

	// dummyChains holds the first dummy node ID of every edge chain created
	// by runNormalize, so undoNormalize can walk each chain back into a
	// single polyline without re-deriving chain membership from IDs.
	dummyChains []string
	chainOrig   map[string]edgeLabel
}

// nextDummyID returns a fresh, ASCII, collision-free dummy node identifier.
func (g *Graph) nextDummyID(prefix string) string {
	g.dummySeq++
	return "_d" + prefix + "_" + itoa(g.dummySeq)
}

// NewGraph constructs an empty graph.
func NewGraph(opts GraphOptions) *Graph {
	return &Graph{
		opts:           opts,
		nodes:          make(map[string]*nodeLabel),
		edges:          make(map[string]*edgeLabel),
		edgeIDs:        make(map[string]EdgeID),
		outEdges:       make(map[string][]string),
		inEdges:        make(map[string][]string),
		parent:         make(map[string]string),
		children:       make(map[string][]string),
		nodeRankFactor: 1,
		chainOrig:      make(map[string]edgeLabel),
	}
}

func (g *Graph) IsCompound() bool   { return g.opts.Compound }
func (g *Graph) IsMultigraph() bool { return g.opts.Multigraph }

// SetDefaultEdgeLabel installs a factory invoked for edges created without
// an explicit label.
func (g *Graph) SetDefaultEdgeLabel(f func(v, w, name string) edgeLabel) {
	g.defaultEdgeLabel = f
}

// Nodes returns node IDs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) node(id string) *nodeLabel {
	n, ok := g.nodes[id]
	if !ok {
		n = &nodeLabel{}
		g.setNodeInternal(id, n)
	}
	return n
}

func (g *Graph) setNodeInternal(id string, n *nodeLabel) {
	if _, exists := g.nodes[id]; !exists {
		g.nodeOrder = append(g.nodeOrder, id)
	}
	g.nodes[id] = n
}

// SetNode creates id if absent, leaving its label at zero value.
func (g *Graph) SetNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		g.setNodeInternal(id, &nodeLabel{})
	}
}

// RemoveNode deletes id and every incident edge, plus its compound
// children's parent link (children become parentless, matching dagre.js).
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, ek := range append([]string{}, g.outEdges[id]...) {
		eid := g.edgeIDs[ek]
		g.RemoveEdge(eid.V, eid.W, eid.Name)
	}
	for _, ek := range append([]string{}, g.inEdges[id]...) {
		eid := g.edgeIDs[ek]
		g.RemoveEdge(eid.V, eid.W, eid.Name)
	}
	if g.opts.Compound {
		if p, ok := g.parent[id]; ok {
			g.removeChild(p, id)
			delete(g.parent, id)
		}
		for _, c := range g.children[id] {
			delete(g.parent, c)
		}
		delete(g.children, id)
	}
	delete(g.nodes, id)
	delete(g.outEdges, id)
	delete(g.inEdges, id)
	for i, nid := range g.nodeOrder {
		if nid == id {
			g.nodeOrder = append(g.nodeOrder[:i], g.nodeOrder[i+1:]...)
			break
		}
	}
}

// SetParent assigns id's compound parent (""/unset clears it).
func (g *Graph) SetParent(id, parent string) {
	if !g.opts.Compound {
		panic("dagre: SetParent called on non-compound graph")
	}
	g.SetNode(id)
	if parent != "" {
		g.SetNode(parent)
	}
	if old, ok := g.parent[id]; ok {
		g.removeChild(old, id)
	}
	if parent == "" {
		delete(g.parent, id)
		return
	}
	g.parent[id] = parent
	g.children[parent] = append(g.children[parent], id)
}

func (g *Graph) removeChild(parent, child string) {
	kids := g.children[parent]
	for i, c := range kids {
		if c == child {
			g.children[parent] = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}

// Parent returns id's compound parent, or "" if it has none.
func (g *Graph) Parent(id string) string { return g.parent[id] }

// Children returns id's direct compound children in insertion order. id=""
// returns the top-level (parentless) nodes.
func (g *Graph) Children(id string) []string {
	if id == "" {
		var top []string
		for _, n := range g.nodeOrder {
			if _, ok := g.parent[n]; !ok {
				top = append(top, n)
			}
		}
		return top
	}
	out := make([]string, len(g.children[id]))
	copy(out, g.children[id])
	return out
}

// GraphLabel returns a copy of the graph-level label.
func (g *Graph) GraphLabel() graphLabel { return g.label }

// SetGraphLabel replaces the graph-level label.
func (g *Graph) SetGraphLabel(l graphLabel) { g.label = l }

// SetEdge creates or replaces an edge with an explicit label.
func (g *Graph) SetEdge(id EdgeID, l edgeLabel) {
	g.SetNode(id.V)
	g.SetNode(id.W)
	key := id.key()
	if _, exists := g.edges[key]; !exists {
		g.edgeOrder = append(g.edgeOrder, key)
		g.outEdges[id.V] = append(g.outEdges[id.V], key)
		g.inEdges[id.W] = append(g.inEdges[id.W], key)
	}
	g.edges[key] = &l
	g.edgeIDs[key] = id
}

// AddEdge creates an edge using the graph's default edge label factory (or a
// zero label if none was installed).
func (g *Graph) AddEdge(v, w, name string) EdgeID {
	id := EdgeID{V: v, W: w, Name: name}
	var l edgeLabel
	if g.defaultEdgeLabel != nil {
		l = g.defaultEdgeLabel(v, w, name)
	}
	g.SetEdge(id, l)
	return id
}

func (g *Graph) edge(id EdgeID) *edgeLabel {
	return g.edges[id.key()]
}

func (g *Graph) HasEdge(id EdgeID) bool {
	_, ok := g.edges[id.key()]
	return ok
}

// RemoveEdge deletes the named edge, if present.
func (g *Graph) RemoveEdge(v, w, name string) {
	id := EdgeID{V: v, W: w, Name: name}
	key := id.key()
	if _, ok := g.edges[key]; !ok {
		return
	}
	delete(g.edges, key)
	delete(g.edgeIDs, key)
	for i, k := range g.edgeOrder {
		if k == key {
			g.edgeOrder = append(g.edgeOrder[:i], g.edgeOrder[i+1:]...)
			break
		}
	}
	g.outEdges[v] = removeStr(g.outEdges[v], key)
	g.inEdges[w] = removeStr(g.inEdges[w], key)
}

func removeStr(s []string, v string) []string {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// Edges returns every edge ID in insertion order.
func (g *Graph) Edges() []EdgeID {
	out := make([]EdgeID, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, g.edgeIDs[k])
	}
	return out
}

func (g *Graph) EdgeCount() int { return len(g.edgeOrder) }

// OutEdges returns edges leaving v, in insertion order.
func (g *Graph) OutEdges(v string) []EdgeID {
	keys := g.outEdges[v]
	out := make([]EdgeID, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.edgeIDs[k])
	}
	return out
}

// InEdges returns edges entering w, in insertion order.
func (g *Graph) InEdges(w string) []EdgeID {
	keys := g.inEdges[w]
	out := make([]EdgeID, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.edgeIDs[k])
	}
	return out
}

// NodeEdges returns every edge touching v (in, then out), deduplicated for
// self-loops which appear in both.
func (g *Graph) NodeEdges(v string) []EdgeID {
	seen := make(map[string]bool)
	var out []EdgeID
	for _, k := range g.inEdges[v] {
		if !seen[k] {
			seen[k] = true
			out = append(out, g.edgeIDs[k])
		}
	}
	for _, k := range g.outEdges[v] {
		if !seen[k] {
			seen[k] = true
			out = append(out, g.edgeIDs[k])
		}
	}
	return out
}

// Successors returns the distinct target nodes reachable by a direct edge
// from v, sorted for determinism.
func (g *Graph) Successors(v string) []string {
	set := map[string]bool{}
	for _, k := range g.outEdges[v] {
		set[g.edgeIDs[k].W] = true
	}
	return sortedKeys(set)
}

// Predecessors returns the distinct source nodes with a direct edge into v,
// sorted for determinism.
func (g *Graph) Predecessors(v string) []string {
	set := map[string]bool{}
	for _, k := range g.inEdges[v] {
		set[g.edgeIDs[k].V] = true
	}
	return sortedKeys(set)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
