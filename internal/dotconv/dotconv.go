package dotconv

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/xerrors"

	"github.com/dagrelayout/dagrelayout/dagre"
)

// FromDOT parses a DOT graph from r and builds a dagre.Graph from it:
// node_stmts become nodes (width/height attributes sized from `width=`/
// `height=`, everything else carried through as InputNodeAttrs.Attrs),
// edge_stmts become edges (minlen/weight/labelpos/labeloffset/width/height
// recognized, everything else passed through), subgraph blocks become
// compound parents, and a plain `key=value` graph attribute assignment or
// `graph [k=v]` attr_stmt populates InputGraphAttrs.
func FromDOT(r io.Reader) (*dagre.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("dotconv: reading source: %w", err)
	}
	ast, err := parse(string(data))
	if err != nil {
		return nil, err
	}
	if !ast.Directed {
		return nil, &ParseError{Msg: "undirected graphs are not supported: layout requires a digraph"}
	}
	return build(ast)
}

type builder struct {
	g         *dagre.Graph
	graphAttr map[string]string
}

func build(ast *Graph) (*dagre.Graph, error) {
	b := &builder{
		g:         dagre.NewGraph(dagre.GraphOptions{Directed: true, Compound: hasSubgraph(ast.Stmts)}),
		graphAttr: map[string]string{},
	}
	if err := b.walk(ast.Stmts, "", map[string]string{}, map[string]string{}); err != nil {
		return nil, err
	}
	b.g.SetGraphAttrs(graphAttrsFromMap(b.graphAttr))
	return b.g, nil
}

func hasSubgraph(stmts []Stmt) bool {
	for _, s := range stmts {
		if _, ok := s.(*Subgraph); ok {
			return true
		}
	}
	return false
}

var anonSubgraphSeq int

// walk applies stmts in order, threading node/edge attribute defaults set
// by attr_stmt forward to later statements in the same scope (DOT's
// scoping rule: a default applies to every node/edge statement after it,
// within the block it was declared in, and is inherited — but not leaked
// back out — by nested subgraphs).
func (b *builder) walk(stmts []Stmt, parent string, nodeDefaults, edgeDefaults map[string]string) error {
	nodeDefaults = cloneMap(nodeDefaults)
	edgeDefaults = cloneMap(edgeDefaults)

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *AttrStmt:
			switch s.Target {
			case "graph":
				for k, v := range s.Attrs {
					b.graphAttr[k] = v
				}
			case "node":
				for k, v := range s.Attrs {
					nodeDefaults[k] = v
				}
			case "edge":
				for k, v := range s.Attrs {
					edgeDefaults[k] = v
				}
			}
		case *NodeStmt:
			attrs := mergeMap(nodeDefaults, s.Attrs)
			b.g.SetNodeAttrs(s.ID, nodeAttrsFromMap(attrs))
			if parent != "" {
				b.g.SetParent(s.ID, parent)
			}
		case *EdgeStmt:
			attrs := mergeMap(edgeDefaults, s.Attrs)
			b.g.SetEdgeAttrs(dagre.EdgeID{V: s.From, W: s.To}, edgeAttrsFromMap(attrs))
			if parent != "" {
				b.g.SetParent(s.From, parent)
				b.g.SetParent(s.To, parent)
			}
		case *Subgraph:
			id := s.ID
			if id == "" {
				anonSubgraphSeq++
				id = fmt.Sprintf("_subgraph_%d", anonSubgraphSeq)
			}
			b.g.SetNodeAttrs(id, dagre.InputNodeAttrs{})
			if parent != "" {
				b.g.SetParent(id, parent)
			}
			if err := b.walk(s.Stmts, id, nodeDefaults, edgeDefaults); err != nil {
				return err
			}
		}
	}
	return nil
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// mergeMap layers explicit over defaults, returning nil (not an empty map)
// when both are empty so the passthrough Attrs field stays nil rather than
// becoming a pointless allocation every caller then has to nil-check.
func mergeMap(defaults, explicit map[string]string) map[string]string {
	if len(defaults) == 0 && len(explicit) == 0 {
		return nil
	}
	out := cloneMap(defaults)
	for k, v := range explicit {
		out[k] = v
	}
	return out
}

func popFloat(attrs map[string]string, key string) float64 {
	if attrs == nil {
		return 0
	}
	v, ok := attrs[key]
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	delete(attrs, key)
	return f
}

func popInt(attrs map[string]string, key string) int {
	if attrs == nil {
		return 0
	}
	v, ok := attrs[key]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	delete(attrs, key)
	return n
}

func popString(attrs map[string]string, key string) string {
	if attrs == nil {
		return ""
	}
	v := attrs[key]
	delete(attrs, key)
	return v
}

func nilIfEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

func nodeAttrsFromMap(attrs map[string]string) dagre.InputNodeAttrs {
	attrs = cloneMap(attrs)
	return dagre.InputNodeAttrs{
		Width:  popFloat(attrs, "width"),
		Height: popFloat(attrs, "height"),
		Attrs:  nilIfEmpty(attrs),
	}
}

func edgeAttrsFromMap(attrs map[string]string) dagre.InputEdgeAttrs {
	attrs = cloneMap(attrs)
	return dagre.InputEdgeAttrs{
		Minlen:      popInt(attrs, "minlen"),
		Weight:      popFloat(attrs, "weight"),
		Width:       popFloat(attrs, "width"),
		Height:      popFloat(attrs, "height"),
		LabelOffset: popFloat(attrs, "labeloffset"),
		LabelPos:    popString(attrs, "labelpos"),
		Attrs:       nilIfEmpty(attrs),
	}
}

func graphAttrsFromMap(attrs map[string]string) dagre.InputGraphAttrs {
	attrs = cloneMap(attrs)
	return dagre.InputGraphAttrs{
		RankDir:   popString(attrs, "rankdir"),
		NodeSep:   popFloat(attrs, "nodesep"),
		EdgeSep:   popFloat(attrs, "edgesep"),
		RankSep:   popFloat(attrs, "ranksep"),
		MarginX:   popFloat(attrs, "marginx"),
		MarginY:   popFloat(attrs, "marginy"),
		Ranker:    popString(attrs, "ranker"),
		Acyclicer: popString(attrs, "acyclicer"),
		Align:     popString(attrs, "align"),
	}
}
