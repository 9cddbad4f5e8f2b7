// Package dotconv converts between DOT graph descriptions and a
// dagre.Graph, so a caller can round-trip a layout through text the way
// Graphviz's own tools do (parse, lay out, re-emit with pos/width/height
// attributes written back).
//
// github.com/teleivo/dot's own parser is not reusable here: the AST it
// builds lives under that module's internal/ directory, which the Go
// toolchain refuses to let any other module import, and the one AST
// package it does export at the repo root is a stale surface that
// references a token.Position.Row field the repo's current token package
// no longer defines. This package is therefore a small hand-written
// scanner/parser/printer, grounded on that repo's token categories and
// grammar shape (NodeStmt, EdgeStmt with chained right-hand sides,
// AttrStmt defaults, bracketed attribute lists, subgraph blocks) rather
// than on its code.
package dotconv

import "fmt"

// Position is a one-indexed line/column location in DOT source, used to
// anchor parse error messages.
type Position struct {
	Line, Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokColon
	tokSemicolon
	tokEqual
	tokComma
	tokDirectedEdge   // ->
	tokUndirectedEdge // --
	tokIdent          // bare word, number, or quoted string (already unquoted)

	// keywords, recognized case-insensitively per the DOT grammar
	tokDigraph
	tokGraph
	tokSubgraph
	tokNode
	tokEdge
	tokStrict
)

var keywords = map[string]tokenKind{
	"digraph":  tokDigraph,
	"graph":    tokGraph,
	"subgraph": tokSubgraph,
	"node":     tokNode,
	"edge":     tokEdge,
	"strict":   tokStrict,
}

type token struct {
	kind tokenKind
	lit  string
	pos  Position
}
