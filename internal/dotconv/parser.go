package dotconv

import (
	"fmt"
	"strings"
)

// ParseError reports a lexical or syntactic problem at a specific source
// position, mirroring teleivo-dot/token.Position's line:column shape.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dotconv: %s: %s", e.Pos, e.Msg)
}

type parser struct {
	sc   *scanner
	cur  token
	peek token
}

func newParser(src string) (*parser, error) {
	p := &parser{sc: newScanner(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	p.cur = p.peek
	t, err := p.sc.next()
	if err != nil {
		return err
	}
	p.peek = t
	return nil
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur.kind != k {
		return token{}, &ParseError{Pos: p.cur.pos, Msg: "expected " + what}
	}
	t := p.cur
	return t, p.advance()
}

// parse reads one full DOT graph from src.
func parse(src string) (*Graph, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parseGraph()
}

func (p *parser) parseGraph() (*Graph, error) {
	if p.cur.kind == tokStrict {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	directed := false
	switch p.cur.kind {
	case tokDigraph:
		directed = true
	case tokGraph:
		directed = false
	default:
		return nil, &ParseError{Pos: p.cur.pos, Msg: "expected 'graph' or 'digraph'"}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	g := &Graph{Directed: directed}
	if p.cur.kind == tokIdent {
		g.ID = p.cur.lit
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	g.Stmts = stmts
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *parser) parseStmtList() ([]Stmt, error) {
	var stmts []Stmt
	for p.cur.kind != tokRBrace && p.cur.kind != tokEOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt...)
		for p.cur.kind == tokSemicolon {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return stmts, nil
}

// parseStmt returns one or more Stmts: a node_stmt/attr_stmt/subgraph
// returns exactly one, but an edge_stmt with a chained right-hand side
// (a -> b -> c) expands into one EdgeStmt per consecutive pair.
func (p *parser) parseStmt() ([]Stmt, error) {
	switch p.cur.kind {
	case tokNode, tokEdge, tokGraph:
		target := strings.ToLower(p.cur.lit)
		if err := p.advance(); err != nil {
			return nil, err
		}
		attrs, err := p.parseAttrList()
		if err != nil {
			return nil, err
		}
		return []Stmt{&AttrStmt{Target: target, Attrs: attrs}}, nil
	case tokSubgraph, tokLBrace:
		sub, err := p.parseSubgraph()
		if err != nil {
			return nil, err
		}
		return p.continueAsEdgeOrReturn(sub.ID, []Stmt{sub})
	case tokIdent:
		id := p.cur.lit
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokEqual { // bare "key = value" graph attribute assignment
			if err := p.advance(); err != nil {
				return nil, err
			}
			val, err := p.expect(tokIdent, "attribute value")
			if err != nil {
				return nil, err
			}
			return []Stmt{&AttrStmt{Target: "graph", Attrs: map[string]string{id: val.lit}}}, nil
		}
		if p.cur.kind == tokColon { // port: id:name[:compass] -- skip, unused by layout
			for p.cur.kind == tokColon {
				if err := p.advance(); err != nil {
					return nil, err
				}
				if _, err := p.expect(tokIdent, "port identifier"); err != nil {
					return nil, err
				}
			}
		}
		return p.continueAsEdgeOrReturn(id, nil)
	default:
		return nil, &ParseError{Pos: p.cur.pos, Msg: "unexpected token in statement"}
	}
}

// continueAsEdgeOrReturn is called right after an operand (node id or
// subgraph) has been consumed. If an edge operator follows, it parses the
// full chain into pairwise EdgeStmts; otherwise the operand was a plain
// node_stmt (prelude, if any, is included verbatim).
func (p *parser) continueAsEdgeOrReturn(firstID string, prelude []Stmt) ([]Stmt, error) {
	if p.cur.kind != tokDirectedEdge && p.cur.kind != tokUndirectedEdge {
		if len(prelude) > 0 {
			return prelude, nil
		}
		attrs, err := p.parseAttrList()
		if err != nil {
			return nil, err
		}
		return []Stmt{&NodeStmt{ID: firstID, Attrs: attrs}}, nil
	}

	var stmts []Stmt
	stmts = append(stmts, prelude...)
	from := firstID
	for p.cur.kind == tokDirectedEdge || p.cur.kind == tokUndirectedEdge {
		if err := p.advance(); err != nil {
			return nil, err
		}
		to, err := p.parseEdgeOperand()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, &EdgeStmt{From: from, To: to})
		from = to
	}
	attrs, err := p.parseAttrList()
	if err != nil {
		return nil, err
	}
	if attrs != nil {
		for _, s := range stmts {
			if e, ok := s.(*EdgeStmt); ok {
				e.Attrs = attrs
			}
		}
	}
	return stmts, nil
}

func (p *parser) parseEdgeOperand() (string, error) {
	switch p.cur.kind {
	case tokSubgraph, tokLBrace:
		sub, err := p.parseSubgraph()
		if err != nil {
			return "", err
		}
		return sub.ID, nil
	case tokIdent:
		id := p.cur.lit
		if err := p.advance(); err != nil {
			return "", err
		}
		for p.cur.kind == tokColon {
			if err := p.advance(); err != nil {
				return "", err
			}
			if _, err := p.expect(tokIdent, "port identifier"); err != nil {
				return "", err
			}
		}
		return id, nil
	default:
		return "", &ParseError{Pos: p.cur.pos, Msg: "expected node identifier or subgraph"}
	}
}

func (p *parser) parseSubgraph() (*Subgraph, error) {
	if p.cur.kind == tokSubgraph {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	sub := &Subgraph{}
	if p.cur.kind == tokIdent {
		sub.ID = p.cur.lit
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	sub.Stmts = stmts
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return sub, nil
}

// parseAttrList parses zero or more bracketed `[k=v, ...]` groups,
// merging them into one map (later groups and later keys within a group
// win, per DOT's "rightmost wins" attribute semantics). Returns nil, not
// an empty map, when no bracket is present, so callers can tell "no
// attr_list" from "an empty one".
func (p *parser) parseAttrList() (map[string]string, error) {
	if p.cur.kind != tokLBracket {
		return nil, nil
	}
	attrs := map[string]string{}
	for p.cur.kind == tokLBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.cur.kind != tokRBracket {
			key, err := p.expect(tokIdent, "attribute name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokEqual, "'='"); err != nil {
				return nil, err
			}
			val, err := p.expect(tokIdent, "attribute value")
			if err != nil {
				return nil, err
			}
			attrs[key.lit] = val.lit
			for p.cur.kind == tokComma || p.cur.kind == tokSemicolon {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if _, err := p.expect(tokRBracket, "']'"); err != nil {
			return nil, err
		}
	}
	return attrs, nil
}
