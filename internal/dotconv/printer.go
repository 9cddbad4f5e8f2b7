package dotconv

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/dagrelayout/dagrelayout/dagre"
)

// ToDOT writes g as a DOT digraph to w, in the same spirit as Graphviz's
// `neato -Tdot` output: every node's pos/width/height attributes reflect
// Layout's result, every edge's pos attribute is its routed polyline, and
// a node's original passthrough attributes (anything FromDOT didn't
// interpret) are carried back out unchanged. Call after dagre.Layout has
// run; before that, every node reports the zero geometry Layout hasn't
// assigned yet.
func ToDOT(w io.Writer, g *dagre.Graph) error {
	p := &printer{w: w, g: g}
	fmt.Fprint(p.w, "digraph {\n")

	lbl := g.GraphLabel()
	graphAttrs := map[string]string{
		"rankdir": lbl.RankDir,
	}
	if lbl.Width != 0 || lbl.Height != 0 {
		graphAttrs["bb"] = fmt.Sprintf("0,0,%s,%s", fnum(lbl.Width), fnum(lbl.Height))
	}
	p.writeAttrStmt("graph", graphAttrs)

	for _, top := range g.Children("") {
		if err := p.writeNodeOrSubgraph(top, 1); err != nil {
			return err
		}
	}
	for _, e := range g.Edges() {
		if err := p.writeEdge(e); err != nil {
			return err
		}
	}

	fmt.Fprint(p.w, "}\n")
	return p.err
}

type printer struct {
	w   io.Writer
	g   *dagre.Graph
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) writeAttrStmt(target string, attrs map[string]string) {
	keys := sortedKeysOf(attrs)
	if len(keys) == 0 {
		return
	}
	p.printf("\t%s [", target)
	for i, k := range keys {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s=%s", k, quoteIfNeeded(attrs[k]))
	}
	p.printf("]\n")
}

func (p *printer) writeNodeOrSubgraph(id string, depth int) error {
	indent := tabs(depth)
	children := p.g.Children(id)
	if len(children) > 0 {
		p.printf("%ssubgraph %s {\n", indent, dotID(id))
		for _, c := range children {
			if err := p.writeNodeOrSubgraph(c, depth+1); err != nil {
				return err
			}
		}
		p.printf("%s}\n", indent)
		return p.err
	}

	res := p.g.NodeResult(id)
	attrs := cloneMap(res.Attrs)
	attrs["pos"] = fmt.Sprintf("%s,%s", fnum(res.X), fnum(res.Y))
	attrs["width"] = fnum(res.Width)
	attrs["height"] = fnum(res.Height)
	attrs["rank"] = strconv.Itoa(res.Rank)

	p.printf("%s%s [", indent, dotID(id))
	keys := sortedKeysOf(attrs)
	for i, k := range keys {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s=%s", k, quoteIfNeeded(attrs[k]))
	}
	p.printf("]\n")
	return p.err
}

func (p *printer) writeEdge(id dagre.EdgeID) error {
	res := p.g.EdgeResult(id)
	attrs := cloneMap(res.Attrs)
	if len(res.Points) > 0 {
		pts := make([]string, len(res.Points))
		for i, pt := range res.Points {
			pts[i] = fmt.Sprintf("%s,%s", fnum(pt.X), fnum(pt.Y))
		}
		attrs["pos"] = joinComma(pts)
	}
	if res.X != 0 || res.Y != 0 {
		attrs["lp"] = fmt.Sprintf("%s,%s", fnum(res.X), fnum(res.Y))
	}

	p.printf("\t%s -> %s", dotID(id.V), dotID(id.W))
	keys := sortedKeysOf(attrs)
	if len(keys) > 0 {
		p.printf(" [")
		for i, k := range keys {
			if i > 0 {
				p.printf(", ")
			}
			p.printf("%s=%s", k, quoteIfNeeded(attrs[k]))
		}
		p.printf("]")
	}
	p.printf("\n")
	return p.err
}

func tabs(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '\t'
	}
	return string(out)
}

func fnum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sortedKeysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if m[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// isBareWord reports whether s can appear unquoted as a DOT identifier.
func isBareWord(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// dotID and quoteIfNeeded both render a string for DOT output, quoting it
// only when it isn't already a bare word; dotID exists as the separate
// name used at node/edge-endpoint call sites, matching DOT's own grammar
// distinction between an ID used as a node name and one used as an
// attribute value even though the quoting rule is identical.
func dotID(id string) string {
	return quoteIfNeeded(id)
}

func quoteIfNeeded(s string) string {
	if isBareWord(s) {
		return s
	}
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	out = append(out, '"')
	return string(out)
}
