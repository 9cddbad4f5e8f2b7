// Command dagrelayout reads a DOT graph and writes it back out with every
// node and edge positioned, in the same spirit as teleivo-dot's dotfmt: a
// small stdin/stdout filter wired to flags rather than a config file.
package main

import (
	"fmt"
	"io"
	"os"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"github.com/spf13/pflag"

	"github.com/dagrelayout/dagrelayout/dagre"
	"github.com/dagrelayout/dagrelayout/internal/dotconv"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "dagrelayout: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, r io.Reader, w io.Writer, wErr io.Writer) error {
	flags := pflag.NewFlagSet("dagrelayout", pflag.ContinueOnError)
	flags.SetOutput(wErr)

	rankDir := flags.String("rankdir", "", "override rankdir (TB, BT, LR, RL); empty keeps the input graph's own setting")
	ranker := flags.String("ranker", "", "override ranker (network-simplex, tight-tree, longest-path)")
	acyclicer := flags.String("acyclicer", "", "override acyclicer (greedy, none)")
	nodeSep := flags.Float64("nodesep", 0, "override nodesep (0 keeps the input graph's own setting)")
	edgeSep := flags.Float64("edgesep", 0, "override edgesep")
	rankSep := flags.Float64("ranksep", 0, "override ranksep")
	margin := flags.Float64("margin", 0, "override marginx and marginy")
	debugTiming := flags.Bool("debug-timing", false, "log per-stage wall-clock duration to stderr")
	inPath := flags.String("in", "-", "input DOT file, or - for stdin")
	outPath := flags.String("out", "-", "output DOT file, or - for stdout")

	if err := flags.Parse(args); err != nil {
		return err
	}

	in := r
	if *inPath != "-" {
		f, err := os.Open(*inPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	g, err := dotconv.FromDOT(in)
	if err != nil {
		return fmt.Errorf("parsing DOT: %w", err)
	}

	applyOverrides(g, *rankDir, *ranker, *acyclicer, *nodeSep, *edgeSep, *rankSep, *margin)

	var opts dagre.LayoutOptions
	if *debugTiming {
		logger := slog.Make(sloghuman.Sink(wErr))
		opts.DebugTiming = &logger
	}

	if err := dagre.Layout(g, opts); err != nil {
		return fmt.Errorf("laying out graph: %w", err)
	}

	out := w
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := dotconv.ToDOT(out, g); err != nil {
		return fmt.Errorf("writing DOT: %w", err)
	}
	return nil
}

// applyOverrides layers any non-zero flag value over the graph's own
// attributes. Flags that were never set stay at their zero value and so
// never shadow what FromDOT already parsed out of the source graph.
func applyOverrides(g *dagre.Graph, rankDir, ranker, acyclicer string, nodeSep, edgeSep, rankSep, margin float64) {
	lbl := g.GraphLabel()
	attrs := dagre.InputGraphAttrs{
		RankDir:   lbl.RankDir,
		NodeSep:   lbl.NodeSep,
		EdgeSep:   lbl.EdgeSep,
		RankSep:   lbl.RankSep,
		MarginX:   lbl.MarginX,
		MarginY:   lbl.MarginY,
		Ranker:    lbl.Ranker,
		Acyclicer: lbl.Acyclicer,
		Align:     lbl.Align,
	}
	if rankDir != "" {
		attrs.RankDir = rankDir
	}
	if ranker != "" {
		attrs.Ranker = ranker
	}
	if acyclicer != "" {
		attrs.Acyclicer = acyclicer
	}
	if nodeSep != 0 {
		attrs.NodeSep = nodeSep
	}
	if edgeSep != 0 {
		attrs.EdgeSep = edgeSep
	}
	if rankSep != 0 {
		attrs.RankSep = rankSep
	}
	if margin != 0 {
		attrs.MarginX, attrs.MarginY = margin, margin
	}
	g.SetGraphAttrs(attrs)
}
