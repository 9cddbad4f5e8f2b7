package dagre

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeResultRoundTripsAttrsAndPosition(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNodeAttrs("a", InputNodeAttrs{Width: 10, Height: 10, Attrs: map[string]string{"shape": "box"}})

	require.NoError(t, Layout(g, LayoutOptions{}))

	res := g.NodeResult("a")
	assert.Equal(t, "box", res.Attrs["shape"])
	assert.Equal(t, 0, res.Rank)
	assert.Equal(t, 10.0, res.Width)
}

func TestNodeResultUnrankedCompoundParent(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNodeAttrs("p", InputNodeAttrs{})
	g.SetNodeAttrs("a", InputNodeAttrs{Width: 10, Height: 10})
	g.SetParent("a", "p")

	require.NoError(t, Layout(g, LayoutOptions{}))

	assert.GreaterOrEqual(t, g.NodeResult("a").Rank, 0)
}

func TestEdgeResultMissingEdgeIsZeroValue(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	assert.Equal(t, EdgeResult{}, g.EdgeResult(EdgeID{V: "x", W: "y"}))
}

// A routed edge's Points describe a polyline, where the sequence matters
// as much as the values -- the test checks that the first point lies above
// the last, so a polyline emitted in reverse order fails.
func TestEdgeResultRoutesThroughIntermediateRank(t *testing.T) {
	t.Parallel()
	g := newTestGraph()
	g.SetNodeAttrs("a", InputNodeAttrs{Width: 10, Height: 10})
	g.SetNodeAttrs("b", InputNodeAttrs{Width: 10, Height: 10})
	g.SetNodeAttrs("c", InputNodeAttrs{Width: 10, Height: 10})
	g.SetEdgeAttrs(EdgeID{V: "a", W: "b"}, InputEdgeAttrs{})
	g.SetEdgeAttrs(EdgeID{V: "b", W: "c"}, InputEdgeAttrs{})
	g.SetEdgeAttrs(EdgeID{V: "a", W: "c"}, InputEdgeAttrs{})

	require.NoError(t, Layout(g, LayoutOptions{}))

	res := g.EdgeResult(EdgeID{V: "a", W: "c"})
	if len(res.Points) < 3 {
		t.Fatalf("expected a-c to route through at least one dummy, got %d points", len(res.Points))
	}
	first, last := res.Points[0], res.Points[len(res.Points)-1]
	if diff := cmp.Diff(first.Y < last.Y, true); diff != "" {
		t.Errorf("expected points to run top to bottom (mismatch: %s)", diff)
	}
}
