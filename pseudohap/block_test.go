package pseudohap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/haplograph/gfa"
	"github.com/grailbio/haplograph/graphalgo"
)

func loadGraph(t *testing.T, s string) *gfa.Graph {
	t.Helper()
	g, err := gfa.Load(strings.NewReader(s))
	require.NoError(t, err)
	return g
}

func fwd(g *gfa.Graph, name string) gfa.Vertex {
	id, _ := g.IDByName(name)
	return gfa.Vertex{Segment: id, Direction: gfa.Forward}
}

func TestFromBubbleRecordsOtherPathAsKnownAlt(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tc\t*\tLN:i:50",
		"S\td\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\td\t+\t50M",
		"L\tc\t+\td\t+\t25M",
		"",
	}, "\n"))
	sb, ok := graphalgo.FindSuperbubble(g, fwd(g, "a"), graphalgo.UnrestrictedParams())
	require.True(t, ok)
	block := fromBubble(g, sb)
	// b is 100 long, so the longest path goes through b; c becomes the
	// known alternate.
	assert.Equal(t, []gfa.Vertex{fwd(g, "a"), fwd(g, "b"), fwd(g, "d")}, block.Path().Vertices())
	assert.True(t, block.HasKnownAlt(fwd(g, "c").Segment))
	assert.False(t, block.HasKnownAlt(fwd(g, "b").Segment))
}

func TestBlockMergeInUnionsKnownAlts(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tx\t*\tLN:i:100",
		"S\ty\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"",
	}, "\n"))
	first := FromPath(gfa.NewPath(fwd(g, "a")), fwd(g, "x"))
	second := FromPath(gfa.PathFromLink(mustLink(t, g, "a", "b")), fwd(g, "y"))
	require.True(t, first.CanMergeIn(second))
	first.MergeIn(second)
	assert.Equal(t, []gfa.Vertex{fwd(g, "a"), fwd(g, "b")}, first.Path().Vertices())
	assert.True(t, first.HasKnownAlt(fwd(g, "x").Segment))
	assert.True(t, first.HasKnownAlt(fwd(g, "y").Segment))
}

func TestBlockCanMergeInRejectsKnownAltCollision(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tc\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\tb\t+\tc\t+\t50M",
		"",
	}, "\n"))
	first := FromPath(gfa.PathFromLink(mustLink(t, g, "a", "b")), fwd(g, "c"))
	second := FromPath(gfa.PathFromLink(mustLink(t, g, "b", "c")))
	assert.False(t, first.CanMergeIn(second))
}

func mustLink(t *testing.T, g *gfa.Graph, from, to string) gfa.Link {
	t.Helper()
	for _, l := range g.OutgoingEdges(fwd(g, from)) {
		if l.End.Segment == fwd(g, to).Segment {
			return l
		}
	}
	t.Fatalf("no link %s->%s", from, to)
	return gfa.Link{}
}
