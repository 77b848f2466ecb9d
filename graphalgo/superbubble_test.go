package graphalgo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/haplograph/gfa"
)

func TestFindSuperbubbleSimple(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tc\t*\tLN:i:100",
		"S\td\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\td\t+\t50M",
		"L\tc\t+\td\t+\t50M",
		"",
	}, "\n"))
	b, ok := FindSuperbubble(g, fwd(g, "a"), UnrestrictedParams())
	require.True(t, ok)
	assert.Equal(t, fwd(g, "d"), b.EndVertex())
	min, max := b.LengthRange()
	assert.Equal(t, 200, min)
	assert.Equal(t, 200, max)
}

func TestFindSuperbubbleMultiLink(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:50",
		"S\tc\t*\tLN:i:100",
		"S\td\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\td\t+\t25M",
		"L\tc\t+\td\t+\t50M",
		"",
	}, "\n"))
	b, ok := FindSuperbubble(g, fwd(g, "a"), UnrestrictedParams())
	require.True(t, ok)
	min, max := b.LengthRange()
	// via b: 100 + (50-50) + (100-25) = 175; via c: 100 + (100-50) + (100-50) = 200
	assert.Equal(t, 175, min)
	assert.Equal(t, 200, max)
}

func TestFindSuperbubbleDeadEndFails(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tc\t*\tLN:i:100",
		"S\td\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\td\t+\t50M",
		"",
	}, "\n"))
	_, ok := FindSuperbubble(g, fwd(g, "a"), UnrestrictedParams())
	assert.False(t, ok)
}

func TestFindSuperbubbleLoopToStartFails(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tc\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\ta\t+\t50M",
		"L\tc\t+\ta\t+\t50M",
		"",
	}, "\n"))
	_, ok := FindSuperbubble(g, fwd(g, "a"), UnrestrictedParams())
	assert.False(t, ok, "a bubble looping back onto its own start is unsupported")
}

func TestFindSuperbubbleReverseDirection(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tc\t*\tLN:i:100",
		"S\td\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\td\t+\t50M",
		"L\tc\t+\td\t+\t50M",
		"",
	}, "\n"))
	rv := gfa.Vertex{Segment: mustID(t, g, "d"), Direction: gfa.Reverse}
	b, ok := FindSuperbubble(g, rv, UnrestrictedParams())
	require.True(t, ok)
	assert.Equal(t, gfa.Vertex{Segment: mustID(t, g, "a"), Direction: gfa.Reverse}, b.EndVertex())
	min, max := b.LengthRange()
	assert.Equal(t, 200, min)
	assert.Equal(t, 200, max)
}

func buildTripleBubble(t *testing.T) *gfa.Graph {
	t.Helper()
	return loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tc\t*\tLN:i:100",
		"S\td\t*\tLN:i:100",
		"S\te\t*\tLN:i:100",
		"S\tf\t*\tLN:i:100",
		"S\tg\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\td\t+\t50M",
		"L\tc\t+\td\t+\t50M",
		"L\td\t+\te\t+\t50M",
		"L\td\t+\tf\t+\t50M",
		"L\te\t+\tg\t+\t50M",
		"L\tf\t+\tg\t+\t50M",
		"",
	}, "\n"))
}

func TestFindChainAheadTripleBubble(t *testing.T) {
	g := buildTripleBubble(t)
	chain := FindChainAhead(g, fwd(g, "a"), UnrestrictedParams())
	require.Len(t, chain, 2)
	assert.Equal(t, fwd(g, "d"), chain[0].EndVertex())
	assert.Equal(t, fwd(g, "g"), chain[1].EndVertex())
	min, max := ChainLengthRange(chain, g)
	assert.Equal(t, 300, min)
	assert.Equal(t, 300, max)
}

func TestFindMaximalChainFromMiddleVertex(t *testing.T) {
	g := buildTripleBubble(t)
	chain := FindMaximalChain(g, fwd(g, "d"), UnrestrictedParams())
	require.Len(t, chain, 2)
	assert.Equal(t, fwd(g, "a"), chain[0].StartVertex())
	assert.Equal(t, fwd(g, "d"), chain[0].EndVertex())
	assert.Equal(t, fwd(g, "d"), chain[1].StartVertex())
	assert.Equal(t, fwd(g, "g"), chain[1].EndVertex())
	min, max := ChainLengthRange(chain, g)
	assert.Equal(t, 300, min)
	assert.Equal(t, 300, max)
}

func buildChainLoop(t *testing.T) *gfa.Graph {
	t.Helper()
	return loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tc\t*\tLN:i:100",
		"S\td\t*\tLN:i:100",
		"S\te\t*\tLN:i:100",
		"S\tf\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\td\t+\t50M",
		"L\tc\t+\td\t+\t50M",
		"L\td\t+\te\t+\t50M",
		"L\td\t+\tf\t+\t50M",
		"L\te\t+\ta\t+\t50M", // closes the loop back onto a
		"L\tf\t+\ta\t+\t50M",
		"",
	}, "\n"))
}

func TestFindChainAheadClosesLoop(t *testing.T) {
	g := buildChainLoop(t)
	chain := FindChainAhead(g, fwd(g, "a"), UnrestrictedParams())
	require.Len(t, chain, 2)
	assert.Equal(t, fwd(g, "d"), chain[0].EndVertex())
	assert.Equal(t, fwd(g, "a"), chain[1].EndVertex())
}

func TestFindMaximalChainClosesLoopFromMiddle(t *testing.T) {
	g := buildChainLoop(t)
	chain := FindMaximalChain(g, fwd(g, "d"), UnrestrictedParams())
	require.Len(t, chain, 2)
	min, max := ChainLengthRange(chain, g)
	assert.Equal(t, 300, min)
	assert.Equal(t, 300, max)
}

func TestSuperbubbleLongestShortestPath(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:50",
		"S\tc\t*\tLN:i:100",
		"S\td\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\td\t+\t25M",
		"L\tc\t+\td\t+\t50M",
		"",
	}, "\n"))
	b, ok := FindSuperbubble(g, fwd(g, "a"), UnrestrictedParams())
	require.True(t, ok)
	longest := b.LongestPath()
	assert.Equal(t, []gfa.Vertex{fwd(g, "a"), fwd(g, "c"), fwd(g, "d")}, longest.Vertices())
	shortest := b.ShortestPath()
	assert.Equal(t, []gfa.Vertex{fwd(g, "a"), fwd(g, "b"), fwd(g, "d")}, shortest.Vertices())
}
