package gfa

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, s string) *Graph {
	t.Helper()
	g, err := Load(strings.NewReader(s))
	require.NoError(t, err)
	return g
}

func TestOneNode(t *testing.T) {
	g := mustLoad(t, "S\ta\t*\tLN:i:100")
	assert.Equal(t, 1, g.SegmentCount())
	assert.Len(t, g.AllLinks(), 0)
	assert.Equal(t, "a", g.Segments[0].Name)
	assert.Equal(t, 100, g.Segments[0].Length)
}

func TestLoop1(t *testing.T) {
	g := mustLoad(t, "S\ta\t*\tLN:i:100\nL\ta\t+\ta\t+\t10M\n")
	assert.Equal(t, 1, g.SegmentCount())
	links := g.AllLinks()
	require.Len(t, links, 1)
	assert.Equal(t, 10, links[0].Overlap)
	assert.Equal(t, Forward, links[0].Start.Direction)
	assert.Equal(t, Forward, links[0].End.Direction)
}

func TestNontrivialCigarRejected(t *testing.T) {
	_, err := Load(strings.NewReader("S\ta\t*\tLN:i:100\nL\ta\t+\ta\t+\t1D10M1I\n"))
	assert.Error(t, err)
}

func TestLoop2(t *testing.T) {
	g := mustLoad(t, "S\ta\t*\tLN:i:100\nL\ta\t-\ta\t-\t10M\n")
	links := g.AllLinks()
	require.Len(t, links, 1)
	l := links[0]
	assert.Equal(t, "a+->a+", g.VertexString(l.Start)+"->"+g.VertexString(l.End))
	assert.Equal(t, Forward, l.Start.Direction)
	assert.Equal(t, Forward, l.End.Direction)
}

func TestSelfConj1(t *testing.T) {
	g := mustLoad(t, "S\ta\t*\tLN:i:100\nL\ta\t+\ta\t-\t10M\n")
	links := g.AllLinks()
	require.Len(t, links, 1)
	l := links[0]
	assert.Equal(t, "a+->a-", g.VertexString(l.Start)+"->"+g.VertexString(l.End))
	assert.Equal(t, Forward, l.Start.Direction)
	assert.Equal(t, Reverse, l.End.Direction)
	assert.True(t, l.Palindromic())
}

func TestSelfConj2(t *testing.T) {
	g := mustLoad(t, "S\ta\t*\tLN:i:100\nL\ta\t-\ta\t+\t10M\n")
	links := g.AllLinks()
	require.Len(t, links, 1)
	l := links[0]
	assert.Equal(t, "a-->a+", g.VertexString(l.Start)+"->"+g.VertexString(l.End))
	assert.Equal(t, Reverse, l.Start.Direction)
	assert.Equal(t, Forward, l.End.Direction)
}

func TestTwoNodes(t *testing.T) {
	g := mustLoad(t, "S\ta\t*\tLN:i:100\nS\tb\t*\tLN:i:200\n")
	assert.Equal(t, 2, g.SegmentCount())
	assert.Len(t, g.AllLinks(), 0)
}

func TestOneLink(t *testing.T) {
	g := mustLoad(t, "S\ta\t*\tLN:i:100\nS\tb\t*\tLN:i:200\nL\ta\t+\tb\t+\t10M\n")
	assert.Equal(t, 2, g.SegmentCount())
	assert.Len(t, g.AllLinks(), 1)
}

func TestRoundTrip(t *testing.T) {
	src := "S\ta\t*\tLN:i:100\tRC:i:1000\nS\tb\t*\tLN:i:200\tRC:i:4000\nL\ta\t+\tb\t+\t10M\n"
	g := mustLoad(t, src)
	var buf bytes.Buffer
	require.NoError(t, Serialize(g, &buf))
	g2, err := Load(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, g.SegmentCount(), g2.SegmentCount())
	assert.Equal(t, g.Fingerprint(), g2.Fingerprint())
}

func TestLinkReverseComplementSymmetry(t *testing.T) {
	g := mustLoad(t, "S\ta\t*\tLN:i:100\nS\tb\t*\tLN:i:200\nL\ta\t+\tb\t-\t10M\n")
	for _, l := range g.AllLinks() {
		if l.Palindromic() {
			continue
		}
		rc := l.ReverseComplement()
		found := false
		for _, out := range g.OutgoingEdges(rc.Start) {
			if out == rc {
				found = true
			}
		}
		assert.True(t, found, "reverse complement of %+v not found among outgoing edges of %+v", l, rc.Start)
	}
}

func TestSanitizeClampsOverlap(t *testing.T) {
	src := "S\ta\t*\tLN:i:10\nS\tb\t*\tLN:i:10\nL\ta\t+\tb\t+\t10M\n"
	g, err := LoadSanitize(strings.NewReader(src))
	require.NoError(t, err)
	links := g.AllLinks()
	require.Len(t, links, 1)
	assert.Equal(t, 9, links[0].Overlap)
}

func TestStrictModeRejectsTooLongOverlap(t *testing.T) {
	src := "S\ta\t*\tLN:i:10\nS\tb\t*\tLN:i:10\nL\ta\t+\tb\t+\t10M\n"
	_, err := Load(strings.NewReader(src))
	assert.Error(t, err)
}

func TestSanitizeCollapsesDuplicateLinks(t *testing.T) {
	src := "S\ta\t*\tLN:i:100\nS\tb\t*\tLN:i:100\nL\ta\t+\tb\t+\t10M\nL\ta\t+\tb\t+\t10M\n"
	g, err := LoadSanitize(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, g.AllLinks(), 1)
}
