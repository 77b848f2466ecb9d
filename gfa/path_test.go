package gfa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSimpleBubble(t *testing.T) *Graph {
	t.Helper()
	src := strings.Join([]string{
		"S\ta\t*\tLN:i:100",
		"S\tb\t*\tLN:i:100",
		"S\tc\t*\tLN:i:100",
		"S\td\t*\tLN:i:100",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\tc\t+\t50M",
		"L\tb\t+\td\t+\t50M",
		"L\tc\t+\td\t+\t50M",
		"",
	}, "\n")
	g, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	return g
}

func vtx(g *Graph, name string, d Direction) Vertex {
	id, _ := g.IDByName(name)
	return Vertex{Segment: id, Direction: d}
}

func TestPathTotalLength(t *testing.T) {
	g := buildSimpleBubble(t)
	a, b, d := vtx(g, "a", Forward), vtx(g, "b", Forward), vtx(g, "d", Forward)
	lab, _ := g.Connector(a, b)
	lbd, _ := g.Connector(b, d)
	p := PathFromLink(lab)
	p.Append(lbd)
	// 100 + (100-50) + (100-50) = 200
	assert.Equal(t, 200, p.TotalLength(g))
}

func TestPathReverseComplementInvolution(t *testing.T) {
	g := buildSimpleBubble(t)
	a, b, d := vtx(g, "a", Forward), vtx(g, "b", Forward), vtx(g, "d", Forward)
	lab, _ := g.Connector(a, b)
	lbd, _ := g.Connector(b, d)
	p := PathFromLink(lab)
	p.Append(lbd)
	rc := p.ReverseComplement()
	rc2 := rc.ReverseComplement()
	assert.Equal(t, p.Vertices(), rc2.Vertices())
	assert.Equal(t, p.Links(), rc2.Links())
}

func TestPathSimplicityRejectsSelfLoopStart(t *testing.T) {
	defer func() {
		assert.NotNil(t, recover())
	}()
	PathFromLink(Link{Start: Vertex{Segment: 0, Direction: Forward}, End: Vertex{Segment: 0, Direction: Forward}, Overlap: 1})
}

func TestPathPrintFormatWithAmbigAndGap(t *testing.T) {
	g := buildSimpleBubble(t)
	a, d := vtx(g, "a", Forward), vtx(g, "d", Forward)
	p := NewPath(a)
	p.AppendGeneral(NewAmbig(a, d, 5))
	assert.Equal(t, "a+,AMBIG,d+", p.Print(g))
	assert.Equal(t, ">a>AMBIG>d", p.PrintFormat(g, true))
}
