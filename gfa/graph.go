package gfa

import "github.com/dgryski/go-farm"

// Graph owns a dense, index-keyed vector of segments (index == segment id)
// plus, per segment id, the outgoing links whose start vertex orients
// forward and the incoming links whose end vertex orients forward. The
// reverse-strand adjacency of a segment is always derived on demand by
// reverse-complementing the opposite list; it is never stored directly.
type Graph struct {
	Segments []Segment
	outgoing [][]Link // outgoing[i]: start.Segment == i, start.Direction == Forward
	incoming [][]Link // incoming[i]: end.Segment == i, end.Direction == Forward
	name2id  map[string]int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{name2id: make(map[string]int)}
}

// SegmentCount returns the number of segments in the graph.
func (g *Graph) SegmentCount() int { return len(g.Segments) }

// AddSegment registers a new segment and returns its id. Panics on a
// duplicate name: the caller (the loader) is responsible for uniqueness.
func (g *Graph) AddSegment(s Segment) int {
	if _, ok := g.name2id[s.Name]; ok {
		panic("gfa: duplicate segment name " + s.Name)
	}
	id := len(g.Segments)
	g.Segments = append(g.Segments, s)
	g.outgoing = append(g.outgoing, nil)
	g.incoming = append(g.incoming, nil)
	g.name2id[s.Name] = id
	return id
}

// IDByName looks a segment up by its textual name.
func (g *Graph) IDByName(name string) (int, bool) {
	id, ok := g.name2id[name]
	return id, ok
}

// VertexLength returns the length of the segment a vertex names.
func (g *Graph) VertexLength(v Vertex) int {
	return g.Segments[v.Segment].Length
}

// VertexString renders a vertex as "<name><+|->".
func (g *Graph) VertexString(v Vertex) string {
	return g.Segments[v.Segment].Name + v.Direction.String()
}

// AddLink inserts a link, canonicalizing storage independently by its two
// endpoints: whichever of l, rc(l) has a Forward-oriented Start is pushed to
// outgoing[start.Segment]; whichever has a Forward-oriented End is pushed to
// incoming[end.Segment]. A palindromic link (l == rc(l)) is pushed only
// once, since the two pushes would otherwise duplicate it.
func (g *Graph) AddLink(l Link) {
	if l.Start.Direction == Forward {
		g.outgoing[l.Start.Segment] = append(g.outgoing[l.Start.Segment], l)
	} else {
		rc := l.ReverseComplement()
		g.incoming[rc.End.Segment] = append(g.incoming[rc.End.Segment], rc)
	}
	if l.Palindromic() {
		return
	}
	if l.End.Direction == Forward {
		g.incoming[l.End.Segment] = append(g.incoming[l.End.Segment], l)
	} else {
		rc := l.ReverseComplement()
		g.outgoing[rc.Start.Segment] = append(g.outgoing[rc.Start.Segment], rc)
	}
}

// OutgoingEdges returns the links leaving v, in either strand.
func (g *Graph) OutgoingEdges(v Vertex) []Link {
	if v.Direction == Forward {
		return append([]Link(nil), g.outgoing[v.Segment]...)
	}
	out := make([]Link, 0, len(g.incoming[v.Segment]))
	for _, l := range g.incoming[v.Segment] {
		out = append(out, l.ReverseComplement())
	}
	return out
}

// IncomingEdges returns the links entering v, in either strand.
func (g *Graph) IncomingEdges(v Vertex) []Link {
	if v.Direction == Forward {
		return append([]Link(nil), g.incoming[v.Segment]...)
	}
	out := make([]Link, 0, len(g.outgoing[v.Segment]))
	for _, l := range g.outgoing[v.Segment] {
		out = append(out, l.ReverseComplement())
	}
	return out
}

// OutgoingEdgeCount is the degree-respecting count of OutgoingEdges(v).
func (g *Graph) OutgoingEdgeCount(v Vertex) int {
	if v.Direction == Forward {
		return len(g.outgoing[v.Segment])
	}
	return len(g.incoming[v.Segment])
}

// IncomingEdgeCount is the degree-respecting count of IncomingEdges(v).
func (g *Graph) IncomingEdgeCount(v Vertex) int {
	if v.Direction == Forward {
		return len(g.incoming[v.Segment])
	}
	return len(g.outgoing[v.Segment])
}

// Connector returns the first link from v to w, if any. The graph permits
// parallel edges; callers that care about uniqueness must deduplicate
// themselves.
func (g *Graph) Connector(v, w Vertex) (Link, bool) {
	for _, l := range g.OutgoingEdges(v) {
		if l.End == w {
			return l, true
		}
	}
	return Link{}, false
}

// AllVertices yields both oriented vertices of every segment.
func (g *Graph) AllVertices() []Vertex {
	out := make([]Vertex, 0, 2*len(g.Segments))
	for i := range g.Segments {
		out = append(out, Vertex{Segment: i, Direction: Forward})
		out = append(out, Vertex{Segment: i, Direction: Reverse})
	}
	return out
}

// AllLinks visits each physical edge exactly once, regardless of palindromy,
// by walking both canonical lists per segment in turn and keeping only the
// entry that wins a Start-vs-End tie-break: from incoming[i], a link is kept
// when End < Start; from outgoing[i], a link is kept when Start <= End. A
// non-palindromic edge is stored twice by AddLink (once at each endpoint's
// segment, as l or as rc(l)), and exactly one of those two stored copies
// passes its check; a palindromic edge is stored once and passes; a
// self-loop at a single oriented vertex (Start == End) is kept only via
// the outgoing, inclusive check.
func (g *Graph) AllLinks() []Link {
	var out []Link
	for i := range g.Segments {
		for _, l := range g.incoming[i] {
			if l.End.Less(l.Start) {
				out = append(out, l)
			}
		}
		for _, l := range g.outgoing[i] {
			if l.Start.LessEqual(l.End) {
				out = append(out, l)
			}
		}
	}
	return out
}

// Fingerprint is a stable content hash over segment names/lengths and the
// canonical link set, used for load diagnostics and as a cheap round-trip
// oracle in tests.
func (g *Graph) Fingerprint() uint64 {
	var h uint64
	for i, s := range g.Segments {
		h = farm.Hash64WithSeed([]byte(s.Name), h)
		h = farm.Hash64WithSeed(encodeInts(i, s.Length), h)
	}
	for _, l := range g.AllLinks() {
		h = farm.Hash64WithSeed(encodeInts(l.Start.Segment, int(b2i(l.Start.Direction)),
			l.End.Segment, int(b2i(l.End.Direction)), l.Overlap), h)
	}
	return h
}

func b2i(d Direction) uint8 {
	if d == Reverse {
		return 1
	}
	return 0
}

func encodeInts(vs ...int) []byte {
	buf := make([]byte, 8*len(vs))
	for i, v := range vs {
		u := uint64(v)
		for j := 0; j < 8; j++ {
			buf[8*i+j] = byte(u >> (8 * j))
		}
	}
	return buf
}
