package gfa

// Path is a simple, non-empty, ordered walk through oriented vertices: no
// segment id appears twice. It is built by construction at a single vertex
// or from a single link, and grown only by appending a generalized link
// whose start equals the current end.
type Path struct {
	vertices []Vertex
	links    []GeneralizedLink
}

// NewPath starts a one-vertex path.
func NewPath(v Vertex) *Path {
	return &Path{vertices: []Vertex{v}}
}

// PathFromLink starts a two-vertex path from a single link.
func PathFromLink(l Link) *Path {
	return PathFromGeneralLink(FromLink(l))
}

// PathFromGeneralLink starts a two-vertex path from a single generalized
// link. Panics if the link is a self-loop on one segment: paths are simple.
func PathFromGeneralLink(l GeneralizedLink) *Path {
	if l.Start.Segment == l.End.Segment {
		panic("gfa: path cannot start with a self-loop link")
	}
	return &Path{vertices: []Vertex{l.Start, l.End}, links: []GeneralizedLink{l}}
}

// Vertices returns the path's oriented vertex sequence.
func (p *Path) Vertices() []Vertex { return p.vertices }

// Links returns the path's generalized-link sequence, one shorter than
// Vertices.
func (p *Path) Links() []GeneralizedLink { return p.links }

// Start returns the first vertex.
func (p *Path) Start() Vertex { return p.vertices[0] }

// End returns the last vertex.
func (p *Path) End() Vertex { return p.vertices[len(p.vertices)-1] }

// Len returns the number of vertices.
func (p *Path) Len() int { return len(p.vertices) }

// Clone returns an independent copy.
func (p *Path) Clone() *Path {
	return &Path{
		vertices: append([]Vertex(nil), p.vertices...),
		links:    append([]GeneralizedLink(nil), p.links...),
	}
}

// ReverseComplement returns a new path traversing the same segments in the
// opposite direction.
func (p *Path) ReverseComplement() *Path {
	n := len(p.vertices)
	out := &Path{
		vertices: make([]Vertex, n),
		links:    make([]GeneralizedLink, len(p.links)),
	}
	for i, v := range p.vertices {
		out.vertices[n-1-i] = v.Complement()
	}
	for i, l := range p.links {
		out.links[len(p.links)-1-i] = l.ReverseComplement()
	}
	return out
}

// InPath reports whether segment is visited by the path.
func (p *Path) InPath(segment int) bool {
	for _, v := range p.vertices {
		if v.Segment == segment {
			return true
		}
	}
	return false
}

// Trim drops the last step segments off the path.
func (p *Path) Trim(step int) {
	if step >= len(p.vertices) {
		panic("gfa: Trim step must be less than path length")
	}
	p.vertices = p.vertices[:len(p.vertices)-step]
	if step <= len(p.links) {
		p.links = p.links[:len(p.links)-step]
	} else {
		p.links = nil
	}
}

// TrimTo drops trailing steps until v is the last vertex. Reports false,
// leaving the path untouched, if v is not on the path.
func (p *Path) TrimTo(v Vertex) bool {
	idx := -1
	for i, pv := range p.vertices {
		if pv == v {
			idx = i
		}
	}
	if idx < 0 {
		return false
	}
	p.vertices = p.vertices[:idx+1]
	if idx <= len(p.links) {
		p.links = p.links[:idx]
	}
	return true
}

// AppendGeneral extends the path by one generalized link, whose Start must
// equal the current End.
func (p *Path) AppendGeneral(l GeneralizedLink) {
	if p.End() != l.Start {
		panic("gfa: AppendGeneral link does not continue the path")
	}
	p.vertices = append(p.vertices, l.End)
	p.links = append(p.links, l)
}

// Append extends the path by one graph link.
func (p *Path) Append(l Link) {
	p.AppendGeneral(FromLink(l))
}

// Extend appends another path's links in order. The other path's first
// vertex must equal this path's End. Does not support forming a loop.
func (p *Path) Extend(other *Path) {
	if p.End() != other.Start() {
		panic("gfa: Extend requires a shared endpoint")
	}
	for _, l := range other.links {
		p.AppendGeneral(l)
	}
}

// CanMergeIn reports whether merging other in (see MergeIn) would keep the
// path simple.
func (p *Path) CanMergeIn(other *Path) bool {
	if p.End() != other.Start() {
		panic("gfa: CanMergeIn requires a shared endpoint")
	}
	for _, l := range other.links {
		if p.InPath(l.End.Segment) {
			return false
		}
	}
	return true
}

// MergeIn extends the path by other's links, panicking if that would
// revisit a segment.
func (p *Path) MergeIn(other *Path) {
	if !p.CanMergeIn(other) {
		panic("gfa: MergeIn would revisit a segment")
	}
	for _, l := range other.links {
		p.AppendGeneral(l)
	}
}

// Print renders the path using the graph's segment names, default format.
func (p *Path) Print(g *Graph) string {
	return p.PrintFormat(g, false)
}

// PrintFormat renders the path either in the default "name<+|->,..." comma
// format with inline "AMBIG"/"GAP" tokens, or in a GAF-like
// "[<>]name[<>]name..." format with ">AMBIG"/">GAP" tokens.
func (p *Path) PrintFormat(g *Graph, gaf bool) string {
	delim := ","
	if gaf {
		delim = ""
	}
	var out string
	for i, v := range p.vertices {
		if i > 0 {
			switch p.links[i-1].Kind {
			case KindAmbig:
				if gaf {
					out += ">AMBIG"
				} else {
					out += ",AMBIG"
				}
			case KindGap:
				if gaf {
					out += ">GAP"
				} else {
					out += ",GAP"
				}
			}
			out += delim
		}
		if gaf {
			out += v.Direction.GafString() + g.Segments[v.Segment].Name
		} else {
			out += g.Segments[v.Segment].Name + v.Direction.String()
		}
	}
	return out
}

// TotalLength sums segment lengths along the path minus each link's signed
// overlap contribution.
func (p *Path) TotalLength(g *Graph) int {
	total := g.VertexLength(p.vertices[0])
	for _, l := range p.links {
		total += g.VertexLength(l.End) - l.SignedOverlap()
	}
	return total
}

// CheckSubpath reports whether other occurs as a contiguous subpath of p
// starting at startPos.
func (p *Path) CheckSubpath(other *Path, startPos int) bool {
	if p.Len() < startPos+other.Len() {
		return false
	}
	if other.Len() == 1 {
		return p.vertices[startPos] == other.Start()
	}
	for i, l := range other.links {
		if p.links[startPos+i] != l {
			return false
		}
	}
	return true
}

// CheckSubpathRC reports whether the reverse complement of other occurs as
// a contiguous subpath of p ending at startPos.
func (p *Path) CheckSubpathRC(other *Path, startPos int) bool {
	if startPos < other.Len()-1 {
		return false
	}
	return p.CheckSubpath(other.ReverseComplement(), startPos-(other.Len()-1))
}
