package gfa

// Link is a bidirected overlap edge between two oriented vertices. If there
// is a link from (u,d1) to (v,d2), there is logically a mirror link from
// (v, flip(d2)) to (u, flip(d1)) carrying the same overlap: the reverse
// complement of the link. A link is palindromic when it is its own reverse
// complement, i.e. Start == End.Complement().
type Link struct {
	Start, End Vertex
	Overlap    int
}

// ReverseComplement returns the mirror link.
func (l Link) ReverseComplement() Link {
	return Link{Start: l.End.Complement(), End: l.Start.Complement(), Overlap: l.Overlap}
}

// Palindromic reports whether the link is its own reverse complement.
func (l Link) Palindromic() bool {
	return l.Start == l.End.Complement()
}

// LinkKind distinguishes the three GeneralizedLink alternatives.
type LinkKind int

const (
	// KindLink is a normal graph-backed overlap edge.
	KindLink LinkKind = iota
	// KindGap is an estimated gap jump with no backing edge.
	KindGap
	// KindAmbig is an unresolved small-bubble skip with no backing edge.
	KindAmbig
)

func (k LinkKind) String() string {
	switch k {
	case KindLink:
		return "LINK"
	case KindGap:
		return "GAP"
	case KindAmbig:
		return "AMBIG"
	default:
		return "?"
	}
}

// GeneralizedLink is a tagged union used inside Paths: a normal Link, a GAP
// with an estimated gap size, or an AMBIG skip over an unresolved bubble with
// an estimated gap size. Start and End are present for all three kinds.
type GeneralizedLink struct {
	Kind       LinkKind
	Start, End Vertex
	// Overlap holds the link overlap when Kind == KindLink.
	Overlap int
	// GapSize holds the estimated gap size when Kind == KindGap or KindAmbig.
	GapSize int
}

// FromLink builds a normal GeneralizedLink from a Link.
func FromLink(l Link) GeneralizedLink {
	return GeneralizedLink{Kind: KindLink, Start: l.Start, End: l.End, Overlap: l.Overlap}
}

// NewGap builds a GAP generalized link.
func NewGap(start, end Vertex, gapSize int) GeneralizedLink {
	return GeneralizedLink{Kind: KindGap, Start: start, End: end, GapSize: gapSize}
}

// NewAmbig builds an AMBIG generalized link.
func NewAmbig(start, end Vertex, gapSize int) GeneralizedLink {
	return GeneralizedLink{Kind: KindAmbig, Start: start, End: end, GapSize: gapSize}
}

// SignedOverlap reinterprets the link's displacement contribution as a
// signed integer: +overlap for a normal link, -gapSize for GAP/AMBIG.
func (g GeneralizedLink) SignedOverlap() int {
	if g.Kind == KindLink {
		return g.Overlap
	}
	return -g.GapSize
}

// ReverseComplement returns the mirror generalized link.
func (g GeneralizedLink) ReverseComplement() GeneralizedLink {
	out := g
	out.Start = g.End.Complement()
	out.End = g.Start.Complement()
	return out
}

// AsLink returns the underlying Link and true when Kind == KindLink.
func (g GeneralizedLink) AsLink() (Link, bool) {
	if g.Kind != KindLink {
		return Link{}, false
	}
	return Link{Start: g.Start, End: g.End, Overlap: g.Overlap}, true
}
