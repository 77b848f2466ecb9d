// Package pseudohap implements pseudo-haplotype decomposition: stitching
// long unique segments and superbubble chains into linear primary blocks
// with associated known-alternate sequences, for use when parental
// markers are unavailable. See spec §4.G.
package pseudohap

import (
	"github.com/grailbio/haplograph/gfa"
	"github.com/grailbio/haplograph/graphalgo"
)

// Block is a Path plus the set of "known alternate" segment ids: segments
// that are part of a bubble the block traverses but lie on a path that was
// not chosen as the instance path.
type Block struct {
	path     *gfa.Path
	knownAlt map[int]bool
}

// NewVertexBlock creates a single-vertex block with no known alternates.
func NewVertexBlock(v gfa.Vertex) *Block {
	return &Block{path: gfa.NewPath(v), knownAlt: map[int]bool{}}
}

// FromPath builds a block from an instance path and an explicit iterator
// of additional known-alternate vertices.
func FromPath(path *gfa.Path, alts ...gfa.Vertex) *Block {
	b := &Block{path: path, knownAlt: map[int]bool{}}
	for _, v := range alts {
		b.knownAlt[v.Segment] = true
	}
	return b
}

// fromBubble builds a block from a single superbubble: its instance path is
// the longest start-to-end path, and every other bubble vertex becomes a
// known alternate.
func fromBubble(g *gfa.Graph, b *graphalgo.Superbubble) *Block {
	p := b.LongestPath()
	alt := map[int]bool{}
	for _, v := range b.Vertices() {
		alt[v.Segment] = true
	}
	for _, v := range p.Vertices() {
		delete(alt, v.Segment)
	}
	return &Block{path: p, knownAlt: alt}
}

// fromBubbleChain fuses a chain of superbubbles end to end into a single
// block, starting at the chain's first entrance.
func fromBubbleChain(g *gfa.Graph, chain graphalgo.BubbleChain) *Block {
	if len(chain) == 0 {
		panic("pseudohap: fromBubbleChain requires a nonempty chain")
	}
	block := NewVertexBlock(chain[0].StartVertex())
	for _, b := range chain {
		bb := fromBubble(g, b)
		if !block.CanMergeIn(bb) {
			panic("pseudohap: bubble chain links failed to merge")
		}
		block.MergeIn(bb)
	}
	return block
}

// Path returns the block's instance path.
func (b *Block) Path() *gfa.Path { return b.path }

// KnownAltSegments returns the segment ids recorded as known alternates.
func (b *Block) KnownAltSegments() []int {
	out := make([]int, 0, len(b.knownAlt))
	for id := range b.knownAlt {
		out = append(out, id)
	}
	return out
}

// HasKnownAlt reports whether segID is a known alternate of the block.
func (b *Block) HasKnownAlt(segID int) bool { return b.knownAlt[segID] }

// AllSegments returns every segment id touched by the block: its instance
// path plus its known alternates.
func (b *Block) AllSegments() []int {
	seen := make(map[int]bool)
	var out []int
	for _, v := range b.path.Vertices() {
		if !seen[v.Segment] {
			seen[v.Segment] = true
			out = append(out, v.Segment)
		}
	}
	for id := range b.knownAlt {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// CanMergeIn reports whether MergeIn(other) would keep the instance path
// simple and the known-alternate sets disjoint from all visited segments.
func (b *Block) CanMergeIn(other *Block) bool {
	if !b.path.CanMergeIn(other.path) {
		return false
	}
	for _, segID := range other.AllSegments() {
		if b.knownAlt[segID] {
			return false
		}
	}
	return true
}

// MergeIn concatenates other's path onto b's (requiring the shared
// endpoint) and unions the known-alternate sets. Panics if CanMergeIn
// would be false.
func (b *Block) MergeIn(other *Block) {
	if !b.CanMergeIn(other) {
		panic("pseudohap: MergeIn would revisit a segment or known alternate")
	}
	b.path.MergeIn(other.path)
	for id := range other.knownAlt {
		b.knownAlt[id] = true
	}
}

// ReverseComplement returns a new block traversing the instance path in
// the opposite direction; the known-alternate set is unaffected since it
// is unordered.
func (b *Block) ReverseComplement() *Block {
	return &Block{path: b.path.ReverseComplement(), knownAlt: b.knownAlt}
}

// searchAhead extends a single vertex into a maximal unique block: the
// longest maximal superbubble chain ahead of v if one exists, else a bare
// singleton block.
func searchAhead(g *gfa.Graph, v gfa.Vertex, params graphalgo.SbSearchParams) *Block {
	chain := graphalgo.FindChainAhead(g, v, params)
	if len(chain) > 0 {
		return fromBubbleChain(g, chain)
	}
	return NewVertexBlock(v)
}

// uniqueBlockAhead is searchAhead gated by the unique-block length floor:
// the extension patterns only continue into a further block ahead of w
// when that block's instance path is itself long enough to count as
// "unique", so a short, still-ambiguous stretch doesn't get silently
// absorbed into a primary block.
func uniqueBlockAhead(g *gfa.Graph, v gfa.Vertex, params Params) (*Block, bool) {
	block := searchAhead(g, v, params.Bubble)
	if block.path.TotalLength(g) < params.UniqueBlockLen {
		return nil, false
	}
	return block, true
}
