package pseudohap

import (
	"sort"

	"github.com/grailbio/base/log"

	"github.com/grailbio/haplograph/gfa"
	"github.com/grailbio/haplograph/graphalgo"
)

// Params bounds the pseudo-haplotype decomposition search.
type Params struct {
	// Bubble search bounds used when looking for the unique block chain
	// that continues ahead of an extension.
	Bubble graphalgo.SbSearchParams
	// UniqueBlockLen floors how long an instance path (a singleton segment
	// or a bubble chain's longest path) must be to seed or continue a
	// primary block, and also bounds the joining path accepted between a
	// bridge's two dangling side branches.
	UniqueBlockLen int
}

// DefaultParams mirrors the trio-walk defaults, generalized to
// pseudo-haplotype decomposition's less conservative bubble budget.
func DefaultParams() Params {
	return Params{
		Bubble:         graphalgo.SbSearchParams{MaxLength: 500_000, MaxDiff: 2000, MaxCount: 1 << 20},
		UniqueBlockLen: 500_000,
	}
}

// extensionViaBridge extends a block across a length-3 bridge u->v->w ahead
// of u, recording the bridge's dangling side branches as known alternates
// when they form one of the recognized admissible shapes, then continues
// into the unique block ahead of w.
func extensionViaBridge(g *gfa.Graph, u gfa.Vertex, params Params) (*Block, bool) {
	bridgeP, ok := graphalgo.BridgeAhead(g, u)
	if !ok {
		return nil, false
	}
	links := bridgeP.Links()
	uLink, _ := links[0].AsLink()
	wLink, _ := links[1].AsLink()
	w := bridgeP.End()

	sLink, hasS := graphalgo.OtherOutgoing(g, u, uLink)
	tLink, hasT := graphalgo.OtherIncoming(g, w, wLink)
	if !hasS || !hasT {
		return nil, false
	}
	s, t := sLink.End, tLink.Start
	alts, ok := graphalgo.AdmissibleAltClass(g, s, t, params.UniqueBlockLen)
	if !ok {
		return nil, false
	}
	block := FromPath(bridgeP, alts...)

	further, ok := uniqueBlockAhead(g, w, params)
	if !ok || !block.CanMergeIn(further) {
		return nil, false
	}
	block.MergeIn(further)
	return block, true
}

// extensionInDeadend extends a block by a single unambiguous outgoing link
// u->w whose other incoming link at w comes from a dead end a, then
// continues into the unique block ahead of w.
//
//	x a
//	   \
//	-  u - w -
func extensionInDeadend(g *gfa.Graph, u gfa.Vertex, params Params) (*Block, bool) {
	if g.OutgoingEdgeCount(u) != 1 {
		return nil, false
	}
	l := g.OutgoingEdges(u)[0]
	w := l.End
	other, ok := graphalgo.OtherIncoming(g, w, l)
	if !ok {
		return nil, false
	}
	a := other.Start
	if !graphalgo.IsDeadend(g, a) {
		return nil, false
	}

	block := FromPath(gfa.PathFromLink(l), a)
	further, ok := uniqueBlockAhead(g, w, params)
	if !ok || !block.CanMergeIn(further) {
		return nil, false
	}
	block.MergeIn(further)
	return block, true
}

// extensionOutDeadend extends a block from a vertex u with exactly two
// outgoing links where at least one reaches a dead end: if both do, the
// longer is taken as primary and the shorter recorded as alternate (no
// further continuation, since the primary branch is itself a dead end); if
// only one does, the other is taken as primary, the dead end recorded as
// alternate, and the block continues into the unique block ahead of it.
//
//	a x            a x
//	   \    or       \
//	- u - w -      - u - o x
func extensionOutDeadend(g *gfa.Graph, u gfa.Vertex, params Params) (*Block, bool) {
	if g.OutgoingEdgeCount(u) != 2 {
		return nil, false
	}
	var deadendLinks, liveLinks []gfa.Link
	for _, l := range g.OutgoingEdges(u) {
		if graphalgo.IsDeadend(g, l.End) {
			deadendLinks = append(deadendLinks, l)
		} else {
			liveLinks = append(liveLinks, l)
		}
	}

	switch len(deadendLinks) {
	case 2:
		primary, alt := deadendLinks[0], deadendLinks[1]
		if g.VertexLength(primary.End) < g.VertexLength(alt.End) {
			primary, alt = alt, primary
		}
		return FromPath(gfa.PathFromLink(primary), alt.End), true
	case 1:
		primary := liveLinks[0]
		block := FromPath(gfa.PathFromLink(primary), deadendLinks[0].End)
		further, ok := uniqueBlockAhead(g, primary.End, params)
		if !ok || !block.CanMergeIn(further) {
			return nil, false
		}
		block.MergeIn(further)
		return block, true
	default:
		return nil, false
	}
}

// forwardExtension tries, in order, a bridge extension, an in-dead-end
// extension, and an out-dead-end extension, returning the first one that
// applies and keeps the block simple.
func forwardExtension(g *gfa.Graph, block *Block, params Params) bool {
	v := block.Path().End()

	if nb, ok := extensionViaBridge(g, v, params); ok && block.CanMergeIn(nb) {
		block.MergeIn(nb)
		return true
	}
	if nb, ok := extensionInDeadend(g, v, params); ok && block.CanMergeIn(nb) {
		block.MergeIn(nb)
		return true
	}
	if nb, ok := extensionOutDeadend(g, v, params); ok && block.CanMergeIn(nb) {
		block.MergeIn(nb)
		return true
	}
	return false
}

// PrimaryDecomposer builds disjoint primary blocks covering the graph,
// seeded at the most "linear" unvisited vertices first. See spec §4.G.
type PrimaryDecomposer struct {
	g       *gfa.Graph
	params  Params
	visited map[int]bool
}

// NewPrimaryDecomposer creates a decomposer over g.
func NewPrimaryDecomposer(g *gfa.Graph, params Params) *PrimaryDecomposer {
	return &PrimaryDecomposer{g: g, params: params, visited: make(map[int]bool)}
}

// extendForward grows block forward one step at a time for as long as
// forwardExtension applies.
func (d *PrimaryDecomposer) extendForward(block *Block) {
	for forwardExtension(d.g, block, d.params) {
	}
}

// maxExtendForward grows block in both directions: forward, then backward
// via reverse-complementing, then forward again from the new orientation.
func (d *PrimaryDecomposer) maxExtendForward(block *Block) *Block {
	d.extendForward(block)
	rc := block.ReverseComplement()
	d.extendForward(rc)
	return rc.ReverseComplement()
}

// extendedBlock builds the maximal block starting from seed and marks
// every segment it touches (instance path and known alternates) as
// visited.
func (d *PrimaryDecomposer) extendedBlock(seed *Block) *Block {
	block := d.maxExtendForward(seed)
	for _, segID := range block.AllSegments() {
		d.visited[segID] = true
	}
	return block
}

// candidate is a not-yet-claimed simple unique block ranked by how
// "linear" it is before committing to it as a primary block seed.
type candidate struct {
	block        *Block
	linearBucket int // floor(10 * linear fraction), higher first
	length       int
}

// chainLinearFraction estimates how much of chain is a plain run of
// vertices rather than a known alternate: a bubble-free stretch scores
// 1.0, a stretch half made of alternates scores 0.5.
func chainLinearFraction(chain graphalgo.BubbleChain) float64 {
	primary, alt := 0, 0
	for _, b := range chain {
		primary += b.LongestPath().Len()
		alt += len(b.Vertices()) - b.LongestPath().Len()
	}
	if primary+alt == 0 {
		return 1.0
	}
	return float64(primary) / float64(primary+alt)
}

// chainEndsDistinct rejects a chain that loops back onto its own starting
// vertex, per the spec's "ends are distinct" requirement (such a chain
// would make an ill-formed, looping instance path).
func chainEndsDistinct(chain graphalgo.BubbleChain) bool {
	return chain[0].StartVertex() != chain[len(chain)-1].EndVertex()
}

// chainOutsideSCCs rejects a chain touching any non-trivial-SCC vertex:
// tangled topology isn't the "simple" backbone the unique-block search is
// meant to seed from.
func chainOutsideSCCs(chain graphalgo.BubbleChain, inSCC map[int]bool) bool {
	for _, b := range chain {
		for _, v := range b.Vertices() {
			if inSCC[v.Segment] {
				return false
			}
		}
	}
	return true
}

// simpleUniqueBlocks finds every simple unique block in the graph: maximal
// superbubble chains lying entirely outside the non-trivial-SCC vertex
// set, with distinct ends and a max-path length at least UniqueBlockLen,
// plus a singleton block for every remaining segment at least
// UniqueBlockLen long. Candidates are ranked by linear fraction (fewer
// competing alternates first) and, within a bucket, by descending length,
// for deterministic, reproducible decomposition.
func (d *PrimaryDecomposer) simpleUniqueBlocks(inSCC map[int]bool) []candidate {
	claimed := make(map[int]bool)
	var cands []candidate

	for segID := range d.g.Segments {
		if d.visited[segID] || claimed[segID] || inSCC[segID] {
			continue
		}
		v := gfa.Vertex{Segment: segID, Direction: gfa.Forward}
		chain := graphalgo.FindMaximalChain(d.g, v, d.params.Bubble)
		if len(chain) == 0 || !chainEndsDistinct(chain) || !chainOutsideSCCs(chain, inSCC) {
			continue
		}
		_, maxLen := graphalgo.ChainLengthRange(chain, d.g)
		if maxLen < d.params.UniqueBlockLen {
			continue
		}
		block := fromBubbleChain(d.g, chain)
		for _, segID := range block.AllSegments() {
			claimed[segID] = true
		}
		cands = append(cands, candidate{
			block:        block,
			linearBucket: int(chainLinearFraction(chain) * 10),
			length:       block.Path().TotalLength(d.g),
		})
	}

	for segID, seg := range d.g.Segments {
		if d.visited[segID] || claimed[segID] {
			continue
		}
		if seg.Length < d.params.UniqueBlockLen {
			continue
		}
		v := gfa.Vertex{Segment: segID, Direction: gfa.Forward}
		cands = append(cands, candidate{block: NewVertexBlock(v), linearBucket: 10, length: seg.Length})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].linearBucket != cands[j].linearBucket {
			return cands[i].linearBucket > cands[j].linearBucket
		}
		if cands[i].length != cands[j].length {
			return cands[i].length > cands[j].length
		}
		return cands[i].block.Path().Start().Segment < cands[j].block.Path().Start().Segment
	})
	return cands
}

// Run decomposes the whole graph into primary blocks, seeding in priority
// order and skipping any candidate already swept up by an earlier block.
func (d *PrimaryDecomposer) Run() []*Block {
	sccs := graphalgo.StronglyConnected(d.g)
	inSCC := graphalgo.NodesInSCCs(sccs)

	var blocks []*Block
	for {
		cands := d.simpleUniqueBlocks(inSCC)
		if len(cands) == 0 {
			break
		}
		progressed := false
		for _, c := range cands {
			if d.visited[c.block.Path().Start().Segment] {
				continue
			}
			block := d.extendedBlock(c.block)
			blocks = append(blocks, block)
			progressed = true
		}
		if !progressed {
			break
		}
	}
	log.Printf("pseudohap: decomposed into %d primary blocks", len(blocks))
	return blocks
}

// Decompose is the package entry point: builds primary blocks covering g
// under params.
func Decompose(g *gfa.Graph, params Params) []*Block {
	d := NewPrimaryDecomposer(g, params)
	return d.Run()
}
