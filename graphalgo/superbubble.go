package graphalgo

import (
	"math"

	"github.com/grailbio/haplograph/gfa"
)

// DistRange is an inclusive (min, max) accumulated-length range.
type DistRange struct {
	Min, Max int
}

func shiftRange(r DistRange, s int) DistRange {
	return DistRange{r.Min + s, r.Max + s}
}

func mergeRange(a, b DistRange) DistRange {
	r := DistRange{Min: a.Min, Max: a.Max}
	if b.Min < r.Min {
		r.Min = b.Min
	}
	if b.Max > r.Max {
		r.Max = b.Max
	}
	return r
}

// Superbubble is a bidirected bubble: a single entrance, a single exit, and
// every reached vertex's accumulated distance range from the entrance.
type Superbubble struct {
	g          *gfa.Graph
	startV     gfa.Vertex
	endV       gfa.Vertex
	hasEnd     bool
	reached    map[gfa.Vertex]DistRange
}

func (b *Superbubble) linkDistRange(l gfa.Link) DistRange {
	r, ok := b.reached[l.Start]
	if !ok {
		panic("graphalgo: linkDistRange on an unreached vertex")
	}
	eLen := b.g.VertexLength(l.End)
	if eLen < l.Overlap {
		panic("graphalgo: link overlap exceeds end vertex length")
	}
	return shiftRange(r, eLen-l.Overlap)
}

// StartVertex returns the bubble's entrance.
func (b *Superbubble) StartVertex() gfa.Vertex { return b.startV }

// EndVertex returns the bubble's exit.
func (b *Superbubble) EndVertex() gfa.Vertex { return b.endV }

// Vertices returns every vertex reached by the bubble (including start and
// end).
func (b *Superbubble) Vertices() []gfa.Vertex {
	out := make([]gfa.Vertex, 0, len(b.reached))
	for v := range b.reached {
		out = append(out, v)
	}
	return out
}

// LengthRange returns the (min, max) total path length from start to end.
func (b *Superbubble) LengthRange() (int, int) {
	if !b.hasEnd {
		return 0, 0
	}
	r := b.reached[b.endV]
	return r.Min, r.Max
}

// LongestPath reconstructs the longest start-to-end path by walking
// backward from the end, at each step choosing an incoming link whose
// updated distance range matches the currently tracked maximum.
func (b *Superbubble) LongestPath() *gfa.Path {
	return b.backtrack(func(r DistRange) int { return r.Max })
}

// ShortestPath reconstructs the shortest start-to-end path analogously,
// matching the tracked minimum.
func (b *Superbubble) ShortestPath() *gfa.Path {
	return b.backtrack(func(r DistRange) int { return r.Min })
}

func (b *Superbubble) backtrack(extremum func(DistRange) int) *gfa.Path {
	v := b.endV
	target := extremum(b.reached[v])
	rcPath := gfa.NewPath(v.Complement())
	for v != b.startV {
		found := false
		for _, l := range b.g.IncomingEdges(v) {
			dr := b.linkDistRange(l)
			if extremum(dr) == target {
				if l.End != v {
					panic("graphalgo: backtrack incoming link mismatch")
				}
				rcPath.Append(l.ReverseComplement())
				v = l.Start
				target = extremum(b.reached[l.Start])
				found = true
				break
			}
		}
		if !found {
			panic("graphalgo: backtrack could not find a matching predecessor")
		}
	}
	return rcPath.ReverseComplement()
}

// SbSearchParams bounds a superbubble search.
type SbSearchParams struct {
	MaxLength int
	MaxDiff   int
	MaxCount  int
}

// UnrestrictedParams imposes no bounds.
func UnrestrictedParams() SbSearchParams {
	return SbSearchParams{MaxLength: math.MaxInt32, MaxDiff: math.MaxInt32, MaxCount: math.MaxInt32}
}

// FindSuperbubble searches forward from v for a bidirected superbubble
// satisfying params. Returns (nil, false) if none is found, respecting the
// §4.D worklist algorithm: strand conflicts, dead-ends, and a loop back to
// the start all abort the search rather than erroring.
func FindSuperbubble(g *gfa.Graph, v gfa.Vertex, params SbSearchParams) (*Superbubble, bool) {
	b := &Superbubble{g: g, startV: v, reached: make(map[gfa.Vertex]DistRange)}

	nonLoopOut := 0
	for _, l := range g.OutgoingEdges(v) {
		if l.Start != l.End {
			nonLoopOut++
		}
	}
	if g.OutgoingEdgeCount(v) < 2 || nonLoopOut < 2 {
		return nil, false
	}

	canBeProcessed := []gfa.Vertex{v}
	vLen0 := g.VertexLength(v)
	b.reached[v] = DistRange{vLen0, vLen0}
	notReadyCnt := 0
	remainingIncoming := make(map[gfa.Vertex]int)

	for len(canBeProcessed) > 0 {
		if len(b.reached) > params.MaxCount {
			return nil, false
		}

		cur := canBeProcessed[len(canBeProcessed)-1]
		canBeProcessed = canBeProcessed[:len(canBeProcessed)-1]

		if g.OutgoingEdgeCount(cur) == 0 {
			return nil, false // dead end
		}

		for _, l := range g.OutgoingEdges(cur) {
			w := l.End
			if w == b.startV {
				return nil, false // loop back onto start
			}

			if _, ok := b.reached[w]; !ok {
				if _, ok := b.reached[w.Complement()]; ok {
					return nil, false // strand conflict
				}
				notReadyCnt++
				remainingIncoming[w] = g.IncomingEdgeCount(w)
				b.reached[w] = b.linkDistRange(l)
			}
			remainingIncoming[w]--
			b.reached[w] = mergeRange(b.reached[w], b.linkDistRange(l))

			if remainingIncoming[w] == 0 {
				canBeProcessed = append(canBeProcessed, w)
				notReadyCnt--
			}
		}

		if len(canBeProcessed) == 1 && notReadyCnt == 0 {
			end := canBeProcessed[len(canBeProcessed)-1]
			r := b.reached[end]
			if r.Min-g.VertexLength(b.startV)-g.VertexLength(end) > params.MaxLength {
				return nil, false
			}
			if r.Max-r.Min > params.MaxDiff {
				return nil, false
			}
			b.endV = end
			b.hasEnd = true
			return b, true
		}
	}
	return nil, false
}

// BubbleChain is a sequence of superbubbles where each one's exit is the
// next one's entrance.
type BubbleChain []*Superbubble

// ChainLengthRange sums the per-bubble length ranges, subtracting the
// length of each internal junction vertex once so it isn't counted twice
// (each bubble's range already includes its own start vertex's length).
func ChainLengthRange(chain BubbleChain, g *gfa.Graph) (int, int) {
	if len(chain) == 0 {
		return 0, 0
	}
	min, max := chain[0].LengthRange()
	for i := 1; i < len(chain); i++ {
		bmin, bmax := chain[i].LengthRange()
		junction := g.VertexLength(chain[i].StartVertex())
		min += bmin - junction
		max += bmax - junction
	}
	return min, max
}

// FindChainAhead iteratively finds a superbubble from v, advances v to its
// exit, and repeats until no bubble is found or the chain closes back on
// its own starting vertex.
func FindChainAhead(g *gfa.Graph, initV gfa.Vertex, params SbSearchParams) BubbleChain {
	var chain BubbleChain
	v := initV
	for {
		b, ok := FindSuperbubble(g, v, params)
		if !ok {
			break
		}
		v = b.EndVertex()
		chain = append(chain, b)
		if v == initV {
			break
		}
	}
	return chain
}

// FindMaximalChain extends a chain both ahead of v and behind it (found via
// reverse-complement search, then re-derived as forward bubbles so the
// chain is in start-to-end order) and fuses the two into one maximal chain.
// If the ahead-only chain already closes the loop back to v, it is already
// maximal and is returned as is.
func FindMaximalChain(g *gfa.Graph, v gfa.Vertex, params SbSearchParams) BubbleChain {
	ahead := FindChainAhead(g, v, params)
	if len(ahead) > 0 && ahead[len(ahead)-1].EndVertex() == v {
		return ahead
	}

	behindRaw := FindChainAhead(g, v.Complement(), params)
	var behind BubbleChain
	for i := len(behindRaw) - 1; i >= 0; i-- {
		fwd, ok := FindSuperbubble(g, behindRaw[i].EndVertex().Complement(), params)
		if !ok {
			panic("graphalgo: FindMaximalChain could not re-derive a behind bubble")
		}
		behind = append(behind, fwd)
	}
	return append(behind, ahead...)
}
