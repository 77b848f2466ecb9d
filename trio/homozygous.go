package trio

import (
	"github.com/grailbio/haplograph/gfa"
	"github.com/grailbio/haplograph/graphalgo"
)

// HomozygousParams bounds which segments are eligible for reclassification
// and the optional coverage gate.
type HomozygousParams struct {
	TrustedLen       int
	HomozygousMaxLen int

	// CoverageGateMultiplier, when > 0, blocks reclassification of a
	// segment whose coverage is below this multiple of the weighted-mean
	// coverage of solid (long, definitely assigned) segments.
	CoverageGateMultiplier float64
}

// HomozygousAssigner runs the homozygous reclassification pass with a
// fixed set of parameters, for callers that want it as a named stage
// alongside the marker-based and path-search stages rather than a bare
// function call.
type HomozygousAssigner struct {
	Params HomozygousParams
}

// NewHomozygousAssigner builds an assigner from p.
func NewHomozygousAssigner(p HomozygousParams) HomozygousAssigner {
	return HomozygousAssigner{Params: p}
}

// Run applies the reclassification to storage in place.
func (a HomozygousAssigner) Run(g *gfa.Graph, storage *Storage) {
	ReclassifyHomozygous(g, storage, a.Params)
}

// ReclassifyHomozygous promotes long definitely-assigned segments to
// Homozygous when graph topology shows both parental flows passing through
// them: every long neighbor reachable ahead, and every long neighbor
// reachable behind, through only short intervening segments, is of the
// opposing parental group, and at least one such neighbor exists on each
// side.
func ReclassifyHomozygous(g *gfa.Graph, storage *Storage, p HomozygousParams) {
	minCoverage := -1.0
	if p.CoverageGateMultiplier > 0 {
		minCoverage = p.CoverageGateMultiplier * weightedMeanCoverage(g, storage, p.TrustedLen)
	}

	for segID, seg := range g.Segments {
		a := storage.Get(segID)
		if !a.Group.IsDefinite() {
			continue
		}
		if seg.Length < p.TrustedLen || seg.Length > p.HomozygousMaxLen {
			continue
		}
		other := Paternal
		if a.Group == Paternal {
			other = Maternal
		}

		fwdOK := reachesOtherParent(g, storage, gfa.Vertex{Segment: segID, Direction: gfa.Forward}, other, p.TrustedLen)
		revOK := reachesOtherParent(g, storage, gfa.Vertex{Segment: segID, Direction: gfa.Reverse}, other, p.TrustedLen)
		if !fwdOK || !revOK {
			continue
		}
		if minCoverage >= 0 && seg.Coverage < minCoverage {
			continue
		}
		storage.Set(segID, Assignment{Group: Homozygous, Confidence: a.Confidence, Info: a.Info})
	}
}

// reachesOtherParent reports whether every long segment reachable ahead of
// v through only short intervening segments is definitely assigned to
// group other (at least one such segment must exist). A mixed result —
// some reachable long neighbor still carrying v's own parental group —
// means the flow hasn't genuinely crossed over, so it does not count.
func reachesOtherParent(g *gfa.Graph, storage *Storage, v gfa.Vertex, other Group, trustedLen int) bool {
	if g.OutgoingEdgeCount(v) == 0 {
		return false
	}
	c := graphalgo.AheadFromLong(g, v, trustedLen)
	found := false
	for sink := range c.Sinks {
		if sink.Segment == v.Segment {
			continue
		}
		if storage.Get(sink.Segment).Group != other {
			return false
		}
		found = true
	}
	return found
}

func weightedMeanCoverage(g *gfa.Graph, storage *Storage, trustedLen int) float64 {
	var totalWeighted, totalLen float64
	for segID, seg := range g.Segments {
		if seg.Length < trustedLen {
			continue
		}
		if !storage.Get(segID).Group.IsDefinite() {
			continue
		}
		totalWeighted += seg.Coverage * float64(seg.Length)
		totalLen += float64(seg.Length)
	}
	if totalLen == 0 {
		return 0
	}
	return totalWeighted / totalLen
}
