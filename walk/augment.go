package walk

import (
	"github.com/grailbio/base/log"

	"github.com/grailbio/haplograph/gfa"
	"github.com/grailbio/haplograph/trio"
)

// AugmentByPathSearch runs the path searcher twice (spec §4.F "Two-round
// augmentation"): round 1 uses AssigningStageAdjusted settings (bubble
// filling conservatively disabled) and writes its usage map back into
// storage; round 2 re-seeds with the enriched labels using the full
// settings. Returns the results of round 2 alongside the final storage.
func AugmentByPathSearch(g *gfa.Graph, assignments *trio.Storage, settings Settings) ([]Result, *trio.Storage) {
	log.Printf("walk: augmenting node annotation by path search, round 1")
	_, assignments = augmentRound(g, assignments, settings.AssigningStageAdjusted())
	log.Printf("walk: augmenting node annotation by path search, round 2")
	return augmentRound(g, assignments, settings)
}

func augmentRound(g *gfa.Graph, assignments *trio.Storage, settings Settings) ([]Result, *trio.Storage) {
	searcher := NewSearcher(g, assignments, settings)
	results := searcher.FindAll()
	next := mergeUsage(assignments, searcher.Used())
	return results, next
}

// mergeUsage copies definite-group usage into a fresh copy of assignments,
// blending with any existing label (an existing Homozygous label may
// cohabit; a conflicting existing definite label is a programmer error —
// the searcher itself never walks a segment against its own incompatible
// assignment).
func mergeUsage(assignments *trio.Storage, used *UsageMap) *trio.Storage {
	out := trio.NewStorage()
	for _, segID := range assignments.Segments() {
		out.Set(segID, assignments.Get(segID))
	}
	for _, segID := range used.Segments() {
		group := used.Group(segID)
		if !group.IsDefinite() {
			continue
		}
		out.BlendIn(segID, group, trio.Inconclusive, "PathSearch")
	}
	return out
}
