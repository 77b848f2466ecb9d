// Package walk implements the trio-aware haplotype path search: seeding at
// long unambiguously-assigned segments and growing walks via unambiguous
// extension, group-consistent extension, bounded jump-ahead, and optional
// small-bubble filling.
package walk

import "github.com/grailbio/haplograph/trio"

// UsageMap tracks, per segment, the parental group(s) of every emitted walk
// that visited it, blended with trio.Blend semantics so a segment walked by
// both haplotypes becomes Homozygous.
type UsageMap struct {
	group map[int]trio.Group
}

// NewUsageMap creates an empty usage map.
func NewUsageMap() *UsageMap {
	return &UsageMap{group: make(map[int]trio.Group)}
}

// Mark blends g into the usage recorded for segment.
func (u *UsageMap) Mark(segment int, g trio.Group) {
	u.group[segment] = trio.Blend(u.group[segment], g)
}

// Group returns the usage group recorded for segment (trio.Unassigned if
// never visited).
func (u *UsageMap) Group(segment int) trio.Group {
	return u.group[segment]
}

// Used reports whether segment has been visited by any walk.
func (u *UsageMap) Used(segment int) bool {
	_, ok := u.group[segment]
	return ok
}

// Segments returns every segment id recorded in the usage map.
func (u *UsageMap) Segments() []int {
	out := make([]int, 0, len(u.group))
	for id := range u.group {
		out = append(out, id)
	}
	return out
}
