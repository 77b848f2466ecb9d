package walk

// Settings parameterizes the haplotype path searcher. Defaults mirror the
// Rust CLI defaults from the original trio-binning tool.
type Settings struct {
	// SolidLen is the minimal segment length for seeding a walk and for
	// treating a segment as "long" during bounded jump-ahead DFS.
	SolidLen int
	// TrustedLen is the minimal segment length considered reliably
	// assigned by markers alone (used by homozygous labeling upstream;
	// the searcher itself does not read it, and its "unique" predicate
	// uses SolidLen).
	TrustedLen int

	// FillableBubbleLen bounds the extra sequence length of a bubble
	// eligible for AMBIG filling.
	FillableBubbleLen int
	// FillableBubbleDiff bounds the min/max path length difference of a
	// bubble eligible for AMBIG filling.
	FillableBubbleDiff int
	// AmbigFillingLevel enables bubble filling when > 0.
	AmbigFillingLevel int
	// MaxUniqueCov is the coverage ceiling for the bubble-filling
	// "unique" predicate: a non-solid, non-homozygous endpoint with
	// coverage above this value blocks filling. Negative disables the
	// coverage check (all nodes considered unique); with zero, a
	// non-solid, non-homozygous endpoint passes only if its coverage is 0.
	MaxUniqueCov float64

	// MinGapSize is the floor applied to an estimated GAP size.
	MinGapSize int
	// DefaultGapSize is used when a GAP's size cannot be estimated.
	DefaultGapSize int
}

// DefaultSettings returns the Rust CLI's default thresholds.
func DefaultSettings() Settings {
	return Settings{
		SolidLen:           500_000,
		TrustedLen:         200_000,
		FillableBubbleLen:  50_000,
		FillableBubbleDiff: 200,
		AmbigFillingLevel:  0,
		MaxUniqueCov:       0,
		MinGapSize:         1000,
		DefaultGapSize:     5000,
	}
}

// AssigningStageAdjusted returns the settings to use for round 1 of the
// two-round augmentation: bubble filling is conservatively disabled until
// labels have stabilized, since a wrong fill in round 1 would poison round
// 2's seeding.
func (s Settings) AssigningStageAdjusted() Settings {
	out := s
	out.AmbigFillingLevel = 0
	return out
}
