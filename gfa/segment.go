package gfa

// Segment is a double-stranded contig: a stable name, a sequence length, and
// a coverage estimate. Segments are created at load time and never mutated
// except by condensation, which builds an entirely new Graph.
type Segment struct {
	Name     string
	Length   int
	Coverage float64
}
