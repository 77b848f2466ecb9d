package graphalgo

import "github.com/grailbio/haplograph/gfa"

// StronglyConnected computes non-trivial strongly connected components of
// the bidirected graph (oriented vertices as nodes) via Kosaraju-Sharir:
// forward DFS for an exit order, then reverse DFS from each unvisited
// vertex in reverse exit order. A component is non-trivial when it has more
// than one vertex, or is a single vertex with a self-loop.
func StronglyConnected(g *gfa.Graph) [][]gfa.Vertex {
	isLoop := func(v gfa.Vertex) bool {
		for _, l := range g.OutgoingEdges(v) {
			if l.End == v {
				return true
			}
		}
		return false
	}

	fwd := NewForwardDFS(g)
	fwd.Run()

	var nonTrivial [][]gfa.Vertex
	used := make(map[gfa.Vertex]bool)
	order := fwd.ExitOrder()
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if used[v] {
			continue
		}
		rev := NewReverseDFS(g)
		rev.SetBlocked(used)
		rev.RunFrom(v)
		visited := rev.ExitOrder()
		if len(visited) == 0 {
			panic("graphalgo: StronglyConnected found an empty component")
		}
		if len(visited) > 1 || isLoop(visited[0]) {
			comp := append([]gfa.Vertex(nil), visited...)
			nonTrivial = append(nonTrivial, comp)
		}
		used = rev.TakeBlocked()
	}
	if !checkConsistency(g, nonTrivial) {
		panic("graphalgo: SCC complement consistency check failed")
	}
	return nonTrivial
}

// NodesInSCCs returns the set of segment ids covered by the given SCCs.
func NodesInSCCs(sccs [][]gfa.Vertex) map[int]bool {
	out := make(map[int]bool)
	for _, comp := range sccs {
		for _, v := range comp {
			out[v.Segment] = true
		}
	}
	return out
}

func sortedVertices(vs []gfa.Vertex) []gfa.Vertex {
	out := append([]gfa.Vertex(nil), vs...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Less(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func sameVertexSet(a, b []gfa.Vertex) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := sortedVertices(a), sortedVertices(b)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// checkConsistency verifies that every vertex's SCC membership is mirrored
// by its complement's SCC membership: for every vertex in a reported SCC,
// the complement must also belong to a reported SCC, and that SCC,
// reverse-complemented element-wise, must equal the original as a set.
func checkConsistency(g *gfa.Graph, nonTrivialSCCs [][]gfa.Vertex) bool {
	vertexToSCC := make(map[gfa.Vertex]int)
	for sccID, vertices := range nonTrivialSCCs {
		for _, v := range vertices {
			vertexToSCC[v] = sccID
		}
	}

	considered := make(map[int]bool)
	for _, v := range g.AllVertices() {
		if considered[v.Segment] {
			continue
		}
		sccID, ok := vertexToSCC[v]
		if !ok {
			continue
		}
		for _, sv := range nonTrivialSCCs[sccID] {
			considered[sv.Segment] = true
		}
		rcSCCID, ok := vertexToSCC[v.Complement()]
		if !ok {
			return false
		}
		complemented := make([]gfa.Vertex, len(nonTrivialSCCs[rcSCCID]))
		for i, w := range nonTrivialSCCs[rcSCCID] {
			complemented[i] = w.Complement()
		}
		if !sameVertexSet(nonTrivialSCCs[sccID], complemented) {
			panic("graphalgo: SCC complement set mismatch")
		}
	}
	return true
}

// Condensation builds a new Graph whose nodes are non-trivial SCCs (each
// carrying the maximum member length, zero coverage, and a name encoding
// the SCC id and member count) plus every trivial singleton, with edges
// lifted from the original graph. Returns the condensation and the mapping
// from old vertices to new ones. When ignoreLoops is set, self-loops that
// appear after lifting are dropped.
func Condensation(g *gfa.Graph, nonTrivialSCCs [][]gfa.Vertex, ignoreLoops bool) (*gfa.Graph, map[gfa.Vertex]gfa.Vertex) {
	if !checkConsistency(g, nonTrivialSCCs) {
		panic("graphalgo: Condensation requires consistent SCCs")
	}
	cond := gfa.NewGraph()
	vertexToSCC := make(map[gfa.Vertex]int)
	for sccID, vertices := range nonTrivialSCCs {
		if len(vertices) == 1 {
			continue // trivial loop-of-one is not condensed
		}
		for _, v := range vertices {
			vertexToSCC[v] = sccID
		}
	}

	old2new := make(map[gfa.Vertex]gfa.Vertex)
	updateOld2New := func(oldVertices []gfa.Vertex, newSegment int) {
		// Two passes for consistent processing of self-conjugate SCCs.
		for _, v := range oldVertices {
			old2new[v.Complement()] = gfa.Vertex{Segment: newSegment, Direction: gfa.Reverse}
		}
		for _, v := range oldVertices {
			old2new[v] = gfa.Vertex{Segment: newSegment, Direction: gfa.Forward}
		}
	}

	considered := make(map[int]bool)
	for segID, seg := range g.Segments {
		v := gfa.Vertex{Segment: segID, Direction: gfa.Forward}
		if considered[segID] {
			continue
		}
		if sccID, ok := vertexToSCC[v]; ok {
			sccVertices := nonTrivialSCCs[sccID]
			for _, sv := range sccVertices {
				considered[sv.Segment] = true
			}
			maxLen := 0
			for _, w := range sccVertices {
				if l := g.Segments[w.Segment].Length; l > maxLen {
					maxLen = l
				}
			}
			name := sccName(sccID, len(sccVertices), seg.Name)
			cndID := cond.AddSegment(gfa.Segment{Name: name, Length: maxLen, Coverage: 0})
			updateOld2New(sccVertices, cndID)
		} else {
			considered[segID] = true
			cndID := cond.AddSegment(seg)
			updateOld2New([]gfa.Vertex{v}, cndID)
		}
	}

	for _, l := range g.AllLinks() {
		v, ok := old2new[l.Start]
		if !ok {
			panic("graphalgo: Condensation missing mapping for link start")
		}
		w, ok2 := old2new[l.End]
		if !ok2 {
			panic("graphalgo: Condensation missing mapping for link end")
		}
		if ignoreLoops && v == w {
			continue
		}
		exists := false
		for _, existing := range cond.OutgoingEdges(v) {
			if existing.End == w {
				exists = true
				break
			}
		}
		if !exists {
			cond.AddLink(gfa.Link{Start: v, End: w, Overlap: l.Overlap})
		}
	}

	return cond, old2new
}

func sccName(sccID, count int, initName string) string {
	return "scc_" + itoa(sccID) + "_vcnt_" + itoa(count) + "_init_" + initName
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// LocalizedTangle is a non-trivial SCC with exactly one entering link and
// exactly one leaving link, each the sole non-component edge of its
// external endpoint.
type LocalizedTangle struct {
	Entrance gfa.Link
	Exit     gfa.Link
	Vertices []gfa.Vertex
}

// EstimateSizeNoMult is a crude (under-)estimate of tangle size without
// multiplicity guessing: sum over member vertices of length minus the
// shortest incoming overlap.
func EstimateSizeNoMult(t *LocalizedTangle, g *gfa.Graph) int {
	shortestIncomingOverlap := func(v gfa.Vertex) int {
		min := -1
		for _, l := range g.IncomingEdges(v) {
			if min < 0 || l.Overlap < min {
				min = l.Overlap
			}
		}
		if min < 0 {
			return 0
		}
		return min
	}
	total := 0
	for _, v := range t.Vertices {
		total += g.VertexLength(v) - shortestIncomingOverlap(v)
	}
	return total
}

func onlyLink(links []gfa.Link) (gfa.Link, bool) {
	if len(links) != 1 {
		return gfa.Link{}, false
	}
	return links[0], true
}

func findLocalized(g *gfa.Graph, nonTrivialSCC []gfa.Vertex) (*LocalizedTangle, bool) {
	componentVertices := make(map[gfa.Vertex]bool, len(nonTrivialSCC))
	for _, v := range nonTrivialSCC {
		componentVertices[v] = true
	}

	var entranceCandidates, exitCandidates []gfa.Link
	for v := range componentVertices {
		for _, l := range g.IncomingEdges(v) {
			if !componentVertices[l.Start] {
				entranceCandidates = append(entranceCandidates, l)
			}
		}
		for _, l := range g.OutgoingEdges(v) {
			if !componentVertices[l.End] {
				exitCandidates = append(exitCandidates, l)
			}
		}
	}
	entrance, ok := onlyLink(entranceCandidates)
	if !ok {
		return nil, false
	}
	exit, ok := onlyLink(exitCandidates)
	if !ok {
		return nil, false
	}

	// Entrance.Start and Exit.End must have no other edge in that direction.
	entrance, ok = onlyLink(g.OutgoingEdges(entrance.Start))
	if !ok {
		return nil, false
	}
	exit, ok = onlyLink(g.IncomingEdges(exit.End))
	if !ok {
		return nil, false
	}

	if entrance.Start.Segment == exit.End.Segment {
		return nil, false // guard against a strand-switching degenerate case
	}
	return &LocalizedTangle{Entrance: entrance, Exit: exit, Vertices: append([]gfa.Vertex(nil), nonTrivialSCC...)}, true
}

// FindSmallLocalized returns every localized tangle among nonTrivialSCCs
// whose estimated size is within sizeLimit.
func FindSmallLocalized(g *gfa.Graph, nonTrivialSCCs [][]gfa.Vertex, sizeLimit int) []*LocalizedTangle {
	var out []*LocalizedTangle
	for _, vs := range nonTrivialSCCs {
		t, ok := findLocalized(g, vs)
		if !ok {
			continue
		}
		if EstimateSizeNoMult(t, g) <= sizeLimit {
			out = append(out, t)
		}
	}
	return out
}
