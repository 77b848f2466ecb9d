package graphalgo

import "github.com/grailbio/haplograph/gfa"

// IsDeadend reports whether v has no outgoing or no incoming edges.
func IsDeadend(g *gfa.Graph, v gfa.Vertex) bool {
	return g.OutgoingEdgeCount(v) == 0 || g.IncomingEdgeCount(v) == 0
}

// OtherOutgoing returns the outgoing edge of v other than l, when v has
// exactly two outgoing edges.
func OtherOutgoing(g *gfa.Graph, v gfa.Vertex, l gfa.Link) (gfa.Link, bool) {
	if g.OutgoingEdgeCount(v) != 2 {
		return gfa.Link{}, false
	}
	for _, alt := range g.OutgoingEdges(v) {
		if alt != l {
			return alt, true
		}
	}
	return gfa.Link{}, false
}

// OtherIncoming returns the incoming edge of v other than l, when v has
// exactly two incoming edges.
func OtherIncoming(g *gfa.Graph, v gfa.Vertex, l gfa.Link) (gfa.Link, bool) {
	if g.IncomingEdgeCount(v) != 2 {
		return gfa.Link{}, false
	}
	for _, alt := range g.IncomingEdges(v) {
		if alt != l {
			return alt, true
		}
	}
	return gfa.Link{}, false
}

// bridgedByVertex builds the 2-link path u->v->w when v has exactly one
// incoming and one outgoing edge and none of u, v, w coincide.
func bridgedByVertex(g *gfa.Graph, v gfa.Vertex) (*gfa.Path, bool) {
	if g.IncomingEdgeCount(v) != 1 || g.OutgoingEdgeCount(v) != 1 {
		return nil, false
	}
	in := g.IncomingEdges(v)[0]
	out := g.OutgoingEdges(v)[0]
	u, w := in.Start, out.End
	if u.Segment == v.Segment || w.Segment == v.Segment || w.Segment == u.Segment {
		return nil, false
	}
	p := gfa.PathFromLink(in)
	p.Append(out)
	return p, true
}

// BridgeAhead returns the unique length-3 bridge path u->v->w ahead of u,
// where v is the sole intermediate vertex on one of u's outgoing edges.
// Returns false if u has zero or more than one such bridge among its
// outgoing edges.
func BridgeAhead(g *gfa.Graph, u gfa.Vertex) (*gfa.Path, bool) {
	var found *gfa.Path
	count := 0
	for _, l := range g.OutgoingEdges(u) {
		if p, ok := bridgedByVertex(g, l.End); ok {
			found = p
			count++
		}
	}
	if count != 1 {
		return nil, false
	}
	return found, true
}

// GapInfo is a quantitative estimate of a scaffold gap straddling a bridge:
// the bridge's primary path runs u->v->w, while u and w each carry one
// other edge, to s and from t respectively; when both s and t are
// dead-ends, GapSize estimates the unassembled sequence between them.
type GapInfo struct {
	Start, End gfa.Vertex
	GapSize    int
}

// DetectGap looks for the bridge pattern ahead of u and, if both of the
// bridge's side branches (s, reached from u; t, reaching w) are dead-ends,
// returns the gap they imply.
func DetectGap(g *gfa.Graph, u gfa.Vertex) (GapInfo, bool) {
	bridgeP, ok := BridgeAhead(g, u)
	if !ok {
		return GapInfo{}, false
	}
	links := bridgeP.Links()
	if len(links) != 2 {
		panic("graphalgo: DetectGap expects a length-3 bridge path")
	}
	uLink, _ := links[0].AsLink()
	wLink, _ := links[1].AsLink()
	w := bridgeP.End()

	sLink, ok := OtherOutgoing(g, u, uLink)
	if !ok {
		return GapInfo{}, false
	}
	tLink, ok := OtherIncoming(g, w, wLink)
	if !ok {
		return GapInfo{}, false
	}
	s, t := sLink.End, tLink.Start
	if !IsDeadend(g, s) || !IsDeadend(g, t) {
		return GapInfo{}, false
	}
	sLen := gfa.PathFromLink(sLink).TotalLength(g)
	tLen := gfa.PathFromLink(tLink).TotalLength(g)
	gapSize := bridgeP.TotalLength(g) - sLen - tLen
	return GapInfo{Start: s, End: t, GapSize: gapSize}, true
}

// AdmissibleAltClass checks whether s and t belong to one of the
// recognized bridge side-branch shapes (a self-loop-like coincidence, a
// pair of dead-ends, or a short joining path) and returns the vertices
// that should be recorded as known alternates.
func AdmissibleAltClass(g *gfa.Graph, s, t gfa.Vertex, maxNodeLen int) ([]gfa.Vertex, bool) {
	if s == t {
		return []gfa.Vertex{s}, true
	}
	if IsDeadend(g, s) && IsDeadend(g, t) {
		return []gfa.Vertex{s, t}, true
	}
	return JoiningVertices(g, s, t, maxNodeLen)
}

// visitedIfReachable runs a length-bounded DFS from v blocked at w and
// returns the visited set if w was reached as a boundary vertex.
func visitedIfReachable(g *gfa.Graph, v, w gfa.Vertex, direction Direction, maxNodeLen int) (map[gfa.Vertex]bool, bool) {
	var d *DFS
	switch direction {
	case Forward:
		d = NewForwardDFS(g)
	default:
		d = NewReverseDFS(g)
	}
	d.SetMaxNodeLen(maxNodeLen)
	d.ExtendBlocked(w)
	d.RunFrom(v)
	for _, b := range d.Boundary() {
		if b == w {
			visited := make(map[gfa.Vertex]bool)
			for _, x := range d.ExitOrder() {
				visited[x] = true
			}
			return visited, true
		}
	}
	return nil, false
}

// JoiningVertices returns the vertices lying on some short path between s
// and t (forward from s, backward from t, intersected), plus s and t
// themselves, when t is reachable ahead of s through only short segments.
func JoiningVertices(g *gfa.Graph, s, t gfa.Vertex, maxNodeLen int) ([]gfa.Vertex, bool) {
	fwd, ok := visitedIfReachable(g, s, t, Forward, maxNodeLen)
	if !ok {
		return nil, false
	}
	rev, ok := visitedIfReachable(g, t, s, Reverse, maxNodeLen)
	if !ok {
		panic("graphalgo: JoiningVertices forward reachability without reverse reachability")
	}
	var out []gfa.Vertex
	for v := range fwd {
		if rev[v] {
			out = append(out, v)
		}
	}
	out = append(out, s, t)
	return out, true
}
