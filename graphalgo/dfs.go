// Package graphalgo provides reusable topology algorithms over a gfa.Graph:
// length-bounded depth-first traversal, Kosaraju-Sharir strongly connected
// components with condensation, and bidirected superbubble detection.
package graphalgo

import (
	"math"

	"github.com/grailbio/haplograph/gfa"
)

// Direction is the traversal direction for DFS.
type Direction int

const (
	// Forward follows outgoing edges.
	Forward Direction = iota
	// Reverse follows incoming edges.
	Reverse
)

// DFS is a configurable depth-first traversal: a direction, a prefilled
// blocked-vertex set (which doubles as the visited set once traversal
// starts), and an optional maximum segment length above which a vertex is
// observed but not recursed into.
type DFS struct {
	g            *gfa.Graph
	direction    Direction
	blocked      map[gfa.Vertex]bool
	exitOrder    []gfa.Vertex
	nodeLenThr   int
	hasLenThresh bool
}

// NewForwardDFS creates a forward DFS with no blocked vertices and no length
// threshold.
func NewForwardDFS(g *gfa.Graph) *DFS { return newDFS(g, Forward) }

// NewReverseDFS creates a reverse DFS with no blocked vertices and no length
// threshold.
func NewReverseDFS(g *gfa.Graph) *DFS { return newDFS(g, Reverse) }

func newDFS(g *gfa.Graph, direction Direction) *DFS {
	return &DFS{g: g, direction: direction, blocked: make(map[gfa.Vertex]bool), nodeLenThr: math.MaxInt32}
}

// SetBlocked replaces the blocked-vertex set.
func (d *DFS) SetBlocked(blocked map[gfa.Vertex]bool) {
	d.blocked = blocked
}

// ExtendBlocked adds vertices to the blocked set.
func (d *DFS) ExtendBlocked(vs ...gfa.Vertex) {
	for _, v := range vs {
		d.blocked[v] = true
	}
}

// SetMaxNodeLen sets the length threshold above which a vertex is recorded
// but not recursed into.
func (d *DFS) SetMaxNodeLen(maxLen int) {
	d.nodeLenThr = maxLen
	d.hasLenThresh = true
}

func (d *DFS) neighbors(v gfa.Vertex) []gfa.Vertex {
	var out []gfa.Vertex
	switch d.direction {
	case Forward:
		for _, l := range d.g.OutgoingEdges(v) {
			out = append(out, l.End)
		}
	case Reverse:
		for _, l := range d.g.IncomingEdges(v) {
			out = append(out, l.Start)
		}
	}
	return out
}

// RunFrom starts recursion at v. v must not already be blocked.
func (d *DFS) RunFrom(v gfa.Vertex) {
	if d.blocked[v] {
		panic("graphalgo: RunFrom called on an already-blocked vertex")
	}
	d.blocked[v] = true
	for _, w := range d.neighbors(v) {
		if !d.blocked[w] && d.g.VertexLength(w) <= d.nodeLenThr {
			d.RunFrom(w)
		}
	}
	d.exitOrder = append(d.exitOrder, v)
}

// Run performs a full traversal over every unblocked vertex of the graph.
// Panics if a length threshold was configured: Run requires an unbounded
// traversal.
func (d *DFS) Run() {
	if d.hasLenThresh {
		panic("graphalgo: Run requires no length threshold")
	}
	for _, v := range d.g.AllVertices() {
		if !d.blocked[v] {
			d.RunFrom(v)
		}
	}
}

// TakeBlocked returns the blocked set, including vertices visited by this
// traversal and any that were blocked beforehand.
func (d *DFS) TakeBlocked() map[gfa.Vertex]bool { return d.blocked }

// Blocked returns the blocked set without consuming the DFS.
func (d *DFS) Blocked() map[gfa.Vertex]bool { return d.blocked }

// ExitOrder returns the post-order vertex sequence.
func (d *DFS) ExitOrder() []gfa.Vertex { return d.exitOrder }

// Boundary returns vertices that were seen as neighbors of a visited vertex
// but were not themselves visited (because they were initially blocked or
// exceeded the length threshold). This intentionally does not deduplicate:
// if two visited vertices share a boundary neighbor, that neighbor is
// returned twice. Callers must tolerate or deduplicate this explicitly.
func (d *DFS) Boundary() []gfa.Vertex {
	visited := make(map[gfa.Vertex]bool, len(d.exitOrder))
	for _, v := range d.exitOrder {
		visited[v] = true
	}
	var boundary []gfa.Vertex
	for v := range visited {
		for _, w := range d.neighbors(v) {
			if !visited[w] {
				boundary = append(boundary, w)
			}
		}
	}
	return boundary
}

// SinksAhead returns the boundary vertices (longer than nodeLenThr) plus the
// visited dead-ends reachable forward from v without passing through a
// vertex longer than nodeLenThr. Includes v itself if it is a dead-end,
// whatever its length.
func SinksAhead(g *gfa.Graph, v gfa.Vertex, nodeLenThr int) []gfa.Vertex {
	d := NewForwardDFS(g)
	d.SetMaxNodeLen(nodeLenThr)
	d.RunFrom(v)
	sinks := d.Boundary()
	for _, x := range sinks {
		if g.VertexLength(x) < nodeLenThr {
			panic("graphalgo: SinksAhead boundary vertex unexpectedly short")
		}
	}
	for _, x := range d.ExitOrder() {
		if g.OutgoingEdgeCount(x) == 0 {
			sinks = append(sinks, x)
		}
	}
	return sinks
}

// ShortNodeComponent is the localized region of short segments reachable
// (in either direction) from a long starting vertex, used to characterize
// tangles just ahead of a long segment.
type ShortNodeComponent struct {
	Sources     map[gfa.Vertex]bool
	Sinks       map[gfa.Vertex]bool
	HasDeadends bool
	Reached     map[gfa.Vertex]bool
}

// SimpleBoundary reports whether Sources and Sinks share no segment, i.e.
// all boundary vertices are distinct.
func (c *ShortNodeComponent) SimpleBoundary() bool {
	used := make(map[int]bool)
	for v := range c.Sinks {
		if used[v.Segment] {
			return false
		}
		used[v.Segment] = true
	}
	for v := range c.Sources {
		if used[v.Segment] {
			return false
		}
		used[v.Segment] = true
	}
	return true
}

func (c *ShortNodeComponent) consider(g *gfa.Graph, v gfa.Vertex, l gfa.Link, lengthThreshold int) {
	if c.Reached[v] {
		return
	}
	c.Reached[v] = true

	if g.VertexLength(v) >= lengthThreshold && v == l.Start {
		c.Sources[v] = true
	} else {
		if g.IncomingEdgeCount(v) == 0 {
			c.HasDeadends = true
		}
		for _, il := range g.IncomingEdges(v) {
			if il != l {
				c.consider(g, il.Start, il, lengthThreshold)
			}
		}
	}

	if g.VertexLength(v) >= lengthThreshold && v == l.End {
		c.Sinks[v] = true
	} else {
		if g.OutgoingEdgeCount(v) == 0 {
			c.HasDeadends = true
		}
		for _, ol := range g.OutgoingEdges(v) {
			if ol != l {
				c.consider(g, ol.End, ol, lengthThreshold)
			}
		}
	}
}

// AheadFromLong builds the ShortNodeComponent reachable from a long vertex
// v (VertexLength(v) >= lengthThreshold).
func AheadFromLong(g *gfa.Graph, v gfa.Vertex, lengthThreshold int) *ShortNodeComponent {
	if g.VertexLength(v) < lengthThreshold {
		panic("graphalgo: AheadFromLong requires a long starting vertex")
	}
	c := &ShortNodeComponent{
		Sources:     map[gfa.Vertex]bool{v: true},
		Sinks:       map[gfa.Vertex]bool{},
		HasDeadends: g.OutgoingEdgeCount(v) == 0,
		Reached:     map[gfa.Vertex]bool{v: true},
	}
	for _, ol := range g.OutgoingEdges(v) {
		c.consider(g, ol.End, ol, lengthThreshold)
	}
	return c
}
