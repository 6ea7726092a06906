// Package quadtree provides a point-indexed spatial structure backed by a
// flat node pool: nodes live in a single growable slice and reference their
// children by index rather than pointer, the way the teacher's
// internal/game/spatial package keeps its grid cells and ring-buffer slots
// as preallocated slices instead of a pointer graph.
package quadtree

import (
	"simkit/geometry"
)

// Capacity is the inline point capacity of a leaf node before it subdivides.
const Capacity = 4

// Gutter is the padding added around a position set's bounding box when
// ResetWithBoundaries derives new root bounds.
const Gutter = 120.0

const noChild = -1

// EntityPoint pairs an id with the position it was inserted at.
type EntityPoint[Id comparable] struct {
	ID       Id
	Position geometry.Position
}

type node[Id comparable] struct {
	boundary        geometry.Rectangle
	points          []EntityPoint[Id]
	divided         bool
	nw, ne, sw, se  int
}

// QuadTree is a point spatial index over a fixed root boundary. Each node
// holds up to Capacity points inline; once full it subdivides into four
// children tiling its boundary 2x2, but existing points stay at the parent
// — subdivision never pushes points down.
type QuadTree[Id comparable] struct {
	nodes     []node[Id]
	positions map[Id]geometry.Position
	minX, minY float32
	maxX, maxY float32
	haveExtrema bool
}

// New creates a QuadTree whose root covers bounds.
func New[Id comparable](bounds geometry.Rectangle) *QuadTree[Id] {
	qt := &QuadTree[Id]{
		positions: make(map[Id]geometry.Position),
	}
	qt.nodes = append(qt.nodes, node[Id]{
		boundary: bounds,
		nw:       noChild, ne: noChild, sw: noChild, se: noChild,
	})
	return qt
}

// ResetWithBoundaries clears the tree and recomputes the root boundary as
// the bounding box of positions, inflated by Gutter on every side.
func (qt *QuadTree[Id]) ResetWithBoundaries(positions []geometry.Position) {
	qt.Clear()
	if len(positions) == 0 {
		return
	}
	minX, minY := positions[0].X, positions[0].Y
	maxX, maxY := positions[0].X, positions[0].Y
	for _, p := range positions[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	bounds := geometry.Rectangle{
		X:      minX - Gutter,
		Y:      minY - Gutter,
		Width:  (maxX - minX) + 2*Gutter,
		Height: (maxY - minY) + 2*Gutter,
	}
	qt.nodes[0].boundary = bounds
}

func (qt *QuadTree[Id]) trackExtrema(p geometry.Position) {
	if !qt.haveExtrema {
		qt.minX, qt.maxX = p.X, p.X
		qt.minY, qt.maxY = p.Y, p.Y
		qt.haveExtrema = true
		return
	}
	if p.X < qt.minX {
		qt.minX = p.X
	}
	if p.X > qt.maxX {
		qt.maxX = p.X
	}
	if p.Y < qt.minY {
		qt.minY = p.Y
	}
	if p.Y > qt.maxY {
		qt.maxY = p.Y
	}
}

// Bounds returns the lowest/highest x and y coordinates seen by Insert so
// far (not the root boundary itself).
func (qt *QuadTree[Id]) Bounds() (minX, minY, maxX, maxY float32, ok bool) {
	return qt.minX, qt.minY, qt.maxX, qt.maxY, qt.haveExtrema
}

// Insert places id at pos. It returns false without mutating the tree if
// pos falls outside the root boundary.
func (qt *QuadTree[Id]) Insert(id Id, pos geometry.Position) bool {
	if !qt.insertAt(0, EntityPoint[Id]{ID: id, Position: pos}) {
		return false
	}
	qt.trackExtrema(pos)
	qt.positions[id] = pos
	return true
}

func (qt *QuadTree[Id]) insertAt(idx int, pt EntityPoint[Id]) bool {
	n := &qt.nodes[idx]
	if !n.boundary.ContainsPosition(pt.Position) {
		return false
	}

	if !n.divided && len(n.points) < Capacity {
		n.points = append(n.points, pt)
		return true
	}

	if !n.divided {
		qt.subdivide(idx)
		n = &qt.nodes[idx]
	}

	if qt.insertAt(n.nw, pt) {
		return true
	}
	if qt.insertAt(n.ne, pt) {
		return true
	}
	if qt.insertAt(n.sw, pt) {
		return true
	}
	if qt.insertAt(n.se, pt) {
		return true
	}

	// No child's half-open rectangle claimed the point (shouldn't happen
	// given the tiling is exact), so it stays at this node.
	n.points = append(n.points, pt)
	return true
}

// subdivide allocates four children tiling n's boundary 2x2 and marks n as
// divided. n's existing points are left in place, not redistributed.
func (qt *QuadTree[Id]) subdivide(idx int) {
	b := qt.nodes[idx].boundary
	halfW := b.Width / 2
	halfH := b.Height / 2

	nwRect := geometry.Rectangle{X: b.X, Y: b.Y, Width: halfW, Height: halfH}
	neRect := geometry.Rectangle{X: b.X + halfW, Y: b.Y, Width: halfW, Height: halfH}
	swRect := geometry.Rectangle{X: b.X, Y: b.Y + halfH, Width: halfW, Height: halfH}
	seRect := geometry.Rectangle{X: b.X + halfW, Y: b.Y + halfH, Width: halfW, Height: halfH}

	nwIdx := qt.appendNode(nwRect)
	neIdx := qt.appendNode(neRect)
	swIdx := qt.appendNode(swRect)
	seIdx := qt.appendNode(seRect)

	n := &qt.nodes[idx]
	n.nw, n.ne, n.sw, n.se = nwIdx, neIdx, swIdx, seIdx
	n.divided = true
}

func (qt *QuadTree[Id]) appendNode(bounds geometry.Rectangle) int {
	qt.nodes = append(qt.nodes, node[Id]{
		boundary: bounds,
		nw:       noChild, ne: noChild, sw: noChild, se: noChild,
	})
	return len(qt.nodes) - 1
}

// Remove deletes id from the tree using its last known position to descend
// directly to the node holding it. Returns false if id was never inserted.
func (qt *QuadTree[Id]) Remove(id Id) bool {
	pos, ok := qt.positions[id]
	if !ok {
		return false
	}
	if !qt.removeAt(0, id, pos) {
		return false
	}
	delete(qt.positions, id)
	return true
}

func (qt *QuadTree[Id]) removeAt(idx int, id Id, pos geometry.Position) bool {
	n := &qt.nodes[idx]
	if !n.boundary.ContainsPosition(pos) {
		return false
	}
	for i, pt := range n.points {
		if pt.ID == id {
			last := len(n.points) - 1
			n.points[i] = n.points[last]
			n.points = n.points[:last]
			return true
		}
	}
	if !n.divided {
		return false
	}
	if qt.removeAt(n.nw, id, pos) {
		return true
	}
	if qt.removeAt(n.ne, id, pos) {
		return true
	}
	if qt.removeAt(n.sw, id, pos) {
		return true
	}
	return qt.removeAt(n.se, id, pos)
}

// Update moves id to newPos, implemented as Remove followed by Insert. It
// returns false without changing the tracked bounds if the removal fails.
func (qt *QuadTree[Id]) Update(id Id, newPos geometry.Position) bool {
	if !qt.Remove(id) {
		return false
	}
	return qt.Insert(id, newPos)
}

// Count returns the total number of points stored, via a full traversal.
func (qt *QuadTree[Id]) Count() int {
	return qt.countAt(0)
}

func (qt *QuadTree[Id]) countAt(idx int) int {
	n := &qt.nodes[idx]
	total := len(n.points)
	if n.divided {
		total += qt.countAt(n.nw)
		total += qt.countAt(n.ne)
		total += qt.countAt(n.sw)
		total += qt.countAt(n.se)
	}
	return total
}

// QueryRect appends every stored point contained in rng to out and returns
// the extended slice. Traversal order is parent-before-children, then
// NW, NE, SW, SE among siblings.
func (qt *QuadTree[Id]) QueryRect(rng geometry.Rectangle, out []EntityPoint[Id]) []EntityPoint[Id] {
	return qt.queryRectAt(0, rng, out)
}

func (qt *QuadTree[Id]) queryRectAt(idx int, rng geometry.Rectangle, out []EntityPoint[Id]) []EntityPoint[Id] {
	n := &qt.nodes[idx]
	if !n.boundary.Intersects(rng) {
		return out
	}
	for _, pt := range n.points {
		if rng.ContainsPosition(pt.Position) {
			out = append(out, pt)
		}
	}
	if n.divided {
		out = qt.queryRectAt(n.nw, rng, out)
		out = qt.queryRectAt(n.ne, rng, out)
		out = qt.queryRectAt(n.sw, rng, out)
		out = qt.queryRectAt(n.se, rng, out)
	}
	return out
}

// HasPointInRect is a short-circuiting variant of QueryRect that stops as
// soon as one point is found.
func (qt *QuadTree[Id]) HasPointInRect(rng geometry.Rectangle) bool {
	return qt.hasPointInRectAt(0, rng)
}

func (qt *QuadTree[Id]) hasPointInRectAt(idx int, rng geometry.Rectangle) bool {
	n := &qt.nodes[idx]
	if !n.boundary.Intersects(rng) {
		return false
	}
	for _, pt := range n.points {
		if rng.ContainsPosition(pt.Position) {
			return true
		}
	}
	if !n.divided {
		return false
	}
	return qt.hasPointInRectAt(n.nw, rng) ||
		qt.hasPointInRectAt(n.ne, rng) ||
		qt.hasPointInRectAt(n.sw, rng) ||
		qt.hasPointInRectAt(n.se, rng)
}

// QueryRadius appends every stored point within radius of center to out.
// It descends using the enclosing square of the circle, then rejects
// per-point with a squared-distance check.
func (qt *QuadTree[Id]) QueryRadius(center geometry.Position, radius float32, out []EntityPoint[Id]) []EntityPoint[Id] {
	enclosing := geometry.Rectangle{
		X:      center.X - radius,
		Y:      center.Y - radius,
		Width:  radius * 2,
		Height: radius * 2,
	}
	radiusSq := radius * radius
	return qt.queryRadiusAt(0, center, radiusSq, enclosing, out)
}

func (qt *QuadTree[Id]) queryRadiusAt(idx int, center geometry.Position, radiusSq float32, enclosing geometry.Rectangle, out []EntityPoint[Id]) []EntityPoint[Id] {
	n := &qt.nodes[idx]
	if !n.boundary.Intersects(enclosing) {
		return out
	}
	for _, pt := range n.points {
		if pt.Position.DistanceSquared(center) <= radiusSq {
			out = append(out, pt)
		}
	}
	if n.divided {
		out = qt.queryRadiusAt(n.nw, center, radiusSq, enclosing, out)
		out = qt.queryRadiusAt(n.ne, center, radiusSq, enclosing, out)
		out = qt.queryRadiusAt(n.sw, center, radiusSq, enclosing, out)
		out = qt.queryRadiusAt(n.se, center, radiusSq, enclosing, out)
	}
	return out
}

// QueryNearest does a pruned depth-first search for the closest stored
// point to pos within maxDistance. Children are only descended into when
// their minimum possible distance to pos is strictly less than the best
// distance found so far.
func (qt *QuadTree[Id]) QueryNearest(pos geometry.Position, maxDistance float32) (EntityPoint[Id], bool) {
	var best EntityPoint[Id]
	found := false
	bestDistSq := maxDistance * maxDistance
	qt.queryNearestAt(0, pos, &best, &bestDistSq, &found)
	return best, found
}

func (qt *QuadTree[Id]) queryNearestAt(idx int, pos geometry.Position, best *EntityPoint[Id], bestDistSq *float32, found *bool) {
	n := &qt.nodes[idx]
	for _, pt := range n.points {
		d := pt.Position.DistanceSquared(pos)
		if d < *bestDistSq {
			*bestDistSq = d
			*best = pt
			*found = true
		}
	}
	if !n.divided {
		return
	}
	children := [4]int{n.nw, n.ne, n.sw, n.se}
	for _, c := range children {
		cb := qt.nodes[c].boundary
		cx, cy := cb.ClampPoint(pos.X, pos.Y)
		minDistSq := (pos.X-cx)*(pos.X-cx) + (pos.Y-cy)*(pos.Y-cy)
		if minDistSq < *bestDistSq {
			qt.queryNearestAt(c, pos, best, bestDistSq, found)
		}
	}
}

// Walk visits every node in the tree depth-first, passing each node's
// boundary and the points stored directly at it (not its children's). Used
// by debugrender to draw the subdivision grid.
func (qt *QuadTree[Id]) Walk(visit func(boundary geometry.Rectangle, points []EntityPoint[Id])) {
	qt.walkAt(0, visit)
}

func (qt *QuadTree[Id]) walkAt(idx int, visit func(geometry.Rectangle, []EntityPoint[Id])) {
	n := &qt.nodes[idx]
	visit(n.boundary, n.points)
	if n.divided {
		qt.walkAt(n.nw, visit)
		qt.walkAt(n.ne, visit)
		qt.walkAt(n.sw, visit)
		qt.walkAt(n.se, visit)
	}
}

// Clear empties the tree back to a single root node but keeps the node
// pool's allocated capacity to avoid reallocating on reuse.
func (qt *QuadTree[Id]) Clear() {
	root := qt.nodes[0].boundary
	qt.nodes = qt.nodes[:0]
	qt.nodes = append(qt.nodes, node[Id]{
		boundary: root,
		nw:       noChild, ne: noChild, sw: noChild, se: noChild,
	})
	for k := range qt.positions {
		delete(qt.positions, k)
	}
	qt.haveExtrema = false
}
