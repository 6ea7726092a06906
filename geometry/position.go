// Package geometry provides the 2D primitives the rest of the module builds
// on: points, rectangles, and axis-aligned bounding boxes. It is treated as
// a small, assumed layer rather than a fully-featured vector math library —
// just enough add/subtract/rotate/clamp/containment to back the spatial
// index, broad-phase, and pathfinding packages.
package geometry

import "math"

// Position is a 2D point with float32 components.
type Position struct {
	X, Y float32
}

// Add returns p+q.
func (p Position) Add(q Position) Position {
	return Position{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Position) Sub(q Position) Position {
	return Position{p.X - q.X, p.Y - q.Y}
}

// Dot returns the dot product p·q.
func (p Position) Dot(q Position) float32 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the scalar 2D cross product p×q.
func (p Position) Cross(q Position) float32 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the Euclidean length of p.
func (p Position) Length() float32 {
	return float32(math.Sqrt(float64(p.X*p.X + p.Y*p.Y)))
}

// LengthSquared returns the squared Euclidean length of p, avoiding the sqrt.
func (p Position) LengthSquared() float32 {
	return p.X*p.X + p.Y*p.Y
}

// DistanceSquared returns the squared distance between p and q.
func (p Position) DistanceSquared(q Position) float32 {
	return p.Sub(q).LengthSquared()
}

// Rotate returns p rotated by radians around the origin.
func (p Position) Rotate(radians float32) Position {
	s, c := math.Sincos(float64(radians))
	sf, cf := float32(s), float32(c)
	return Position{
		X: p.X*cf - p.Y*sf,
		Y: p.X*sf + p.Y*cf,
	}
}

// Clamp clamps both components of p to [min, max].
func (p Position) Clamp(min, max Position) Position {
	return Position{
		X: clampf(p.X, min.X, max.X),
		Y: clampf(p.Y, min.Y, max.Y),
	}
}

// ApproxEqual reports whether p and q differ by at most epsilon on each axis.
func (p Position) ApproxEqual(q Position, epsilon float32) bool {
	return absf(p.X-q.X) <= epsilon && absf(p.Y-q.Y) <= epsilon
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// PositionI is a 2D point with int32 components, used where callers want
// exact integer coordinates (e.g. grid/cell identifiers).
type PositionI struct {
	X, Y int32
}

// Add returns p+q.
func (p PositionI) Add(q PositionI) PositionI {
	return PositionI{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p PositionI) Sub(q PositionI) PositionI {
	return PositionI{p.X - q.X, p.Y - q.Y}
}

// LengthSquared returns the squared length of p, computed in int64 to avoid
// overflow when X or Y is near the int32 range.
func (p PositionI) LengthSquared() int64 {
	x, y := int64(p.X), int64(p.Y)
	return x*x + y*y
}

// ToPosition converts p to a Position, rounding is exact since both fields
// are already integral.
func (p PositionI) ToPosition() Position {
	return Position{X: float32(p.X), Y: float32(p.Y)}
}

// FromPosition converts a Position to a PositionI, rounding half-away-from-zero.
func FromPosition(p Position) PositionI {
	return PositionI{X: roundHalfAwayFromZero(p.X), Y: roundHalfAwayFromZero(p.Y)}
}

func roundHalfAwayFromZero(v float32) int32 {
	if v >= 0 {
		return int32(math.Floor(float64(v) + 0.5))
	}
	return int32(math.Ceil(float64(v) - 0.5))
}
