package geometry

// Rectangle is an axis-aligned rectangle anchored at its top-left corner.
type Rectangle struct {
	X, Y, Width, Height float32
}

// Contains reports whether (px, py) falls inside r using half-open bounds:
// x <= px < x+w and y <= py < y+h. A point on the right or bottom edge is
// not contained.
func (r Rectangle) Contains(px, py float32) bool {
	return px >= r.X && px < r.X+r.Width && py >= r.Y && py < r.Y+r.Height
}

// ContainsPosition is Contains for a Position value.
func (r Rectangle) ContainsPosition(p Position) bool {
	return r.Contains(p.X, p.Y)
}

// Intersects reports whether r and o overlap, using strict inequalities on
// all four axes — rectangles that only touch along an edge do not intersect.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// MinX, MaxX, MinY, MaxY report the rectangle's bounds.
func (r Rectangle) MinX() float32 { return r.X }
func (r Rectangle) MaxX() float32 { return r.X + r.Width }
func (r Rectangle) MinY() float32 { return r.Y }
func (r Rectangle) MaxY() float32 { return r.Y + r.Height }

// ClampPoint clamps (px, py) to the closest point inside r (inclusive of
// the far edges), used by nearest-point-to-rectangle distance checks.
func (r Rectangle) ClampPoint(px, py float32) (float32, float32) {
	cx := clampf(px, r.MinX(), r.MaxX())
	cy := clampf(py, r.MinY(), r.MaxY())
	return cx, cy
}
