package geometry

import "testing"

func TestRectangleContainsHalfOpen(t *testing.T) {
	r := Rectangle{X: 0, Y: 0, Width: 10, Height: 10}

	if !r.Contains(0, 0) {
		t.Error("expected (0,0) to be contained (left/top inclusive)")
	}
	if r.Contains(10, 5) {
		t.Error("expected x=10 (right edge) to be excluded")
	}
	if r.Contains(5, 10) {
		t.Error("expected y=10 (bottom edge) to be excluded")
	}
	if r.Contains(-1, 5) {
		t.Error("expected negative x to be excluded")
	}
}

func TestRectangleIntersectsStrict(t *testing.T) {
	a := Rectangle{X: 0, Y: 0, Width: 10, Height: 10}
	touching := Rectangle{X: 10, Y: 0, Width: 10, Height: 10}
	overlapping := Rectangle{X: 5, Y: 5, Width: 10, Height: 10}

	if a.Intersects(touching) {
		t.Error("edge-touching rectangles must not intersect")
	}
	if !a.Intersects(overlapping) {
		t.Error("overlapping rectangles must intersect")
	}
}

func TestAABBOverlapsStrict(t *testing.T) {
	a := AABB{CenterX: 0, CenterY: 0, HalfWidth: 5, HalfHeight: 5}
	touching := AABB{CenterX: 10, CenterY: 0, HalfWidth: 5, HalfHeight: 5}
	overlapping := AABB{CenterX: 8, CenterY: 0, HalfWidth: 5, HalfHeight: 5}

	if Overlaps(a, touching) {
		t.Error("touching AABBs must not overlap")
	}
	if !Overlaps(a, overlapping) {
		t.Error("overlapping AABBs must overlap")
	}
}

func TestPositionIRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   Position
		want PositionI
	}{
		{Position{2.5, -2.5}, PositionI{3, -3}},
		{Position{2.4, -2.4}, PositionI{2, -2}},
		{Position{0.5, 0.5}, PositionI{1, 1}},
	}
	for _, c := range cases {
		got := FromPosition(c.in)
		if got != c.want {
			t.Errorf("FromPosition(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPositionILengthSquaredNoOverflow(t *testing.T) {
	p := PositionI{X: 1 << 20, Y: 1 << 20}
	got := p.LengthSquared()
	want := int64(1<<20)*int64(1<<20)*2
	if got != want {
		t.Errorf("LengthSquared() = %d, want %d", got, want)
	}
}

func TestAABBDistanceSquaredToPoint(t *testing.T) {
	b := AABB{CenterX: 0, CenterY: 0, HalfWidth: 5, HalfHeight: 5}
	if got := b.DistanceSquaredToPoint(2, 2); got != 0 {
		t.Errorf("interior point should have distance 0, got %v", got)
	}
	got := b.DistanceSquaredToPoint(10, 0)
	if got != 25 {
		t.Errorf("DistanceSquaredToPoint(10,0) = %v, want 25", got)
	}
}
