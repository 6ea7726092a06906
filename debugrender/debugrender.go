// Package debugrender draws the module's spatial structures to PNG images
// using fogleman/gg, the same immediate-mode 2D context the teacher's
// streaming package drives every frame through. It exists for inspecting a
// QuadTree's subdivision or a SweepAndPrune frame's AABBs while developing
// against them, not for any runtime game loop.
package debugrender

import (
	"cmp"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"simkit/broadphase"
	"simkit/geometry"
	"simkit/quadtree"
)

// Style bundles the colors and stroke widths used by the draw functions.
// Zero-value fields fall back to DefaultStyle's values via ApplyDefaults.
type Style struct {
	Background  color.Color
	GridLine    color.Color
	LeafLine    color.Color
	Point       color.Color
	AABBLine    color.Color
	OverlapLine color.Color
	LineWidth   float64
	PointRadius float64
}

// DefaultStyle mirrors the teacher's dark background palette, with bright
// colors for points, AABBs and overlaps.
func DefaultStyle() Style {
	return Style{
		Background:  color.RGBA{12, 12, 28, 255},
		GridLine:    color.RGBA{30, 30, 45, 255},
		LeafLine:    color.RGBA{90, 90, 130, 255},
		Point:       color.RGBA{83, 255, 69, 255},
		AABBLine:    color.RGBA{80, 160, 255, 255},
		OverlapLine: color.RGBA{255, 62, 62, 255},
		LineWidth:   1,
		PointRadius: 2.5,
	}
}

// ApplyDefaults fills any zero-value fields of s from DefaultStyle.
func (s Style) ApplyDefaults() Style {
	d := DefaultStyle()
	if s.Background == nil {
		s.Background = d.Background
	}
	if s.GridLine == nil {
		s.GridLine = d.GridLine
	}
	if s.LeafLine == nil {
		s.LeafLine = d.LeafLine
	}
	if s.Point == nil {
		s.Point = d.Point
	}
	if s.AABBLine == nil {
		s.AABBLine = d.AABBLine
	}
	if s.OverlapLine == nil {
		s.OverlapLine = d.OverlapLine
	}
	if s.LineWidth == 0 {
		s.LineWidth = d.LineWidth
	}
	if s.PointRadius == 0 {
		s.PointRadius = d.PointRadius
	}
	return s
}

func fillBackground(dc *gg.Context, width, height int, c color.Color) {
	dc.SetColor(c)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()
}

// QuadTree renders a QuadTree's node boundaries and the points stored at
// each node, then saves the result as a PNG at path. width and height are the
// output image size in pixels.
func QuadTree[Id comparable](qt *quadtree.QuadTree[Id], width, height int, style Style, path string) error {
	style = style.ApplyDefaults()
	dc := gg.NewContext(width, height)
	fillBackground(dc, width, height, style.Background)

	dc.SetLineWidth(style.LineWidth)
	qt.Walk(func(boundary geometry.Rectangle, points []quadtree.EntityPoint[Id]) {
		dc.SetColor(style.LeafLine)
		dc.DrawRectangle(float64(boundary.X), float64(boundary.Y), float64(boundary.Width), float64(boundary.Height))
		dc.Stroke()

		dc.SetColor(style.Point)
		for _, p := range points {
			dc.DrawCircle(float64(p.Position.X), float64(p.Position.Y), style.PointRadius)
			dc.Fill()
		}
	})

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("debugrender: save quadtree png: %w", err)
	}
	return nil
}

// SweepAndPrune renders a SweepAndPrune frame's AABBs and highlights every
// currently-colliding pair in OverlapLine, then saves the result as a PNG
// at path.
func SweepAndPrune[Id cmp.Ordered](sap *broadphase.SweepAndPrune[Id], width, height int, style Style, path string) error {
	style = style.ApplyDefaults()
	dc := gg.NewContext(width, height)
	fillBackground(dc, width, height, style.Background)

	collisions := sap.FindCollisions(make([]broadphase.CollisionPair[Id], 0, sap.Len()))
	colliding := make(map[Id]bool, 2*len(collisions))
	for _, pair := range collisions {
		colliding[pair.A] = true
		colliding[pair.B] = true
	}

	dc.SetLineWidth(style.LineWidth * 2)
	sap.Each(func(id Id, aabb geometry.AABB) {
		if colliding[id] {
			dc.SetColor(style.OverlapLine)
		} else {
			dc.SetColor(style.AABBLine)
		}
		dc.DrawRectangle(float64(aabb.MinX()), float64(aabb.MinY()), float64(aabb.HalfWidth*2), float64(aabb.HalfHeight*2))
		dc.Stroke()
	})

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("debugrender: save sweepandprune png: %w", err)
	}
	return nil
}
