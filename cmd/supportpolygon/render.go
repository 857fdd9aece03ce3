package main

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/borgorg/idynutils/supportpolygon"
)

var (
	hullColor     = colorful.Hsv(215, 0.85, 0.9)
	regionColor   = colorful.Hsv(130, 0.85, 0.65)
	originColor   = colorful.Hsv(0, 0.9, 0.95)
	centroidColor = colorful.Hsv(215, 0.85, 0.9).BlendLab(colorful.Hsv(0, 0, 1), 0.4)
)

// renderPolygon draws the projected contacts in black, their hull in blue with its centroid, and the region
// allowed by the constraints in green, with the origin marked red. +y points up in the image.
func renderPolygon(engine *supportpolygon.Engine, points []r3.Vector, size int, out string) error {
	if size <= 0 {
		return errors.Errorf("image size must be positive, got %d", size)
	}
	ring, err := engine.Hull(points)
	if err != nil {
		return err
	}
	constraints, err := engine.Constraints(points)
	if err != nil {
		return err
	}
	region, err := constraints.Vertices()
	if err != nil {
		return err
	}
	projected := engine.Project(points)

	// fit the hull and the origin in the image with a 10% border
	extent := 0.0
	for _, pt := range ring {
		extent = math.Max(extent, math.Max(math.Abs(pt.X), math.Abs(pt.Y)))
	}
	if extent == 0 {
		extent = 1
	}
	scale := 0.45 * float64(size) / extent
	toImage := func(pt r2.Point) (float64, float64) {
		return float64(size)/2 + pt.X*scale, float64(size)/2 - pt.Y*scale
	}

	dc := gg.NewContext(size, size)
	dc.SetColor(color.White)
	dc.Clear()

	drawRing := func(vertices []r2.Point, c color.Color) {
		for i, v := range vertices {
			x, y := toImage(v)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.SetColor(c)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
	drawRing(ring, hullColor)
	drawRing(region, regionColor)

	cx, cy := toImage(ring.Centroid())
	dc.SetColor(centroidColor)
	dc.DrawLine(cx-5, cy, cx+5, cy)
	dc.DrawLine(cx, cy-5, cx, cy+5)
	dc.Stroke()

	dc.SetColor(color.Black)
	for _, pt := range projected {
		x, y := toImage(pt)
		dc.DrawCircle(x, y, 3)
		dc.Fill()
	}
	dc.SetColor(originColor)
	x, y := toImage(r2.Point{})
	dc.DrawCircle(x, y, 4)
	dc.Fill()

	return dc.SavePNG(out)
}
