package model

import "math"

// Rect is an axis-aligned rectangle in page coordinates. The origin is the
// top-left corner of the page and Y grows downward, matching the wire
// format produced by text extraction tools.
type Rect struct {
	XMin, YMin, XMax, YMax float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.XMax - r.XMin
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.YMax - r.YMin
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		XMin: math.Min(r.XMin, other.XMin),
		YMin: math.Min(r.YMin, other.YMin),
		XMax: math.Max(r.XMax, other.XMax),
		YMax: math.Max(r.YMax, other.YMax),
	}
}

// GapAbove returns the vertical distance from the bottom of upper to the
// top of r. The result is negative when the rectangles overlap vertically.
func (r Rect) GapAbove(upper Rect) float64 {
	return r.YMin - upper.YMax
}

// HorizontallyContains reports whether other's X range lies inside r's,
// allowing the given tolerance on both edges.
func (r Rect) HorizontallyContains(other Rect, tolerance float64) bool {
	return (other.XMin >= r.XMin || math.Abs(other.XMin-r.XMin) < tolerance) &&
		(other.XMax <= r.XMax || math.Abs(other.XMax-r.XMax) < tolerance)
}
