// Package geometry provides the logical-coordinate math shared by the
// selection editor and the screen compositor. All values are in
// DPI-independent units; conversion to pixel space happens only at the
// canvas/crop boundary.
package geometry

import (
	"image"
	"math"
)

// Point is a position in logical coordinates.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by f on both axes.
func (p Point) Mul(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Rect is an axis-aligned rectangle in logical coordinates. Width and height
// may be transiently negative while a drag is under construction; callers
// commit only normalized rects.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// RectOf builds a Rect from origin and size.
func RectOf(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromPoints builds the normalized rectangle spanning p and q.
func RectFromPoints(p, q Point) Rect {
	return Rect{
		X: math.Min(p.X, q.X),
		Y: math.Min(p.Y, q.Y),
		W: math.Abs(q.X - p.X),
		H: math.Abs(q.Y - p.Y),
	}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// TopLeft returns the origin corner.
func (r Rect) TopLeft() Point { return Point{X: r.X, Y: r.Y} }

// TopRight returns the top-right corner.
func (r Rect) TopRight() Point { return Point{X: r.Right(), Y: r.Y} }

// BottomLeft returns the bottom-left corner.
func (r Rect) BottomLeft() Point { return Point{X: r.X, Y: r.Bottom()} }

// BottomRight returns the bottom-right corner.
func (r Rect) BottomRight() Point { return Point{X: r.Right(), Y: r.Bottom()} }

// Center returns the midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Normalized returns r with non-negative width and height, flipping inverted
// edges in place.
func (r Rect) Normalized() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Translated returns r moved by d.
func (r Rect) Translated(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// MovedTo returns r with its origin at p.
func (r Rect) MovedTo(p Point) Rect {
	return Rect{X: p.X, Y: p.Y, W: r.W, H: r.H}
}

// Contains reports whether p lies inside the normalized rect. The right and
// bottom edges are exclusive, matching integer pixel rectangles.
func (r Rect) Contains(p Point) bool {
	n := r.Normalized()
	return p.X >= n.X && p.X < n.Right() && p.Y >= n.Y && p.Y < n.Bottom()
}

// ContainsRect reports whether the normalized inner rect lies fully inside r.
func (r Rect) ContainsRect(inner Rect) bool {
	n := r.Normalized()
	i := inner.Normalized()
	return i.X >= n.X && i.Y >= n.Y && i.Right() <= n.Right() && i.Bottom() <= n.Bottom()
}

// Union returns the smallest rect containing both r and o. An empty operand
// contributes nothing.
func (r Rect) Union(o Rect) Rect {
	n := r.Normalized()
	m := o.Normalized()
	if n.W == 0 && n.H == 0 {
		return m
	}
	if m.W == 0 && m.H == 0 {
		return n
	}
	x := math.Min(n.X, m.X)
	y := math.Min(n.Y, m.Y)
	return Rect{
		X: x,
		Y: y,
		W: math.Max(n.Right(), m.Right()) - x,
		H: math.Max(n.Bottom(), m.Bottom()) - y,
	}
}

// Intersect returns the overlap of r and o, or a zero Rect when they are
// disjoint.
func (r Rect) Intersect(o Rect) Rect {
	n := r.Normalized()
	m := o.Normalized()
	x := math.Max(n.X, m.X)
	y := math.Max(n.Y, m.Y)
	w := math.Min(n.Right(), m.Right()) - x
	h := math.Min(n.Bottom(), m.Bottom()) - y
	if w <= 0 || h <= 0 {
		return Rect{}
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).IsEmpty()
}

// Adjusted returns r with each edge shifted by the given deltas, mirroring
// the source-rect adjustment idiom used for border strips.
func (r Rect) Adjusted(dx1, dy1, dx2, dy2 float64) Rect {
	return Rect{X: r.X + dx1, Y: r.Y + dy1, W: r.W + dx2 - dx1, H: r.H + dy2 - dy1}
}

// ClampInside returns r moved by the smallest translation that keeps it
// inside bounds. A rect larger than bounds is pinned to the bounds origin on
// that axis.
func (r Rect) ClampInside(bounds Rect) Rect {
	b := bounds.Normalized()
	n := r.Normalized()
	x := math.Min(b.Right()-n.W, math.Max(n.X, b.X))
	y := math.Min(b.Bottom()-n.H, math.Max(n.Y, b.Y))
	if x < b.X {
		x = b.X
	}
	if y < b.Y {
		y = b.Y
	}
	return Rect{X: x, Y: y, W: n.W, H: n.H}
}

// Scaled returns r with origin and size multiplied by f.
func (r Rect) Scaled(f float64) Rect {
	return Rect{X: r.X * f, Y: r.Y * f, W: r.W * f, H: r.H * f}
}

// ToImageRect rounds r to the nearest integer pixel rectangle.
func (r Rect) ToImageRect() image.Rectangle {
	n := r.Normalized()
	x0 := int(math.Round(n.X))
	y0 := int(math.Round(n.Y))
	x1 := int(math.Round(n.Right()))
	y1 := int(math.Round(n.Bottom()))
	return image.Rect(x0, y0, x1, y1)
}

// FromImageRect converts an integer pixel rectangle to a Rect.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// EllipseContains reports whether p lies inside the circle centered at c with
// the given radius. Handle hit zones are circular.
func EllipseContains(c Point, radius float64, p Point) bool {
	dx := p.X - c.X
	dy := p.Y - c.Y
	return dx*dx+dy*dy <= radius*radius
}

// DPRRound rounds value to the nearest multiple of one device pixel, so that
// logical coordinates land on physical pixel boundaries.
func DPRRound(value, dpr float64) float64 {
	if dpr <= 0 {
		return math.Round(value)
	}
	return math.Round(value*dpr) / dpr
}
