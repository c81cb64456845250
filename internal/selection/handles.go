package selection

import (
	"math"

	"github.com/rectshot/rectshot/internal/geometry"
)

// Handle radii in logical units. Touch input gets a larger base radius, and
// hit testing additionally scales the radius by DragAreaFactor.
const (
	HandleRadiusMouse = 9
	HandleRadiusTouch = 12
	DragAreaFactor    = 2.0

	minSpacingBetweenHandles = 20
)

// Handle indices into Handles.Positions.
const (
	HandleTopLeft = iota
	HandleTopRight
	HandleBottomRight
	HandleBottomLeft
	HandleTop
	HandleRight
	HandleBottom
	HandleLeft
	handleCount
)

// Handles is the derived midpoint geometry of the eight drag handles. It is
// pure derived state: recomputed from the selection and canvas bounds on
// every change, never mutated independently.
type Handles struct {
	Positions [handleCount]geometry.Point
	Radius    float64
	// Bounds is the rectangle enclosing all handles including their radius.
	Bounds geometry.Rect
}

// Compute derives handle positions for the given selection rect within the
// canvas bounds (translated so the canvas origin is 0,0).
//
// Two adjustments keep handles usable:
//   - a selection too small to space the handles gets free-floating handles
//     pushed outward by a uniform offset;
//   - handles that would fall off a canvas edge are inset so they stay
//     visible.
func Compute(sel geometry.Rect, canvasBounds geometry.Rect, radius float64) Handles {
	r := sel.Normalized()
	left := r.Left()
	centerX := r.Center().X
	right := r.Right()
	top := r.Top()
	centerY := r.Center().Y
	bottom := r.Bottom()

	var offset, offsetTop, offsetRight, offsetBottom, offsetLeft float64

	minDragHandleSpace := 4*radius + 2*minSpacingBetweenHandles
	minEdgeLength := math.Min(r.W, r.H)
	if minEdgeLength < minDragHandleSpace {
		offset = (minDragHandleSpace - minEdgeLength) / 2
	} else {
		bounds := canvasBounds.Translated(geometry.Pt(-canvasBounds.X, -canvasBounds.Y))

		offsetTop = math.Min(0, top-bounds.Top()-radius)
		offsetRight = math.Min(0, bounds.Right()-right-radius)
		offsetBottom = math.Min(0, bounds.Bottom()-bottom-radius)
		offsetLeft = math.Min(0, left-bounds.Left()-radius)
	}

	var h Handles
	h.Radius = radius
	h.Positions[HandleTopLeft] = geometry.Pt(left-offset-offsetLeft, top-offset-offsetTop)
	h.Positions[HandleTopRight] = geometry.Pt(right+offset+offsetRight, top-offset-offsetTop)
	h.Positions[HandleBottomRight] = geometry.Pt(right+offset+offsetRight, bottom+offset+offsetBottom)
	h.Positions[HandleBottomLeft] = geometry.Pt(left-offset-offsetLeft, bottom+offset+offsetBottom)
	h.Positions[HandleTop] = geometry.Pt(centerX, top-offset-offsetTop)
	h.Positions[HandleRight] = geometry.Pt(right+offset+offsetRight, centerY)
	h.Positions[HandleBottom] = geometry.Pt(centerX, bottom+offset+offsetBottom)
	h.Positions[HandleLeft] = geometry.Pt(left-offset-offsetLeft, centerY)

	tl := h.Positions[HandleTopLeft].Sub(geometry.Pt(radius, radius))
	br := h.Positions[HandleBottomRight].Add(geometry.Pt(radius, radius))
	h.Bounds = geometry.RectFromPoints(tl, br)
	return h
}

// Hit returns the index of the first handle whose enlarged circular hit zone
// contains p, testing corners before edges, or -1 when none match.
func (h Handles) Hit(p geometry.Point) int {
	hitRadius := h.Radius * DragAreaFactor
	for i := 0; i < handleCount; i++ {
		if geometry.EllipseContains(h.Positions[i], hitRadius, p) {
			return i
		}
	}
	return -1
}
