// Package render draws editor frames: the captured canvas with the mask,
// selection border, drag handles, magnifier and size label on top.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/editor"
	"github.com/rectshot/rectshot/internal/geometry"
)

const (
	// Magnifier geometry, in logical units around the pointer.
	magZoom   = 5
	magPixels = 16
	magOffset = 32

	labelPadding = 4
)

var (
	maskDark  = color.NRGBA{R: 0, G: 0, B: 0, A: 140}
	maskLight = color.NRGBA{R: 255, G: 255, B: 255, A: 100}

	borderColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	handleColor    = color.NRGBA{R: 61, G: 174, B: 233, A: 255}
	crosshairColor = color.NRGBA{R: 255, G: 0, B: 0, A: 180}

	labelBG = color.NRGBA{R: 0, G: 0, B: 0, A: 180}
	labelFG = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Renderer composes one frame per call from the current editor state. The
// frame is rendered at the canvas's native pixel resolution.
type Renderer struct {
	cv        *canvas.Canvas
	lightMask bool
	dpr       float64
	origin    geometry.Point
}

// New creates a renderer for the canvas. lightMask selects the white mask
// variant for dark screen content.
func New(cv *canvas.Canvas, lightMask bool) *Renderer {
	b := cv.Bounds()
	return &Renderer{
		cv:        cv,
		lightMask: lightMask,
		dpr:       cv.MaxDPR(),
		origin:    geometry.Pt(b.X, b.Y),
	}
}

// Frame renders the editor state over a copy of the composite.
func (r *Renderer) Frame(ed *editor.Editor) *image.RGBA {
	base := r.cv.Composite()
	frame := image.NewRGBA(base.Bounds())
	draw.Draw(frame, frame.Bounds(), base, base.Bounds().Min, draw.Src)

	sel := ed.Selection().Normalized()
	r.drawMask(frame, sel)

	if sel.W > 0 || sel.H > 0 {
		r.drawBorder(frame, sel)
		r.drawHandles(frame, ed)
		r.drawSizeLabel(frame, sel)
	}

	if ed.MagnifierVisible() {
		r.drawMagnifier(frame, base, ed.PointerPos())
	}

	return frame
}

// toPixels maps a logical rect to frame pixel coordinates.
func (r *Renderer) toPixels(rect geometry.Rect) image.Rectangle {
	return rect.Translated(geometry.Pt(-r.origin.X, -r.origin.Y)).Scaled(r.dpr).ToImageRect()
}

func (r *Renderer) toPixelPoint(p geometry.Point) image.Point {
	return image.Pt(
		int(geometry.DPRRound(p.X-r.origin.X, r.dpr)*r.dpr),
		int(geometry.DPRRound(p.Y-r.origin.Y, r.dpr)*r.dpr),
	)
}

// drawMask dims the four strips outside the selection. An empty selection
// dims the whole canvas.
func (r *Renderer) drawMask(frame *image.RGBA, sel geometry.Rect) {
	mask := maskDark
	if r.lightMask {
		mask = maskLight
	}
	src := image.NewUniform(mask)

	full := frame.Bounds()
	if sel.IsEmpty() {
		draw.Draw(frame, full, src, image.Point{}, draw.Over)
		return
	}

	px := r.toPixels(sel)
	strips := []image.Rectangle{
		image.Rect(full.Min.X, full.Min.Y, full.Max.X, px.Min.Y),
		image.Rect(full.Min.X, px.Max.Y, full.Max.X, full.Max.Y),
		image.Rect(full.Min.X, px.Min.Y, px.Min.X, px.Max.Y),
		image.Rect(px.Max.X, px.Min.Y, full.Max.X, px.Max.Y),
	}
	for _, strip := range strips {
		draw.Draw(frame, strip.Intersect(full), src, image.Point{}, draw.Over)
	}
}

func (r *Renderer) drawBorder(frame *image.RGBA, sel geometry.Rect) {
	px := r.toPixels(sel)
	w := int(r.dpr)
	if w < 1 {
		w = 1
	}
	src := image.NewUniform(borderColor)
	edges := []image.Rectangle{
		image.Rect(px.Min.X-w, px.Min.Y-w, px.Max.X+w, px.Min.Y),
		image.Rect(px.Min.X-w, px.Max.Y, px.Max.X+w, px.Max.Y+w),
		image.Rect(px.Min.X-w, px.Min.Y, px.Min.X, px.Max.Y),
		image.Rect(px.Max.X, px.Min.Y, px.Max.X+w, px.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(frame, edge.Intersect(frame.Bounds()), src, image.Point{}, draw.Over)
	}
}

func (r *Renderer) drawHandles(frame *image.RGBA, ed *editor.Editor) {
	h := ed.Handles()
	for _, pos := range h.Positions {
		r.drawDisc(frame, pos, h.Radius)
	}
}

// drawDisc fills a circle of the given logical radius at a logical center.
func (r *Renderer) drawDisc(frame *image.RGBA, center geometry.Point, radius float64) {
	c := r.toPixelPoint(center)
	pr := int(radius * r.dpr)
	bounds := frame.Bounds()
	for y := c.Y - pr; y <= c.Y+pr; y++ {
		for x := c.X - pr; x <= c.X+pr; x++ {
			if !(image.Pt(x, y).In(bounds)) {
				continue
			}
			dx, dy := float64(x-c.X), float64(y-c.Y)
			if dx*dx+dy*dy <= float64(pr*pr) {
				frame.Set(x, y, handleColor)
			}
		}
	}
}

// drawMagnifier renders a zoomed crop of the unmasked canvas next to the
// pointer with a pixel crosshair at its center.
func (r *Renderer) drawMagnifier(frame *image.RGBA, base *image.RGBA, pointer geometry.Point) {
	p := r.toPixelPoint(pointer)
	halo := int(magPixels * r.dpr)

	srcRect := image.Rect(p.X-halo, p.Y-halo, p.X+halo, p.Y+halo).Intersect(base.Bounds())
	if srcRect.Empty() {
		return
	}

	src := imaging.Crop(base, srcRect)
	zoomed := imaging.Resize(src, srcRect.Dx()*magZoom, srcRect.Dy()*magZoom, imaging.NearestNeighbor)

	offset := int(magOffset * r.dpr)
	dst := image.Rect(p.X+offset, p.Y+offset, p.X+offset+zoomed.Bounds().Dx(), p.Y+offset+zoomed.Bounds().Dy())

	// Flip to the opposite side when the default placement leaves the frame.
	if dst.Max.X > frame.Bounds().Max.X {
		dst = dst.Sub(image.Pt(dst.Dx()+2*offset, 0))
	}
	if dst.Max.Y > frame.Bounds().Max.Y {
		dst = dst.Sub(image.Pt(0, dst.Dy()+2*offset))
	}

	clipped := dst.Intersect(frame.Bounds())
	draw.Draw(frame, clipped, zoomed, zoomed.Bounds().Min.Add(clipped.Min.Sub(dst.Min)), draw.Src)

	// Crosshair over the magnified center pixel.
	cx := dst.Min.X + dst.Dx()/2
	cy := dst.Min.Y + dst.Dy()/2
	ch := image.NewUniform(crosshairColor)
	draw.Draw(frame, image.Rect(dst.Min.X, cy, dst.Max.X, cy+1).Intersect(frame.Bounds()), ch, image.Point{}, draw.Over)
	draw.Draw(frame, image.Rect(cx, dst.Min.Y, cx+1, dst.Max.Y).Intersect(frame.Bounds()), ch, image.Point{}, draw.Over)
}

// drawSizeLabel prints the selection's logical size near its bottom edge.
func (r *Renderer) drawSizeLabel(frame *image.RGBA, sel geometry.Rect) {
	label := fmt.Sprintf("%d x %d", int(sel.W+0.5), int(sel.H+0.5))
	face := basicfont.Face7x13

	width := font.MeasureString(face, label).Ceil()
	height := face.Metrics().Height.Ceil()

	px := r.toPixels(sel)
	x := px.Min.X + (px.Dx()-width)/2 - labelPadding
	y := px.Max.Y + labelPadding
	if y+height+2*labelPadding > frame.Bounds().Max.Y {
		y = px.Max.Y - height - 3*labelPadding
	}

	bg := image.Rect(x, y, x+width+2*labelPadding, y+height+2*labelPadding).Intersect(frame.Bounds())
	if bg.Empty() {
		return
	}
	draw.Draw(frame, bg, image.NewUniform(labelBG), image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(labelFG),
		Face: face,
		Dot: fixed.P(
			x+labelPadding,
			y+labelPadding+face.Metrics().Ascent.Ceil(),
		),
	}
	d.DrawString(label)
}
