// Package canvas merges independently captured per-screen images into one
// addressable coordinate space and extracts cropped output images for
// committed selections. Screens may have differing device pixel ratios; the
// canvas keeps them aligned without overlap or gaps.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/rectshot/rectshot/internal/geometry"
	"github.com/rectshot/rectshot/internal/logger"
)

// ScreenImage is one captured display: an immutable pixel buffer, its logical
// placement in the virtual desktop, and its device pixel ratio. Produced by a
// capture backend, consumed read-only here.
type ScreenImage struct {
	Name  string
	Image image.Image
	Rect  geometry.Rect
	DPR   float64
}

// PixelSize returns the source buffer dimensions.
func (s ScreenImage) PixelSize() image.Point {
	b := s.Image.Bounds()
	return image.Pt(b.Dx(), b.Dy())
}

// Canvas is the union of all screens' logical rectangles plus a composited
// preview image at native pixel resolution.
type Canvas struct {
	screens    []ScreenImage
	bounds     geometry.Rect
	maxDPR     float64
	composite  *image.RGBA
	placements []image.Point
}

// New builds a canvas from the captured screens. Screens are composited in
// position order (left-to-right, top-to-bottom); when pixel densities differ,
// the pixel placement of later screens is shifted by the size delta the
// earlier, denser screens introduce, so the composite has no overlap and no
// gaps even though pixel sizes are not proportional to logical placement.
func New(screens []ScreenImage) (*Canvas, error) {
	if len(screens) == 0 {
		return nil, fmt.Errorf("no screen images provided")
	}

	ordered := make([]ScreenImage, len(screens))
	copy(ordered, screens)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Rect.X != ordered[j].Rect.X {
			return ordered[i].Rect.X < ordered[j].Rect.X
		}
		return ordered[i].Rect.Y < ordered[j].Rect.Y
	})

	c := &Canvas{screens: ordered, maxDPR: 1}
	for _, s := range ordered {
		if s.Image == nil {
			return nil, fmt.Errorf("screen %q has no image", s.Name)
		}
		c.bounds = c.bounds.Union(s.Rect)
		if s.DPR > c.maxDPR {
			c.maxDPR = s.DPR
		}
	}

	c.placements = pixelPlacements(ordered, c.bounds)
	c.compose()

	logger.WithComponent("canvas").Debug().
		Int("screens", len(ordered)).
		Float64("max_dpr", c.maxDPR).
		Str("bounds", fmt.Sprintf("%+v", c.bounds)).
		Msg("Canvas built")

	return c, nil
}

// pixelPlacements computes where each screen's pixel buffer lands in the
// composite. The base position is the logical offset from the canvas origin;
// screens placed at or beyond a denser screen's far edge are shifted by that
// screen's accumulated pixel-size delta.
func pixelPlacements(screens []ScreenImage, bounds geometry.Rect) []image.Point {
	placements := make([]image.Point, len(screens))
	for i, s := range screens {
		origin := s.Rect.TopLeft().Sub(bounds.TopLeft())
		placements[i] = image.Pt(int(math.Round(origin.X)), int(math.Round(origin.Y)))
	}

	for i, s := range screens {
		px := s.PixelSize()
		deltaX := px.X - int(math.Round(s.Rect.W))
		deltaY := px.Y - int(math.Round(s.Rect.H))
		if deltaX == 0 && deltaY == 0 {
			continue
		}
		for j := range screens {
			if j == i {
				continue
			}
			if screens[j].Rect.X >= s.Rect.Right() {
				placements[j].X += deltaX
			}
			if screens[j].Rect.Y >= s.Rect.Bottom() {
				placements[j].Y += deltaY
			}
		}
	}
	return placements
}

func (c *Canvas) compose() {
	var size image.Point
	for i, s := range c.screens {
		px := s.PixelSize()
		if far := c.placements[i].X + px.X; far > size.X {
			size.X = far
		}
		if far := c.placements[i].Y + px.Y; far > size.Y {
			size.Y = far
		}
	}

	c.composite = image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(c.composite, c.composite.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	for i, s := range c.screens {
		px := s.PixelSize()
		dst := image.Rectangle{Min: c.placements[i], Max: c.placements[i].Add(px)}
		draw.Draw(c.composite, dst, s.Image, s.Image.Bounds().Min, draw.Src)
	}
}

// Bounds returns the logical union of all screens, the editor's addressable
// coordinate space.
func (c *Canvas) Bounds() geometry.Rect {
	return c.bounds
}

// MaxDPR returns the highest device pixel ratio among the screens.
func (c *Canvas) MaxDPR() float64 {
	return c.maxDPR
}

// Screens returns the captured screens in composite order.
func (c *Canvas) Screens() []ScreenImage {
	return c.screens
}

// Composite returns the unified native-resolution preview image.
func (c *Canvas) Composite() *image.RGBA {
	return c.composite
}

// Crop extracts the output image for a committed selection.
//
// An empty selection means "select everything" and yields the full canvas. A
// selection fully contained in one screen returns that screen's sub-image at
// native resolution, untouched. A selection spanning screens is rendered at
// the maximum device pixel ratio among the intersecting screens, with
// lower-density portions upscaled (nearest neighbor, no smoothing) so the
// output has uniform effective resolution.
func (c *Canvas) Crop(sel geometry.Rect) image.Image {
	region := sel.Normalized()
	if region.IsEmpty() {
		region = c.bounds
	}
	selRect := region.ToImageRect()

	maxDPR := 1.0
	for _, s := range c.screens {
		if s.Rect.Intersects(region) && s.DPR > maxDPR {
			maxDPR = s.DPR
		}
	}

	outW := int(math.Round(float64(selRect.Dx()) * maxDPR))
	outH := int(math.Round(float64(selRect.Dy()) * maxDPR))
	output := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(output, output.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	for _, s := range c.screens {
		screenRect := s.Rect.ToImageRect()
		intersected := screenRect.Intersect(selRect)
		if intersected.Empty() {
			continue
		}

		// Source pixels of the intersection, in the screen's own buffer.
		srcMin := image.Pt(
			int(math.Round(float64(intersected.Min.X-screenRect.Min.X)*s.DPR)),
			int(math.Round(float64(intersected.Min.Y-screenRect.Min.Y)*s.DPR)),
		)
		srcRect := image.Rectangle{
			Min: srcMin,
			Max: srcMin.Add(image.Pt(
				int(math.Round(float64(intersected.Dx())*s.DPR)),
				int(math.Round(float64(intersected.Dy())*s.DPR)),
			)),
		}
		screenOutput := imaging.Crop(s.Image, srcRect.Add(s.Image.Bounds().Min))

		if intersected.Size() == selRect.Size() {
			// Selection is contained in this one screen: return its pixels
			// at native resolution, no resampling.
			return screenOutput
		}

		scaled := screenOutput
		if s.DPR != maxDPR {
			w := int(math.Round(float64(intersected.Dx()) * maxDPR))
			h := int(math.Round(float64(intersected.Dy()) * maxDPR))
			scaled = imaging.Resize(screenOutput, w, h, imaging.NearestNeighbor)
		}

		dstMin := image.Pt(
			int(math.Round(float64(intersected.Min.X-selRect.Min.X)*maxDPR)),
			int(math.Round(float64(intersected.Min.Y-selRect.Min.Y)*maxDPR)),
		)
		dst := image.Rectangle{Min: dstMin, Max: dstMin.Add(scaled.Bounds().Size())}
		draw.Draw(output, dst, scaled, scaled.Bounds().Min, draw.Src)
	}

	return output
}
