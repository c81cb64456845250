package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/editor"
	"github.com/rectshot/rectshot/internal/geometry"
)

func solidScreen(w, h int, c color.RGBA) canvas.ScreenImage {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return canvas.ScreenImage{
		Name:  "display-0",
		Image: img,
		Rect:  geometry.RectOf(0, 0, float64(w), float64(h)),
		DPR:   1.0,
	}
}

func newTestEditor(t *testing.T, sel geometry.Rect) (*canvas.Canvas, *editor.Editor) {
	t.Helper()
	cv, err := canvas.New([]canvas.ScreenImage{
		solidScreen(400, 300, color.RGBA{R: 80, G: 160, B: 240, A: 255}),
	})
	if err != nil {
		t.Fatalf("canvas.New: %v", err)
	}
	ed := editor.New(cv, editor.Config{InitialSelection: sel}, nil)
	return cv, ed
}

func TestFrameMasksOutsideSelectionOnly(t *testing.T) {
	cv, ed := newTestEditor(t, geometry.RectOf(150, 100, 150, 120))
	frame := New(cv, false).Frame(ed)

	base := color.RGBA{R: 80, G: 160, B: 240, A: 255}
	inside := frame.RGBAAt(220, 160)
	if inside != base {
		t.Errorf("pixel inside selection changed: got %v, want %v", inside, base)
	}

	outside := frame.RGBAAt(10, 10)
	if outside == base {
		t.Error("pixel outside selection was not masked")
	}
	if outside.R >= base.R || outside.G >= base.G || outside.B >= base.B {
		t.Errorf("dark mask should darken the pixel, got %v", outside)
	}
}

func TestFrameLightMaskBrightens(t *testing.T) {
	cv, ed := newTestEditor(t, geometry.RectOf(150, 100, 150, 120))
	frame := New(cv, true).Frame(ed)

	base := color.RGBA{R: 80, G: 160, B: 240, A: 255}
	outside := frame.RGBAAt(10, 10)
	if outside.R <= base.R {
		t.Errorf("light mask should brighten the pixel, got %v", outside)
	}
}

func TestFrameEmptySelectionMasksEverything(t *testing.T) {
	cv, ed := newTestEditor(t, geometry.Rect{})
	frame := New(cv, false).Frame(ed)

	base := color.RGBA{R: 80, G: 160, B: 240, A: 255}
	for _, p := range []image.Point{{X: 5, Y: 5}, {X: 200, Y: 150}, {X: 390, Y: 290}} {
		if got := frame.RGBAAt(p.X, p.Y); got == base {
			t.Errorf("pixel %v should be masked in empty selection state", p)
		}
	}
}

func TestFrameDrawsHandles(t *testing.T) {
	cv, ed := newTestEditor(t, geometry.RectOf(100, 80, 200, 150))
	frame := New(cv, false).Frame(ed)

	h := ed.Handles()
	for i, pos := range h.Positions {
		got := frame.RGBAAt(int(pos.X), int(pos.Y))
		want := color.RGBA(handleColor)
		if got != want {
			t.Errorf("handle %d at %v not drawn: got %v", i, pos, got)
		}
	}
}

func TestFrameMatchesCompositeSize(t *testing.T) {
	cv, ed := newTestEditor(t, geometry.RectOf(0, 0, 50, 50))
	frame := New(cv, false).Frame(ed)

	if frame.Bounds() != cv.Composite().Bounds() {
		t.Errorf("frame bounds %v differ from composite bounds %v",
			frame.Bounds(), cv.Composite().Bounds())
	}
}
