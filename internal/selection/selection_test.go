package selection

import (
	"testing"

	"github.com/rectshot/rectshot/internal/geometry"
)

func TestSelectionNotifiesObservers(t *testing.T) {
	s := New()
	var got []geometry.Rect
	s.Subscribe(func(r geometry.Rect) {
		got = append(got, r)
	})

	s.SetRect(geometry.RectOf(1, 2, 3, 4))
	s.SetRect(geometry.RectOf(1, 2, 3, 4)) // no-op, same rect
	s.Reset()

	if len(got) != 2 {
		t.Fatalf("observer calls: got %d, want 2", len(got))
	}
	if got[0] != geometry.RectOf(1, 2, 3, 4) {
		t.Errorf("first notification: got %+v", got[0])
	}
	if got[1] != (geometry.Rect{}) {
		t.Errorf("reset notification: got %+v", got[1])
	}
}

func TestSelectionNormalized(t *testing.T) {
	s := New()
	s.SetRect(geometry.RectOf(100, 100, -40, -30))
	n := s.Normalized()
	if n != geometry.RectOf(60, 70, 40, 30) {
		t.Errorf("Normalized: got %+v", n)
	}
	if s.IsEmpty() {
		t.Error("selection with area should not be empty")
	}
}

func TestHandlePositionsLargeSelection(t *testing.T) {
	canvas := geometry.RectOf(0, 0, 1920, 1080)
	sel := geometry.RectOf(400, 300, 400, 300)
	h := Compute(sel, canvas, HandleRadiusMouse)

	want := map[int]geometry.Point{
		HandleTopLeft:     geometry.Pt(400, 300),
		HandleTopRight:    geometry.Pt(800, 300),
		HandleBottomRight: geometry.Pt(800, 600),
		HandleBottomLeft:  geometry.Pt(400, 600),
		HandleTop:         geometry.Pt(600, 300),
		HandleRight:       geometry.Pt(800, 450),
		HandleBottom:      geometry.Pt(600, 600),
		HandleLeft:        geometry.Pt(400, 450),
	}
	for idx, pos := range want {
		if h.Positions[idx] != pos {
			t.Errorf("handle %d: got %+v, want %+v", idx, h.Positions[idx], pos)
		}
	}
}

func TestHandlePositionsSmallSelectionFloatFree(t *testing.T) {
	canvas := geometry.RectOf(0, 0, 1920, 1080)
	// 20x20 selection is smaller than the min drag handle space, so handles
	// float outward by a uniform offset.
	sel := geometry.RectOf(500, 500, 20, 20)
	h := Compute(sel, canvas, HandleRadiusMouse)

	tl := h.Positions[HandleTopLeft]
	br := h.Positions[HandleBottomRight]
	if tl.X >= sel.X || tl.Y >= sel.Y {
		t.Errorf("small-selection top-left handle should float outside: %+v", tl)
	}
	if br.X <= sel.Right() || br.Y <= sel.Bottom() {
		t.Errorf("small-selection bottom-right handle should float outside: %+v", br)
	}
	// offset must be symmetric
	if sel.X-tl.X != br.X-sel.Right() {
		t.Errorf("asymmetric float offset: left %v right %v", sel.X-tl.X, br.X-sel.Right())
	}
}

func TestHandlePositionsInsetAtCanvasEdge(t *testing.T) {
	canvas := geometry.RectOf(0, 0, 1920, 1080)
	// Large selection flush against the top-left corner: those handles get
	// inset so they stay visible.
	sel := geometry.RectOf(0, 0, 800, 600)
	h := Compute(sel, canvas, HandleRadiusMouse)

	if h.Positions[HandleTopLeft].X < HandleRadiusMouse {
		t.Errorf("left handles should be inset by radius, got x=%v", h.Positions[HandleTopLeft].X)
	}
	if h.Positions[HandleTopLeft].Y < HandleRadiusMouse {
		t.Errorf("top handles should be inset by radius, got y=%v", h.Positions[HandleTopLeft].Y)
	}
	// The bottom-right handle is far from any edge and stays put.
	if h.Positions[HandleBottomRight] != geometry.Pt(800, 600) {
		t.Errorf("bottom-right handle moved: %+v", h.Positions[HandleBottomRight])
	}
}

func TestHandlesHitOrder(t *testing.T) {
	canvas := geometry.RectOf(0, 0, 1920, 1080)
	sel := geometry.RectOf(400, 300, 400, 300)
	h := Compute(sel, canvas, HandleRadiusMouse)

	if got := h.Hit(geometry.Pt(400, 300)); got != HandleTopLeft {
		t.Errorf("top-left hit: got %d", got)
	}
	if got := h.Hit(geometry.Pt(600, 300)); got != HandleTop {
		t.Errorf("top-center hit: got %d", got)
	}
	if got := h.Hit(geometry.Pt(600, 450)); got != -1 {
		t.Errorf("selection center should miss all handles, got %d", got)
	}
	// Enlarged hit zone: radius*factor away still hits.
	if got := h.Hit(geometry.Pt(400+HandleRadiusMouse*DragAreaFactor-1, 300)); got != HandleTopLeft {
		t.Errorf("enlarged zone hit: got %d", got)
	}
}
