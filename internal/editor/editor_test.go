package editor

import (
	"image"
	"testing"

	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/geometry"
	"github.com/rectshot/rectshot/internal/selection"
)

type recordingSink struct {
	changes   []geometry.Rect
	accepted  bool
	img       image.Image
	region    geometry.Rect
	cancelled bool
}

func (r *recordingSink) SelectionChanged(rect geometry.Rect) { r.changes = append(r.changes, rect) }
func (r *recordingSink) Accepted(img image.Image, region geometry.Rect) {
	r.accepted = true
	r.img = img
	r.region = region
}
func (r *recordingSink) Cancelled() { r.cancelled = true }

func testCanvas(t *testing.T, w, h int) *canvas.Canvas {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	c, err := canvas.New([]canvas.ScreenImage{
		{Name: "test", Image: img, Rect: geometry.RectOf(0, 0, float64(w), float64(h)), DPR: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func press(e *Editor, x, y float64) {
	e.HandlePointer(PointerEvent{Action: PointerPress, Pos: geometry.Pt(x, y), Button: ButtonLeft})
}

func move(e *Editor, x, y float64) {
	e.HandlePointer(PointerEvent{Action: PointerMove, Pos: geometry.Pt(x, y)})
}

func release(e *Editor, x, y float64) {
	e.HandlePointer(PointerEvent{Action: PointerRelease, Pos: geometry.Pt(x, y), Button: ButtonLeft})
}

func TestDrawNewSelection(t *testing.T) {
	sink := &recordingSink{}
	e := New(testCanvas(t, 1920, 1080), Config{}, sink)

	press(e, 100, 100)
	if e.DragLocation() != LocationOutside {
		t.Fatalf("drag location: got %v, want outside", e.DragLocation())
	}
	move(e, 400, 300)
	release(e, 400, 300)

	got := e.Selection()
	want := geometry.RectOf(100, 100, 301, 201) // +1 device pixel inclusive edge
	if got != want {
		t.Errorf("selection: got %+v, want %+v", got, want)
	}
	if e.DragLocation() != LocationNone {
		t.Error("drag should end on release")
	}
	if len(sink.changes) == 0 {
		t.Error("selection changes should notify the sink")
	}
}

func TestDrawBackwardsNeverInverted(t *testing.T) {
	e := New(testCanvas(t, 1920, 1080), Config{}, nil)

	press(e, 800, 600)
	// Sweep the pointer through all quadrants around the anchor; the rect
	// must stay well-formed after every move.
	for _, p := range []geometry.Point{{X: 100, Y: 100}, {X: 900, Y: 100}, {X: 100, Y: 700}, {X: 900, Y: 700}} {
		move(e, p.X, p.Y)
		s := e.Selection()
		if s.W < 0 || s.H < 0 {
			t.Fatalf("inverted selection after move to %+v: %+v", p, s)
		}
	}
	release(e, 900, 700)
}

func TestCornerDragScenario(t *testing.T) {
	// Drag starting at TopLeft with anchor at the initial bottom-right
	// (800,600); pointer moves to (100,100) -> rect (100,100,700,500).
	e := New(testCanvas(t, 1920, 1080), Config{InitialSelection: geometry.RectOf(400, 300, 400, 300)}, nil)

	press(e, 400, 300) // top-left handle
	if e.DragLocation() != LocationTopLeft {
		t.Fatalf("drag location: got %v, want top-left", e.DragLocation())
	}
	move(e, 100, 100)

	got := e.Selection()
	want := geometry.RectOf(100, 100, 700, 500)
	if got != want {
		t.Errorf("selection: got %+v, want %+v", got, want)
	}
}

func TestEdgeDragResizesOneAxis(t *testing.T) {
	e := New(testCanvas(t, 1920, 1080), Config{InitialSelection: geometry.RectOf(400, 300, 400, 300)}, nil)

	press(e, 600, 300) // top-center handle
	if e.DragLocation() != LocationTop {
		t.Fatalf("drag location: got %v, want top", e.DragLocation())
	}
	move(e, 777, 200)

	got := e.Selection()
	if got.X != 400 || got.W != 400 {
		t.Errorf("horizontal axis must not change: got %+v", got)
	}
	if got.Y != 200 || got.H != 400 {
		t.Errorf("vertical resize wrong: got %+v", got)
	}
}

func TestInsideDragClampsToCanvas(t *testing.T) {
	cv := testCanvas(t, 1920, 1080)
	e := New(cv, Config{InitialSelection: geometry.RectOf(400, 300, 400, 300)}, nil)

	press(e, 600, 450) // inside
	if e.DragLocation() != LocationInside {
		t.Fatalf("drag location: got %v, want inside", e.DragLocation())
	}
	move(e, -5000, -5000)
	if got := e.Selection(); got != geometry.RectOf(0, 0, 400, 300) {
		t.Errorf("clamp top-left: got %+v", got)
	}
	move(e, 5000, 5000)
	if got := e.Selection(); got != geometry.RectOf(1520, 780, 400, 300) {
		t.Errorf("clamp bottom-right: got %+v", got)
	}
	if !cv.Bounds().ContainsRect(e.Selection()) {
		t.Error("inside drag escaped canvas bounds")
	}
}

func TestRightClickResetsSelection(t *testing.T) {
	e := New(testCanvas(t, 1920, 1080), Config{InitialSelection: geometry.RectOf(400, 300, 400, 300)}, nil)

	e.HandlePointer(PointerEvent{Action: PointerPress, Pos: geometry.Pt(500, 400), Button: ButtonRight})
	if !e.Selection().IsEmpty() {
		t.Errorf("right-click should reset selection, got %+v", e.Selection())
	}
}

func TestDoubleClickCommitsInsideOnly(t *testing.T) {
	sink := &recordingSink{}
	e := New(testCanvas(t, 1920, 1080), Config{InitialSelection: geometry.RectOf(400, 300, 400, 300)}, sink)

	e.HandlePointer(PointerEvent{Action: PointerDoubleClick, Pos: geometry.Pt(10, 10), Button: ButtonLeft})
	if sink.accepted {
		t.Fatal("double-click outside the selection must not commit")
	}

	e.HandlePointer(PointerEvent{Action: PointerDoubleClick, Pos: geometry.Pt(500, 400), Button: ButtonLeft})
	if !sink.accepted {
		t.Fatal("double-click inside should commit")
	}
	if sink.region != geometry.RectOf(400, 300, 400, 300) {
		t.Errorf("committed region: got %+v", sink.region)
	}
	if sink.img.Bounds().Dx() != 400 || sink.img.Bounds().Dy() != 300 {
		t.Errorf("output image: got %dx%d", sink.img.Bounds().Dx(), sink.img.Bounds().Dy())
	}
}

func TestEnterCommitsEmptyAsFullCanvas(t *testing.T) {
	sink := &recordingSink{}
	e := New(testCanvas(t, 1920, 1080), Config{}, sink)

	e.HandleKey(KeyEvent{Key: KeyEnter})
	if !sink.accepted {
		t.Fatal("Enter should commit")
	}
	if sink.region != geometry.RectOf(0, 0, 1920, 1080) {
		t.Errorf("empty commit should select everything, got %+v", sink.region)
	}
	if sink.img.Bounds().Dx() != 1920 || sink.img.Bounds().Dy() != 1080 {
		t.Errorf("output image: got %dx%d", sink.img.Bounds().Dx(), sink.img.Bounds().Dy())
	}
}

func TestEscapeCancels(t *testing.T) {
	sink := &recordingSink{}
	e := New(testCanvas(t, 1920, 1080), Config{InitialSelection: geometry.RectOf(1, 1, 10, 10)}, sink)

	e.HandleKey(KeyEvent{Key: KeyEscape})
	if !sink.cancelled || sink.accepted {
		t.Error("Escape should cancel without output")
	}
	if !e.Done() {
		t.Error("cancel is terminal")
	}
	// events after a terminal transition are ignored
	press(e, 10, 10)
	if e.DragLocation() != LocationNone {
		t.Error("terminal editor must ignore further input")
	}
}

func TestReleaseToCapture(t *testing.T) {
	sink := &recordingSink{}
	e := New(testCanvas(t, 1920, 1080), Config{ReleaseToCapture: true}, sink)

	press(e, 100, 100)
	move(e, 300, 250)
	release(e, 300, 250)
	if !sink.accepted {
		t.Fatal("release after an outside drag should commit when release-to-capture is on")
	}
	if sink.region != geometry.RectOf(100, 100, 201, 151) {
		t.Errorf("committed region: got %+v", sink.region)
	}
}

func TestReleaseToCaptureOnlyAfterOutsideDrag(t *testing.T) {
	sink := &recordingSink{}
	e := New(testCanvas(t, 1920, 1080),
		Config{ReleaseToCapture: true, InitialSelection: geometry.RectOf(400, 300, 400, 300)}, sink)

	press(e, 600, 450) // inside drag
	move(e, 650, 500)
	release(e, 650, 500)
	if sink.accepted {
		t.Error("release after an inside drag must not auto-commit")
	}
}

func TestArrowKeysMoveAndResize(t *testing.T) {
	e := New(testCanvas(t, 1920, 1080), Config{InitialSelection: geometry.RectOf(400, 300, 100, 100)}, nil)

	e.HandleKey(KeyEvent{Key: KeyRight})
	if got := e.Selection(); got != geometry.RectOf(415, 300, 100, 100) {
		t.Errorf("large-step move: got %+v", got)
	}

	e.HandleKey(KeyEvent{Key: KeyLeft, Modifiers: ModShift})
	if got := e.Selection(); got != geometry.RectOf(414, 300, 100, 100) {
		t.Errorf("device-pixel move: got %+v", got)
	}

	e.HandleKey(KeyEvent{Key: KeyDown, Modifiers: ModAlt})
	if got := e.Selection(); got != geometry.RectOf(414, 300, 100, 115) {
		t.Errorf("alt resize: got %+v", got)
	}
}

func TestArrowKeyResizeNormalizesNegative(t *testing.T) {
	e := New(testCanvas(t, 1920, 1080), Config{InitialSelection: geometry.RectOf(400, 300, 10, 10)}, nil)

	// Shrinking a 10-unit selection by the 15-unit step inverts it; the
	// result must come back normalized.
	e.HandleKey(KeyEvent{Key: KeyLeft, Modifiers: ModAlt})
	got := e.Selection()
	if got.W < 0 || got.H < 0 {
		t.Fatalf("negative-size selection after alt resize: %+v", got)
	}
}

func TestArrowKeysClampedToCanvas(t *testing.T) {
	cv := testCanvas(t, 1920, 1080)
	e := New(cv, Config{InitialSelection: geometry.RectOf(5, 5, 100, 100)}, nil)

	for i := 0; i < 10; i++ {
		e.HandleKey(KeyEvent{Key: KeyLeft})
		e.HandleKey(KeyEvent{Key: KeyUp})
	}
	if got := e.Selection(); got != geometry.RectOf(0, 0, 100, 100) {
		t.Errorf("move clamp: got %+v", got)
	}
	if !cv.Bounds().ContainsRect(e.Selection()) {
		t.Error("keyboard move escaped canvas")
	}
}

func TestArrowKeysLockedWhileDragging(t *testing.T) {
	e := New(testCanvas(t, 1920, 1080), Config{InitialSelection: geometry.RectOf(400, 300, 100, 100)}, nil)

	press(e, 450, 350)
	e.HandleKey(KeyEvent{Key: KeyRight})
	if got := e.Selection(); got != geometry.RectOf(400, 300, 100, 100) {
		t.Errorf("arrow keys must be inert mid-drag: got %+v", got)
	}
	release(e, 450, 350)
	e.HandleKey(KeyEvent{Key: KeyRight})
	if got := e.Selection(); got == geometry.RectOf(400, 300, 100, 100) {
		t.Error("arrow keys should work again after release")
	}
}

func TestClassifierPrecedence(t *testing.T) {
	cv := geometry.RectOf(0, 0, 1920, 1080)
	sel := geometry.RectOf(400, 300, 400, 300)
	handles := selection.Compute(sel, cv, selection.HandleRadiusMouse)

	tests := []struct {
		name string
		pos  geometry.Point
		want Location
	}{
		{"far outside", geometry.Pt(10, 10), LocationOutside},
		{"deep inside", geometry.Pt(600, 450), LocationInside},
		{"top-left corner", geometry.Pt(400, 300), LocationTopLeft},
		{"bottom-right corner", geometry.Pt(800, 600), LocationBottomRight},
		{"top-center handle", geometry.Pt(600, 300), LocationTop},
		{"left-center handle", geometry.Pt(400, 450), LocationLeft},
		{"top border strip", geometry.Pt(700, 305), LocationTop},
		{"bottom border strip", geometry.Pt(700, 595), LocationBottom},
		{"left border strip", geometry.Pt(405, 380), LocationLeft},
		{"right border strip", geometry.Pt(795, 380), LocationRight},
		// near the corner both the corner and edge zones overlap; the
		// corner wins
		{"corner shadows edge", geometry.Pt(412, 300), LocationTopLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.pos, sel, handles); got != tt.want {
				t.Errorf("Classify(%+v): got %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestClassifierSmallSelectionHasNoBorderZones(t *testing.T) {
	cv := geometry.RectOf(0, 0, 1920, 1080)
	sel := geometry.RectOf(400, 300, 60, 60)
	handles := selection.Compute(sel, cv, selection.HandleRadiusMouse)

	// Small selections skip border strips; points near the edge but outside
	// the (free-floating) handle zones classify as Inside.
	got := Classify(geometry.Pt(412, 330), sel, handles)
	if got != LocationInside {
		t.Errorf("small selection border: got %v, want inside", got)
	}
}

func TestClassifierEmptySelectionIsAlwaysOutside(t *testing.T) {
	cv := geometry.RectOf(0, 0, 1920, 1080)
	handles := selection.Compute(geometry.Rect{}, cv, selection.HandleRadiusMouse)

	// With no selection the free-floating handle offsets cluster around the
	// origin; none of them may register as grabbable.
	for _, p := range []geometry.Point{{X: 0, Y: 0}, {X: 30, Y: 30}, {X: -38, Y: -38}, {X: 600, Y: 450}} {
		if got := Classify(p, geometry.Rect{}, handles); got != LocationOutside {
			t.Errorf("Classify(%+v) on empty selection: got %v, want outside", p, got)
		}
	}
}

func TestCursorGrouping(t *testing.T) {
	pairs := map[Location]Cursor{
		LocationTopLeft:     CursorSizeNWSE,
		LocationBottomRight: CursorSizeNWSE,
		LocationTopRight:    CursorSizeNESW,
		LocationBottomLeft:  CursorSizeNESW,
		LocationTop:         CursorSizeVertical,
		LocationBottom:      CursorSizeVertical,
		LocationLeft:        CursorSizeHorizontal,
		LocationRight:       CursorSizeHorizontal,
		LocationInside:      CursorOpenHand,
		LocationOutside:     CursorCrosshair,
	}
	for loc, want := range pairs {
		if got := CursorFor(loc); got != want {
			t.Errorf("CursorFor(%v): got %v, want %v", loc, got, want)
		}
	}
}
