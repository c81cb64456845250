// Package editor implements the pointer- and keyboard-driven state machine
// that lets a user draw, move, and resize a rectangular capture region over a
// composited multi-screen canvas.
//
// The editor is single-threaded by contract: events are delivered one at a
// time and every state transition happens synchronously inside the handler.
// There is exactly one terminal event per session — accepted or cancelled.
package editor

import (
	"image"
	"math"

	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/geometry"
	"github.com/rectshot/rectshot/internal/logger"
	"github.com/rectshot/rectshot/internal/selection"
)

// Arrow keys move by this many logical units unless Shift narrows the step
// to one device pixel.
const largeStep = 15

// Config carries the externally supplied editor options.
type Config struct {
	// ReleaseToCapture commits the selection as soon as the button is
	// released after drawing a new rectangle.
	ReleaseToCapture bool
	// ShowMagnifier enables the loupe while resizing. Holding Shift
	// toggles it either way.
	ShowMagnifier bool
	// InitialSelection preseeds the selection, typically the remembered
	// region from the previous run. Clipped to the canvas.
	InitialSelection geometry.Rect
}

// EventSink receives the editor's outbound notifications. All calls are
// synchronous, made from inside event handlers.
type EventSink interface {
	// SelectionChanged fires after every selection mutation.
	SelectionChanged(geometry.Rect)
	// Accepted is the terminal success event: the cropped output image and
	// the committed region.
	Accepted(img image.Image, region geometry.Rect)
	// Cancelled is the terminal abort event. No output is produced.
	Cancelled()
}

type dragContext struct {
	location       Location
	anchor         geometry.Point
	initialTopLeft geometry.Point
}

// Editor owns the selection for one capture session.
type Editor struct {
	canvas  *canvas.Canvas
	sel     *selection.Selection
	handles selection.Handles
	cfg     Config
	sink    EventSink

	dpr          float64
	devicePixel  float64
	handleRadius float64

	drag             *dragContext
	pointerPos       geometry.Point
	magnifierAllowed bool
	magnifierToggled bool
	arrowKeysLocked  bool
	done             bool
}

// New builds an editor session over the given canvas.
func New(cv *canvas.Canvas, cfg Config, sink EventSink) *Editor {
	dpr := cv.MaxDPR()
	e := &Editor{
		canvas:       cv,
		sel:          selection.New(),
		cfg:          cfg,
		sink:         sink,
		dpr:          dpr,
		devicePixel:  1 / dpr,
		handleRadius: selection.HandleRadiusMouse,
	}
	e.sel.Subscribe(func(r geometry.Rect) {
		e.handles = selection.Compute(r, cv.Bounds(), e.handleRadius)
		if e.sink != nil {
			e.sink.SelectionChanged(r)
		}
	})

	if preseed := cfg.InitialSelection.Normalized().Intersect(cv.Bounds()); !preseed.IsEmpty() {
		e.sel.SetRect(preseed)
	} else {
		e.handles = selection.Compute(geometry.Rect{}, cv.Bounds(), e.handleRadius)
	}
	return e
}

// Selection returns the current normalized selection rect.
func (e *Editor) Selection() geometry.Rect {
	return e.sel.Normalized()
}

// Handles returns the current derived handle geometry.
func (e *Editor) Handles() selection.Handles {
	return e.handles
}

// PointerPos returns the last observed pointer position.
func (e *Editor) PointerPos() geometry.Point {
	return e.pointerPos
}

// DragLocation returns the active drag kind, or LocationNone when idle.
func (e *Editor) DragLocation() Location {
	if e.drag == nil {
		return LocationNone
	}
	return e.drag.location
}

// HoverCursor returns the cursor shape for the current pointer position.
func (e *Editor) HoverCursor() Cursor {
	return CursorFor(Classify(e.pointerPos, e.sel.Rect(), e.handles))
}

// MagnifierVisible reports whether the loupe should be painted right now.
func (e *Editor) MagnifierVisible() bool {
	return e.magnifierAllowed && (e.cfg.ShowMagnifier != e.magnifierToggled)
}

// Done reports whether a terminal event has fired.
func (e *Editor) Done() bool {
	return e.done
}

// HandlePointer processes one pointer event.
func (e *Editor) HandlePointer(ev PointerEvent) {
	if e.done {
		return
	}
	switch ev.Action {
	case PointerPress:
		e.pointerPress(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerRelease:
		e.pointerRelease(ev)
	case PointerDoubleClick:
		if ev.Button == ButtonLeft && !e.sel.IsEmpty() && e.sel.Contains(ev.Pos) {
			e.Accept()
		}
	}
}

func (e *Editor) pointerPress(ev PointerEvent) {
	e.pointerPos = ev.Pos

	if ev.Button == ButtonRight {
		// Right-click resets the selection.
		e.sel.Reset()
		e.drag = nil
		return
	}
	if ev.Button != ButtonLeft {
		return
	}

	radius := float64(selection.HandleRadiusMouse)
	if ev.Touch {
		radius = selection.HandleRadiusTouch
	}
	if radius != e.handleRadius {
		e.handleRadius = radius
		e.handles = selection.Compute(e.sel.Rect(), e.canvas.Bounds(), radius)
	}

	loc := Classify(ev.Pos, e.sel.Rect(), e.handles)
	ctx := &dragContext{location: loc}
	e.magnifierAllowed = true
	e.arrowKeysLocked = true

	rect := e.sel.Normalized()
	switch loc {
	case LocationOutside:
		ctx.anchor = ev.Pos
	case LocationInside:
		ctx.anchor = ev.Pos
		ctx.initialTopLeft = rect.TopLeft()
		e.magnifierAllowed = false
	case LocationTop, LocationLeft, LocationTopLeft:
		ctx.anchor = rect.BottomRight()
	case LocationBottom, LocationRight, LocationBottomRight:
		ctx.anchor = rect.TopLeft()
	case LocationTopRight:
		ctx.anchor = rect.BottomLeft()
	case LocationBottomLeft:
		ctx.anchor = rect.TopRight()
	}
	e.drag = ctx
}

func (e *Editor) pointerMove(ev PointerEvent) {
	e.pointerPos = ev.Pos
	if e.drag == nil {
		e.magnifierAllowed = false
		return
	}
	e.magnifierAllowed = true

	pos := ev.Pos
	anchor := e.drag.anchor
	rect := e.sel.Rect()

	switch e.drag.location {
	case LocationTopLeft, LocationTopRight, LocationBottomRight, LocationBottomLeft:
		afterX := pos.X >= anchor.X
		afterY := pos.Y >= anchor.Y
		e.sel.SetRect(geometry.RectOf(
			pick(afterX, anchor.X, pos.X),
			pick(afterY, anchor.Y, pos.Y),
			math.Abs(pos.X-anchor.X)+pick(afterX, e.devicePixel, 0),
			math.Abs(pos.Y-anchor.Y)+pick(afterY, e.devicePixel, 0),
		))
	case LocationOutside:
		e.sel.SetRect(geometry.RectOf(
			math.Min(pos.X, anchor.X),
			math.Min(pos.Y, anchor.Y),
			math.Abs(pos.X-anchor.X)+e.devicePixel,
			math.Abs(pos.Y-anchor.Y)+e.devicePixel,
		))
	case LocationTop, LocationBottom:
		afterY := pos.Y >= anchor.Y
		e.sel.SetRect(geometry.RectOf(
			rect.X,
			pick(afterY, anchor.Y, pos.Y),
			rect.W,
			math.Abs(pos.Y-anchor.Y)+pick(afterY, e.devicePixel, 0),
		))
	case LocationLeft, LocationRight:
		afterX := pos.X >= anchor.X
		e.sel.SetRect(geometry.RectOf(
			pick(afterX, anchor.X, pos.X),
			rect.Y,
			math.Abs(pos.X-anchor.X)+pick(afterX, e.devicePixel, 0),
			rect.H,
		))
	case LocationInside:
		e.magnifierAllowed = false
		moved := rect.Normalized().MovedTo(pos.Sub(anchor).Add(e.drag.initialTopLeft))
		e.sel.SetRect(moved.ClampInside(e.canvas.Bounds()))
	}
}

func (e *Editor) pointerRelease(ev PointerEvent) {
	e.pointerPos = ev.Pos
	if e.drag != nil && e.drag.location == LocationOutside && e.cfg.ReleaseToCapture {
		e.drag = nil
		e.Accept()
		return
	}
	e.arrowKeysLocked = false
	e.drag = nil
	e.magnifierAllowed = false
}

// HandleKey processes one key event.
func (e *Editor) HandleKey(ev KeyEvent) {
	if e.done {
		return
	}
	e.magnifierToggled = ev.Modifiers&ModShift != 0

	switch ev.Key {
	case KeyEscape:
		e.Cancel()
	case KeyEnter:
		e.Accept()
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		e.arrowKey(ev)
	}
}

// arrowKey nudges the selection. Shift steps one device pixel, otherwise the
// large step applies; Alt resizes by moving the edge opposite the arrow's
// origin instead of translating. Results are normalized and kept inside the
// canvas.
func (e *Editor) arrowKey(ev KeyEvent) {
	if e.arrowKeysLocked {
		return
	}
	step := geometry.DPRRound(largeStep, e.dpr)
	if ev.Modifiers&ModShift != 0 {
		step = e.devicePixel
	}
	resize := ev.Modifiers&ModAlt != 0

	rect := e.sel.Normalized()
	switch ev.Key {
	case KeyLeft:
		if resize {
			rect.W -= step
		} else {
			rect.X -= step
		}
	case KeyRight:
		if resize {
			rect.W += step
		} else {
			rect.X += step
		}
	case KeyUp:
		if resize {
			rect.H -= step
		} else {
			rect.Y -= step
		}
	case KeyDown:
		if resize {
			rect.H += step
		} else {
			rect.Y += step
		}
	}

	rect = rect.Normalized()
	if resize {
		rect = rect.Intersect(e.canvas.Bounds())
	} else {
		rect = rect.ClampInside(e.canvas.Bounds())
	}
	e.sel.SetRect(rect)
}

// Accept commits the selection: the crop region is the normalized selection,
// or the full canvas when the selection is empty. Terminal.
func (e *Editor) Accept() {
	if e.done {
		return
	}
	region := e.sel.Normalized()
	if region.IsEmpty() {
		region = e.canvas.Bounds()
	}
	img := e.canvas.Crop(region)
	e.done = true
	logger.WithComponent("editor").Info().
		Str("region", region.ToImageRect().String()).
		Msg("Selection accepted")
	if e.sink != nil {
		e.sink.Accepted(img, region)
	}
}

// Cancel aborts the session without producing output. Terminal.
func (e *Editor) Cancel() {
	if e.done {
		return
	}
	e.done = true
	logger.WithComponent("editor").Info().Msg("Selection cancelled")
	if e.sink != nil {
		e.sink.Cancelled()
	}
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
