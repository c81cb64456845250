package api

import (
	"context"
	"image"
	"sync"

	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/editor"
	"github.com/rectshot/rectshot/internal/geometry"
	"github.com/rectshot/rectshot/internal/logger"
	"github.com/rectshot/rectshot/internal/output"
	"github.com/rectshot/rectshot/internal/render"
)

// Result is the outcome of one capture session.
type Result struct {
	Accepted bool
	Image    image.Image
	Region   geometry.Rect
}

// Session serializes input events into the editor on a single goroutine and
// streams a freshly rendered frame after each one. The editor itself is not
// goroutine safe; this loop is its only caller.
type Session struct {
	ed       *editor.Editor
	renderer *render.Renderer
	stream   *output.MJPEGStream

	// mu guards the editor: the event loop holds it while applying events
	// and rendering, Snapshot holds it while reading.
	mu sync.Mutex

	events chan func()
	done   chan struct{}
	result Result
}

// NewSession builds the editor over the canvas and wires it to the stream.
func NewSession(cv *canvas.Canvas, cfg editor.Config, lightMask bool, stream *output.MJPEGStream) *Session {
	s := &Session{
		renderer: render.New(cv, lightMask),
		stream:   stream,
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
	}
	s.ed = editor.New(cv, cfg, s)
	return s
}

// SelectionChanged implements editor.EventSink. Frames are rendered after
// the whole event is applied, not per mutation, so nothing to do here.
func (s *Session) SelectionChanged(geometry.Rect) {}

// Accepted implements editor.EventSink.
func (s *Session) Accepted(img image.Image, region geometry.Rect) {
	s.result = Result{Accepted: true, Image: img, Region: region}
	close(s.done)
}

// Cancelled implements editor.EventSink.
func (s *Session) Cancelled() {
	s.result = Result{Accepted: false}
	close(s.done)
}

// Pointer queues a pointer event for the editor.
func (s *Session) Pointer(ev editor.PointerEvent) {
	s.enqueue(func() { s.ed.HandlePointer(ev) })
}

// Key queues a key event for the editor.
func (s *Session) Key(ev editor.KeyEvent) {
	s.enqueue(func() { s.ed.HandleKey(ev) })
}

func (s *Session) enqueue(apply func()) {
	select {
	case s.events <- apply:
	case <-s.done:
	}
}

// Run drives the event loop until the session terminates or the context is
// cancelled. Cancellation counts as a user cancel.
func (s *Session) Run(ctx context.Context) Result {
	log := logger.WithComponent("session")

	s.publishFrame()

	for {
		select {
		case <-ctx.Done():
			select {
			case <-s.done:
			default:
				s.result = Result{Accepted: false}
				close(s.done)
			}
			log.Info().Msg("Session cancelled by context")
			return s.result
		case apply := <-s.events:
			s.mu.Lock()
			apply()
			s.mu.Unlock()
			s.publishFrame()
			select {
			case <-s.done:
				return s.result
			default:
			}
		}
	}
}

// Done is closed when the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Result returns the outcome. Valid only after Done is closed.
func (s *Session) Result() Result {
	return s.result
}

// State is a JSON snapshot of the editor for the session endpoint.
type State struct {
	Selection rectState    `json:"selection"`
	Bounds    rectState    `json:"bounds"`
	DPR       float64      `json:"dpr"`
	Cursor    string       `json:"cursor"`
	Done      bool         `json:"done"`
	Stream    output.Stats `json:"stream"`
}

// Snapshot reads editor state for the HTTP layer. Safe to call from any
// goroutine; the lock keeps it consistent with the event loop.
func (s *Session) Snapshot(bounds geometry.Rect, dpr float64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Selection: newRectState(s.ed.Selection()),
		Bounds:    newRectState(bounds),
		DPR:       dpr,
		Cursor:    s.ed.HoverCursor().String(),
		Done:      s.ed.Done(),
		Stream:    s.stream.GetStats(),
	}
}

func (s *Session) publishFrame() {
	if !s.stream.IsRunning() {
		return
	}
	s.mu.Lock()
	frame := s.renderer.Frame(s.ed)
	s.mu.Unlock()
	if err := s.stream.WriteFrame(frame); err != nil {
		logger.WithComponent("session").Warn().Err(err).Msg("Failed to publish frame")
	}
}
