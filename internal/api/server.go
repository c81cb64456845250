// Package api exposes one capture session over HTTP: an MJPEG preview
// stream plus a WebSocket that carries input events in and the terminal
// event out. The browser is the editor's display and input device.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/logger"
	"github.com/rectshot/rectshot/internal/output"
)

// Server hosts the editor session endpoints.
type Server struct {
	router   *mux.Router
	session  *Session
	cv       *canvas.Canvas
	stream   *output.MJPEGStream
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// NewServer wires the routes for one session.
func NewServer(session *Session, cv *canvas.Canvas, stream *output.MJPEGStream) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		session: session,
		cv:      cv,
		stream:  stream,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool, same machine clients
			},
		},
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session", s.handleSession).Methods("GET")
	api.HandleFunc("/events", s.handleEvents)
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.HandleFunc("/stream", s.stream.Handler())
	s.router.HandleFunc("/", s.handleIndex)
}

// Start serves until Shutdown or a listener error. http.ErrServerClosed is
// reported as nil.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.httpSrv = &http.Server{Addr: addr, Handler: s.router}

	logger.WithComponent("api").Info().Msgf("Editor available on http://localhost%s", addr)

	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	state := s.session.Snapshot(s.cv.Bounds(), s.cv.MaxDPR())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// handleEvents upgrades to WebSocket, feeds input messages to the session
// and pushes the terminal event when the session ends.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent("api")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	// Reader goroutine: decode and enqueue input events.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			var msg inputMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if err := s.dispatch(msg); err != nil {
				log.Warn().Err(err).Str("type", msg.Type).Msg("Dropping malformed input event")
			}
		}
	}()

	select {
	case <-s.session.Done():
		res := s.session.Result()
		terminal := terminalMessage{Type: "cancelled"}
		if res.Accepted {
			region := newRectState(res.Region)
			terminal = terminalMessage{Type: "accepted", Region: &region}
		}
		if err := conn.WriteJSON(terminal); err != nil {
			log.Warn().Err(err).Msg("Failed to send terminal event")
		}
	case <-readDone:
	}
}

func (s *Server) dispatch(msg inputMessage) error {
	switch msg.Type {
	case "pointer":
		ev, err := decodePointer(msg)
		if err != nil {
			return err
		}
		s.session.Pointer(ev)
		return nil
	case "key":
		ev, err := decodeKey(msg)
		if err != nil {
			return err
		}
		s.session.Key(ev)
		return nil
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}
