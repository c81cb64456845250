// Package output streams rendered editor frames to connected browsers as
// Motion JPEG. The stream is the editor's preview surface: the client shows
// it in an <img> tag and feeds pointer and key events back over the API.
package output

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"sync"
	"time"

	"github.com/rectshot/rectshot/internal/logger"
)

const jpegQuality = 90

// MJPEGStream fans rendered frames out to any number of HTTP clients.
type MJPEGStream struct {
	mu      sync.RWMutex
	running bool
	// stopCh is closed by Stop so connected clients unblock even when no
	// further frame arrives. Replaced by Start to allow reuse.
	stopCh chan struct{}

	frameMu    sync.RWMutex
	lastFrame  []byte
	lastUpdate time.Time

	clientsMu sync.RWMutex
	clients   map[chan []byte]struct{}

	frameCount uint64
	startTime  time.Time
}

// NewMJPEGStream creates an idle stream.
func NewMJPEGStream() *MJPEGStream {
	return &MJPEGStream{
		clients: make(map[chan []byte]struct{}),
		stopCh:  make(chan struct{}),
	}
}

// Start marks the stream active.
func (m *MJPEGStream) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("MJPEG stream already running")
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.startTime = time.Now()
	m.frameCount = 0

	logger.WithComponent("mjpeg").Info().Msg("Stream started")
	return nil
}

// Stop disconnects all clients and marks the stream stopped.
func (m *MJPEGStream) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false
	close(m.stopCh)

	m.clientsMu.Lock()
	for ch := range m.clients {
		close(ch)
	}
	m.clients = make(map[chan []byte]struct{})
	m.clientsMu.Unlock()

	logger.WithComponent("mjpeg").Info().Msgf("Stream stopped after %d frames", m.frameCount)
	return nil
}

// IsRunning reports whether the stream accepts frames.
func (m *MJPEGStream) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// WriteFrame encodes a frame and broadcasts it. Slow clients skip frames
// instead of blocking the editor loop.
func (m *MJPEGStream) WriteFrame(frame *image.RGBA) error {
	if !m.IsRunning() {
		return fmt.Errorf("MJPEG stream not running")
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	jpegData := buf.Bytes()

	m.frameMu.Lock()
	m.lastFrame = jpegData
	m.lastUpdate = time.Now()
	m.frameCount++
	m.frameMu.Unlock()

	m.clientsMu.RLock()
	for ch := range m.clients {
		select {
		case ch <- jpegData:
		default:
			// Client is slow, skip this frame
		}
	}
	m.clientsMu.RUnlock()

	return nil
}

// Handler serves the multipart MJPEG stream. Mount at /stream.
func (m *MJPEGStream) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		running := m.running
		stopCh := m.stopCh
		m.mu.RUnlock()
		if !running {
			http.Error(w, "stream ended", http.StatusGone)
			return
		}

		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		w.Header().Set("Connection", "close")

		frameChan := make(chan []byte, 2)

		m.clientsMu.Lock()
		m.clients[frameChan] = struct{}{}
		clientCount := len(m.clients)
		m.clientsMu.Unlock()

		log := logger.WithComponent("mjpeg")
		log.Info().Msgf("Client connected (total: %d)", clientCount)

		defer func() {
			m.clientsMu.Lock()
			delete(m.clients, frameChan)
			clientCount := len(m.clients)
			m.clientsMu.Unlock()
			log.Info().Msgf("Client disconnected (remaining: %d)", clientCount)
		}()

		// New clients get the last frame immediately so the preview is
		// visible before the next selection change.
		m.frameMu.RLock()
		last := m.lastFrame
		m.frameMu.RUnlock()
		if last != nil {
			if err := writeFramePart(w, last); err != nil {
				return
			}
		}

		for {
			select {
			case jpegData, ok := <-frameChan:
				if !ok {
					return
				}
				if err := writeFramePart(w, jpegData); err != nil {
					return
				}
			case <-stopCh:
				return
			}
		}
	}
}

func writeFramePart(w http.ResponseWriter, jpegData []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpegData)); err != nil {
		return err
	}
	if _, err := w.Write(jpegData); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\r\n"); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// Stats describes stream activity for the session endpoint.
type Stats struct {
	Running    bool      `json:"running"`
	FrameCount uint64    `json:"frame_count"`
	Clients    int       `json:"clients"`
	LastUpdate time.Time `json:"last_update"`
}

// GetStats returns a snapshot of the stream state.
func (m *MJPEGStream) GetStats() Stats {
	m.mu.RLock()
	running := m.running
	m.mu.RUnlock()

	m.frameMu.RLock()
	frameCount := m.frameCount
	lastUpdate := m.lastUpdate
	m.frameMu.RUnlock()

	m.clientsMu.RLock()
	clients := len(m.clients)
	m.clientsMu.RUnlock()

	return Stats{
		Running:    running,
		FrameCount: frameCount,
		Clients:    clients,
		LastUpdate: lastUpdate,
	}
}
