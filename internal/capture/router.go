package capture

import (
	"fmt"

	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/logger"
)

// Select picks the first usable backend. X11 is preferred because it reads
// per-monitor geometry from the server, then the portable backend covers
// everything else.
func Select(opts Options) (Backend, error) {
	log := logger.WithComponent("capture-router")

	if x11, err := NewX11Backend(opts); err != nil {
		log.Warn().Err(err).Msg("X11 backend not available")
	} else if x11.IsAvailable() {
		log.Info().Msg("Using X11 capture backend")
		return x11, nil
	}

	portable := NewScreenshotBackend(opts)
	if portable.IsAvailable() {
		log.Info().Msg("Using portable capture backend")
		return portable, nil
	}

	return nil, fmt.Errorf("no capture backends available")
}

// CaptureAll selects a backend, captures every screen and closes the
// backend if it holds a connection.
func CaptureAll(opts Options) ([]canvas.ScreenImage, error) {
	backend, err := Select(opts)
	if err != nil {
		return nil, err
	}
	if closer, ok := backend.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	screens, err := backend.CaptureScreens()
	if err != nil {
		return nil, fmt.Errorf("capture failed via %s backend: %w", backend.Name(), err)
	}
	if len(screens) == 0 {
		return nil, fmt.Errorf("%s backend returned no screens", backend.Name())
	}
	return screens, nil
}
