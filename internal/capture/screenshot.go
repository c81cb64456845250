package capture

import (
	"fmt"

	"github.com/kbinani/screenshot"

	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/geometry"
	"github.com/rectshot/rectshot/internal/logger"
)

// ScreenshotBackend captures displays with the portable kbinani/screenshot
// library. Works on X11, Windows and macOS without extra setup.
type ScreenshotBackend struct {
	opts Options
}

// NewScreenshotBackend creates the portable backend.
func NewScreenshotBackend(opts Options) *ScreenshotBackend {
	return &ScreenshotBackend{opts: opts}
}

// Name returns the backend name.
func (b *ScreenshotBackend) Name() string {
	return "screenshot"
}

// IsAvailable reports whether any display can be captured.
func (b *ScreenshotBackend) IsAvailable() bool {
	return screenshot.NumActiveDisplays() > 0
}

// CaptureScreens grabs each active display separately, preserving its
// position in the virtual desktop.
func (b *ScreenshotBackend) CaptureScreens() ([]canvas.ScreenImage, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}

	log := logger.WithComponent("capture")
	screens := make([]canvas.ScreenImage, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		img, err := screenshot.CaptureRect(bounds)
		if err != nil {
			return nil, fmt.Errorf("failed to capture display %d: %w", i, err)
		}

		name := fmt.Sprintf("display-%d", i)
		dpr := b.opts.dprFor(name)
		rect := geometry.FromImageRect(bounds)
		if dpr != 1.0 {
			// The buffer holds native pixels; the logical footprint
			// shrinks by the scale factor.
			rect.W = float64(bounds.Dx()) / dpr
			rect.H = float64(bounds.Dy()) / dpr
		}

		log.Debug().
			Str("display", name).
			Str("bounds", bounds.String()).
			Float64("dpr", dpr).
			Msg("Captured display")

		screens = append(screens, canvas.ScreenImage{
			Name:  name,
			Image: img,
			Rect:  rect,
			DPR:   dpr,
		})
	}
	return screens, nil
}
