// Package capture produces per-screen images for the editor. Backends wrap
// platform capture mechanisms; the router picks the first usable one.
package capture

import (
	"github.com/rectshot/rectshot/internal/canvas"
)

// Backend is a platform screen-capture implementation.
type Backend interface {
	// Name returns a human-readable backend name.
	Name() string

	// IsAvailable checks whether the backend can run in the current
	// environment.
	IsAvailable() bool

	// CaptureScreens grabs every connected display and returns one
	// ScreenImage per screen with its logical placement and device pixel
	// ratio.
	CaptureScreens() ([]canvas.ScreenImage, error)
}

// Options tunes how screens are captured.
type Options struct {
	// DPROverrides maps display names to device pixel ratios. Backends
	// that cannot detect scaling report 1.0 unless overridden.
	DPROverrides map[string]float64
}

func (o Options) dprFor(name string) float64 {
	if dpr, ok := o.DPROverrides[name]; ok && dpr > 0 {
		return dpr
	}
	return 1.0
}
