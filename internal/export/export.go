// Package export persists accepted captures: a timestamped PNG on disk and
// optionally the system clipboard.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"golang.design/x/clipboard"

	"github.com/rectshot/rectshot/internal/logger"
)

// Options controls where and how a capture is written.
type Options struct {
	// OutputDir receives the PNG. Empty means the current directory.
	OutputDir string
	// CopyToClipboard also places the image on the system clipboard.
	CopyToClipboard bool
}

// now is swapped in tests.
var now = time.Now

// Filename returns the timestamped name for a capture taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("rectshot_%s.png", t.Format("20060102_150405"))
}

// Save writes the image and returns the full path of the written file.
func Save(img image.Image, opts Options) (string, error) {
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, Filename(now()))
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("failed to save capture: %w", err)
	}

	log := logger.WithComponent("export")
	log.Info().Str("path", path).Msg("Capture saved")

	if opts.CopyToClipboard {
		if err := copyToClipboard(img); err != nil {
			// The file is already on disk; clipboard failure is not fatal.
			log.Warn().Err(err).Msg("Failed to copy capture to clipboard")
		} else {
			log.Info().Msg("Capture copied to clipboard")
		}
	}

	return path, nil
}

func copyToClipboard(img image.Image) error {
	if err := clipboard.Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode clipboard image: %w", err)
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}
