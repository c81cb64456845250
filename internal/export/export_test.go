package export

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 8, 28, 14, 30, 5, 0, time.UTC)
	if got := Filename(ts); got != "rectshot_20260828_143005.png" {
		t.Errorf("unexpected filename %q", got)
	}
}

func TestSaveWritesPNG(t *testing.T) {
	dir := t.TempDir()

	ts := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	now = func() time.Time { return ts }
	defer func() { now = time.Now }()

	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 50, B: 10, A: 255})
		}
	}

	path, err := Save(img, Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("saved outside output dir: %s", path)
	}
	if filepath.Base(path) != Filename(ts) {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	loaded, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen saved file: %v", err)
	}
	if loaded.Bounds().Size() != img.Bounds().Size() {
		t.Errorf("saved image has size %v, want %v", loaded.Bounds().Size(), img.Bounds().Size())
	}
}

func TestSaveCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures", "nested")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	path, err := Save(img, Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}
