package output

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPNGWriterRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures")
	w := NewPNGWriter(dir)
	w.now = func() time.Time { return time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC) }

	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	frame := image.NewRGBA(image.Rect(0, 0, 8, 6))
	path, err := w.Write(frame)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "capdeco_20260828_123000.png" {
		t.Errorf("unexpected file name %q", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written file: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode written file: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("decoded size %v, want 8x6", img.Bounds())
	}
}

func TestPNGWriterNilFrame(t *testing.T) {
	w := NewPNGWriter(t.TempDir())
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(nil); err == nil {
		t.Error("expected nil frame to be rejected")
	}
}
