package output

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/capdeco/capdeco/internal/logger"
)

// PNGWriter writes captures as timestamped PNG files into a directory.
type PNGWriter struct {
	dir string
	now func() time.Time
}

// NewPNGWriter creates a writer rooted at dir. The directory is created on
// Start, not here, so construction never touches the filesystem.
func NewPNGWriter(dir string) *PNGWriter {
	return &PNGWriter{dir: dir, now: time.Now}
}

// Start ensures the output directory exists.
func (w *PNGWriter) Start() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Stop is a no-op for file output.
func (w *PNGWriter) Stop() error { return nil }

// Name returns the output name.
func (w *PNGWriter) Name() string { return "PNG" }

// Write encodes the frame and returns the file path.
func (w *PNGWriter) Write(frame *image.RGBA) (string, error) {
	if frame == nil {
		return "", fmt.Errorf("nil frame")
	}

	path := filepath.Join(w.dir, fmt.Sprintf("capdeco_%s.png", w.now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := png.Encode(f, frame); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	logger.WithComponent("output").Info().
		Str("path", path).
		Int("width", frame.Bounds().Dx()).
		Int("height", frame.Bounds().Dy()).
		Msg("Capture saved")
	return path, nil
}
