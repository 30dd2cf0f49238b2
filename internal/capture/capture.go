package capture

import (
	"image"
)

// Capturer defines the interface for screenshot backends.
type Capturer interface {
	// Start initializes the capturer and any required resources
	Start() error

	// Stop releases resources and closes the display connection
	Stop() error

	// CaptureScreen captures the whole root window
	CaptureScreen() (*image.RGBA, error)

	// CaptureRegion captures a specific region of the screen
	CaptureRegion(x, y, width, height int) (*image.RGBA, error)

	// CaptureActiveWindow captures the currently focused window's geometry
	CaptureActiveWindow() (*image.RGBA, error)

	// Name returns a human-readable name for this capturer
	Name() string

	// IsAvailable checks if this capturer can be used in the current environment
	IsAvailable() bool
}
