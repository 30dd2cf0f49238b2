package output

import (
	"image"
)

// Output defines the interface for capture sinks. The PNG writer is the only
// implementation today; the interface keeps the pipeline open for clipboard
// or upload sinks.
type Output interface {
	// Start initializes the output mechanism
	Start() error

	// Stop cleanly shuts down the output
	Stop() error

	// Write persists a frame and returns where it ended up
	Write(frame *image.RGBA) (string, error)

	// Name returns a human-readable name for this output type
	Name() string
}
