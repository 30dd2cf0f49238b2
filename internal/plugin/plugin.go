package plugin

import "image"

// Mode identifies the capture mode an event originated from.
type Mode string

const (
	ModeFullScreen Mode = "fullscreen"
	ModeWindow     Mode = "window"
	ModeRegion     Mode = "region"
	ModeGif        Mode = "gif"
)

// Kind identifies a capture-lifecycle event.
type Kind string

const (
	PreCapture  Kind = "pre_capture"
	PostCapture Kind = "post_capture"
	PostSave    Kind = "post_save"
	PostUpload  Kind = "post_upload"
)

// Event is delivered to every registered plugin at a well-defined point in
// the capture pipeline. Image is set for post-capture events only; plugins
// must treat it as read-only and return a replacement instead of mutating it.
type Event struct {
	Kind  Kind
	Mode  Mode
	Image *image.RGBA
	Path  string // post-save: destination file
	URL   string // post-upload: remote location
}

// Response is what a plugin hands back from OnEvent. A nil Image means
// "continue unchanged"; a non-nil Image replaces the capture for the rest of
// the pipeline.
type Response struct {
	Image *image.RGBA
}

// Continue is the no-op response.
var Continue = Response{}

// Plugin is the contract every capture plugin implements. OnEvent must be
// safe to call from the capture goroutine; long-running work (playback,
// uploads) belongs on a plugin-owned goroutine.
type Plugin interface {
	Name() string
	Version() string
	Description() string

	// OnLoad is called once after registration. Returning an error keeps the
	// plugin registered but inert; it never aborts the host.
	OnLoad() error

	// OnUnload is called once during shutdown.
	OnUnload() error

	OnEvent(*Event) Response
}

// ModeAllowed implements the shared only_modes filter: an empty list allows
// every mode.
func ModeAllowed(only []string, mode Mode) bool {
	if len(only) == 0 {
		return true
	}
	for _, m := range only {
		if Mode(m) == mode {
			return true
		}
	}
	return false
}
