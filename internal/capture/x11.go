package capture

import (
	"fmt"
	"image"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/capdeco/capdeco/internal/logger"
)

// X11Capturer captures screenshots through X11/XWayland.
type X11Capturer struct {
	conn   *xgb.Conn
	root   xproto.Window
	screen *xproto.ScreenInfo
	mu     sync.Mutex
}

// NewX11Capturer connects to the X server.
func NewX11Capturer() (*X11Capturer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	return &X11Capturer{
		conn:   conn,
		root:   screen.Root,
		screen: screen,
	}, nil
}

// Start initializes the X11 capturer.
func (c *X11Capturer) Start() error {
	logger.WithComponent("x11-capturer").Debug().
		Uint16("width", c.screen.WidthInPixels).
		Uint16("height", c.screen.HeightInPixels).
		Msg("X11 capturer ready")
	return nil
}

// Stop closes the X11 connection.
func (c *X11Capturer) Stop() error {
	c.conn.Close()
	return nil
}

// Name returns the capturer name.
func (c *X11Capturer) Name() string {
	return "X11"
}

// IsAvailable checks if X11 capture is available.
func (c *X11Capturer) IsAvailable() bool {
	return c.conn != nil
}

// CaptureScreen captures the whole root window.
func (c *X11Capturer) CaptureScreen() (*image.RGBA, error) {
	return c.CaptureRegion(0, 0, int(c.screen.WidthInPixels), int(c.screen.HeightInPixels))
}

// CaptureRegion captures a rectangle of the root window, clamped to the
// screen bounds.
func (c *X11Capturer) CaptureRegion(x, y, width, height int) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	screen := image.Rect(0, 0, int(c.screen.WidthInPixels), int(c.screen.HeightInPixels))
	rect := image.Rect(x, y, x+width, y+height).Intersect(screen)
	if rect.Empty() {
		return nil, fmt.Errorf("capture region %dx%d at (%d,%d) is outside the screen", width, height, x, y)
	}

	reply, err := xproto.GetImage(
		c.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(c.root),
		int16(rect.Min.X), int16(rect.Min.Y),
		uint16(rect.Dx()), uint16(rect.Dy()),
		0xffffffff, // plane mask
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	data := reply.Data
	if len(data) < rect.Dx()*rect.Dy()*4 {
		return nil, fmt.Errorf("short image reply: got %d bytes, want %d", len(data), rect.Dx()*rect.Dy()*4)
	}

	// BGRA to RGBA
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			i := (y*rect.Dx() + x) * 4
			o := img.PixOffset(x, y)
			img.Pix[o] = data[i+2]
			img.Pix[o+1] = data[i+1]
			img.Pix[o+2] = data[i]
			img.Pix[o+3] = 255
		}
	}

	logger.WithComponent("x11-capturer").Debug().
		Int("width", rect.Dx()).
		Int("height", rect.Dy()).
		Msg("Region captured")
	return img, nil
}

// CaptureActiveWindow captures the screen area of the focused window, frame
// included, as reported by the window manager.
func (c *X11Capturer) CaptureActiveWindow() (*image.RGBA, error) {
	win, err := c.activeWindow()
	if err != nil {
		return nil, err
	}

	geom, err := xproto.GetGeometry(c.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get window geometry: %w", err)
	}

	// Window coordinates are relative to its parent; translate to root.
	trans, err := xproto.TranslateCoordinates(c.conn, win, c.root, 0, 0).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	return c.CaptureRegion(int(trans.DstX), int(trans.DstY), int(geom.Width), int(geom.Height))
}

// activeWindow reads _NET_ACTIVE_WINDOW from the root window.
func (c *X11Capturer) activeWindow() (xproto.Window, error) {
	atom, err := c.getAtom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return 0, err
	}

	prop, err := xproto.GetProperty(c.conn, false, c.root, atom, xproto.AtomWindow, 0, 1).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to read active window property: %w", err)
	}
	if prop.ValueLen == 0 || len(prop.Value) < 4 {
		return 0, fmt.Errorf("no active window")
	}

	win := xproto.Window(uint32(prop.Value[0]) |
		uint32(prop.Value[1])<<8 |
		uint32(prop.Value[2])<<16 |
		uint32(prop.Value[3])<<24)
	if win == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return win, nil
}

// getAtom gets an atom ID by name.
func (c *X11Capturer) getAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}
