package hotbar

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/capdeco/capdeco/internal/logger"
)

// overlay owns the X11 side of the hotbar: an override-redirect window the
// window manager leaves alone, painted with PutImage. One overlay per plugin
// instance; all methods are serialized by the plugin's lock except run, which
// has its own goroutine and stops when the connection closes.
type overlay struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo

	mu     sync.Mutex
	win    xproto.Window
	gc     xproto.Gcontext
	mapped bool
	img    *image.RGBA
}

func newOverlay() (*overlay, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	return &overlay{conn: conn, screen: setup.DefaultScreen(conn)}, nil
}

// screenSize returns the root window dimensions.
func (o *overlay) screenSize() (int, int) {
	return int(o.screen.WidthInPixels), int(o.screen.HeightInPixels)
}

// captureRoot grabs a region of the root window, the backdrop the glass pane
// is built from.
func (o *overlay) captureRoot(rect image.Rectangle) (*image.RGBA, error) {
	reply, err := xproto.GetImage(
		o.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(o.screen.Root),
		int16(rect.Min.X), int16(rect.Min.Y),
		uint16(rect.Dx()), uint16(rect.Dy()),
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get root image: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	data := reply.Data
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			i := (y*rect.Dx() + x) * 4
			if i+3 >= len(data) {
				continue
			}
			// BGRA to RGBA
			img.Set(x, y, color.RGBA{R: data[i+2], G: data[i+1], B: data[i], A: 255})
		}
	}
	return img, nil
}

// show creates the window on first use, moves it to (x, y) and paints img.
func (o *overlay) show(img *image.RGBA, x, y int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	if o.win == 0 {
		winID, err := xproto.NewWindowId(o.conn)
		if err != nil {
			return fmt.Errorf("failed to create window ID: %w", err)
		}
		o.win = winID

		mask := uint32(xproto.CwBackPixel | xproto.CwOverrideRedirect | xproto.CwEventMask)
		values := []uint32{
			0x000000,
			1, // override-redirect: keep the WM away from the toolbar
			xproto.EventMaskExposure | xproto.EventMaskButtonPress,
		}
		err = xproto.CreateWindowChecked(
			o.conn,
			o.screen.RootDepth,
			o.win,
			o.screen.Root,
			int16(x), int16(y),
			uint16(w), uint16(h),
			0,
			xproto.WindowClassInputOutput,
			o.screen.RootVisual,
			mask,
			values,
		).Check()
		if err != nil {
			o.win = 0
			return fmt.Errorf("failed to create window: %w", err)
		}

		gc, err := xproto.NewGcontextId(o.conn)
		if err != nil {
			return fmt.Errorf("failed to create graphics context: %w", err)
		}
		o.gc = gc
		if err := xproto.CreateGCChecked(o.conn, o.gc, xproto.Drawable(o.win), 0, nil).Check(); err != nil {
			return fmt.Errorf("failed to create GC: %w", err)
		}
	} else {
		xproto.ConfigureWindow(o.conn, o.win,
			xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{uint32(x), uint32(y), uint32(w), uint32(h)})
	}

	if !o.mapped {
		if err := xproto.MapWindowChecked(o.conn, o.win).Check(); err != nil {
			return fmt.Errorf("failed to map window: %w", err)
		}
		o.mapped = true
	}

	o.img = img
	o.conn.Sync()
	return o.putImageLocked(img)
}

// hide unmaps the window without destroying it.
func (o *overlay) hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mapped {
		xproto.UnmapWindow(o.conn, o.win)
		o.conn.Sync()
		o.mapped = false
	}
}

// run is the overlay's event loop. Click coordinates are window-local and
// handed to onClick; expose events repaint the last image. Returns when the
// connection is closed.
func (o *overlay) run(onClick func(x, y int)) {
	for {
		ev, err := o.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		if err != nil {
			logger.WithComponent("hotbar").Debug().
				Err(err).
				Msg("X event error")
			continue
		}
		switch e := ev.(type) {
		case xproto.ButtonPressEvent:
			onClick(int(e.EventX), int(e.EventY))
		case xproto.ExposeEvent:
			o.mu.Lock()
			if o.img != nil {
				o.putImageLocked(o.img)
			}
			o.mu.Unlock()
		}
	}
}

func (o *overlay) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.gc != 0 {
		xproto.FreeGC(o.conn, o.gc)
	}
	if o.win != 0 {
		xproto.DestroyWindow(o.conn, o.win)
		o.conn.Sync()
	}
	o.conn.Close()
}

// putImageLocked converts img to the server's ZPixmap layout and pushes it.
// Scanlines are padded to the format's scanline pad, bytes reordered to BGRx.
func (o *overlay) putImageLocked(img *image.RGBA) error {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	depth := o.screen.RootDepth
	setup := xproto.Setup(o.conn)

	var bitsPerPixel, scanlinePad uint8
	for _, format := range setup.PixmapFormats {
		if format.Depth == depth {
			bitsPerPixel = format.BitsPerPixel
			scanlinePad = format.ScanlinePad
			break
		}
	}
	if bitsPerPixel == 0 {
		return fmt.Errorf("no pixmap format for depth %d", depth)
	}

	bytesPerPixel := int(bitsPerPixel) / 8
	padBytes := int(scanlinePad) / 8
	stride := ((w*bytesPerPixel + padBytes - 1) / padBytes) * padBytes
	data := make([]byte, stride*h)

	for y := 0; y < h; y++ {
		rowStart := y * stride
		for x := 0; x < w; x++ {
			srcIdx := img.PixOffset(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
			dstIdx := rowStart + x*bytesPerPixel
			switch bytesPerPixel {
			case 4:
				data[dstIdx] = img.Pix[srcIdx+2]
				data[dstIdx+1] = img.Pix[srcIdx+1]
				data[dstIdx+2] = img.Pix[srcIdx]
				if depth == 32 {
					data[dstIdx+3] = img.Pix[srcIdx+3]
				}
			case 3:
				data[dstIdx] = img.Pix[srcIdx+2]
				data[dstIdx+1] = img.Pix[srcIdx+1]
				data[dstIdx+2] = img.Pix[srcIdx]
			default:
				return fmt.Errorf("unsupported bytes per pixel: %d", bytesPerPixel)
			}
		}
	}

	err := xproto.PutImageChecked(
		o.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(o.win),
		o.gc,
		uint16(w), uint16(h),
		0, 0,
		0,
		depth,
		data,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to put image: %w", err)
	}
	o.conn.Sync()
	return nil
}
