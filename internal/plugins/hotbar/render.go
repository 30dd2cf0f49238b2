package hotbar

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/decor"
)

// layout is the resolved pixel geometry of the bar: its outer size and the
// hit rectangle of every button, in bar-local coordinates.
type layout struct {
	W, H    int
	Buttons []image.Rectangle
}

// computeLayout places the buttons in a single horizontal row.
func computeLayout(cfg config.HotbarConfig) layout {
	n := len(cfg.Buttons)
	l := layout{
		W: cfg.Padding*2 + n*cfg.ButtonWidth + max(0, n-1)*cfg.Spacing,
		H: cfg.Padding*2 + cfg.ButtonHeight,
	}
	x := cfg.Padding
	for range cfg.Buttons {
		l.Buttons = append(l.Buttons, image.Rect(x, cfg.Padding, x+cfg.ButtonWidth, cfg.Padding+cfg.ButtonHeight))
		x += cfg.ButtonWidth + cfg.Spacing
	}
	return l
}

// buttonAt maps a bar-local click to a button index, or -1.
func (l layout) buttonAt(x, y int) int {
	for i, r := range l.Buttons {
		if image.Pt(x, y).In(r) {
			return i
		}
	}
	return -1
}

// renderBar draws the toolbar bitmap. The X server gives us no per-pixel
// window transparency at depth 24, so translucency is faked in software: the
// backdrop is the screen region the bar will cover, and the acrylic pane is
// that region blurred and tinted. Outside the rounded bar shape the backdrop
// shows through untouched, so the corners look cut out.
//
// backdrop may be nil (no X connection, tests); the pane then sits on a flat
// opaque fill.
func renderBar(engine *decor.Engine, cfg config.HotbarConfig, backdrop *image.RGBA) (*image.RGBA, layout) {
	l := computeLayout(cfg)

	base := image.NewRGBA(image.Rect(0, 0, l.W, l.H))
	if backdrop != nil && backdrop.Bounds().Dx() >= l.W && backdrop.Bounds().Dy() >= l.H {
		draw.Draw(base, base.Bounds(), backdrop, backdrop.Bounds().Min, draw.Src)
	} else {
		draw.Draw(base, base.Bounds(), &image.Uniform{color.RGBA{24, 24, 24, 255}}, image.Point{}, draw.Src)
	}

	pane := glassPane(engine, cfg.Glass, base)

	// Blend the pane over the backdrop through the rounded bar mask.
	mask := decor.NewMask(l.W, l.H)
	decor.FillRoundedRect(mask, image.Rect(0, 0, l.W, l.H), cfg.CornerRadius)

	out := image.NewRGBA(image.Rect(0, 0, l.W, l.H))
	copy(out.Pix, base.Pix)
	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			cov := mask.At(x, y)
			if cov == 0 {
				continue
			}
			i := out.PixOffset(x, y)
			out.Pix[i] = lerp8(base.Pix[i], pane.Pix[i], cov)
			out.Pix[i+1] = lerp8(base.Pix[i+1], pane.Pix[i+1], cov)
			out.Pix[i+2] = lerp8(base.Pix[i+2], pane.Pix[i+2], cov)
			out.Pix[i+3] = 255
		}
	}

	for i, btn := range cfg.Buttons {
		drawButton(out, l.Buttons[i], btn.Label, cfg.CornerRadius/2)
	}
	return out, l
}

// glassPane blurs the backdrop and lays the tint over it. With glass disabled
// the pane is just the flat tint.
func glassPane(engine *decor.Engine, glass config.GlassConfig, base *image.RGBA) *image.RGBA {
	tint := glass.TintColor.Color()

	pane := image.NewRGBA(base.Bounds())
	if glass.Enabled {
		blurred, err := engine.BlurRGBA(base, glass.BlurAmount)
		if err == nil {
			copy(pane.Pix, blurred.Pix)
		} else {
			copy(pane.Pix, base.Pix)
		}
	} else {
		tint.A = 255
	}

	overlayColor(pane, pane.Bounds(), tint)
	return pane
}

// drawButton shades the button face and centers its label.
func drawButton(dst *image.RGBA, r image.Rectangle, label string, radius int) {
	mask := decor.NewMask(dst.Bounds().Dx(), dst.Bounds().Dy())
	decor.FillRoundedRect(mask, r, radius)

	face := color.RGBA{255, 255, 255, 36}
	for y := r.Min.Y - 1; y <= r.Max.Y; y++ {
		for x := r.Min.X - 1; x <= r.Max.X; x++ {
			cov := mask.At(x, y)
			if cov == 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			a := float32(face.A) / 255 * cov
			dst.Pix[i] = lerp8(dst.Pix[i], face.R, a)
			dst.Pix[i+1] = lerp8(dst.Pix[i+1], face.G, a)
			dst.Pix[i+2] = lerp8(dst.Pix[i+2], face.B, a)
		}
	}

	if label == "" {
		return
	}
	f := basicfont.Face7x13
	width := font.MeasureString(f, label).Ceil()
	d := font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{color.RGBA{235, 235, 235, 255}},
		Face: f,
		Dot: fixed.P(
			r.Min.X+(r.Dx()-width)/2,
			r.Min.Y+(r.Dy()+f.Ascent-f.Descent)/2,
		),
	}
	d.DrawString(label)
}

// overlayColor source-over blends a flat color onto every pixel of rect.
func overlayColor(dst *image.RGBA, rect image.Rectangle, c color.RGBA) {
	a := float32(c.A) / 255
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			i := dst.PixOffset(x, y)
			dst.Pix[i] = lerp8(dst.Pix[i], c.R, a)
			dst.Pix[i+1] = lerp8(dst.Pix[i+1], c.G, a)
			dst.Pix[i+2] = lerp8(dst.Pix[i+2], c.B, a)
		}
	}
}

func lerp8(a, b uint8, t float32) uint8 {
	v := float32(a) + (float32(b)-float32(a))*t
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
