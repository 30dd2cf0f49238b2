package decor

import (
	"errors"
	"image"
	"image/color"
)

// ErrEmptyInput is returned when the source bitmap has zero width or height.
var ErrEmptyInput = errors.New("decor: source bitmap has zero dimension")

// Engine decorates captured bitmaps. It owns the kernel cache so repeated
// composites with the same blur radius reuse the kernel; everything else is
// allocated per call, making concurrent Decorate calls safe.
type Engine struct {
	kernels *KernelCache
}

// NewEngine creates a compositing engine with an empty kernel cache.
func NewEngine() *Engine {
	return &Engine{kernels: NewKernelCache()}
}

// Decorate composites the border and drop shadow around src and returns a new,
// larger bitmap. src is never mutated. The style is assumed validated; the
// only runtime failure is an empty source.
func (e *Engine) Decorate(src *image.RGBA, s Style) (*image.RGBA, error) {
	if src == nil || src.Bounds().Dx() == 0 || src.Bounds().Dy() == 0 {
		return nil, ErrEmptyInput
	}

	g := ComputeGeometry(src.Bounds().Dx(), src.Bounds().Dy(), s)
	borders, shadow := RenderMasks(g, s)

	kernel, err := e.kernels.Get(s.ShadowBlur)
	if err != nil {
		return nil, err
	}

	return Composite(src, borders, shadow, kernel, s, g)
}

// Composite blends the shadow, the original bitmap, and the border layers
// back-to-front onto a freshly allocated canvas. All blending happens in
// premultiplied floating-point space; the result is quantized to straight
// alpha with round-to-nearest. The operation is total for validated inputs:
// either the full composite succeeds or an error and no output is produced.
func Composite(src *image.RGBA, borders []BorderLayer, shadow *Mask, kernel Kernel, s Style, g Geometry) (*image.RGBA, error) {
	if src == nil || src.Bounds().Dx() == 0 || src.Bounds().Dy() == 0 {
		return nil, ErrEmptyInput
	}

	dst := newFloatCanvas(g.CanvasW, g.CanvasH)
	if s.Background != nil {
		dst.fill(*s.Background)
	}

	if s.HasShadow() {
		blurred := blurMask(shadow, kernel)
		dst.blendMask(blurred, s.ShadowColor, s.ShadowOpacity)
	}

	dst.blendImage(src, g.Content.Min)

	for _, layer := range borders {
		dst.blendMask(layer.Mask, layer.Color, 1.0)
	}

	return dst.resolve(), nil
}

// blurMask runs the separable 2-pass convolution, horizontal then vertical.
// Samples outside the mask read as zero coverage, which is the correct
// boundary condition for a shadow silhouette surrounded by empty margin.
func blurMask(m *Mask, kernel Kernel) *Mask {
	r := kernel.Radius()
	if r == 0 {
		return m
	}

	tmp := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		row := y * m.W
		for x := 0; x < m.W; x++ {
			sum := 0.0
			for t := -r; t <= r; t++ {
				sx := x + t
				if sx < 0 || sx >= m.W {
					continue
				}
				sum += kernel[t+r] * float64(m.Cov[row+sx])
			}
			tmp.Cov[row+x] = float32(sum)
		}
	}

	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			sum := 0.0
			for t := -r; t <= r; t++ {
				sy := y + t
				if sy < 0 || sy >= m.H {
					continue
				}
				sum += kernel[t+r] * float64(tmp.Cov[sy*m.W+x])
			}
			out.Cov[y*m.W+x] = float32(sum)
		}
	}
	return out
}

// floatCanvas is the premultiplied-alpha working buffer: four float32 channels
// per pixel, row-major. Keeping the blend arithmetic in floating point avoids
// the dark fringing that integer premultiplied math produces at partially
// transparent edges.
type floatCanvas struct {
	w, h int
	pix  []float32
}

func newFloatCanvas(w, h int) *floatCanvas {
	return &floatCanvas{w: w, h: h, pix: make([]float32, w*h*4)}
}

// fill overwrites the whole canvas with a premultiplied solid color.
func (c *floatCanvas) fill(col color.RGBA) {
	pr, pg, pb, pa := premultiply(col, 1.0)
	for i := 0; i < len(c.pix); i += 4 {
		c.pix[i] = pr
		c.pix[i+1] = pg
		c.pix[i+2] = pb
		c.pix[i+3] = pa
	}
}

// blendMask composites a colored coverage layer over the canvas. The layer's
// alpha is coverage scaled by opacity and the color's own alpha.
func (c *floatCanvas) blendMask(m *Mask, col color.RGBA, opacity float64) {
	for y := 0; y < c.h && y < m.H; y++ {
		for x := 0; x < c.w && x < m.W; x++ {
			cov := m.Cov[y*m.W+x]
			if cov == 0 {
				continue
			}
			sr, sg, sb, sa := premultiply(col, float64(cov)*opacity)
			c.blendPixel(x, y, sr, sg, sb, sa)
		}
	}
}

// blendImage composites a straight-alpha bitmap over the canvas with its
// top-left corner at offset.
func (c *floatCanvas) blendImage(src *image.RGBA, offset image.Point) {
	b := src.Bounds()
	for sy := b.Min.Y; sy < b.Max.Y; sy++ {
		dy := offset.Y + sy - b.Min.Y
		if dy < 0 || dy >= c.h {
			continue
		}
		for sx := b.Min.X; sx < b.Max.X; sx++ {
			dx := offset.X + sx - b.Min.X
			if dx < 0 || dx >= c.w {
				continue
			}
			i := src.PixOffset(sx, sy)
			sr, sg, sb, sa := premultiply(color.RGBA{
				R: src.Pix[i],
				G: src.Pix[i+1],
				B: src.Pix[i+2],
				A: src.Pix[i+3],
			}, 1.0)
			c.blendPixel(dx, dy, sr, sg, sb, sa)
		}
	}
}

// blendPixel applies the premultiplied "over" operator:
// out = src + dst * (1 - src.alpha).
func (c *floatCanvas) blendPixel(x, y int, sr, sg, sb, sa float32) {
	i := (y*c.w + x) * 4
	inv := 1 - sa
	c.pix[i] = sr + c.pix[i]*inv
	c.pix[i+1] = sg + c.pix[i+1]*inv
	c.pix[i+2] = sb + c.pix[i+2]*inv
	c.pix[i+3] = sa + c.pix[i+3]*inv
}

// resolve un-premultiplies the canvas into a straight-alpha RGBA image,
// quantizing with round-to-nearest.
func (c *floatCanvas) resolve() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, c.w, c.h))
	for i, o := 0, 0; i < len(c.pix); i, o = i+4, o+4 {
		r, g, b, a := unpremultiply(c.pix[i], c.pix[i+1], c.pix[i+2], c.pix[i+3])
		out.Pix[o] = r
		out.Pix[o+1] = g
		out.Pix[o+2] = b
		out.Pix[o+3] = a
	}
	return out
}

// premultiply converts an 8-bit straight-alpha color, scaled by an extra alpha
// factor, into premultiplied float channels in [0,1].
func premultiply(col color.RGBA, alpha float64) (r, g, b, a float32) {
	af := float64(col.A) / 255 * alpha
	r = float32(float64(col.R) / 255 * af)
	g = float32(float64(col.G) / 255 * af)
	b = float32(float64(col.B) / 255 * af)
	a = float32(af)
	return r, g, b, a
}

// unpremultiply converts premultiplied float channels back to 8-bit straight
// alpha with round-to-nearest quantization.
func unpremultiply(r, g, b, a float32) (uint8, uint8, uint8, uint8) {
	if a <= 0 {
		return 0, 0, 0, 0
	}
	quant := func(c float32) uint8 {
		v := float64(c) / float64(a) * 255
		if v >= 255 {
			return 255
		}
		if v <= 0 {
			return 0
		}
		return uint8(v + 0.5)
	}
	av := float64(a) * 255
	if av > 255 {
		av = 255
	}
	return quant(r), quant(g), quant(b), uint8(av + 0.5)
}
