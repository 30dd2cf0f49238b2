package decor

import (
	"fmt"
	"image"
	"image/color"
)

// BorderStyle selects how the border band is rendered.
type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDouble BorderStyle = "double"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
	BorderGroove BorderStyle = "groove"
	BorderRidge  BorderStyle = "ridge"
	BorderInset  BorderStyle = "inset"
	BorderOutset BorderStyle = "outset"
)

// Style describes the full decoration applied to a capture: the border band,
// optional padding between content and border, an optional background fill,
// and the drop shadow. A Style is validated once with Validate and treated as
// read-only by the compositing path.
type Style struct {
	Border       BorderStyle
	Thickness    int
	Color        color.RGBA
	CornerRadius int

	// Padding is inserted between the content and the inner border edge and
	// filled with Background (or left transparent when Background is nil).
	Padding    int
	Background *color.RGBA

	ShadowOffset  image.Point
	ShadowBlur    int
	ShadowColor   color.RGBA
	ShadowOpacity float64
}

// DefaultStyle mirrors the stock plugin configuration: a thin dark solid
// border with no shadow.
func DefaultStyle() Style {
	return Style{
		Border:    BorderSolid,
		Thickness: 3,
		Color:     color.RGBA{R: 60, G: 60, B: 60, A: 255},
	}
}

// Validate checks the style once, outside the hot compositing path. The
// compositor assumes a validated style and performs no further checks.
func (s Style) Validate() error {
	if s.Thickness < 0 {
		return fmt.Errorf("border thickness must be non-negative, got %d", s.Thickness)
	}
	if s.CornerRadius < 0 {
		return fmt.Errorf("corner radius must be non-negative, got %d", s.CornerRadius)
	}
	if s.Padding < 0 {
		return fmt.Errorf("padding must be non-negative, got %d", s.Padding)
	}
	if s.ShadowBlur < 0 {
		return fmt.Errorf("shadow blur radius must be non-negative, got %d", s.ShadowBlur)
	}
	if s.ShadowOpacity < 0 || s.ShadowOpacity > 1 {
		return fmt.Errorf("shadow opacity must be in [0,1], got %g", s.ShadowOpacity)
	}
	switch s.Border {
	case "", BorderSolid, BorderDouble, BorderDashed, BorderDotted,
		BorderGroove, BorderRidge, BorderInset, BorderOutset:
	default:
		return fmt.Errorf("unknown border style %q", s.Border)
	}
	return nil
}

// HasShadow reports whether the style produces a visible shadow. A shadow
// needs opacity, a non-transparent color, and either an offset or blur;
// otherwise it would sit pixel-identical under the border.
func (s Style) HasShadow() bool {
	if s.ShadowOpacity <= 0 || s.ShadowColor.A == 0 {
		return false
	}
	return s.ShadowBlur > 0 || s.ShadowOffset.X != 0 || s.ShadowOffset.Y != 0
}

// Geometry locates the content and the frame inside the output canvas. All
// coordinates are canvas-relative with origin at the top-left.
type Geometry struct {
	CanvasW, CanvasH int

	// Content is the rectangle the original bitmap occupies.
	Content image.Rectangle

	// Frame is the outer edge of the border band. The band occupies the ring
	// between Frame and Frame inset by Thickness; the padding ring sits
	// between that inner edge and Content.
	Frame image.Rectangle

	// CornerRadius is the outer corner radius after clamping against the
	// frame dimensions.
	CornerRadius int
}

// ComputeGeometry sizes the output canvas for a source bitmap. The shadow
// margin reserves blur plus the directional offset on each side so the blurred
// shadow is never clipped.
func ComputeGeometry(srcW, srcH int, s Style) Geometry {
	frame := s.Thickness + s.Padding

	var left, right, top, bottom int
	if s.HasShadow() {
		left = s.ShadowBlur + max(0, -s.ShadowOffset.X)
		right = s.ShadowBlur + max(0, s.ShadowOffset.X)
		top = s.ShadowBlur + max(0, -s.ShadowOffset.Y)
		bottom = s.ShadowBlur + max(0, s.ShadowOffset.Y)
	}

	g := Geometry{
		CanvasW: srcW + 2*frame + left + right,
		CanvasH: srcH + 2*frame + top + bottom,
	}
	g.Content = image.Rect(left+frame, top+frame, left+frame+srcW, top+frame+srcH)
	g.Frame = g.Content.Inset(-frame)

	// A radius beyond half the shorter frame side would self-intersect.
	g.CornerRadius = s.CornerRadius
	if limit := min(g.Frame.Dx(), g.Frame.Dy()) / 2; g.CornerRadius > limit {
		g.CornerRadius = limit
	}
	return g
}

// innerRadius returns the corner radius of the inner border edge so the inner
// curve stays concentric with the outer one.
func (g Geometry) innerRadius(thickness int) int {
	r := g.CornerRadius - thickness
	if r < 0 {
		r = 0
	}
	return r
}
