package decor

import (
	"image"
	"image/color"
	"math"
)

// Mask is a single-channel coverage buffer in [0,1], row-major, sized to the
// output canvas. Masks are produced by the renderer and consumed (and
// discarded) by the compositor.
type Mask struct {
	W, H int
	Cov  []float32
}

// NewMask allocates a zero-coverage mask.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Cov: make([]float32, w*h)}
}

// At returns the coverage at (x, y); out-of-bounds lookups are zero.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0
	}
	return m.Cov[y*m.W+x]
}

// BorderLayer pairs a coverage mask with the color it is blended with. Most
// border styles produce a single layer; the 3-D styles split the band into
// light and dark segments.
type BorderLayer struct {
	Mask  *Mask
	Color color.RGBA
}

// RenderMasks rasterizes the border band and the shadow silhouette for the
// given geometry. The shadow mask is the outer frame shape translated by the
// configured offset, before blurring; it is empty when the style produces no
// visible shadow.
func RenderMasks(g Geometry, s Style) ([]BorderLayer, *Mask) {
	return renderBorderLayers(g, s), renderShadowMask(g, s)
}

func renderBorderLayers(g Geometry, s Style) []BorderLayer {
	if s.Thickness <= 0 {
		return nil
	}

	style := s.Border
	if style == "" {
		style = BorderSolid
	}

	switch style {
	case BorderSolid:
		return []BorderLayer{{ringMask(g, g.Frame, g.CornerRadius, s.Thickness), s.Color}}

	case BorderDouble:
		third := s.Thickness / 3
		if third == 0 {
			return []BorderLayer{{ringMask(g, g.Frame, g.CornerRadius, s.Thickness), s.Color}}
		}
		outer := ringMask(g, g.Frame, g.CornerRadius, third)
		innerFrame := g.Frame.Inset(s.Thickness - third)
		inner := ringMask(g, innerFrame, g.innerRadius(s.Thickness-third), third)
		return []BorderLayer{{outer, s.Color}, {inner, s.Color}}

	case BorderDashed:
		m := ringMask(g, g.Frame, g.CornerRadius, s.Thickness)
		applyDashPattern(m, g.Frame, 10, 5)
		return []BorderLayer{{m, s.Color}}

	case BorderDotted:
		m := ringMask(g, g.Frame, g.CornerRadius, s.Thickness)
		applyDashPattern(m, g.Frame, 2, 2)
		return []BorderLayer{{m, s.Color}}

	case BorderGroove, BorderRidge:
		light, dark := reliefColors(s.Color)
		outerTL, innerTL := dark, light
		if style == BorderRidge {
			outerTL, innerTL = light, dark
		}
		half := s.Thickness / 2
		if half == 0 {
			return []BorderLayer{{ringMask(g, g.Frame, g.CornerRadius, s.Thickness), s.Color}}
		}
		outer := ringMask(g, g.Frame, g.CornerRadius, half)
		inner := ringMask(g, g.Frame.Inset(s.Thickness-half), g.innerRadius(s.Thickness-half), half)
		oTL, oBR := splitByEdge(outer, g.Frame)
		iTL, iBR := splitByEdge(inner, g.Frame)
		return []BorderLayer{
			{oTL, outerTL}, {oBR, opposite(outerTL, light, dark)},
			{iTL, innerTL}, {iBR, opposite(innerTL, light, dark)},
		}

	case BorderInset, BorderOutset:
		light, dark := reliefColors(s.Color)
		tl := dark
		if style == BorderOutset {
			tl = light
		}
		m := ringMask(g, g.Frame, g.CornerRadius, s.Thickness)
		mTL, mBR := splitByEdge(m, g.Frame)
		return []BorderLayer{{mTL, tl}, {mBR, opposite(tl, light, dark)}}
	}
	return nil
}

func renderShadowMask(g Geometry, s Style) *Mask {
	m := NewMask(g.CanvasW, g.CanvasH)
	if !s.HasShadow() {
		return m
	}
	rect := g.Frame.Add(s.ShadowOffset)
	FillRoundedRect(m, rect, g.CornerRadius)
	return m
}

// ringMask rasterizes the band between rect and rect inset by thickness, with
// anti-aliased inner and outer edges. Coverage is the difference of the two
// rounded-rect fills, so the band hits exactly 1.0 in its interior and fades
// across a 1-pixel transition at each edge.
func ringMask(g Geometry, rect image.Rectangle, radius, thickness int) *Mask {
	m := NewMask(g.CanvasW, g.CanvasH)
	inner := rect.Inset(thickness)
	innerR := radius - thickness
	if innerR < 0 {
		innerR = 0
	}
	for y := rect.Min.Y - 1; y <= rect.Max.Y; y++ {
		for x := rect.Min.X - 1; x <= rect.Max.X; x++ {
			if x < 0 || y < 0 || x >= m.W || y >= m.H {
				continue
			}
			cov := roundedRectCoverage(x, y, rect, radius)
			if inner.Dx() > 0 && inner.Dy() > 0 {
				cov -= roundedRectCoverage(x, y, inner, innerR)
			}
			if cov > 0 {
				m.Cov[y*m.W+x] = cov
			}
		}
	}
	return m
}

// FillRoundedRect rasterizes a filled rounded rectangle into m.
func FillRoundedRect(m *Mask, rect image.Rectangle, radius int) {
	for y := rect.Min.Y - 1; y <= rect.Max.Y; y++ {
		for x := rect.Min.X - 1; x <= rect.Max.X; x++ {
			if x < 0 || y < 0 || x >= m.W || y >= m.H {
				continue
			}
			if cov := roundedRectCoverage(x, y, rect, radius); cov > 0 {
				m.Cov[y*m.W+x] = cov
			}
		}
	}
}

// roundedRectCoverage evaluates the pixel-center signed distance to the
// rounded rectangle boundary and maps it to fractional coverage over a
// 1-pixel-wide transition. Negative distance is inside.
func roundedRectCoverage(x, y int, rect image.Rectangle, radius int) float32 {
	px := float64(x) + 0.5 - (float64(rect.Min.X)+float64(rect.Max.X))/2
	py := float64(y) + 0.5 - (float64(rect.Min.Y)+float64(rect.Max.Y))/2
	hw := float64(rect.Dx()) / 2
	hh := float64(rect.Dy()) / 2
	r := float64(radius)

	qx := math.Abs(px) - (hw - r)
	qy := math.Abs(py) - (hh - r)
	d := math.Min(math.Max(qx, qy), 0) + math.Hypot(math.Max(qx, 0), math.Max(qy, 0)) - r

	cov := 0.5 - d
	if cov <= 0 {
		return 0
	}
	if cov >= 1 {
		return 1
	}
	return float32(cov)
}

// applyDashPattern zeroes band coverage along the gap segments of a dash
// cycle. The phase follows the coordinate along the nearest frame edge, so
// dashes stay aligned per edge the way the stock plugin draws them.
func applyDashPattern(m *Mask, frame image.Rectangle, dash, gap int) {
	cycle := dash + gap
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.Cov[y*m.W+x] == 0 {
				continue
			}
			var along int
			if nearestEdgeHorizontal(x, y, frame) {
				along = x - frame.Min.X
			} else {
				along = y - frame.Min.Y
			}
			if along < 0 {
				along = 0
			}
			if along%cycle >= dash {
				m.Cov[y*m.W+x] = 0
			}
		}
	}
}

// splitByEdge partitions band coverage into a top/left mask and a
// bottom/right mask, the split the 3-D border styles shade against.
func splitByEdge(m *Mask, frame image.Rectangle) (topLeft, bottomRight *Mask) {
	topLeft = NewMask(m.W, m.H)
	bottomRight = NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			cov := m.Cov[y*m.W+x]
			if cov == 0 {
				continue
			}
			dTop := y - frame.Min.Y
			dLeft := x - frame.Min.X
			dBottom := frame.Max.Y - 1 - y
			dRight := frame.Max.X - 1 - x
			if min(dTop, dLeft) <= min(dBottom, dRight) {
				topLeft.Cov[y*m.W+x] = cov
			} else {
				bottomRight.Cov[y*m.W+x] = cov
			}
		}
	}
	return topLeft, bottomRight
}

// nearestEdgeHorizontal reports whether the closest frame edge to (x, y) is
// the top or bottom one.
func nearestEdgeHorizontal(x, y int, frame image.Rectangle) bool {
	dTop := abs(y - frame.Min.Y)
	dBottom := abs(frame.Max.Y - 1 - y)
	dLeft := abs(x - frame.Min.X)
	dRight := abs(frame.Max.X - 1 - x)
	return min(dTop, dBottom) <= min(dLeft, dRight)
}

// reliefColors derives the light and dark shades used by the 3-D border
// styles, saturating at the channel bounds.
func reliefColors(base color.RGBA) (light, dark color.RGBA) {
	lift := func(v uint8) uint8 {
		if v > 255-60 {
			return 255
		}
		return v + 60
	}
	drop := func(v uint8) uint8 {
		if v < 60 {
			return 0
		}
		return v - 60
	}
	light = color.RGBA{R: lift(base.R), G: lift(base.G), B: lift(base.B), A: base.A}
	dark = color.RGBA{R: drop(base.R), G: drop(base.G), B: drop(base.B), A: base.A}
	return light, dark
}

func opposite(c, light, dark color.RGBA) color.RGBA {
	if c == light {
		return dark
	}
	return light
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
