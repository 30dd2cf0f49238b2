package decor

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidBlackBorder(thickness int) Style {
	return Style{
		Border:    BorderSolid,
		Thickness: thickness,
		Color:     color.RGBA{A: 255},
	}
}

func TestComputeGeometryNoShadow(t *testing.T) {
	g := ComputeGeometry(100, 100, solidBlackBorder(10))

	assert.Equal(t, 120, g.CanvasW)
	assert.Equal(t, 120, g.CanvasH)
	assert.Equal(t, image.Rect(10, 10, 110, 110), g.Content)
	assert.Equal(t, image.Rect(0, 0, 120, 120), g.Frame)
}

func TestComputeGeometryShadowMargin(t *testing.T) {
	s := solidBlackBorder(10)
	s.ShadowOffset = image.Pt(5, 5)
	s.ShadowBlur = 4
	s.ShadowColor = color.RGBA{A: 255}
	s.ShadowOpacity = 0.5

	g := ComputeGeometry(100, 100, s)

	// blur on each side plus the offset on the trailing side: 4 + (4+5) = 13.
	assert.Equal(t, 133, g.CanvasW)
	assert.Equal(t, 133, g.CanvasH)
	assert.Equal(t, image.Rect(14, 14, 114, 114), g.Content)

	// The shadow must fit: frame max + offset + blur == canvas edge.
	assert.Equal(t, g.CanvasW, g.Frame.Max.X+s.ShadowOffset.X+s.ShadowBlur)
}

func TestComputeGeometryClampsCornerRadius(t *testing.T) {
	s := solidBlackBorder(10)
	s.CornerRadius = 1000

	g := ComputeGeometry(100, 100, s)
	assert.Equal(t, 60, g.CornerRadius, "radius clamps to half the shorter frame side")
}

func TestBorderMaskCoverage(t *testing.T) {
	s := solidBlackBorder(10)
	g := ComputeGeometry(100, 100, s)
	layers, _ := RenderMasks(g, s)
	require.Len(t, layers, 1)
	m := layers[0].Mask

	assert.Equal(t, float32(1), m.At(5, 60), "center of the border band")
	assert.Equal(t, float32(0), m.At(60, 60), "center of the content")

	// Walking from the band into the content, coverage never increases.
	prev := float32(1)
	for x := 5; x <= 20; x++ {
		cov := m.At(x, 60)
		assert.LessOrEqual(t, cov, prev, "coverage must fall monotonically at x=%d", x)
		prev = cov
	}
}

func TestBorderMaskAntiAliasedCorner(t *testing.T) {
	s := solidBlackBorder(10)
	s.CornerRadius = 10
	g := ComputeGeometry(100, 100, s)
	layers, _ := RenderMasks(g, s)
	require.Len(t, layers, 1)
	m := layers[0].Mask

	fractional := false
	for y := 0; y < 14 && !fractional; y++ {
		for x := 0; x < 14; x++ {
			if cov := m.At(x, y); cov > 0 && cov < 1 {
				fractional = true
				break
			}
		}
	}
	assert.True(t, fractional, "rounded corner must produce fractional coverage")
}

func TestShadowMaskEmptyWithoutOffsetOrBlur(t *testing.T) {
	s := solidBlackBorder(10)
	s.ShadowColor = color.RGBA{A: 255}
	s.ShadowOpacity = 1

	assert.False(t, s.HasShadow())

	g := ComputeGeometry(100, 100, s)
	_, shadow := RenderMasks(g, s)
	for _, cov := range shadow.Cov {
		require.Equal(t, float32(0), cov)
	}
}

func TestShadowMaskTranslated(t *testing.T) {
	s := solidBlackBorder(10)
	s.ShadowOffset = image.Pt(5, 5)
	s.ShadowColor = color.RGBA{A: 255}
	s.ShadowOpacity = 0.5

	g := ComputeGeometry(100, 100, s)
	_, shadow := RenderMasks(g, s)

	assert.Equal(t, float32(0), shadow.At(2, 2), "outside the translated silhouette")
	assert.Equal(t, float32(1), shadow.At(60, 60))
	assert.Equal(t, float32(1), shadow.At(60, 122), "silhouette extends past the frame on the offset side")
	assert.Equal(t, float32(0), shadow.At(3, 60))
}

func TestDashedBorderHasGaps(t *testing.T) {
	s := solidBlackBorder(10)
	s.Border = BorderDashed
	g := ComputeGeometry(100, 100, s)
	layers, _ := RenderMasks(g, s)
	require.Len(t, layers, 1)
	m := layers[0].Mask

	assert.Equal(t, float32(1), m.At(5, 5), "inside a dash segment")
	assert.Equal(t, float32(0), m.At(12, 5), "inside a gap segment")
}

func TestDoubleBorderLayers(t *testing.T) {
	s := solidBlackBorder(9)
	s.Border = BorderDouble
	g := ComputeGeometry(100, 100, s)
	layers, _ := RenderMasks(g, s)
	require.Len(t, layers, 2)

	outer, inner := layers[0].Mask, layers[1].Mask
	assert.Equal(t, float32(1), outer.At(1, 59), "outer strip")
	assert.Equal(t, float32(0), outer.At(4, 59), "gap between strips")
	assert.Equal(t, float32(0), inner.At(4, 59))
	assert.Equal(t, float32(1), inner.At(7, 59), "inner strip")
}

func TestInsetBorderSplitsLightDark(t *testing.T) {
	s := Style{
		Border:    BorderInset,
		Thickness: 10,
		Color:     color.RGBA{R: 100, G: 100, B: 100, A: 255},
	}
	g := ComputeGeometry(100, 100, s)
	layers, _ := RenderMasks(g, s)
	require.Len(t, layers, 2)

	light, dark := reliefColors(s.Color)
	assert.Equal(t, dark, layers[0].Color, "inset shades top/left dark")
	assert.Equal(t, light, layers[1].Color)

	assert.Positive(t, layers[0].Mask.At(5, 60), "left edge belongs to the top/left mask")
	assert.Zero(t, layers[1].Mask.At(5, 60))
	assert.Positive(t, layers[1].Mask.At(114, 60), "right edge belongs to the bottom/right mask")
	assert.Zero(t, layers[0].Mask.At(114, 60))
}

func TestZeroThicknessProducesNoBorder(t *testing.T) {
	s := solidBlackBorder(0)
	g := ComputeGeometry(100, 100, s)
	layers, _ := RenderMasks(g, s)
	assert.Empty(t, layers)
	assert.Equal(t, 100, g.CanvasW)
}
