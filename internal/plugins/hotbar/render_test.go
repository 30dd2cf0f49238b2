package hotbar

import (
	"image"
	"image/color"
	"testing"

	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/decor"
	"github.com/capdeco/capdeco/internal/plugin"
)

func testConfig() config.HotbarConfig {
	return config.HotbarConfig{
		Enabled: true,
		Buttons: []config.HotbarButton{
			{Action: "capture_screen"},
			{Action: "capture_window"},
			{Action: "capture_region"},
		},
		ButtonWidth:  36,
		ButtonHeight: 36,
		Spacing:      6,
		Padding:      10,
		CornerRadius: 8,
		Glass: config.GlassConfig{
			Enabled:    false,
			TintColor:  config.RGBA{30, 30, 30, 180},
			BlurAmount: 4,
		},
	}
}

func TestComputeLayout(t *testing.T) {
	l := computeLayout(testConfig())

	if l.W != 140 || l.H != 56 {
		t.Fatalf("bar size = %dx%d, want 140x56", l.W, l.H)
	}
	want := []image.Rectangle{
		image.Rect(10, 10, 46, 46),
		image.Rect(52, 10, 88, 46),
		image.Rect(94, 10, 130, 46),
	}
	for i, r := range l.Buttons {
		if r != want[i] {
			t.Errorf("button %d rect = %v, want %v", i, r, want[i])
		}
	}
}

func TestButtonHitTest(t *testing.T) {
	l := computeLayout(testConfig())

	cases := []struct {
		x, y, want int
	}{
		{15, 15, 0},
		{70, 28, 1},
		{95, 20, 2},
		{48, 15, -1}, // gap between buttons
		{5, 5, -1},   // bar padding
		{200, 200, -1},
	}
	for _, tc := range cases {
		if got := l.buttonAt(tc.x, tc.y); got != tc.want {
			t.Errorf("buttonAt(%d, %d) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestRenderBarFlat(t *testing.T) {
	img, l := renderBar(decor.NewEngine(), testConfig(), nil)

	if img.Bounds().Dx() != l.W || img.Bounds().Dy() != l.H {
		t.Fatalf("bitmap size %v does not match layout %dx%d", img.Bounds(), l.W, l.H)
	}

	// The rounded corner falls outside the bar shape; the base fill shows.
	if got := img.RGBAAt(0, 0); got != (color.RGBA{24, 24, 24, 255}) {
		t.Errorf("corner pixel = %v, want base fill", got)
	}

	// With glass disabled the pane is the flat opaque tint.
	gap := img.RGBAAt(48, 28)
	if gap != (color.RGBA{30, 30, 30, 255}) {
		t.Errorf("gap pixel = %v, want opaque tint", gap)
	}

	// Button faces are lifted above the pane.
	btn := img.RGBAAt(70, 28)
	if btn.R <= gap.R {
		t.Errorf("button pixel %v should be brighter than pane %v", btn, gap)
	}
}

func TestRenderBarGlassUsesBackdrop(t *testing.T) {
	cfg := testConfig()
	cfg.Glass.Enabled = true

	l := computeLayout(cfg)
	backdrop := image.NewRGBA(image.Rect(0, 0, l.W, l.H))
	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if (x/8+y/8)%2 == 0 {
				c = color.RGBA{255, 255, 255, 255}
			}
			backdrop.SetRGBA(x, y, c)
		}
	}

	img, _ := renderBar(decor.NewEngine(), cfg, backdrop)

	// Blur plus tint flattens the checkerboard: inside the bar no pixel keeps
	// the raw backdrop extremes.
	for _, pt := range []image.Point{{30, 28}, {48, 28}, {110, 28}} {
		c := img.RGBAAt(pt.X, pt.Y)
		if c.R == 0 || c.R == 255 {
			t.Errorf("pixel at %v = %v, want blurred and tinted midtone", pt, c)
		}
		if c.A != 255 {
			t.Errorf("pixel at %v has alpha %d, overlay must stay opaque", pt, c.A)
		}
	}
}

func TestRenderBarLabel(t *testing.T) {
	cfg := testConfig()
	cfg.Buttons = []config.HotbarButton{{Action: "capture_screen", Label: "S"}}

	with, l := renderBar(decor.NewEngine(), cfg, nil)
	cfg.Buttons[0].Label = ""
	without, _ := renderBar(decor.NewEngine(), cfg, nil)

	r := l.Buttons[0]
	diff := false
	for y := r.Min.Y; y < r.Max.Y && !diff; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if with.RGBAAt(x, y) != without.RGBAAt(x, y) {
				diff = true
				break
			}
		}
	}
	if !diff {
		t.Error("label glyph left no mark on the button face")
	}
}

func TestPluginSilentWithoutDisplay(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	p := New(cfg)

	if err := p.OnLoad(); err != nil {
		t.Fatalf("OnLoad: %v", err)
	}
	if !p.silent {
		t.Error("disabled hotbar should be silent")
	}
	if resp := p.OnEvent(&plugin.Event{Kind: plugin.PreCapture}); resp.Image != nil {
		t.Error("hotbar never replaces the capture")
	}
	if err := p.OnUnload(); err != nil {
		t.Fatalf("OnUnload: %v", err)
	}
}
