package borders

import (
	"image"
	"testing"

	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/plugin"
)

func enabledConfig() config.BorderConfig {
	return config.BorderConfig{
		Enabled: true,
		Style:   "solid",
		Size:    5,
		Color:   config.RGBA{0, 0, 0, 255},
	}
}

func capture(w, h int) *plugin.Event {
	return &plugin.Event{
		Kind:  plugin.PostCapture,
		Mode:  plugin.ModeFullScreen,
		Image: image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := enabledConfig()
	cfg.Size = -1
	if _, err := New(cfg); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
}

func TestOnEventDecorates(t *testing.T) {
	p, err := New(enabledConfig())
	if err != nil {
		t.Fatal(err)
	}

	ev := capture(40, 30)
	resp := p.OnEvent(ev)
	if resp.Image == nil {
		t.Fatal("expected a replacement image")
	}
	if got := resp.Image.Bounds().Dx(); got != 50 {
		t.Errorf("output width = %d, want 50", got)
	}
	if resp.Image == ev.Image {
		t.Error("plugin must not return the host-owned bitmap")
	}
}

func TestOnEventDisabled(t *testing.T) {
	cfg := enabledConfig()
	cfg.Enabled = false
	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if resp := p.OnEvent(capture(40, 30)); resp.Image != nil {
		t.Error("disabled plugin must pass the capture through")
	}
}

func TestOnEventModeFilter(t *testing.T) {
	cfg := enabledConfig()
	cfg.OnlyModes = []string{"region"}
	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	ev := capture(40, 30) // fullscreen
	if resp := p.OnEvent(ev); resp.Image != nil {
		t.Error("fullscreen capture must be skipped by a region-only filter")
	}

	ev.Mode = plugin.ModeRegion
	if resp := p.OnEvent(ev); resp.Image == nil {
		t.Error("region capture must be decorated")
	}
}

func TestOnEventIgnoresOtherKinds(t *testing.T) {
	p, err := New(enabledConfig())
	if err != nil {
		t.Fatal(err)
	}

	resp := p.OnEvent(&plugin.Event{Kind: plugin.PostSave, Path: "/tmp/x.png"})
	if resp.Image != nil {
		t.Error("post-save events carry no image to decorate")
	}
}

func TestOnEventEmptyCapture(t *testing.T) {
	p, err := New(enabledConfig())
	if err != nil {
		t.Fatal(err)
	}

	ev := capture(0, 0)
	if resp := p.OnEvent(ev); resp.Image != nil {
		t.Error("empty capture must pass through unmodified")
	}
}
