package borders

import (
	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/decor"
	"github.com/capdeco/capdeco/internal/logger"
	"github.com/capdeco/capdeco/internal/plugin"
)

// Plugin composites a decorative border and drop shadow onto every capture it
// subscribes to. The heavy lifting lives in the decor package; this layer is
// the event-hook adapter plus per-mode filtering.
type Plugin struct {
	cfg    config.BorderConfig
	style  decor.Style
	engine *decor.Engine
}

// New creates the borders plugin from its validated configuration section.
func New(cfg config.BorderConfig) (*Plugin, error) {
	style, err := cfg.ToStyle()
	if err != nil {
		return nil, err
	}
	return &Plugin{
		cfg:    cfg,
		style:  style,
		engine: decor.NewEngine(),
	}, nil
}

func (p *Plugin) Name() string        { return "borders" }
func (p *Plugin) Version() string     { return "1.0.0" }
func (p *Plugin) Description() string { return "Add customizable borders to captured images" }

func (p *Plugin) OnLoad() error   { return nil }
func (p *Plugin) OnUnload() error { return nil }

// OnEvent decorates post-capture bitmaps. On any compositing failure the
// event continues unchanged so the host falls back to the raw capture.
func (p *Plugin) OnEvent(ev *plugin.Event) plugin.Response {
	if ev.Kind != plugin.PostCapture || ev.Image == nil {
		return plugin.Continue
	}
	if !p.cfg.Enabled || !plugin.ModeAllowed(p.cfg.OnlyModes, ev.Mode) {
		return plugin.Continue
	}

	out, err := p.engine.Decorate(ev.Image, p.style)
	if err != nil {
		logger.WithComponent("borders").Warn().
			Err(err).
			Str("mode", string(ev.Mode)).
			Msg("Compositing failed, passing capture through unmodified")
		return plugin.Continue
	}

	logger.WithComponent("borders").Debug().
		Int("src_w", ev.Image.Bounds().Dx()).
		Int("src_h", ev.Image.Bounds().Dy()).
		Int("out_w", out.Bounds().Dx()).
		Int("out_h", out.Bounds().Dy()).
		Msg("Capture decorated")
	return plugin.Response{Image: out}
}
