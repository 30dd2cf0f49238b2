// Package hotbar implements the floating capture toolbar: a small
// override-redirect X11 window with an acrylic glass backdrop and a row of
// action buttons. Button clicks dispatch to host-registered actions, so the
// plugin stays decoupled from the capture pipeline that feeds it.
package hotbar

import (
	"image"
	"sync"

	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/decor"
	"github.com/capdeco/capdeco/internal/logger"
	"github.com/capdeco/capdeco/internal/plugin"
)

// Action is a host-provided handler for a hotbar button.
type Action func() error

// Plugin is the hotbar plugin. Without an X server it degrades to silent mode
// and every event becomes a no-op, the same contract the sounds plugin keeps
// for a missing audio device.
type Plugin struct {
	cfg    config.HotbarConfig
	engine *decor.Engine

	mu      sync.Mutex
	actions map[string]Action
	ov      *overlay
	lay     layout
	silent  bool
}

// New creates the hotbar plugin from its configuration section.
func New(cfg config.HotbarConfig) *Plugin {
	return &Plugin{
		cfg:     cfg,
		engine:  decor.NewEngine(),
		actions: make(map[string]Action),
	}
}

func (p *Plugin) Name() string        { return "hotbar" }
func (p *Plugin) Version() string     { return "1.0.0" }
func (p *Plugin) Description() string { return "Floating toolbar with capture action buttons" }

// SetAction registers the handler a button action name dispatches to.
// Unregistered actions are logged and dropped on click.
func (p *Plugin) SetAction(name string, fn Action) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions[name] = fn
}

// OnLoad connects to the X server and shows the toolbar. Connection failure
// leaves the plugin registered but silent.
func (p *Plugin) OnLoad() error {
	if !p.cfg.Enabled || len(p.cfg.Buttons) == 0 {
		p.silent = true
		return nil
	}

	ov, err := newOverlay()
	if err != nil {
		logger.WithComponent("hotbar").Warn().
			Err(err).
			Msg("X server unavailable, hotbar disabled")
		p.silent = true
		return nil
	}
	p.ov = ov

	if err := p.refresh(); err != nil {
		logger.WithComponent("hotbar").Warn().
			Err(err).
			Msg("Failed to show hotbar")
		ov.close()
		p.ov = nil
		p.silent = true
		return nil
	}

	go ov.run(p.handleClick)

	logger.WithComponent("hotbar").Info().
		Int("buttons", len(p.cfg.Buttons)).
		Str("position", p.cfg.Position).
		Msg("Hotbar shown")
	return nil
}

func (p *Plugin) OnUnload() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ov != nil {
		p.ov.close()
		p.ov = nil
	}
	return nil
}

// OnEvent hides the toolbar for the duration of a capture so it never ends up
// in the screenshot, then restores it with a fresh backdrop.
func (p *Plugin) OnEvent(ev *plugin.Event) plugin.Response {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.silent || p.ov == nil {
		return plugin.Continue
	}

	switch ev.Kind {
	case plugin.PreCapture:
		p.ov.hide()
	case plugin.PostCapture:
		if err := p.refresh(); err != nil {
			logger.WithComponent("hotbar").Warn().
				Err(err).
				Msg("Failed to restore hotbar after capture")
		}
	}
	return plugin.Continue
}

// refresh re-captures the backdrop, re-renders the bar and shows it.
// Callers hold p.mu or run before the event goroutine starts.
func (p *Plugin) refresh() error {
	l := computeLayout(p.cfg)
	x, y := p.position(l)

	var backdrop *image.RGBA
	if p.cfg.Glass.Enabled {
		bd, err := p.ov.captureRoot(image.Rect(x, y, x+l.W, y+l.H))
		if err != nil {
			logger.WithComponent("hotbar").Debug().
				Err(err).
				Msg("Backdrop capture failed, using flat pane")
		} else {
			backdrop = bd
		}
	}

	img, lay := renderBar(p.engine, p.cfg, backdrop)
	p.lay = lay
	return p.ov.show(img, x, y)
}

// position resolves the configured edge to screen coordinates, with a small
// margin so the bar clears docks and panels.
func (p *Plugin) position(l layout) (int, int) {
	const margin = 24
	sw, sh := p.ov.screenSize()
	x := (sw - l.W) / 2
	y := sh - l.H - margin

	switch p.cfg.Position {
	case "top":
		y = margin
	case "left":
		x = margin
		y = (sh - l.H) / 2
	case "right":
		x = sw - l.W - margin
		y = (sh - l.H) / 2
	}
	return x, y
}

// handleClick runs on the overlay's event goroutine.
func (p *Plugin) handleClick(x, y int) {
	p.mu.Lock()
	idx := p.lay.buttonAt(x, y)
	var name string
	var fn Action
	if idx >= 0 && idx < len(p.cfg.Buttons) {
		name = p.cfg.Buttons[idx].Action
		fn = p.actions[name]
	}
	p.mu.Unlock()

	if name == "" {
		return
	}
	log := logger.WithComponent("hotbar")
	if fn == nil {
		log.Warn().
			Str("action", name).
			Msg("No handler registered for hotbar action")
		return
	}
	log.Debug().
		Str("action", name).
		Msg("Hotbar action triggered")
	if err := fn(); err != nil {
		log.Error().
			Err(err).
			Str("action", name).
			Msg("Hotbar action failed")
	}
}
