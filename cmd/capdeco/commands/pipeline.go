package commands

import (
	"fmt"
	"image"

	"github.com/capdeco/capdeco/internal/api"
	"github.com/capdeco/capdeco/internal/capture"
	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/output"
	"github.com/capdeco/capdeco/internal/plugin"
	"github.com/capdeco/capdeco/internal/plugins/borders"
	"github.com/capdeco/capdeco/internal/plugins/hotbar"
	"github.com/capdeco/capdeco/internal/plugins/sounds"
)

// pipeline wires the capturer, the plugin registry and the PNG writer into
// the capture flow both `shoot` and `serve` run: pre-capture event, grab,
// post-capture chain, save, post-save event.
type pipeline struct {
	capturer capture.Capturer
	registry *plugin.Registry
	writer   *output.PNGWriter
	events   *api.EventHub // nil outside serve
}

// region is the parsed form of the --region flag.
type region struct {
	x, y, w, h int
}

func newPipeline(cfg *config.Config, withHotbar bool) (*pipeline, error) {
	capturer, err := capture.NewX11Capturer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize capturer: %w", err)
	}
	if err := capturer.Start(); err != nil {
		capturer.Stop()
		return nil, err
	}

	writer := output.NewPNGWriter(cfg.OutputDir)
	if err := writer.Start(); err != nil {
		capturer.Stop()
		return nil, err
	}

	p := &pipeline{
		capturer: capturer,
		registry: plugin.NewRegistry(),
		writer:   writer,
	}

	bordersPlugin, err := borders.New(cfg.Border)
	if err != nil {
		capturer.Stop()
		return nil, fmt.Errorf("invalid border configuration: %w", err)
	}
	if err := p.registry.Register(sounds.New(cfg.Sounds)); err != nil {
		return nil, err
	}
	if err := p.registry.Register(bordersPlugin); err != nil {
		return nil, err
	}

	if withHotbar {
		hb := hotbar.New(cfg.Hotbar)
		hb.SetAction("capture_screen", func() error {
			_, err := p.shoot(plugin.ModeFullScreen, nil)
			return err
		})
		hb.SetAction("capture_window", func() error {
			_, err := p.shoot(plugin.ModeWindow, nil)
			return err
		})
		hb.SetAction("capture_region", func() error {
			return fmt.Errorf("region selection requires the shoot command")
		})
		if err := p.registry.Register(hb); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *pipeline) close() {
	p.registry.Close()
	p.capturer.Stop()
	p.writer.Stop()
}

// shoot runs one capture through the full pipeline and returns the saved
// file's path.
func (p *pipeline) shoot(mode plugin.Mode, reg *region) (string, error) {
	p.publish(plugin.Event{Kind: plugin.PreCapture, Mode: mode})
	p.registry.Dispatch(&plugin.Event{Kind: plugin.PreCapture, Mode: mode})

	var img *image.RGBA
	var err error
	switch mode {
	case plugin.ModeWindow:
		img, err = p.capturer.CaptureActiveWindow()
	case plugin.ModeRegion:
		if reg == nil {
			return "", fmt.Errorf("region capture needs --region")
		}
		img, err = p.capturer.CaptureRegion(reg.x, reg.y, reg.w, reg.h)
	default:
		img, err = p.capturer.CaptureScreen()
	}
	if err != nil {
		return "", fmt.Errorf("capture failed: %w", err)
	}

	final := p.registry.Dispatch(&plugin.Event{Kind: plugin.PostCapture, Mode: mode, Image: img})
	p.publish(plugin.Event{Kind: plugin.PostCapture, Mode: mode})

	path, err := p.writer.Write(final)
	if err != nil {
		return "", fmt.Errorf("save failed: %w", err)
	}

	p.registry.Dispatch(&plugin.Event{Kind: plugin.PostSave, Mode: mode, Path: path})
	p.publish(plugin.Event{Kind: plugin.PostSave, Mode: mode, Path: path})
	return path, nil
}

func (p *pipeline) publish(ev plugin.Event) {
	if p.events == nil {
		return
	}
	p.events.Publish(api.PipelineEvent{
		Kind: string(ev.Kind),
		Mode: string(ev.Mode),
		Path: ev.Path,
		URL:  ev.URL,
	})
}
