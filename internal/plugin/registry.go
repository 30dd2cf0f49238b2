package plugin

import (
	"fmt"
	"image"
	"sync"

	"github.com/capdeco/capdeco/internal/logger"
)

// Registry owns the loaded plugins and dispatches capture events to them in
// registration order. A plugin that fails or panics is isolated: the event
// continues to the remaining plugins and the capture pipeline is never
// aborted.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	loaded  map[string]bool
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{loaded: make(map[string]bool)}
}

// Register adds a plugin and calls its OnLoad hook. Duplicate names are
// rejected; an OnLoad failure leaves the plugin registered but inert.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin %q already registered", p.Name())
		}
	}

	log := logger.WithComponent("plugins")
	if err := p.OnLoad(); err != nil {
		log.Warn().
			Err(err).
			Str("plugin", p.Name()).
			Msg("Plugin failed to load, keeping it inert")
		r.plugins = append(r.plugins, p)
		return nil
	}

	r.plugins = append(r.plugins, p)
	r.loaded[p.Name()] = true
	log.Info().
		Str("plugin", p.Name()).
		Str("version", p.Version()).
		Msg("Plugin loaded")
	return nil
}

// Plugins returns the registered plugins in dispatch order.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// Dispatch delivers an event to every loaded plugin in order. For
// post-capture events, a plugin's replacement image is what the next plugin
// (and ultimately the host) sees; the final image is returned. The input
// event is not mutated beyond the image chain.
func (r *Registry) Dispatch(ev *Event) *image.RGBA {
	r.mu.RLock()
	plugins := make([]Plugin, len(r.plugins))
	copy(plugins, r.plugins)
	loaded := make(map[string]bool, len(r.loaded))
	for k, v := range r.loaded {
		loaded[k] = v
	}
	r.mu.RUnlock()

	current := ev.Image
	for _, p := range plugins {
		if !loaded[p.Name()] {
			continue
		}
		chained := *ev
		chained.Image = current
		if resp := r.dispatchOne(p, &chained); resp.Image != nil {
			current = resp.Image
		}
	}
	return current
}

// dispatchOne invokes a single plugin, converting a panic into a logged
// failure so one broken plugin cannot take down the capture pipeline.
func (r *Registry) dispatchOne(p Plugin, ev *Event) (resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithComponent("plugins").Error().
				Str("plugin", p.Name()).
				Str("event", string(ev.Kind)).
				Interface("panic", rec).
				Msg("Plugin panicked during dispatch")
			resp = Continue
		}
	}()
	return p.OnEvent(ev)
}

// Close unloads plugins in reverse registration order.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := logger.WithComponent("plugins")
	for i := len(r.plugins) - 1; i >= 0; i-- {
		p := r.plugins[i]
		if err := p.OnUnload(); err != nil {
			log.Warn().
				Err(err).
				Str("plugin", p.Name()).
				Msg("Plugin unload failed")
		}
	}
	r.plugins = nil
	r.loaded = make(map[string]bool)
}
