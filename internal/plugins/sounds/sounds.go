package sounds

import (
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/logger"
	"github.com/capdeco/capdeco/internal/plugin"
)

// sampleRate is the speaker mixing rate; decoded streams at other rates are
// resampled on the fly.
const sampleRate = beep.SampleRate(44100)

// Plugin plays configurable sounds on capture lifecycle events. Playback is
// asynchronous on the speaker's mixer goroutine; every failure (missing file,
// no audio device, bad wav) is logged and swallowed so the capture pipeline
// is never blocked or aborted by audio problems.
type Plugin struct {
	cfg config.SoundsConfig

	mu     sync.Mutex
	ready  bool
	silent bool
}

// New creates the sounds plugin from its configuration section.
func New(cfg config.SoundsConfig) *Plugin {
	return &Plugin{cfg: cfg}
}

func (p *Plugin) Name() string        { return "sounds" }
func (p *Plugin) Version() string     { return "1.0.0" }
func (p *Plugin) Description() string { return "Play customizable sounds on capture events" }

// OnLoad initializes the speaker. When no audio device is available the
// plugin degrades to silent mode instead of failing.
func (p *Plugin) OnLoad() error {
	if !p.cfg.Enabled {
		p.silent = true
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		logger.WithComponent("sounds").Warn().
			Err(err).
			Msg("Audio device unavailable, running silent")
		p.silent = true
		return nil
	}
	p.ready = true
	return nil
}

func (p *Plugin) OnUnload() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		speaker.Clear()
	}
	return nil
}

func (p *Plugin) OnEvent(ev *plugin.Event) plugin.Response {
	entry := p.entryFor(ev.Kind)
	if entry == nil {
		return plugin.Continue
	}
	if ev.Kind == plugin.PreCapture || ev.Kind == plugin.PostCapture {
		if !plugin.ModeAllowed(entry.OnlyModes, ev.Mode) {
			return plugin.Continue
		}
	}
	p.play(entry)
	return plugin.Continue
}

func (p *Plugin) entryFor(kind plugin.Kind) *config.SoundEntry {
	switch kind {
	case plugin.PreCapture:
		return p.cfg.PreCapture
	case plugin.PostCapture:
		return p.cfg.PostCapture
	case plugin.PostSave:
		return p.cfg.PostSave
	case plugin.PostUpload:
		return p.cfg.PostUpload
	}
	return nil
}

// volumeFor combines the per-entry volume with the master volume, clamped to
// [0, 2].
func (p *Plugin) volumeFor(entry *config.SoundEntry) float64 {
	v := 1.0
	if entry.Volume != nil {
		v = *entry.Volume
	}
	v *= p.cfg.Volume
	if v < 0 {
		return 0
	}
	if v > 2 {
		return 2
	}
	return v
}

func (p *Plugin) play(entry *config.SoundEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.silent || !p.ready {
		return
	}

	log := logger.WithComponent("sounds")

	f, err := os.Open(entry.Path)
	if err != nil {
		log.Warn().
			Str("path", entry.Path).
			Msg("Sound file missing, skipping playback")
		return
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		log.Warn().
			Err(err).
			Str("path", entry.Path).
			Msg("Failed to decode sound file")
		return
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		stream = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	vol := p.volumeFor(entry)
	stream = &effects.Volume{
		Streamer: stream,
		Base:     2,
		Volume:   math.Log2(math.Max(vol, 1e-6)),
		Silent:   vol == 0,
	}

	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		streamer.Close()
	})))

	log.Debug().
		Str("path", entry.Path).
		Float64("volume", vol).
		Msg("Playing sound")
}
