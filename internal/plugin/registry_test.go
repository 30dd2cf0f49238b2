package plugin

import (
	"errors"
	"image"
	"testing"
)

type stubPlugin struct {
	name    string
	loadErr error
	onEvent func(*Event) Response

	loaded   bool
	unloaded bool
	events   []Kind
}

func (s *stubPlugin) Name() string        { return s.name }
func (s *stubPlugin) Version() string     { return "0.0.0" }
func (s *stubPlugin) Description() string { return "test stub" }

func (s *stubPlugin) OnLoad() error {
	s.loaded = true
	return s.loadErr
}

func (s *stubPlugin) OnUnload() error {
	s.unloaded = true
	return nil
}

func (s *stubPlugin) OnEvent(ev *Event) Response {
	s.events = append(s.events, ev.Kind)
	if s.onEvent != nil {
		return s.onEvent(ev)
	}
	return Continue
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubPlugin{name: "borders"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := r.Register(&stubPlugin{name: "borders"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegistryDispatchChainsImages(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	big := image.NewRGBA(image.Rect(0, 0, 20, 20))

	var sawReplacement bool
	first := &stubPlugin{
		name: "first",
		onEvent: func(ev *Event) Response {
			return Response{Image: big}
		},
	}
	second := &stubPlugin{
		name: "second",
		onEvent: func(ev *Event) Response {
			sawReplacement = ev.Image == big
			return Continue
		},
	}

	r := NewRegistry()
	if err := r.Register(first); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(second); err != nil {
		t.Fatal(err)
	}

	out := r.Dispatch(&Event{Kind: PostCapture, Mode: ModeFullScreen, Image: small})
	if out != big {
		t.Error("expected the replacement image to be returned")
	}
	if !sawReplacement {
		t.Error("expected downstream plugin to see the replacement image")
	}
}

func TestRegistryIsolatesPanics(t *testing.T) {
	panicking := &stubPlugin{
		name: "broken",
		onEvent: func(*Event) Response {
			panic("boom")
		},
	}
	healthy := &stubPlugin{name: "healthy"}

	r := NewRegistry()
	if err := r.Register(panicking); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(healthy); err != nil {
		t.Fatal(err)
	}

	r.Dispatch(&Event{Kind: PostSave, Path: "/tmp/shot.png"})

	if len(healthy.events) != 1 {
		t.Errorf("healthy plugin should still receive the event, got %d", len(healthy.events))
	}
}

func TestRegistrySkipsFailedLoads(t *testing.T) {
	inert := &stubPlugin{name: "inert", loadErr: errors.New("no device")}
	r := NewRegistry()
	if err := r.Register(inert); err != nil {
		t.Fatalf("load failure must not propagate: %v", err)
	}

	r.Dispatch(&Event{Kind: PreCapture, Mode: ModeRegion})
	if len(inert.events) != 0 {
		t.Error("plugin that failed to load must not receive events")
	}
}

func TestRegistryCloseUnloadsAll(t *testing.T) {
	a := &stubPlugin{name: "a"}
	b := &stubPlugin{name: "b"}
	r := NewRegistry()
	if err := r.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(b); err != nil {
		t.Fatal(err)
	}

	r.Close()
	if !a.unloaded || !b.unloaded {
		t.Error("expected all plugins to be unloaded")
	}
}

func TestModeAllowed(t *testing.T) {
	if !ModeAllowed(nil, ModeWindow) {
		t.Error("empty filter must allow every mode")
	}
	if !ModeAllowed([]string{"window", "region"}, ModeRegion) {
		t.Error("listed mode must be allowed")
	}
	if ModeAllowed([]string{"window"}, ModeGif) {
		t.Error("unlisted mode must be rejected")
	}
}
