package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/capdeco/capdeco/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mgr, err := config.NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return NewServer(mgr)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestStyleRoundTrip(t *testing.T) {
	s := newTestServer(t)

	update := config.BorderConfig{
		Enabled: true,
		Style:   "double",
		Size:    9,
		Color:   config.RGBA{10, 20, 30, 255},
	}
	payload, _ := json.Marshal(update)

	req := httptest.NewRequest("PUT", "/api/style", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/style", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}

	var got config.BorderConfig
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Style != "double" || got.Size != 9 {
		t.Errorf("style did not round-trip: %+v", got)
	}
}

func TestUpdateStyleRejectsInvalid(t *testing.T) {
	s := newTestServer(t)

	payload := []byte(`{"enabled":true,"style":"solid","size":-3,"color":[0,0,0,255]}`)
	req := httptest.NewRequest("PUT", "/api/style", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestDecorate(t *testing.T) {
	s := newTestServer(t)

	src := image.NewRGBA(image.Rect(0, 0, 40, 30))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/api/decorate", &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}

	out, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Bounds().Dx() <= 40 || out.Bounds().Dy() <= 30 {
		t.Errorf("decorated image %v should be larger than the input", out.Bounds())
	}
}

func TestDecorateRejectsGarbage(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/decorate", bytes.NewReader([]byte("not a png")))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEventHubFanOut(t *testing.T) {
	h := NewEventHub()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Publish(PipelineEvent{Kind: "post_save", Path: "/tmp/x.png"})

	for _, ch := range []chan PipelineEvent{a, b} {
		ev := <-ch
		if ev.Kind != "post_save" || ev.Path != "/tmp/x.png" {
			t.Errorf("unexpected event %+v", ev)
		}
		if ev.Timestamp.IsZero() {
			t.Error("publish should stamp the event")
		}
	}

	h.Unsubscribe(a)
	if _, ok := <-a; ok {
		t.Error("unsubscribed channel should be closed")
	}

	h.Publish(PipelineEvent{Kind: "post_upload"})
	if ev := <-b; ev.Kind != "post_upload" {
		t.Errorf("remaining subscriber missed event: %+v", ev)
	}
	h.Close()
}
