package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/decor"
	"github.com/capdeco/capdeco/internal/logger"
)

// Server is the HTTP control surface: style inspection and updates, one-shot
// decoration of uploaded images, and a websocket stream of pipeline events.
type Server struct {
	router    *mux.Router
	configMgr *config.Manager
	engine    *decor.Engine
	events    *EventHub
	upgrader  websocket.Upgrader
}

// NewServer creates a new API server.
func NewServer(configMgr *config.Manager) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		configMgr: configMgr,
		engine:    decor.NewEngine(),
		events:    NewEventHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
	}

	s.setupRoutes()
	return s
}

// Events returns the hub the capture pipeline publishes into.
func (s *Server) Events() *EventHub {
	return s.events
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Configuration
	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")
	api.HandleFunc("/config", s.handleUpdateConfig).Methods("PUT")

	// Border style
	api.HandleFunc("/style", s.handleGetStyle).Methods("GET")
	api.HandleFunc("/style", s.handleUpdateStyle).Methods("PUT")

	// One-shot decoration
	api.HandleFunc("/decorate", s.handleDecorate).Methods("POST")

	// Pipeline event stream
	api.HandleFunc("/events", s.handleEventStream)

	// Health check
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logger.WithComponent("api").Info().
		Str("addr", addr).
		Msg("Starting API server")
	return http.ListenAndServe(addr, s.enableCORS(s.router))
}

// Handler exposes the routed handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.enableCORS(s.router)
}

// enableCORS adds CORS headers.
func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.configMgr.Get()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.configMgr.Update(&cfg); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

func (s *Server) handleGetStyle(w http.ResponseWriter, r *http.Request) {
	cfg := s.configMgr.Get()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg.Border)
}

func (s *Server) handleUpdateStyle(w http.ResponseWriter, r *http.Request) {
	var border config.BorderConfig
	if err := json.NewDecoder(r.Body).Decode(&border); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.configMgr.UpdateBorder(border); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleDecorate decorates a PNG with the current border style and returns
// the decorated PNG.
func (s *Server) handleDecorate(w http.ResponseWriter, r *http.Request) {
	img, err := png.Decode(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid PNG: %v", err), http.StatusBadRequest)
		return
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, img.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	style, err := s.configMgr.Get().Border.ToStyle()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out, err := s.engine.Decorate(rgba, style)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithComponent("api").Warn().
			Err(err).
			Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	updates := s.events.Subscribe()
	defer s.events.Unsubscribe(updates)

	for ev := range updates {
		if err := conn.WriteJSON(ev); err != nil {
			logger.WithComponent("api").Debug().
				Err(err).
				Msg("WebSocket write failed, dropping subscriber")
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
