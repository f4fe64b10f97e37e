package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
	"github.com/wricardo/blockfall/game/service"
	"github.com/wricardo/blockfall/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. The hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	if hub != nil {
		hub.SetCommandHandler(s.applyFromSocket)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/snapshot", s.handleGetSnapshot).Methods("GET")
	api.HandleFunc("/sessions/{id}/command", s.handleCommand).Methods("POST")
	api.HandleFunc("/sessions/{id}/commands", s.handleBulkCommand).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// Piece catalog
	api.HandleFunc("/catalog", s.handleCatalog).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"error": message, "code": status})
}

// respondErr maps domain errors to HTTP status codes
func respondErr(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrUnknownCommand),
		errors.Is(err, engine.ErrInvalidSettings),
		errors.Is(err, loop.ErrUnknownCadence):
		return http.StatusBadRequest
	case errors.Is(err, loop.ErrQueueFull):
		return http.StatusTooManyRequests
	case errors.Is(err, loop.ErrFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOptions
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	session, err := s.service.CreateSession(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default), "score"
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sortBy == "score" {
			si, sj := sessions[i].Snapshot.Ledger.Score, sessions[j].Snapshot.Ledger.Score
			if order == "asc" {
				return si < sj
			}
			return si > sj
		}

		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondErr(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, "deleted", nil)
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.GetSnapshot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, strings.Join(snap.Rows('#', '.', ' '), "\n"))
		fmt.Fprintln(w, snap.Ledger)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body: expected {\"command\": \"...\"}")
		return
	}

	out, err := s.service.Command(r.Context(), sessionID, req.Command)
	if err != nil {
		respondErr(w, err)
		return
	}

	log.Printf("[CMD] session=%s %s applied=%v tick=%s score=%d status=%s",
		sessionID, out.Result.Command, out.Result.Applied, out.Result.Tick, out.Snapshot.Ledger.Score, out.Snapshot.Status)

	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleBulkCommand(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Commands []string `json:"commands"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.BulkCommand(r.Context(), sessionID, req.Commands)
	if err != nil {
		respondErr(w, err)
		return
	}

	stop := result.StoppedReason
	if stop == "" {
		stop = "-"
	}
	log.Printf("[BULK] session=%s exec=%d/%d stop=%s scoreΔ=%d rows=%d status=%s",
		sessionID, result.Executed, result.Requested, stop, result.ScoreDelta, result.RowsCleared, result.Snapshot.Status)

	respondJSON(w, http.StatusOK, result)
}

// applyFromSocket handles commands sent by websocket clients
func (s *Server) applyFromSocket(sessionID, command string) error {
	_, err := s.service.Command(context.Background(), sessionID, command)
	return err
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	cfg, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var settings engine.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if settings.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), settings.Name, &settings); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":   "Configuration saved successfully",
		"config_id": settings.Name,
	})
}

// CatalogEntry describes one piece kind
type CatalogEntry struct {
	Kind    engine.Kind     `json:"kind"`
	Color   engine.Color    `json:"color"`
	Feature bool            `json:"feature"`
	Offsets []engine.Offset `json:"offsets"`
	Preview []string        `json:"preview"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := make([]CatalogEntry, 0, len(engine.Kinds))
	for _, kind := range engine.Kinds {
		shape, _ := engine.Lookup(kind)
		piece := engine.NewPiece(kind)
		entries = append(entries, CatalogEntry{
			Kind:    kind,
			Color:   shape.Color,
			Feature: shape.Feature,
			Offsets: piece.Offsets,
			Preview: strings.Split(strings.TrimSuffix(piece.Render('#', ' '), "\n"), "\n"),
		})
	}
	respondJSON(w, http.StatusOK, entries)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket streaming disabled", http.StatusNotFound)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	snap, err := s.service.GetSnapshot(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID, snap)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
