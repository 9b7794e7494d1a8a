// Package api provides the HTTP API for a running simulation session.
// GET endpoints are public (read-only observation).
// POST /api/v1/turn advances the world; the session mutex serializes turns
// so readers only ever observe a committed snapshot.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/persistence"
	"github.com/talgya/statecraft/internal/world"
)

// Session owns the authoritative world state for one run. All mutation goes
// through AdvanceTurn; the committed snapshot is swapped in whole under the
// lock, never edited in place.
type Session struct {
	mu      sync.RWMutex
	params  *params.Parameters
	state   *world.State
	summary *engine.TurnSummary
	seed    uint64

	DB    *persistence.DB // optional run history
	RunID int64
}

// NewSession creates a session over an initial committed state.
func NewSession(p *params.Parameters, st *world.State, seed uint64) *Session {
	return &Session{params: p, state: st, seed: seed}
}

// State returns the current committed snapshot.
func (s *Session) State() *world.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastSummary returns the most recent turn summary, or nil before the first
// turn.
func (s *Session) LastSummary() *engine.TurnSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// AdvanceTurn applies one turn with the given player action and commits the
// result. On error the previous snapshot stays authoritative.
func (s *Session) AdvanceTurn(action *world.PolicyAction) (*engine.TurnSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, sum, err := engine.ApplyTurn(s.params, s.state, action, s.seed)
	if err != nil {
		return nil, err
	}
	s.state = next
	s.summary = sum

	if s.DB != nil {
		if err := s.DB.SaveTurn(s.RunID, next, sum); err != nil {
			slog.Error("persist turn failed", "turn", sum.Turn, "error", err)
		}
	}
	return sum, nil
}

// Server serves a session over HTTP.
type Server struct {
	Session *Session
	Port    int
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	turnThrottle := NewTurnThrottle(120, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/countries", s.handleCountries)
	mux.HandleFunc("/api/v1/country/", s.handleCountryDetail)
	mux.HandleFunc("/api/v1/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/relations", s.handleRelations)
	mux.HandleFunc("/api/v1/alliances", s.handleAlliances)

	// Mutating endpoints (POST).
	mux.HandleFunc("/api/v1/turn", Throttled(turnThrottle, s.handleTurn))
	mux.HandleFunc("/api/v1/alliance", s.handleAlliance)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// statusCode maps engine errors onto HTTP statuses.
func statusCode(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownEntity):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidPolicy):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusCode(err), map[string]string{"error": err.Error()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Session.State()
	active := 0
	for _, c := range st.Countries {
		if c.Active {
			active++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"turn":      st.Turn,
		"player":    st.PlayerISO,
		"countries": len(st.Countries),
		"active":    active,
		"alliances": len(st.Alliances),
	})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	st := s.Session.State()
	views := make([]*world.CountrySnapshot, 0, len(st.Countries))
	for _, iso := range st.SortedISOCodes() {
		v, err := world.CountryView(st, iso)
		if err != nil {
			writeError(w, err)
			return
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCountryDetail(w http.ResponseWriter, r *http.Request) {
	iso := strings.TrimPrefix(r.URL.Path, "/api/v1/country/")
	st := s.Session.State()
	v, err := world.CountryView(st, iso)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.Session.LastSummary()
	if sum == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no turn applied yet"})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	st := s.Session.State()
	type entry struct {
		Pair    string  `json:"pair"`
		Score   float64 `json:"score"`
		Level   string  `json:"level"`
		Trigger string  `json:"trigger,omitempty"`
	}
	out := make([]entry, 0, len(st.Relations))
	for _, key := range st.SortedRelationKeys() {
		rel := st.Relations[key]
		out = append(out, entry{
			Pair:    key,
			Score:   rel.Score,
			Level:   rel.Level().String(),
			Trigger: rel.LastTrigger,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAlliances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.State().Alliances)
}

// handleTurn advances the simulation one turn. The body is the player's
// policy action, or empty for a pass.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var action *world.PolicyAction
	if r.ContentLength != 0 {
		action = &world.PolicyAction{}
		if err := json.NewDecoder(r.Body).Decode(action); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed action: " + err.Error()})
			return
		}
		if action.Country == "" {
			action.Country = s.Session.State().PlayerISO
		}
	}
	sum, err := s.Session.AdvanceTurn(action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// handleAlliance proposes (POST) or disbands (DELETE) a named alliance.
func (s *Server) handleAlliance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string   `json:"name"`
		Members []string `json:"members,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request: " + err.Error()})
		return
	}

	s.Session.mu.Lock()
	defer s.Session.mu.Unlock()

	var (
		next *world.State
		err  error
	)
	switch r.Method {
	case http.MethodPost:
		next, err = engine.ProposeAlliance(s.Session.state, req.Name, req.Members)
	case http.MethodDelete:
		next, err = engine.DisbandAlliance(s.Session.state, req.Name)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.Session.state = next
	writeJSON(w, http.StatusOK, map[string]any{"alliances": next.Alliances})
}
