package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/scenario"
	"github.com/talgya/statecraft/internal/world"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	p := params.Default()
	p.Events.Disaster.Probability = 0
	p.Events.Breakthrough.Probability = 0
	p.Events.Sanction.Probability = 0
	st, err := scenario.Build(p, scenario.Default())
	require.NoError(t, err)
	return NewSession(p, st, 42)
}

func TestSessionAdvanceCommits(t *testing.T) {
	s := testSession(t)
	before := s.State()

	sum, err := s.AdvanceTurn(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Turn)
	assert.Equal(t, 1, s.State().Turn)
	assert.Same(t, sum, s.LastSummary())

	// The pre-turn snapshot is a distinct, untouched object.
	assert.NotSame(t, before, s.State())
	assert.Equal(t, 0, before.Turn)
}

func TestSessionAdvanceRejectsBadAction(t *testing.T) {
	s := testSession(t)
	before := s.State()

	_, err := s.AdvanceTurn(&world.PolicyAction{
		Country: "USA",
		Tariffs: map[world.SectorCategory]float64{world.SectorEnergy: 2.0},
	})
	require.ErrorIs(t, err, engine.ErrInvalidPolicy)

	// The committed snapshot stays authoritative after a rejected turn.
	assert.Same(t, before, s.State())
	assert.Nil(t, s.LastSummary())
}

func TestHandleTurn(t *testing.T) {
	s := &Server{Session: testSession(t)}

	body := strings.NewReader(`{"tax_rate": 0.31}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/turn", body)
	rec := httptest.NewRecorder()
	s.handleTurn(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var sum engine.TurnSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.Turn)
	assert.NotEmpty(t, sum.PolicyEffects)
}

func TestHandleTurnRejectsInvalid(t *testing.T) {
	s := &Server{Session: testSession(t)}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/turn",
		strings.NewReader(`{"tax_rate": -3}`))
	rec := httptest.NewRecorder()
	s.handleTurn(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/turn", nil)
	rec = httptest.NewRecorder()
	s.handleTurn(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleCountryDetail(t *testing.T) {
	s := &Server{Session: testSession(t)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/country/JPN", nil)
	rec := httptest.NewRecorder()
	s.handleCountryDetail(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var view world.CountrySnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "JPN", view.ISO)
	assert.Len(t, view.Sectors, 5)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/country/ZZZ", nil)
	rec = httptest.NewRecorder()
	s.handleCountryDetail(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAlliance(t *testing.T) {
	s := &Server{Session: testSession(t)}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alliance",
		strings.NewReader(`{"name": "pact", "members": ["USA", "DEU"]}`))
	rec := httptest.NewRecorder()
	s.handleAlliance(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, s.Session.State().Alliances, 1)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/alliance",
		strings.NewReader(`{"name": "pact"}`))
	rec = httptest.NewRecorder()
	s.handleAlliance(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.Session.State().Alliances)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/alliance",
		strings.NewReader(`{"name": "ghost"}`))
	rec = httptest.NewRecorder()
	s.handleAlliance(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
