package engine

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/statecraft/internal/agents"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

// ApplyTurn advances the world by one turn. It is a pure transform: the
// input state is never mutated, and the same (state, player action, seed)
// always yields the same output. On any error the returned state is nil and
// the caller's snapshot remains authoritative.
//
// Phase order is fixed: agent decisions from the pre-turn snapshot, policy
// application, trade and price formation, macro feedback, trust, then
// stochastic events. Cross-country price coupling always reads the pre-turn
// snapshot, so no ordering among countries can change the result.
func ApplyTurn(p *params.Parameters, st *world.State, player *world.PolicyAction, seed uint64) (*world.State, *TurnSummary, error) {
	if player != nil && player.Country != st.PlayerISO {
		return nil, nil, fmt.Errorf("%w: action submitted for %q, player controls %q", ErrInvalidPolicy, player.Country, st.PlayerISO)
	}
	if err := validateAction(p, st, player); err != nil {
		return nil, nil, err
	}

	sum := &TurnSummary{Turn: st.Turn + 1}

	// Agents decide from the committed pre-turn snapshot, so no agent can
	// observe another agent's choice this turn.
	actions := make(map[string]*world.PolicyAction)
	postures := make(map[string]world.Posture)
	for _, iso := range st.SortedISOCodes() {
		c := st.Country(iso)
		if !c.Active || iso == st.PlayerISO {
			continue
		}
		d := agents.Decide(p, st, c)
		actions[iso] = d.Action
		postures[iso] = d.Posture
		sum.AIFeedback = append(sum.AIFeedback, AIFeedback{
			Country:   d.Country,
			Posture:   d.Posture.String(),
			Action:    d.Action,
			Rationale: d.Rationale,
		})
	}
	if player != nil {
		actions[st.PlayerISO] = player
	}

	next := st.Clone()
	next.Turn++

	// Update postures and consume last turn's hostility markers. New markers
	// recorded below feed next turn's decisions.
	for iso, posture := range postures {
		next.Country(iso).Posture = posture
	}
	for _, c := range next.Countries {
		c.HostileFrom = nil
	}

	unpopular := make(map[string]float64)
	for _, iso := range next.SortedISOCodes() {
		if !next.Country(iso).Active {
			continue
		}
		applyAction(p, st, next, actions[iso], sum, unpopular)
	}

	cycle := opensimplex.New(int64(seed))
	runTradePhase(p, st, next, cycle, sum)
	runMacroPhase(p, st, next, sum)

	for _, c := range next.Countries {
		c.PrevGDP = c.GDP
	}
	next.RecomputeAggregates()

	runTrustPhase(p, next, unpopular, sum)

	rng := entropy.New(seed + uint64(st.Turn))
	runEventPhase(p, next, rng, sum)
	driftRelations(next)

	if err := next.AuditLabor(p.LaborTolerance); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}
	next.RecomputeAggregates()

	prevPlayer := st.Player()
	nextPlayer := next.Player()
	if prevPlayer != nil && nextPlayer != nil {
		sum.GDPChange = nextPlayer.GDP - prevPlayer.GDP
		sum.UnemploymentChange = nextPlayer.Unemployment - prevPlayer.Unemployment
		sum.TrustChange = nextPlayer.Trust - prevPlayer.Trust
	}
	return next, sum, nil
}
