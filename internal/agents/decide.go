package agents

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

// Decision is one agent's output for a turn: the chosen action plus a
// structured rationale the external layer can surface without re-deriving
// the scoring.
type Decision struct {
	Country   string              `json:"country"`
	Posture   world.Posture       `json:"posture"`
	Action    *world.PolicyAction `json:"action,omitempty"`
	Utility   float64             `json:"utility"`
	Rationale string              `json:"rationale"`
}

// Decide produces one policy action for an autonomous country from the
// pre-turn snapshot. It never fails: when no candidate scores above zero the
// agent emits a no-op decision.
func Decide(p *params.Parameters, st *world.State, c *world.Country) Decision {
	posture := NextPosture(p, c)
	weights := postureWeights(p, posture, c.Government)

	menu := buildCandidates(p, st, c)

	var (
		best      *candidate
		bestScore float64
		bestTerms map[string]float64
	)
	for i := range menu {
		cand := &menu[i]
		utility, contributions := score(p, weights, *cand)
		switch {
		case best == nil,
			utility > bestScore,
			utility == bestScore && cand.kind < best.kind:
			best = cand
			bestScore = utility
			bestTerms = contributions
		}
	}

	// A small deadband keeps agents from churning on marginal utilities.
	if best == nil || bestScore <= p.AI.ActionThreshold {
		return Decision{
			Country:   c.ISO,
			Posture:   posture,
			Action:    &world.PolicyAction{Country: c.ISO},
			Rationale: fmt.Sprintf("%s posture; no candidate action worth acting on, holding course", posture),
		}
	}

	return Decision{
		Country:   c.ISO,
		Posture:   posture,
		Action:    best.action,
		Utility:   bestScore,
		Rationale: buildRationale(posture, best, bestTerms),
	}
}

// buildRationale names the dominant utility terms behind a choice.
func buildRationale(posture world.Posture, cand *candidate, contributions map[string]float64) string {
	type term struct {
		name  string
		value float64
	}
	terms := make([]term, 0, len(contributions))
	for name, v := range contributions {
		if v != 0 {
			terms = append(terms, term{name, v})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		ai, aj := abs(terms[i].value), abs(terms[j].value)
		if ai != aj {
			return ai > aj
		}
		return terms[i].name < terms[j].name
	})
	if len(terms) > 2 {
		terms = terms[:2]
	}

	parts := make([]string, 0, 2)
	for _, t := range terms {
		parts = append(parts, fmt.Sprintf("%s (%+.2f)", t.name, t.value))
	}
	dominant := "balanced"
	if len(parts) > 0 {
		dominant = strings.Join(parts, ", ")
	}
	suffix := ""
	if cand.retaliatory && cand.target != "" {
		suffix = fmt.Sprintf("; answering last turn's tariff from %s", cand.target)
	}
	return fmt.Sprintf("%s posture: %s; dominant terms: %s%s", posture, cand.label, dominant, suffix)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
