package engine

import "github.com/talgya/statecraft/internal/world"

// AIFeedback reports one autonomous country's action and its rationale.
type AIFeedback struct {
	Country   string              `json:"country"`
	Posture   string              `json:"posture"`
	Action    *world.PolicyAction `json:"action,omitempty"`
	Rationale string              `json:"rationale"`
}

// EventRecord is one triggered event. The tag is unique per (turn, kind,
// target) and guards against double application.
type EventRecord struct {
	Tag         string  `json:"tag"`
	Kind        string  `json:"kind"`
	Country     string  `json:"country"`
	Category    string  `json:"category"`
	Magnitude   float64 `json:"magnitude"`
	Duration    int     `json:"duration"`
	Turn        int     `json:"turn"`
	Description string  `json:"description"`
}

// TurnSummary is the stable per-turn payload the presentation layer
// consumes. Changes are deltas for the player country; ai_feedback carries
// every autonomous action with its rationale.
type TurnSummary struct {
	Turn               int           `json:"turn"`
	GDPChange          float64       `json:"gdp_change"`
	UnemploymentChange float64       `json:"unemployment_change"`
	TrustChange        float64       `json:"trust_change"`
	PolicyEffects      []string      `json:"policy_effects"`
	AIFeedback         []AIFeedback  `json:"ai_feedback"`
	Events             []EventRecord `json:"events"`
	Warnings           []string      `json:"warnings,omitempty"`
}

func (s *TurnSummary) warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

func (s *TurnSummary) effect(msg string) {
	s.PolicyEffects = append(s.PolicyEffects, msg)
}
