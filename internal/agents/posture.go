// Package agents provides the policy decision logic for autonomous
// countries: a strategic posture state machine layered over a utility
// function. Decisions are fully deterministic given the world state: the
// same snapshot always produces the same action and rationale.
package agents

import (
	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

// NextPosture evaluates the posture transition once per turn from current
// macro indicators. Predicates fire in priority order; each one is an
// explicit, enumerable threshold rule.
func NextPosture(p *params.Parameters, c *world.Country) world.Posture {
	switch {
	case c.Trust < p.AI.CrisisTrust:
		return world.PostureCrisis
	case len(c.HostileFrom) > 0:
		return world.PostureAggressive
	case c.GDPGrowth() < p.AI.RecessionGrowth:
		return world.PostureProtectionist
	case c.GDPGrowth() > p.AI.BoomGrowth && c.TrustTrend() >= 0:
		return world.PostureCooperative
	default:
		return world.PostureNeutral
	}
}

// postureWeights returns the utility weight vector for a posture, shifted by
// the country's government type. Autocracies care more about retaliation and
// sector protection, democracies about trust and jobs; hybrids sit between.
func postureWeights(p *params.Parameters, posture world.Posture, gov world.GovernmentType) params.UtilityWeights {
	var w params.UtilityWeights
	switch posture {
	case world.PostureAggressive:
		w = p.AI.Aggressive
	case world.PostureCooperative:
		w = p.AI.Cooperative
	case world.PostureProtectionist:
		w = p.AI.Protectionist
	case world.PostureCrisis:
		w = p.AI.Crisis
	default:
		w = p.AI.Neutral
	}
	switch gov {
	case world.GovAutocracy:
		w.Retaliation *= 0.6 // discounts the risk of provoking others
		w.Protection *= 1.3
		w.Trust *= 0.7
	case world.GovDemocracy:
		w.Trust *= 1.3
		w.Unemployment *= 1.2
	}
	return w
}
