package engine

import (
	"fmt"

	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

// runTrustPhase updates public trust for every active country from the
// turn's realized unemployment and inflation, plus the unpopularity charge
// accrued by this turn's policy choices. Trust is hard-bounded to [0, 100];
// a collapse below the configured level retires the government.
func runTrustPhase(p *params.Parameters, next *world.State, unpopular map[string]float64, sum *TurnSummary) {
	for _, iso := range next.SortedISOCodes() {
		c := next.Country(iso)
		if !c.Active {
			continue
		}
		c.PrevTrust = c.Trust

		delta := -p.Trust.A*(c.Unemployment-c.UnemploymentTarget) -
			p.Trust.B*(c.Inflation-c.InflationTarget) -
			p.Trust.C*unpopular[iso]
		c.Trust = clampTrust(c.Trust + delta)

		if c.Trust < p.Trust.CollapseLevel {
			c.Active = false
			c.Posture = world.PostureCrisis
			sum.effect(fmt.Sprintf("%s: government collapsed at trust %.1f", iso, c.Trust))
		}
	}
}

func clampTrust(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
