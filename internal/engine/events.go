package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

// Event kinds. Draw order is fixed so a seed always produces the same
// sequence of random variates.
const (
	EventDisaster     = "disaster"
	EventBreakthrough = "breakthrough"
	EventSanction     = "sanction"
)

// Decay modes for lingering effects.
const (
	DecayLinear      = "linear"
	DecayExponential = "exponential"
	DecayFlat        = "flat"
)

// runEventPhase first decays lingering effects from earlier turns, then draws
// this turn's events and applies them. All randomness comes from the supplied
// engine, seeded per turn by the orchestrator.
func runEventPhase(p *params.Parameters, next *world.State, rng *entropy.Engine, sum *TurnSummary) {
	decayEffects(next)

	draws := []struct {
		kind string
		spec params.EventSpec
	}{
		{EventDisaster, p.Events.Disaster},
		{EventBreakthrough, p.Events.Breakthrough},
		{EventSanction, p.Events.Sanction},
	}

	active := activeCodes(next)
	exposure := make([]float64, len(active))
	for j, code := range active {
		exposure[j] = next.Country(code).GDP
	}
	for i, d := range draws {
		if len(active) == 0 || !rng.PTrue(d.spec.Probability) {
			continue
		}
		// Larger economies present larger targets.
		idx := rng.WeightedIndex(exposure)
		if idx < 0 {
			idx = rng.Intn(len(active))
		}
		iso := active[idx]
		cats := world.Categories()
		cat := cats[rng.Intn(len(cats))]
		rec := EventRecord{
			Tag:       eventTag(next.Turn, d.kind, iso, i),
			Kind:      d.kind,
			Country:   iso,
			Category:  cat.String(),
			Magnitude: d.spec.Magnitude,
			Duration:  d.spec.Duration,
			Turn:      next.Turn,
		}
		if applied := ApplyEvent(p, next, &rec); applied {
			sum.Events = append(sum.Events, rec)
		}
	}

	applyEffectModifiers(next)
}

// eventTag derives a stable identifier for an event occurrence. The same
// (turn, kind, target, slot) always yields the same tag, so replaying a turn
// cannot double-apply its events.
func eventTag(turn int, kind, iso string, slot int) string {
	name := fmt.Sprintf("%d:%s:%s:%d", turn, kind, iso, slot)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// ApplyEvent applies one event record to the state, exactly once per tag.
// Returns false when the tag was already applied. The instantaneous shock
// lands immediately; the lingering drag or boost is registered as an active
// effect and folded into modifiers each turn until it expires.
func ApplyEvent(p *params.Parameters, st *world.State, rec *EventRecord) bool {
	if st.AppliedEvents == nil {
		st.AppliedEvents = make(map[string]bool)
	}
	if st.AppliedEvents[rec.Tag] {
		return false
	}
	c := st.Country(rec.Country)
	if c == nil {
		return false
	}
	cat, ok := world.CategoryFromString(rec.Category)
	if !ok {
		return false
	}
	s := c.Sector(cat)
	if s == nil {
		return false
	}

	switch rec.Kind {
	case EventDisaster:
		s.Capital *= 1 - rec.Magnitude
		s.Capacity = s.CapacityCoeff * math.Pow(s.Capital, p.Investment.CapacityAlpha)
		rec.Description = fmt.Sprintf("disaster struck %s %s: capital down %.0f%%", rec.Country, rec.Category, rec.Magnitude*100)
		st.ActiveEffects = append(st.ActiveEffects, &world.EventEffect{
			Tag: rec.Tag, Kind: rec.Kind, ISO: rec.Country, Category: cat,
			Initial: -rec.Magnitude / 2, Magnitude: -rec.Magnitude / 2,
			Duration: rec.Duration, TurnsLeft: rec.Duration, Decay: DecayLinear,
		})
	case EventBreakthrough:
		s.CapacityCoeff *= 1 + rec.Magnitude
		s.Capacity = s.CapacityCoeff * math.Pow(s.Capital, p.Investment.CapacityAlpha)
		rec.Description = fmt.Sprintf("breakthrough in %s %s: productivity up %.0f%%", rec.Country, rec.Category, rec.Magnitude*100)
		st.ActiveEffects = append(st.ActiveEffects, &world.EventEffect{
			Tag: rec.Tag, Kind: rec.Kind, ISO: rec.Country, Category: cat,
			Initial: rec.Magnitude / 2, Magnitude: rec.Magnitude / 2,
			Duration: rec.Duration, TurnsLeft: rec.Duration, Decay: DecayExponential,
		})
	case EventSanction:
		rec.Description = fmt.Sprintf("sanctions on %s %s exports for %d turns", rec.Country, rec.Category, rec.Duration)
		st.ActiveEffects = append(st.ActiveEffects, &world.EventEffect{
			Tag: rec.Tag, Kind: rec.Kind, ISO: rec.Country, Category: cat,
			Initial: rec.Magnitude, Magnitude: rec.Magnitude,
			Duration: rec.Duration, TurnsLeft: rec.Duration, Decay: DecayFlat,
		})
	default:
		return false
	}

	st.AppliedEvents[rec.Tag] = true
	return true
}

// decayEffects ages every lingering effect by one turn and drops the spent
// ones.
func decayEffects(st *world.State) {
	kept := st.ActiveEffects[:0]
	for _, e := range st.ActiveEffects {
		e.TurnsLeft--
		if e.TurnsLeft <= 0 {
			continue
		}
		switch e.Decay {
		case DecayLinear:
			e.Magnitude = e.Initial * float64(e.TurnsLeft) / float64(e.Duration)
		case DecayExponential:
			e.Magnitude *= 0.5
		}
		kept = append(kept, e)
	}
	st.ActiveEffects = kept
}

// applyEffectModifiers resets and re-accumulates the per-sector modifiers
// from the current set of active effects. Modifiers are derived state and
// never accumulate across turns.
func applyEffectModifiers(st *world.State) {
	for _, c := range st.Countries {
		for _, s := range c.Sectors {
			s.OutputModifier = 0
			s.ExportFriction = 0
		}
	}
	for _, e := range st.ActiveEffects {
		c := st.Country(e.ISO)
		if c == nil {
			continue
		}
		s := c.Sector(e.Category)
		if s == nil {
			continue
		}
		switch e.Kind {
		case EventDisaster, EventBreakthrough:
			s.OutputModifier += e.Magnitude
		case EventSanction:
			f := s.ExportFriction + e.Magnitude
			if f > 0.95 {
				f = 0.95
			}
			s.ExportFriction = f
		}
	}
}

func activeCodes(st *world.State) []string {
	codes := make([]string, 0, len(st.Countries))
	for _, iso := range st.SortedISOCodes() {
		if st.Country(iso).Active {
			codes = append(codes, iso)
		}
	}
	return codes
}
