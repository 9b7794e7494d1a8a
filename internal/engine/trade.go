package engine

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

// validateAction rejects out-of-range submissions before any state is
// touched. Agent-built actions pass by construction; the player's arrive
// unchecked.
func validateAction(p *params.Parameters, st *world.State, a *world.PolicyAction) error {
	if a == nil {
		return nil
	}
	c := st.Country(a.Country)
	if c == nil {
		return fmt.Errorf("%w: country %q", ErrUnknownEntity, a.Country)
	}
	for cat, rate := range a.Tariffs {
		if c.Sector(cat) == nil {
			return fmt.Errorf("%w: %s has no %s sector", ErrInvalidPolicy, a.Country, cat)
		}
		if rate < 0 || rate > p.Trade.TariffCap {
			return fmt.Errorf("%w: tariff %.3f on %s outside [0, %.2f]", ErrInvalidPolicy, rate, cat, p.Trade.TariffCap)
		}
	}
	if a.TaxRate != nil && (*a.TaxRate < 0 || *a.TaxRate >= 1) {
		return fmt.Errorf("%w: tax rate %.3f outside [0, 1)", ErrInvalidPolicy, *a.TaxRate)
	}
	if a.SpendingRatio != nil && (*a.SpendingRatio < 0 || *a.SpendingRatio >= 1) {
		return fmt.Errorf("%w: spending ratio %.3f outside [0, 1)", ErrInvalidPolicy, *a.SpendingRatio)
	}
	if a.PolicyRate != nil && (*a.PolicyRate < 0 || *a.PolicyRate > 0.25) {
		return fmt.Errorf("%w: policy rate %.4f outside [0, 0.25]", ErrInvalidPolicy, *a.PolicyRate)
	}
	if a.Subsidy != nil {
		if c.Sector(a.Subsidy.Category) == nil {
			return fmt.Errorf("%w: %s has no %s sector", ErrInvalidPolicy, a.Country, a.Subsidy.Category)
		}
		if a.Subsidy.Amount < 0 {
			return fmt.Errorf("%w: negative subsidy", ErrInvalidPolicy)
		}
	}
	if a.AllianceWith != "" && st.Country(a.AllianceWith) == nil {
		return fmt.Errorf("%w: country %q", ErrUnknownEntity, a.AllianceWith)
	}
	return nil
}

// applyAction commits one country's policy levers onto the working state and
// records hostility and popularity consequences. prev is the committed
// pre-turn snapshot: hostility targeting reads trade weights from it so that
// no action can see another action's effects within the same turn.
func applyAction(p *params.Parameters, prev, next *world.State, a *world.PolicyAction, sum *TurnSummary, unpopular map[string]float64) {
	if a == nil || a.IsNoOp() {
		return
	}
	c := next.Country(a.Country)
	wasAttacked := len(prev.Country(a.Country).HostileFrom) > 0

	for _, cat := range world.Categories() {
		rate, ok := a.Tariffs[cat]
		if !ok {
			continue
		}
		s := c.Sector(cat)
		old := s.Tariff
		s.Tariff = rate
		sum.effect(fmt.Sprintf("%s set %s tariff %.0f%% -> %.0f%%", c.ISO, cat, old*100, rate*100))

		// A sharp raise is a hostile act against the dominant exporter of
		// that category into this country.
		if rate-old >= p.Trade.HostileTariff {
			if target := topExporter(prev, c.ISO, cat); target != "" {
				tc := next.Country(target)
				tc.HostileFrom = append(tc.HostileFrom, c.ISO)
				next.ShiftRelation(c.ISO, target, -15, fmt.Sprintf("%s tariff escalation by %s", cat, c.ISO))
			}
			if !wasAttacked {
				unpopular[c.ISO] += 1 // unilateral escalation
			}
		}
	}

	if a.TaxRate != nil {
		if *a.TaxRate-c.TaxRate >= p.Trust.UnpopularTaxRise {
			unpopular[c.ISO] += 1
		}
		sum.effect(fmt.Sprintf("%s set tax rate %.1f%% -> %.1f%%", c.ISO, c.TaxRate*100, *a.TaxRate*100))
		c.TaxRate = *a.TaxRate
	}
	if a.SpendingRatio != nil {
		sum.effect(fmt.Sprintf("%s set spending ratio %.1f%% -> %.1f%%", c.ISO, c.SpendingRatio*100, *a.SpendingRatio*100))
		c.SpendingRatio = *a.SpendingRatio
	}
	if a.PolicyRate != nil {
		sum.effect(fmt.Sprintf("%s set policy rate %.2f%% -> %.2f%%", c.ISO, c.PolicyRate*100, *a.PolicyRate*100))
		c.PolicyRate = *a.PolicyRate
	}

	if a.Subsidy != nil && a.Subsidy.Amount > 0 {
		s := c.Sector(a.Subsidy.Category)
		s.Capital += a.Subsidy.Amount
		s.LaborShare += p.SubsidyShift * a.Subsidy.Amount
		world.RenormalizeLabor(c)
		c.Debt += a.Subsidy.Amount
		sum.effect(fmt.Sprintf("%s subsidized %s by %.1f", c.ISO, a.Subsidy.Category, a.Subsidy.Amount))
	}

	if a.AllianceWith != "" {
		applyAllianceOverture(next, c.ISO, a.AllianceWith, sum)
	}
}

// topExporter returns the counterpart with the largest trade weight into iso
// that produces the category, or "".
func topExporter(st *world.State, iso string, cat world.SectorCategory) string {
	weights := st.TradeWeights(iso)
	best := ""
	bestW := 0.0
	for _, code := range st.SortedISOCodes() {
		w, ok := weights[code]
		if !ok || st.Country(code).Sector(cat) == nil {
			continue
		}
		if w > bestW {
			best = code
			bestW = w
		}
	}
	return best
}

// runTradePhase computes import prices, retail prices, and net exports for
// every active country. Foreign price indices and trade weights come from
// the committed pre-turn snapshot, so the cross-country coupling is a one-turn
// lagged feedback, never a simultaneous system.
func runTradePhase(p *params.Parameters, prev, next *world.State, cycle opensimplex.Noise, sum *TurnSummary) {
	for _, iso := range next.SortedISOCodes() {
		c := next.Country(iso)
		if !c.Active {
			continue
		}
		for _, s := range c.Sectors {
			s.ForeignPrice = prev.ForeignPriceIndex(iso, s.Category)
			s.PrevImportPrice = s.ImportPrice

			// Border pass-through is 100%: the tariff multiplies the landed
			// price directly.
			importPrice := s.ForeignPrice * c.ExchangeRate * (1 + s.Tariff)
			if importPrice <= 0 {
				importPrice = p.Trade.PriceEpsilon
				sum.warn(fmt.Sprintf("%s %s: degenerate import price clamped", iso, s.Category))
			}
			s.ImportPrice = importPrice

			// Retail pass-through is attenuated by the import share.
			retail := (1-s.ImportShare)*s.HomePrice + s.ImportShare*s.ImportPrice
			if retail <= 0 {
				retail = p.Trade.PriceEpsilon
				sum.warn(fmt.Sprintf("%s %s: degenerate retail price clamped", iso, s.Category))
			}
			s.RetailPrice = retail

			demand := demandCycle(p, cycle, next.Turn, s.Category)

			// Constant-elasticity demand responses around the trade bases.
			exportRel := s.ForeignPrice * c.ExchangeRate / math.Max(s.HomePrice, p.Trade.PriceEpsilon)
			exports := s.ExportBase * math.Pow(exportRel, p.Trade.ExportElasticity) * demand * (1 - s.ExportFriction)
			importRel := s.HomePrice / math.Max(s.ImportPrice, p.Trade.PriceEpsilon)
			imports := s.ImportBase * math.Pow(importRel, p.Trade.ImportElasticity)

			s.PrevNX = s.NetExports
			s.NetExports = exports - imports
		}
	}
}

// demandCycle returns the world demand modifier for a category this turn: a
// smooth deterministic business cycle drawn from seeded simplex noise.
// Amplitude zero disables it.
func demandCycle(p *params.Parameters, cycle opensimplex.Noise, turn int, cat world.SectorCategory) float64 {
	if p.Trade.CycleAmplitude == 0 || p.Trade.CyclePeriod <= 0 {
		return 1
	}
	n := cycle.Eval2(float64(turn)/p.Trade.CyclePeriod, float64(cat)*7.13)
	return 1 + p.Trade.CycleAmplitude*n
}
