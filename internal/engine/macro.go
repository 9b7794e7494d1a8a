package engine

import (
	"fmt"
	"math"

	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

// runMacroPhase advances exchange rates, output, labor markets, prices,
// investment, and fiscal balances for every active country. It reads foreign
// rates from the pre-turn snapshot and everything else from the working
// state, where the trade phase has already run.
func runMacroPhase(p *params.Parameters, prev, next *world.State, sum *TurnSummary) {
	for _, iso := range next.SortedISOCodes() {
		c := next.Country(iso)
		if !c.Active {
			continue
		}

		// Exchange rate reacts to the rate differential and to the change in
		// the external balance. Incremental, not equilibrium-solved.
		totalNX := 0.0
		for _, s := range c.Sectors {
			totalNX += s.NetExports
		}
		foreignRate := prev.ForeignPolicyRate(iso)
		c.ExchangeRate += p.Exchange.K1*(c.PolicyRate-foreignRate) - p.Exchange.K2*(totalNX-c.LastNX)
		if c.ExchangeRate < p.Trade.PriceEpsilon {
			c.ExchangeRate = p.Trade.PriceEpsilon
			sum.warn(fmt.Sprintf("%s: exchange rate clamped at floor", iso))
		}
		c.LastNX = totalNX

		// Sector output moves toward capacity, nudged by the change in net
		// exports and any event modifier.
		for _, s := range c.Sectors {
			if s.Output <= 0 {
				s.PrevOutput = s.Output
				continue
			}
			g := p.Trade.OutputAdjustment*(s.Capacity-s.Output)/s.Output +
				p.Trade.NXOutputGain*(s.NetExports-s.PrevNX)/s.Output +
				s.OutputModifier
			s.PrevOutput = s.Output
			s.Output *= 1 + g
			if s.Output < 0 {
				s.Output = 0
				sum.warn(fmt.Sprintf("%s %s: output clamped at zero", iso, s.Category))
			}

			// Okun: unemployment falls when growth beats potential.
			du := -p.OkunBeta * (g - s.PotentialGrowth)
			u := s.Unemployment + du
			if u < 0 || u > 1 {
				sum.warn(fmt.Sprintf("%s %s: unemployment clamped to [0, 1]", iso, s.Category))
				u = clamp01(u)
			}
			s.Unemployment = u
		}

		updateInflation(p, c)
		runInvestment(p, c)
		runFiscal(c)
	}
}

// updateInflation applies the expectations-augmented Phillips curve and rolls
// producer prices forward.
func updateInflation(p *params.Parameters, c *world.Country) {
	gap := 0.0
	dImport := 0.0
	for _, s := range c.Sectors {
		if s.Capacity > 0 {
			gap += s.LaborShare * (s.Output - s.Capacity) / s.Capacity
		}
		if s.PrevImportPrice > 0 {
			dImport += s.ImportShare * s.LaborShare * (s.ImportPrice - s.PrevImportPrice) / s.PrevImportPrice
		}
	}
	// Imported prices drift with general inflation every turn; only the
	// excess over last period's realized inflation is a genuine import shock.
	dImport -= c.Inflation

	expected := c.Inflation
	if p.Phillips.ExpectationMode == params.ExpectationAdaptive {
		w := p.Phillips.AdaptiveWeight
		expected = w*c.Inflation + (1-w)*c.ExpectedInflation
	}
	c.ExpectedInflation = expected

	pi := expected + p.Phillips.Phi*gap + p.Phillips.Gamma*dImport
	c.Inflation = pi
	for _, s := range c.Sectors {
		s.HomePrice *= 1 + pi
		if s.HomePrice < p.Trade.PriceEpsilon {
			s.HomePrice = p.Trade.PriceEpsilon
		}
	}
}

// runInvestment computes aggregate investment, splits it across sectors by
// attractiveness, and rolls the capital stock and capacity forward.
func runInvestment(p *params.Parameters, c *world.Country) {
	deltaGDP := c.GDP - c.PrevGDP
	invest := p.Investment.I0 + p.Investment.I1*deltaGDP - p.Investment.I2*c.PolicyRate
	if invest < 0 {
		invest = 0
	}

	scores := make([]float64, len(c.Sectors))
	total := 0.0
	for i, s := range c.Sectors {
		profit := 0.0
		if c.GDP > 0 {
			profit = (s.RetailPrice - s.HomePrice) * s.Output / c.GDP
		}
		sc := p.Investment.GrowthWeight*math.Max(s.Growth(), 0) +
			p.Investment.ProfitWeight*math.Max(profit, 0) +
			p.Investment.ShareWeight*s.LaborShare
		scores[i] = sc
		total += sc
	}

	for i, s := range c.Sectors {
		share := 1.0 / float64(len(c.Sectors))
		if total > 0 {
			share = scores[i] / total
		}
		s.Capital = (1-p.Investment.Depreciation)*s.Capital + invest*share
		if s.Capital < 0 {
			s.Capital = 0
		}
		s.Capacity = s.CapacityCoeff * math.Pow(s.Capital, p.Investment.CapacityAlpha)
	}
}

// runFiscal collects taxes, spends, and accrues debt.
func runFiscal(c *world.Country) {
	gdp := 0.0
	for _, s := range c.Sectors {
		gdp += s.Output
	}
	tax := c.TaxRate * gdp
	spend := c.SpendingRatio * gdp
	c.Debt += spend - tax
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
