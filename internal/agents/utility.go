package agents

import (
	"fmt"
	"math"
	"sort"

	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

// ActionKind orders the candidate menu. Lower values win utility ties, which
// keeps behavior deterministic and explainable: tariff response beats
// subsidy beats tax/rate change beats diplomacy beats doing nothing.
type ActionKind uint8

const (
	KindTariff ActionKind = iota
	KindSubsidy
	KindTax
	KindRate
	KindAlliance
	KindNoOp
)

// termValues holds the raw (unweighted) utility term estimates for one
// candidate. Term names are fixed; the posture weight vector scales them.
type termValues struct {
	GDP          float64
	Unemployment float64
	Protection   float64
	Trust        float64
	Retaliation  float64
}

// candidate is one entry in the fixed action menu.
type candidate struct {
	kind        ActionKind
	label       string
	action      *world.PolicyAction
	terms       termValues
	retaliatory bool
	target      string // aggressor ISO for retaliatory candidates
}

// buildCandidates enumerates the action menu for a country from the pre-turn
// snapshot. The menu order is fixed (sector order, then fiscal, then
// diplomatic) so that scoring and tie-breaking are reproducible.
func buildCandidates(p *params.Parameters, st *world.State, c *world.Country) []candidate {
	var menu []candidate

	uGap := math.Max(0, c.Unemployment-c.UnemploymentTarget)
	piGap := c.Inflation - c.InflationTarget
	growth := c.GDPGrowth()
	debtRatio := 0.0
	if c.GDP > 0 {
		debtRatio = c.Debt / c.GDP
	}

	aggressor := firstAggressor(c)

	// Per-sector tariff moves.
	for _, s := range c.Sectors {
		step := p.AI.TariffStep

		if s.Tariff+step <= p.Trade.TariffCap+1e-12 {
			retaliatory := aggressor != ""
			trust := -0.3
			if retaliatory {
				trust = 0 // answering an attack is not read as unilateral escalation
			}
			menu = append(menu, candidate{
				kind:  KindTariff,
				label: fmt.Sprintf("raise %s tariff to %.0f%%", s.Category, (s.Tariff+step)*100),
				action: &world.PolicyAction{
					Country: c.ISO,
					Tariffs: map[world.SectorCategory]float64{s.Category: s.Tariff + step},
				},
				terms: termValues{
					GDP:          -step * 2,
					Unemployment: s.ImportShare * 10 * uGap,
					Protection:   s.ImportShare * (10*math.Max(0, s.Unemployment-c.UnemploymentTarget) + 2*math.Max(0, -s.Growth())),
					Trust:        trust,
					Retaliation:  -step * 8, // provocation risk
				},
				retaliatory: retaliatory,
				target:      aggressor,
			})
		}

		if s.Tariff > 0 {
			next := math.Max(0, s.Tariff-step)
			menu = append(menu, candidate{
				kind:  KindTariff,
				label: fmt.Sprintf("cut %s tariff to %.0f%%", s.Category, next*100),
				action: &world.PolicyAction{
					Country: c.ISO,
					Tariffs: map[world.SectorCategory]float64{s.Category: next},
				},
				terms: termValues{
					GDP:         step * 1.5,
					Protection:  -s.ImportShare * 2 * math.Max(0, s.Unemployment-c.UnemploymentTarget),
					Trust:       0.1 * math.Max(0, piGap*10),
					Retaliation: 0.2, // goodwill lowers future risk
				},
			})
		}
	}

	// Subsidy to the weakest sector.
	if weak := weakestSector(c); weak != nil {
		menu = append(menu, candidate{
			kind:  KindSubsidy,
			label: fmt.Sprintf("subsidize %s", weak.Category),
			action: &world.PolicyAction{
				Country: c.ISO,
				Subsidy: &world.Subsidy{Category: weak.Category, Amount: p.AI.SubsidyAmount},
			},
			terms: termValues{
				GDP:          2 * math.Max(0, -growth),
				Unemployment: 10 * math.Max(0, weak.Unemployment-c.UnemploymentTarget),
				Protection:   5 * math.Max(0, weak.Unemployment-c.Unemployment),
			},
		})
	}

	// Fiscal moves.
	taxUp := c.TaxRate + p.AI.TaxStep
	menu = append(menu, candidate{
		kind:   KindTax,
		label:  fmt.Sprintf("raise tax rate to %.1f%%", taxUp*100),
		action: &world.PolicyAction{Country: c.ISO, TaxRate: &taxUp},
		terms: termValues{
			GDP:          3 * math.Max(0, debtRatio-1), // deleveraging relief
			Unemployment: -0.2,
			Trust:        -0.5,
		},
	})
	if c.TaxRate-p.AI.TaxStep >= 0 {
		taxDown := c.TaxRate - p.AI.TaxStep
		menu = append(menu, candidate{
			kind:   KindTax,
			label:  fmt.Sprintf("cut tax rate to %.1f%%", taxDown*100),
			action: &world.PolicyAction{Country: c.ISO, TaxRate: &taxDown},
			terms: termValues{
				GDP:   1*math.Max(0, -growth) - 2*math.Max(0, debtRatio-0.8),
				Trust: 5 * math.Max(0, (60-c.Trust)/100),
			},
		})
	}

	// Monetary moves.
	rateUp := c.PolicyRate + p.AI.RateStep
	menu = append(menu, candidate{
		kind:   KindRate,
		label:  fmt.Sprintf("raise policy rate to %.2f%%", rateUp*100),
		action: &world.PolicyAction{Country: c.ISO, PolicyRate: &rateUp},
		terms: termValues{
			GDP:          -0.2,
			Unemployment: -0.2,
			Trust:        15 * math.Max(0, piGap),
		},
	})
	if c.PolicyRate-p.AI.RateStep >= 0 {
		rateDown := c.PolicyRate - p.AI.RateStep
		menu = append(menu, candidate{
			kind:   KindRate,
			label:  fmt.Sprintf("cut policy rate to %.2f%%", rateDown*100),
			action: &world.PolicyAction{Country: c.ISO, PolicyRate: &rateDown},
			terms: termValues{
				GDP:          2 * math.Max(0, -growth),
				Unemployment: 10 * uGap,
				Trust:        -10 * math.Max(0, piGap),
			},
		})
	}

	// Alliance proposal toward the friendliest counterpart, if any pair has
	// warmed past neutral.
	if friend, score := bestFriend(st, c); friend != "" {
		menu = append(menu, candidate{
			kind:   KindAlliance,
			label:  fmt.Sprintf("propose alliance with %s", friend),
			action: &world.PolicyAction{Country: c.ISO, AllianceWith: friend},
			terms: termValues{
				GDP:         0.1,
				Trust:       (score - 20) / 100,
				Retaliation: 0.3, // shared defense lowers exposure
			},
		})
	}

	return menu
}

// firstAggressor returns the lexically first country that hit this one with
// a hostile tariff last turn, or "".
func firstAggressor(c *world.Country) string {
	if len(c.HostileFrom) == 0 {
		return ""
	}
	sorted := append([]string(nil), c.HostileFrom...)
	sort.Strings(sorted)
	return sorted[0]
}

// weakestSector returns the sector with the highest unemployment.
func weakestSector(c *world.Country) *world.Sector {
	var weak *world.Sector
	for _, s := range c.Sectors {
		if weak == nil || s.Unemployment > weak.Unemployment {
			weak = s
		}
	}
	return weak
}

// bestFriend returns the counterpart with the warmest relation at score 20
// or above that is not already a shared alliance member.
func bestFriend(st *world.State, c *world.Country) (string, float64) {
	best := ""
	bestScore := 0.0
	for _, code := range st.SortedISOCodes() {
		if code == c.ISO {
			continue
		}
		other := st.Country(code)
		if other == nil || !other.Active {
			continue
		}
		r, ok := st.Relations[world.PairKey(c.ISO, code)]
		if !ok || r.Score < 20 {
			continue
		}
		if shareAlliance(st, c.ISO, code) {
			continue
		}
		if best == "" || r.Score > bestScore {
			best = code
			bestScore = r.Score
		}
	}
	return best, bestScore
}

func shareAlliance(st *world.State, a, b string) bool {
	for _, al := range st.Alliances {
		if al.HasMember(a) && al.HasMember(b) {
			return true
		}
	}
	return false
}

// score computes the weighted utility of a candidate plus the bounded
// tit-for-tat bonus. The bonus is additive on top of the weighted sum, not a
// replacement for it.
func score(p *params.Parameters, w params.UtilityWeights, cand candidate) (utility float64, contributions map[string]float64) {
	contributions = map[string]float64{
		"gdp":          w.GDP * cand.terms.GDP,
		"unemployment": w.Unemployment * cand.terms.Unemployment,
		"protection":   w.Protection * cand.terms.Protection,
		"trust":        w.Trust * cand.terms.Trust,
		"retaliation":  w.Retaliation * cand.terms.Retaliation,
	}
	// Fixed summation order so float rounding cannot vary between runs.
	for _, name := range []string{"gdp", "unemployment", "protection", "trust", "retaliation"} {
		utility += contributions[name]
	}
	if cand.retaliatory {
		bonus := p.AI.TitForTatBonus
		utility += bonus
		contributions["retaliation"] += bonus
	}
	return utility, contributions
}
