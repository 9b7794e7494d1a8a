package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

// State is the complete world snapshot for one turn. The orchestrator is the
// sole writer: it clones the current snapshot, mutates the clone through the
// turn phases, and commits it whole. External readers only ever see a
// pre-turn or fully committed post-turn state.
type State struct {
	Turn      int    `json:"turn"`
	PlayerISO string `json:"player_iso"`

	Countries []*Country  `json:"countries"`
	Alliances []*Alliance `json:"alliances,omitempty"`

	// Relations keyed by sorted "AAA|BBB" pair key.
	Relations map[string]*Relation `json:"relations,omitempty"`

	// Event idempotency ledger: tags of every applied event.
	AppliedEvents map[string]bool `json:"applied_events,omitempty"`

	// Lingering event effects still decaying.
	ActiveEffects []*EventEffect `json:"active_effects,omitempty"`

	index map[string]*Country
}

// EventEffect is a multi-turn perturbation left behind by a triggered event.
type EventEffect struct {
	Tag       string         `json:"tag"`
	Kind      string         `json:"kind"`
	ISO       string         `json:"iso"`
	Category  SectorCategory `json:"category"`
	Initial   float64        `json:"initial"`   // strength on the trigger turn
	Magnitude float64        `json:"magnitude"` // current per-turn strength
	Duration  int            `json:"duration"`
	TurnsLeft int            `json:"turns_left"`
	Decay     string         `json:"decay"` // "linear", "exponential", or "flat"
}

// BuildIndex rebuilds the ISO lookup. Call after constructing or decoding a
// state by hand; Clone does it automatically.
func (st *State) BuildIndex() {
	st.index = make(map[string]*Country, len(st.Countries))
	for _, c := range st.Countries {
		st.index[c.ISO] = c
	}
}

// Country returns the country with the given ISO code, or nil.
func (st *State) Country(iso string) *Country {
	if st.index == nil {
		st.BuildIndex()
	}
	return st.index[iso]
}

// Player returns the player-controlled country.
func (st *State) Player() *Country {
	return st.Country(st.PlayerISO)
}

// Clone deep-copies the state. The clone shares nothing with the original,
// so phase computations on the clone can never leak into the committed
// snapshot.
func (st *State) Clone() *State {
	next := &State{
		Turn:      st.Turn,
		PlayerISO: st.PlayerISO,
		Countries: make([]*Country, 0, len(st.Countries)),
	}
	for _, c := range st.Countries {
		cc := *c
		cc.Blocs = append([]string(nil), c.Blocs...)
		cc.HostileFrom = append([]string(nil), c.HostileFrom...)
		cc.Sectors = make([]*Sector, 0, len(c.Sectors))
		for _, s := range c.Sectors {
			sc := *s
			cc.Sectors = append(cc.Sectors, &sc)
		}
		next.Countries = append(next.Countries, &cc)
	}
	if st.Alliances != nil {
		next.Alliances = make([]*Alliance, 0, len(st.Alliances))
		for _, a := range st.Alliances {
			ac := *a
			ac.Members = append([]string(nil), a.Members...)
			next.Alliances = append(next.Alliances, &ac)
		}
	}
	if st.Relations != nil {
		next.Relations = make(map[string]*Relation, len(st.Relations))
		for k, r := range st.Relations {
			rc := *r
			next.Relations[k] = &rc
		}
	}
	if st.AppliedEvents != nil {
		next.AppliedEvents = make(map[string]bool, len(st.AppliedEvents))
		for k, v := range st.AppliedEvents {
			next.AppliedEvents[k] = v
		}
	}
	if st.ActiveEffects != nil {
		next.ActiveEffects = make([]*EventEffect, 0, len(st.ActiveEffects))
		for _, e := range st.ActiveEffects {
			ec := *e
			next.ActiveEffects = append(next.ActiveEffects, &ec)
		}
	}
	next.BuildIndex()
	return next
}

// SortedISOCodes returns all country codes in lexical order. Phase loops
// iterate in this order so a run is reproducible.
func (st *State) SortedISOCodes() []string {
	codes := lo.Map(st.Countries, func(c *Country, _ int) string { return c.ISO })
	sort.Strings(codes)
	return codes
}

// RecomputeAggregates rebuilds the derived country aggregates from sector
// state. GDP and unemployment are never stored as independent truth; they
// are overwritten here every turn to avoid drift.
func (st *State) RecomputeAggregates() {
	for _, c := range st.Countries {
		gdp := 0.0
		pot := 0.0
		u := 0.0
		for _, s := range c.Sectors {
			gdp += s.Output
			pot += s.Capacity
			u += s.LaborShare * s.Unemployment
		}
		c.GDP = gdp
		c.PotentialGDP = pot
		c.Unemployment = u
	}
}

// RenormalizeLabor rescales a country's labor shares to sum to one. Called
// after subsidy and investment logic, which are the only writers that can
// disturb the allocation.
func RenormalizeLabor(c *Country) {
	total := 0.0
	for _, s := range c.Sectors {
		if s.LaborShare < 0 {
			s.LaborShare = 0
		}
		total += s.LaborShare
	}
	if total <= 0 {
		share := 1.0 / float64(len(c.Sectors))
		for _, s := range c.Sectors {
			s.LaborShare = share
		}
		return
	}
	for _, s := range c.Sectors {
		s.LaborShare /= total
	}
}

// AuditLabor verifies the labor-share invariant for every country within the
// given tolerance. A failure here is fatal for the turn.
func (st *State) AuditLabor(tolerance float64) error {
	for _, c := range st.Countries {
		total := 0.0
		for _, s := range c.Sectors {
			total += s.LaborShare
		}
		if math.Abs(total-1) > tolerance {
			return fmt.Errorf("country %s labor shares sum to %.9f", c.ISO, total)
		}
	}
	return nil
}

// TradeWeights returns, for the given country, each counterpart's weight in
// its trade basket. Weights are GDP shares over all other active countries
// and sum to one.
func (st *State) TradeWeights(iso string) map[string]float64 {
	total := 0.0
	for _, c := range st.Countries {
		if c.ISO == iso || !c.Active {
			continue
		}
		total += c.GDP
	}
	weights := make(map[string]float64)
	if total <= 0 {
		return weights
	}
	for _, c := range st.Countries {
		if c.ISO == iso || !c.Active {
			continue
		}
		weights[c.ISO] = c.GDP / total
	}
	return weights
}

// ForeignPriceIndex returns the trade-weighted average of other countries'
// producer prices for a category. Callers pass the previous turn's committed
// snapshot, which turns the cross-country price coupling into a one-turn
// lagged feedback instead of a simultaneous system.
func (st *State) ForeignPriceIndex(iso string, cat SectorCategory) float64 {
	weights := st.TradeWeights(iso)
	idx := 0.0
	used := 0.0
	for _, code := range st.SortedISOCodes() {
		w, ok := weights[code]
		if !ok {
			continue
		}
		s := st.Country(code).Sector(cat)
		if s == nil {
			continue
		}
		idx += w * s.HomePrice
		used += w
	}
	if used <= 0 {
		// No counterpart trades this category; fall back to own price.
		if s := st.Country(iso).Sector(cat); s != nil {
			return s.HomePrice
		}
		return 1
	}
	return idx / used
}

// ForeignPolicyRate returns the trade-weighted average policy rate across
// counterpart countries.
func (st *State) ForeignPolicyRate(iso string) float64 {
	weights := st.TradeWeights(iso)
	rate := 0.0
	used := 0.0
	for _, code := range st.SortedISOCodes() {
		w, ok := weights[code]
		if !ok {
			continue
		}
		rate += w * st.Country(code).PolicyRate
		used += w
	}
	if used <= 0 {
		return st.Country(iso).PolicyRate
	}
	return rate / used
}

// CountrySnapshot is the read-only projection handed to external layers.
type CountrySnapshot struct {
	ISO          string           `json:"iso"`
	Name         string           `json:"name"`
	Government   string           `json:"government"`
	Blocs        []string         `json:"blocs,omitempty"`
	GDP          float64          `json:"gdp"`
	Unemployment float64          `json:"unemployment"`
	Inflation    float64          `json:"inflation"`
	Trust        float64          `json:"trust"`
	Debt         float64          `json:"debt"`
	ExchangeRate float64          `json:"exchange_rate"`
	PolicyRate   float64          `json:"policy_rate"`
	TaxRate      float64          `json:"tax_rate"`
	Posture      string           `json:"posture"`
	Active       bool             `json:"active"`
	Sectors      []SectorSnapshot `json:"sectors"`
}

// SectorSnapshot is the per-sector slice of a country view.
type SectorSnapshot struct {
	Category     string  `json:"category"`
	Output       float64 `json:"output"`
	LaborShare   float64 `json:"labor_share"`
	Unemployment float64 `json:"unemployment"`
	RetailPrice  float64 `json:"retail_price"`
	ImportPrice  float64 `json:"import_price"`
	Tariff       float64 `json:"tariff"`
	ImportShare  float64 `json:"import_share"`
	NetExports   float64 `json:"net_exports"`
}

// CountryView projects one country into its external snapshot. Returns an
// error for unknown codes; never mutates state.
func CountryView(st *State, iso string) (*CountrySnapshot, error) {
	c := st.Country(iso)
	if c == nil {
		return nil, fmt.Errorf("unknown country %q", iso)
	}
	view := &CountrySnapshot{
		ISO:          c.ISO,
		Name:         c.Name,
		Government:   c.Government.String(),
		Blocs:        append([]string(nil), c.Blocs...),
		GDP:          c.GDP,
		Unemployment: c.Unemployment,
		Inflation:    c.Inflation,
		Trust:        c.Trust,
		Debt:         c.Debt,
		ExchangeRate: c.ExchangeRate,
		PolicyRate:   c.PolicyRate,
		TaxRate:      c.TaxRate,
		Posture:      c.Posture.String(),
		Active:       c.Active,
	}
	for _, s := range c.Sectors {
		view.Sectors = append(view.Sectors, SectorSnapshot{
			Category:     s.Category.String(),
			Output:       s.Output,
			LaborShare:   s.LaborShare,
			Unemployment: s.Unemployment,
			RetailPrice:  s.RetailPrice,
			ImportPrice:  s.ImportPrice,
			Tariff:       s.Tariff,
			ImportShare:  s.ImportShare,
			NetExports:   s.NetExports,
		})
	}
	return view, nil
}
