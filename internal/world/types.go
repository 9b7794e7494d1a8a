// Package world provides the entity model: countries, sectors, relations,
// alliances, and the versioned world-state snapshot the engine transforms
// once per turn.
package world

// GovernmentType shapes the AI personality and the trust politics of a country.
type GovernmentType uint8

const (
	GovDemocracy GovernmentType = iota
	GovAutocracy
	GovHybrid
)

// String returns the scenario-file spelling of the government type.
func (g GovernmentType) String() string {
	switch g {
	case GovDemocracy:
		return "democracy"
	case GovAutocracy:
		return "autocracy"
	default:
		return "hybrid"
	}
}

// GovernmentFromString parses a scenario-file government value.
func GovernmentFromString(s string) (GovernmentType, bool) {
	switch s {
	case "democracy":
		return GovDemocracy, true
	case "autocracy":
		return GovAutocracy, true
	case "hybrid":
		return GovHybrid, true
	}
	return GovHybrid, false
}

// SectorCategory identifies a tradable sector class shared across countries.
type SectorCategory uint8

const (
	SectorAgriculture SectorCategory = iota
	SectorManufacturing
	SectorServices
	SectorEnergy
	SectorTechnology

	sectorCategoryCount
)

// Categories lists all sector categories in fixed order.
func Categories() []SectorCategory {
	out := make([]SectorCategory, 0, sectorCategoryCount)
	for c := SectorCategory(0); c < sectorCategoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// String returns the scenario-file spelling of the category.
func (c SectorCategory) String() string {
	switch c {
	case SectorAgriculture:
		return "agriculture"
	case SectorManufacturing:
		return "manufacturing"
	case SectorServices:
		return "services"
	case SectorEnergy:
		return "energy"
	case SectorTechnology:
		return "technology"
	}
	return "unknown"
}

// CategoryFromString parses a scenario-file sector category.
func CategoryFromString(s string) (SectorCategory, bool) {
	for _, c := range Categories() {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Posture is the strategic state of an autonomous country's agent.
type Posture uint8

const (
	PostureNeutral Posture = iota
	PostureAggressive
	PostureCooperative
	PostureProtectionist
	PostureCrisis // entered when trust collapses
)

// String names the posture for rationales and reports.
func (p Posture) String() string {
	switch p {
	case PostureNeutral:
		return "neutral"
	case PostureAggressive:
		return "aggressive"
	case PostureCooperative:
		return "cooperative"
	case PostureProtectionist:
		return "protectionist"
	case PostureCrisis:
		return "crisis"
	}
	return "unknown"
}

// Sector is one tradable sector owned by exactly one country.
//
// Invariants the engine maintains: Output >= 0, prices > 0, Tariff within
// [0, cap], ImportShare within [0, 1], and the country's labor shares sum
// to one.
type Sector struct {
	Category SectorCategory `json:"category"`

	// Production
	Output          float64 `json:"output"`
	PrevOutput      float64 `json:"prev_output"`
	LaborShare      float64 `json:"labor_share"`
	Unemployment    float64 `json:"unemployment"`
	Capital         float64 `json:"capital"`
	Capacity        float64 `json:"capacity"`
	CapacityCoeff   float64 `json:"capacity_coeff"` // capacity = coeff * K^alpha
	PotentialGrowth float64 `json:"potential_growth"`

	// Prices
	HomePrice       float64 `json:"home_price"`   // producer price
	RetailPrice     float64 `json:"retail_price"` // (1-mu)*home + mu*import
	ImportPrice     float64 `json:"import_price"`
	PrevImportPrice float64 `json:"prev_import_price"`
	ForeignPrice    float64 `json:"foreign_price"` // lagged trade-weighted index

	// Trade
	ImportShare float64 `json:"import_share"` // mu
	Tariff      float64 `json:"tariff"`
	NetExports  float64 `json:"net_exports"`
	PrevNX      float64 `json:"prev_nx"`
	ExportBase  float64 `json:"export_base"`
	ImportBase  float64 `json:"import_base"`

	// Multi-turn event modifiers, rebuilt each turn from active effects.
	OutputModifier float64 `json:"-"`
	ExportFriction float64 `json:"-"`
}

// Employment returns the employed fraction of this sector's labor share.
func (s *Sector) Employment() float64 {
	return s.LaborShare * (1 - s.Unemployment)
}

// Growth returns realized output growth against the previous turn.
func (s *Sector) Growth() float64 {
	if s.PrevOutput <= 0 {
		return 0
	}
	return (s.Output - s.PrevOutput) / s.PrevOutput
}

// Country is one national economy. Countries are created at scenario
// initialization and never removed; a defeated country is rendered inactive.
type Country struct {
	ISO        string         `json:"iso"`
	Name       string         `json:"name"`
	Government GovernmentType `json:"government"`
	Blocs      []string       `json:"blocs,omitempty"`

	// Policy levers
	PolicyRate    float64 `json:"policy_rate"`
	TaxRate       float64 `json:"tax_rate"`
	SpendingRatio float64 `json:"spending_ratio"`

	// Macro state (path-dependent carries)
	ExchangeRate      float64 `json:"exchange_rate"`
	Debt              float64 `json:"debt"`
	Inflation         float64 `json:"inflation"`
	ExpectedInflation float64 `json:"expected_inflation"`
	LastNX            float64 `json:"last_nx"`

	// Approval
	Trust              float64 `json:"trust"` // 0 to 100
	PrevTrust          float64 `json:"prev_trust"`
	InflationTarget    float64 `json:"inflation_target"`
	UnemploymentTarget float64 `json:"unemployment_target"`

	// Derived aggregates, recomputed every turn. Never authoritative storage.
	GDP          float64 `json:"gdp"`
	PrevGDP      float64 `json:"prev_gdp"`
	PotentialGDP float64 `json:"potential_gdp"`
	Unemployment float64 `json:"unemployment"`

	Sectors []*Sector `json:"sectors"`

	// Agent state
	Posture Posture `json:"posture"`
	Active  bool    `json:"active"`

	// Aggressor ISO codes recorded during the previous turn.
	HostileFrom []string `json:"hostile_from,omitempty"`
}

// Sector returns the country's sector for a category, or nil.
func (c *Country) Sector(cat SectorCategory) *Sector {
	for _, s := range c.Sectors {
		if s.Category == cat {
			return s
		}
	}
	return nil
}

// GDPGrowth returns realized GDP growth against the previous turn.
func (c *Country) GDPGrowth() float64 {
	if c.PrevGDP <= 0 {
		return 0
	}
	return (c.GDP - c.PrevGDP) / c.PrevGDP
}

// TrustTrend returns the trust change over the previous turn.
func (c *Country) TrustTrend() float64 {
	return c.Trust - c.PrevTrust
}

// InBloc reports trade-bloc membership.
func (c *Country) InBloc(name string) bool {
	for _, b := range c.Blocs {
		if b == name {
			return true
		}
	}
	return false
}
