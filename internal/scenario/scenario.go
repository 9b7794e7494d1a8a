// Package scenario loads and validates world definitions. A scenario is a
// JSON document naming the player and the initial state of every country; it
// is validated against an embedded JSON Schema before any field is trusted,
// then built into a world snapshot with its derived fields filled in.
package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

//go:embed schema.json
var schemaSource []byte

var schema = jsonschema.MustCompileString("scenario.schema.json", string(schemaSource))

// Document is the raw scenario file.
type Document struct {
	Name      string    `json:"name"`
	Player    string    `json:"player"`
	Countries []Country `json:"countries"`
}

// Country is one country definition. Optional fields default at build time:
// targets default to the initial values, prices to 1, trust to 50.
type Country struct {
	ISO           string   `json:"iso"`
	Name          string   `json:"name"`
	Government    string   `json:"government"`
	PolicyRate    float64  `json:"policy_rate"`
	TaxRate       float64  `json:"tax_rate"`
	SpendingRatio float64  `json:"spending_ratio"`
	ExchangeRate  float64  `json:"exchange_rate"`
	Debt          float64  `json:"debt"`
	Inflation     float64  `json:"inflation"`
	Trust         *float64 `json:"trust,omitempty"`

	InflationTarget    *float64 `json:"inflation_target,omitempty"`
	UnemploymentTarget *float64 `json:"unemployment_target,omitempty"`

	Sectors []Sector `json:"sectors"`
}

// Sector is one sector definition.
type Sector struct {
	Category        string  `json:"category"`
	Output          float64 `json:"output"`
	LaborShare      float64 `json:"labor_share"`
	Unemployment    float64 `json:"unemployment"`
	Capital         float64 `json:"capital"`
	Capacity        float64 `json:"capacity"`
	PotentialGrowth float64 `json:"potential_growth"`
	HomePrice       float64 `json:"home_price"`
	ImportShare     float64 `json:"import_share"`
	Tariff          float64 `json:"tariff"`
	ExportBase      float64 `json:"export_base"`
	ImportBase      float64 `json:"import_base"`
}

// Load parses and schema-validates a scenario document.
func Load(data []byte) (*Document, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and validates a scenario file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Load(data)
}

// Build turns a validated document into the turn-zero world snapshot.
// Derived fields are filled so the world starts internally consistent:
// capacity coefficients are back-solved from the initial capital stock,
// import and retail prices are computed from the initial cross-country price
// indices, and country aggregates are rebuilt from sector state.
func Build(p *params.Parameters, doc *Document) (*world.State, error) {
	st := &world.State{
		Turn:      0,
		PlayerISO: doc.Player,
	}
	seen := make(map[string]bool)
	for _, cd := range doc.Countries {
		if seen[cd.ISO] {
			return nil, fmt.Errorf("scenario: duplicate country %q", cd.ISO)
		}
		seen[cd.ISO] = true
		c, err := buildCountry(p, cd)
		if err != nil {
			return nil, err
		}
		st.Countries = append(st.Countries, c)
	}
	if !seen[doc.Player] {
		return nil, fmt.Errorf("scenario: player %q is not a defined country", doc.Player)
	}
	st.BuildIndex()
	st.RecomputeAggregates()

	// Fill the lagged trade fields from the initial cross-country indices so
	// the first turn starts from an internally consistent baseline instead of
	// a synthetic shock.
	for _, iso := range st.SortedISOCodes() {
		c := st.Country(iso)
		totalNX := 0.0
		for _, s := range c.Sectors {
			s.ForeignPrice = st.ForeignPriceIndex(iso, s.Category)
			s.ImportPrice = s.ForeignPrice * c.ExchangeRate * (1 + s.Tariff)
			s.PrevImportPrice = s.ImportPrice
			s.RetailPrice = (1-s.ImportShare)*s.HomePrice + s.ImportShare*s.ImportPrice

			rel := s.ForeignPrice * c.ExchangeRate / s.HomePrice
			exports := s.ExportBase * math.Pow(rel, p.Trade.ExportElasticity)
			imports := s.ImportBase * math.Pow(s.HomePrice/s.ImportPrice, p.Trade.ImportElasticity)
			s.NetExports = exports - imports
			s.PrevNX = s.NetExports
			totalNX += s.NetExports
		}
		c.LastNX = totalNX
		c.PrevGDP = c.GDP
		c.PrevTrust = c.Trust
		if c.UnemploymentTarget == 0 {
			c.UnemploymentTarget = c.Unemployment
		}
	}
	if err := st.AuditLabor(p.LaborTolerance); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return st, nil
}

func buildCountry(p *params.Parameters, cd Country) (*world.Country, error) {
	gov, ok := world.GovernmentFromString(cd.Government)
	if !ok {
		return nil, fmt.Errorf("scenario: country %s: unknown government %q", cd.ISO, cd.Government)
	}
	c := &world.Country{
		ISO:               cd.ISO,
		Name:              cd.Name,
		Government:        gov,
		PolicyRate:        cd.PolicyRate,
		TaxRate:           cd.TaxRate,
		SpendingRatio:     cd.SpendingRatio,
		ExchangeRate:      cd.ExchangeRate,
		Debt:              cd.Debt,
		Inflation:         cd.Inflation,
		ExpectedInflation: cd.Inflation,
		Trust:             50,
		Posture:           world.PostureNeutral,
		Active:            true,
	}
	if c.ExchangeRate <= 0 {
		c.ExchangeRate = 1
	}
	if cd.Trust != nil {
		c.Trust = *cd.Trust
	}
	c.InflationTarget = cd.Inflation
	if cd.InflationTarget != nil {
		c.InflationTarget = *cd.InflationTarget
	}
	if cd.UnemploymentTarget != nil {
		c.UnemploymentTarget = *cd.UnemploymentTarget
	}

	catSeen := make(map[string]bool)
	for _, sd := range cd.Sectors {
		if catSeen[sd.Category] {
			return nil, fmt.Errorf("scenario: country %s: duplicate sector %q", cd.ISO, sd.Category)
		}
		catSeen[sd.Category] = true
		cat, ok := world.CategoryFromString(sd.Category)
		if !ok {
			return nil, fmt.Errorf("scenario: country %s: unknown sector %q", cd.ISO, sd.Category)
		}
		s := &world.Sector{
			Category:        cat,
			Output:          sd.Output,
			PrevOutput:      sd.Output,
			LaborShare:      sd.LaborShare,
			Unemployment:    sd.Unemployment,
			Capital:         sd.Capital,
			Capacity:        sd.Capacity,
			PotentialGrowth: sd.PotentialGrowth,
			HomePrice:       sd.HomePrice,
			ImportShare:     sd.ImportShare,
			Tariff:          sd.Tariff,
			ExportBase:      sd.ExportBase,
			ImportBase:      sd.ImportBase,
		}
		if s.HomePrice <= 0 {
			s.HomePrice = 1
		}
		if s.Capacity <= 0 {
			s.Capacity = s.Output
		}
		// Back-solve the coefficient so capacity = coeff * K^alpha holds at
		// turn zero; with no capital the sector cannot grow capacity.
		if s.Capital > 0 {
			s.CapacityCoeff = s.Capacity / math.Pow(s.Capital, p.Investment.CapacityAlpha)
		}
		c.Sectors = append(c.Sectors, s)
	}
	if cd.Tariff() > p.Trade.TariffCap {
		return nil, fmt.Errorf("scenario: country %s: tariff above cap %.2f", cd.ISO, p.Trade.TariffCap)
	}
	world.RenormalizeLabor(c)
	return c, nil
}

// Tariff returns the highest initial tariff across the country's sectors.
func (c Country) Tariff() float64 {
	max := 0.0
	for _, s := range c.Sectors {
		if s.Tariff > max {
			max = s.Tariff
		}
	}
	return max
}
