// Package params holds the calibrated constants for a scenario: feedback
// coefficients, elasticities, decay rates, event probabilities, and the AI
// weight tables. Parameters are loaded once per scenario and are immutable
// for the duration of a turn.
package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Expectation formation modes for the Phillips curve.
const (
	ExpectationStatic   = "static"   // expected inflation = previous realized inflation
	ExpectationAdaptive = "adaptive" // weighted average of realized and prior expectation
)

// Exchange controls the incremental exchange-rate update.
type Exchange struct {
	K1 float64 `yaml:"k1"` // sensitivity to the policy-rate differential
	K2 float64 `yaml:"k2"` // sensitivity to the net-export change
}

// Phillips controls inflation dynamics.
type Phillips struct {
	Phi             float64 `yaml:"phi"`              // output-gap coefficient
	Gamma           float64 `yaml:"gamma"`            // import-price pass-through coefficient
	ExpectationMode string  `yaml:"expectation_mode"` // "static" or "adaptive"
	AdaptiveWeight  float64 `yaml:"adaptive_weight"`  // weight on realized inflation when adaptive
}

// Investment controls capital formation.
type Investment struct {
	I0            float64 `yaml:"i0"`             // autonomous investment
	I1            float64 `yaml:"i1"`             // accelerator on GDP change
	I2            float64 `yaml:"i2"`             // policy-rate drag
	Depreciation  float64 `yaml:"depreciation"`   // capital decay per quarter
	CapacityAlpha float64 `yaml:"capacity_alpha"` // capacity = coeff * K^alpha
	GrowthWeight  float64 `yaml:"growth_weight"`  // sector allocation blend
	ProfitWeight  float64 `yaml:"profit_weight"`
	ShareWeight   float64 `yaml:"share_weight"`
}

// Trade controls price formation and demand responses.
type Trade struct {
	ExportElasticity float64 `yaml:"export_elasticity"`
	ImportElasticity float64 `yaml:"import_elasticity"`
	OutputAdjustment float64 `yaml:"output_adjustment"` // speed output closes the capacity gap
	NXOutputGain     float64 `yaml:"nx_output_gain"`    // output response to net-export swings
	TariffCap        float64 `yaml:"tariff_cap"`
	PriceEpsilon     float64 `yaml:"price_epsilon"` // floor for degenerate prices
	HostileTariff    float64 `yaml:"hostile_tariff"` // tariff raise that counts as a hostile act
	CycleAmplitude   float64 `yaml:"cycle_amplitude"` // world demand cycle swing, 0 disables
	CyclePeriod      float64 `yaml:"cycle_period"`    // quarters per full demand cycle
}

// Trust controls the approval update.
type Trust struct {
	A                float64 `yaml:"a"` // unemployment-gap penalty
	B                float64 `yaml:"b"` // inflation-gap penalty
	C                float64 `yaml:"c"` // unpopular-policy penalty
	CollapseLevel    float64 `yaml:"collapse_level"`     // below this, governance collapses
	UnpopularTaxRise float64 `yaml:"unpopular_tax_rise"` // tax increase that reads as unpopular
}

// EventSpec describes one stochastic event type.
type EventSpec struct {
	Probability float64 `yaml:"probability"` // Bernoulli chance per turn
	Magnitude   float64 `yaml:"magnitude"`   // fractional perturbation on trigger
	Duration    int     `yaml:"duration"`    // turns the lingering effect lasts
}

// Events is the per-scenario probability table.
type Events struct {
	Disaster     EventSpec `yaml:"disaster"`
	Breakthrough EventSpec `yaml:"breakthrough"`
	Sanction     EventSpec `yaml:"sanction"`
}

// UtilityWeights is one posture's weight vector over the utility terms.
type UtilityWeights struct {
	GDP          float64 `yaml:"gdp"`
	Unemployment float64 `yaml:"unemployment"`
	Protection   float64 `yaml:"protection"`
	Trust        float64 `yaml:"trust"`
	Retaliation  float64 `yaml:"retaliation"` // weight on retaliation *risk* (a cost)
}

// AI controls the autonomous agents.
type AI struct {
	Neutral       UtilityWeights `yaml:"neutral"`
	Aggressive    UtilityWeights `yaml:"aggressive"`
	Cooperative   UtilityWeights `yaml:"cooperative"`
	Protectionist UtilityWeights `yaml:"protectionist"`
	Crisis        UtilityWeights `yaml:"crisis"`

	TariffStep      float64 `yaml:"tariff_step"` // candidate tariff increment
	TaxStep         float64 `yaml:"tax_step"`
	RateStep        float64 `yaml:"rate_step"`
	SubsidyAmount   float64 `yaml:"subsidy_amount"`
	ActionThreshold float64 `yaml:"action_threshold"` // minimum utility before acting beats holding
	TitForTatBonus  float64 `yaml:"tit_for_tat_bonus"` // bounded reciprocity bonus
	RecessionGrowth float64 `yaml:"recession_growth"`  // growth below this reads as recession
	BoomGrowth      float64 `yaml:"boom_growth"`       // growth above this reads as a boom
	CrisisTrust     float64 `yaml:"crisis_trust"`      // trust below this forces the crisis posture
}

// Parameters is the full calibration set for a scenario.
type Parameters struct {
	Exchange   Exchange   `yaml:"exchange"`
	OkunBeta   float64    `yaml:"okun_beta"`
	Phillips   Phillips   `yaml:"phillips"`
	Investment Investment `yaml:"investment"`
	Trade      Trade      `yaml:"trade"`
	Trust      Trust      `yaml:"trust"`
	Events     Events     `yaml:"events"`
	AI         AI         `yaml:"ai"`

	SubsidyShift     float64 `yaml:"subsidy_shift"`     // labor-share pull per unit of subsidy
	LaborTolerance   float64 `yaml:"labor_tolerance"`   // allowed drift in the labor-share sum
	QuiescentEpsilon float64 `yaml:"quiescent_epsilon"` // drift allowance for a no-policy baseline
	MaxTurns         int     `yaml:"max_turns"`         // quarters per run
}

// Default returns the baseline calibration. A scenario file overrides any
// subset of these values.
func Default() *Parameters {
	return &Parameters{
		Exchange: Exchange{K1: 0.5, K2: 0.0005},
		OkunBeta: 0.4,
		Phillips: Phillips{
			Phi:             0.3,
			Gamma:           0.15,
			ExpectationMode: ExpectationAdaptive,
			AdaptiveWeight:  0.6,
		},
		Investment: Investment{
			I0:            0.0,
			I1:            0.25,
			I2:            0.5,
			Depreciation:  0.0125,
			CapacityAlpha: 0.7,
			GrowthWeight:  0.4,
			ProfitWeight:  0.3,
			ShareWeight:   0.3,
		},
		Trade: Trade{
			ExportElasticity: 1.2,
			ImportElasticity: 1.1,
			OutputAdjustment: 0.15,
			NXOutputGain:     0.1,
			TariffCap:        0.5,
			PriceEpsilon:     0.0001,
			HostileTariff:    0.05,
			CycleAmplitude:   0.05,
			CyclePeriod:      16,
		},
		Trust: Trust{
			A:                80,
			B:                60,
			C:                2,
			CollapseLevel:    15,
			UnpopularTaxRise: 0.01,
		},
		Events: Events{
			Disaster:     EventSpec{Probability: 0.03, Magnitude: 0.08, Duration: 4},
			Breakthrough: EventSpec{Probability: 0.02, Magnitude: 0.05, Duration: 6},
			Sanction:     EventSpec{Probability: 0.02, Magnitude: 0.10, Duration: 3},
		},
		AI: AI{
			Neutral:       UtilityWeights{GDP: 1.0, Unemployment: 1.0, Protection: 0.5, Trust: 1.0, Retaliation: 1.0},
			Aggressive:    UtilityWeights{GDP: 0.8, Unemployment: 0.8, Protection: 1.2, Trust: 0.5, Retaliation: 0.3},
			Cooperative:   UtilityWeights{GDP: 1.0, Unemployment: 0.8, Protection: 0.3, Trust: 1.5, Retaliation: 1.5},
			Protectionist: UtilityWeights{GDP: 0.7, Unemployment: 1.5, Protection: 1.5, Trust: 0.8, Retaliation: 0.8},
			Crisis:        UtilityWeights{GDP: 0.5, Unemployment: 1.2, Protection: 0.8, Trust: 2.0, Retaliation: 1.2},

			TariffStep:      0.05,
			TaxStep:         0.01,
			RateStep:        0.0025,
			SubsidyAmount:   5,
			ActionThreshold: 0.05,
			TitForTatBonus:  2.0,
			RecessionGrowth: -0.005,
			BoomGrowth:      0.01,
			CrisisTrust:     25,
		},
		SubsidyShift:     0.002,
		LaborTolerance:   1e-6,
		QuiescentEpsilon: 0.02,
		MaxTurns:         32,
	}
}

// Load reads a YAML calibration file over the defaults.
func Load(path string) (*Parameters, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate rejects calibrations the engine cannot run with.
func (p *Parameters) Validate() error {
	if p.Trade.TariffCap <= 0 || p.Trade.TariffCap > 1 {
		return fmt.Errorf("params: tariff cap %.3f outside (0, 1]", p.Trade.TariffCap)
	}
	if p.Phillips.ExpectationMode != ExpectationStatic && p.Phillips.ExpectationMode != ExpectationAdaptive {
		return fmt.Errorf("params: unknown expectation mode %q", p.Phillips.ExpectationMode)
	}
	if p.Phillips.AdaptiveWeight < 0 || p.Phillips.AdaptiveWeight > 1 {
		return fmt.Errorf("params: adaptive weight %.3f outside [0, 1]", p.Phillips.AdaptiveWeight)
	}
	if p.Investment.Depreciation < 0 || p.Investment.Depreciation >= 1 {
		return fmt.Errorf("params: depreciation %.3f outside [0, 1)", p.Investment.Depreciation)
	}
	if p.Trade.PriceEpsilon <= 0 {
		return fmt.Errorf("params: price epsilon must be positive")
	}
	if p.MaxTurns <= 0 {
		return fmt.Errorf("params: max turns must be positive")
	}
	for _, spec := range []EventSpec{p.Events.Disaster, p.Events.Breakthrough, p.Events.Sanction} {
		if spec.Probability < 0 || spec.Probability > 1 {
			return fmt.Errorf("params: event probability %.3f outside [0, 1]", spec.Probability)
		}
	}
	return nil
}
