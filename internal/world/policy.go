package world

// Subsidy targets one sector with a spending amount.
type Subsidy struct {
	Category SectorCategory `json:"category"`
	Amount   float64        `json:"amount"`
}

// PolicyAction carries one turn's submitted policy choices for one country.
// Nil pointer fields leave the corresponding lever untouched. Actions are
// value objects: created by the player or an agent, consumed once by the
// orchestrator, then kept only in audit logs.
type PolicyAction struct {
	Country string `json:"country"`

	// Absolute new tariff rates per sector category.
	Tariffs map[SectorCategory]float64 `json:"tariffs,omitempty"`

	TaxRate       *float64 `json:"tax_rate,omitempty"`
	SpendingRatio *float64 `json:"spending_ratio,omitempty"`
	PolicyRate    *float64 `json:"policy_rate,omitempty"`
	Subsidy       *Subsidy `json:"subsidy,omitempty"`

	// AllianceWith proposes improved standing with a specific counterpart.
	AllianceWith string `json:"alliance_with,omitempty"`
}

// IsNoOp reports whether the action changes nothing.
func (a *PolicyAction) IsNoOp() bool {
	return a == nil || (len(a.Tariffs) == 0 && a.TaxRate == nil && a.SpendingRatio == nil &&
		a.PolicyRate == nil && a.Subsidy == nil && a.AllianceWith == "")
}

// Clone copies the action so stored audit records cannot alias caller maps.
func (a *PolicyAction) Clone() *PolicyAction {
	if a == nil {
		return nil
	}
	c := *a
	if a.Tariffs != nil {
		c.Tariffs = make(map[SectorCategory]float64, len(a.Tariffs))
		for k, v := range a.Tariffs {
			c.Tariffs[k] = v
		}
	}
	if a.Subsidy != nil {
		s := *a.Subsidy
		c.Subsidy = &s
	}
	return &c
}
