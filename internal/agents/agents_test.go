package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

func steadyCountry(iso string, gov world.GovernmentType) *world.Country {
	return &world.Country{
		ISO: iso, Name: iso, Government: gov,
		PolicyRate: 0.03, TaxRate: 0.3, SpendingRatio: 0.3,
		ExchangeRate: 1, Trust: 60, PrevTrust: 60,
		GDP: 200, PrevGDP: 200,
		Unemployment: 0.04, UnemploymentTarget: 0.04,
		Active: true,
		Sectors: []*world.Sector{
			{Category: world.SectorAgriculture, Output: 100, PrevOutput: 100, LaborShare: 0.5,
				Unemployment: 0.04, HomePrice: 1, ImportShare: 0.2},
			{Category: world.SectorManufacturing, Output: 100, PrevOutput: 100, LaborShare: 0.5,
				Unemployment: 0.04, HomePrice: 1, ImportShare: 0.4},
		},
	}
}

func steadyState(countries ...*world.Country) *world.State {
	st := &world.State{PlayerISO: "USA", Countries: countries}
	st.BuildIndex()
	return st
}

func TestNextPosture(t *testing.T) {
	p := params.Default()

	c := steadyCountry("CHN", world.GovAutocracy)
	assert.Equal(t, world.PostureNeutral, NextPosture(p, c))

	c.Trust = 20 // below the crisis threshold
	assert.Equal(t, world.PostureCrisis, NextPosture(p, c))

	c = steadyCountry("CHN", world.GovAutocracy)
	c.HostileFrom = []string{"USA"}
	assert.Equal(t, world.PostureAggressive, NextPosture(p, c))

	// Crisis outranks hostility.
	c.Trust = 20
	assert.Equal(t, world.PostureCrisis, NextPosture(p, c))

	c = steadyCountry("CHN", world.GovAutocracy)
	c.PrevGDP = 210 // shrinking
	assert.Equal(t, world.PostureProtectionist, NextPosture(p, c))

	c = steadyCountry("CHN", world.GovAutocracy)
	c.PrevGDP = 190 // booming with stable trust
	assert.Equal(t, world.PostureCooperative, NextPosture(p, c))

	c.PrevTrust = 65 // boom but trust slipping
	assert.Equal(t, world.PostureNeutral, NextPosture(p, c))
}

func TestPostureWeightsGovernmentShift(t *testing.T) {
	p := params.Default()

	auto := postureWeights(p, world.PostureNeutral, world.GovAutocracy)
	dem := postureWeights(p, world.PostureNeutral, world.GovDemocracy)
	hyb := postureWeights(p, world.PostureNeutral, world.GovHybrid)

	assert.Less(t, auto.Retaliation, hyb.Retaliation)
	assert.Greater(t, auto.Protection, hyb.Protection)
	assert.Greater(t, dem.Trust, hyb.Trust)
	assert.Greater(t, dem.Unemployment, hyb.Unemployment)
}

func TestDecideHoldsAtSteadyState(t *testing.T) {
	p := params.Default()
	st := steadyState(
		steadyCountry("USA", world.GovDemocracy),
		steadyCountry("CHN", world.GovAutocracy),
	)

	d := Decide(p, st, st.Country("CHN"))
	assert.Equal(t, world.PostureNeutral, d.Posture)
	assert.True(t, d.Action.IsNoOp())
	assert.Contains(t, d.Rationale, "holding course")
}

func TestDecideRetaliates(t *testing.T) {
	p := params.Default()
	chn := steadyCountry("CHN", world.GovAutocracy)
	chn.HostileFrom = []string{"USA"}
	st := steadyState(steadyCountry("USA", world.GovDemocracy), chn)

	d := Decide(p, st, chn)
	assert.Equal(t, world.PostureAggressive, d.Posture)
	require.NotNil(t, d.Action)
	assert.NotEmpty(t, d.Action.Tariffs)
	assert.Positive(t, d.Utility)
	assert.Contains(t, d.Rationale, "retaliation")
	assert.Contains(t, d.Rationale, "USA")
}

func TestDecideIsDeterministic(t *testing.T) {
	p := params.Default()
	chn := steadyCountry("CHN", world.GovAutocracy)
	chn.Unemployment = 0.09
	chn.Sectors[1].Unemployment = 0.14
	st := steadyState(steadyCountry("USA", world.GovDemocracy), chn)

	first := Decide(p, st, chn)
	for i := 0; i < 10; i++ {
		again := Decide(p, st, chn)
		assert.Equal(t, first, again)
	}
}

func TestTitForTatBonusIsAdditive(t *testing.T) {
	p := params.Default()
	cand := candidate{retaliatory: true, terms: termValues{Retaliation: -1}}
	w := params.UtilityWeights{Retaliation: 0.3}

	utility, contributions := score(p, w, cand)
	// The bonus lands after weighting: -0.3 from the weighted risk term plus
	// the full configured bonus.
	assert.InDelta(t, -0.3+p.AI.TitForTatBonus, utility, 1e-12)
	assert.InDelta(t, -0.3+p.AI.TitForTatBonus, contributions["retaliation"], 1e-12)
}

func TestFirstAggressorIsLexicallyFirst(t *testing.T) {
	c := steadyCountry("DEU", world.GovDemocracy)
	c.HostileFrom = []string{"USA", "CHN"}
	assert.Equal(t, "CHN", firstAggressor(c))
	// The stored order is untouched.
	assert.Equal(t, []string{"USA", "CHN"}, c.HostileFrom)
}
