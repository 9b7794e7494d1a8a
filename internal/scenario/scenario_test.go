package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/world"
)

func TestLoadRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":           `{`,
		"missing player":     `{"name": "x", "countries": []}`,
		"bad iso":            `{"name": "x", "player": "us", "countries": []}`,
		"too few countries":  `{"name": "x", "player": "USA", "countries": []}`,
		"unknown government": `{"name": "x", "player": "USA", "countries": [{"iso": "USA", "name": "a", "government": "monarchy", "sectors": [{"category": "services", "output": 1, "labor_share": 1}]}, {"iso": "CHN", "name": "b", "government": "autocracy", "sectors": [{"category": "services", "output": 1, "labor_share": 1}]}]}`,
		"unknown sector":     `{"name": "x", "player": "USA", "countries": [{"iso": "USA", "name": "a", "government": "democracy", "sectors": [{"category": "mining", "output": 1, "labor_share": 1}]}, {"iso": "CHN", "name": "b", "government": "autocracy", "sectors": [{"category": "services", "output": 1, "labor_share": 1}]}]}`,
		"stray field":        `{"name": "x", "player": "USA", "difficulty": "hard", "countries": []}`,
	}
	for name, doc := range cases {
		_, err := Load([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadAcceptsMinimalDocument(t *testing.T) {
	doc, err := Load([]byte(`{
		"name": "pair",
		"player": "USA",
		"countries": [
			{"iso": "USA", "name": "a", "government": "democracy",
			 "sectors": [{"category": "services", "output": 100, "labor_share": 1}]},
			{"iso": "CHN", "name": "b", "government": "autocracy",
			 "sectors": [{"category": "services", "output": 100, "labor_share": 1}]}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "USA", doc.Player)
	assert.Len(t, doc.Countries, 2)
}

func TestBuildDefaultWorld(t *testing.T) {
	p := params.Default()
	st, err := Build(p, Default())
	require.NoError(t, err)

	assert.Equal(t, "USA", st.PlayerISO)
	assert.Len(t, st.Countries, 4)
	require.NoError(t, st.AuditLabor(p.LaborTolerance))

	for _, iso := range st.SortedISOCodes() {
		c := st.Country(iso)
		assert.True(t, c.Active, iso)
		assert.Positive(t, c.GDP, iso)
		for _, s := range c.Sectors {
			// The coefficient is back-solved so the capacity law holds at
			// turn zero.
			assert.InDelta(t, s.Capacity, s.CapacityCoeff*math.Pow(s.Capital, p.Investment.CapacityAlpha), 1e-9)
			assert.Positive(t, s.ImportPrice)
			assert.Positive(t, s.RetailPrice)
			assert.Equal(t, s.NetExports, s.PrevNX)
		}
		// Targets default to initial values where the document sets them.
		assert.InDelta(t, c.Inflation, c.InflationTarget, 1e-9)
	}
}

func TestBuildRejectsBadReferences(t *testing.T) {
	p := params.Default()

	doc := Default()
	doc.Player = "ZZZ"
	_, err := Build(p, doc)
	assert.Error(t, err)

	doc = Default()
	doc.Countries[1].ISO = doc.Countries[0].ISO
	_, err = Build(p, doc)
	assert.Error(t, err)

	doc = Default()
	doc.Countries[0].Sectors = append(doc.Countries[0].Sectors, doc.Countries[0].Sectors[0])
	_, err = Build(p, doc)
	assert.Error(t, err)

	doc = Default()
	doc.Countries[0].Sectors[0].Tariff = p.Trade.TariffCap + 0.1
	_, err = Build(p, doc)
	assert.Error(t, err)
}

func TestBuildDefaultsOptionalFields(t *testing.T) {
	p := params.Default()
	doc, err := Load([]byte(`{
		"name": "pair",
		"player": "USA",
		"countries": [
			{"iso": "USA", "name": "a", "government": "democracy",
			 "sectors": [{"category": "services", "output": 100, "labor_share": 1, "unemployment": 0.05}]},
			{"iso": "CHN", "name": "b", "government": "autocracy",
			 "sectors": [{"category": "services", "output": 100, "labor_share": 1}]}
		]
	}`))
	require.NoError(t, err)
	st, err := Build(p, doc)
	require.NoError(t, err)

	c := st.Country("USA")
	assert.Equal(t, 50.0, c.Trust)
	assert.Equal(t, 1.0, c.ExchangeRate)
	assert.InDelta(t, 0.05, c.UnemploymentTarget, 1e-12)
	s := c.Sector(world.SectorServices)
	assert.Equal(t, 1.0, s.HomePrice)
	assert.Equal(t, s.Output, s.Capacity)
}
