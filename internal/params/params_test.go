package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	p := Default()
	p.Phillips.ExpectationMode = "psychic"
	assert.Error(t, p.Validate())

	p = Default()
	p.Trade.TariffCap = 0
	assert.Error(t, p.Validate())

	p = Default()
	p.Investment.Depreciation = 1
	assert.Error(t, p.Validate())

	p = Default()
	p.Events.Disaster.Probability = 1.5
	assert.Error(t, p.Validate())

	p = Default()
	p.MaxTurns = 0
	assert.Error(t, p.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
okun_beta: 0.55
phillips:
  expectation_mode: static
trade:
  tariff_cap: 0.8
ai:
  tit_for_tat_bonus: 3.5
`), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.55, p.OkunBeta)
	assert.Equal(t, ExpectationStatic, p.Phillips.ExpectationMode)
	assert.Equal(t, 0.8, p.Trade.TariffCap)
	assert.Equal(t, 3.5, p.AI.TitForTatBonus)

	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Trust.A, p.Trust.A)
	assert.Equal(t, Default().Trade.ExportElasticity, p.Trade.ExportElasticity)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`phillips: {expectation_mode: psychic}`), 0644))
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
