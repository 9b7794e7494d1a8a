package scenario

import "github.com/talgya/statecraft/internal/world"

// Default returns the built-in four-economy world used when no scenario file
// is given. Figures are stylized, roughly proportional quarterly magnitudes
// in index units, not calibrated national accounts.
func Default() *Document {
	f := func(v float64) *float64 { return &v }
	return &Document{
		Name:   "four economies",
		Player: "USA",
		Countries: []Country{
			{
				ISO: "USA", Name: "United States", Government: "democracy",
				PolicyRate: 0.05, TaxRate: 0.30, SpendingRatio: 0.30,
				ExchangeRate: 1.0, Debt: 2400, Inflation: 0.005,
				Trust: f(62), InflationTarget: f(0.005), UnemploymentTarget: f(0.04),
				Sectors: []Sector{
					sector(world.SectorAgriculture, 90, 0.06, 0.035, 300, 0.12, 12, 10),
					sector(world.SectorManufacturing, 420, 0.22, 0.045, 1400, 0.40, 70, 90),
					sector(world.SectorServices, 980, 0.48, 0.038, 2600, 0.10, 60, 50),
					sector(world.SectorEnergy, 160, 0.08, 0.040, 700, 0.25, 25, 30),
					sector(world.SectorTechnology, 350, 0.16, 0.032, 1100, 0.20, 80, 45),
				},
			},
			{
				ISO: "CHN", Name: "China", Government: "autocracy",
				PolicyRate: 0.045, TaxRate: 0.28, SpendingRatio: 0.29,
				ExchangeRate: 1.0, Debt: 1600, Inflation: 0.006,
				Trust: f(58), InflationTarget: f(0.006), UnemploymentTarget: f(0.05),
				Sectors: []Sector{
					sector(world.SectorAgriculture, 180, 0.18, 0.050, 500, 0.08, 20, 15),
					sector(world.SectorManufacturing, 760, 0.34, 0.048, 2300, 0.18, 150, 80),
					sector(world.SectorServices, 620, 0.30, 0.052, 1600, 0.06, 30, 35),
					sector(world.SectorEnergy, 210, 0.09, 0.055, 900, 0.30, 15, 45),
					sector(world.SectorTechnology, 260, 0.09, 0.042, 800, 0.22, 55, 50),
				},
			},
			{
				ISO: "DEU", Name: "Germany", Government: "democracy",
				PolicyRate: 0.04, TaxRate: 0.34, SpendingRatio: 0.34,
				ExchangeRate: 1.0, Debt: 900, Inflation: 0.004,
				Trust: f(60), InflationTarget: f(0.004), UnemploymentTarget: f(0.045),
				Sectors: []Sector{
					sector(world.SectorAgriculture, 30, 0.04, 0.040, 110, 0.20, 6, 8),
					sector(world.SectorManufacturing, 310, 0.30, 0.042, 1000, 0.28, 95, 60),
					sector(world.SectorServices, 380, 0.46, 0.044, 1000, 0.08, 35, 30),
					sector(world.SectorEnergy, 60, 0.07, 0.050, 260, 0.45, 8, 22),
					sector(world.SectorTechnology, 120, 0.13, 0.038, 380, 0.25, 32, 26),
				},
			},
			{
				ISO: "JPN", Name: "Japan", Government: "democracy",
				PolicyRate: 0.02, TaxRate: 0.31, SpendingRatio: 0.33,
				ExchangeRate: 1.0, Debt: 1900, Inflation: 0.002,
				Trust: f(55), InflationTarget: f(0.002), UnemploymentTarget: f(0.03),
				Sectors: []Sector{
					sector(world.SectorAgriculture, 25, 0.035, 0.028, 90, 0.30, 3, 9),
					sector(world.SectorManufacturing, 280, 0.27, 0.030, 950, 0.22, 80, 45),
					sector(world.SectorServices, 430, 0.50, 0.031, 1150, 0.07, 28, 24),
					sector(world.SectorEnergy, 45, 0.055, 0.033, 200, 0.60, 4, 28),
					sector(world.SectorTechnology, 140, 0.14, 0.026, 430, 0.24, 40, 30),
				},
			},
		},
	}
}

func sector(cat world.SectorCategory, output, labor, unemployment, capital, importShare, exportBase, importBase float64) Sector {
	return Sector{
		Category:     cat.String(),
		Output:       output,
		LaborShare:   labor,
		Unemployment: unemployment,
		Capital:      capital,
		ImportShare:  importShare,
		HomePrice:    1,
		ExportBase:   exportBase,
		ImportBase:   importBase,
	}
}
