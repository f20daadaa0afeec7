package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validFinancials() ProjectFinancials {
	return ProjectFinancials{
		Capex:           30000,
		HorizonYears:    25,
		DiscountRate:    0.08,
		TariffInflation: 0.05,
		Degradation:     0.005,
		SalvageFraction: 0.1,
		OMFraction:      0.01,
		OMInflation:     0.04,
	}
}

func TestProjectFinancialsValidate(t *testing.T) {
	assert.NoError(t, validFinancials().Validate())

	tests := []struct {
		name   string
		mutate func(p *ProjectFinancials)
	}{
		{"zero capex", func(p *ProjectFinancials) { p.Capex = 0 }},
		{"horizon zero", func(p *ProjectFinancials) { p.HorizonYears = 0 }},
		{"horizon above 50", func(p *ProjectFinancials) { p.HorizonYears = 51 }},
		{"negative discount", func(p *ProjectFinancials) { p.DiscountRate = -0.1 }},
		{"negative inflation", func(p *ProjectFinancials) { p.TariffInflation = -0.01 }},
		{"full degradation", func(p *ProjectFinancials) { p.Degradation = 1 }},
		{"negative om", func(p *ProjectFinancials) { p.OMFraction = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validFinancials()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestProjectFinancialsFactors(t *testing.T) {
	p := validFinancials()
	assert.Equal(t, 1.0, p.TariffFactor(1))
	assert.InDelta(t, 1.1025, p.TariffFactor(3), 1e-12)
	assert.InDelta(t, 0.995, p.DegradationFactor(2), 1e-12)
	assert.InDelta(t, 300.0, p.OMCost(1), 1e-9)
	assert.InDelta(t, 312.0, p.OMCost(2), 1e-9)
	assert.InDelta(t, 1/1.08, p.DiscountFactor(1), 1e-12)
	assert.Equal(t, 0.0, p.Salvage(24))
	assert.InDelta(t, 3000.0, p.Salvage(25), 1e-9)
}

func TestEquivalenceFactor(t *testing.T) {
	offPeak := PeriodRate{TE: 0.30, TUSD: 0.10}
	peak := PeriodRate{TE: 0.45, TUSD: 1.15}

	assert.InDelta(t, 0.40/1.60, EquivalenceFactor(ModalityBlue, offPeak, peak), 1e-12)
	assert.InDelta(t, 0.30/0.45, EquivalenceFactor(ModalityGreen, offPeak, peak), 1e-12)
	assert.InDelta(t, 0.5, EquivalenceFactor(ModalityGreen, PeriodRate{TUSD: 0.5}, PeriodRate{TUSD: 1}), 1e-12)
}

func TestCalculationErrorUnwraps(t *testing.T) {
	base := errors.New("boom")
	err := &CalculationError{Class: ClassGrupoB, Year: 3, Month: 7, Err: base}
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "grupo_b year 3 month 7: boom", err.Error())
}
