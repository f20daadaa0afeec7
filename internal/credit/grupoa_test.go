package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pv-viability/internal/model"
)

func blueUnit() GrupoA {
	return GrupoA{
		Modality: model.ModalityBlue,
		OffPeak:  model.PeriodRate{TE: 0.30, TUSD: 0.10, FioB: 0.08},
		Peak:     model.PeriodRate{TE: 0.45, TUSD: 1.15, FioB: 0.20},
	}
}

func TestGrupoACrossPeriodCompensation(t *testing.T) {
	g := blueUnit()
	assert.InDelta(t, 0.25, g.Equivalence(), 1e-12)
	assert.Equal(t, model.ClassGrupoABlue, g.Class())

	m := Month{
		Generation:  model.Energy{OffPeak: 2000},
		Consumption: model.Energy{OffPeak: 1000, Peak: 200},
	}
	s := g.Offset(m, 0, 0.5)

	assert.InDelta(t, 1000.0, s.FromNew.OffPeak, 1e-9)
	assert.InDelta(t, 200.0, s.FromNew.Peak, 1e-9, "peak covered by 800 off-peak kWh")
	assert.InDelta(t, 2000.0, s.NewCredits, 1e-9)
	assert.InDelta(t, 1800.0, s.CreditsUsed, 1e-9)
	assert.InDelta(t, 720.0, s.Abated, 1e-9)
	assert.InDelta(t, 60.0, s.FioBCost, 1e-9)
	assert.InDelta(t, 660.0, s.Savings, 1e-9)
	assert.InDelta(t, 200.0, g.Carry(0, s).KWh(), 1e-9)
}

func TestGrupoABankFallback(t *testing.T) {
	g := blueUnit()
	m := Month{Consumption: model.Energy{OffPeak: 100, Peak: 40}}

	s := g.Offset(m, 150, 0)

	assert.InDelta(t, 100.0, s.FromBank.OffPeak, 1e-9)
	assert.InDelta(t, 12.5, s.FromBank.Peak, 1e-9)
	assert.InDelta(t, 150.0, s.BankDrawn, 1e-9)
	assert.InDelta(t, 27.5, s.Unserved.Peak, 1e-9)
	assert.Zero(t, s.Unserved.OffPeak)
	assert.InDelta(t, 60.0, s.Savings, 1e-9)
	assert.Zero(t, g.Carry(150, s).KWh())
}

func TestGrupoAPeakSurplusCoversOffPeak(t *testing.T) {
	g := blueUnit()
	m := Month{
		Generation:  model.Energy{Peak: 100},
		Consumption: model.Energy{OffPeak: 200},
	}
	s := g.Offset(m, 0, 0)
	// 100 peak kWh are worth 400 off-peak kWh; 200 are needed.
	assert.InDelta(t, 200.0, s.FromNew.OffPeak, 1e-9)
	assert.InDelta(t, 400.0, s.NewCredits, 1e-9)
	assert.InDelta(t, 200.0, g.Carry(0, s).KWh(), 1e-9)
}

func TestGrupoAGreenUsesEnergyComponent(t *testing.T) {
	g := blueUnit()
	g.Modality = model.ModalityGreen
	assert.InDelta(t, 0.30/0.45, g.Equivalence(), 1e-12)
	assert.Equal(t, model.ClassGrupoAGreen, g.Class())
}

func TestGrupoASimultaneityPerPeriod(t *testing.T) {
	g := blueUnit()
	g.Simultaneity = 0.5
	m := Month{
		Generation:  model.Energy{OffPeak: 1000, Peak: 100},
		Consumption: model.Energy{OffPeak: 300, Peak: 30},
	}
	s := g.Offset(m, 0, 1)
	assert.InDelta(t, 300.0, s.Instantaneous.OffPeak, 1e-9)
	assert.InDelta(t, 30.0, s.Instantaneous.Peak, 1e-9)
	assert.Zero(t, s.Offset().Sum())
	assert.Zero(t, s.FioBCost)
	assert.InDelta(t, 300*0.4+30*1.6, s.Savings, 1e-9)
}
