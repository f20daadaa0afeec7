package credit

import (
	"math"

	"pv-viability/internal/model"
)

// GrupoB is the single-stream low-voltage class.
// Tariff and FioB are in R$/kWh; Simultaneity is the share of generation
// consumed on site before injection.
type GrupoB struct {
	TariffRate   float64
	FioB         float64
	Simultaneity float64
}

var _ Class = GrupoB{}

func (g GrupoB) Class() model.ConsumerClass { return model.ClassGrupoB }

func (g GrupoB) Equivalence() float64 { return 1 }

func (g GrupoB) Tariff() float64 { return g.TariffRate }

// Source is flat: the same price applies to every period.
func (g GrupoB) Source() Source {
	return Source{OffPeakTariff: g.TariffRate, PeakTariff: g.TariffRate}
}

func (g GrupoB) Scale(f float64) Class {
	return GrupoB{TariffRate: g.TariffRate * f, FioB: g.FioB * f, Simultaneity: g.Simultaneity}
}

func (g GrupoB) Carry(bank Bank, s Settlement) Bank { return carry(bank, s) }

func (g GrupoB) Offset(m Month, bank Bank, fraction float64) Settlement {
	gen := m.Generation.Sum()
	cons := m.Consumption.Sum()

	// Self-consumed energy never touches the grid and carries no Fio B.
	inst := math.Min(gen*clampShare(g.Simultaneity), cons)
	injected := nonNeg(gen - inst)
	remaining := nonNeg(cons - inst)

	fromNew := math.Min(injected, remaining)
	_, fromBank := bank.Withdraw(remaining - fromNew)
	offset := fromNew + fromBank

	s := Settlement{
		Instantaneous:      model.Energy{OffPeak: inst},
		InstantaneousValue: inst * g.TariffRate,
		NewCredits:         injected,
		FromNew:            model.Energy{OffPeak: fromNew},
		FromBank:           model.Energy{OffPeak: fromBank},
		CreditsUsed:        offset,
		BankDrawn:          fromBank,
		Unserved:           model.Energy{OffPeak: nonNeg(remaining - offset)},
		Abated:             offset * g.TariffRate,
		FioBCost:           offset * g.FioB * fraction,
	}
	s.CreditSavings = s.Abated - s.FioBCost
	s.Savings = s.InstantaneousValue + s.CreditSavings
	return s
}
