package credit

import (
	"math"

	"pv-viability/internal/model"
)

// GrupoA is the medium/high-voltage time-of-use class (Verde or Azul).
// Off-peak and peak streams are settled separately and may cross-compensate
// at the equivalence factor before falling back to the bank.
type GrupoA struct {
	Modality     model.Modality
	OffPeak      model.PeriodRate
	Peak         model.PeriodRate
	Simultaneity float64
}

var _ Class = GrupoA{}

func (g GrupoA) Class() model.ConsumerClass { return g.Modality.Class() }

func (g GrupoA) Equivalence() float64 {
	return model.EquivalenceFactor(g.Modality, g.OffPeak, g.Peak)
}

func (g GrupoA) Tariff() float64 { return g.OffPeak.Tariff() }

func (g GrupoA) Source() Source {
	return Source{OffPeakTariff: g.OffPeak.Tariff(), PeakTariff: g.Peak.Tariff()}
}

func (g GrupoA) Scale(f float64) Class {
	return GrupoA{
		Modality:     g.Modality,
		OffPeak:      g.OffPeak.Scale(f),
		Peak:         g.Peak.Scale(f),
		Simultaneity: g.Simultaneity,
	}
}

func (g GrupoA) Carry(bank Bank, s Settlement) Bank { return carry(bank, s) }

func (g GrupoA) Offset(m Month, bank Bank, fraction float64) Settlement {
	share := clampShare(g.Simultaneity)
	eq := g.Equivalence()

	inst := model.Energy{
		OffPeak: math.Min(m.Generation.OffPeak*share, m.Consumption.OffPeak),
		Peak:    math.Min(m.Generation.Peak*share, m.Consumption.Peak),
	}
	injOff := nonNeg(m.Generation.OffPeak - inst.OffPeak)
	injPeak := nonNeg(m.Generation.Peak - inst.Peak)
	defOff := nonNeg(m.Consumption.OffPeak - inst.OffPeak)
	defPeak := nonNeg(m.Consumption.Peak - inst.Peak)

	// Same-period compensation.
	fromNew := model.Energy{
		OffPeak: math.Min(injOff, defOff),
		Peak:    math.Min(injPeak, defPeak),
	}
	surOff := injOff - fromNew.OffPeak
	surPeak := injPeak - fromNew.Peak
	defOff -= fromNew.OffPeak
	defPeak -= fromNew.Peak

	if eq > 0 {
		// Off-peak surplus covers the peak deficit at eq peak kWh per off-peak kWh.
		x := math.Min(surOff, defPeak/eq)
		fromNew.Peak += x * eq
		surOff -= x
		defPeak = nonNeg(defPeak - x*eq)

		// Peak surplus covers the off-peak deficit at 1/eq.
		y := math.Min(surPeak, defOff*eq)
		fromNew.OffPeak += y / eq
		surPeak -= y
		defOff = nonNeg(defOff - y/eq)
	}

	newCredits := injOff
	usedNew := fromNew.OffPeak
	if eq > 0 {
		newCredits += injPeak / eq
		usedNew += fromNew.Peak / eq
	}

	// Bank: off-peak deficit first, then peak at the equivalence factor.
	var fromBank model.Energy
	bank, takenOff := bank.Withdraw(defOff)
	fromBank.OffPeak = takenOff
	takenPeak := 0.0
	if eq > 0 {
		_, takenPeak = bank.Withdraw(defPeak / eq)
		fromBank.Peak = takenPeak * eq
	}
	drawn := takenOff + takenPeak

	s := Settlement{
		Instantaneous:      inst,
		InstantaneousValue: inst.OffPeak*g.OffPeak.Tariff() + inst.Peak*g.Peak.Tariff(),
		NewCredits:         newCredits,
		FromNew:            fromNew,
		FromBank:           fromBank,
		CreditsUsed:        math.Min(usedNew, newCredits) + drawn,
		BankDrawn:          drawn,
		Unserved: model.Energy{
			OffPeak: nonNeg(defOff - fromBank.OffPeak),
			Peak:    nonNeg(defPeak - fromBank.Peak),
		},
	}
	off := s.Offset()
	s.Abated = off.OffPeak*g.OffPeak.Tariff() + off.Peak*g.Peak.Tariff()
	s.FioBCost = (off.OffPeak*g.OffPeak.FioB + off.Peak*g.Peak.FioB) * fraction
	s.CreditSavings = s.Abated - s.FioBCost
	s.Savings = s.InstantaneousValue + s.CreditSavings
	return s
}
