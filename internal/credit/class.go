package credit

import (
	"math"

	"pv-viability/internal/model"
)

// Bank is the credit balance of one generating unit, in off-peak-equivalent kWh.
// It is a value: every step that changes it returns the new balance.
type Bank float64

func (b Bank) KWh() float64 { return float64(b) }

// Withdraw takes up to kwh from the bank and returns the new balance and the amount taken.
func (b Bank) Withdraw(kwh float64) (Bank, float64) {
	if kwh <= 0 || b <= 0 {
		return b, 0
	}
	taken := math.Min(kwh, float64(b))
	return Bank(math.Max(0, float64(b)-taken)), taken
}

// Month is one month of on-site energy flows, in kWh.
type Month struct {
	Index       int // 0 = January
	Generation  model.Energy
	Consumption model.Energy
}

// Settlement is the outcome of offsetting one month of local consumption.
// Energy fields are in the period's own kWh; NewCredits, CreditsUsed and
// BankDrawn are in off-peak-equivalent kWh so they reconcile with the Bank.
type Settlement struct {
	Instantaneous      model.Energy
	InstantaneousValue float64

	NewCredits  float64
	FromNew     model.Energy
	FromBank    model.Energy
	CreditsUsed float64
	BankDrawn   float64
	Unserved    model.Energy

	// Abated is the gross tariff value of compensated energy, before Fio B.
	Abated        float64
	FioBCost      float64
	CreditSavings float64
	Savings       float64
}

// Offset is the compensated consumption, summed over periods.
func (s Settlement) Offset() model.Energy {
	return s.FromNew.Add(s.FromBank)
}

// Class is a consumer-class variant of the local credit engine.
type Class interface {
	Class() model.ConsumerClass
	// Offset settles one month against the incoming bank. fraction is the Fio B
	// schedule fraction for the current project year.
	Offset(m Month, bank Bank, fraction float64) Settlement
	// Carry applies a settlement to the bank.
	Carry(bank Bank, s Settlement) Bank
	// Scale returns a copy with every tariff component multiplied by f.
	Scale(f float64) Class
	// Equivalence converts off-peak-equivalent credits into peak kWh.
	Equivalence() float64
	// Tariff is the headline energy price used for reporting.
	Tariff() float64
	// Source is the tariff structure remote units see when they draw credits.
	Source() Source
}

// Source is the generating unit's off-peak/peak tariff structure. It sets how a
// remote allocation is split into off-peak and peak budgets.
type Source struct {
	OffPeakTariff float64
	PeakTariff    float64
}

// PeakShare is the fraction of an allocation budgeted for peak consumption.
// A flat structure splits evenly.
func (s Source) PeakShare() float64 {
	total := s.OffPeakTariff + s.PeakTariff
	if !(total > 0) {
		return 0.5
	}
	return s.PeakTariff / total
}

// carry is the shared bank update: incoming + new credits - credits used, never negative.
func carry(bank Bank, s Settlement) Bank {
	return Bank(math.Max(0, float64(bank)+s.NewCredits-s.CreditsUsed))
}

func clampShare(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

func nonNeg(x float64) float64 {
	return math.Max(0, x)
}
