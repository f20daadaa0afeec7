package credit

import (
	"math"
	"sort"

	"pv-viability/internal/model"
)

// RemoteSettlement is one remote unit's share of a month.
type RemoteSettlement struct {
	Class   model.ConsumerClass
	Name    string
	Enabled bool

	// Allocated is the credit budget granted this month, off-peak-equivalent kWh.
	Allocated float64
	// OffPeakBudget and PeakBudget split Allocated by the generator's tariff structure.
	OffPeakBudget float64
	PeakBudget    float64
	// CreditsUsed is what actually left the bank.
	CreditsUsed float64
	Offset      model.Energy
	Unserved    model.Energy

	Abated   float64
	FioBCost float64
	Savings  float64
}

// RemoteStep is one remote consumer unit drawing from the generator's bank.
type RemoteStep interface {
	Class() model.ConsumerClass
	Label() string
	IsEnabled() bool
	// Allocate draws this unit's share of base from bank for the given month and
	// returns the reduced bank. src is the generating unit's tariff structure.
	Allocate(bank, base Bank, src Source, month int, fraction float64) (Bank, RemoteSettlement)
	Scale(f float64) RemoteStep
}

// RemoteB is a Grupo B remote unit.
type RemoteB struct {
	Name        string
	Enabled     bool
	Share       float64 // 0..1 of the post-local bank
	Consumption model.MonthlySeries
	TariffRate  float64
	FioB        float64
}

var _ RemoteStep = RemoteB{}

func (r RemoteB) Class() model.ConsumerClass { return model.ClassGrupoB }
func (r RemoteB) Label() string              { return r.Name }
func (r RemoteB) IsEnabled() bool            { return r.Enabled }

func (r RemoteB) Scale(f float64) RemoteStep {
	r.TariffRate *= f
	r.FioB *= f
	return r
}

func (r RemoteB) Allocate(bank, base Bank, _ Source, month int, fraction float64) (Bank, RemoteSettlement) {
	out := RemoteSettlement{Class: r.Class(), Name: r.Name, Enabled: r.Enabled}
	if !r.Enabled {
		return bank, out
	}
	out.Allocated = math.Min(float64(base)*clampShare(r.Share), float64(bank))
	out.OffPeakBudget = out.Allocated
	cons := r.Consumption[month]
	bank, used := bank.Withdraw(math.Min(out.Allocated, cons))

	out.CreditsUsed = used
	out.Offset = model.Energy{OffPeak: used}
	out.Unserved = model.Energy{OffPeak: nonNeg(cons - used)}
	out.Abated = used * r.TariffRate
	out.FioBCost = used * r.FioB * fraction
	out.Savings = out.Abated - out.FioBCost
	return bank, out
}

// RemoteA is a Grupo A (Verde or Azul) remote unit. Credits arrive as
// off-peak-equivalent kWh, are split into off-peak and peak budgets by the
// generator's tariff structure, and the peak budget converts with the unit's
// own equivalence factor.
type RemoteA struct {
	Name        string
	Enabled     bool
	Share       float64
	Modality    model.Modality
	Consumption model.PeriodSeries
	OffPeak     model.PeriodRate
	Peak        model.PeriodRate
}

var _ RemoteStep = RemoteA{}

func (r RemoteA) Class() model.ConsumerClass { return r.Modality.Class() }
func (r RemoteA) Label() string              { return r.Name }
func (r RemoteA) IsEnabled() bool            { return r.Enabled }

func (r RemoteA) Equivalence() float64 {
	return model.EquivalenceFactor(r.Modality, r.OffPeak, r.Peak)
}

func (r RemoteA) Scale(f float64) RemoteStep {
	r.OffPeak = r.OffPeak.Scale(f)
	r.Peak = r.Peak.Scale(f)
	return r
}

func (r RemoteA) Allocate(bank, base Bank, src Source, month int, fraction float64) (Bank, RemoteSettlement) {
	out := RemoteSettlement{Class: r.Class(), Name: r.Name, Enabled: r.Enabled}
	if !r.Enabled {
		return bank, out
	}
	out.Allocated = math.Min(float64(base)*clampShare(r.Share), float64(bank))
	out.PeakBudget = out.Allocated * src.PeakShare()
	out.OffPeakBudget = out.Allocated - out.PeakBudget

	cons := r.Consumption.At(month)
	eq := r.Equivalence()
	needOff := cons.OffPeak
	needPeak := 0.0 // off-peak-equivalent kWh
	if eq > 0 {
		needPeak = cons.Peak / eq
	}

	// Each budget serves its own period first; what is left covers the other one.
	useOff := math.Min(out.OffPeakBudget, needOff)
	usePeak := math.Min(out.PeakBudget, needPeak)
	spillToPeak := math.Min(out.OffPeakBudget-useOff, needPeak-usePeak)
	spillToOff := math.Min(out.PeakBudget-usePeak, needOff-useOff)
	useOff += spillToOff
	usePeak += spillToPeak
	bank, used := bank.Withdraw(useOff + usePeak)

	out.CreditsUsed = used
	out.Offset = model.Energy{OffPeak: useOff, Peak: usePeak * eq}
	out.Unserved = model.Energy{
		OffPeak: nonNeg(cons.OffPeak - out.Offset.OffPeak),
		Peak:    nonNeg(cons.Peak - out.Offset.Peak),
	}
	out.Abated = out.Offset.OffPeak*r.OffPeak.Tariff() + out.Offset.Peak*r.Peak.Tariff()
	out.FioBCost = (out.Offset.OffPeak*r.OffPeak.FioB + out.Offset.Peak*r.Peak.FioB) * fraction
	out.Savings = out.Abated - out.FioBCost
	return bank, out
}

// Pipeline runs remote steps in the fixed order B, A-Verde, A-Azul over a single bank.
type Pipeline struct {
	steps []RemoteStep
}

// NewPipeline orders steps by class; steps of the same class keep their input order.
func NewPipeline(steps ...RemoteStep) Pipeline {
	ordered := make([]RemoteStep, len(steps))
	copy(ordered, steps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Class().Rank() < ordered[j].Class().Rank()
	})
	return Pipeline{steps: ordered}
}

func (p Pipeline) Len() int { return len(p.steps) }

// Steps returns the ordered steps.
func (p Pipeline) Steps() []RemoteStep {
	out := make([]RemoteStep, len(p.steps))
	copy(out, p.steps)
	return out
}

// Scale escalates every step's tariffs.
func (p Pipeline) Scale(f float64) Pipeline {
	scaled := make([]RemoteStep, len(p.steps))
	for i, s := range p.steps {
		scaled[i] = s.Scale(f)
	}
	return Pipeline{steps: scaled}
}

// Run passes the post-local bank through every step. Shares apply to the bank as
// it was before any remote allocation; each step can only take what is left.
func (p Pipeline) Run(bank Bank, src Source, month int, fraction float64) (Bank, []RemoteSettlement) {
	if len(p.steps) == 0 {
		return bank, nil
	}
	base := bank
	out := make([]RemoteSettlement, 0, len(p.steps))
	for _, step := range p.steps {
		var rs RemoteSettlement
		bank, rs = step.Allocate(bank, base, src, month, fraction)
		out = append(out, rs)
	}
	return bank, out
}

// TotalSavings sums savings across settlements.
func TotalSavings(rs []RemoteSettlement) float64 {
	total := 0.0
	for _, r := range rs {
		total += r.Savings
	}
	return total
}
