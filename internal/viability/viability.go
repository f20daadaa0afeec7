// Package viability runs one complete calculation: the monthly credit
// simulation, the yearly cash flow and the indicators derived from it.
package viability

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"pv-viability/internal/analysis"
	"pv-viability/internal/cashflow"
	"pv-viability/internal/model"
)

type Options struct {
	// Multipliers drives the tariff sweep; empty uses analysis.DefaultMultipliers.
	Multipliers []float64
	// Sensitivity forces the sweep on Grupo B; Grupo A always gets it.
	Sensitivity bool
	Logger      *slog.Logger
}

// YearOne aggregates the first project year.
type YearOne struct {
	Generation    float64
	Consumption   float64
	Instantaneous float64
	CreditsOffset float64
	RemoteOffset  float64
	Unserved      float64
	BankEnd       float64
	Savings       float64
	LocalSavings  float64
	RemoteSavings float64
}

// CreditComparison contrasts what compensated credits would have cost on the
// bill (abated) with the Fio B charged on them.
type CreditComparison struct {
	Abated      float64
	FioBCost    float64
	NetCredit   float64
	FioBShare   float64
	Fraction    float64
	LifetimeFee float64
}

// ConsumptionBreakdown splits year-1 consumption by how it was served.
type ConsumptionBreakdown struct {
	Total           float64
	Instantaneous   float64
	Credits         float64
	Unserved        float64
	SelfSufficiency float64
}

type Report struct {
	ID          string
	Class       model.ConsumerClass
	YearOne     YearOne
	Credit      CreditComparison
	Breakdown   ConsumptionBreakdown
	Indicators  analysis.Indicators
	Sensitivity []analysis.SensitivityPoint
	Result      *cashflow.Result
}

type Evaluator struct {
	builder *cashflow.Builder
	opts    Options
	log     *slog.Logger
}

func NewEvaluator(opts Options) *Evaluator {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{
		builder: cashflow.New(),
		opts:    opts,
		log:     log.With(slog.String("module", "viability")),
	}
}

// Evaluate runs s and, for Grupo A or when requested, the tariff sweep.
func (e *Evaluator) Evaluate(s cashflow.Scenario) (*Report, error) {
	res, err := e.builder.Run(s)
	if err != nil {
		return nil, err
	}
	ind, err := analysis.Compute(res)
	if err != nil {
		return nil, &model.CalculationError{Class: res.Class, Err: err}
	}

	rep := &Report{
		ID:         uuid.NewString(),
		Class:      res.Class,
		Indicators: ind,
		Result:     res,
	}
	rep.YearOne, rep.Breakdown = summarizeYearOne(res.FirstYear())
	rep.Credit = compareCredits(res)

	if res.Class.IsGrupoA() || e.opts.Sensitivity {
		rep.Sensitivity, err = analysis.Sensitivity(e.opts.Multipliers, func(m float64) (analysis.Indicators, error) {
			r, err := e.builder.Run(s.WithTariffMultiplier(m))
			if err != nil {
				return analysis.Indicators{}, err
			}
			return analysis.Compute(r)
		})
		if err != nil {
			return nil, fmt.Errorf("sensitivity: %w", err)
		}
	}

	e.log.Debug("calculation complete",
		slog.String("id", rep.ID),
		slog.String("class", string(rep.Class)),
		slog.Int("horizon", len(res.Years)),
		slog.Float64("npv", ind.NPV),
		slog.Bool("irr_converged", ind.IRR.Converged),
	)
	return rep, nil
}

func summarizeYearOne(y cashflow.YearRow) (YearOne, ConsumptionBreakdown) {
	one := YearOne{
		Generation:    y.Generation,
		Consumption:   y.Consumption,
		Instantaneous: y.Instantaneous,
		CreditsOffset: y.CreditsOffset,
		RemoteOffset:  y.RemoteOffset,
		Unserved:      y.Unserved,
		BankEnd:       y.BankEnd,
		Savings:       y.Savings,
		LocalSavings:  y.LocalSavings,
		RemoteSavings: y.RemoteSavings,
	}
	b := ConsumptionBreakdown{
		Total:         y.Consumption,
		Instantaneous: y.Instantaneous,
		Credits:       y.CreditsOffset,
		Unserved:      y.Unserved,
	}
	if y.Consumption > 0 {
		b.SelfSufficiency = (y.Instantaneous + y.CreditsOffset) / y.Consumption
	}
	return one, b
}

func compareCredits(res *cashflow.Result) CreditComparison {
	y := res.FirstYear()
	c := CreditComparison{
		Abated:    y.Abated,
		FioBCost:  y.FioBCost,
		NetCredit: y.Abated - y.FioBCost,
		Fraction:  y.FioBFraction,
	}
	if y.Abated > 0 {
		c.FioBShare = y.FioBCost / y.Abated
	}
	for _, row := range res.Years {
		c.LifetimeFee += row.FioBCost
	}
	return c
}
