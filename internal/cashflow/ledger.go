package cashflow

import (
	"pv-viability/internal/credit"
	"pv-viability/internal/model"
)

// MonthRow is one simulated month. Energy in kWh, money in R$.
type MonthRow struct {
	Year         int
	Month        int // 1 = January
	CalendarYear int
	FioBFraction float64

	Generation  float64
	Consumption float64

	Instantaneous float64
	NewCredits    float64
	FromNew       float64
	FromBank      float64
	RemoteOffset  float64
	Unserved      float64

	BankIn  float64
	BankOut float64

	Abated        float64
	FioBCost      float64
	LocalSavings  float64
	RemoteSavings float64
	Savings       float64

	Remote []credit.RemoteSettlement
}

// YearRow aggregates twelve months and carries the cash-flow columns.
type YearRow struct {
	Year         int
	CalendarYear int
	FioBFraction float64
	Tariff       float64

	Generation    float64
	Consumption   float64
	Instantaneous float64
	CreditsOffset float64
	RemoteOffset  float64
	Unserved      float64
	BankEnd       float64

	Abated        float64
	FioBCost      float64
	LocalSavings  float64
	RemoteSavings float64
	Savings       float64

	OMCost  float64
	Salvage float64

	NetCashFlow          float64
	CumulativeNominal    float64
	DiscountFactor       float64
	DiscountedCashFlow   float64
	CumulativeDiscounted float64
}

// Result is the completed, immutable simulation.
type Result struct {
	Class      model.ConsumerClass
	Financials model.ProjectFinancials
	Years      []YearRow
	Months     []MonthRow
	FinalBank  float64
}

// NetFlows returns the nominal net cash flow of years 1..N.
func (r *Result) NetFlows() []float64 {
	out := make([]float64, len(r.Years))
	for i, y := range r.Years {
		out[i] = y.NetCashFlow
	}
	return out
}

// FirstYear returns the year-1 row, or a zero row for an empty result.
func (r *Result) FirstYear() YearRow {
	if len(r.Years) == 0 {
		return YearRow{}
	}
	return r.Years[0]
}

// MonthsOf returns the monthly rows of project year y.
func (r *Result) MonthsOf(y int) []MonthRow {
	out := make([]MonthRow, 0, model.MonthsPerYear)
	for _, m := range r.Months {
		if m.Year == y {
			out = append(out, m)
		}
	}
	return out
}
