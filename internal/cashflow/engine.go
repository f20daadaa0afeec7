package cashflow

import (
	"errors"
	"fmt"
	"math"

	"pv-viability/internal/credit"
	"pv-viability/internal/model"
)

var errNotFinite = errors.New("value is not finite")

type Builder struct{}

func New() *Builder { return &Builder{} }

// Run simulates years 1..N month by month. The bank carries across month and
// year boundaries; each year's row is final once written.
func (b *Builder) Run(s Scenario) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	fin := s.Financials
	class := s.Class.Class()

	years := make([]YearRow, 0, fin.HorizonYears)
	months := make([]MonthRow, 0, fin.HorizonYears*model.MonthsPerYear)
	remotes := credit.NewPipeline(s.Remotes...)

	bank := s.InitialBank
	cumNominal := -fin.Capex
	cumDiscounted := -fin.Capex

	for y := 1; y <= fin.HorizonYears; y++ {
		tariffFactor := fin.TariffFactor(y)
		unit := s.Class.Scale(tariffFactor)
		pipe := remotes.Scale(tariffFactor)
		gen := s.Generation.Scale(fin.DegradationFactor(y))
		fraction := s.Schedule.FractionForProjectYear(y)

		row := YearRow{
			Year:         y,
			CalendarYear: s.Schedule.CalendarYear(y),
			FioBFraction: fraction,
			Tariff:       unit.Tariff(),
		}

		for m := 0; m < model.MonthsPerYear; m++ {
			in := credit.Month{Index: m, Generation: gen.At(m), Consumption: s.Consumption.At(m)}
			bankIn := bank

			local := unit.Offset(in, bank, fraction)
			bank = unit.Carry(bank, local)
			var rs []credit.RemoteSettlement
			bank, rs = pipe.Run(bank, unit.Source(), m, fraction)

			mr := MonthRow{
				Year:          y,
				Month:         m + 1,
				CalendarYear:  row.CalendarYear,
				FioBFraction:  fraction,
				Generation:    in.Generation.Sum(),
				Consumption:   in.Consumption.Sum(),
				Instantaneous: local.Instantaneous.Sum(),
				NewCredits:    local.NewCredits,
				FromNew:       local.FromNew.Sum(),
				FromBank:      local.FromBank.Sum(),
				Unserved:      local.Unserved.Sum(),
				BankIn:        bankIn.KWh(),
				BankOut:       bank.KWh(),
				Abated:        local.Abated,
				FioBCost:      local.FioBCost,
				LocalSavings:  local.Savings,
				Remote:        rs,
			}
			for _, r := range rs {
				mr.RemoteOffset += r.Offset.Sum()
				mr.Abated += r.Abated
				mr.FioBCost += r.FioBCost
				mr.RemoteSavings += r.Savings
			}
			mr.Savings = mr.LocalSavings + mr.RemoteSavings

			if !finite(mr.Generation, mr.Consumption, mr.Savings, mr.BankOut, mr.FioBCost) {
				return nil, &model.CalculationError{Class: class, Year: y, Month: m + 1, Err: errNotFinite}
			}
			months = append(months, mr)

			row.Generation += mr.Generation
			row.Consumption += mr.Consumption
			row.Instantaneous += mr.Instantaneous
			row.CreditsOffset += mr.FromNew + mr.FromBank
			row.RemoteOffset += mr.RemoteOffset
			row.Unserved += mr.Unserved
			row.Abated += mr.Abated
			row.FioBCost += mr.FioBCost
			row.LocalSavings += mr.LocalSavings
			row.RemoteSavings += mr.RemoteSavings
		}

		row.BankEnd = bank.KWh()
		row.Savings = row.LocalSavings + row.RemoteSavings
		row.OMCost = fin.OMCost(y)
		row.Salvage = fin.Salvage(y)
		row.NetCashFlow = row.Savings - row.OMCost + row.Salvage
		row.DiscountFactor = fin.DiscountFactor(y)
		row.DiscountedCashFlow = row.NetCashFlow * row.DiscountFactor

		cumNominal += row.NetCashFlow
		cumDiscounted += row.DiscountedCashFlow
		row.CumulativeNominal = cumNominal
		row.CumulativeDiscounted = cumDiscounted

		if !finite(row.NetCashFlow, row.DiscountedCashFlow) {
			return nil, &model.CalculationError{Class: class, Year: y, Err: fmt.Errorf("cash flow: %w", errNotFinite)}
		}
		years = append(years, row)
	}

	return &Result{
		Class:      class,
		Financials: fin,
		Years:      years,
		Months:     months,
		FinalBank:  bank.KWh(),
	}, nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
