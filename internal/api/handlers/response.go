package handlers

import (
	"pv-viability/internal/analysis"
	"pv-viability/internal/api/models"
	"pv-viability/internal/viability"
)

// BuildResponse renders a report with money, energy and ratios rounded for display.
func BuildResponse(rep *viability.Report, preset string, includeMonthly bool) models.CalculationResponse {
	res := rep.Result
	one := rep.YearOne
	resp := models.CalculationResponse{
		ID:     rep.ID,
		Status: "completed",
		Class:  string(rep.Class),
		Preset: preset,
		InitialSums: models.InitialSums{
			GenerationKWh:    models.KWh(one.Generation),
			ConsumptionKWh:   models.KWh(one.Consumption),
			Savings:          models.Money(one.Savings),
			LocalSavings:     models.Money(one.LocalSavings),
			RemoteSavings:    models.Money(one.RemoteSavings),
			BankEndKWh:       models.KWh(one.BankEnd),
			MonthlyAvgSaving: models.Money(one.Savings / 12),
		},
		CreditComparison: models.CreditComparison{
			AbatedValue:     models.Money(rep.Credit.Abated),
			FioBCost:        models.Money(rep.Credit.FioBCost),
			NetCreditValue:  models.Money(rep.Credit.NetCredit),
			FioBShare:       models.Ratio(rep.Credit.FioBShare),
			FioBFraction:    models.Ratio(rep.Credit.Fraction),
			LifetimeFioBFee: models.Money(rep.Credit.LifetimeFee),
		},
		Indicators: buildIndicators(rep.Indicators),
		ConsumptionBreakdown: models.ConsumptionBreakdown{
			TotalKWh:         models.KWh(rep.Breakdown.Total),
			InstantaneousKWh: models.KWh(rep.Breakdown.Instantaneous),
			CreditsKWh:       models.KWh(rep.Breakdown.Credits),
			UnservedKWh:      models.KWh(rep.Breakdown.Unserved),
			SelfSufficiency:  models.Ratio(rep.Breakdown.SelfSufficiency),
		},
		YearlySummary: make([]models.YearSummary, 0, len(res.Years)),
		CashFlow:      make([]models.CashFlowRow, 0, len(res.Years)),
	}

	for _, y := range res.Years {
		resp.YearlySummary = append(resp.YearlySummary, models.YearSummary{
			Year:             y.Year,
			CalendarYear:     y.CalendarYear,
			FioBFraction:     models.Ratio(y.FioBFraction),
			Tariff:           models.Ratio(y.Tariff),
			GenerationKWh:    models.KWh(y.Generation),
			ConsumptionKWh:   models.KWh(y.Consumption),
			InstantaneousKWh: models.KWh(y.Instantaneous),
			CreditsKWh:       models.KWh(y.CreditsOffset),
			RemoteKWh:        models.KWh(y.RemoteOffset),
			BankEndKWh:       models.KWh(y.BankEnd),
			FioBCost:         models.Money(y.FioBCost),
			Savings:          models.Money(y.Savings),
		})
		resp.CashFlow = append(resp.CashFlow, models.CashFlowRow{
			Year:                 y.Year,
			Savings:              models.Money(y.Savings),
			OMCost:               models.Money(y.OMCost),
			Salvage:              models.Money(y.Salvage),
			NetCashFlow:          models.Money(y.NetCashFlow),
			CumulativeNominal:    models.Money(y.CumulativeNominal),
			DiscountedCashFlow:   models.Money(y.DiscountedCashFlow),
			CumulativeDiscounted: models.Money(y.CumulativeDiscounted),
		})
	}

	if includeMonthly {
		resp.Monthly = make([]models.MonthRow, 0, len(res.Months))
		for _, m := range res.Months {
			row := models.MonthRow{
				Year:          m.Year,
				Month:         m.Month,
				GenerationKWh: models.KWh(m.Generation),
				ConsumptionKW: models.KWh(m.Consumption),
				Instantaneous: models.KWh(m.Instantaneous),
				FromNewKWh:    models.KWh(m.FromNew),
				FromBankKWh:   models.KWh(m.FromBank),
				BankEndKWh:    models.KWh(m.BankOut),
				FioBCost:      models.Money(m.FioBCost),
				Savings:       models.Money(m.Savings),
			}
			for _, r := range m.Remote {
				if !r.Enabled {
					continue
				}
				row.Remote = append(row.Remote, models.RemoteMonthEntry{
					Class:        string(r.Class),
					Name:         r.Name,
					AllocatedKWh: models.KWh(r.Allocated),
					UsedKWh:      models.KWh(r.CreditsUsed),
					Savings:      models.Money(r.Savings),
				})
			}
			resp.Monthly = append(resp.Monthly, row)
		}
	}

	for _, p := range rep.Sensitivity {
		resp.Sensitivity = append(resp.Sensitivity, models.SensitivityPoint{
			Multiplier:   p.Multiplier,
			NPV:          models.Money(p.NPV),
			IRR:          irrValue(p.IRR),
			PaybackYears: paybackValue(p.Payback),
		})
	}
	return resp
}

func buildIndicators(ind analysis.Indicators) models.Indicators {
	out := models.Indicators{
		NPV:                     models.Money(ind.NPV),
		IRR:                     irrValue(ind.IRR),
		IRRStatus:               models.StatusOK,
		PaybackYears:            paybackValue(ind.SimplePayback),
		PaybackStatus:           models.StatusOK,
		DiscountedPaybackYears:  paybackValue(ind.DiscountedPayback),
		DiscountedPaybackStatus: models.StatusOK,
		LCOE:                    models.Ratio(ind.LCOE),
		ROI:                     models.Ratio(ind.ROI),
		ProfitabilityIndex:      models.Ratio(ind.ProfitabilityIdx),
		TotalSavings:            models.Money(ind.TotalSavings),
	}
	if out.IRR == nil {
		out.IRRStatus = models.StatusIndeterminate
	}
	if out.PaybackYears == nil {
		out.PaybackStatus = models.StatusBeyondHorizon
	}
	if out.DiscountedPaybackYears == nil {
		out.DiscountedPaybackStatus = models.StatusBeyondHorizon
	}
	return out
}

func irrValue(r analysis.IRRResult) *float64 {
	if !r.Converged {
		return nil
	}
	v := models.Ratio(r.Rate)
	return &v
}

func paybackValue(p analysis.Payback) *float64 {
	if !p.Reached {
		return nil
	}
	v := models.Ratio(p.Years)
	return &v
}
