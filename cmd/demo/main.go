package main

import (
	"flag"
	"fmt"

	"pv-viability/internal/analysis"
	"pv-viability/internal/cashflow"
	"pv-viability/internal/config"
	"pv-viability/internal/credit"
	"pv-viability/internal/logging"
	"pv-viability/internal/model"
	"pv-viability/internal/viability"
)

// Demo:
// - Build a residential Grupo B system or an Azul industrial plant with built-in numbers
// - Optionally take tariffs from a YAML preset
// - Print the yearly cash flow and the indicators to show how the pieces fit together
func main() {
	class := flag.String("class", "grupo_b", "Demo scenario: grupo_b or grupo_a")
	presetPath := flag.String("preset", "", "Optional YAML preset supplying tariffs")
	years := flag.Int("years", 25, "Project horizon in years")
	outCSV := flag.String("out", "", "Optional path to write the yearly CSV (e.g. results/years.csv)")
	flag.Parse()

	sched, err := model.NewFioBSchedule(2025, model.Law14300Ramp(), model.BeforeFirstZero)
	if err != nil {
		panic(err)
	}

	var preset *config.Preset
	if *presetPath != "" {
		preset, err = config.LoadPreset(*presetPath)
		if err != nil {
			panic(err)
		}
		sched, err = preset.Schedule.ToModel(model.Law14300Ramp(), 2025)
		if err != nil {
			panic(err)
		}
	}

	var s cashflow.Scenario
	switch *class {
	case "grupo_b":
		s = grupoBDemo(preset)
	case "grupo_a":
		s = grupoADemo(preset)
	default:
		panic(fmt.Errorf("unsupported class in demo: %q", *class))
	}
	s.Schedule = sched
	s.Financials.HorizonYears = *years

	rep, err := viability.NewEvaluator(viability.Options{
		Multipliers: analysis.DefaultMultipliers,
		Sensitivity: true,
		Logger:      logging.Discard(),
	}).Evaluate(s)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Class=%s Capex=R$%.2f Horizon=%d years\n\n", rep.Class, s.Financials.Capex, *years)
	for _, y := range rep.Result.Years {
		fmt.Printf(
			"%d fio_b=%.2f  gen=%9.1f  cons=%9.1f  bank=%8.1f  fee=%9.2f  savings=%10.2f  net=%10.2f  cum=%11.2f\n",
			y.CalendarYear,
			y.FioBFraction,
			y.Generation,
			y.Consumption,
			y.BankEnd,
			y.FioBCost,
			y.Savings,
			y.NetCashFlow,
			y.CumulativeNominal,
		)
	}

	if *outCSV != "" {
		if err := cashflow.WriteYearsCSV(*outCSV, rep.Result.Years); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	ind := rep.Indicators
	fmt.Printf("\nNPV=R$%.2f  LCOE=R$%.4f/kWh  ROI=%.1f%%  PI=%.2f\n", ind.NPV, ind.LCOE, ind.ROI*100, ind.ProfitabilityIdx)
	if ind.IRR.Converged {
		fmt.Printf("IRR=%.2f%%", ind.IRR.Rate*100)
	} else {
		fmt.Printf("IRR=n/a (%s)", ind.IRR.Reason)
	}
	if ind.SimplePayback.Reached {
		fmt.Printf("  Payback=%.2f years\n", ind.SimplePayback.Years)
	} else {
		fmt.Println("  Payback=beyond horizon")
	}
	for _, p := range rep.Sensitivity {
		fmt.Printf("  tariff x%.2f  NPV=R$%.2f\n", p.Multiplier, p.NPV)
	}
}

// Monthly kWh for a ~6 kWp array in Minas Gerais.
var residentialGeneration = []float64{720, 700, 690, 640, 590, 560, 600, 660, 690, 720, 700, 710}

func grupoBDemo(p *config.Preset) cashflow.Scenario {
	gen, err := model.SeriesFromSlice(residentialGeneration)
	if err != nil {
		panic(err)
	}
	class := credit.GrupoB{TariffRate: 0.92, FioB: 0.28, Simultaneity: 0.30}
	if p != nil && p.ConsumerClass() == model.ClassGrupoB {
		class.TariffRate, class.FioB = p.Tariff, p.FioB
	}
	return cashflow.Scenario{
		Financials: model.ProjectFinancials{
			Capex:           22000,
			DiscountRate:    0.10,
			TariffInflation: 0.05,
			Degradation:     0.005,
			OMFraction:      0.01,
		},
		Class:       class,
		Generation:  model.SingleStream(gen),
		Consumption: model.SingleStream(model.FlatSeries(550)),
	}
}

func grupoADemo(p *config.Preset) cashflow.Scenario {
	gen, err := model.SeriesFromSlice(residentialGeneration)
	if err != nil {
		panic(err)
	}
	class := credit.GrupoA{
		Modality:     model.ModalityBlue,
		OffPeak:      model.PeriodRate{TE: 0.32, TUSD: 0.11, FioB: 0.09},
		Peak:         model.PeriodRate{TE: 0.52, TUSD: 0.38, FioB: 0.24},
		Simultaneity: 0.45,
	}
	if p != nil && p.ConsumerClass().IsGrupoA() {
		class.OffPeak, class.Peak = p.OffPeak.ToModel(), p.Peak.ToModel()
		if p.ConsumerClass() == model.ClassGrupoAGreen {
			class.Modality = model.ModalityGreen
		}
	}
	return cashflow.Scenario{
		Financials: model.ProjectFinancials{
			Capex:           420000,
			DiscountRate:    0.12,
			TariffInflation: 0.045,
			Degradation:     0.005,
			OMFraction:      0.008,
			SalvageFraction: 0.05,
		},
		Class:       class,
		Generation:  model.SingleStream(gen.Scale(20)),
		Consumption: model.PeriodSeries{
			OffPeak: model.FlatSeries(11000),
			Peak:    model.FlatSeries(1800),
		},
	}
}
