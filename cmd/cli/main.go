package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"pv-viability/internal/api/handlers"
	"pv-viability/internal/api/models"
	"pv-viability/internal/cashflow"
	"pv-viability/internal/config"
	"pv-viability/internal/data"
	"pv-viability/internal/logging"
	"pv-viability/internal/viability"

	"github.com/gin-gonic/gin/binding"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "presets":
		cmdPresets(os.Args[2:])
	case "schedule":
		cmdSchedule(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --class grupo_b --request examples/grupo_b.json --years-out results/years.csv")
	fmt.Println("  cli presets --dir presets")
	fmt.Println("  cli schedule --base-year 2025 --years 10")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate reads the same JSON body as POST /api/v1/grupo-b or /api/v1/grupo-a")
	fmt.Println("  - presets loads every YAML preset and exits 1 if any is invalid")
}

func loadConfig(path string) *config.AppConfig {
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	class := fs.String("class", "grupo_b", "Request shape: grupo_b or grupo_a")
	reqPath := fs.String("request", "", "Path to request JSON")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	presetDir := fs.String("presets", "", "Preset directory (overrides config)")
	yearsOut := fs.String("years-out", "", "Optional yearly CSV output path")
	monthsOut := fs.String("months-out", "", "Optional monthly CSV output path")
	reportOut := fs.String("report", "", "Optional JSON report output path")
	_ = fs.Parse(args)

	if *reqPath == "" {
		fmt.Println("--request is required")
		os.Exit(2)
	}

	cfg := loadConfig(*cfgPath)
	logger := logging.New(os.Stderr, cfg.Logging.SlogLevel(), cfg.Logging.Format)

	dir := cfg.Presets.Dir
	if *presetDir != "" {
		dir = *presetDir
	}
	var catalog *data.Catalog
	if dir != "" {
		catalog = data.NewCatalog(dir, logger, nil)
		if err := catalog.Reload(); err != nil {
			logger.Warn("some presets failed to load", slog.Any("error", err))
		}
	}
	calc := handlers.NewCalculationHandler(cfg.Calculation, catalog, nil, logger)

	var (
		s       cashflow.Scenario
		opts    models.CalculationOptions
		preset  string
		monthly bool
		err     error
	)
	switch strings.ToLower(*class) {
	case "grupo_b", "b":
		var req models.GrupoBRequest
		mustDecode(*reqPath, &req)
		s, err = calc.GrupoBScenario(req)
		opts, preset, monthly = req.Options, req.Preset, req.Options.IncludeMonthly
	case "grupo_a", "a":
		var req models.GrupoARequest
		mustDecode(*reqPath, &req)
		s, err = calc.GrupoAScenario(req)
		opts, preset, monthly = req.Options, req.Preset, req.Options.IncludeMonthly
	default:
		fmt.Printf("unsupported class %q\n", *class)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid request: %v\n", err)
		os.Exit(1)
	}

	multipliers := opts.SensitivityMultipliers
	if len(multipliers) == 0 {
		multipliers = cfg.Calculation.SensitivityMultipliers
	}
	rep, err := viability.NewEvaluator(viability.Options{
		Multipliers: multipliers,
		Sensitivity: opts.Sensitivity,
		Logger:      logger,
	}).Evaluate(s)
	if err != nil {
		panic(err)
	}

	if *yearsOut != "" {
		if err := cashflow.WriteYearsCSV(*yearsOut, rep.Result.Years); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d years to %s\n", len(rep.Result.Years), *yearsOut)
	}
	if *monthsOut != "" {
		if err := cashflow.WriteMonthsCSV(*monthsOut, rep.Result.Months); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d months to %s\n", len(rep.Result.Months), *monthsOut)
	}
	if *reportOut != "" {
		if err := data.SaveJSON(*reportOut, handlers.BuildResponse(rep, preset, monthly)); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote report to %s\n", *reportOut)
	}

	printSummary(rep)
}

// mustDecode reads a request body and applies the same field rules as the API.
func mustDecode(path string, v any) {
	if err := data.LoadJSON(path, v); err != nil {
		panic(err)
	}
	if err := binding.Validator.ValidateStruct(v); err != nil {
		fmt.Fprintf(os.Stderr, "invalid request: %v\n", err)
		os.Exit(1)
	}
}

func printSummary(rep *viability.Report) {
	ind := rep.Indicators
	fmt.Printf("Class=%s Year-1 savings=R$%.2f Bank end=%.1f kWh\n", rep.Class, rep.YearOne.Savings, rep.YearOne.BankEnd)
	fmt.Printf("NPV=R$%.2f LCOE=R$%.4f/kWh ROI=%.2f%% PI=%.3f\n", ind.NPV, ind.LCOE, ind.ROI*100, ind.ProfitabilityIdx)
	if ind.IRR.Converged {
		fmt.Printf("IRR=%.2f%%\n", ind.IRR.Rate*100)
	} else {
		fmt.Printf("IRR=n/a (%s)\n", ind.IRR.Reason)
	}
	if ind.SimplePayback.Reached {
		fmt.Printf("Payback=%.2f years", ind.SimplePayback.Years)
	} else {
		fmt.Print("Payback=beyond horizon")
	}
	if ind.DiscountedPayback.Reached {
		fmt.Printf(" Discounted=%.2f years\n", ind.DiscountedPayback.Years)
	} else {
		fmt.Println(" Discounted=beyond horizon")
	}

	if len(rep.Sensitivity) > 0 {
		fmt.Printf("%-6s %-14s %-8s\n", "mult", "npv", "irr")
		for _, p := range rep.Sensitivity {
			irr := "n/a"
			if p.IRR.Converged {
				irr = fmt.Sprintf("%.2f%%", p.IRR.Rate*100)
			}
			fmt.Printf("%-6.2f %-14.2f %-8s\n", p.Multiplier, p.NPV, irr)
		}
	}
}

func cmdPresets(args []string) {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	dir := fs.String("dir", "presets", "Preset directory")
	_ = fs.Parse(args)

	catalog := data.NewCatalog(*dir, logging.Discard(), nil)
	loadErr := catalog.Reload()

	fmt.Printf("%-24s %-14s %-14s %-10s %-8s\n", "name", "class", "distributor", "tariff", "fio_b")
	for _, p := range catalog.List() {
		tariff, fioB := p.Tariff, p.FioB
		if p.ConsumerClass().IsGrupoA() {
			tariff, fioB = p.OffPeak.TE+p.OffPeak.TUSD, p.OffPeak.FioB
		}
		fmt.Printf("%-24s %-14s %-14s %-10.4f %-8.4f\n", p.Name, p.Class, p.Distributor, tariff, fioB)
	}
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "errors:\n%v\n", loadErr)
		os.Exit(1)
	}
}

func cmdSchedule(args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	baseYear := fs.Int("base-year", 0, "Calendar year of project year 1 (0 = config)")
	years := fs.Int("years", 10, "Number of project years to print")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	sched, err := cfg.Calculation.Schedule(*baseYear)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%-6s %-10s %-8s\n", "year", "calendar", "fio_b")
	for y := 1; y <= *years; y++ {
		fmt.Printf("%-6d %-10d %-8.2f\n", y, sched.CalendarYear(y), sched.FractionForProjectYear(y))
	}
}
