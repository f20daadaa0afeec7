package handlers

import (
	"fmt"

	"pv-viability/internal/api/models"
	"pv-viability/internal/cashflow"
	"pv-viability/internal/config"
	"pv-viability/internal/credit"
	"pv-viability/internal/model"
)

// errUnknownPreset is returned when a request names a preset the catalog lacks.
type errUnknownPreset string

func (e errUnknownPreset) Error() string { return fmt.Sprintf("unknown preset %q", string(e)) }

func financials(f models.FinancialsRequest) model.ProjectFinancials {
	return model.ProjectFinancials{
		Capex:           f.Capex,
		HorizonYears:    f.HorizonYears,
		DiscountRate:    f.DiscountRate,
		TariffInflation: f.TariffInflation,
		Degradation:     f.Degradation,
		SalvageFraction: f.SalvageFraction,
		OMFraction:      f.OMFraction,
		OMInflation:     f.OMInflation,
	}
}

func rate(r models.RateRequest) config.RateConfig {
	return config.RateConfig{TE: r.TE, TUSD: r.TUSD, FioB: r.FioB}
}

func scheduleOverride(s models.ScheduleRequest) config.ScheduleConfig {
	return config.ScheduleConfig{BaseYear: s.BaseYear, Fractions: s.Fractions, BeforeFirst: s.BeforeFirst}
}

// resolvePreset layers configured defaults, the named catalog preset and the
// request's own fields, later layers winning on non-zero values.
func (h *CalculationHandler) resolvePreset(name string, override config.Preset) (config.Preset, error) {
	fractions, err := h.calc.Fractions()
	if err != nil {
		return config.Preset{}, err
	}
	merged := config.Preset{Schedule: config.ScheduleConfig{
		BaseYear:    h.calc.BaseYear,
		Fractions:   fractions,
		BeforeFirst: h.calc.BeforeFirst,
	}}
	if name != "" {
		p, ok := h.presets.Get(name)
		if !ok {
			return config.Preset{}, errUnknownPreset(name)
		}
		merged = config.MergePreset(merged, p)
	}
	return config.MergePreset(merged, override), nil
}

func buildSchedule(p config.Preset, errs *models.ValidationErrors) model.FioBSchedule {
	s, err := p.Schedule.ToModel(model.Law14300Ramp(), 0)
	if err != nil {
		errs.Add("fio_b_schedule", "%v", err)
	}
	return s
}

func series(field string, values []float64, errs *models.ValidationErrors) model.MonthlySeries {
	s, err := model.SeriesFromSlice(values)
	if err != nil {
		errs.Add(field, "%v", err)
	}
	return s
}

// GrupoBScenario resolves a Grupo B request into an engine scenario.
func (h *CalculationHandler) GrupoBScenario(req models.GrupoBRequest) (cashflow.Scenario, error) {
	p, err := h.resolvePreset(req.Preset, config.Preset{
		Tariff:   req.Tariff,
		FioB:     req.FioB,
		Schedule: scheduleOverride(req.Schedule),
	})
	if err != nil {
		return cashflow.Scenario{}, err
	}

	var errs models.ValidationErrors
	if !(p.Tariff > 0) {
		errs.Add("tariff", "must be > 0 (set it or name a preset)")
	}
	if p.Class != "" && model.ConsumerClass(p.Class) != model.ClassGrupoB {
		errs.Add("preset", "preset %q is for %s, not grupo_b", p.Name, p.Class)
	}
	s := cashflow.Scenario{
		Financials: financials(req.Financials),
		Schedule:   buildSchedule(p, &errs),
		Class: credit.GrupoB{
			TariffRate:   p.Tariff,
			FioB:         p.FioB,
			Simultaneity: req.Simultaneity,
		},
		Generation:  model.SingleStream(series("generation", req.Generation, &errs)),
		Consumption: model.SingleStream(series("consumption", req.Consumption, &errs)),
		InitialBank: credit.Bank(req.InitialBankKWh),
	}
	s.Remotes = remoteSteps(req.Remotes, &errs)
	if err := models.ValidateShares(req.LocalShare, req.Remotes.EnabledShares()); err != nil {
		errs = append(errs, err.(models.ValidationErrors)...)
	}
	if err := s.Financials.Validate(); err != nil {
		errs.Add("financials", "%v", err)
	}
	return s, errs.Err()
}

// GrupoAScenario resolves a Grupo A request; modality comes from the request or the preset class.
func (h *CalculationHandler) GrupoAScenario(req models.GrupoARequest) (cashflow.Scenario, error) {
	p, err := h.resolvePreset(req.Preset, config.Preset{
		OffPeak:  rate(req.OffPeak),
		Peak:     rate(req.Peak),
		Schedule: scheduleOverride(req.Schedule),
	})
	if err != nil {
		return cashflow.Scenario{}, err
	}

	var errs models.ValidationErrors
	var modality model.Modality
	switch {
	case req.Modality != "":
		modality, err = model.ParseModality(req.Modality)
		if err != nil {
			errs.Add("modality", "%v", err)
		}
	case model.ConsumerClass(p.Class) == model.ClassGrupoABlue:
		modality = model.ModalityBlue
	case model.ConsumerClass(p.Class) == model.ClassGrupoAGreen:
		modality = model.ModalityGreen
	case model.ConsumerClass(p.Class) == model.ClassGrupoB:
		errs.Add("preset", "preset %q is for grupo_b", p.Name)
	default:
		errs.Add("modality", "is required (verde or azul) unless the preset sets it")
	}
	offPeak, peak := p.OffPeak.ToModel(), p.Peak.ToModel()
	if err := offPeak.Validate(); err != nil {
		errs.Add("off_peak", "%v", err)
	}
	if err := peak.Validate(); err != nil {
		errs.Add("peak", "%v", err)
	}

	genPeak := req.GenerationPeak
	if genPeak == nil {
		genPeak = make([]float64, model.MonthsPerYear)
	}
	s := cashflow.Scenario{
		Financials: financials(req.Financials),
		Schedule:   buildSchedule(p, &errs),
		Class: credit.GrupoA{
			Modality:     modality,
			OffPeak:      offPeak,
			Peak:         peak,
			Simultaneity: req.Simultaneity,
		},
		Generation: model.PeriodSeries{
			OffPeak: series("generation", req.Generation, &errs),
			Peak:    series("generation_peak", genPeak, &errs),
		},
		Consumption: model.PeriodSeries{
			OffPeak: series("consumption_off_peak", req.ConsumptionOffPeak, &errs),
			Peak:    series("consumption_peak", req.ConsumptionPeak, &errs),
		},
		InitialBank: credit.Bank(req.InitialBankKWh),
	}
	s.Remotes = remoteSteps(req.Remotes, &errs)
	if err := models.ValidateShares(req.LocalShare, req.Remotes.EnabledShares()); err != nil {
		errs = append(errs, err.(models.ValidationErrors)...)
	}
	if err := s.Financials.Validate(); err != nil {
		errs.Add("financials", "%v", err)
	}
	return s, errs.Err()
}

// remoteSteps converts enabled remote blocks; disabled ones are not validated.
func remoteSteps(r models.RemotesRequest, errs *models.ValidationErrors) []credit.RemoteStep {
	var steps []credit.RemoteStep
	for i, b := range r.GrupoB {
		if !b.Enabled {
			continue
		}
		field := fmt.Sprintf("remotes.grupo_b[%d]", i)
		if !(b.Tariff > 0) {
			errs.Add(field+".tariff", "must be > 0")
		}
		steps = append(steps, credit.RemoteB{
			Name:        b.Name,
			Enabled:     true,
			Share:       b.Percentage / 100,
			Consumption: series(field+".consumption", b.Consumption, errs),
			TariffRate:  b.Tariff,
			FioB:        b.FioB,
		})
	}
	remoteA := func(list []models.RemoteARequest, modality model.Modality, key string) {
		for i, a := range list {
			if !a.Enabled {
				continue
			}
			field := fmt.Sprintf("remotes.%s[%d]", key, i)
			offPeak, peak := rate(a.OffPeak).ToModel(), rate(a.Peak).ToModel()
			if err := offPeak.Validate(); err != nil {
				errs.Add(field+".off_peak", "%v", err)
			}
			if err := peak.Validate(); err != nil {
				errs.Add(field+".peak", "%v", err)
			}
			steps = append(steps, credit.RemoteA{
				Name:     a.Name,
				Enabled:  true,
				Share:    a.Percentage / 100,
				Modality: modality,
				Consumption: model.PeriodSeries{
					OffPeak: series(field+".consumption_off_peak", a.ConsumptionOffPeak, errs),
					Peak:    series(field+".consumption_peak", a.ConsumptionPeak, errs),
				},
				OffPeak: offPeak,
				Peak:    peak,
			})
		}
	}
	remoteA(r.GrupoAVerde, model.ModalityGreen, "grupo_a_verde")
	remoteA(r.GrupoAAzul, model.ModalityBlue, "grupo_a_azul")
	return steps
}
