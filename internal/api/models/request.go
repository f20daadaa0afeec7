package models

// FinancialsRequest carries the project economics. Rates are decimals (0.08 = 8%).
type FinancialsRequest struct {
	Capex           float64 `json:"capex" binding:"gt=0"`
	HorizonYears    int     `json:"horizon_years" binding:"required,min=1,max=50"`
	DiscountRate    float64 `json:"discount_rate" binding:"gte=0,lte=1"`
	TariffInflation float64 `json:"tariff_inflation" binding:"gte=0"`
	Degradation     float64 `json:"degradation" binding:"gte=0,lt=1"`
	SalvageFraction float64 `json:"salvage_fraction" binding:"gte=0"`
	OMFraction      float64 `json:"om_fraction" binding:"gte=0"`
	OMInflation     float64 `json:"om_inflation" binding:"gte=0"`
}

// ScheduleRequest overrides the configured Fio B schedule; zero fields keep the default.
type ScheduleRequest struct {
	BaseYear    int             `json:"base_year,omitempty" binding:"omitempty,min=2000,max=2100"`
	Fractions   map[int]float64 `json:"fractions,omitempty" binding:"omitempty,dive,gte=0,lte=1"`
	BeforeFirst string          `json:"before_first,omitempty" binding:"omitempty,oneof=zero earliest"`
}

// RateRequest is one Grupo A tariff period, R$/kWh.
type RateRequest struct {
	TE   float64 `json:"te" binding:"gte=0"`
	TUSD float64 `json:"tusd" binding:"gte=0"`
	FioB float64 `json:"fio_b" binding:"gte=0"`
}

// RemoteBRequest is a Grupo B unit receiving part of the generator's credits.
type RemoteBRequest struct {
	Name        string    `json:"name,omitempty"`
	Enabled     bool      `json:"enabled"`
	Percentage  float64   `json:"percentage" binding:"gte=0,lte=100"`
	Consumption []float64 `json:"consumption" binding:"omitempty,len=12,dive,gte=0"`
	Tariff      float64   `json:"tariff" binding:"gte=0"`
	FioB        float64   `json:"fio_b" binding:"gte=0"`
}

// RemoteARequest is a Grupo A unit; modality comes from the list it is in.
type RemoteARequest struct {
	Name               string      `json:"name,omitempty"`
	Enabled            bool        `json:"enabled"`
	Percentage         float64     `json:"percentage" binding:"gte=0,lte=100"`
	ConsumptionOffPeak []float64   `json:"consumption_off_peak" binding:"omitempty,len=12,dive,gte=0"`
	ConsumptionPeak    []float64   `json:"consumption_peak" binding:"omitempty,len=12,dive,gte=0"`
	OffPeak            RateRequest `json:"off_peak"`
	Peak               RateRequest `json:"peak"`
}

type RemotesRequest struct {
	GrupoB      []RemoteBRequest `json:"grupo_b,omitempty" binding:"omitempty,dive"`
	GrupoAVerde []RemoteARequest `json:"grupo_a_verde,omitempty" binding:"omitempty,dive"`
	GrupoAAzul  []RemoteARequest `json:"grupo_a_azul,omitempty" binding:"omitempty,dive"`
}

// EnabledShares returns the percentages of every enabled remote unit.
func (r RemotesRequest) EnabledShares() []float64 {
	var out []float64
	for _, b := range r.GrupoB {
		if b.Enabled {
			out = append(out, b.Percentage)
		}
	}
	for _, a := range append(append([]RemoteARequest{}, r.GrupoAVerde...), r.GrupoAAzul...) {
		if a.Enabled {
			out = append(out, a.Percentage)
		}
	}
	return out
}

// CalculationOptions contains optional response parameters
type CalculationOptions struct {
	IncludeMonthly bool `json:"include_monthly,omitempty"`
	// Sensitivity forces the tariff sweep on Grupo B; Grupo A always includes it.
	Sensitivity            bool      `json:"sensitivity,omitempty"`
	SensitivityMultipliers []float64 `json:"sensitivity_multipliers,omitempty" binding:"omitempty,max=21,dive,gt=0"`
}

// GrupoBRequest represents the request body for a Grupo B calculation
type GrupoBRequest struct {
	Preset      string            `json:"preset,omitempty"`
	Financials  FinancialsRequest `json:"financials" binding:"required"`
	Generation  []float64         `json:"generation" binding:"required,len=12,dive,gte=0"`
	Consumption []float64         `json:"consumption" binding:"required,len=12,dive,gte=0"`
	// Tariff and FioB may come from Preset; request values override it.
	Tariff         float64            `json:"tariff" binding:"gte=0"`
	FioB           float64            `json:"fio_b" binding:"gte=0"`
	Simultaneity   float64            `json:"simultaneity" binding:"gte=0,lte=1"`
	LocalShare     *float64           `json:"local_share,omitempty" binding:"omitempty,gte=0,lte=100"`
	InitialBankKWh float64            `json:"initial_bank_kwh" binding:"gte=0"`
	Schedule       ScheduleRequest    `json:"fio_b_schedule"`
	Remotes        RemotesRequest     `json:"remotes"`
	Options        CalculationOptions `json:"options"`
}

// GrupoARequest represents the request body for a Grupo A (Verde or Azul) calculation
type GrupoARequest struct {
	Preset     string            `json:"preset,omitempty"`
	Modality   string            `json:"modality,omitempty" binding:"omitempty,oneof=verde azul green blue"`
	Financials FinancialsRequest `json:"financials" binding:"required"`
	// Generation is injected in the off-peak period unless GenerationPeak is set.
	Generation         []float64          `json:"generation" binding:"required,len=12,dive,gte=0"`
	GenerationPeak     []float64          `json:"generation_peak,omitempty" binding:"omitempty,len=12,dive,gte=0"`
	ConsumptionOffPeak []float64          `json:"consumption_off_peak" binding:"required,len=12,dive,gte=0"`
	ConsumptionPeak    []float64          `json:"consumption_peak" binding:"required,len=12,dive,gte=0"`
	OffPeak            RateRequest        `json:"off_peak"`
	Peak               RateRequest        `json:"peak"`
	Simultaneity       float64            `json:"simultaneity" binding:"gte=0,lte=1"`
	LocalShare         *float64           `json:"local_share,omitempty" binding:"omitempty,gte=0,lte=100"`
	InitialBankKWh     float64            `json:"initial_bank_kwh" binding:"gte=0"`
	Schedule           ScheduleRequest    `json:"fio_b_schedule"`
	Remotes            RemotesRequest     `json:"remotes"`
	Options            CalculationOptions `json:"options"`
}

// CompareGrupoBRequest represents a request to compare Grupo B variations
type CompareGrupoBRequest struct {
	Base       GrupoBRequest     `json:"base" binding:"required"`
	Variations []GrupoBVariation `json:"variations" binding:"required,min=1,max=20,dive"`
}

// GrupoBVariation overrides non-zero fields of the base request.
type GrupoBVariation struct {
	Name            string   `json:"name" binding:"required"`
	Preset          string   `json:"preset,omitempty"`
	Capex           float64  `json:"capex,omitempty" binding:"gte=0"`
	HorizonYears    int      `json:"horizon_years,omitempty" binding:"omitempty,min=1,max=50"`
	DiscountRate    *float64 `json:"discount_rate,omitempty" binding:"omitempty,gte=0,lte=1"`
	TariffInflation *float64 `json:"tariff_inflation,omitempty" binding:"omitempty,gte=0"`
	Tariff          float64  `json:"tariff,omitempty" binding:"gte=0"`
	FioB            float64  `json:"fio_b,omitempty" binding:"gte=0"`
	Simultaneity    *float64 `json:"simultaneity,omitempty" binding:"omitempty,gte=0,lte=1"`
	// GenerationScale multiplies the base generation, e.g. 1.2 for a larger array.
	GenerationScale float64 `json:"generation_scale,omitempty" binding:"gte=0"`
}

// Apply returns base with the variation's overrides.
func (v GrupoBVariation) Apply(base GrupoBRequest) GrupoBRequest {
	out := base
	out.Options.IncludeMonthly = false
	if v.Preset != "" {
		out.Preset = v.Preset
	}
	if v.Capex != 0 {
		out.Financials.Capex = v.Capex
	}
	if v.HorizonYears != 0 {
		out.Financials.HorizonYears = v.HorizonYears
	}
	if v.DiscountRate != nil {
		out.Financials.DiscountRate = *v.DiscountRate
	}
	if v.TariffInflation != nil {
		out.Financials.TariffInflation = *v.TariffInflation
	}
	if v.Tariff != 0 {
		out.Tariff = v.Tariff
	}
	if v.FioB != 0 {
		out.FioB = v.FioB
	}
	if v.Simultaneity != nil {
		out.Simultaneity = *v.Simultaneity
	}
	if v.GenerationScale != 0 {
		gen := make([]float64, len(base.Generation))
		for i, g := range base.Generation {
			gen[i] = g * v.GenerationScale
		}
		out.Generation = gen
	}
	return out
}
