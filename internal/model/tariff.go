package model

import "errors"

// PeriodRate is the energy price of one Grupo A tariff period, in R$/kWh.
// FioB is the full transmission-use component charged on compensated credits
// before the schedule fraction is applied.
type PeriodRate struct {
	TE   float64
	TUSD float64
	FioB float64
}

// Tariff is the full energy price (TE + TUSD).
func (r PeriodRate) Tariff() float64 { return r.TE + r.TUSD }

// Scale escalates every component by f.
func (r PeriodRate) Scale(f float64) PeriodRate {
	return PeriodRate{TE: r.TE * f, TUSD: r.TUSD * f, FioB: r.FioB * f}
}

func (r PeriodRate) Validate() error {
	if r.TE < 0 || r.TUSD < 0 || r.FioB < 0 {
		return errors.New("tariff components must be >= 0")
	}
	if !(r.Tariff() > 0) {
		return errors.New("tariff (te + tusd) must be > 0")
	}
	return nil
}

// EquivalenceFactor is the number of peak kWh covered by one off-peak kWh of credit.
//
// Azul prices both TE and TUSD per period, so the full tariffs are compared.
// Verde folds demand into the peak TUSD, so only TE is compared when present.
func EquivalenceFactor(m Modality, offPeak, peak PeriodRate) float64 {
	if m == ModalityGreen && offPeak.TE > 0 && peak.TE > 0 {
		return offPeak.TE / peak.TE
	}
	if peak.Tariff() <= 0 {
		return 1
	}
	return offPeak.Tariff() / peak.Tariff()
}
