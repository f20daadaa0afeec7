package model

import (
	"errors"
	"math"
)

// MaxHorizonYears bounds the simulated project life.
const MaxHorizonYears = 50

// ProjectFinancials defines the economic parameters of a PV project.
// Rates and fractions are decimals (0.05 = 5%); money is in R$.
type ProjectFinancials struct {
	Capex        float64
	HorizonYears int
	DiscountRate float64
	// TariffInflation is the annual energy-tariff escalation.
	TariffInflation float64
	// Degradation is the annual module output loss.
	Degradation float64
	// SalvageFraction of capex is recovered at the end of the horizon.
	SalvageFraction float64
	// OMFraction of capex is the first-year O&M cost.
	OMFraction  float64
	OMInflation float64
}

func (p ProjectFinancials) Validate() error {
	if !(p.Capex > 0) {
		return errors.New("capex must be > 0")
	}
	if p.HorizonYears < 1 || p.HorizonYears > MaxHorizonYears {
		return errors.New("horizon_years must be in [1, 50]")
	}
	if p.DiscountRate < 0 || p.DiscountRate > 1 {
		return errors.New("discount_rate must be in [0, 1]")
	}
	if p.TariffInflation < 0 {
		return errors.New("tariff_inflation must be >= 0")
	}
	if p.Degradation < 0 || p.Degradation >= 1 {
		return errors.New("degradation must be in [0, 1)")
	}
	if p.SalvageFraction < 0 {
		return errors.New("salvage_fraction must be >= 0")
	}
	if p.OMFraction < 0 {
		return errors.New("om_fraction must be >= 0")
	}
	if p.OMInflation < 0 {
		return errors.New("om_inflation must be >= 0")
	}
	return nil
}

// TariffFactor is the cumulative tariff escalation applied in project year y.
func (p ProjectFinancials) TariffFactor(y int) float64 {
	return math.Pow(1+p.TariffInflation, float64(y-1))
}

// DegradationFactor is the remaining module output in project year y.
func (p ProjectFinancials) DegradationFactor(y int) float64 {
	return math.Pow(1-p.Degradation, float64(y-1))
}

// OMCost is the inflated O&M cost for project year y.
func (p ProjectFinancials) OMCost(y int) float64 {
	return p.Capex * p.OMFraction * math.Pow(1+p.OMInflation, float64(y-1))
}

// DiscountFactor is 1/(1+r)^y.
func (p ProjectFinancials) DiscountFactor(y int) float64 {
	return 1 / math.Pow(1+p.DiscountRate, float64(y))
}

// Salvage is the residual value recovered in the final year, zero otherwise.
func (p ProjectFinancials) Salvage(y int) float64 {
	if y != p.HorizonYears {
		return 0
	}
	return p.Capex * p.SalvageFraction
}
