package analysis

import (
	"errors"
	"math"

	"pv-viability/internal/cashflow"
)

// IRR search bracket.
const (
	IRRLower = -0.99
	IRRUpper = 10.0

	irrTolerance = 1e-9
	irrMaxIter   = 200
)

// Reasons reported when IRR cannot be determined.
const (
	ReasonNoSignChange = "no sign change"
	ReasonNotConverged = "not converged"
)

// IRRResult is the internal rate of return, or the reason it is indeterminate.
type IRRResult struct {
	Rate      float64
	Converged bool
	Reason    string
}

// Payback is the first fractional year at which a cumulative flow turns non-negative.
type Payback struct {
	Years   float64
	Reached bool
}

// Indicators summarises a completed cash-flow series.
type Indicators struct {
	NPV               float64
	IRR               IRRResult
	SimplePayback     Payback
	DiscountedPayback Payback
	LCOE              float64
	ROI               float64
	ProfitabilityIdx  float64

	TotalSavings   float64
	TotalNetFlow   float64
	TotalGenerated float64
}

// NPV discounts flows (years 1..N) at rate and subtracts the initial outlay.
func NPV(rate, capex float64, flows []float64) float64 {
	v := -capex
	for i, f := range flows {
		v += f / math.Pow(1+rate, float64(i+1))
	}
	return v
}

// IRR finds the rate where NPV is zero by bisection over [IRRLower, IRRUpper].
func IRR(capex float64, flows []float64) IRRResult {
	lo, hi := IRRLower, IRRUpper
	fLo := NPV(lo, capex, flows)
	fHi := NPV(hi, capex, flows)
	if math.IsNaN(fLo) || math.IsNaN(fHi) || fLo*fHi > 0 {
		return IRRResult{Reason: ReasonNoSignChange}
	}
	if fLo == 0 {
		return IRRResult{Rate: lo, Converged: true}
	}
	if fHi == 0 {
		return IRRResult{Rate: hi, Converged: true}
	}

	for i := 0; i < irrMaxIter; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, capex, flows)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return IRRResult{Rate: mid, Converged: true}
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return IRRResult{Rate: (lo + hi) / 2, Reason: ReasonNotConverged}
}

// PaybackPeriod walks cumulative balances (index 0 = end of year 1) starting
// from -capex and interpolates linearly inside the crossing year.
func PaybackPeriod(capex float64, cumulative []float64) Payback {
	prev := -capex
	if prev >= 0 {
		return Payback{Years: 0, Reached: true}
	}
	for i, c := range cumulative {
		if c >= 0 {
			step := c - prev
			frac := 1.0
			if step > 0 {
				frac = -prev / step
			}
			return Payback{Years: float64(i) + frac, Reached: true}
		}
		prev = c
	}
	return Payback{}
}

// LCOE is discounted lifetime cost over discounted lifetime generation.
func LCOE(capex float64, om, energy, discount []float64) (float64, error) {
	if len(om) != len(energy) || len(energy) != len(discount) {
		return 0, errors.New("lcoe: series length mismatch")
	}
	cost := capex
	gen := 0.0
	for i := range energy {
		cost += om[i] * discount[i]
		gen += energy[i] * discount[i]
	}
	if gen <= 0 {
		return 0, errors.New("lcoe: no discounted generation")
	}
	return cost / gen, nil
}

// Compute derives every indicator from a finished simulation.
func Compute(res *cashflow.Result) (Indicators, error) {
	if res == nil || len(res.Years) == 0 {
		return Indicators{}, errors.New("empty cash-flow result")
	}
	fin := res.Financials
	n := len(res.Years)

	flows := res.NetFlows()
	cumNominal := make([]float64, n)
	cumDiscounted := make([]float64, n)
	om := make([]float64, n)
	energy := make([]float64, n)
	discount := make([]float64, n)

	ind := Indicators{}
	discSum := 0.0
	for i, y := range res.Years {
		cumNominal[i] = y.CumulativeNominal
		cumDiscounted[i] = y.CumulativeDiscounted
		om[i] = y.OMCost
		energy[i] = y.Generation
		discount[i] = y.DiscountFactor

		discSum += y.DiscountedCashFlow
		ind.TotalSavings += y.Savings
		ind.TotalNetFlow += y.NetCashFlow
		ind.TotalGenerated += y.Generation
	}

	ind.NPV = -fin.Capex + discSum
	ind.IRR = IRR(fin.Capex, flows)
	ind.SimplePayback = PaybackPeriod(fin.Capex, cumNominal)
	ind.DiscountedPayback = PaybackPeriod(fin.Capex, cumDiscounted)
	ind.ROI = (ind.TotalNetFlow - fin.Capex) / fin.Capex
	ind.ProfitabilityIdx = discSum / fin.Capex

	// Zero generation leaves LCOE at 0; the rest of the indicators still hold.
	if lcoe, err := LCOE(fin.Capex, om, energy, discount); err == nil {
		ind.LCOE = lcoe
	}
	return ind, nil
}
