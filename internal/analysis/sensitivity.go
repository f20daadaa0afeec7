package analysis

import (
	"fmt"
	"sort"
)

// DefaultMultipliers is the tariff sweep used when none is configured.
var DefaultMultipliers = []float64{0.8, 0.9, 1.0, 1.1, 1.2}

// SensitivityPoint is one rerun of the full pipeline at a tariff multiplier.
type SensitivityPoint struct {
	Multiplier float64
	NPV        float64
	IRR        IRRResult
	Payback    Payback
}

// Sensitivity reruns eval for every multiplier, in ascending order.
func Sensitivity(multipliers []float64, eval func(multiplier float64) (Indicators, error)) ([]SensitivityPoint, error) {
	if len(multipliers) == 0 {
		multipliers = DefaultMultipliers
	}
	ms := make([]float64, len(multipliers))
	copy(ms, multipliers)
	sort.Float64s(ms)

	out := make([]SensitivityPoint, 0, len(ms))
	for _, m := range ms {
		if !(m > 0) {
			return nil, fmt.Errorf("sensitivity multiplier must be > 0, got %g", m)
		}
		ind, err := eval(m)
		if err != nil {
			return nil, fmt.Errorf("sensitivity at %gx: %w", m, err)
		}
		out = append(out, SensitivityPoint{
			Multiplier: m,
			NPV:        ind.NPV,
			IRR:        ind.IRR,
			Payback:    ind.SimplePayback,
		})
	}
	return out, nil
}
