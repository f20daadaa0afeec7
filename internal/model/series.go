package model

import (
	"errors"
	"fmt"
	"math"
)

// MonthsPerYear is the fixed length of a MonthlySeries.
const MonthsPerYear = 12

// MonthlySeries is one calendar year of kWh values, January to December.
// The array type makes the length invariant impossible to violate inside the engine;
// boundary code converts from slices with SeriesFromSlice.
type MonthlySeries [MonthsPerYear]float64

// SeriesFromSlice validates length and sign and converts to a MonthlySeries.
func SeriesFromSlice(values []float64) (MonthlySeries, error) {
	var s MonthlySeries
	if len(values) != MonthsPerYear {
		return s, fmt.Errorf("series must have %d values, got %d", MonthsPerYear, len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return s, fmt.Errorf("month %d: value is not finite", i+1)
		}
		if v < 0 {
			return s, fmt.Errorf("month %d: value must be >= 0, got %g", i+1, v)
		}
		s[i] = v
	}
	return s, nil
}

// FlatSeries returns a series with v in every month.
func FlatSeries(v float64) MonthlySeries {
	var s MonthlySeries
	for i := range s {
		s[i] = v
	}
	return s
}

func (s MonthlySeries) Slice() []float64 {
	out := make([]float64, MonthsPerYear)
	copy(out, s[:])
	return out
}

func (s MonthlySeries) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

func (s MonthlySeries) Mean() float64 {
	return s.Sum() / MonthsPerYear
}

func (s MonthlySeries) Max() float64 {
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func (s MonthlySeries) Scale(f float64) MonthlySeries {
	var out MonthlySeries
	for i, v := range s {
		out[i] = v * f
	}
	return out
}

func (s MonthlySeries) Add(o MonthlySeries) MonthlySeries {
	var out MonthlySeries
	for i := range s {
		out[i] = s[i] + o[i]
	}
	return out
}

// Sub subtracts o element-wise, clamping each month at zero.
func (s MonthlySeries) Sub(o MonthlySeries) MonthlySeries {
	var out MonthlySeries
	for i := range s {
		out[i] = math.Max(0, s[i]-o[i])
	}
	return out
}

// Min returns the element-wise minimum.
func (s MonthlySeries) Min(o MonthlySeries) MonthlySeries {
	var out MonthlySeries
	for i := range s {
		out[i] = math.Min(s[i], o[i])
	}
	return out
}

// Energy is a kWh quantity split into tariff periods.
// Single-stream classes (Grupo B) use Sum and ignore the split.
type Energy struct {
	OffPeak float64
	Peak    float64
}

func (e Energy) Sum() float64 { return e.OffPeak + e.Peak }

func (e Energy) Add(o Energy) Energy {
	return Energy{OffPeak: e.OffPeak + o.OffPeak, Peak: e.Peak + o.Peak}
}

// PeriodSeries is a pair of monthly series for off-peak and peak periods.
type PeriodSeries struct {
	OffPeak MonthlySeries
	Peak    MonthlySeries
}

// SingleStream wraps a series with no time-of-use split.
func SingleStream(s MonthlySeries) PeriodSeries {
	return PeriodSeries{OffPeak: s}
}

func (p PeriodSeries) At(month int) Energy {
	return Energy{OffPeak: p.OffPeak[month], Peak: p.Peak[month]}
}

func (p PeriodSeries) Scale(f float64) PeriodSeries {
	return PeriodSeries{OffPeak: p.OffPeak.Scale(f), Peak: p.Peak.Scale(f)}
}

func (p PeriodSeries) Total() MonthlySeries {
	return p.OffPeak.Add(p.Peak)
}

func (p PeriodSeries) Sum() float64 {
	return p.OffPeak.Sum() + p.Peak.Sum()
}

var errEmptySeries = errors.New("series is empty")

// PeriodSeriesFromSlices builds a PeriodSeries; a nil peak slice means zero peak energy.
func PeriodSeriesFromSlices(offPeak, peak []float64) (PeriodSeries, error) {
	var p PeriodSeries
	if offPeak == nil {
		return p, errEmptySeries
	}
	op, err := SeriesFromSlice(offPeak)
	if err != nil {
		return p, fmt.Errorf("off-peak: %w", err)
	}
	p.OffPeak = op
	if peak != nil {
		pk, err := SeriesFromSlice(peak)
		if err != nil {
			return p, fmt.Errorf("peak: %w", err)
		}
		p.Peak = pk
	}
	return p, nil
}
