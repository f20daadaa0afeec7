package model

import (
	"errors"
	"fmt"
	"sort"
)

// BeforeFirstPolicy decides the fee fraction for years before the first scheduled entry.
type BeforeFirstPolicy string

const (
	// BeforeFirstZero charges no Fio B before the schedule starts.
	BeforeFirstZero BeforeFirstPolicy = "zero"
	// BeforeFirstEarliest applies the earliest scheduled fraction.
	BeforeFirstEarliest BeforeFirstPolicy = "earliest"
)

func ParseBeforeFirstPolicy(s string) (BeforeFirstPolicy, error) {
	switch BeforeFirstPolicy(s) {
	case "", BeforeFirstZero:
		return BeforeFirstZero, nil
	case BeforeFirstEarliest:
		return BeforeFirstEarliest, nil
	default:
		return "", fmt.Errorf("unknown before_first policy %q (want zero or earliest)", s)
	}
}

// Law14300Ramp returns the Fio B transition ramp of Law 14.300 for connections
// requested after January 2023. Each call returns a fresh map.
func Law14300Ramp() map[int]float64 {
	return map[int]float64{
		2023: 0.15,
		2024: 0.30,
		2025: 0.45,
		2026: 0.60,
		2027: 0.75,
		2028: 0.90,
	}
}

// FioBSchedule maps calendar years to the share of the full Fio B charged that year.
// Project year 1 is BaseYear. After the last scheduled year the last fraction holds.
type FioBSchedule struct {
	BaseYear    int
	BeforeFirst BeforeFirstPolicy

	years     []int
	fractions map[int]float64
}

// NewFioBSchedule copies fractions so the schedule never aliases caller state.
func NewFioBSchedule(baseYear int, fractions map[int]float64, policy BeforeFirstPolicy) (FioBSchedule, error) {
	if baseYear <= 0 {
		return FioBSchedule{}, errors.New("fio b base year must be > 0")
	}
	if policy == "" {
		policy = BeforeFirstZero
	}
	s := FioBSchedule{
		BaseYear:    baseYear,
		BeforeFirst: policy,
		years:       make([]int, 0, len(fractions)),
		fractions:   make(map[int]float64, len(fractions)),
	}
	for y, f := range fractions {
		if f < 0 || f > 1 {
			return FioBSchedule{}, fmt.Errorf("fio b fraction for %d must be in [0, 1], got %g", y, f)
		}
		s.years = append(s.years, y)
		s.fractions[y] = f
	}
	sort.Ints(s.years)
	return s, nil
}

// Fraction resolves the fee fraction for a calendar year: the value of the
// largest scheduled year <= year.
func (s FioBSchedule) Fraction(year int) float64 {
	if len(s.years) == 0 {
		return 0
	}
	// index of first scheduled year > year
	i := sort.SearchInts(s.years, year+1)
	if i == 0 {
		if s.BeforeFirst == BeforeFirstEarliest {
			return s.fractions[s.years[0]]
		}
		return 0
	}
	return s.fractions[s.years[i-1]]
}

// CalendarYear converts a 1-based project year to a calendar year.
func (s FioBSchedule) CalendarYear(projectYear int) int {
	return s.BaseYear + projectYear - 1
}

// FractionForProjectYear resolves the fraction for a 1-based project year.
func (s FioBSchedule) FractionForProjectYear(projectYear int) float64 {
	return s.Fraction(s.CalendarYear(projectYear))
}

// Entries returns the scheduled years and fractions in ascending year order.
func (s FioBSchedule) Entries() ([]int, []float64) {
	years := make([]int, len(s.years))
	copy(years, s.years)
	fr := make([]float64, len(years))
	for i, y := range years {
		fr[i] = s.fractions[y]
	}
	return years, fr
}
