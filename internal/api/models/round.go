package models

import "github.com/shopspring/decimal"

// Money rounds a R$ amount to cents.
func Money(x float64) float64 {
	return roundTo(x, 2)
}

// KWh rounds energy to watt-hours.
func KWh(x float64) float64 {
	return roundTo(x, 3)
}

// Ratio rounds fractions, rates and factors.
func Ratio(x float64) float64 {
	return roundTo(x, 6)
}

func roundTo(x float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}
