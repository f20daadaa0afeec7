package model

import "fmt"

// CalculationError reports a failure inside the simulation loop with enough
// context to locate it. Year and Month are 1-based; zero means not applicable.
type CalculationError struct {
	Class ConsumerClass
	Year  int
	Month int
	Err   error
}

func (e *CalculationError) Error() string {
	switch {
	case e.Month > 0:
		return fmt.Sprintf("%s year %d month %d: %v", e.Class, e.Year, e.Month, e.Err)
	case e.Year > 0:
		return fmt.Sprintf("%s year %d: %v", e.Class, e.Year, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Class, e.Err)
	}
}

func (e *CalculationError) Unwrap() error { return e.Err }
