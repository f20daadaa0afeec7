package cashflow

import (
	"errors"
	"fmt"

	"pv-viability/internal/credit"
	"pv-viability/internal/model"
)

// Scenario is everything the builder consumes for one calculation.
// Tariffs inside Class and Remotes are base-year values.
type Scenario struct {
	Financials model.ProjectFinancials
	Schedule   model.FioBSchedule

	Class       credit.Class
	Generation  model.PeriodSeries
	Consumption model.PeriodSeries
	Remotes     []credit.RemoteStep

	InitialBank credit.Bank
}

func (s Scenario) Validate() error {
	if s.Class == nil {
		return errors.New("consumer class is nil")
	}
	if err := s.Financials.Validate(); err != nil {
		return fmt.Errorf("financials: %w", err)
	}
	if s.Schedule.BaseYear <= 0 {
		return errors.New("fio b schedule has no base year")
	}
	if s.InitialBank < 0 {
		return errors.New("initial bank must be >= 0")
	}
	return nil
}

// WithTariffMultiplier returns a copy with every tariff scaled by m.
// Used by the sensitivity sweep.
func (s Scenario) WithTariffMultiplier(m float64) Scenario {
	out := s
	out.Class = s.Class.Scale(m)
	out.Remotes = make([]credit.RemoteStep, len(s.Remotes))
	for i, r := range s.Remotes {
		out.Remotes[i] = r.Scale(m)
	}
	return out
}
