package models

import (
	"fmt"
	"math"
	"strings"
)

// ShareTolerance absorbs rounding in user-entered percentages.
const ShareTolerance = 1.0

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of a request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

func (v *ValidationErrors) Add(field, format string, args ...any) {
	*v = append(*v, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Details() map[string]interface{} {
	fields := make([]ValidationError, len(v))
	copy(fields, v)
	return map[string]interface{}{"fields": fields}
}

// ValidateShares checks the credit split between the generating unit and its
// enabled remote units. With no remote enabled the local unit keeps 100% and
// nothing is checked. A missing local share is implicit: it takes whatever the
// remotes leave, so only remote totals above 100 + ShareTolerance fail. An
// explicit local share must bring the total to 100 within ShareTolerance.
func ValidateShares(local *float64, remote []float64) error {
	if len(remote) == 0 {
		return nil
	}
	total := 0.0
	for _, r := range remote {
		total += r
	}
	if local == nil {
		if total > 100+ShareTolerance {
			return sharesError(total)
		}
		return nil
	}
	total += *local
	if math.Abs(total-100) > ShareTolerance {
		return sharesError(total)
	}
	return nil
}

func sharesError(total float64) error {
	return ValidationErrors{{
		Field:   "remotes",
		Message: fmt.Sprintf("local and remote percentages must total 100%% (got %.2f%%)", total),
	}}
}
