package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pv-viability/internal/api/models"
	"pv-viability/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func abortWith(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// bindError reports a failed ShouldBindJSON: malformed JSON is INVALID_REQUEST,
// tag violations are VALIDATION_ERROR with one entry per field.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		abortWith(c, http.StatusBadRequest, models.CodeInvalidRequest, err.Error(), nil)
		return
	}
	var out models.ValidationErrors
	for _, fe := range verrs {
		out = append(out, models.ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: tagMessage(fe),
		})
	}
	abortWith(c, http.StatusBadRequest, models.CodeValidation, out.Error(), out.Details())
}

// fieldPath drops the root struct name: "GrupoBRequest.Financials.Capex" -> "Financials.Capex".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must have exactly %s values", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be < %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// calculationError maps scenario and engine errors onto the error envelope.
func calculationError(c *gin.Context, err error) {
	var (
		verrs   models.ValidationErrors
		unknown errUnknownPreset
		calcErr *model.CalculationError
	)
	switch {
	case errors.As(err, &verrs):
		abortWith(c, http.StatusBadRequest, models.CodeValidation, verrs.Error(), verrs.Details())
	case errors.As(err, &unknown):
		abortWith(c, http.StatusNotFound, models.CodeUnknownPreset, err.Error(), map[string]interface{}{
			"preset": string(unknown),
		})
	case errors.As(err, &calcErr):
		details := map[string]interface{}{"class": string(calcErr.Class)}
		if calcErr.Year > 0 {
			details["year"] = calcErr.Year
		}
		if calcErr.Month > 0 {
			details["month"] = calcErr.Month
		}
		abortWith(c, http.StatusUnprocessableEntity, models.CodeCalculationError, err.Error(), details)
	default:
		abortWith(c, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
	}
}

func errorCode(err error) string {
	var (
		verrs   models.ValidationErrors
		unknown errUnknownPreset
		calcErr *model.CalculationError
	)
	switch {
	case errors.As(err, &verrs):
		return models.CodeValidation
	case errors.As(err, &unknown):
		return models.CodeUnknownPreset
	case errors.As(err, &calcErr):
		return models.CodeCalculationError
	default:
		return models.CodeInternal
	}
}
