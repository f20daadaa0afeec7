package handlers

import (
	"net/http"

	"pv-viability/internal/api/models"
	"pv-viability/internal/config"
	"pv-viability/internal/model"

	"github.com/gin-gonic/gin"
)

// scheduleHorizon is how many years of the default schedule are listed.
const scheduleHorizon = 10

var classDescriptions = map[model.ConsumerClass]string{
	model.ClassGrupoB:      "Low voltage (residential, small commerce). Single energy stream.",
	model.ClassGrupoAGreen: "Medium/high voltage, Verde modality. Peak and off-peak energy; credits convert at the TE ratio.",
	model.ClassGrupoABlue:  "Medium/high voltage, Azul modality. Peak and off-peak energy; credits convert at the TE+TUSD ratio.",
}

// ClassHandler describes supported consumer classes and the default schedule
type ClassHandler struct {
	calc config.AppConfigCalculation
}

// NewClassHandler creates a new class handler
func NewClassHandler(calc config.AppConfigCalculation) *ClassHandler {
	return &ClassHandler{calc: calc}
}

// ListClasses handles GET /api/v1/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	sched, err := h.calc.Schedule(0)
	if err != nil {
		abortWith(c, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
		return
	}

	resp := models.ClassesResponse{
		BaseYear:    sched.BaseYear,
		BeforeFirst: string(sched.BeforeFirst),
	}
	for _, cls := range model.RemoteOrder {
		periods := 1
		if cls.IsGrupoA() {
			periods = 2
		}
		resp.Classes = append(resp.Classes, models.ClassInfo{
			ID:          string(cls),
			Description: classDescriptions[cls],
			Periods:     periods,
			RemoteRank:  cls.Rank() + 1,
		})
		resp.RemoteOrder = append(resp.RemoteOrder, string(cls))
	}
	for y := 1; y <= scheduleHorizon; y++ {
		resp.Schedule = append(resp.Schedule, models.ScheduleEntry{
			Year:     sched.CalendarYear(y),
			Fraction: sched.FractionForProjectYear(y),
		})
	}
	c.JSON(http.StatusOK, resp)
}
