package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"pv-viability/internal/api/models"
	"pv-viability/internal/config"
	"pv-viability/internal/data"

	"github.com/gin-gonic/gin"
)

// PresetHandler handles tariff preset requests
type PresetHandler struct {
	catalog *data.Catalog
}

// NewPresetHandler creates a new preset handler. A nil catalog serves an empty list.
func NewPresetHandler(catalog *data.Catalog) *PresetHandler {
	return &PresetHandler{catalog: catalog}
}

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets := h.catalog.List()
	out := make([]models.PresetInfo, 0, len(presets))
	for _, p := range presets {
		out = append(out, presetInfo(p))
	}
	c.JSON(http.StatusOK, gin.H{"presets": out})
}

// GetPreset handles GET /api/v1/presets/:name
func (h *PresetHandler) GetPreset(c *gin.Context) {
	name := c.Param("name")
	p, ok := h.catalog.Get(name)
	if !ok {
		abortWith(c, http.StatusNotFound, models.CodeUnknownPreset, errUnknownPreset(name).Error(), nil)
		return
	}
	c.JSON(http.StatusOK, presetInfo(p))
}

func presetInfo(p config.Preset) models.PresetInfo {
	info := models.PresetInfo{
		Name:        p.Name,
		Description: p.Description,
		Distributor: p.Distributor,
		Class:       p.Class,
		Tariff:      p.Tariff,
		FioB:        p.FioB,
	}
	if !p.OffPeak.IsZero() {
		info.OffPeak = &models.RateRequest{TE: p.OffPeak.TE, TUSD: p.OffPeak.TUSD, FioB: p.OffPeak.FioB}
	}
	if !p.Peak.IsZero() {
		info.Peak = &models.RateRequest{TE: p.Peak.TE, TUSD: p.Peak.TUSD, FioB: p.Peak.FioB}
	}
	if len(p.Schedule.Fractions) > 0 {
		years := make([]int, 0, len(p.Schedule.Fractions))
		for y := range p.Schedule.Fractions {
			years = append(years, y)
		}
		sort.Ints(years)
		info.Schedule = make(map[string]float64, len(years))
		for _, y := range years {
			info.Schedule[strconv.Itoa(y)] = p.Schedule.Fractions[y]
		}
	}
	return info
}
