package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-viability/internal/api/models"
	"pv-viability/internal/config"
	"pv-viability/internal/data"
	"pv-viability/internal/logging"
	"pv-viability/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func calcConfig() config.AppConfigCalculation {
	return config.AppConfigCalculation{
		BaseYear:               2025,
		BeforeFirst:            "zero",
		SensitivityMultipliers: []float64{0.8, 1.0, 1.2},
		CompareConcurrency:     2,
	}
}

func newRouter(t *testing.T, catalog *data.Catalog) *gin.Engine {
	t.Helper()
	calc := NewCalculationHandler(calcConfig(), catalog, metrics.New(), logging.Discard())
	r := gin.New()
	r.POST("/api/v1/grupo-b", calc.CalculateGrupoB)
	r.POST("/api/v1/grupo-b/compare", calc.CompareGrupoB)
	r.POST("/api/v1/grupo-a", calc.CalculateGrupoA)
	presets := NewPresetHandler(catalog)
	r.GET("/api/v1/presets", presets.ListPresets)
	r.GET("/api/v1/presets/:name", presets.GetPreset)
	r.GET("/api/v1/classes", NewClassHandler(calcConfig()).ListClasses)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func flat(v float64) []float64 {
	out := make([]float64, 12)
	for i := range out {
		out[i] = v
	}
	return out
}

func ptr(f float64) *float64 { return &f }

func grupoBRequest() models.GrupoBRequest {
	return models.GrupoBRequest{
		Financials:   models.FinancialsRequest{Capex: 1000, HorizonYears: 1},
		Generation:   flat(1000),
		Consumption:  flat(600),
		Tariff:       0.84,
		FioB:         0.25,
		Simultaneity: 0.25,
		Schedule:     models.ScheduleRequest{BaseYear: 2025, Fractions: map[int]float64{2025: 0.45}},
		Options:      models.CalculationOptions{IncludeMonthly: true},
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCalculateGrupoBRoundTrip(t *testing.T) {
	rec := do(t, newRouter(t, nil), http.MethodPost, "/api/v1/grupo-b", grupoBRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.CalculationResponse](t, rec)
	assert.Equal(t, "grupo_b", resp.Class)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Monthly, 12)
	assert.InDelta(t, 464.63, resp.Monthly[0].Savings, 1e-9)
	assert.InDelta(t, 400, resp.Monthly[0].BankEndKWh, 1e-9)
	assert.InDelta(t, 5575.5, resp.InitialSums.Savings, 1e-9)
	assert.InDelta(t, 4800, resp.InitialSums.BankEndKWh, 1e-9)
	require.Len(t, resp.CashFlow, 1)
	assert.InDelta(t, 4575.5, resp.CashFlow[0].CumulativeNominal, 1e-9)
	assert.InDelta(t, 0.45, resp.CreditComparison.FioBFraction, 1e-9)
	assert.Empty(t, resp.Sensitivity)
}

func TestCalculateGrupoBRemote(t *testing.T) {
	req := grupoBRequest()
	req.Generation = flat(0)
	req.Consumption = flat(0)
	req.InitialBankKWh = 1000
	// no local_share: the generator implicitly keeps the remaining 60%
	req.Remotes.GrupoB = []models.RemoteBRequest{{
		Name: "loja", Enabled: true, Percentage: 40, Consumption: flat(500), Tariff: 0.84, FioB: 0.25,
	}}

	rec := do(t, newRouter(t, nil), http.MethodPost, "/api/v1/grupo-b", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.CalculationResponse](t, rec)
	first := resp.Monthly[0]
	require.Len(t, first.Remote, 1)
	assert.InDelta(t, 291, first.Remote[0].Savings, 1e-9)
	assert.InDelta(t, 400, first.Remote[0].AllocatedKWh, 1e-9)
	assert.InDelta(t, 600, first.BankEndKWh, 1e-9)
}

func TestCalculateGrupoBValidation(t *testing.T) {
	r := newRouter(t, nil)

	t.Run("short series", func(t *testing.T) {
		req := grupoBRequest()
		req.Generation = req.Generation[:11]
		rec := do(t, r, http.MethodPost, "/api/v1/grupo-b", req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[models.ErrorResponse](t, rec)
		assert.Equal(t, models.CodeValidation, body.Error.Code)
		assert.Contains(t, body.Error.Message, "Generation")
	})

	t.Run("horizon out of range", func(t *testing.T) {
		req := grupoBRequest()
		req.Financials.HorizonYears = 51
		rec := do(t, r, http.MethodPost, "/api/v1/grupo-b", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/grupo-b", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, models.CodeInvalidRequest, decode[models.ErrorResponse](t, rec).Error.Code)
	})

	t.Run("missing tariff", func(t *testing.T) {
		req := grupoBRequest()
		req.Tariff = 0
		rec := do(t, r, http.MethodPost, "/api/v1/grupo-b", req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[models.ErrorResponse](t, rec).Error.Message, "tariff")
	})

	t.Run("shares over 100", func(t *testing.T) {
		req := grupoBRequest()
		req.LocalShare = ptr(50)
		req.Remotes.GrupoB = []models.RemoteBRequest{
			{Enabled: true, Percentage: 60, Consumption: flat(100), Tariff: 0.8},
			{Enabled: true, Percentage: 40, Consumption: flat(100), Tariff: 0.8},
		}
		rec := do(t, r, http.MethodPost, "/api/v1/grupo-b", req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[models.ErrorResponse](t, rec)
		assert.Equal(t, models.CodeValidation, body.Error.Code)
		assert.Contains(t, body.Error.Message, "150.00%")
	})

	t.Run("unknown preset", func(t *testing.T) {
		req := grupoBRequest()
		req.Preset = "nope"
		rec := do(t, r, http.MethodPost, "/api/v1/grupo-b", req)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, models.CodeUnknownPreset, decode[models.ErrorResponse](t, rec).Error.Code)
	})
}

func grupoARequest() models.GrupoARequest {
	return models.GrupoARequest{
		Modality:           "azul",
		Financials:         models.FinancialsRequest{Capex: 200000, HorizonYears: 25, DiscountRate: 0.1, TariffInflation: 0.04, Degradation: 0.005},
		Generation:         flat(12000),
		ConsumptionOffPeak: flat(9000),
		ConsumptionPeak:    flat(1500),
		OffPeak:            models.RateRequest{TE: 0.30, TUSD: 0.10, FioB: 0.08},
		Peak:               models.RateRequest{TE: 0.50, TUSD: 0.30, FioB: 0.20},
		Simultaneity:       0.2,
	}
}

func TestCalculateGrupoA(t *testing.T) {
	rec := do(t, newRouter(t, nil), http.MethodPost, "/api/v1/grupo-a", grupoARequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.CalculationResponse](t, rec)
	assert.Equal(t, "grupo_a_azul", resp.Class)
	require.Len(t, resp.Sensitivity, 3)
	assert.Less(t, resp.Sensitivity[0].NPV, resp.Sensitivity[2].NPV)
	assert.Len(t, resp.YearlySummary, 25)
	assert.Len(t, resp.CashFlow, 25)
	assert.Empty(t, resp.Monthly)
	assert.Greater(t, resp.Indicators.LCOE, 0.0)
	assert.Equal(t, 2025, resp.YearlySummary[0].CalendarYear)
}

func TestCalculateGrupoAMissingModality(t *testing.T) {
	req := grupoARequest()
	req.Modality = ""
	rec := do(t, newRouter(t, nil), http.MethodPost, "/api/v1/grupo-a", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[models.ErrorResponse](t, rec).Error.Message, "modality")
}

func TestCalculateIndeterminateIRR(t *testing.T) {
	req := grupoBRequest()
	req.Financials.Capex = 10000
	rec := do(t, newRouter(t, nil), http.MethodPost, "/api/v1/grupo-b", req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.CalculationResponse](t, rec)
	assert.Nil(t, resp.Indicators.PaybackYears)
	assert.Equal(t, models.StatusBeyondHorizon, resp.Indicators.PaybackStatus)
	assert.Equal(t, models.StatusOK, resp.Indicators.IRRStatus)
	assert.Less(t, *resp.Indicators.IRR, 0.0)

	req.Generation = flat(0)
	req.Consumption = flat(0)
	rec = do(t, newRouter(t, nil), http.MethodPost, "/api/v1/grupo-b", req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[models.CalculationResponse](t, rec)
	assert.Nil(t, resp.Indicators.IRR)
	assert.Equal(t, models.StatusIndeterminate, resp.Indicators.IRRStatus)
}

func TestCompareGrupoB(t *testing.T) {
	base := grupoBRequest()
	base.Financials.HorizonYears = 10
	req := models.CompareGrupoBRequest{
		Base: base,
		Variations: []models.GrupoBVariation{
			{Name: "as-is"},
			{Name: "cheaper", Capex: 500},
			{Name: "bad preset", Preset: "missing"},
			{Name: "smaller", GenerationScale: 0.5},
		},
	}
	rec := do(t, newRouter(t, nil), http.MethodPost, "/api/v1/grupo-b/compare", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.CompareResponse](t, rec)
	require.Len(t, resp.Comparison, 4)
	names := []string{}
	for _, r := range resp.Comparison {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"cheaper", "as-is", "smaller", "bad preset"}, names)
	assert.Equal(t, 1, resp.Comparison[0].Rank)
	assert.NotEmpty(t, resp.Comparison[3].Error)
	assert.Zero(t, resp.Comparison[3].Rank)
}

func TestCompareRequiresVariations(t *testing.T) {
	rec := do(t, newRouter(t, nil), http.MethodPost, "/api/v1/grupo-b/compare", models.CompareGrupoBRequest{Base: grupoBRequest()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func presetCatalog(t *testing.T) *data.Catalog {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cemig.yaml"), []byte(`
preset:
  name: cemig-b1
  distributor: CEMIG
  class: grupo_b
  tariff: 0.84
  fio_b: 0.25
  schedule:
    fractions:
      2025: 0.45
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "azul.yaml"), []byte(`
preset:
  name: industria-azul
  class: grupo_a_azul
  off_peak: {te: 0.30, tusd: 0.10, fio_b: 0.08}
  peak: {te: 0.50, tusd: 0.30, fio_b: 0.20}
`), 0o644))
	c := data.NewCatalog(dir, logging.Discard(), nil)
	require.NoError(t, c.Reload())
	return c
}

func TestCalculateWithPreset(t *testing.T) {
	r := newRouter(t, presetCatalog(t))

	req := grupoBRequest()
	req.Preset = "cemig-b1"
	req.Tariff, req.FioB = 0, 0
	req.Schedule = models.ScheduleRequest{}
	rec := do(t, r, http.MethodPost, "/api/v1/grupo-b", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[models.CalculationResponse](t, rec)
	assert.Equal(t, "cemig-b1", resp.Preset)
	assert.InDelta(t, 464.63, resp.Monthly[0].Savings, 1e-9)

	a := grupoARequest()
	a.Preset = "industria-azul"
	a.Modality = ""
	a.OffPeak, a.Peak = models.RateRequest{}, models.RateRequest{}
	rec = do(t, r, http.MethodPost, "/api/v1/grupo-a", a)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "grupo_a_azul", decode[models.CalculationResponse](t, rec).Class)

	// a Grupo A preset cannot drive a Grupo B calculation
	req.Preset = "industria-azul"
	req.Tariff = 0.84
	rec = do(t, r, http.MethodPost, "/api/v1/grupo-b", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresetEndpoints(t *testing.T) {
	r := newRouter(t, presetCatalog(t))

	rec := do(t, r, http.MethodGet, "/api/v1/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Presets []models.PresetInfo `json:"presets"`
	}](t, rec)
	require.Len(t, list.Presets, 2)
	assert.Equal(t, "cemig-b1", list.Presets[0].Name)
	assert.InDelta(t, 0.45, list.Presets[0].Schedule["2025"], 1e-12)
	assert.NotNil(t, list.Presets[1].Peak)

	rec = do(t, r, http.MethodGet, "/api/v1/presets/cemig-b1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/v1/presets/unknown", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.CodeUnknownPreset, decode[models.ErrorResponse](t, rec).Error.Code)

	rec = do(t, newRouter(t, nil), http.MethodGet, "/api/v1/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListClasses(t *testing.T) {
	rec := do(t, newRouter(t, nil), http.MethodGet, "/api/v1/classes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.ClassesResponse](t, rec)
	assert.Equal(t, []string{"grupo_b", "grupo_a_verde", "grupo_a_azul"}, resp.RemoteOrder)
	require.Len(t, resp.Schedule, 10)
	assert.Equal(t, 2025, resp.Schedule[0].Year)
	assert.InDelta(t, 0.45, resp.Schedule[0].Fraction, 1e-12)
	assert.InDelta(t, 0.90, resp.Schedule[9].Fraction, 1e-12)
	assert.Equal(t, 2, resp.Classes[2].Periods)
}
