package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.HTTPRequest("POST", "/api/v1/grupo-b", 200, 5*time.Millisecond)
	m.HTTPRequest("POST", "/api/v1/grupo-b", 200, 5*time.Millisecond)
	m.Calculation("grupo_b", "ok", time.Millisecond)
	m.IRRIndeterminate("no sign change")
	m.PresetsReloaded(3, nil)
	m.PresetsReloaded(2, errors.New("bad file"))

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="POST",route="/api/v1/grupo-b",status="200"} 2`)
	assert.Contains(t, body, `pv_calculations_total{class="grupo_b",outcome="ok"} 1`)
	assert.Contains(t, body, `pv_irr_indeterminate_total{reason="no sign change"} 1`)
	assert.Contains(t, body, "pv_presets_loaded 2")
	assert.Contains(t, body, `pv_preset_reloads_total{outcome="error"} 1`)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.Calculation("grupo_a_azul", "ok", time.Millisecond)

	assert.Contains(t, scrape(t, m), `pv_calculations_total{class="grupo_a_azul",outcome="ok"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.HTTPRequest("GET", "/", 200, 0)
		m.Calculation("grupo_b", "ok", 0)
		m.IRRIndeterminate("x")
		m.PresetsReloaded(1, nil)
	})
	assert.Nil(t, m.Registry())
}

func TestIndependentInstances(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
