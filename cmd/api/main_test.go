package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-viability/internal/config"
	"pv-viability/internal/logging"
	"pv-viability/internal/metrics"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Api: config.AppConfigApi{Port: 8080, CorsOrigins: []string{"*"}},
		Calculation: config.AppConfigCalculation{
			BaseYear:           2025,
			BeforeFirst:        "zero",
			CompareConcurrency: 2,
		},
	}
}

func TestRouterWiring(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	r := newRouter(testConfig(), nil, m, logging.Discard())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/classes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/v1/classes",status="200"} 1`)
}
