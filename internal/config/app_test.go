package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-viability/internal/model"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Api.Port)
	assert.Equal(t, ":8080", c.Api.Addr())
	assert.False(t, c.Api.IsProduction())
	assert.Equal(t, slog.LevelInfo, c.Logging.SlogLevel())
	assert.Equal(t, 4, c.Calculation.CompareConcurrency)
	assert.Equal(t, []float64{0.8, 0.9, 1.0, 1.1, 1.2}, c.Calculation.SensitivityMultipliers)

	s, err := c.Calculation.Schedule(0)
	require.NoError(t, err)
	assert.Equal(t, 2025, s.BaseYear)
	assert.Equal(t, model.BeforeFirstZero, s.BeforeFirst)
	assert.InDelta(t, 0.45, s.FractionForProjectYear(1), 1e-12)
	assert.InDelta(t, 0.90, s.FractionForProjectYear(20), 1e-12)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
api:
  address: 127.0.0.1
  port: 9000
  env: production
logging:
  level: debug
  format: json
calculation:
  base_year: 2027
  before_first: earliest
  fio_b_schedule:
    "2028": 0.9
    "2029": 1.0
presets:
  dir: ./presets
  watch: true
`)
	t.Setenv("API_PORT", "9100")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", c.Api.Addr())
	assert.True(t, c.Api.IsProduction())
	assert.Equal(t, slog.LevelDebug, c.Logging.SlogLevel())
	assert.Equal(t, "./presets", c.Presets.Dir)
	assert.True(t, c.Presets.Watch)

	s, err := c.Calculation.Schedule(0)
	require.NoError(t, err)
	assert.Equal(t, 2027, s.BaseYear)
	// before the first entry, earliest applies
	assert.InDelta(t, 0.9, s.FractionForProjectYear(1), 1e-12)
	assert.InDelta(t, 1.0, s.FractionForProjectYear(5), 1e-12)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestAppConfigValidate(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(writeFile(t, dir, "bad.yaml", "logging:\n  format: xml\n"))
	assert.ErrorContains(t, err, "logging.format")

	_, err = Load(writeFile(t, dir, "bad2.yaml", "calculation:\n  fio_b_schedule:\n    abc: 0.5\n"))
	assert.ErrorContains(t, err, "bad year")

	_, err = Load(writeFile(t, dir, "bad3.yaml", "calculation:\n  compare_concurrency: 0\n"))
	assert.Error(t, err)
}

func TestDefaultFractionsAreNotShared(t *testing.T) {
	var c AppConfigCalculation
	first, err := c.Fractions()
	require.NoError(t, err)
	first[2025] = 0

	second, err := c.Fractions()
	require.NoError(t, err)
	assert.Equal(t, 0.45, second[2025])
}
