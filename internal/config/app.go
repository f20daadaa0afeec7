package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"pv-viability/internal/logging"
	"pv-viability/internal/model"
)

type AppConfigApi struct {
	Address string
	Port    int
	// "development" or "production"; production switches gin to release mode.
	Env         string
	CorsOrigins []string `mapstructure:"cors_origins"`
}

func (a AppConfigApi) Addr() string {
	return fmt.Sprintf("%s:%d", a.Address, a.Port)
}

func (a AppConfigApi) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

type AppConfigLogging struct {
	// "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	Level string
	// "text" (tint console) or "json", default: "text"
	Format string
}

func (l AppConfigLogging) SlogLevel() slog.Level {
	return logging.LevelFromString(l.Level)
}

type AppConfigCalculation struct {
	// Calendar year of project year 1 when a request does not set one.
	BaseYear int `mapstructure:"base_year"`
	// Year -> Fio B fraction. Keys are strings because they come from YAML/env maps.
	FioBSchedule           map[string]float64 `mapstructure:"fio_b_schedule"`
	BeforeFirst            string             `mapstructure:"before_first"`
	SensitivityMultipliers []float64          `mapstructure:"sensitivity_multipliers"`
	// Upper bound on variations evaluated at once by the compare endpoint.
	CompareConcurrency int `mapstructure:"compare_concurrency"`
}

// Fractions parses the configured schedule keys into calendar years.
// An empty schedule means the Law 14.300 ramp.
func (c AppConfigCalculation) Fractions() (map[int]float64, error) {
	if len(c.FioBSchedule) == 0 {
		return model.Law14300Ramp(), nil
	}
	out := make(map[int]float64, len(c.FioBSchedule))
	for k, v := range c.FioBSchedule {
		y, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("fio_b_schedule: bad year %q", k)
		}
		out[y] = v
	}
	return out, nil
}

// Schedule resolves the default schedule for baseYear (0 uses BaseYear).
func (c AppConfigCalculation) Schedule(baseYear int) (model.FioBSchedule, error) {
	fractions, err := c.Fractions()
	if err != nil {
		return model.FioBSchedule{}, err
	}
	policy, err := model.ParseBeforeFirstPolicy(c.BeforeFirst)
	if err != nil {
		return model.FioBSchedule{}, err
	}
	if baseYear == 0 {
		baseYear = c.BaseYear
	}
	return model.NewFioBSchedule(baseYear, fractions, policy)
}

type AppConfigPresets struct {
	// Directory of *.yaml preset files; empty disables presets.
	Dir string
	// Reload presets when files in Dir change.
	Watch bool
}

type AppConfig struct {
	Api         AppConfigApi         `mapstructure:"api"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
	Calculation AppConfigCalculation `mapstructure:"calculation"`
	Presets     AppConfigPresets     `mapstructure:"presets"`
}

func (c *AppConfig) Validate() error {
	if c.Api.Port <= 0 || c.Api.Port > 65535 {
		return fmt.Errorf("api.port out of range: %d", c.Api.Port)
	}
	if _, err := c.Calculation.Schedule(0); err != nil {
		return fmt.Errorf("calculation: %w", err)
	}
	for _, m := range c.Calculation.SensitivityMultipliers {
		if !(m > 0) {
			return fmt.Errorf("calculation.sensitivity_multipliers: %g must be > 0", m)
		}
	}
	if c.Calculation.CompareConcurrency < 1 {
		return errors.New("calculation.compare_concurrency must be >= 1")
	}
	switch strings.ToLower(c.Logging.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.address", "")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.env", "development")
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", logging.FormatText)
	v.SetDefault("calculation.base_year", 2025)
	v.SetDefault("calculation.before_first", string(model.BeforeFirstZero))
	v.SetDefault("calculation.sensitivity_multipliers", []float64{0.8, 0.9, 1.0, 1.1, 1.2})
	v.SetDefault("calculation.compare_concurrency", 4)
	v.SetDefault("presets.dir", "")
	v.SetDefault("presets.watch", false)
}

// Load reads the application config. An explicit path must exist; without one,
// config/config.yaml is optional and defaults plus environment apply.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
