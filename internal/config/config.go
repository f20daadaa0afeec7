package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pv-viability/internal/model"

	"gopkg.in/yaml.v3"
)

// PresetFile is the on-disk tariff preset shape (YAML).
type PresetFile struct {
	// Optional: inherit from another preset file (e.g. a distributor's base tariff).
	// Fields set in Preset override the inherited ones.
	Extends string `yaml:"extends"`
	Preset  Preset `yaml:"preset"`
}

// Preset is a named set of tariff parameters for one distributor and class.
type Preset struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Distributor string         `yaml:"distributor"`
	Class       string         `yaml:"class"`
	Tariff      float64        `yaml:"tariff"`
	FioB        float64        `yaml:"fio_b"`
	OffPeak     RateConfig     `yaml:"off_peak"`
	Peak        RateConfig     `yaml:"peak"`
	Schedule    ScheduleConfig `yaml:"schedule"`
}

type RateConfig struct {
	TE   float64 `yaml:"te"`
	TUSD float64 `yaml:"tusd"`
	FioB float64 `yaml:"fio_b"`
}

type ScheduleConfig struct {
	BaseYear    int             `yaml:"base_year"`
	Fractions   map[int]float64 `yaml:"fractions"`
	BeforeFirst string          `yaml:"before_first"`
}

func LoadPreset(path string) (*Preset, error) {
	p, err := LoadPresetUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// LoadPresetUnchecked loads and merges a preset, but does not validate it.
func LoadPresetUnchecked(path string) (*Preset, error) {
	return loadPresetFile(path, 0)
}

const maxExtendsDepth = 8

func loadPresetFile(path string, depth int) (*Preset, error) {
	if depth > maxExtendsDepth {
		return nil, fmt.Errorf("preset %s: extends chain too deep", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f PresetFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("preset %s: %w", filepath.Base(path), err)
	}
	if f.Extends == "" {
		return &f.Preset, nil
	}

	basePath := f.Extends
	if !filepath.IsAbs(basePath) {
		// Relative to the preset file first, then to the working directory.
		cand := filepath.Join(filepath.Dir(path), basePath)
		if _, err := os.Stat(cand); err == nil {
			basePath = cand
		}
	}
	base, err := loadPresetFile(basePath, depth+1)
	if err != nil {
		return nil, err
	}
	merged := MergePreset(*base, f.Preset)
	return &merged, nil
}

func (p *Preset) Validate() error {
	if p == nil {
		return errors.New("preset is nil")
	}
	if p.Name == "" {
		return errors.New("preset.name is required")
	}
	class, err := model.ParseConsumerClass(p.Class)
	if err != nil {
		return err
	}
	if class.IsGrupoA() {
		if err := p.OffPeak.ToModel().Validate(); err != nil {
			return fmt.Errorf("off_peak: %w", err)
		}
		if err := p.Peak.ToModel().Validate(); err != nil {
			return fmt.Errorf("peak: %w", err)
		}
	} else {
		if !(p.Tariff > 0) {
			return errors.New("tariff must be > 0")
		}
		if p.FioB < 0 {
			return errors.New("fio_b must be >= 0")
		}
	}
	if p.Schedule.BaseYear < 0 {
		return errors.New("schedule: base_year must be >= 0")
	}
	for y, f := range p.Schedule.Fractions {
		if f < 0 || f > 1 {
			return fmt.Errorf("schedule: fraction for %d must be in [0, 1]", y)
		}
	}
	if _, err := model.ParseBeforeFirstPolicy(p.Schedule.BeforeFirst); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	return nil
}

func (p Preset) ConsumerClass() model.ConsumerClass {
	return model.ConsumerClass(p.Class)
}

func (r RateConfig) ToModel() model.PeriodRate {
	return model.PeriodRate{TE: r.TE, TUSD: r.TUSD, FioB: r.FioB}
}

func (r RateConfig) IsZero() bool {
	return r == RateConfig{}
}

// ToModel resolves the preset schedule, falling back to the given fractions
// and base year for anything the preset leaves unset.
func (s ScheduleConfig) ToModel(fallback map[int]float64, fallbackBase int) (model.FioBSchedule, error) {
	base := s.BaseYear
	if base == 0 {
		base = fallbackBase
	}
	fractions := s.Fractions
	if len(fractions) == 0 {
		fractions = fallback
	}
	policy, err := model.ParseBeforeFirstPolicy(s.BeforeFirst)
	if err != nil {
		return model.FioBSchedule{}, err
	}
	return model.NewFioBSchedule(base, fractions, policy)
}

// MergePreset overlays non-zero fields from override onto base.
// This is used for extends chains and for request-level overrides.
func MergePreset(base, override Preset) Preset {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Description != "" {
		out.Description = override.Description
	}
	if override.Distributor != "" {
		out.Distributor = override.Distributor
	}
	if override.Class != "" {
		out.Class = override.Class
	}
	if override.Tariff != 0 {
		out.Tariff = override.Tariff
	}
	if override.FioB != 0 {
		out.FioB = override.FioB
	}
	out.OffPeak = mergeRate(base.OffPeak, override.OffPeak)
	out.Peak = mergeRate(base.Peak, override.Peak)
	if override.Schedule.BaseYear != 0 {
		out.Schedule.BaseYear = override.Schedule.BaseYear
	}
	if len(override.Schedule.Fractions) > 0 {
		out.Schedule.Fractions = override.Schedule.Fractions
	}
	if override.Schedule.BeforeFirst != "" {
		out.Schedule.BeforeFirst = override.Schedule.BeforeFirst
	}
	return out
}

func mergeRate(base, override RateConfig) RateConfig {
	out := base
	if override.TE != 0 {
		out.TE = override.TE
	}
	if override.TUSD != 0 {
		out.TUSD = override.TUSD
	}
	if override.FioB != 0 {
		out.FioB = override.FioB
	}
	return out
}
