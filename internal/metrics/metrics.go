package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so independent servers (and tests) never collide.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	calculationsTotal   *prometheus.CounterVec
	calculationDuration *prometheus.HistogramVec
	irrIndeterminate    *prometheus.CounterVec
	presetsLoaded       prometheus.Gauge
	presetReloads       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		calculationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pv_calculations_total",
			Help: "Viability calculations by consumer class and outcome.",
		}, []string{"class", "outcome"}),
		calculationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pv_calculation_duration_seconds",
			Help:    "Histogram of viability calculation durations by consumer class.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"class"}),
		irrIndeterminate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pv_irr_indeterminate_total",
			Help: "Calculations whose IRR could not be determined, by reason.",
		}, []string{"reason"}),
		presetsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pv_presets_loaded",
			Help: "Tariff presets currently available.",
		}),
		presetReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pv_preset_reloads_total",
			Help: "Preset catalog reloads by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.calculationsTotal,
		m.calculationDuration,
		m.irrIndeterminate,
		m.presetsLoaded,
		m.presetReloads,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Calculation records one engine run. outcome is "ok" or an error code.
func (m *Metrics) Calculation(class, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.calculationsTotal.WithLabelValues(class, outcome).Inc()
	m.calculationDuration.WithLabelValues(class).Observe(d.Seconds())
}

func (m *Metrics) IRRIndeterminate(reason string) {
	if m == nil {
		return
	}
	m.irrIndeterminate.WithLabelValues(reason).Inc()
}

func (m *Metrics) PresetsReloaded(n int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.presetReloads.WithLabelValues("error").Inc()
	} else {
		m.presetReloads.WithLabelValues("ok").Inc()
	}
	m.presetsLoaded.Set(float64(n))
}
