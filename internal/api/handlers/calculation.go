package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"pv-viability/internal/analysis"
	"pv-viability/internal/api/models"
	"pv-viability/internal/cashflow"
	"pv-viability/internal/config"
	"pv-viability/internal/data"
	"pv-viability/internal/metrics"
	"pv-viability/internal/viability"

	"github.com/gin-gonic/gin"
)

// CalculationHandler handles viability calculation requests
type CalculationHandler struct {
	calc    config.AppConfigCalculation
	presets *data.Catalog
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCalculationHandler creates a new calculation handler. presets and m may be nil.
func NewCalculationHandler(calc config.AppConfigCalculation, presets *data.Catalog, m *metrics.Metrics, logger *slog.Logger) *CalculationHandler {
	if calc.CompareConcurrency < 1 {
		calc.CompareConcurrency = 1
	}
	return &CalculationHandler{
		calc:    calc,
		presets: presets,
		metrics: m,
		logger:  logger.With(slog.String("module", "calculation")),
	}
}

func (h *CalculationHandler) evaluator(opts models.CalculationOptions) *viability.Evaluator {
	multipliers := opts.SensitivityMultipliers
	if len(multipliers) == 0 {
		multipliers = h.calc.SensitivityMultipliers
	}
	return viability.NewEvaluator(viability.Options{
		Multipliers: multipliers,
		Sensitivity: opts.Sensitivity,
		Logger:      h.logger,
	})
}

// evaluate runs one scenario and records its outcome.
func (h *CalculationHandler) evaluate(class string, build func() (cashflow.Scenario, error), opts models.CalculationOptions) (*viability.Report, error) {
	start := time.Now()
	rep, err := func() (*viability.Report, error) {
		s, err := build()
		if err != nil {
			return nil, err
		}
		return h.evaluator(opts).Evaluate(s)
	}()
	if err != nil {
		h.metrics.Calculation(class, errorCode(err), time.Since(start))
		return nil, err
	}
	h.metrics.Calculation(string(rep.Class), "ok", time.Since(start))
	if !rep.Indicators.IRR.Converged {
		h.metrics.IRRIndeterminate(rep.Indicators.IRR.Reason)
	}
	return rep, nil
}

// CalculateGrupoB handles POST /api/v1/grupo-b
func (h *CalculationHandler) CalculateGrupoB(c *gin.Context) {
	var req models.GrupoBRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rep, err := h.evaluate("grupo_b", func() (cashflow.Scenario, error) {
		return h.GrupoBScenario(req)
	}, req.Options)
	if err != nil {
		h.logger.Warn("grupo b calculation failed", slog.Any("error", err))
		calculationError(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildResponse(rep, req.Preset, req.Options.IncludeMonthly))
}

// CalculateGrupoA handles POST /api/v1/grupo-a
func (h *CalculationHandler) CalculateGrupoA(c *gin.Context) {
	var req models.GrupoARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rep, err := h.evaluate("grupo_a", func() (cashflow.Scenario, error) {
		return h.GrupoAScenario(req)
	}, req.Options)
	if err != nil {
		h.logger.Warn("grupo a calculation failed", slog.Any("error", err))
		calculationError(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildResponse(rep, req.Preset, req.Options.IncludeMonthly))
}

// CompareGrupoB handles POST /api/v1/grupo-b/compare
func (h *CalculationHandler) CompareGrupoB(c *gin.Context) {
	var req models.CompareGrupoBRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	results, err := h.compare(c.Request.Context(), req)
	if err != nil {
		calculationError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CompareResponse{Comparison: results})
}

// compare evaluates every variation with its own state, then ranks the
// successful ones by NPV. Failed variations are listed last with their error.
func (h *CalculationHandler) compare(ctx context.Context, req models.CompareGrupoBRequest) ([]models.ComparisonResult, error) {
	reports := make([]*viability.Report, len(req.Variations))
	errs := make([]error, len(req.Variations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.calc.CompareConcurrency)
	for i, v := range req.Variations {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			merged := v.Apply(req.Base)
			reports[i], errs[i] = h.evaluate("grupo_b", func() (cashflow.Scenario, error) {
				return h.GrupoBScenario(merged)
			}, merged.Options)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]analysis.Ranked, 0, len(reports))
	var failed []models.ComparisonResult
	for i, v := range req.Variations {
		if errs[i] != nil {
			failed = append(failed, models.ComparisonResult{Name: v.Name, Error: errs[i].Error()})
			continue
		}
		ranked = append(ranked, analysis.Ranked{Name: v.Name, Index: i, Indicators: reports[i].Indicators})
	}

	out := make([]models.ComparisonResult, 0, len(req.Variations))
	for i, r := range analysis.RankByNPV(ranked) {
		ind := buildIndicators(r.Indicators)
		out = append(out, models.ComparisonResult{
			Rank:          i + 1,
			Name:          r.Name,
			Indicators:    &ind,
			YearOneSaving: models.Money(reports[r.Index].YearOne.Savings),
		})
	}
	return append(out, failed...), nil
}
