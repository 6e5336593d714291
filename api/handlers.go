/*
handlers.go - HTTP API handlers for the net-salary engine

PURPOSE:
  Exposes the payroll engine via a REST API. Handles HTTP request and
  response, JSON serialization, and delegates to the engine through the
  memo cache.

ENDPOINTS:
  Computation:
    POST   /api/v1/compute                  Input JSON -> breakdown
    POST   /api/v1/compute/pdf              Input JSON -> payslip PDF
    POST   /api/v1/projection               Net-salary surface around an input

  Rule tables:
    GET    /api/v1/years                    Registered fiscal years
    GET    /api/v1/years/{year}/regions     Regional surtax codes
    GET    /api/v1/years/{year}/municipalities Municipal surtax codes

  Scenarios:
    GET    /api/v1/scenarios                List presets
    GET    /api/v1/scenarios/{id}           Preset input
    POST   /api/v1/scenarios/{id}/compute   Compute a preset

  Cache:
    GET    /api/v1/cache/stats              Memo cache counters
    GET    /api/v1/cache/prune-runs         Prune job history (sqlite only)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Undecodable body
  - 404: Unknown scenario or year
  - 422: Input or range rejected by the engine, unsupported year
  - 500: Internal errors, reported to Sentry

SEE ALSO:
  - dto.go: Request/response data structures
  - errors.go: Status mapping
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/warp/netpay-engine/factory"
	"github.com/warp/netpay-engine/observability"
	"github.com/warp/netpay-engine/payroll"
	"github.com/warp/netpay-engine/projection"
	"github.com/warp/netpay-engine/store/sqlite"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Memo      *payroll.Memo
	Cache     payroll.Cache
	Backend   string
	Projector *projection.Engine
	Metrics   *observability.Metrics
	Log       *zap.Logger
}

// Options configures NewHandler.
type Options struct {
	// Cache backs the memo. Required.
	Cache payroll.Cache
	// Backend names the cache in /cache/stats ("memory", "sqlite").
	Backend string
	// FingerprintSalt is passed to payroll.WithFingerprintSalt when set.
	FingerprintSalt string

	ProjectionWorkers   int
	ProjectionMaxPoints int

	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// NewHandler creates a handler over the registered calculators.
func NewHandler(opts Options) *Handler {
	var memoOpts []payroll.MemoOption
	if opts.FingerprintSalt != "" {
		memoOpts = append(memoOpts, payroll.WithFingerprintSalt(opts.FingerprintSalt))
	}
	projector := projection.New(opts.ProjectionWorkers)
	if opts.ProjectionMaxPoints > 0 {
		projector.MaxPoints = opts.ProjectionMaxPoints
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Memo:      payroll.NewMemo(opts.Cache, memoOpts...),
		Cache:     opts.Cache,
		Backend:   opts.Backend,
		Projector: projector,
		Metrics:   opts.Metrics,
		Log:       log,
	}
}

// =============================================================================
// COMPUTATION HANDLERS
// =============================================================================

// Compute returns the full breakdown of the posted input.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	in, err := factory.DecodeInput(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondCompute(w, r, in)
}

func (h *Handler) respondCompute(w http.ResponseWriter, r *http.Request, in payroll.Input) {
	res, err := h.compute(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ComputeResponse{
		ID:          uuid.NewString(),
		Fingerprint: res.Fingerprint,
		Cached:      res.Cached,
		Result:      res.Output,
	})
}

// ComputePDF renders the breakdown of the posted input as a payslip.
func (h *Handler) ComputePDF(w http.ResponseWriter, r *http.Request) {
	in, err := factory.DecodeInput(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.compute(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	id := uuid.NewString()
	var buf bytes.Buffer
	if err := RenderPayslip(&buf, res.Output, id); err != nil {
		h.fail(w, r, fmt.Errorf("render payslip: %w", err))
		return
	}

	disposition := "attachment"
	if r.URL.Query().Get("mode") == "inline" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="netpay-%d-%s.pdf"`, disposition, res.Output.FiscalYear, id[:8]))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// compute runs the memo and records metrics. Cache failures are logged and
// otherwise ignored.
func (h *Handler) compute(ctx context.Context, in payroll.Input) (payroll.MemoResult, error) {
	start := time.Now()
	res, err := h.Memo.Compute(ctx, in)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		h.Metrics.ObserveComputation(in.FiscalYear, observability.OutcomeOK, elapsed)
	case payroll.IsClientError(err):
		h.Metrics.ObserveComputation(in.FiscalYear, observability.OutcomeClientError, elapsed)
		return res, err
	default:
		h.Metrics.ObserveComputation(in.FiscalYear, observability.OutcomeError, elapsed)
		return res, err
	}

	switch {
	case res.Cached:
		h.Metrics.ObserveCache(observability.CacheHit)
	case res.CacheErr != nil:
		h.Metrics.ObserveCache(observability.CacheError)
		observability.WithContext(ctx, h.Log).Warn("memo cache failure",
			zap.String("fingerprint", res.Fingerprint), zap.Error(res.CacheErr))
	default:
		h.Metrics.ObserveCache(observability.CacheMiss)
	}
	return res, nil
}

// Projection sweeps the posted input over a RAL x welfare grid.
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if len(bytes.TrimSpace(req.Input)) == 0 || string(bytes.TrimSpace(req.Input)) == "null" {
		h.fail(w, r, fmt.Errorf("%w: input is required", ErrBadRequest))
		return
	}
	in, err := factory.ParseInput(req.Input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ralRange := projection.RALRange(in.GrossSalary)
	if req.RALRange != nil {
		ralRange = *req.RALRange
	}
	metricRange := projection.MetricRange(projection.WelfareMetric(in))
	if req.MetricRange != nil {
		metricRange = *req.MetricRange
	}

	start := time.Now()
	surface, err := h.Projector.Sweep(r.Context(), in, ralRange, metricRange)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	points := len(surface.RALs) * len(surface.Metrics)
	h.Metrics.ObserveProjection(points, time.Since(start))

	h.writeJSON(w, r, http.StatusOK, ProjectionResponse{
		ID:      uuid.NewString(),
		Points:  points,
		Surface: &surface,
	})
}

// =============================================================================
// RULE TABLE HANDLERS
// =============================================================================

// ListYears returns the registered fiscal years.
func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, YearsResponse{Years: payroll.Years()})
}

// ListRegions returns the regional surtax codes of a year.
func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	rules, ok := h.rulesFor(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, CodesResponse{Year: rules.Year, Codes: rules.RegionCodes()})
}

// ListMunicipalities returns the municipal surtax codes of a year.
func (h *Handler) ListMunicipalities(w http.ResponseWriter, r *http.Request) {
	rules, ok := h.rulesFor(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, CodesResponse{Year: rules.Year, Codes: rules.MunicipalityCodes()})
}

func (h *Handler) rulesFor(w http.ResponseWriter, r *http.Request) (*payroll.RuleSet, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: year must be a number", ErrBadRequest))
		return nil, false
	}
	calc, err := payroll.Lookup(year)
	if err != nil {
		h.writeJSON(w, r, http.StatusNotFound, errorResponse(err))
		return nil, false
	}
	return calc.Rules(), true
}

// =============================================================================
// CACHE HANDLERS
// =============================================================================

type cacheStatser interface {
	Stats(ctx context.Context) (payroll.CacheStats, error)
}

type pruneRunLister interface {
	GetPruneRuns(ctx context.Context, limit int) ([]sqlite.PruneRun, error)
}

// CacheStats reports the memo cache counters.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Cache.(cacheStatser)
	if !ok {
		h.writeJSON(w, r, http.StatusOK, CacheStatsResponse{Backend: h.Backend})
		return
	}
	stats, err := s.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, CacheStatsResponse{Backend: h.Backend, Stats: stats})
}

// ListPruneRuns returns the prune job history of a sqlite cache.
func (h *Handler) ListPruneRuns(w http.ResponseWriter, r *http.Request) {
	lister, ok := h.Cache.(pruneRunLister)
	if !ok {
		h.writeJSON(w, r, http.StatusOK, PruneRunsResponse{Runs: []sqlite.PruneRun{}})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := lister.GetPruneRuns(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if runs == nil {
		runs = []sqlite.PruneRun{}
	}
	h.writeJSON(w, r, http.StatusOK, PruneRunsResponse{Runs: runs})
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "years": payroll.Years()})
}

// =============================================================================
// HELPERS
// =============================================================================

// writeJSON encodes data as the response body. The status line is already
// sent when encoding fails, so the error is only logged.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		observability.WithContext(r.Context(), h.Log).Error("encode response",
			zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
}

// decodeJSON decodes a request envelope, rejecting unknown fields.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// fail writes err as JSON. Server-side failures are logged and reported.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := observability.WithContext(r.Context(), h.Log)
	if status >= http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		observability.CaptureError(err, map[string]string{
			"route":  routePattern(r),
			"method": r.Method,
		})
	} else {
		log.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	h.writeJSON(w, r, status, errorResponse(err))
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
