package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelcheck/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.ModelRecord
	Formats() types.FormatsResponse
	// Run executes one harness run. It returns ErrRunInProgress when
	// another run is active.
	Run(ctx context.Context) (types.RunReport, error)
	// History lists recorded runs, most recent first. It returns
	// ErrHistoryDisabled when no store is configured.
	History(ctx context.Context, limit int) ([]types.RunSummary, error)
	RunFailures(ctx context.Context, runID string) ([]types.FailureReport, error)
	Ready() bool
}

type handlers struct {
	svc  Service
	base context.Context
}

func NewMux(svc Service, opts Options) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc, base: opts.BaseContext}
	r.Get("/models", h.models)
	r.Get("/formats", h.formats)
	r.Post("/runs", h.createRun)
	r.Get("/runs", h.listRuns)
	r.Get("/runs/{runID}/failures", h.runFailures)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	if opts.Swagger {
		MountSwagger(r)
	}
	return r
}

// models godoc
// @Summary      List models
// @Description  Returns the model registry used by runs, in run order.
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Router       /models [get]
func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	models := h.svc.ListModels()
	if models == nil {
		models = []types.ModelRecord{}
	}
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: models})
}

// formats godoc
// @Summary      List formats
// @Description  Returns the configured save formats and every format the provider supports.
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.FormatsResponse
// @Router       /formats [get]
func (h *handlers) formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Formats())
}

// createRun godoc
// @Summary      Run the harness
// @Description  Runs the size and save phases once and returns the report.
// @Tags         runs
// @Produce      json
// @Success      200  {object}  types.RunReport
// @Failure      422  {object}  types.RunReport
// @Failure      429  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /runs [post]
func (h *handlers) createRun(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withBase(h.base, r.Context())
	defer cancel()

	rep, err := h.svc.Run(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}
	status := http.StatusOK
	if !rep.OK() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, rep)
}

// listRuns godoc
// @Summary      List recorded runs
// @Tags         runs
// @Produce      json
// @Param        limit  query     int  false  "maximum runs to return"  default(20)
// @Success      200    {object}  types.RunsResponse
// @Failure      400    {object}  types.ErrorResponse
// @Failure      404    {object}  types.ErrorResponse
// @Router       /runs [get]
func (h *handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := DefaultRunsLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunsLimit)
	}
	runs, err := h.svc.History(r.Context(), limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	if runs == nil {
		runs = []types.RunSummary{}
	}
	writeJSON(w, http.StatusOK, types.RunsResponse{Runs: runs})
}

// runFailures godoc
// @Summary      List the failures of a recorded run
// @Tags         runs
// @Produce      json
// @Param        runID  path      string  true  "run id"
// @Success      200    {array}   types.FailureReport
// @Failure      404    {object}  types.ErrorResponse
// @Router       /runs/{runID}/failures [get]
func (h *handlers) runFailures(w http.ResponseWriter, r *http.Request) {
	fs, err := h.svc.RunFailures(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	if fs == nil {
		fs = []types.FailureReport{}
	}
	writeJSON(w, http.StatusOK, fs)
}

func (h *handlers) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("run_in_progress")
	}
	writeJSONError(w, status, err.Error())
}
