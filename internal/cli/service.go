package cli

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"modelcheck/internal/harness"
	"modelcheck/internal/history"
	"modelcheck/internal/httpapi"
	"modelcheck/internal/model"
	"modelcheck/pkg/types"
)

// service runs the harness for both the CLI and the HTTP API. Runs are
// serialized with a try-lock; a concurrent Run is rejected, not queued.
type service struct {
	runner      *harness.Runner
	store       *history.Store
	metricsFile string
	log         zerolog.Logger

	mu      sync.Mutex
	running atomic.Bool
}

var _ httpapi.Service = (*service)(nil)

func (a *app) newService(pub harness.EventPublisher, store *history.Store) *service {
	log := a.log
	runner := harness.New(harness.FromLibrary(model.NewLibrary(a.baseDir)), harness.Config{
		Records:         a.cfg.Models,
		Formats:         a.cfg.Formats,
		OutputDir:       a.cfg.OutputDir,
		ContinueOnError: a.cfg.ContinueOnError,
		Publisher:       harness.MultiPublisher{pub, harness.LogPublisher{Log: log}},
		Logger:          &log,
	})
	return &service{runner: runner, store: store, metricsFile: a.cfg.MetricsFile, log: log}
}

func (s *service) ListModels() []types.ModelRecord { return s.runner.Records() }

func (s *service) Formats() types.FormatsResponse {
	return types.FormatsResponse{Formats: s.runner.Formats(), Supported: model.Formats()}
}

func (s *service) Ready() bool { return !s.running.Load() }

// Run executes one harness run, records it and exports metrics.
func (s *service) Run(ctx context.Context) (types.RunReport, error) {
	if !s.mu.TryLock() {
		return types.RunReport{}, httpapi.ErrRunInProgress
	}
	defer s.mu.Unlock()
	s.running.Store(true)
	defer s.running.Store(false)

	rep := s.runner.Run(ctx).Report()
	if s.store != nil {
		// Record even when the run was canceled.
		if err := s.store.Record(context.WithoutCancel(ctx), rep); err != nil {
			s.log.Error().Err(err).Str("run_id", rep.RunID).Msg("record run history")
		}
	}
	if s.metricsFile != "" {
		if err := harness.WriteMetricsFile(s.metricsFile); err != nil {
			s.log.Error().Err(err).Str("path", s.metricsFile).Msg("write metrics file")
		}
	}
	return rep, nil
}

func (s *service) History(ctx context.Context, limit int) ([]types.RunSummary, error) {
	if s.store == nil {
		return nil, httpapi.ErrHistoryDisabled
	}
	return s.store.List(ctx, limit)
}

func (s *service) RunFailures(ctx context.Context, runID string) ([]types.FailureReport, error) {
	if s.store == nil {
		return nil, httpapi.ErrHistoryDisabled
	}
	return s.store.Failures(ctx, runID)
}

// openHistory opens the configured store, or returns nil when history is off.
func (a *app) openHistory() (*history.Store, error) {
	if a.cfg.HistoryDB == "" {
		return nil, nil
	}
	return history.Open(a.cfg.HistoryDB)
}
