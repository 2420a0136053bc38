package harness

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"modelcheck/internal/common/fsutil"
	"modelcheck/internal/model"
	"modelcheck/pkg/types"
)

// Config encapsulates the inputs of a Runner.
type Config struct {
	// Records are visited in order in both phases.
	Records []types.ModelRecord
	// Formats are visited in order in the save phase (outer loop).
	Formats []string
	// OutputDir prefixes every saved path; "" is the working directory.
	OutputDir string
	// ContinueOnError attempts every step and collects all failures instead
	// of stopping at the first one.
	ContinueOnError bool
	Publisher       EventPublisher
	Logger          *zerolog.Logger
}

// Runner executes the size-report and save phases against a Provider.
type Runner struct {
	provider Provider
	cfg      Config
	pub      EventPublisher
	log      zerolog.Logger
}

// New constructs a Runner. Records and formats are copied.
func New(p Provider, cfg Config) *Runner {
	r := &Runner{provider: p, cfg: cfg, pub: cfg.Publisher, log: zerolog.Nop()}
	r.cfg.Records = append([]types.ModelRecord(nil), cfg.Records...)
	r.cfg.Formats = append([]string(nil), cfg.Formats...)
	if r.pub == nil {
		r.pub = noopPublisher{}
	}
	if cfg.Logger != nil {
		r.log = *cfg.Logger
	}
	return r
}

// Records returns a copy of the registry the runner visits.
func (r *Runner) Records() []types.ModelRecord {
	return append([]types.ModelRecord(nil), r.cfg.Records...)
}

// Formats returns a copy of the save formats, in save order.
func (r *Runner) Formats() []string { return append([]string(nil), r.cfg.Formats...) }

// Run executes both phases and returns the aggregated result. By default the
// first failure ends the run, so a size-phase failure skips the save phase.
func (r *Runner) Run(ctx context.Context) Result {
	res := Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Models:    len(r.cfg.Records),
		Formats:   r.Formats(),
	}
	res.Preflight = r.Preflight(ctx)
	r.pub.Publish(Event{Name: EventRunStart, RunID: res.RunID})
	r.log.Debug().Str("run_id", res.RunID).Int("models", res.Models).Strs("formats", res.Formats).
		Str("output_dir", r.cfg.OutputDir).Bool("continue_on_error", r.cfg.ContinueOnError).Msg("harness starting")

	// A cancellation after the last size step is recorded by savePhase's own check.
	if ok := r.sizePhase(ctx, &res); ok || (r.cfg.ContinueOnError && !res.canceled()) {
		r.savePhase(ctx, &res)
	}

	res.FinishedAt = time.Now().UTC()
	res.Status = StatusSuccess
	if len(res.Failures) > 0 {
		res.Status = StatusFailure
	}
	observeRun(res)
	r.pub.Publish(Event{Name: EventRunEnd, RunID: res.RunID, Status: res.Status})
	return res
}

// sizePhase reports the size of every record. It returns false if the run must stop.
func (r *Runner) sizePhase(ctx context.Context, res *Result) bool {
	for _, rec := range r.cfg.Records {
		if err := ctx.Err(); err != nil {
			r.fail(res, Failure{Phase: PhaseRun, Err: err})
			return false
		}
		var size int
		start := time.Now()
		err := r.step(func() error {
			h, err := r.provider.Load(ctx, rec.Key)
			if err != nil {
				return err
			}
			size = h.Size()
			return nil
		})
		observeStep(PhaseSize, err, time.Since(start))
		if err != nil {
			r.fail(res, Failure{Phase: PhaseSize, Record: rec, Err: err})
			if r.cfg.ContinueOnError {
				continue
			}
			return false
		}
		modelSize.WithLabelValues(rec.Key).Set(float64(size))
		res.Sizes = append(res.Sizes, types.SizeReport{Key: rec.Key, Label: rec.Label, Size: size})
		r.pub.Publish(Event{Name: EventSize, RunID: res.RunID, Record: rec, Size: size})
	}
	return true
}

// savePhase saves every record in every format, formats outermost.
func (r *Runner) savePhase(ctx context.Context, res *Result) {
	for _, ext := range r.cfg.Formats {
		for _, rec := range r.cfg.Records {
			if err := ctx.Err(); err != nil {
				r.fail(res, Failure{Phase: PhaseRun, Err: err})
				return
			}
			path := filepath.Join(r.cfg.OutputDir, rec.OutputPath(ext))
			start := time.Now()
			err := r.step(func() error {
				h, err := r.provider.Load(ctx, rec.Key)
				if err != nil {
					return err
				}
				return h.Save(path)
			})
			observeStep(PhaseSave, err, time.Since(start))
			if err != nil {
				r.fail(res, Failure{Phase: PhaseSave, Record: rec, Format: ext, Path: path, Err: err})
				if r.cfg.ContinueOnError {
					continue
				}
				return
			}
			res.Saved = append(res.Saved, types.SavedFile{Key: rec.Key, Format: ext, Path: path, Bytes: fsutil.FileSize(path)})
			r.pub.Publish(Event{Name: EventSaved, RunID: res.RunID, Record: rec, Format: ext, Path: path})
		}
	}
}

// step runs fn, turning a provider panic into a provider error.
func (r *Runner) step(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = model.ErrProvider(fmt.Sprintf("provider panic: %v", p), nil)
		}
	}()
	return fn()
}

func (r *Runner) fail(res *Result, f Failure) {
	f.Kind = classify(f.Err)
	res.Failures = append(res.Failures, f)
	r.pub.Publish(Event{
		Name:   EventFailed,
		RunID:  res.RunID,
		Record: f.Record,
		Format: f.Format,
		Path:   f.Path,
		Phase:  f.Phase,
		Err:    f.Err,
	})
}

func classify(err error) model.ErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return model.KindOf(err)
}
