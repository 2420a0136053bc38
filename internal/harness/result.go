package harness

import (
	"errors"
	"fmt"
	"time"

	"modelcheck/internal/model"
	"modelcheck/pkg/types"
)

// Status is the collapsed outcome of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Phase names the stage a step belongs to.
type Phase string

const (
	PhaseSize Phase = "size"
	PhaseSave Phase = "save"
	// PhaseRun covers failures outside a single model step (cancellation between steps).
	PhaseRun Phase = "run"
)

// KindCanceled marks steps cut short by context cancellation.
const KindCanceled model.ErrorKind = "canceled"

// Failure is one failed step with the record and format it concerned.
type Failure struct {
	Phase  Phase
	Record types.ModelRecord
	Format string
	Path   string
	Kind   model.ErrorKind
	Err    error
}

func (f Failure) Error() string {
	switch {
	case f.Format != "":
		return fmt.Sprintf("%s %s as %s (%s): %v", f.Phase, f.Record.Key, f.Format, f.Path, f.Err)
	case f.Record.Key != "":
		return fmt.Sprintf("%s %s: %v", f.Phase, f.Record.Key, f.Err)
	default:
		return fmt.Sprintf("%s: %v", f.Phase, f.Err)
	}
}

func (f Failure) Unwrap() error { return f.Err }

// Result is the outcome of one Run.
type Result struct {
	RunID      string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	Models     int
	Formats    []string
	Sizes      []types.SizeReport
	Saved      []types.SavedFile
	Failures   []Failure
	Preflight  types.PreflightReport
}

// OK reports whether every step succeeded.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// canceled reports whether a cancellation between steps was already recorded.
func (r Result) canceled() bool {
	for _, f := range r.Failures {
		if f.Phase == PhaseRun && f.Kind == KindCanceled {
			return true
		}
	}
	return false
}

// ExitCode maps the status to a process exit code: 0 on success, 1 otherwise.
func (r Result) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// Err joins all step failures, or returns nil for a successful run.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Report converts r to its JSON view.
func (r Result) Report() types.RunReport {
	rep := types.RunReport{
		RunID:      r.RunID,
		Status:     string(r.Status),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Models:     r.Models,
		Formats:    append([]string{}, r.Formats...),
		Sizes:      append([]types.SizeReport{}, r.Sizes...),
		Saved:      append([]types.SavedFile{}, r.Saved...),
		Failures:   make([]types.FailureReport, 0, len(r.Failures)),
		Preflight:  r.Preflight,
	}
	for _, f := range r.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		rep.Failures = append(rep.Failures, types.FailureReport{
			Phase:   string(f.Phase),
			Key:     f.Record.Key,
			Label:   f.Record.Label,
			Format:  f.Format,
			Path:    f.Path,
			Kind:    string(f.Kind),
			Message: msg,
		})
	}
	return rep
}
