package harness

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"modelcheck/pkg/types"
)

// Event names published by the runner.
const (
	EventRunStart = "run.start"
	EventSize     = "size"
	EventSaved    = "saved"
	EventFailed   = "failed"
	EventRunEnd   = "run.end"
)

// Event is one structured report from a run. Fields not relevant to Name are zero.
type Event struct {
	Name   string
	RunID  string
	Record types.ModelRecord
	Size   int
	Format string
	Path   string
	Phase  Phase
	Err    error
	Status Status
}

// EventPublisher receives events from the runner. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// MultiPublisher fans an event out to every publisher in order.
type MultiPublisher []EventPublisher

func (m MultiPublisher) Publish(e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(e)
		}
	}
}

// ConsolePublisher writes one "<label> size: <size>" line per size event.
type ConsolePublisher struct {
	W io.Writer
}

func (c ConsolePublisher) Publish(e Event) {
	if e.Name != EventSize || c.W == nil {
		return
	}
	_, _ = fmt.Fprintf(c.W, "%s size: %d\n", e.Record.Label, e.Size)
}

// LogPublisher logs every event through zerolog.
type LogPublisher struct {
	Log zerolog.Logger
}

func (p LogPublisher) Publish(e Event) {
	switch e.Name {
	case EventRunStart:
		p.Log.Info().Str("run_id", e.RunID).Msg("run start")
	case EventSize:
		p.Log.Debug().Str("run_id", e.RunID).Str("key", e.Record.Key).Int("size", e.Size).Msg("model size")
	case EventSaved:
		p.Log.Debug().Str("run_id", e.RunID).Str("key", e.Record.Key).Str("format", e.Format).Str("path", e.Path).Msg("model saved")
	case EventFailed:
		z := p.Log.Error().Str("run_id", e.RunID).Str("phase", string(e.Phase)).Str("key", e.Record.Key)
		if e.Format != "" {
			z = z.Str("format", e.Format).Str("path", e.Path)
		}
		z.Err(e.Err).Msg("step failed")
	case EventRunEnd:
		p.Log.Info().Str("run_id", e.RunID).Str("status", string(e.Status)).Msg("run end")
	}
}
