package pdfedit

import (
	"context"
	"time"
)

// RunRecord summarizes a finished run for a Recorder.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Source     string
	Output     string
	Strategy   Strategy
	Stage      Stage // last stage entered; StageCleanup on success
	Err        error // nil on success
	Pages      int
}

// Duration is the wall time of the run.
func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Recorder persists run records. Record errors are logged and never fail
// the run.
type Recorder interface {
	Record(ctx context.Context, rec RunRecord) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, rec RunRecord) error

// Record calls f(ctx, rec).
func (f RecorderFunc) Record(ctx context.Context, rec RunRecord) error {
	return f(ctx, rec)
}
