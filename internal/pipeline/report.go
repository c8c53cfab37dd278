package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// clock is the package time source so tests can freeze run timestamps.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for run reports. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// RunReport summarizes one pipeline run for logs, export headers, and the
// operational HTTP surface.
type RunReport struct {
	RunID      string    `json:"run_id"`
	Pipeline   string    `json:"pipeline"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Rows       int       `json:"rows"`
	Succeeded  bool      `json:"succeeded"`
}

func startReport(pipeline string) RunReport {
	return RunReport{
		RunID:     uuid.NewString(),
		Pipeline:  pipeline,
		StartedAt: clock.Now().UTC(),
	}
}

func (r *RunReport) finish(rows int, succeeded bool) {
	r.FinishedAt = clock.Now().UTC()
	r.Rows = rows
	r.Succeeded = succeeded
}

// Duration is the wall time of the run.
func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
