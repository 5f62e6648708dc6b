// Package contract defines the configuration surface and the interfaces
// that decouple the analysis core from its collaborators: the model
// backend and the report store.
package contract

import (
	"context"
	"time"

	"github.com/leanlens/leanlens/schema"
)

// ModelClient is the single round trip to a language-model backend.
// It is the only blocking external call in a run; implementations must
// honor ctx cancellation so the per-call timeout can drive fallback.
type ModelClient interface {
	// Complete sends a system instruction and a user prompt, returning
	// the raw model text (expected to be JSON for pipeline stages).
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ReportStore persists analysis run history for later inspection and
// export. Implementations are backed by database/sql (sqlite by default).
type ReportStore interface {
	// BeginRun records the start of an analysis run and returns its ID.
	BeginRun(startTime time.Time, params map[string]any) (int64, error)

	// EndRun finalizes a run with its report summary and loss rows.
	EndRun(runID int64, endTime time.Time, report *schema.AnalysisReport) error

	// GetStatus returns backend information and table sizes.
	GetStatus() (*schema.StoreStatus, error)

	// GetAllRuns returns every recorded run, oldest first.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllLossRecords returns every recorded loss row, oldest first.
	GetAllLossRecords() ([]schema.LossRecord, error)

	// Close releases the underlying database handle.
	Close() error
}
