package recorder

import "BursaDaily/internal/model"

// Run outcome labels.
const (
	OutcomeNoReports  = "NO_REPORTS"
	OutcomeCompleted  = "COMPLETED"
	OutcomeIncomplete = "INCOMPLETE"
)

// RunSummary describes one pipeline run for the audit trail.
type RunSummary struct {
	Outcome string
	Total   int
	Sent    int
}

// Recorder persists run history for later inspection. It is write-only
// observability: nothing in the pipeline reads it back, so recorded state
// never influences discovery or delivery.
type Recorder interface {
	RecordRun(sum *RunSummary) error
	RecordReport(rec *model.ReportRecord) error
	Close() error
}
