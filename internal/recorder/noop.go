package recorder

import "BursaDaily/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunSummary) error { return nil }

func (n *NoopRecorder) RecordReport(_ *model.ReportRecord) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
