package recorder

import (
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/portfolio"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSummary(_ model.Summary) error          { return nil }
func (n *NoopRecorder) RecordRefresh(_ *portfolio.BatchReport) error { return nil }
func (n *NoopRecorder) Close() error                                 { return nil }
