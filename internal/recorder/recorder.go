package recorder

import (
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/portfolio"
)

// Recorder persists portfolio history for later inspection. The core never
// depends on it for correctness; failures are logged and ignored.
type Recorder interface {
	RecordSummary(summary model.Summary) error
	RecordRefresh(report *portfolio.BatchReport) error
	Close() error
}
