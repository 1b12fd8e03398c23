package engagement

import (
	"context"
	"time"
)

// EngagementRepository stores loans and their closing-time snapshots.
type EngagementRepository interface {
	ListActiveByEmployee(ctx context.Context, employeeID int64) ([]Engagement, error)
	Update(ctx context.Context, e Engagement) error
	// AppendHistory writes one snapshot row. Duplicate (employee, periode,
	// engagement) appends are ignored so retried closings stay safe.
	AppendHistory(ctx context.Context, h History) error
	ListHistory(ctx context.Context, employeeID int64, periode time.Time) ([]History, error)
}
