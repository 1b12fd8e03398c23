package cloture

import (
	"context"
	"time"
)

// StartRequest carries the options of a closing run.
type StartRequest struct {
	// ResumeFromEmployeeID restarts Processing at the given id. When set,
	// the destructive Preparing purge is skipped: the staged rows written
	// by the interrupted run are kept and re-upserted deterministically.
	ResumeFromEmployeeID *int64 `json:"resume_from_employee_id,omitempty"`
}

// Service drives closing runs. Start is asynchronous: the batch executes
// on a single background worker and at most one run is active at a time.
type Service interface {
	Start(ctx context.Context, req StartRequest) (Run, error)
	Get(ctx context.Context, runID string) (Run, error)
	Cancel(ctx context.Context, runID string) error
	// Subscribe returns the progress event channel of a run and a cleanup
	// function. The channel closes when the subscription is cleaned up.
	Subscribe(runID string) (<-chan Progress, func(), error)
}

// StagingStore groups the destructive maintenance operations the closing
// run performs outside the entity repositories.
type StagingStore interface {
	// PurgeStaging removes every draft row already staged for the given
	// periode: leave requests, daily attendance, week overtime and
	// installment schedule drafts. Pay rows (RubriquePaie, NjtRecord,
	// Paie) are purged through their own repositories.
	PurgeStaging(ctx context.Context, periode time.Time) error
	// PurgeDocuments drops stale posting-voucher rows at Finalize.
	PurgeDocuments(ctx context.Context) error
}
