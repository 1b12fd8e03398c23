package paie

import (
	"context"
	"time"
)

// MotifRepository serves pay-run reference data.
type MotifRepository interface {
	GetByID(ctx context.Context, id int64) (Motif, error)
	// GetParDefaut returns the "normal" motif used by the closing run.
	GetParDefaut(ctx context.Context) (Motif, error)
	List(ctx context.Context) ([]Motif, error)
}

// RubriqueRepository serves pay-code definitions. Upsert exists only for
// the lazy creation of recall variants and must be idempotent by id.
type RubriqueRepository interface {
	GetByID(ctx context.Context, id int64) (Rubrique, error)
	Upsert(ctx context.Context, rubrique Rubrique) (Rubrique, error)
	List(ctx context.Context) ([]Rubrique, error)
}

// RubriquePaieRepository stores computed pay lines under the
// one-row-per-key invariant. Upsert is locate-by-key, update-if-found,
// else insert.
type RubriquePaieRepository interface {
	Get(ctx context.Context, key RubriquePaieKey) (RubriquePaie, error)
	Upsert(ctx context.Context, line RubriquePaie) (RubriquePaie, error)
	// ListRange returns the lines for (employee, motif) with periode in
	// [du, au], any rubrique.
	ListRange(ctx context.Context, employeeID, motifID int64, du, au time.Time) ([]RubriquePaie, error)
	// ListFixes returns the fixe-flagged lines of an employee for one
	// periode across all motifs, for carry-forward at closing.
	ListFixes(ctx context.Context, employeeID int64, periode time.Time) ([]RubriquePaie, error)
	DeletePeriode(ctx context.Context, periode time.Time) error
}

// NjtRepository stores worked-unit counts, one row per key.
type NjtRepository interface {
	Get(ctx context.Context, key NjtKey) (NjtRecord, error)
	Upsert(ctx context.Context, record NjtRecord) (NjtRecord, error)
	DeletePeriode(ctx context.Context, periode time.Time) error
}

// PaieRepository stores aggregated payslips. Replace deletes any existing
// row for the key and inserts the new one, making recomputation
// idempotent.
type PaieRepository interface {
	Get(ctx context.Context, key NjtKey) (Paie, error)
	Replace(ctx context.Context, p Paie) error
	DeletePeriode(ctx context.Context, periode time.Time) error
}
