package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/cloture"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/pkg/database"
)

type stagingStore struct {
	db *database.DB
}

func NewStagingStore(db *database.DB) cloture.StagingStore {
	return &stagingStore{db: db}
}

// PurgeStaging clears the draft tables for one periode in a single
// transaction so an interrupted purge never leaves a half-cleared period.
func (s *stagingStore) PurgeStaging(ctx context.Context, periode time.Time) error {
	return WithTransaction(ctx, s.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, s.db)

		p := paie.NormalizePeriode(periode)

		statements := []string{
			`DELETE FROM conges_drafts WHERE periode = $1`,
			`DELETE FROM pointages_drafts WHERE periode = $1`,
			`DELETE FROM heures_supp_drafts WHERE periode = $1`,
			`DELETE FROM tranches_drafts WHERE periode = $1`,
		}
		for _, stmt := range statements {
			if _, err := q.Exec(ctx, stmt, p); err != nil {
				return fmt.Errorf("failed to purge staging rows: %w", err)
			}
		}
		return nil
	})
}

func (s *stagingStore) PurgeDocuments(ctx context.Context) error {
	q := GetQuerier(ctx, s.db)

	if _, err := q.Exec(ctx, `DELETE FROM pieces_comptables`); err != nil {
		return fmt.Errorf("failed to purge documents: %w", err)
	}
	return nil
}
