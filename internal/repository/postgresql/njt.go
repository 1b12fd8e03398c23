package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/pkg/database"
)

type njtRepository struct {
	db *database.DB
}

func NewNjtRepository(db *database.DB) paie.NjtRepository {
	return &njtRepository{db: db}
}

func (r *njtRepository) Get(ctx context.Context, key paie.NjtKey) (paie.NjtRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, periode, motif_id, njt
		FROM njt
		WHERE employee_id = $1 AND periode = $2 AND motif_id = $3
	`

	var rec paie.NjtRecord
	err := q.QueryRow(ctx, query, key.EmployeeID, paie.NormalizePeriode(key.Periode), key.MotifID).
		Scan(&rec.EmployeeID, &rec.Periode, &rec.MotifID, &rec.Njt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return paie.NjtRecord{}, paie.ErrNjtNotFound
		}
		return paie.NjtRecord{}, fmt.Errorf("failed to get njt: %w", err)
	}
	rec.Periode = paie.NormalizePeriode(rec.Periode)
	return rec, nil
}

func (r *njtRepository) Upsert(ctx context.Context, record paie.NjtRecord) (paie.NjtRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO njt (employee_id, periode, motif_id, njt)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, periode, motif_id) DO UPDATE SET
			njt = EXCLUDED.njt
		RETURNING employee_id, periode, motif_id, njt
	`

	var saved paie.NjtRecord
	err := q.QueryRow(ctx, query,
		record.EmployeeID, paie.NormalizePeriode(record.Periode), record.MotifID, record.Njt,
	).Scan(&saved.EmployeeID, &saved.Periode, &saved.MotifID, &saved.Njt)
	if err != nil {
		return paie.NjtRecord{}, fmt.Errorf("failed to upsert njt: %w", err)
	}
	saved.Periode = paie.NormalizePeriode(saved.Periode)
	return saved, nil
}

func (r *njtRepository) DeletePeriode(ctx context.Context, periode time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM njt WHERE periode = $1`, paie.NormalizePeriode(periode))
	if err != nil {
		return fmt.Errorf("failed to delete njt for periode: %w", err)
	}
	return nil
}
