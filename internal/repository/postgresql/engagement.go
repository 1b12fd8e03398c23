package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/engagement"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/pkg/database"
)

type engagementRepository struct {
	db *database.DB
}

func NewEngagementRepository(db *database.DB) engagement.EngagementRepository {
	return &engagementRepository{db: db}
}

const engagementColumns = `
	id, employee_id, libelle, total, tranche, tranche_courante,
	rembourse, actif, created_at, updated_at
`

func (r *engagementRepository) ListActiveByEmployee(ctx context.Context, employeeID int64) ([]engagement.Engagement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + engagementColumns + `
		FROM engagements
		WHERE employee_id = $1 AND actif = true
		ORDER BY id ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	defer rows.Close()

	var result []engagement.Engagement
	for rows.Next() {
		var e engagement.Engagement
		err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.Libelle, &e.Total, &e.Tranche, &e.TrancheCourante,
			&e.Rembourse, &e.Actif, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *engagementRepository) Update(ctx context.Context, e engagement.Engagement) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE engagements SET
			tranche_courante = $1,
			rembourse = $2,
			actif = $3,
			updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, e.TrancheCourante, e.Rembourse, e.Actif, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update engagement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return engagement.ErrEngagementNotFound
	}
	return nil
}

func (r *engagementRepository) AppendHistory(ctx context.Context, h engagement.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO engagement_history (employee_id, periode, engagement_id, tranche, restant, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (employee_id, periode, engagement_id) DO NOTHING
	`

	_, err := q.Exec(ctx, query,
		h.EmployeeID, paie.NormalizePeriode(h.Periode), h.EngagementID, h.Tranche, h.Restant,
	)
	if err != nil {
		return fmt.Errorf("failed to append engagement history: %w", err)
	}
	return nil
}

func (r *engagementRepository) ListHistory(ctx context.Context, employeeID int64, periode time.Time) ([]engagement.History, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, periode, engagement_id, tranche, restant, created_at
		FROM engagement_history
		WHERE employee_id = $1 AND periode = $2
		ORDER BY engagement_id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, paie.NormalizePeriode(periode))
	if err != nil {
		return nil, fmt.Errorf("failed to list engagement history: %w", err)
	}
	defer rows.Close()

	var result []engagement.History
	for rows.Next() {
		var h engagement.History
		err := rows.Scan(&h.EmployeeID, &h.Periode, &h.EngagementID, &h.Tranche, &h.Restant, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement history: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}
