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

type rubriquePaieRepository struct {
	db *database.DB
}

func NewRubriquePaieRepository(db *database.DB) paie.RubriquePaieRepository {
	return &rubriquePaieRepository{db: db}
}

const rubriquePaieColumns = `
	employee_id, periode, motif_id, rubrique_id, base, nombre, montant, fixe
`

func scanRubriquePaie(row pgx.Row) (paie.RubriquePaie, error) {
	var l paie.RubriquePaie
	err := row.Scan(
		&l.EmployeeID, &l.Periode, &l.MotifID, &l.RubriqueID,
		&l.Base, &l.Nombre, &l.Montant, &l.Fixe,
	)
	if err != nil {
		return paie.RubriquePaie{}, err
	}
	l.Periode = paie.NormalizePeriode(l.Periode)
	return l, nil
}

func (r *rubriquePaieRepository) Get(ctx context.Context, key paie.RubriquePaieKey) (paie.RubriquePaie, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + rubriquePaieColumns + `
		FROM rubriques_paie
		WHERE employee_id = $1 AND periode = $2 AND motif_id = $3 AND rubrique_id = $4
	`

	line, err := scanRubriquePaie(q.QueryRow(ctx, query,
		key.EmployeeID, paie.NormalizePeriode(key.Periode), key.MotifID, key.RubriqueID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return paie.RubriquePaie{}, paie.ErrRubriquePaieNotFound
		}
		return paie.RubriquePaie{}, fmt.Errorf("failed to get rubrique paie: %w", err)
	}
	return line, nil
}

func (r *rubriquePaieRepository) Upsert(ctx context.Context, line paie.RubriquePaie) (paie.RubriquePaie, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rubriques_paie (` + rubriquePaieColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, periode, motif_id, rubrique_id) DO UPDATE SET
			base = EXCLUDED.base,
			nombre = EXCLUDED.nombre,
			montant = EXCLUDED.montant,
			fixe = EXCLUDED.fixe
		RETURNING ` + rubriquePaieColumns

	saved, err := scanRubriquePaie(q.QueryRow(ctx, query,
		line.EmployeeID, paie.NormalizePeriode(line.Periode), line.MotifID, line.RubriqueID,
		line.Base, line.Nombre, line.Montant, line.Fixe,
	))
	if err != nil {
		return paie.RubriquePaie{}, fmt.Errorf("failed to upsert rubrique paie: %w", err)
	}
	return saved, nil
}

func (r *rubriquePaieRepository) ListRange(ctx context.Context, employeeID, motifID int64, du, au time.Time) ([]paie.RubriquePaie, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + rubriquePaieColumns + `
		FROM rubriques_paie
		WHERE employee_id = $1 AND motif_id = $2 AND periode >= $3 AND periode <= $4
		ORDER BY periode ASC, rubrique_id ASC
	`

	rows, err := q.Query(ctx, query,
		employeeID, motifID, paie.NormalizePeriode(du), paie.NormalizePeriode(au),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rubriques paie: %w", err)
	}
	defer rows.Close()

	var result []paie.RubriquePaie
	for rows.Next() {
		line, err := scanRubriquePaie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rubrique paie: %w", err)
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

func (r *rubriquePaieRepository) ListFixes(ctx context.Context, employeeID int64, periode time.Time) ([]paie.RubriquePaie, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + rubriquePaieColumns + `
		FROM rubriques_paie
		WHERE employee_id = $1 AND periode = $2 AND fixe = true
		ORDER BY motif_id ASC, rubrique_id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, paie.NormalizePeriode(periode))
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed rubriques paie: %w", err)
	}
	defer rows.Close()

	var result []paie.RubriquePaie
	for rows.Next() {
		line, err := scanRubriquePaie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rubrique paie: %w", err)
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

func (r *rubriquePaieRepository) DeletePeriode(ctx context.Context, periode time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM rubriques_paie WHERE periode = $1`, paie.NormalizePeriode(periode))
	if err != nil {
		return fmt.Errorf("failed to delete rubriques paie for periode: %w", err)
	}
	return nil
}
