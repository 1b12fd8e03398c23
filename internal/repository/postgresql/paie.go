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

type paieRepository struct {
	db *database.DB
}

func NewPaieRepository(db *database.DB) paie.PaieRepository {
	return &paieRepository{db: db}
}

const paieColumns = `
	employee_id, periode, motif_id, periode_du, periode_au,
	bt, bni, avantage_nature, cnss, cnam, its, retenues_brutes,
	net, njt, nb_heures, fte
`

func (r *paieRepository) Get(ctx context.Context, key paie.NjtKey) (paie.Paie, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + paieColumns + `
		FROM paies
		WHERE employee_id = $1 AND periode = $2 AND motif_id = $3
	`

	var p paie.Paie
	err := q.QueryRow(ctx, query, key.EmployeeID, paie.NormalizePeriode(key.Periode), key.MotifID).Scan(
		&p.EmployeeID, &p.Periode, &p.MotifID, &p.PeriodeDu, &p.PeriodeAu,
		&p.BT, &p.BNI, &p.AvantageNature, &p.CNSS, &p.CNAM, &p.ITS, &p.RetenuesBrutes,
		&p.Net, &p.NJT, &p.NbHeures, &p.FTE,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return paie.Paie{}, paie.ErrPaieNotFound
		}
		return paie.Paie{}, fmt.Errorf("failed to get paie: %w", err)
	}
	p.Periode = paie.NormalizePeriode(p.Periode)
	return p, nil
}

// Replace deletes any row for the key, then inserts. Both statements run
// in one transaction so a recomputation never leaves the key empty.
func (r *paieRepository) Replace(ctx context.Context, p paie.Paie) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		periode := paie.NormalizePeriode(p.Periode)

		_, err := q.Exec(ctx,
			`DELETE FROM paies WHERE employee_id = $1 AND periode = $2 AND motif_id = $3`,
			p.EmployeeID, periode, p.MotifID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete previous paie: %w", err)
		}

		query := `
			INSERT INTO paies (` + paieColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`
		_, err = q.Exec(ctx, query,
			p.EmployeeID, periode, p.MotifID, p.PeriodeDu, p.PeriodeAu,
			p.BT, p.BNI, p.AvantageNature, p.CNSS, p.CNAM, p.ITS, p.RetenuesBrutes,
			p.Net, p.NJT, p.NbHeures, p.FTE,
		)
		if err != nil {
			return fmt.Errorf("failed to insert paie: %w", err)
		}
		return nil
	})
}

func (r *paieRepository) DeletePeriode(ctx context.Context, periode time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM paies WHERE periode = $1`, paie.NormalizePeriode(periode))
	if err != nil {
		return fmt.Errorf("failed to delete paies for periode: %w", err)
	}
	return nil
}
