package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rim-hr/paie-backend-go/internal/domain/parametres"
	"github.com/rim-hr/paie-backend-go/internal/pkg/database"
)

type parametresRepository struct {
	db *database.DB
}

func NewParametresRepository(db *database.DB) parametres.ParametresRepository {
	return &parametresRepository{db: db}
}

// The table holds a single row pinned to id = 1.
func (r *parametresRepository) Get(ctx context.Context) (parametres.GlobalParameters, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT periode_courante, periode_suivante, njt_defaut, anciennete_auto,
			taux_cnss, plafond_cnss, taux_cnam, abattement_its,
			raison_sociale, devise, updated_at
		FROM parametres
		WHERE id = 1
	`

	var p parametres.GlobalParameters
	err := q.QueryRow(ctx, query).Scan(
		&p.PeriodeCourante, &p.PeriodeSuivante, &p.NjtDefaut, &p.AncienneteAuto,
		&p.TauxCNSS, &p.PlafondCNSS, &p.TauxCNAM, &p.AbattementITS,
		&p.RaisonSociale, &p.Devise, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return parametres.GlobalParameters{}, parametres.ErrParametresNotFound
		}
		return parametres.GlobalParameters{}, fmt.Errorf("failed to get parametres: %w", err)
	}
	return p, nil
}

func (r *parametresRepository) Update(ctx context.Context, p parametres.GlobalParameters) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO parametres (
			id, periode_courante, periode_suivante, njt_defaut, anciennete_auto,
			taux_cnss, plafond_cnss, taux_cnam, abattement_its,
			raison_sociale, devise, updated_at
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			periode_courante = EXCLUDED.periode_courante,
			periode_suivante = EXCLUDED.periode_suivante,
			njt_defaut = EXCLUDED.njt_defaut,
			anciennete_auto = EXCLUDED.anciennete_auto,
			taux_cnss = EXCLUDED.taux_cnss,
			plafond_cnss = EXCLUDED.plafond_cnss,
			taux_cnam = EXCLUDED.taux_cnam,
			abattement_its = EXCLUDED.abattement_its,
			raison_sociale = EXCLUDED.raison_sociale,
			devise = EXCLUDED.devise,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		p.PeriodeCourante, p.PeriodeSuivante, p.NjtDefaut, p.AncienneteAuto,
		p.TauxCNSS, p.PlafondCNSS, p.TauxCNAM, p.AbattementITS,
		p.RaisonSociale, p.Devise,
	)
	if err != nil {
		return fmt.Errorf("failed to update parametres: %w", err)
	}
	return nil
}
