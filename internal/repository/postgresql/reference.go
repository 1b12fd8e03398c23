package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/pkg/database"
)

// ========== MOTIFS ==========

type motifRepository struct {
	db *database.DB
}

func NewMotifRepository(db *database.DB) paie.MotifRepository {
	return &motifRepository{db: db}
}

func (r *motifRepository) GetByID(ctx context.Context, id int64) (paie.Motif, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, nom, declaration_its, par_defaut FROM motifs WHERE id = $1`

	var m paie.Motif
	err := q.QueryRow(ctx, query, id).Scan(&m.ID, &m.Nom, &m.DeclarationITS, &m.ParDefaut)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return paie.Motif{}, paie.ErrMotifNotFound
		}
		return paie.Motif{}, fmt.Errorf("failed to get motif: %w", err)
	}
	return m, nil
}

func (r *motifRepository) GetParDefaut(ctx context.Context) (paie.Motif, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, nom, declaration_its, par_defaut FROM motifs WHERE par_defaut = true LIMIT 1`

	var m paie.Motif
	err := q.QueryRow(ctx, query).Scan(&m.ID, &m.Nom, &m.DeclarationITS, &m.ParDefaut)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return paie.Motif{}, paie.ErrMotifNotFound
		}
		return paie.Motif{}, fmt.Errorf("failed to get default motif: %w", err)
	}
	return m, nil
}

func (r *motifRepository) List(ctx context.Context) ([]paie.Motif, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, nom, declaration_its, par_defaut FROM motifs ORDER BY id ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list motifs: %w", err)
	}
	defer rows.Close()

	var result []paie.Motif
	for rows.Next() {
		var m paie.Motif
		if err := rows.Scan(&m.ID, &m.Nom, &m.DeclarationITS, &m.ParDefaut); err != nil {
			return nil, fmt.Errorf("failed to scan motif: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// ========== RUBRIQUES ==========

type rubriqueRepository struct {
	db *database.DB
}

func NewRubriqueRepository(db *database.DB) paie.RubriqueRepository {
	return &rubriqueRepository{db: db}
}

const rubriqueColumns = `
	id, libelle, sens, base_auto, nombre_auto, soumis_cnss, soumis_cnam,
	soumis_its, cumulable, plafonne, avantage_nature, systeme
`

func scanRubrique(row pgx.Row) (paie.Rubrique, error) {
	var r paie.Rubrique
	err := row.Scan(
		&r.ID, &r.Libelle, &r.Sens, &r.BaseAuto, &r.NombreAuto, &r.SoumisCNSS, &r.SoumisCNAM,
		&r.SoumisITS, &r.Cumulable, &r.Plafonne, &r.AvantageNature, &r.Systeme,
	)
	return r, err
}

func (r *rubriqueRepository) GetByID(ctx context.Context, id int64) (paie.Rubrique, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rubriqueColumns + ` FROM rubriques WHERE id = $1`

	rub, err := scanRubrique(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return paie.Rubrique{}, paie.ErrRubriqueNotFound
		}
		return paie.Rubrique{}, fmt.Errorf("failed to get rubrique: %w", err)
	}
	return rub, nil
}

// Upsert is keyed by id so the lazy creation of recall variants stays
// idempotent under retries.
func (r *rubriqueRepository) Upsert(ctx context.Context, rubrique paie.Rubrique) (paie.Rubrique, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rubriques (` + rubriqueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			libelle = EXCLUDED.libelle
		RETURNING ` + rubriqueColumns

	rub, err := scanRubrique(q.QueryRow(ctx, query,
		rubrique.ID, rubrique.Libelle, rubrique.Sens, rubrique.BaseAuto, rubrique.NombreAuto,
		rubrique.SoumisCNSS, rubrique.SoumisCNAM, rubrique.SoumisITS, rubrique.Cumulable,
		rubrique.Plafonne, rubrique.AvantageNature, rubrique.Systeme,
	))
	if err != nil {
		return paie.Rubrique{}, fmt.Errorf("failed to upsert rubrique: %w", err)
	}
	return rub, nil
}

func (r *rubriqueRepository) List(ctx context.Context) ([]paie.Rubrique, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rubriqueColumns + ` FROM rubriques ORDER BY id ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rubriques: %w", err)
	}
	defer rows.Close()

	var result []paie.Rubrique
	for rows.Next() {
		rub, err := scanRubrique(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rubrique: %w", err)
		}
		result = append(result, rub)
	}
	return result, rows.Err()
}
