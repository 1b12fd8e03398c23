package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
	"github.com/rim-hr/paie-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, nom, prenom, actif, en_conge, en_debauche, avancement_auto,
	categorie, echelon, date_embauche, date_fin_contrat, salaire_base,
	semaine, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var semaine []bool
	err := row.Scan(
		&e.ID, &e.Nom, &e.Prenom, &e.Actif, &e.EnConge, &e.EnDebauche, &e.AvancementAuto,
		&e.Categorie, &e.Echelon, &e.DateEmbauche, &e.DateFinContrat, &e.SalaireBase,
		&semaine, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	// semaine is stored flat: 7 days x (debut, fin, weekend)
	for i := 0; i < 7 && (i*3+2) < len(semaine); i++ {
		e.Semaine[i] = employee.JourTravail{
			DebutSemaine: semaine[i*3],
			FinSemaine:   semaine[i*3+1],
			Weekend:      semaine[i*3+2],
		}
	}
	return e, nil
}

func flattenSemaine(s employee.SemaineTravail) []bool {
	flat := make([]bool, 0, 21)
	for _, j := range s {
		flat = append(flat, j.DebutSemaine, j.FinSemaine, j.Weekend)
	}
	return flat
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) ListRoster(ctx context.Context, filter employee.RosterFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE id >= $1
		  AND ($2 = false OR actif = true)
		  AND ($3 = false OR en_conge = false)
		ORDER BY id ASC`

	rows, err := q.Query(ctx, query, filter.FromID, filter.ActifOnly, filter.ExcludeConge)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	defer rows.Close()

	var result []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			nom = $2, prenom = $3, actif = $4, en_conge = $5, en_debauche = $6,
			avancement_auto = $7, categorie = $8, echelon = $9,
			date_embauche = $10, date_fin_contrat = $11, salaire_base = $12,
			semaine = $13, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		emp.ID, emp.Nom, emp.Prenom, emp.Actif, emp.EnConge, emp.EnDebauche,
		emp.AvancementAuto, emp.Categorie, emp.Echelon,
		emp.DateEmbauche, emp.DateFinContrat, emp.SalaireBase,
		flattenSemaine(emp.Semaine),
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

type categorieRepository struct {
	db *database.DB
}

func NewCategorieRepository(db *database.DB) employee.CategorieRepository {
	return &categorieRepository{db: db}
}

func (r *categorieRepository) GetByNomEchelon(ctx context.Context, nom string, echelon int) (employee.Categorie, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT nom, echelon, salaire FROM categories WHERE nom = $1 AND echelon = $2`

	var c employee.Categorie
	err := q.QueryRow(ctx, query, nom, echelon).Scan(&c.Nom, &c.Echelon, &c.Salaire)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Categorie{}, employee.ErrCategorieNotFound
		}
		return employee.Categorie{}, fmt.Errorf("failed to get categorie: %w", err)
	}
	return c, nil
}

func (r *categorieRepository) NextEchelon(ctx context.Context, nom string, echelon int) (employee.Categorie, error) {
	if _, err := r.GetByNomEchelon(ctx, nom, echelon); err != nil {
		return employee.Categorie{}, err
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT nom, echelon, salaire FROM categories
		WHERE nom = $1 AND echelon > $2
		ORDER BY echelon ASC
		LIMIT 1
	`

	var c employee.Categorie
	err := q.QueryRow(ctx, query, nom, echelon).Scan(&c.Nom, &c.Echelon, &c.Salaire)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Categorie{}, employee.ErrFinDeLadder
		}
		return employee.Categorie{}, fmt.Errorf("failed to get next echelon: %w", err)
	}
	return c, nil
}
