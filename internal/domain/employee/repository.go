package employee

import "context"

// RosterFilter narrows ListRoster. The zero value returns everyone.
type RosterFilter struct {
	ActifOnly    bool
	ExcludeConge bool
	// FromID skips employees with an id below it. Combined with the
	// id-ascending ordering guarantee this makes resume well-defined.
	FromID int64
}

// EmployeeRepository is the roster store. ListRoster MUST return rows
// ordered by id ascending; the closing run depends on that ordering.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (Employee, error)
	ListRoster(ctx context.Context, filter RosterFilter) ([]Employee, error)
	Update(ctx context.Context, emp Employee) error
}

// CategorieRepository exposes the salary ladder.
type CategorieRepository interface {
	GetByNomEchelon(ctx context.Context, nom string, echelon int) (Categorie, error)
	// NextEchelon returns the successor rung, or ErrFinDeLadder.
	NextEchelon(ctx context.Context, nom string, echelon int) (Categorie, error)
}
