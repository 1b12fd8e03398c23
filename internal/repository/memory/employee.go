package memory

import (
	"context"
	"sort"

	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) ListRoster(_ context.Context, filter employee.RosterFilter) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []employee.Employee
	for _, e := range r.s.employees {
		if filter.ActifOnly && !e.Actif {
			continue
		}
		if filter.ExcludeConge && e.EnConge {
			continue
		}
		if e.ID < filter.FromID {
			continue
		}
		result = append(result, e)
	}

	// id-ascending ordering is part of the repository contract
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *employeeRepository) Update(_ context.Context, emp employee.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.employees[emp.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	r.s.employees[emp.ID] = emp
	return nil
}

type categorieRepository struct {
	s *Store
}

func NewCategorieRepository(s *Store) employee.CategorieRepository {
	return &categorieRepository{s: s}
}

func (r *categorieRepository) GetByNomEchelon(_ context.Context, nom string, echelon int) (employee.Categorie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[categorieKey{Nom: nom, Echelon: echelon}]
	if !ok {
		return employee.Categorie{}, employee.ErrCategorieNotFound
	}
	return c, nil
}

func (r *categorieRepository) NextEchelon(_ context.Context, nom string, echelon int) (employee.Categorie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.categories[categorieKey{Nom: nom, Echelon: echelon}]; !ok {
		return employee.Categorie{}, employee.ErrCategorieNotFound
	}
	next, ok := r.s.categories[categorieKey{Nom: nom, Echelon: echelon + 1}]
	if !ok {
		return employee.Categorie{}, employee.ErrFinDeLadder
	}
	return next, nil
}
