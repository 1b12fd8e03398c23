package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrCategorieNotFound = errors.New("categorie not found")
	// ErrFinDeLadder is returned by NextEchelon when the employee already
	// sits on the last rung of their category.
	ErrFinDeLadder = errors.New("no next echelon in categorie ladder")
)
