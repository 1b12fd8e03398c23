package cloture

import "errors"

var (
	// ErrClotureEnCours means another closing run holds the single slot.
	ErrClotureEnCours = errors.New("a cloture run is already in progress")
	ErrRunNotFound    = errors.New("cloture run not found")
	// ErrFinalisation wraps a failed GlobalParameters write at Finalize,
	// the single commit point of the whole closing.
	ErrFinalisation = errors.New("cloture finalization failed")
)
