package paie

import "errors"

var (
	ErrMotifNotFound        = errors.New("motif not found")
	ErrRubriqueNotFound     = errors.New("rubrique not found")
	ErrRubriquePaieNotFound = errors.New("rubrique paie not found")
	// ErrRubriquePaieConflict means the existing line is fixe-locked and
	// the caller did not ask to overwrite it.
	ErrRubriquePaieConflict = errors.New("rubrique paie is locked by a manual edit")
	ErrNjtNotFound          = errors.New("njt record not found")
	ErrPaieNotFound         = errors.New("paie not found")
)
