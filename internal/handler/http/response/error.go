package response

import (
	"errors"
	"net/http"

	"github.com/rim-hr/paie-backend-go/internal/domain/cloture"
	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
	"github.com/rim-hr/paie-backend-go/internal/domain/engagement"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/domain/parametres"
	"github.com/rim-hr/paie-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrCategorieNotFound):
		NotFound(w, "Salary category not found")

	// Pay domain errors
	case errors.Is(err, paie.ErrMotifNotFound):
		NotFound(w, "Motif not found")
	case errors.Is(err, paie.ErrRubriqueNotFound):
		NotFound(w, "Rubrique not found")
	case errors.Is(err, paie.ErrRubriquePaieNotFound):
		NotFound(w, "Pay line not found")
	case errors.Is(err, paie.ErrNjtNotFound):
		NotFound(w, "Worked-days record not found")
	case errors.Is(err, paie.ErrPaieNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, paie.ErrRubriquePaieConflict):
		Conflict(w, "A fixed pay line already exists for this rubrique")

	// Engagement domain errors
	case errors.Is(err, engagement.ErrEngagementNotFound):
		NotFound(w, "Engagement not found")

	// Parameters
	case errors.Is(err, parametres.ErrParametresNotFound):
		NotFound(w, "Global parameters not configured")

	// Closing run errors
	case errors.Is(err, cloture.ErrClotureEnCours):
		Conflict(w, "A closing run is already in progress")
	case errors.Is(err, cloture.ErrRunNotFound):
		NotFound(w, "Closing run not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
