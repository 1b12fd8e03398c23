package cloture

import "time"

// Etat is the closing state machine position.
type Etat string

const (
	EtatIdle       Etat = "idle"
	EtatPreparing  Etat = "preparing"
	EtatProcessing Etat = "processing"
	EtatFinalizing Etat = "finalizing"
	EtatClosed     Etat = "closed"
	EtatAborted    Etat = "aborted"
)

// Statut is the terminal outcome of a run.
type Statut string

const (
	StatutClosed         Statut = "closed"
	StatutAborted        Statut = "aborted"
	StatutPartialFailure Statut = "partial_failure"
)

// Progress is one progress update published while a run executes.
type Progress struct {
	StepLabel string `json:"step_label"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Result is the terminal signal of a run.
type Result struct {
	Status            Statut  `json:"status"`
	FailedEmployeeIDs []int64 `json:"failed_employee_ids"`
}

// Run is the handle callers poll after starting a closing.
type Run struct {
	ID                string     `json:"id"`
	Etat              Etat       `json:"etat"`
	ResumeFrom        *int64     `json:"resume_from,omitempty"`
	Result            *Result    `json:"result,omitempty"`
	Error             string     `json:"error,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
}

// Terminal reports whether the run has finished.
func (r Run) Terminal() bool {
	return r.Etat == EtatClosed || r.Etat == EtatAborted
}
