package cloture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rim-hr/paie-backend-go/internal/domain/cloture"
	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
	"github.com/rim-hr/paie-backend-go/internal/domain/engagement"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/domain/parametres"
	paieService "github.com/rim-hr/paie-backend-go/internal/service/paie"
	"golang.org/x/sync/semaphore"
)

// DefaultPersistRetries bounds the per-employee persistence retries
// during Processing.
const DefaultPersistRetries = 2

type ClotureServiceImpl struct {
	employeeRepo     employee.EmployeeRepository
	categorieRepo    employee.CategorieRepository
	motifRepo        paie.MotifRepository
	rubriquePaieRepo paie.RubriquePaieRepository
	njtRepo          paie.NjtRepository
	paieRepo         paie.PaieRepository
	engagementRepo   engagement.EngagementRepository
	parametresRepo   parametres.ParametresRepository
	staging          cloture.StagingStore
	resolver         *paieService.Resolver

	hub     *Hub
	retries int

	// slot enforces the at-most-one-run-system-wide invariant. Concurrent
	// closings would break the uniqueness invariants of the pay tables.
	slot *semaphore.Weighted

	mu   sync.RWMutex
	runs map[string]*runState
}

type runState struct {
	run    cloture.Run
	cancel context.CancelFunc
}

func NewClotureService(
	employeeRepo employee.EmployeeRepository,
	categorieRepo employee.CategorieRepository,
	motifRepo paie.MotifRepository,
	rubriquePaieRepo paie.RubriquePaieRepository,
	njtRepo paie.NjtRepository,
	paieRepo paie.PaieRepository,
	engagementRepo engagement.EngagementRepository,
	parametresRepo parametres.ParametresRepository,
	staging cloture.StagingStore,
	resolver *paieService.Resolver,
) *ClotureServiceImpl {
	return &ClotureServiceImpl{
		employeeRepo:     employeeRepo,
		categorieRepo:    categorieRepo,
		motifRepo:        motifRepo,
		rubriquePaieRepo: rubriquePaieRepo,
		njtRepo:          njtRepo,
		paieRepo:         paieRepo,
		engagementRepo:   engagementRepo,
		parametresRepo:   parametresRepo,
		staging:          staging,
		resolver:         resolver,
		hub:              NewHub(),
		retries:          DefaultPersistRetries,
		slot:             semaphore.NewWeighted(1),
		runs:             make(map[string]*runState),
	}
}

// Start launches a closing run on the background worker. It returns
// immediately with the run handle, or ErrClotureEnCours when another run
// holds the slot.
func (s *ClotureServiceImpl) Start(ctx context.Context, req cloture.StartRequest) (cloture.Run, error) {
	if !s.slot.TryAcquire(1) {
		return cloture.Run{}, cloture.ErrClotureEnCours
	}

	runCtx, cancel := context.WithCancel(context.Background())
	run := cloture.Run{
		ID:         uuid.NewString(),
		Etat:       cloture.EtatPreparing,
		ResumeFrom: req.ResumeFromEmployeeID,
		StartedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.runs[run.ID] = &runState{run: run, cancel: cancel}
	s.mu.Unlock()

	go func() {
		defer s.slot.Release(1)
		defer cancel()
		s.execute(runCtx, run.ID, req.ResumeFromEmployeeID)
	}()

	return run, nil
}

func (s *ClotureServiceImpl) Get(_ context.Context, runID string) (cloture.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.runs[runID]
	if !ok {
		return cloture.Run{}, cloture.ErrRunNotFound
	}
	return state.run, nil
}

func (s *ClotureServiceImpl) Cancel(_ context.Context, runID string) error {
	s.mu.RLock()
	state, ok := s.runs[runID]
	s.mu.RUnlock()

	if !ok {
		return cloture.ErrRunNotFound
	}
	state.cancel()
	return nil
}

func (s *ClotureServiceImpl) Subscribe(runID string) (<-chan cloture.Progress, func(), error) {
	s.mu.RLock()
	_, ok := s.runs[runID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, cloture.ErrRunNotFound
	}
	ch, cleanup := s.hub.Subscribe(runID)
	return ch, cleanup, nil
}

// execute runs the whole closing state machine. It never returns an
// error: every outcome lands on the run record.
func (s *ClotureServiceImpl) execute(ctx context.Context, runID string, resumeFrom *int64) {
	log := slog.With("run_id", runID)
	log.Info("cloture run started", "resuming", resumeFrom != nil)

	params, err := s.parametresRepo.Get(ctx)
	if err != nil {
		s.abort(runID, fmt.Errorf("failed to load global parameters: %w", err))
		return
	}
	motif, err := s.motifRepo.GetParDefaut(ctx)
	if err != nil {
		s.abort(runID, fmt.Errorf("failed to load default motif: %w", err))
		return
	}
	next := paie.NormalizePeriode(params.PeriodeSuivante)

	// Preparing: closing is destructive-then-rebuild for the target
	// periode. Skipped on resume so already-staged rows survive and are
	// re-upserted deterministically.
	s.setEtat(runID, cloture.EtatPreparing)
	s.publish(runID, cloture.Progress{StepLabel: "preparing", Completed: 0, Total: 0})
	if resumeFrom == nil {
		if err := s.prepare(ctx, next); err != nil {
			s.abort(runID, err)
			return
		}
	}

	// Processing: id-ascending order is what makes resume-from-id
	// well-defined.
	filter := employee.RosterFilter{ActifOnly: true, ExcludeConge: true}
	if resumeFrom != nil {
		filter.FromID = *resumeFrom
	}
	roster, err := s.employeeRepo.ListRoster(ctx, filter)
	if err != nil {
		s.abort(runID, fmt.Errorf("failed to load roster: %w", err))
		return
	}

	s.setEtat(runID, cloture.EtatProcessing)
	var failed []int64
	var processed []int64
	for i, emp := range roster {
		if ctx.Err() != nil {
			s.abort(runID, fmt.Errorf("run cancelled: %w", ctx.Err()))
			return
		}

		if err := s.processEmployee(ctx, emp, params, motif, next); err != nil {
			log.Warn("employee closing failed", "employee_id", emp.ID, "error", err)
			failed = append(failed, emp.ID)
		} else {
			processed = append(processed, emp.ID)
		}
		s.publish(runID, cloture.Progress{StepLabel: "processing", Completed: i + 1, Total: len(roster)})
	}

	// Finalizing: the GlobalParameters write below is the single commit
	// point of the whole closing.
	s.setEtat(runID, cloture.EtatFinalizing)
	s.publish(runID, cloture.Progress{StepLabel: "finalizing", Completed: len(roster), Total: len(roster)})

	for _, id := range processed {
		if err := s.snapshotEngagements(ctx, id, next); err != nil {
			log.Warn("engagement snapshot failed", "employee_id", id, "error", err)
			failed = append(failed, id)
		}
	}

	if err := s.staging.PurgeDocuments(ctx); err != nil {
		log.Warn("stale document purge failed", "error", err)
	}

	params.PeriodeCourante = next
	params.PeriodeSuivante = paie.NextPeriode(next)
	if err := s.parametresRepo.Update(ctx, params); err != nil {
		s.abort(runID, fmt.Errorf("%w: %v", cloture.ErrFinalisation, err))
		return
	}

	status := cloture.StatutClosed
	if len(failed) > 0 {
		status = cloture.StatutPartialFailure
	}
	s.close(runID, cloture.Result{Status: status, FailedEmployeeIDs: failed})
	log.Info("cloture run finished", "status", status, "failed", len(failed),
		"periode_courante", params.PeriodeCourante.Format("2006-01"),
		"periode_suivante", params.PeriodeSuivante.Format("2006-01"))
}

func (s *ClotureServiceImpl) prepare(ctx context.Context, next time.Time) error {
	if err := s.staging.PurgeStaging(ctx, next); err != nil {
		return fmt.Errorf("failed to purge staged drafts: %w", err)
	}
	if err := s.rubriquePaieRepo.DeletePeriode(ctx, next); err != nil {
		return fmt.Errorf("failed to purge staged rubrique paie: %w", err)
	}
	if err := s.njtRepo.DeletePeriode(ctx, next); err != nil {
		return fmt.Errorf("failed to purge staged njt: %w", err)
	}
	if err := s.paieRepo.DeletePeriode(ctx, next); err != nil {
		return fmt.Errorf("failed to purge staged paie: %w", err)
	}
	return nil
}

// processEmployee is one bounded, independent unit of work. Everything
// it writes is an idempotent upsert, so retries and resumes are safe.
func (s *ClotureServiceImpl) processEmployee(
	ctx context.Context,
	emp employee.Employee,
	params parametres.GlobalParameters,
	motif paie.Motif,
	next time.Time,
) error {
	if emp.EnDebauche {
		emp.Actif = false
		return s.persistEmployee(ctx, emp)
	}

	if _, err := s.njtRepo.Upsert(ctx, paie.NjtRecord{
		EmployeeID: emp.ID,
		Periode:    next,
		MotifID:    motif.ID,
		Njt:        params.NjtDefaut,
	}); err != nil {
		return fmt.Errorf("njt upsert: %w", err)
	}

	if emp.AvancementAuto {
		succ, err := s.categorieRepo.NextEchelon(ctx, emp.Categorie, emp.Echelon)
		switch {
		case err == nil:
			emp.Categorie = succ.Nom
			emp.Echelon = succ.Echelon
		case errors.Is(err, employee.ErrFinDeLadder), errors.Is(err, employee.ErrCategorieNotFound):
			// already on the last rung, nothing to advance
		default:
			return fmt.Errorf("categorie advance: %w", err)
		}
	}

	fixes, err := s.rubriquePaieRepo.ListFixes(ctx, emp.ID, paie.NormalizePeriode(params.PeriodeCourante))
	if err != nil {
		return fmt.Errorf("list fixed lines: %w", err)
	}
	for _, line := range fixes {
		line.Periode = next
		if _, err := s.rubriquePaieRepo.Upsert(ctx, line); err != nil {
			return fmt.Errorf("carry forward rubrique %d: %w", line.RubriqueID, err)
		}
	}

	if params.AncienneteAuto {
		if _, err := s.resolver.Resolve(ctx, paieService.ResolveInput{
			Periode:    next,
			EmployeeID: emp.ID,
			MotifID:    motif.ID,
			RubriqueID: paie.RubriqueAnciennete,
			Overwrite:  true,
		}); err != nil {
			return fmt.Errorf("anciennete refresh: %w", err)
		}
	}

	engagements, err := s.engagementRepo.ListActiveByEmployee(ctx, emp.ID)
	if err != nil {
		return fmt.Errorf("list engagements: %w", err)
	}
	for _, e := range engagements {
		// Register the installment deducted over the closed periode,
		// clamped so Rembourse never exceeds Total, then schedule the
		// next one against the new balance.
		deduit := e.TrancheCourante
		if restant := e.Restant(); deduit.GreaterThan(restant) {
			deduit = restant
		}
		e.Rembourse = e.Rembourse.Add(deduit)

		restant := e.Restant()
		e.TrancheCourante = e.Tranche
		if e.TrancheCourante.GreaterThan(restant) {
			e.TrancheCourante = restant
		}
		if restant.IsZero() {
			e.Actif = false
		}
		if err := s.engagementRepo.Update(ctx, e); err != nil {
			return fmt.Errorf("engagement %d update: %w", e.ID, err)
		}
	}

	return s.persistEmployee(ctx, emp)
}

func (s *ClotureServiceImpl) persistEmployee(ctx context.Context, emp employee.Employee) error {
	var err error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if err = s.employeeRepo.Update(ctx, emp); err == nil {
			return nil
		}
	}
	return fmt.Errorf("persist employee after %d attempts: %w", s.retries+1, err)
}

func (s *ClotureServiceImpl) snapshotEngagements(ctx context.Context, employeeID int64, periode time.Time) error {
	engagements, err := s.engagementRepo.ListActiveByEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	for _, e := range engagements {
		h := engagement.History{
			EmployeeID:   employeeID,
			Periode:      periode,
			EngagementID: e.ID,
			Tranche:      e.TrancheCourante,
			Restant:      e.Restant(),
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.engagementRepo.AppendHistory(ctx, h); err != nil {
			return err
		}
	}
	return nil
}

// ========== RUN BOOKKEEPING ==========

func (s *ClotureServiceImpl) setEtat(runID string, etat cloture.Etat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.runs[runID]; ok {
		state.run.Etat = etat
	}
}

func (s *ClotureServiceImpl) abort(runID string, err error) {
	slog.Error("cloture run aborted", "run_id", runID, "error", err)
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.runs[runID]; ok {
		state.run.Etat = cloture.EtatAborted
		state.run.Error = err.Error()
		state.run.Result = &cloture.Result{Status: cloture.StatutAborted}
		state.run.FinishedAt = &now
	}
}

func (s *ClotureServiceImpl) close(runID string, result cloture.Result) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.runs[runID]; ok {
		state.run.Etat = cloture.EtatClosed
		state.run.Result = &result
		state.run.FinishedAt = &now
	}
}

func (s *ClotureServiceImpl) publish(runID string, p cloture.Progress) {
	s.hub.Publish(runID, p)
}
