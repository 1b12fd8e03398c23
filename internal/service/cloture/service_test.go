package cloture

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rim-hr/paie-backend-go/internal/domain/cloture"
	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
	"github.com/rim-hr/paie-backend-go/internal/domain/engagement"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/domain/parametres"
	"github.com/rim-hr/paie-backend-go/internal/repository/memory"
	paieService "github.com/rim-hr/paie-backend-go/internal/service/paie"
)

var (
	periodeCourante = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodeSuivante = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
)

func newClotureStore() *memory.Store {
	store := memory.NewStore()
	store.Seed(periodeCourante)
	store.PutCategorie(employee.Categorie{Nom: "C1", Echelon: 1, Salaire: decimal.NewFromInt(90000)})
	store.PutCategorie(employee.Categorie{Nom: "C1", Echelon: 2, Salaire: decimal.NewFromInt(102000)})

	hire := time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC)
	store.PutEmployee(employee.Employee{ID: 1, Nom: "Ba", Actif: true, Categorie: "C1", Echelon: 1, DateEmbauche: hire, SalaireBase: decimal.NewFromInt(80000)})
	store.PutEmployee(employee.Employee{ID: 2, Nom: "Sy", Actif: true, AvancementAuto: true, Categorie: "C1", Echelon: 1, DateEmbauche: hire, SalaireBase: decimal.NewFromInt(80000)})
	store.PutEmployee(employee.Employee{ID: 3, Nom: "Kane", Actif: true, Categorie: "C1", Echelon: 1, DateEmbauche: hire, SalaireBase: decimal.NewFromInt(80000)})
	store.PutEmployee(employee.Employee{ID: 4, Nom: "Diallo", Actif: true, EnConge: true, Categorie: "C1", Echelon: 1, DateEmbauche: hire})
	store.PutEmployee(employee.Employee{ID: 5, Nom: "Sow", Actif: true, EnDebauche: true, Categorie: "C1", Echelon: 1, DateEmbauche: hire})
	store.PutEmployee(employee.Employee{ID: 6, Nom: "Wane", Actif: false, Categorie: "C1", Echelon: 1, DateEmbauche: hire})
	store.PutEmployee(employee.Employee{ID: 7, Nom: "Fall", Actif: true, Categorie: "C1", Echelon: 1, DateEmbauche: hire, SalaireBase: decimal.NewFromInt(80000)})
	return store
}

type repoOverrides struct {
	employeeRepo   employee.EmployeeRepository
	parametresRepo parametres.ParametresRepository
	staging        cloture.StagingStore
}

func newClotureService(store *memory.Store, ov repoOverrides) *ClotureServiceImpl {
	employeeRepo := ov.employeeRepo
	if employeeRepo == nil {
		employeeRepo = memory.NewEmployeeRepository(store)
	}
	parametresRepo := ov.parametresRepo
	if parametresRepo == nil {
		parametresRepo = memory.NewParametresRepository(store)
	}
	staging := ov.staging
	if staging == nil {
		staging = memory.NewStagingStore(store)
	}

	resolver := paieService.NewResolver(
		paieService.NewCalculator(),
		employeeRepo,
		memory.NewCategorieRepository(store),
		memory.NewMotifRepository(store),
		memory.NewRubriqueRepository(store),
		memory.NewRubriquePaieRepository(store),
		memory.NewNjtRepository(store),
	)

	return NewClotureService(
		employeeRepo,
		memory.NewCategorieRepository(store),
		memory.NewMotifRepository(store),
		memory.NewRubriquePaieRepository(store),
		memory.NewNjtRepository(store),
		memory.NewPaieRepository(store),
		memory.NewEngagementRepository(store),
		parametresRepo,
		staging,
		resolver,
	)
}

func waitForRun(t *testing.T, svc *ClotureServiceImpl, runID string) cloture.Run {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		run, err := svc.Get(context.Background(), runID)
		require.NoError(t, err)
		if run.Terminal() {
			return run
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("run did not finish in time")
	return cloture.Run{}
}

// startRun retries while the previous run still holds the worker slot.
func startRun(t *testing.T, svc *ClotureServiceImpl, req cloture.StartRequest) cloture.Run {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		run, err := svc.Start(context.Background(), req)
		if err == nil {
			return run
		}
		if !errors.Is(err, cloture.ErrClotureEnCours) || time.Now().After(deadline) {
			t.Fatalf("start run: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestClotureFullRun(t *testing.T) {
	ctx := context.Background()
	store := newClotureStore()
	store.AddStagedDraft(periodeSuivante)
	store.AddDocument()

	// One installment left after this closing: once the 4,000 deducted
	// over the closed periode is registered, the next one must clamp to
	// the 2,000 balance.
	store.PutEngagement(engagement.Engagement{
		ID: 1, EmployeeID: 1, Libelle: "Avance scolaire",
		Total: decimal.NewFromInt(10000), Tranche: decimal.NewFromInt(4000),
		TrancheCourante: decimal.NewFromInt(4000), Rembourse: decimal.NewFromInt(4000), Actif: true,
	})
	// Fully repaid loan: must be deactivated.
	store.PutEngagement(engagement.Engagement{
		ID: 2, EmployeeID: 1, Libelle: "Avance sur salaire",
		Total: decimal.NewFromInt(5000), Tranche: decimal.NewFromInt(1000),
		TrancheCourante: decimal.NewFromInt(1000), Rembourse: decimal.NewFromInt(5000), Actif: true,
	})

	// A fixed line on the current periode must carry into the next.
	store.PutRubrique(paie.Rubrique{ID: 10, Libelle: "Prime de transport", Sens: paie.SensGain, SoumisITS: true})
	rubriquePaieRepo := memory.NewRubriquePaieRepository(store)
	_, err := rubriquePaieRepo.Upsert(ctx, paie.RubriquePaie{
		EmployeeID: 1, Periode: periodeCourante, MotifID: 1, RubriqueID: 10,
		Base: decimal.NewFromInt(2000), Nombre: decimal.NewFromInt(1), Montant: decimal.NewFromInt(2000), Fixe: true,
	})
	require.NoError(t, err)

	svc := newClotureService(store, repoOverrides{})
	run, err := svc.Start(ctx, cloture.StartRequest{})
	require.NoError(t, err)

	final := waitForRun(t, svc, run.ID)
	assert.Equal(t, cloture.EtatClosed, final.Etat)
	require.NotNil(t, final.Result)
	assert.Equal(t, cloture.StatutClosed, final.Result.Status)
	assert.Empty(t, final.Result.FailedEmployeeIDs)

	// Staged drafts and stale documents are gone.
	assert.Zero(t, store.StagedDrafts(periodeSuivante))
	assert.Zero(t, store.Documents())

	// Default NJT staged for each processed employee.
	njtRepo := memory.NewNjtRepository(store)
	rec, err := njtRepo.Get(ctx, paie.NjtKey{EmployeeID: 1, Periode: periodeSuivante, MotifID: 1})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(26).Equal(rec.Njt))

	// Seniority refreshed: 3,000 daily x 26 days x 10%.
	employeeRepo := memory.NewEmployeeRepository(store)
	line, err := rubriquePaieRepo.Get(ctx, paie.RubriquePaieKey{
		EmployeeID: 1, Periode: periodeSuivante, MotifID: 1, RubriqueID: paie.RubriqueAnciennete,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7800).Equal(line.Montant), "montant %s", line.Montant)

	// Fixed line carried forward.
	carried, err := rubriquePaieRepo.Get(ctx, paie.RubriquePaieKey{
		EmployeeID: 1, Periode: periodeSuivante, MotifID: 1, RubriqueID: 10,
	})
	require.NoError(t, err)
	assert.True(t, carried.Fixe)
	assert.True(t, decimal.NewFromInt(2000).Equal(carried.Montant))

	// Automatic category advance.
	emp2, err := employeeRepo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, emp2.Echelon)

	// Termination-flagged employee deactivated, nothing staged for them.
	emp5, err := employeeRepo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.False(t, emp5.Actif)
	_, err = njtRepo.Get(ctx, paie.NjtKey{EmployeeID: 5, Periode: periodeSuivante, MotifID: 1})
	assert.ErrorIs(t, err, paie.ErrNjtNotFound)

	// On-leave employee untouched.
	_, err = njtRepo.Get(ctx, paie.NjtKey{EmployeeID: 4, Periode: periodeSuivante, MotifID: 1})
	assert.ErrorIs(t, err, paie.ErrNjtNotFound)

	// Deducted installment credited, next one clamped to the balance;
	// repaid loan closed.
	engagementRepo := memory.NewEngagementRepository(store)
	active, err := engagementRepo.ListActiveByEmployee(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].ID)
	assert.True(t, decimal.NewFromInt(8000).Equal(active[0].Rembourse))
	assert.True(t, decimal.NewFromInt(2000).Equal(active[0].TrancheCourante))

	history, err := engagementRepo.ListHistory(ctx, 1, periodeSuivante)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(1), history[0].EngagementID)
	assert.True(t, decimal.NewFromInt(2000).Equal(history[0].Restant))

	// Periods advanced: the single commit point.
	params, err := memory.NewParametresRepository(store).Get(ctx)
	require.NoError(t, err)
	assert.True(t, params.PeriodeCourante.Equal(periodeSuivante))
	assert.True(t, params.PeriodeSuivante.Equal(paie.NextPeriode(periodeSuivante)))
}

func TestClotureAmortitEngagementSurPlusieursPeriodes(t *testing.T) {
	ctx := context.Background()
	store := newClotureStore()
	store.PutEngagement(engagement.Engagement{
		ID: 1, EmployeeID: 1, Libelle: "Avance sur salaire",
		Total: decimal.NewFromInt(10000), Tranche: decimal.NewFromInt(4000),
		TrancheCourante: decimal.NewFromInt(4000), Rembourse: decimal.Zero, Actif: true,
	})

	svc := newClotureService(store, repoOverrides{})
	engagementRepo := memory.NewEngagementRepository(store)

	// First closing: one full installment credited.
	run := startRun(t, svc, cloture.StartRequest{})
	final := waitForRun(t, svc, run.ID)
	require.Equal(t, cloture.EtatClosed, final.Etat)

	active, err := engagementRepo.ListActiveByEmployee(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, decimal.NewFromInt(4000).Equal(active[0].Rembourse))
	assert.True(t, decimal.NewFromInt(4000).Equal(active[0].TrancheCourante))

	history, err := engagementRepo.ListHistory(ctx, 1, periodeSuivante)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, decimal.NewFromInt(6000).Equal(history[0].Restant))

	// Second closing: balance drops below the installment, next one clamps.
	run = startRun(t, svc, cloture.StartRequest{})
	final = waitForRun(t, svc, run.ID)
	require.Equal(t, cloture.EtatClosed, final.Etat)

	active, err = engagementRepo.ListActiveByEmployee(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, decimal.NewFromInt(8000).Equal(active[0].Rembourse))
	assert.True(t, decimal.NewFromInt(2000).Equal(active[0].TrancheCourante))

	history, err = engagementRepo.ListHistory(ctx, 1, paie.NextPeriode(periodeSuivante))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, decimal.NewFromInt(2000).Equal(history[0].Restant))

	// Third closing: the last installment extinguishes the loan.
	run = startRun(t, svc, cloture.StartRequest{})
	final = waitForRun(t, svc, run.ID)
	require.Equal(t, cloture.EtatClosed, final.Etat)

	active, err = engagementRepo.ListActiveByEmployee(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, active)
}

// failingEmployeeRepo fails every Update for the listed employee ids.
type failingEmployeeRepo struct {
	employee.EmployeeRepository
	failIDs map[int64]bool
}

func (r *failingEmployeeRepo) Update(ctx context.Context, e employee.Employee) error {
	if r.failIDs[e.ID] {
		return errors.New("simulated write failure")
	}
	return r.EmployeeRepository.Update(ctx, e)
}

func TestCloturePartialFailureCollectsIDs(t *testing.T) {
	ctx := context.Background()
	store := newClotureStore()
	svc := newClotureService(store, repoOverrides{
		employeeRepo: &failingEmployeeRepo{
			EmployeeRepository: memory.NewEmployeeRepository(store),
			failIDs:            map[int64]bool{3: true, 7: true},
		},
	})

	run, err := svc.Start(ctx, cloture.StartRequest{})
	require.NoError(t, err)

	final := waitForRun(t, svc, run.ID)
	assert.Equal(t, cloture.EtatClosed, final.Etat)
	require.NotNil(t, final.Result)
	assert.Equal(t, cloture.StatutPartialFailure, final.Result.Status)
	assert.ElementsMatch(t, []int64{3, 7}, final.Result.FailedEmployeeIDs)

	// Failures never block the period advance.
	params, err := memory.NewParametresRepository(store).Get(ctx)
	require.NoError(t, err)
	assert.True(t, params.PeriodeCourante.Equal(periodeSuivante))
}

func TestClotureResumeSkipsPurge(t *testing.T) {
	ctx := context.Background()
	store := newClotureStore()

	// Rows an interrupted run already staged for the next periode.
	store.AddStagedDraft(periodeSuivante)
	njtRepo := memory.NewNjtRepository(store)
	_, err := njtRepo.Upsert(ctx, paie.NjtRecord{
		EmployeeID: 1, Periode: periodeSuivante, MotifID: 1, Njt: decimal.NewFromInt(22),
	})
	require.NoError(t, err)

	svc := newClotureService(store, repoOverrides{})
	resumeFrom := int64(3)
	run, err := svc.Start(ctx, cloture.StartRequest{ResumeFromEmployeeID: &resumeFrom})
	require.NoError(t, err)

	final := waitForRun(t, svc, run.ID)
	assert.Equal(t, cloture.EtatClosed, final.Etat)

	// The purge was skipped: both the draft and employee 1's staged NJT
	// survive, since employee 1 sits below the resume point.
	assert.Equal(t, 1, store.StagedDrafts(periodeSuivante))
	rec, err := njtRepo.Get(ctx, paie.NjtKey{EmployeeID: 1, Periode: periodeSuivante, MotifID: 1})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(22).Equal(rec.Njt))

	// Employees from the resume point onward were processed.
	rec, err = njtRepo.Get(ctx, paie.NjtKey{EmployeeID: 3, Periode: periodeSuivante, MotifID: 1})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(26).Equal(rec.Njt))
}

// pausingEmployeeRepo pauses the run after persisting one employee so
// the test can cancel at a known point of the roster.
type pausingEmployeeRepo struct {
	employee.EmployeeRepository
	pauseAfterID int64
	reached      chan struct{}
	release      chan struct{}
}

func (r *pausingEmployeeRepo) Update(ctx context.Context, e employee.Employee) error {
	err := r.EmployeeRepository.Update(ctx, e)
	if e.ID == r.pauseAfterID {
		close(r.reached)
		<-r.release
	}
	return err
}

// clotureStateFromID captures everything a closing writes for employees
// with id >= fromID, in a store-independent form.
func clotureStateFromID(t *testing.T, store *memory.Store, fromID int64) map[string]string {
	t.Helper()
	ctx := context.Background()
	employeeRepo := memory.NewEmployeeRepository(store)
	njtRepo := memory.NewNjtRepository(store)
	rubriquePaieRepo := memory.NewRubriquePaieRepository(store)

	snap := make(map[string]string)
	for id := fromID; id <= 7; id++ {
		emp, err := employeeRepo.GetByID(ctx, id)
		require.NoError(t, err)
		snap[fmt.Sprintf("employee-%d", id)] = fmt.Sprintf(
			"actif=%t conge=%t %s/%d", emp.Actif, emp.EnConge, emp.Categorie, emp.Echelon)

		rec, err := njtRepo.Get(ctx, paie.NjtKey{EmployeeID: id, Periode: periodeSuivante, MotifID: 1})
		switch {
		case err == nil:
			snap[fmt.Sprintf("njt-%d", id)] = rec.Njt.String()
		case errors.Is(err, paie.ErrNjtNotFound):
			snap[fmt.Sprintf("njt-%d", id)] = "none"
		default:
			t.Fatalf("njt get: %v", err)
		}

		line, err := rubriquePaieRepo.Get(ctx, paie.RubriquePaieKey{
			EmployeeID: id, Periode: periodeSuivante, MotifID: 1, RubriqueID: paie.RubriqueAnciennete,
		})
		switch {
		case err == nil:
			snap[fmt.Sprintf("anciennete-%d", id)] = line.Montant.String()
		case errors.Is(err, paie.ErrRubriquePaieNotFound):
			snap[fmt.Sprintf("anciennete-%d", id)] = "none"
		default:
			t.Fatalf("rubrique paie get: %v", err)
		}
	}

	params, err := memory.NewParametresRepository(store).Get(ctx)
	require.NoError(t, err)
	snap["periodes"] = params.PeriodeCourante.Format("2006-01") + "/" + params.PeriodeSuivante.Format("2006-01")
	return snap
}

func TestClotureResumeMatchesUninterruptedRun(t *testing.T) {
	ctx := context.Background()

	// Reference: the same roster closed in one uninterrupted run.
	full := newClotureStore()
	svcFull := newClotureService(full, repoOverrides{})
	run := startRun(t, svcFull, cloture.StartRequest{})
	require.Equal(t, cloture.EtatClosed, waitForRun(t, svcFull, run.ID).Etat)

	// Interrupt an identical store right after employee 2 persists.
	interrupted := newClotureStore()
	pausing := &pausingEmployeeRepo{
		EmployeeRepository: memory.NewEmployeeRepository(interrupted),
		pauseAfterID:       2,
		reached:            make(chan struct{}),
		release:            make(chan struct{}),
	}
	svc := newClotureService(interrupted, repoOverrides{employeeRepo: pausing})
	run = startRun(t, svc, cloture.StartRequest{})
	<-pausing.reached
	require.NoError(t, svc.Cancel(ctx, run.ID))
	close(pausing.release)
	require.Equal(t, cloture.EtatAborted, waitForRun(t, svc, run.ID).Etat)

	resumeFrom := int64(3)
	run = startRun(t, svc, cloture.StartRequest{ResumeFromEmployeeID: &resumeFrom})
	require.Equal(t, cloture.EtatClosed, waitForRun(t, svc, run.ID).Etat)

	// From the resume point onward the final state is the same as if the
	// run had never been interrupted.
	assert.Equal(t, clotureStateFromID(t, full, resumeFrom), clotureStateFromID(t, interrupted, resumeFrom))
}

// failingParametresRepo fails the finalize write.
type failingParametresRepo struct {
	parametres.ParametresRepository
}

func (r *failingParametresRepo) Update(ctx context.Context, p parametres.GlobalParameters) error {
	return errors.New("simulated parametres failure")
}

func TestClotureFinalizeFailureAborts(t *testing.T) {
	ctx := context.Background()
	store := newClotureStore()
	svc := newClotureService(store, repoOverrides{
		parametresRepo: &failingParametresRepo{
			ParametresRepository: memory.NewParametresRepository(store),
		},
	})

	run, err := svc.Start(ctx, cloture.StartRequest{})
	require.NoError(t, err)

	final := waitForRun(t, svc, run.ID)
	assert.Equal(t, cloture.EtatAborted, final.Etat)
	require.NotNil(t, final.Result)
	assert.Equal(t, cloture.StatutAborted, final.Result.Status)
	assert.Contains(t, final.Error, cloture.ErrFinalisation.Error())
}

// gatedStaging blocks PurgeStaging until released, or until the run
// context is cancelled.
type gatedStaging struct {
	cloture.StagingStore
	release chan struct{}
}

func (s *gatedStaging) PurgeStaging(ctx context.Context, periode time.Time) error {
	select {
	case <-s.release:
		return s.StagingStore.PurgeStaging(ctx, periode)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestClotureSingleRunGuard(t *testing.T) {
	ctx := context.Background()
	store := newClotureStore()
	gate := &gatedStaging{StagingStore: memory.NewStagingStore(store), release: make(chan struct{})}
	svc := newClotureService(store, repoOverrides{staging: gate})

	run, err := svc.Start(ctx, cloture.StartRequest{})
	require.NoError(t, err)

	_, err = svc.Start(ctx, cloture.StartRequest{})
	assert.ErrorIs(t, err, cloture.ErrClotureEnCours)

	close(gate.release)
	waitForRun(t, svc, run.ID)

	// The slot frees once the run finishes.
	second, err := svc.Start(ctx, cloture.StartRequest{})
	require.NoError(t, err)
	waitForRun(t, svc, second.ID)
}

func TestClotureCancel(t *testing.T) {
	ctx := context.Background()
	store := newClotureStore()
	gate := &gatedStaging{StagingStore: memory.NewStagingStore(store), release: make(chan struct{})}
	svc := newClotureService(store, repoOverrides{staging: gate})

	run, err := svc.Start(ctx, cloture.StartRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, run.ID))
	final := waitForRun(t, svc, run.ID)
	assert.Equal(t, cloture.EtatAborted, final.Etat)
}

func TestClotureGetUnknownRun(t *testing.T) {
	svc := newClotureService(newClotureStore(), repoOverrides{})
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, cloture.ErrRunNotFound)

	err = svc.Cancel(context.Background(), "missing")
	assert.ErrorIs(t, err, cloture.ErrRunNotFound)
}

func TestClotureProgressEvents(t *testing.T) {
	ctx := context.Background()
	store := newClotureStore()
	svc := newClotureService(store, repoOverrides{})

	run, err := svc.Start(ctx, cloture.StartRequest{})
	require.NoError(t, err)

	events, cleanup, err := svc.Subscribe(run.ID)
	require.NoError(t, err)
	defer cleanup()

	final := waitForRun(t, svc, run.ID)
	assert.Equal(t, cloture.EtatClosed, final.Etat)

	// At least the terminal finalizing event must have been observed by
	// a subscriber attached right after start.
	var got []cloture.Progress
drain:
	for {
		select {
		case p, ok := <-events:
			if !ok {
				break drain
			}
			got = append(got, p)
		default:
			break drain
		}
	}
	for _, p := range got {
		assert.NotEmpty(t, p.StepLabel)
	}
}
