package paie

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ResolveInput carries everything Resolve needs to derive one pay line.
type ResolveInput struct {
	Periode    time.Time
	EmployeeID int64
	MotifID    int64
	RubriqueID int64
	Base       *decimal.Decimal
	Nombre     *decimal.Decimal
	Fixe       bool
	Overwrite  bool
}

// Resolver derives base and nombre for a rubrique (auto vs. manual) and
// upserts the resulting pay line under the one-row-per-key invariant.
// It performs its single upsert and nothing else: payslip recomputation
// is the caller's responsibility.
type Resolver struct {
	calc             *Calculator
	employeeRepo     employee.EmployeeRepository
	categorieRepo    employee.CategorieRepository
	motifRepo        paie.MotifRepository
	rubriqueRepo     paie.RubriqueRepository
	rubriquePaieRepo paie.RubriquePaieRepository
	njtRepo          paie.NjtRepository
}

func NewResolver(
	calc *Calculator,
	employeeRepo employee.EmployeeRepository,
	categorieRepo employee.CategorieRepository,
	motifRepo paie.MotifRepository,
	rubriqueRepo paie.RubriqueRepository,
	rubriquePaieRepo paie.RubriquePaieRepository,
	njtRepo paie.NjtRepository,
) *Resolver {
	return &Resolver{
		calc:             calc,
		employeeRepo:     employeeRepo,
		categorieRepo:    categorieRepo,
		motifRepo:        motifRepo,
		rubriqueRepo:     rubriqueRepo,
		rubriquePaieRepo: rubriquePaieRepo,
		njtRepo:          njtRepo,
	}
}

func (r *Resolver) Resolve(ctx context.Context, in ResolveInput) (paie.RubriquePaie, error) {
	periode := paie.NormalizePeriode(in.Periode)

	emp, err := r.employeeRepo.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return paie.RubriquePaie{}, err
	}
	if _, err := r.motifRepo.GetByID(ctx, in.MotifID); err != nil {
		return paie.RubriquePaie{}, err
	}

	rub, err := r.rubriqueRepo.GetByID(ctx, in.RubriqueID)
	if errors.Is(err, paie.ErrRubriqueNotFound) && in.RubriqueID > paie.RappelOffset {
		rub, err = r.RubriqueRappel(ctx, in.RubriqueID-paie.RappelOffset)
	}
	if err != nil {
		return paie.RubriquePaie{}, err
	}

	base, err := r.resolveBase(ctx, rub, emp, in.Base)
	if err != nil {
		return paie.RubriquePaie{}, err
	}
	nombre, err := r.resolveNombre(ctx, rub, periode, in)
	if err != nil {
		return paie.RubriquePaie{}, err
	}

	montant := base.Mul(nombre)
	if rub.ID == paie.RubriqueAnciennete {
		taux := r.calc.TauxAnciennete(emp.AnneesAnciennete(periode))
		montant = montant.Mul(taux)
	}

	key := paie.RubriquePaieKey{
		EmployeeID: in.EmployeeID,
		Periode:    periode,
		MotifID:    in.MotifID,
		RubriqueID: rub.ID,
	}
	existing, err := r.rubriquePaieRepo.Get(ctx, key)
	switch {
	case err == nil:
		if existing.Fixe && !in.Overwrite {
			return paie.RubriquePaie{}, paie.ErrRubriquePaieConflict
		}
	case errors.Is(err, paie.ErrRubriquePaieNotFound):
		// first write for this key
	default:
		return paie.RubriquePaie{}, fmt.Errorf("failed to look up rubrique paie: %w", err)
	}

	line := paie.RubriquePaie{
		EmployeeID: in.EmployeeID,
		Periode:    periode,
		MotifID:    in.MotifID,
		RubriqueID: rub.ID,
		Base:       base,
		Nombre:     nombre,
		Montant:    montant.Round(2),
		Fixe:       in.Fixe,
	}
	return r.rubriquePaieRepo.Upsert(ctx, line)
}

// resolveBase ignores the supplied base whenever the rubrique is
// auto-based and recomputes it from the category salary ladder; the
// employee's own base salary is the fallback when the ladder has no
// matching rung.
func (r *Resolver) resolveBase(ctx context.Context, rub paie.Rubrique, emp employee.Employee, manual *decimal.Decimal) (decimal.Decimal, error) {
	if !rub.BaseAuto {
		if manual == nil {
			return decimal.Zero, validator.ValidationErrors{{Field: "base", Message: "is required when the rubrique base is manual"}}
		}
		return *manual, nil
	}

	salaire := emp.SalaireBase
	cat, err := r.categorieRepo.GetByNomEchelon(ctx, emp.Categorie, emp.Echelon)
	if err == nil {
		salaire = cat.Salaire
	} else if !errors.Is(err, employee.ErrCategorieNotFound) {
		return decimal.Zero, err
	}

	return r.calc.BaseJournaliere(salaire), nil
}

// resolveNombre reads the NJT ledger for auto-quantity rubriques; a
// missing ledger row counts as zero units.
func (r *Resolver) resolveNombre(ctx context.Context, rub paie.Rubrique, periode time.Time, in ResolveInput) (decimal.Decimal, error) {
	if !rub.NombreAuto {
		if in.Nombre == nil {
			return decimal.Zero, validator.ValidationErrors{{Field: "nombre", Message: "is required when the rubrique quantity is manual"}}
		}
		return *in.Nombre, nil
	}

	record, err := r.njtRepo.Get(ctx, paie.NjtKey{
		EmployeeID: in.EmployeeID,
		Periode:    periode,
		MotifID:    in.MotifID,
	})
	if errors.Is(err, paie.ErrNjtNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return record.Njt, nil
}

// RubriqueRappel returns the recall variant of a rubrique, creating it
// on first use: id RappelOffset+baseID, flags cloned from the base code,
// sens forced to Gain, auto base and auto quantity forced off. Creation
// is an upsert by id so concurrent or retried calls converge.
func (r *Resolver) RubriqueRappel(ctx context.Context, baseID int64) (paie.Rubrique, error) {
	rappelID := paie.RappelOffset + baseID

	existing, err := r.rubriqueRepo.GetByID(ctx, rappelID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, paie.ErrRubriqueNotFound) {
		return paie.Rubrique{}, err
	}

	base, err := r.rubriqueRepo.GetByID(ctx, baseID)
	if err != nil {
		return paie.Rubrique{}, err
	}

	rappel := paie.Rubrique{
		ID:             rappelID,
		Libelle:        "Rappel " + base.Libelle,
		Sens:           paie.SensGain,
		BaseAuto:       false,
		NombreAuto:     false,
		SoumisCNSS:     base.SoumisCNSS,
		SoumisCNAM:     base.SoumisCNAM,
		SoumisITS:      base.SoumisITS,
		Cumulable:      base.Cumulable,
		Plafonne:       base.Plafonne,
		AvantageNature: base.AvantageNature,
		Systeme:        true,
	}
	return r.rubriqueRepo.Upsert(ctx, rappel)
}
