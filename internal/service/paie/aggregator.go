package paie

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/domain/parametres"
	"github.com/shopspring/decimal"
)

// Aggregator folds every pay line of an (employee, periode, motif) into
// one payslip. The stored Paie row is replaced wholesale on each call,
// which is what makes recomputation idempotent.
type Aggregator struct {
	calc             *Calculator
	employeeRepo     employee.EmployeeRepository
	motifRepo        paie.MotifRepository
	rubriqueRepo     paie.RubriqueRepository
	rubriquePaieRepo paie.RubriquePaieRepository
	njtRepo          paie.NjtRepository
	paieRepo         paie.PaieRepository
	parametresRepo   parametres.ParametresRepository
}

func NewAggregator(
	calc *Calculator,
	employeeRepo employee.EmployeeRepository,
	motifRepo paie.MotifRepository,
	rubriqueRepo paie.RubriqueRepository,
	rubriquePaieRepo paie.RubriquePaieRepository,
	njtRepo paie.NjtRepository,
	paieRepo paie.PaieRepository,
	parametresRepo parametres.ParametresRepository,
) *Aggregator {
	return &Aggregator{
		calc:             calc,
		employeeRepo:     employeeRepo,
		motifRepo:        motifRepo,
		rubriqueRepo:     rubriqueRepo,
		rubriquePaieRepo: rubriquePaieRepo,
		njtRepo:          njtRepo,
		paieRepo:         paieRepo,
		parametresRepo:   parametresRepo,
	}
}

func (a *Aggregator) ComputePaie(ctx context.Context, employeeID, motifID int64, du, au time.Time) (paie.Paie, error) {
	if _, err := a.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return paie.Paie{}, err
	}
	if _, err := a.motifRepo.GetByID(ctx, motifID); err != nil {
		return paie.Paie{}, err
	}

	params, err := a.parametresRepo.Get(ctx)
	if errors.Is(err, parametres.ErrParametresNotFound) {
		params = parametres.Defaults()
	} else if err != nil {
		return paie.Paie{}, err
	}

	lines, err := a.rubriquePaieRepo.ListRange(ctx, employeeID, motifID, paie.NormalizePeriode(du), paie.NormalizePeriode(au))
	if err != nil {
		return paie.Paie{}, fmt.Errorf("failed to list rubrique paie lines: %w", err)
	}

	var (
		bt             = decimal.Zero
		bni            = decimal.Zero
		avantage       = decimal.Zero
		retenues       = decimal.Zero
		cnssPlafonnee  = decimal.Zero
		cnssLibre      = decimal.Zero
		cnamBase       = decimal.Zero
		rubriquesCache = map[int64]paie.Rubrique{}
	)

	for _, line := range lines {
		rub, ok := rubriquesCache[line.RubriqueID]
		if !ok {
			rub, err = a.rubriqueRepo.GetByID(ctx, line.RubriqueID)
			if err != nil {
				return paie.Paie{}, fmt.Errorf("rubrique %d referenced by pay line: %w", line.RubriqueID, err)
			}
			rubriquesCache[line.RubriqueID] = rub
		}

		switch rub.Sens {
		case paie.SensGain:
			if rub.SoumisITS {
				bt = bt.Add(line.Montant)
			}
			if rub.SoumisCNSS {
				if rub.Plafonne {
					cnssPlafonnee = cnssPlafonnee.Add(line.Montant)
				} else {
					cnssLibre = cnssLibre.Add(line.Montant)
				}
			}
			if rub.SoumisCNAM {
				cnamBase = cnamBase.Add(line.Montant)
			}
			if rub.AvantageNature {
				avantage = avantage.Add(line.Montant)
			}
		case paie.SensRetenue:
			retenues = retenues.Add(line.Montant)
			if !rub.SoumisITS {
				bni = bni.Add(line.Montant)
			}
		}
	}

	// Plafonne-flagged lines go through the statutory ceiling; the rest
	// contribute at the full rate.
	cnss := a.calc.CNSS(cnssPlafonnee, params.PlafondCNSS, params.TauxCNSS).
		Add(cnssLibre.Mul(params.TauxCNSS).Round(2))
	cnam := a.calc.CNAM(cnamBase, params.TauxCNAM)
	imposable := a.calc.BaseImposable(bt, bni, cnss, cnam, params.AbattementITS)
	its := a.calc.ITS(imposable, BaremeITSDefaut())
	net := bt.Sub(cnss).Sub(cnam).Sub(its).Sub(retenues)

	periode := paie.NormalizePeriode(du)
	njt := decimal.Zero
	if record, err := a.njtRepo.Get(ctx, paie.NjtKey{EmployeeID: employeeID, Periode: periode, MotifID: motifID}); err == nil {
		njt = record.Njt
	} else if !errors.Is(err, paie.ErrNjtNotFound) {
		return paie.Paie{}, err
	}

	fte := decimal.Zero
	if params.NjtDefaut.IsPositive() {
		fte = njt.Div(params.NjtDefaut).Round(4)
	}

	p := paie.Paie{
		EmployeeID:     employeeID,
		Periode:        periode,
		MotifID:        motifID,
		PeriodeDu:      du,
		PeriodeAu:      au,
		BT:             bt.Round(2),
		BNI:            bni.Round(2),
		AvantageNature: avantage.Round(2),
		CNSS:           cnss,
		CNAM:           cnam,
		ITS:            its,
		RetenuesBrutes: retenues.Round(2),
		Net:            net.Round(2),
		NJT:            njt,
		NbHeures:       njt.Mul(decimal.NewFromInt(8)),
		FTE:            fte,
	}

	if err := a.paieRepo.Replace(ctx, p); err != nil {
		return paie.Paie{}, fmt.Errorf("failed to replace paie: %w", err)
	}
	return p, nil
}
