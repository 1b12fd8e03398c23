package paie

import (
	"context"
	"log/slog"

	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
)

const dateLayout = "2006-01-02"

type PaieServiceImpl struct {
	resolver   *Resolver
	aggregator *Aggregator
	motifRepo  paie.MotifRepository
	rubRepo    paie.RubriqueRepository
	njtRepo    paie.NjtRepository
}

func NewPaieService(
	resolver *Resolver,
	aggregator *Aggregator,
	motifRepo paie.MotifRepository,
	rubRepo paie.RubriqueRepository,
	njtRepo paie.NjtRepository,
) paie.Service {
	return &PaieServiceImpl{
		resolver:   resolver,
		aggregator: aggregator,
		motifRepo:  motifRepo,
		rubRepo:    rubRepo,
		njtRepo:    njtRepo,
	}
}

func (s *PaieServiceImpl) SetRubriquePaie(ctx context.Context, req paie.SetRubriquePaieRequest) (paie.RubriquePaieResponse, error) {
	if err := req.Validate(); err != nil {
		return paie.RubriquePaieResponse{}, err
	}

	line, err := s.resolver.Resolve(ctx, ResolveInput{
		Periode:    req.PeriodeTime(),
		EmployeeID: req.EmployeeID,
		MotifID:    req.MotifID,
		RubriqueID: req.RubriqueID,
		Base:       req.Base,
		Nombre:     req.Nombre,
		Fixe:       req.Fixe,
		Overwrite:  req.Overwrite,
	})
	if err != nil {
		return paie.RubriquePaieResponse{}, err
	}

	return paie.RubriquePaieResponse{
		EmployeeID: line.EmployeeID,
		MotifID:    line.MotifID,
		RubriqueID: line.RubriqueID,
		Periode:    line.Periode.Format(dateLayout),
		Base:       line.Base,
		Nombre:     line.Nombre,
		Montant:    line.Montant,
		Fixe:       line.Fixe,
	}, nil
}

// SetNjt upserts the worked-units count for a key. A persistence failure
// is reported as false rather than an error so batch callers can collect
// failed ids and keep going.
func (s *PaieServiceImpl) SetNjt(ctx context.Context, req paie.SetNjtRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}

	_, err := s.njtRepo.Upsert(ctx, paie.NjtRecord{
		EmployeeID: req.EmployeeID,
		Periode:    req.PeriodeTime(),
		MotifID:    req.MotifID,
		Njt:        req.Njt,
	})
	if err != nil {
		slog.Warn("njt upsert failed",
			"employee_id", req.EmployeeID,
			"motif_id", req.MotifID,
			"periode", req.Periode,
			"error", err,
		)
		return false, nil
	}
	return true, nil
}

func (s *PaieServiceImpl) ComputePaie(ctx context.Context, req paie.ComputePaieRequest) (paie.PaieResponse, error) {
	if err := req.Validate(); err != nil {
		return paie.PaieResponse{}, err
	}

	du, au := req.Range()
	p, err := s.aggregator.ComputePaie(ctx, req.EmployeeID, req.MotifID, du, au)
	if err != nil {
		return paie.PaieResponse{}, err
	}

	return paie.PaieResponse{
		EmployeeID:     p.EmployeeID,
		MotifID:        p.MotifID,
		Periode:        p.Periode.Format(dateLayout),
		PeriodeDu:      p.PeriodeDu.Format(dateLayout),
		PeriodeAu:      p.PeriodeAu.Format(dateLayout),
		BT:             p.BT,
		BNI:            p.BNI,
		AvantageNature: p.AvantageNature,
		CNSS:           p.CNSS,
		CNAM:           p.CNAM,
		ITS:            p.ITS,
		Net:            p.Net,
		NJT:            p.NJT,
		NbHeures:       p.NbHeures,
		FTE:            p.FTE,
	}, nil
}

func (s *PaieServiceImpl) ListMotifs(ctx context.Context) ([]paie.MotifResponse, error) {
	motifs, err := s.motifRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]paie.MotifResponse, 0, len(motifs))
	for _, m := range motifs {
		result = append(result, paie.MotifResponse{
			ID:             m.ID,
			Nom:            m.Nom,
			DeclarationITS: m.DeclarationITS,
			ParDefaut:      m.ParDefaut,
		})
	}
	return result, nil
}

func (s *PaieServiceImpl) ListRubriques(ctx context.Context) ([]paie.RubriqueResponse, error) {
	rubriques, err := s.rubRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]paie.RubriqueResponse, 0, len(rubriques))
	for _, r := range rubriques {
		result = append(result, paie.RubriqueResponse{
			ID:             r.ID,
			Libelle:        r.Libelle,
			Sens:           string(r.Sens),
			BaseAuto:       r.BaseAuto,
			NombreAuto:     r.NombreAuto,
			SoumisCNSS:     r.SoumisCNSS,
			SoumisCNAM:     r.SoumisCNAM,
			SoumisITS:      r.SoumisITS,
			Cumulable:      r.Cumulable,
			Plafonne:       r.Plafonne,
			AvantageNature: r.AvantageNature,
			Systeme:        r.Systeme,
		})
	}
	return result, nil
}
