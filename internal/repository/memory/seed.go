package memory

import (
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/domain/parametres"
)

// Seed installs the reference data a fresh store needs to run: the
// normal motif, the system rubriques and the global parameters with
// statutory defaults, current periode set to the current month.
func (s *Store) Seed(now time.Time) {
	s.PutMotif(paie.Motif{ID: 1, Nom: "Salaire normal", DeclarationITS: true, ParDefaut: true})
	s.PutMotif(paie.Motif{ID: 2, Nom: "Solde de tout compte", DeclarationITS: false})

	s.PutRubrique(paie.Rubrique{
		ID:         paie.RubriqueSalaireBase,
		Libelle:    "Salaire de base",
		Sens:       paie.SensGain,
		BaseAuto:   true,
		NombreAuto: true,
		SoumisCNSS: true,
		SoumisCNAM: true,
		SoumisITS:  true,
		Cumulable:  true,
		Plafonne:   true,
		Systeme:    true,
	})
	s.PutRubrique(paie.Rubrique{
		ID:         paie.RubriqueAnciennete,
		Libelle:    "Prime d'anciennete",
		Sens:       paie.SensGain,
		BaseAuto:   true,
		NombreAuto: true,
		SoumisCNSS: true,
		SoumisCNAM: true,
		SoumisITS:  true,
		Cumulable:  true,
		Plafonne:   true,
		Systeme:    true,
	})

	courante := paie.NormalizePeriode(now)
	params := parametres.Defaults()
	params.PeriodeCourante = courante
	params.PeriodeSuivante = paie.NextPeriode(courante)
	params.AncienneteAuto = true
	s.PutParametres(params)
}
