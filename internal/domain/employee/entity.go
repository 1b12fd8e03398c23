package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the roster record the closing run iterates over.
// Only the cloture orchestrator mutates it; everything else reads.
type Employee struct {
	ID             int64
	Nom            string
	Prenom         string
	Actif          bool
	EnConge        bool
	EnDebauche     bool
	AvancementAuto bool
	Categorie      string
	Echelon        int
	DateEmbauche   time.Time
	DateFinContrat *time.Time
	SalaireBase    decimal.Decimal
	Semaine        SemaineTravail
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// JourTravail describes one weekday of the contractual schedule.
type JourTravail struct {
	DebutSemaine bool
	FinSemaine   bool
	Weekend      bool
}

// SemaineTravail is the 7-day contractual schedule, Monday first.
type SemaineTravail [7]JourTravail

// Categorie is one rung of the salary ladder. Echelon orders the rungs
// within a named category.
type Categorie struct {
	Nom     string
	Echelon int
	Salaire decimal.Decimal
}

// AnneesAnciennete returns full years of service at the given periode.
func (e Employee) AnneesAnciennete(periode time.Time) int {
	years := periode.Year() - e.DateEmbauche.Year()
	if e.DateEmbauche.AddDate(years, 0, 0).After(periode) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
