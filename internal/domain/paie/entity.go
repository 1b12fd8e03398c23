package paie

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sens marks a rubrique as an earning or a deduction.
type Sens string

const (
	SensGain    Sens = "G"
	SensRetenue Sens = "R"
)

// Well-known system rubrique ids. RappelOffset is the id scheme for
// synthetic recall rubriques: rappel(id) = RappelOffset + id. Downstream
// declarations rely on the numbering, so it is kept as-is.
const (
	RubriqueSalaireBase int64 = 1
	RubriqueAnciennete  int64 = 2
	RappelOffset        int64 = 1000
)

// Motif is a pay-run reason (normal month, termination run, ...).
// Reference data, immutable during a run.
type Motif struct {
	ID             int64
	Nom            string
	DeclarationITS bool
	ParDefaut      bool
}

// Rubrique is a pay-code definition with its tax/contribution flags.
// Never mutated once created; recall variants are created lazily.
type Rubrique struct {
	ID             int64
	Libelle        string
	Sens           Sens
	BaseAuto       bool
	NombreAuto     bool
	SoumisCNSS     bool
	SoumisCNAM     bool
	SoumisITS      bool
	Cumulable      bool
	Plafonne       bool
	AvantageNature bool
	Systeme        bool
}

// EstRappel reports whether the rubrique is a synthetic recall variant.
func (r Rubrique) EstRappel() bool { return r.ID > RappelOffset }

// RubriquePaieKey identifies a computed pay line. At most one row may
// exist per key.
type RubriquePaieKey struct {
	EmployeeID int64
	Periode    time.Time
	MotifID    int64
	RubriqueID int64
}

// RubriquePaie is one computed pay line.
type RubriquePaie struct {
	EmployeeID int64
	Periode    time.Time
	MotifID    int64
	RubriqueID int64
	Base       decimal.Decimal
	Nombre     decimal.Decimal
	Montant    decimal.Decimal
	Fixe       bool
}

// Key returns the uniqueness key of the line.
func (r RubriquePaie) Key() RubriquePaieKey {
	return RubriquePaieKey{
		EmployeeID: r.EmployeeID,
		Periode:    r.Periode,
		MotifID:    r.MotifID,
		RubriqueID: r.RubriqueID,
	}
}

// NjtKey identifies a worked-units record.
type NjtKey struct {
	EmployeeID int64
	Periode    time.Time
	MotifID    int64
}

// NjtRecord holds the worked-units count for an employee, periode and motif.
type NjtRecord struct {
	EmployeeID int64
	Periode    time.Time
	MotifID    int64
	Njt        decimal.Decimal
}

// Key returns the uniqueness key of the record.
func (n NjtRecord) Key() NjtKey {
	return NjtKey{EmployeeID: n.EmployeeID, Periode: n.Periode, MotifID: n.MotifID}
}

// Paie is the aggregated payslip for an employee, periode and motif.
// It is fully recomputed on every aggregation: the stored row is
// replaced, never patched.
type Paie struct {
	EmployeeID     int64
	Periode        time.Time
	MotifID        int64
	PeriodeDu      time.Time
	PeriodeAu      time.Time
	BT             decimal.Decimal
	BNI            decimal.Decimal
	AvantageNature decimal.Decimal
	CNSS           decimal.Decimal
	CNAM           decimal.Decimal
	ITS            decimal.Decimal
	RetenuesBrutes decimal.Decimal
	Net            decimal.Decimal
	NJT            decimal.Decimal
	NbHeures       decimal.Decimal
	FTE            decimal.Decimal
}

// Key returns the uniqueness key of the payslip.
func (p Paie) Key() NjtKey {
	return NjtKey{EmployeeID: p.EmployeeID, Periode: p.Periode, MotifID: p.MotifID}
}

// NormalizePeriode truncates a date to the first of its month, UTC.
// All periode keys in the engine are normalized this way.
func NormalizePeriode(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextPeriode computes the periode that follows: the first of the next
// month. The "30 days later" phrasing of the payroll rule always lands
// in the following month from any day of the current one.
func NextPeriode(periode time.Time) time.Time {
	return NormalizePeriode(periode).AddDate(0, 1, 0)
}
