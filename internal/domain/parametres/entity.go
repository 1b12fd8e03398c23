package parametres

import (
	"time"

	"github.com/shopspring/decimal"
)

// GlobalParameters is the process-wide payroll configuration singleton.
// Read throughout a run; written exactly once per closing, at Finalize,
// by the cloture orchestrator only.
type GlobalParameters struct {
	PeriodeCourante time.Time
	PeriodeSuivante time.Time
	NjtDefaut       decimal.Decimal
	AncienneteAuto  bool

	TauxCNSS      decimal.Decimal
	PlafondCNSS   decimal.Decimal
	TauxCNAM      decimal.Decimal
	AbattementITS decimal.Decimal

	RaisonSociale string
	Devise        string
	UpdatedAt     time.Time
}

// Defaults returns the statutory defaults the engine falls back to when
// a field is unset: 1% CNSS capped at 15,000, 4% CNAM, 6,000 abatement.
func Defaults() GlobalParameters {
	return GlobalParameters{
		NjtDefaut:     decimal.NewFromInt(26),
		TauxCNSS:      decimal.RequireFromString("0.01"),
		PlafondCNSS:   decimal.NewFromInt(15000),
		TauxCNAM:      decimal.RequireFromString("0.04"),
		AbattementITS: decimal.NewFromInt(6000),
		Devise:        "MRU",
	}
}
