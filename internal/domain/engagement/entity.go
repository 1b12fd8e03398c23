package engagement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Engagement is an employee loan or advance repaid by per-period
// installments deducted from pay.
type Engagement struct {
	ID         int64
	EmployeeID int64
	Libelle    string
	Total      decimal.Decimal
	// Tranche is the contractual per-period installment. TrancheCourante
	// is what the next period will actually deduct: the installment
	// clamped to the outstanding balance. Recomputed at each closing.
	Tranche         decimal.Decimal
	TrancheCourante decimal.Decimal
	Rembourse       decimal.Decimal
	Actif           bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Restant returns the outstanding balance.
func (e Engagement) Restant() decimal.Decimal {
	r := e.Total.Sub(e.Rembourse)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// History is an append-only snapshot of installment state taken at
// closing time. Never mutated afterward.
type History struct {
	EmployeeID   int64
	Periode      time.Time
	EngagementID int64
	Tranche      decimal.Decimal
	Restant      decimal.Decimal
	CreatedAt    time.Time
}
