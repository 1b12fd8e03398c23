package paie

import (
	"github.com/shopspring/decimal"
)

// Tranche is one bracket of the progressive ITS scale. Plafond is the
// upper bound of the bracket; nil means unbounded (the last bracket).
type Tranche struct {
	Plafond *decimal.Decimal
	Taux    decimal.Decimal
}

// Bareme is a progressive withholding scale. Brackets are ordered by
// ascending Plafond.
type Bareme struct {
	Tranches []Tranche
}

// BaremeITSDefaut returns the statutory monthly ITS scale:
// 15% up to 9,000, 25% up to 21,000, 40% above.
func BaremeITSDefaut() Bareme {
	p1 := decimal.NewFromInt(9000)
	p2 := decimal.NewFromInt(21000)
	return Bareme{Tranches: []Tranche{
		{Plafond: &p1, Taux: decimal.RequireFromString("0.15")},
		{Plafond: &p2, Taux: decimal.RequireFromString("0.25")},
		{Plafond: nil, Taux: decimal.RequireFromString("0.40")},
	}}
}

// Calculator holds the pure statutory formulas. No state, no I/O.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// CNSS computes the employee social-security contribution on a base
// capped at the statutory ceiling.
func (c *Calculator) CNSS(base, plafond, taux decimal.Decimal) decimal.Decimal {
	if base.GreaterThan(plafond) {
		base = plafond
	}
	if base.IsNegative() {
		return decimal.Zero
	}
	return base.Mul(taux).Round(2)
}

// CNAM computes the employee health-insurance contribution. No ceiling.
func (c *Calculator) CNAM(base, taux decimal.Decimal) decimal.Decimal {
	if base.IsNegative() {
		return decimal.Zero
	}
	return base.Mul(taux).Round(2)
}

// BaseImposable derives the ITS taxable base. A negative intermediate
// result is clamped to zero: the domain rule, not an error.
func (c *Calculator) BaseImposable(bt, bni, cnss, cnam, abattement decimal.Decimal) decimal.Decimal {
	base := bt.Sub(bni).Sub(cnss).Sub(cnam).Sub(abattement)
	if base.IsNegative() {
		return decimal.Zero
	}
	return base
}

// ITS applies the progressive scale to an already-derived taxable base.
func (c *Calculator) ITS(imposable decimal.Decimal, bareme Bareme) decimal.Decimal {
	if !imposable.IsPositive() {
		return decimal.Zero
	}

	total := decimal.Zero
	floor := decimal.Zero
	for _, tranche := range bareme.Tranches {
		if tranche.Plafond == nil || imposable.LessThanOrEqual(*tranche.Plafond) {
			total = total.Add(imposable.Sub(floor).Mul(tranche.Taux))
			break
		}
		total = total.Add(tranche.Plafond.Sub(floor).Mul(tranche.Taux))
		floor = *tranche.Plafond
	}
	return total.Round(2)
}

// TauxAnciennete returns the seniority bonus rate for full years of
// service: nothing below 3 years, then 3% plus 1% per extra year,
// capped at 30%.
func (c *Calculator) TauxAnciennete(annees int) decimal.Decimal {
	if annees < 3 {
		return decimal.Zero
	}
	pct := 3 + (annees - 3)
	if pct > 30 {
		pct = 30
	}
	return decimal.NewFromInt(int64(pct)).Div(decimal.NewFromInt(100))
}

// BaseJournaliere is the daily pay base: the monthly salary over 30.
func (c *Calculator) BaseJournaliere(salaireMensuel decimal.Decimal) decimal.Decimal {
	return salaireMensuel.Div(decimal.NewFromInt(30))
}
