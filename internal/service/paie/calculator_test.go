package paie

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCNSSBelowCeiling(t *testing.T) {
	calc := NewCalculator()

	got := calc.CNSS(d("12000"), d("15000"), d("0.01"))
	assert.True(t, d("120").Equal(got), "got %s", got)
}

func TestCNSSCappedAtCeiling(t *testing.T) {
	calc := NewCalculator()

	got := calc.CNSS(d("90000"), d("15000"), d("0.01"))
	assert.True(t, d("150").Equal(got), "got %s", got)
}

func TestCNSSNegativeBase(t *testing.T) {
	calc := NewCalculator()

	got := calc.CNSS(d("-500"), d("15000"), d("0.01"))
	assert.True(t, got.IsZero())
}

func TestCNAMNoCeiling(t *testing.T) {
	calc := NewCalculator()

	got := calc.CNAM(d("90000"), d("0.04"))
	assert.True(t, d("3600").Equal(got), "got %s", got)
}

func TestBaseImposableClampedToZero(t *testing.T) {
	calc := NewCalculator()

	got := calc.BaseImposable(d("4000"), d("0"), d("40"), d("160"), d("6000"))
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestITSFirstBracketOnly(t *testing.T) {
	calc := NewCalculator()

	// 8,000 stays inside the 15% bracket.
	got := calc.ITS(d("8000"), BaremeITSDefaut())
	assert.True(t, d("1200").Equal(got), "got %s", got)
}

func TestITSSecondBracket(t *testing.T) {
	calc := NewCalculator()

	// 15,000: 9,000 at 15% + 6,000 at 25% = 1,350 + 1,500.
	got := calc.ITS(d("15000"), BaremeITSDefaut())
	assert.True(t, d("2850").Equal(got), "got %s", got)
}

func TestITSTopBracket(t *testing.T) {
	calc := NewCalculator()

	// 30,000: 9,000 at 15% + 12,000 at 25% + 9,000 at 40%.
	got := calc.ITS(d("30000"), BaremeITSDefaut())
	assert.True(t, d("7950").Equal(got), "got %s", got)
}

func TestITSZeroBase(t *testing.T) {
	calc := NewCalculator()

	assert.True(t, calc.ITS(decimal.Zero, BaremeITSDefaut()).IsZero())
}

func TestTauxAnciennete(t *testing.T) {
	calc := NewCalculator()

	assert.True(t, calc.TauxAnciennete(0).IsZero())
	assert.True(t, calc.TauxAnciennete(2).IsZero())
	assert.True(t, d("0.03").Equal(calc.TauxAnciennete(3)))
	assert.True(t, d("0.1").Equal(calc.TauxAnciennete(10)))
	assert.True(t, d("0.3").Equal(calc.TauxAnciennete(30)))
	// Capped past 30 years.
	assert.True(t, d("0.3").Equal(calc.TauxAnciennete(45)))
}

func TestBaseJournaliere(t *testing.T) {
	calc := NewCalculator()

	got := calc.BaseJournaliere(d("90000"))
	assert.True(t, d("3000").Equal(got), "got %s", got)
}

