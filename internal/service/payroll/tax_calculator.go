package payroll

import (
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// TaxCalculator applies a graduated annual schedule. The exempt bracket is
// closed at its upper bound and every later bracket is open at its lower
// bound, so an income sitting exactly on a boundary is taxed by the lower
// bracket.
type TaxCalculator struct {
	brackets []payroll.TaxBracket

	// legacyBoundary moves the exempt ceiling into the first taxed bracket,
	// reproducing the old >= comparison.
	legacyBoundary bool
}

func NewTaxCalculator(brackets []payroll.TaxBracket, legacyBoundary bool) *TaxCalculator {
	return &TaxCalculator{brackets: brackets, legacyBoundary: legacyBoundary}
}

// BracketFor returns the bracket annual income falls into.
func (c *TaxCalculator) BracketFor(annual decimal.Decimal) (payroll.TaxBracket, error) {
	for i, b := range c.brackets {
		lowerInclusive := i == 0 || (i == 1 && c.legacyBoundary)
		upperInclusive := !(i == 0 && c.legacyBoundary)
		if b.Contains(annual, lowerInclusive, upperInclusive) {
			return b, nil
		}
	}
	return payroll.TaxBracket{}, payroll.ErrNoMatchingBracket
}

// AnnualTax returns the tax due on annual income, rounded to centavos.
// Negative income is treated as zero.
func (c *TaxCalculator) AnnualTax(annual decimal.Decimal) (decimal.Decimal, payroll.TaxBracket, error) {
	if annual.IsNegative() {
		annual = decimal.Zero
	}
	b, err := c.BracketFor(annual)
	if err != nil {
		return decimal.Zero, payroll.TaxBracket{}, err
	}
	return b.Tax(annual).RoundBank(2), b, nil
}

// MonthlyWithholding annualises monthly taxable income and spreads the
// annual tax back over twelve months.
func (c *TaxCalculator) MonthlyWithholding(monthlyTaxable decimal.Decimal) (decimal.Decimal, payroll.TaxBracket, error) {
	annualTax, b, err := c.AnnualTax(monthlyTaxable.Mul(twelve))
	if err != nil {
		return decimal.Zero, payroll.TaxBracket{}, err
	}
	return annualTax.Div(twelve).RoundBank(2), b, nil
}
