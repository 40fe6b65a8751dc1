package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRecord is the stored result of one payroll computation. There is at
// most one record per employee and period.
type PayrollRecord struct {
	ID                 int64
	EmployeeID         int64
	PeriodMonth        int
	PeriodYear         int
	OverrideSalary     *decimal.Decimal
	BasicSalary        decimal.Decimal
	SSSEmployee        decimal.Decimal
	SSSEmployer        decimal.Decimal
	PhilHealthEmployee decimal.Decimal
	PhilHealthEmployer decimal.Decimal
	PagIbigEmployee    decimal.Decimal
	PagIbigEmployer    decimal.Decimal
	TaxableIncome      decimal.Decimal
	TaxBracket         string
	IncomeTax          decimal.Decimal
	TotalDeductions    decimal.Decimal
	NetPay             decimal.Decimal
	CreatedAt          time.Time

	// Joined fields
	EmployeeName *string
}

// TaxBracket is one row of the annual income tax schedule. A nil UpperBound
// means the bracket is unbounded.
type TaxBracket struct {
	LowerBound  decimal.Decimal
	UpperBound  *decimal.Decimal
	Rate        decimal.Decimal
	FixedAmount decimal.Decimal
	Label       string
}

// Contains reports whether annual income a falls in the bracket. The bounds'
// inclusiveness is chosen by the caller.
func (b TaxBracket) Contains(a decimal.Decimal, lowerInclusive, upperInclusive bool) bool {
	if lowerInclusive {
		if a.LessThan(b.LowerBound) {
			return false
		}
	} else if a.LessThanOrEqual(b.LowerBound) {
		return false
	}
	if b.UpperBound == nil {
		return true
	}
	if upperInclusive {
		return a.LessThanOrEqual(*b.UpperBound)
	}
	return a.LessThan(*b.UpperBound)
}

// Tax computes fixed_amount + rate × (a − lower_bound), unrounded.
func (b TaxBracket) Tax(a decimal.Decimal) decimal.Decimal {
	return b.FixedAmount.Add(b.Rate.Mul(a.Sub(b.LowerBound)))
}

// ContributionShare is an employee/employer split of a mandatory contribution.
type ContributionShare struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// SSSBand maps a salary range to its monthly salary credit. A nil SalaryMax
// means the band is open-ended.
type SSSBand struct {
	SalaryMin decimal.Decimal
	SalaryMax *decimal.Decimal
	MSC       decimal.Decimal
}

type SSSRule struct {
	Bands        []SSSBand
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
}

type PhilHealthRule struct {
	Rate          decimal.Decimal
	SalaryFloor   decimal.Decimal
	SalaryCeiling decimal.Decimal
}

type PagIbigRule struct {
	Rate            decimal.Decimal
	MaxContribution decimal.Decimal
	SalaryThreshold decimal.Decimal
}

// RateTable bundles the statutory tables a computation runs against.
type RateTable struct {
	Name        string
	TaxBrackets []TaxBracket
	SSS         SSSRule
	PhilHealth  PhilHealthRule
	PagIbig     PagIbigRule
}

// Breakdown is a computed payroll before it is persisted.
type Breakdown struct {
	GrossPay        decimal.Decimal
	SSS             ContributionShare
	PhilHealth      ContributionShare
	PagIbig         ContributionShare
	TaxableIncome   decimal.Decimal
	AnnualTaxable   decimal.Decimal
	TaxBracket      string
	IncomeTax       decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}
