package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Calculator turns a monthly gross pay into a full payroll breakdown.
type Calculator struct {
	table payroll.RateTable
	tax   *TaxCalculator
}

func NewCalculator(table payroll.RateTable, legacyTaxBoundary bool) *Calculator {
	return &Calculator{
		table: table,
		tax:   NewTaxCalculator(table.TaxBrackets, legacyTaxBoundary),
	}
}

func (c *Calculator) Tax() *TaxCalculator {
	return c.tax
}

// Compute derives contributions, withholding tax and net pay. Income tax is
// levied on gross less the employee contributions, floored at zero.
func (c *Calculator) Compute(gross decimal.Decimal) (payroll.Breakdown, error) {
	sss := CalculateSSS(c.table.SSS, gross)
	philHealth := CalculatePhilHealth(c.table.PhilHealth, gross)
	pagIbig := CalculatePagIbig(c.table.PagIbig, gross)

	contributions := sss.Employee.Add(philHealth.Employee).Add(pagIbig.Employee)
	taxable := decimal.Max(gross.Sub(contributions), decimal.Zero)

	incomeTax, bracket, err := c.tax.MonthlyWithholding(taxable)
	if err != nil {
		return payroll.Breakdown{}, fmt.Errorf("failed to compute withholding tax: %w", err)
	}

	totalDeductions := contributions.Add(incomeTax)

	return payroll.Breakdown{
		GrossPay:        gross,
		SSS:             sss,
		PhilHealth:      philHealth,
		PagIbig:         pagIbig,
		TaxableIncome:   taxable,
		AnnualTaxable:   taxable.Mul(twelve),
		TaxBracket:      bracket.Label,
		IncomeTax:       incomeTax,
		TotalDeductions: totalDeductions,
		NetPay:          gross.Sub(totalDeductions),
	}, nil
}
