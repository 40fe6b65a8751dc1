package payroll

import (
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

func zeroShare() payroll.ContributionShare {
	return payroll.ContributionShare{Employee: decimal.Zero, Employer: decimal.Zero}
}

// MonthlySalaryCredit looks up the SSS credit for a monthly salary.
func MonthlySalaryCredit(rule payroll.SSSRule, salary decimal.Decimal) decimal.Decimal {
	for _, band := range rule.Bands {
		if band.SalaryMax == nil || salary.LessThanOrEqual(*band.SalaryMax) {
			return band.MSC
		}
	}
	if len(rule.Bands) == 0 {
		return decimal.Zero
	}
	return rule.Bands[len(rule.Bands)-1].MSC
}

// CalculateSSS computes both SSS shares from the monthly salary credit.
func CalculateSSS(rule payroll.SSSRule, salary decimal.Decimal) payroll.ContributionShare {
	if !salary.IsPositive() {
		return zeroShare()
	}
	msc := MonthlySalaryCredit(rule, salary)
	return payroll.ContributionShare{
		Employee: msc.Mul(rule.EmployeeRate).RoundBank(2),
		Employer: msc.Mul(rule.EmployerRate).RoundBank(2),
	}
}

// CalculatePhilHealth clamps the salary base to [floor, ceiling] and splits
// the premium equally.
func CalculatePhilHealth(rule payroll.PhilHealthRule, salary decimal.Decimal) payroll.ContributionShare {
	if !salary.IsPositive() {
		return zeroShare()
	}
	base := decimal.Max(rule.SalaryFloor, decimal.Min(salary, rule.SalaryCeiling))
	total := base.Mul(rule.Rate).RoundBank(2)
	half := total.Div(two).RoundBank(2)
	return payroll.ContributionShare{Employee: half, Employer: half}
}

// CalculatePagIbig computes the HDMF contribution. Both shares are equal and
// capped once the salary exceeds the threshold.
func CalculatePagIbig(rule payroll.PagIbigRule, salary decimal.Decimal) payroll.ContributionShare {
	if !salary.IsPositive() {
		return zeroShare()
	}
	c := salary.Mul(rule.Rate).RoundBank(2)
	if salary.GreaterThan(rule.SalaryThreshold) {
		c = decimal.Min(c, rule.MaxContribution)
	}
	return payroll.ContributionShare{Employee: c, Employer: c}
}
