package payroll

import (
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculatePayrollRequest struct {
	EmployeeID     *int64           `json:"employee_id"`
	PeriodMonth    *int             `json:"period_month"`
	PeriodYear     *int             `json:"period_year"`
	OverrideSalary *decimal.Decimal `json:"override_salary,omitempty"`
}

// Validate checks the request shape. allowNegativeOverride reproduces the
// historical behaviour where a negative override slipped through.
func (r *CalculatePayrollRequest) Validate(allowNegativeOverride bool) error {
	var errs validator.ValidationErrors

	if r.EmployeeID == nil {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	} else if *r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a positive integer"})
	}
	if r.PeriodMonth == nil {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "is required"})
	} else if !validator.IsBetween(*r.PeriodMonth, 1, 12) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear == nil {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "is required"})
	} else if !validator.IsBetween(*r.PeriodYear, 2000, 2100) {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 2100"})
	}
	if r.OverrideSalary != nil {
		if r.OverrideSalary.IsNegative() && !allowNegativeOverride {
			errs = append(errs, validator.ValidationError{Field: "override_salary", Message: ErrNegativeOverrideSalary.Error()})
		}
		// Applies to negative values too; the column is NUMERIC(12,2).
		if !validator.MaxDigits(*r.OverrideSalary, 12, 2) {
			errs = append(errs, validator.ValidationError{Field: "override_salary", Message: "must have at most 10 integer digits and 2 decimal places"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollRecordResponse struct {
	ID                 int64         `json:"id"`
	EmployeeID         int64         `json:"employee_id"`
	EmployeeName       string        `json:"employee_name"`
	PeriodMonth        int           `json:"period_month"`
	PeriodYear         int           `json:"period_year"`
	OverrideSalary     *money.Amount `json:"override_salary"`
	BasicSalary        money.Amount  `json:"basic_salary"`
	GrossPay           money.Amount  `json:"gross_pay"`
	SSSEmployee        money.Amount  `json:"sss_employee"`
	SSSEmployer        money.Amount  `json:"sss_employer"`
	PhilHealthEmployee money.Amount  `json:"philhealth_employee"`
	PhilHealthEmployer money.Amount  `json:"philhealth_employer"`
	PagIbigEmployee    money.Amount  `json:"pagibig_employee"`
	PagIbigEmployer    money.Amount  `json:"pagibig_employer"`
	TaxableIncome      money.Amount  `json:"taxable_income"`
	TaxBracket         string        `json:"tax_bracket"`
	IncomeTax          money.Amount  `json:"income_tax"`
	TotalDeductions    money.Amount  `json:"total_deductions"`
	NetPay             money.Amount  `json:"net_pay"`
	CreatedAt          time.Time     `json:"created_at"`
}

// ========== HISTORY DTOs ==========

type HistoryFilter struct {
	EmployeeID *int64 `json:"employee_id,omitempty"`
	Year       *int   `json:"year,omitempty"`
}

// ========== TAX INFO DTOs ==========

// Rates are fractions (0.15) and keep their natural precision; bounds and
// amounts are pesos.
type TaxBracketResponse struct {
	LowerBound  money.Amount    `json:"lower_bound"`
	UpperBound  *money.Amount   `json:"upper_bound"`
	Rate        decimal.Decimal `json:"rate"`
	FixedAmount money.Amount    `json:"fixed_amount"`
	Label       string          `json:"label"`
}

type SSSInfoResponse struct {
	EmployeeRate decimal.Decimal `json:"employee_rate"`
	EmployerRate decimal.Decimal `json:"employer_rate"`
	MinimumMSC   money.Amount    `json:"minimum_msc"`
	MaximumMSC   money.Amount    `json:"maximum_msc"`
}

type PhilHealthInfoResponse struct {
	Rate          decimal.Decimal `json:"rate"`
	SalaryFloor   money.Amount    `json:"salary_floor"`
	SalaryCeiling money.Amount    `json:"salary_ceiling"`
}

type PagIbigInfoResponse struct {
	Rate            decimal.Decimal `json:"rate"`
	MaxContribution money.Amount    `json:"max_contribution"`
	SalaryThreshold money.Amount    `json:"salary_threshold"`
}

type TaxInfoResponse struct {
	Schedule   string                 `json:"schedule"`
	Brackets   []TaxBracketResponse   `json:"brackets"`
	SSS        SSSInfoResponse        `json:"sss"`
	PhilHealth PhilHealthInfoResponse `json:"philhealth"`
	PagIbig    PagIbigInfoResponse    `json:"pagibig"`
}
