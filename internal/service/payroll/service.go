package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/money"
)

// Options toggles behaviour kept for QA parity with the historical build.
// The zero value is the correct behaviour.
type Options struct {
	LegacyTaxBoundary     bool
	AllowNegativeOverride bool
}

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	table        payroll.RateTable
	calculator   *Calculator
	opts         Options
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	table payroll.RateTable,
	opts Options,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		table:        table,
		calculator:   NewCalculator(table, opts.LegacyTaxBoundary),
		opts:         opts,
	}
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) CalculatePayroll(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollRecordResponse, bool, error) {
	if err := req.Validate(s.opts.AllowNegativeOverride); err != nil {
		return payroll.PayrollRecordResponse{}, false, err
	}

	emp, err := s.employeeRepo.GetActiveByID(ctx, *req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayrollRecordResponse{}, false, employee.ErrEmployeeNotFound
		}
		return payroll.PayrollRecordResponse{}, false, fmt.Errorf("failed to get employee: %w", err)
	}

	gross := emp.MonthlySalary
	if req.OverrideSalary != nil {
		gross = *req.OverrideSalary
	}

	breakdown, err := s.calculator.Compute(gross)
	if err != nil {
		return payroll.PayrollRecordResponse{}, false, err
	}

	record := payroll.PayrollRecord{
		EmployeeID:         emp.ID,
		PeriodMonth:        *req.PeriodMonth,
		PeriodYear:         *req.PeriodYear,
		OverrideSalary:     req.OverrideSalary,
		BasicSalary:        breakdown.GrossPay,
		SSSEmployee:        breakdown.SSS.Employee,
		SSSEmployer:        breakdown.SSS.Employer,
		PhilHealthEmployee: breakdown.PhilHealth.Employee,
		PhilHealthEmployer: breakdown.PhilHealth.Employer,
		PagIbigEmployee:    breakdown.PagIbig.Employee,
		PagIbigEmployer:    breakdown.PagIbig.Employer,
		TaxableIncome:      breakdown.TaxableIncome,
		TaxBracket:         breakdown.TaxBracket,
		IncomeTax:          breakdown.IncomeTax,
		TotalDeductions:    breakdown.TotalDeductions,
		NetPay:             breakdown.NetPay,
	}

	saved, created, err := s.payrollRepo.UpsertRecord(ctx, record)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayrollRecordResponse{}, false, employee.ErrEmployeeNotFound
		}
		return payroll.PayrollRecordResponse{}, false, fmt.Errorf("failed to save payroll record: %w", err)
	}
	if saved.EmployeeName == nil {
		name := emp.FullName()
		saved.EmployeeName = &name
	}

	slog.Info("Payroll calculated",
		"employee_id", emp.ID,
		"period_month", saved.PeriodMonth,
		"period_year", saved.PeriodYear,
		"net_pay", saved.NetPay.StringFixed(2),
		"created", created,
	)

	return mapToRecordResponse(saved), created, nil
}

// ========== HISTORY ==========

func (s *PayrollServiceImpl) ListHistory(ctx context.Context, filter payroll.HistoryFilter) ([]payroll.PayrollRecordResponse, error) {
	records, err := s.payrollRepo.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	return mapToRecordResponses(records), nil
}

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id int64) (payroll.PayrollRecordResponse, error) {
	if id <= 0 {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
	}
	record, err := s.payrollRepo.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) DeleteRecord(ctx context.Context, id int64) error {
	if id <= 0 {
		return payroll.ErrPayrollRecordNotFound
	}
	if err := s.payrollRepo.DeleteRecord(ctx, id); err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	return nil
}

// ========== TAX INFO ==========

func (s *PayrollServiceImpl) GetTaxInfo(ctx context.Context) (payroll.TaxInfoResponse, error) {
	brackets := make([]payroll.TaxBracketResponse, 0, len(s.table.TaxBrackets))
	for _, b := range s.table.TaxBrackets {
		brackets = append(brackets, payroll.TaxBracketResponse{
			LowerBound:  money.New(b.LowerBound),
			UpperBound:  money.NewPtr(b.UpperBound),
			Rate:        b.Rate,
			FixedAmount: money.New(b.FixedAmount),
			Label:       b.Label,
		})
	}

	info := payroll.TaxInfoResponse{
		Schedule: s.table.Name,
		Brackets: brackets,
		PhilHealth: payroll.PhilHealthInfoResponse{
			Rate:          s.table.PhilHealth.Rate,
			SalaryFloor:   money.New(s.table.PhilHealth.SalaryFloor),
			SalaryCeiling: money.New(s.table.PhilHealth.SalaryCeiling),
		},
		PagIbig: payroll.PagIbigInfoResponse{
			Rate:            s.table.PagIbig.Rate,
			MaxContribution: money.New(s.table.PagIbig.MaxContribution),
			SalaryThreshold: money.New(s.table.PagIbig.SalaryThreshold),
		},
		SSS: payroll.SSSInfoResponse{
			EmployeeRate: s.table.SSS.EmployeeRate,
			EmployerRate: s.table.SSS.EmployerRate,
		},
	}
	if bands := s.table.SSS.Bands; len(bands) > 0 {
		info.SSS.MinimumMSC = money.New(bands[0].MSC)
		info.SSS.MaximumMSC = money.New(bands[len(bands)-1].MSC)
	}
	return info, nil
}

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	resp := payroll.PayrollRecordResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		PeriodMonth:        r.PeriodMonth,
		PeriodYear:         r.PeriodYear,
		OverrideSalary:     money.NewPtr(r.OverrideSalary),
		BasicSalary:        money.New(r.BasicSalary),
		GrossPay:           money.New(r.BasicSalary),
		SSSEmployee:        money.New(r.SSSEmployee),
		SSSEmployer:        money.New(r.SSSEmployer),
		PhilHealthEmployee: money.New(r.PhilHealthEmployee),
		PhilHealthEmployer: money.New(r.PhilHealthEmployer),
		PagIbigEmployee:    money.New(r.PagIbigEmployee),
		PagIbigEmployer:    money.New(r.PagIbigEmployer),
		TaxableIncome:      money.New(r.TaxableIncome),
		TaxBracket:         r.TaxBracket,
		IncomeTax:          money.New(r.IncomeTax),
		TotalDeductions:    money.New(r.TotalDeductions),
		NetPay:             money.New(r.NetPay),
		CreatedAt:          r.CreatedAt,
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	return resp
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.PayrollRecordResponse {
	responses := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapToRecordResponse(r))
	}
	return responses
}
