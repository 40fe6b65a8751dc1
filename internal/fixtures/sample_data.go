package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ==========================================
// SEEDED DATA RESULT
// ==========================================

// SeedResult holds what a Seed run touched.
type SeedResult struct {
	// Employee IDs by email
	EmployeeIDs map[string]int64

	// Emails that already existed and were reused
	Skipped []string

	// Payroll record IDs in seeding order
	RecordIDs []int64

	RecordsCreated int
	RecordsUpdated int
}

// ==========================================
// SAMPLE EMPLOYEES
// ==========================================

// SampleEmployees returns the demo staff used by the QA suites.
func SampleEmployees() []employee.CreateEmployeeRequest {
	return []employee.CreateEmployeeRequest{
		{
			FirstName: "Juan", LastName: "Dela Cruz", Email: "juan.delacruz@example.com",
			Position: "Software Engineer", Department: "Engineering", EmploymentType: "regular",
			MonthlySalary: amount("50000.00"), DateHired: "2023-01-15",
		},
		{
			FirstName: "Maria", LastName: "Santos", Email: "maria.santos@example.com",
			Position: "HR Manager", Department: "Human Resources", EmploymentType: "regular",
			MonthlySalary: amount("65000.00"), DateHired: "2021-06-01",
		},
		{
			FirstName: "Pedro", LastName: "Reyes", Email: "pedro.reyes@example.com",
			Position: "Accountant", Department: "Finance", EmploymentType: "regular",
			MonthlySalary: amount("35000.00"), DateHired: "2022-03-10",
		},
		{
			FirstName: "Ana", LastName: "Garcia", Email: "ana.garcia@example.com",
			Position: "Graphic Designer", Department: "Marketing", EmploymentType: "contractual",
			MonthlySalary: amount("25000.00"), DateHired: "2024-02-01",
		},
		{
			FirstName: "Jose", LastName: "Mendoza", Email: "jose.mendoza@example.com",
			Position: "Customer Support Associate", Department: "Operations", EmploymentType: "probationary",
			MonthlySalary: amount("18000.00"), DateHired: "2024-09-16",
		},
	}
}

// SamplePeriods are the months payroll is computed for after seeding.
var SamplePeriods = []struct{ Month, Year int }{
	{Month: 1, Year: 2025},
	{Month: 2, Year: 2025},
}

// ==========================================
// SEEDING
// ==========================================

// Seed creates the sample employees and one payroll record per employee and
// sample period. It is safe to run repeatedly: known emails are reused and
// payroll records are upserted.
func Seed(ctx context.Context, employees employee.EmployeeService, payrolls payroll.PayrollService) (*SeedResult, error) {
	result := &SeedResult{EmployeeIDs: make(map[string]int64)}

	existing, err := employees.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	byEmail := make(map[string]int64, len(existing))
	for _, e := range existing {
		byEmail[e.Email] = e.ID
	}

	for _, req := range SampleEmployees() {
		if id, ok := byEmail[req.Email]; ok {
			result.EmployeeIDs[req.Email] = id
			result.Skipped = append(result.Skipped, req.Email)
			continue
		}

		created, err := employees.CreateEmployee(ctx, req)
		if errors.Is(err, employee.ErrEmailExists) {
			// Deactivated employees keep their email; leave them alone.
			slog.Warn("Sample employee exists but is inactive", "email", req.Email)
			result.Skipped = append(result.Skipped, req.Email)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create employee %s: %w", req.Email, err)
		}
		result.EmployeeIDs[req.Email] = created.ID
	}

	for _, req := range SampleEmployees() {
		id, ok := result.EmployeeIDs[req.Email]
		if !ok {
			continue
		}
		for _, p := range SamplePeriods {
			record, created, err := payrolls.CalculatePayroll(ctx, payroll.CalculatePayrollRequest{
				EmployeeID:  int64Ptr(id),
				PeriodMonth: intPtr(p.Month),
				PeriodYear:  intPtr(p.Year),
			})
			if err != nil {
				return nil, fmt.Errorf("calculate payroll for employee %d %d/%d: %w", id, p.Month, p.Year, err)
			}
			result.RecordIDs = append(result.RecordIDs, record.ID)
			if created {
				result.RecordsCreated++
			} else {
				result.RecordsUpdated++
			}
		}
	}

	slog.Info("Sample data seeded",
		"employees", len(result.EmployeeIDs),
		"records_created", result.RecordsCreated,
		"records_updated", result.RecordsUpdated,
	)
	return result, nil
}
