package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, repo employee.EmployeeRepository, first, last, email string) employee.Employee {
	t.Helper()
	emp, err := repo.Create(context.Background(), employee.Employee{
		FirstName:      first,
		LastName:       last,
		Email:          email,
		Position:       "Analyst",
		Department:     "Finance",
		EmploymentType: employee.EmploymentTypeRegular,
		MonthlySalary:  decimal.NewFromInt(30000),
		IsActive:       true,
	})
	require.NoError(t, err)
	return emp
}

func TestEmployeeRepository_CreateAssignsIDs(t *testing.T) {
	repo := NewEmployeeRepository()
	a := createEmployee(t, repo, "Ana", "Garcia", "ana@example.com")
	b := createEmployee(t, repo, "Jose", "Rizal", "jose@example.com")
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())

	_, err := repo.Create(context.Background(), employee.Employee{Email: "ANA@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestEmployeeRepository_Deactivate(t *testing.T) {
	repo := NewEmployeeRepository()
	ctx := context.Background()
	a := createEmployee(t, repo, "Ana", "Garcia", "ana@example.com")

	require.NoError(t, repo.Deactivate(ctx, a.ID))

	_, err := repo.GetActiveByID(ctx, a.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, repo.Deactivate(ctx, 42), employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_UpdateKeepsCreatedAt(t *testing.T) {
	repo := NewEmployeeRepository()
	ctx := context.Background()
	a := createEmployee(t, repo, "Ana", "Garcia", "ana@example.com")

	a.Position = "Lead Analyst"
	a.CreatedAt = time.Time{}
	updated, err := repo.Update(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "Lead Analyst", updated.Position)
	assert.False(t, updated.CreatedAt.IsZero())

	_, err = repo.Update(ctx, employee.Employee{ID: 99})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollRepository_Upsert(t *testing.T) {
	employees := NewEmployeeRepository()
	repo := NewPayrollRepository(employees)
	ctx := context.Background()
	a := createEmployee(t, employees, "Ana", "Garcia", "ana@example.com")

	rec := payroll.PayrollRecord{EmployeeID: a.ID, PeriodMonth: 1, PeriodYear: 2025, NetPay: decimal.NewFromInt(100)}
	first, created, err := repo.UpsertRecord(ctx, rec)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first.EmployeeName)
	assert.Equal(t, "Ana Garcia", *first.EmployeeName)

	rec.NetPay = decimal.NewFromInt(200)
	second, created, err := repo.UpsertRecord(ctx, rec)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	got, err := repo.GetRecordByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.NetPay.Equal(decimal.NewFromInt(200)))

	_, _, err = repo.UpsertRecord(ctx, payroll.PayrollRecord{EmployeeID: 77, PeriodMonth: 1, PeriodYear: 2025})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollRepository_DeleteFreesPeriod(t *testing.T) {
	employees := NewEmployeeRepository()
	repo := NewPayrollRepository(employees)
	ctx := context.Background()
	a := createEmployee(t, employees, "Ana", "Garcia", "ana@example.com")

	rec := payroll.PayrollRecord{EmployeeID: a.ID, PeriodMonth: 4, PeriodYear: 2025}
	first, _, err := repo.UpsertRecord(ctx, rec)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteRecord(ctx, first.ID))
	assert.ErrorIs(t, repo.DeleteRecord(ctx, first.ID), payroll.ErrPayrollRecordNotFound)

	again, created, err := repo.UpsertRecord(ctx, rec)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, again.ID)
}

func TestPayrollRepository_ConcurrentUpserts(t *testing.T) {
	employees := NewEmployeeRepository()
	repo := NewPayrollRepository(employees)
	ctx := context.Background()
	a := createEmployee(t, employees, "Ana", "Garcia", "ana@example.com")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(month int) {
			defer wg.Done()
			_, _, err := repo.UpsertRecord(ctx, payroll.PayrollRecord{EmployeeID: a.ID, PeriodMonth: month, PeriodYear: 2025})
			assert.NoError(t, err)
		}(i%12 + 1)
	}
	wg.Wait()

	records, err := repo.ListRecords(ctx, payroll.HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 12)
}
