package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
)

type periodKey struct {
	employeeID int64
	month      int
	year       int
}

type payrollRepositoryImpl struct {
	mu       sync.RWMutex
	nextID   int64
	rows     map[int64]payroll.PayrollRecord
	byPeriod map[periodKey]int64

	employees employee.EmployeeRepository
	now       func() time.Time
}

// NewPayrollRepository resolves employee names through employees, the way
// the SQL repository joins them.
func NewPayrollRepository(employees employee.EmployeeRepository) payroll.PayrollRepository {
	return &payrollRepositoryImpl{
		rows:      make(map[int64]payroll.PayrollRecord),
		byPeriod:  make(map[periodKey]int64),
		employees: employees,
		now:       time.Now,
	}
}

// UpsertRecord implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpsertRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, bool, error) {
	emp, err := r.employees.GetByID(ctx, record.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayrollRecord{}, false, err
		}
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to resolve employee: %w", err)
	}
	name := emp.FullName()
	record.EmployeeName = &name

	r.mu.Lock()
	defer r.mu.Unlock()

	key := periodKey{employeeID: record.EmployeeID, month: record.PeriodMonth, year: record.PeriodYear}
	if id, ok := r.byPeriod[key]; ok {
		record.ID = id
		record.CreatedAt = r.rows[id].CreatedAt
		r.rows[id] = record
		return record, false, nil
	}

	r.nextID++
	record.ID = r.nextID
	record.CreatedAt = r.now()
	r.rows[record.ID] = record
	r.byPeriod[key] = record.ID
	return record, true, nil
}

// GetRecordByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetRecordByID(ctx context.Context, id int64) (payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.rows[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return record, nil
}

// ListRecords implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListRecords(ctx context.Context, filter payroll.HistoryFilter) ([]payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]payroll.PayrollRecord, 0, len(r.rows))
	for _, rec := range r.rows {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Year != nil && rec.PeriodYear != *filter.Year {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.PeriodYear != b.PeriodYear {
			return a.PeriodYear > b.PeriodYear
		}
		if a.PeriodMonth != b.PeriodMonth {
			return a.PeriodMonth > b.PeriodMonth
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return records, nil
}

// DeleteRecord implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeleteRecord(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.rows[id]
	if !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	delete(r.rows, id)
	delete(r.byPeriod, periodKey{employeeID: record.EmployeeID, month: record.PeriodMonth, year: record.PeriodYear})
	return nil
}
