// Package memory holds map-backed repositories used when no database is
// configured and by the service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]employee.Employee
	now    func() time.Time
}

func NewEmployeeRepository() employee.EmployeeRepository {
	return &employeeRepositoryImpl{
		rows: make(map[int64]employee.Employee),
		now:  time.Now,
	}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// GetActiveByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActiveByID(ctx context.Context, id int64) (employee.Employee, error) {
	emp, err := r.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employees := make([]employee.Employee, 0, len(r.rows))
	for _, emp := range r.rows {
		if emp.IsActive {
			employees = append(employees, emp)
		}
	}
	sort.Slice(employees, func(i, j int) bool {
		a, b := employees[i], employees[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})
	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(newEmployee.Email, 0) {
		return employee.Employee{}, employee.ErrEmailExists
	}

	r.nextID++
	now := r.now()
	newEmployee.ID = r.nextID
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.rows[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[emp.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if r.emailTaken(emp.Email, emp.ID) {
		return employee.Employee{}, employee.ErrEmailExists
	}

	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = r.now()
	r.rows[emp.ID] = emp
	return emp, nil
}

// Deactivate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Deactivate(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	emp, ok := r.rows[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.IsActive = false
	emp.UpdatedAt = r.now()
	r.rows[id] = emp
	return nil
}

// ExistsByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTaken(email, excludeID), nil
}

// emailTaken must be called with the lock held.
func (r *employeeRepositoryImpl) emailTaken(email string, excludeID int64) bool {
	for id, emp := range r.rows {
		if id != excludeID && strings.EqualFold(emp.Email, email) {
			return true
		}
	}
	return false
}
