package store

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
)

// EmployeesAPI is the part of client.Client the employees store needs.
type EmployeesAPI interface {
	ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error)
	CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type EmployeesStore struct {
	api EmployeesAPI

	mu        sync.RWMutex
	employees []employee.EmployeeResponse
	loading   bool
	err       string
}

func NewEmployeesStore(api EmployeesAPI) *EmployeesStore {
	return &EmployeesStore{api: api}
}

// Employees returns a copy of the cached list.
func (s *EmployeesStore) Employees() []employee.EmployeeResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]employee.EmployeeResponse, len(s.employees))
	copy(out, s.employees)
	return out
}

func (s *EmployeesStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err is the message of the last failed operation, or "".
func (s *EmployeesStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *EmployeesStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *EmployeesStore) fail(err error, def string) error {
	s.mu.Lock()
	s.loading = false
	s.err = errorMessage(err, def)
	s.mu.Unlock()
	return err
}

func (s *EmployeesStore) Fetch(ctx context.Context) error {
	s.begin()
	list, err := s.api.ListEmployees(ctx)
	if err != nil {
		return s.fail(err, msgLoadEmployees)
	}

	s.mu.Lock()
	s.employees = list
	s.loading = false
	s.mu.Unlock()
	return nil
}

func (s *EmployeesStore) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	s.begin()
	created, err := s.api.CreateEmployee(ctx, req)
	if err != nil {
		return employee.EmployeeResponse{}, s.fail(err, msgCreateEmployee)
	}

	s.mu.Lock()
	s.employees = append(s.employees, created)
	s.loading = false
	s.mu.Unlock()
	return created, nil
}

func (s *EmployeesStore) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	s.begin()
	updated, err := s.api.UpdateEmployee(ctx, id, req)
	if err != nil {
		return employee.EmployeeResponse{}, s.fail(err, msgUpdateEmployee)
	}

	s.mu.Lock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			s.employees[i] = updated
			break
		}
	}
	s.loading = false
	s.mu.Unlock()
	return updated, nil
}

func (s *EmployeesStore) Delete(ctx context.Context, id int64) error {
	s.begin()
	if err := s.api.DeleteEmployee(ctx, id); err != nil {
		return s.fail(err, msgDeleteEmployee)
	}

	s.mu.Lock()
	kept := s.employees[:0]
	for _, e := range s.employees {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.employees = kept
	s.loading = false
	s.mu.Unlock()
	return nil
}
