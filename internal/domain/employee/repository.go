package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns the employee whether or not it is still active.
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetActiveByID(ctx context.Context, id int64) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	Deactivate(ctx context.Context, id int64) error
	// ExistsByEmail ignores the employee identified by excludeID (0 to check all).
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}
