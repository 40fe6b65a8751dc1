package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.Error(), validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found.")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "An employee with this email already exists.")
	case errors.Is(err, employee.ErrInvalidID):
		BadRequest(w, "Invalid employee id", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found.")
	case errors.Is(err, payroll.ErrInvalidRecordID):
		BadRequest(w, "Invalid payroll record id", nil)
	case errors.Is(err, payroll.ErrNegativeOverrideSalary):
		ValidationError(w, err.Error(), map[string]string{"override_salary": err.Error()})

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
