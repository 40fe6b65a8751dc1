package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	Email          string           `json:"email"`
	Position       string           `json:"position"`
	Department     string           `json:"department"`
	EmploymentType string           `json:"employment_type"`
	MonthlySalary  *decimal.Decimal `json:"monthly_salary"`
	DateHired      string           `json:"date_hired"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.EmploymentType == "" {
		r.EmploymentType = string(EmploymentTypeRegular)
	}

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "is required"})
	} else if len(r.FirstName) > 100 {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "must be at most 100 characters"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "is required"})
	} else if len(r.LastName) > 100 {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "must be at most 100 characters"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "is required"})
	}
	if validator.IsEmpty(r.Department) {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "is required"})
	}
	if !validator.IsInSlice(r.EmploymentType, EmploymentTypes) {
		errs = append(errs, validator.ValidationError{Field: "employment_type", Message: "must be one of regular, contractual, probationary"})
	}
	if r.MonthlySalary == nil {
		errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "is required"})
	} else if r.MonthlySalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "must be non-negative"})
	} else if !validator.MaxDigits(*r.MonthlySalary, 12, 2) {
		errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "must have at most 10 integer digits and 2 decimal places"})
	}
	if _, ok := validator.IsValidDate(r.DateHired); !ok {
		errs = append(errs, validator.ValidationError{Field: "date_hired", Message: "must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest is a partial update; nil fields are left untouched.
type UpdateEmployeeRequest struct {
	ID             int64            `json:"-"`
	FirstName      *string          `json:"first_name,omitempty"`
	LastName       *string          `json:"last_name,omitempty"`
	Email          *string          `json:"email,omitempty"`
	Position       *string          `json:"position,omitempty"`
	Department     *string          `json:"department,omitempty"`
	EmploymentType *string          `json:"employment_type,omitempty"`
	MonthlySalary  *decimal.Decimal `json:"monthly_salary,omitempty"`
	DateHired      *string          `json:"date_hired,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "may not be blank"})
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "may not be blank"})
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
		}
	}
	if r.Position != nil && validator.IsEmpty(*r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "may not be blank"})
	}
	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "may not be blank"})
	}
	if r.EmploymentType != nil && !validator.IsInSlice(*r.EmploymentType, EmploymentTypes) {
		errs = append(errs, validator.ValidationError{Field: "employment_type", Message: "must be one of regular, contractual, probationary"})
	}
	if r.MonthlySalary != nil {
		if r.MonthlySalary.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "must be non-negative"})
		} else if !validator.MaxDigits(*r.MonthlySalary, 12, 2) {
			errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "must have at most 10 integer digits and 2 decimal places"})
		}
	}
	if r.DateHired != nil {
		if _, ok := validator.IsValidDate(*r.DateHired); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_hired", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the non-nil fields of r onto emp. Call Validate first.
func (r UpdateEmployeeRequest) Apply(emp Employee) Employee {
	if r.FirstName != nil {
		emp.FirstName = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		emp.LastName = strings.TrimSpace(*r.LastName)
	}
	if r.Email != nil {
		emp.Email = *r.Email
	}
	if r.Position != nil {
		emp.Position = *r.Position
	}
	if r.Department != nil {
		emp.Department = *r.Department
	}
	if r.EmploymentType != nil {
		emp.EmploymentType = EmploymentType(*r.EmploymentType)
	}
	if r.MonthlySalary != nil {
		emp.MonthlySalary = *r.MonthlySalary
	}
	if r.DateHired != nil {
		if d, ok := validator.IsValidDate(*r.DateHired); ok {
			emp.DateHired = d
		}
	}
	if r.IsActive != nil {
		emp.IsActive = *r.IsActive
	}
	return emp
}

type EmployeeResponse struct {
	ID             int64           `json:"id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Position       string          `json:"position"`
	Department     string          `json:"department"`
	EmploymentType string          `json:"employment_type"`
	MonthlySalary  money.Amount    `json:"monthly_salary"`
	DateHired      string          `json:"date_hired"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		FullName:       e.FullName(),
		Email:          e.Email,
		Position:       e.Position,
		Department:     e.Department,
		EmploymentType: string(e.EmploymentType),
		MonthlySalary:  money.New(e.MonthlySalary.Round(2)),
		DateHired:      e.DateHired.Format("2006-01-02"),
		IsActive:       e.IsActive,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
