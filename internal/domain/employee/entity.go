package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	Position       string
	Department     string
	EmploymentType EmploymentType
	MonthlySalary  decimal.Decimal
	DateHired      time.Time
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName is the display name used across payslips and history.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type EmploymentType string

const (
	EmploymentTypeRegular      EmploymentType = "regular"
	EmploymentTypeContractual  EmploymentType = "contractual"
	EmploymentTypeProbationary EmploymentType = "probationary"
)

var EmploymentTypes = []string{
	string(EmploymentTypeRegular),
	string(EmploymentTypeContractual),
	string(EmploymentTypeProbationary),
}
