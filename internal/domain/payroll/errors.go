package payroll

import "errors"

var (
	ErrPayrollRecordNotFound  = errors.New("payroll record not found")
	ErrNegativeOverrideSalary = errors.New("override salary cannot be negative")
	ErrInvalidRecordID        = errors.New("invalid payroll record id")
	ErrNoMatchingBracket      = errors.New("no tax bracket matches income")
)
