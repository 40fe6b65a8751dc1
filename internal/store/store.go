// Package store holds client-side state for the payroll screens: the cached
// employee list, the last calculation, history and tax info, together with
// loading and error status.
package store

import (
	"errors"
	"strings"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/client"
)

const (
	msgLoadEmployees   = "Failed to load employees."
	msgCreateEmployee  = "Failed to create employee."
	msgUpdateEmployee  = "Failed to update employee."
	msgDeleteEmployee  = "Failed to delete employee."
	msgCalculate       = "Calculation failed."
	msgLoadHistory     = "Failed to load payroll history."
	msgDeleteRecord    = "Failed to delete payroll record."
	msgLoadTaxBrackets = "Failed to load tax brackets."
)

// errorMessage prefers the server's message and falls back to def.
func errorMessage(err error, def string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return def
}
