package payroll

import "context"

type PayrollService interface {
	// CalculatePayroll computes and stores payroll for one employee and
	// period. created is false when an existing record was replaced.
	CalculatePayroll(ctx context.Context, req CalculatePayrollRequest) (result PayrollRecordResponse, created bool, err error)

	ListHistory(ctx context.Context, filter HistoryFilter) ([]PayrollRecordResponse, error)
	GetRecord(ctx context.Context, id int64) (PayrollRecordResponse, error)
	DeleteRecord(ctx context.Context, id int64) error

	// GetTaxInfo returns the bracket schedule and contribution parameters
	GetTaxInfo(ctx context.Context) (TaxInfoResponse, error)
}
