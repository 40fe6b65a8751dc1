package payroll

import "context"

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	// UpsertRecord inserts or replaces the record for (employee, month, year)
	// and reports whether a new row was created.
	UpsertRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, bool, error)
	GetRecordByID(ctx context.Context, id int64) (PayrollRecord, error)
	ListRecords(ctx context.Context, filter HistoryFilter) ([]PayrollRecord, error)
	DeleteRecord(ctx context.Context, id int64) error
}
