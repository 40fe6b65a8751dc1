package store

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
)

// PayrollAPI is the part of client.Client the payroll store needs.
type PayrollAPI interface {
	CalculatePayroll(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollRecordResponse, bool, error)
	ListHistory(ctx context.Context, filter payroll.HistoryFilter) ([]payroll.PayrollRecordResponse, error)
	DeleteRecord(ctx context.Context, id int64) error
	TaxBrackets(ctx context.Context) (payroll.TaxInfoResponse, error)
}

const msgNegativeOverride = "Override salary cannot be negative."

type PayrollStore struct {
	api PayrollAPI

	mu          sync.RWMutex
	history     []payroll.PayrollRecordResponse
	lastResult  *payroll.PayrollRecordResponse
	taxBrackets *payroll.TaxInfoResponse
	loading     bool
	err         string
}

func NewPayrollStore(api PayrollAPI) *PayrollStore {
	return &PayrollStore{api: api}
}

func (s *PayrollStore) History() []payroll.PayrollRecordResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]payroll.PayrollRecordResponse, len(s.history))
	copy(out, s.history)
	return out
}

// LastResult is the record produced by the most recent successful Calculate.
func (s *PayrollStore) LastResult() *payroll.PayrollRecordResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastResult == nil {
		return nil
	}
	r := *s.lastResult
	return &r
}

func (s *PayrollStore) TaxBrackets() *payroll.TaxInfoResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taxBrackets
}

func (s *PayrollStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *PayrollStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *PayrollStore) fail(err error, def string) error {
	s.mu.Lock()
	s.loading = false
	s.err = errorMessage(err, def)
	s.mu.Unlock()
	return err
}

// Calculate clears the previous result and error before sending. A negative
// override never reaches the server.
func (s *PayrollStore) Calculate(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollRecordResponse, error) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.lastResult = nil
	s.mu.Unlock()

	if req.OverrideSalary != nil && req.OverrideSalary.IsNegative() {
		s.mu.Lock()
		s.loading = false
		s.err = msgNegativeOverride
		s.mu.Unlock()
		return payroll.PayrollRecordResponse{}, payroll.ErrNegativeOverrideSalary
	}

	result, _, err := s.api.CalculatePayroll(ctx, req)
	if err != nil {
		return payroll.PayrollRecordResponse{}, s.fail(err, msgCalculate)
	}

	s.mu.Lock()
	s.lastResult = &result
	s.loading = false
	s.mu.Unlock()
	return result, nil
}

func (s *PayrollStore) FetchHistory(ctx context.Context, filter payroll.HistoryFilter) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	list, err := s.api.ListHistory(ctx, filter)
	if err != nil {
		return s.fail(err, msgLoadHistory)
	}

	s.mu.Lock()
	s.history = list
	s.loading = false
	s.mu.Unlock()
	return nil
}

func (s *PayrollStore) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.api.DeleteRecord(ctx, id); err != nil {
		return s.fail(err, msgDeleteRecord)
	}

	s.mu.Lock()
	kept := s.history[:0]
	for _, r := range s.history {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.history = kept
	s.mu.Unlock()
	return nil
}

func (s *PayrollStore) FetchTaxBrackets(ctx context.Context) error {
	info, err := s.api.TaxBrackets(ctx)
	if err != nil {
		return s.fail(err, msgLoadTaxBrackets)
	}

	s.mu.Lock()
	s.taxBrackets = &info
	s.mu.Unlock()
	return nil
}
