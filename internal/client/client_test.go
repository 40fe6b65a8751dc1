package client_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/client"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	apihttp "github.com/cmlabs-hris/ph-payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/ratetable"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/repository/memory"
	employeeService "github.com/cmlabs-hris/ph-payroll-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/ph-payroll-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, missingEmployeeOK bool) *client.Client {
	t.Helper()

	employeeRepo := memory.NewEmployeeRepository()
	payrollRepo := memory.NewPayrollRepository(employeeRepo)
	router := apihttp.NewRouter(
		apihttp.RouterConfig{AppName: "ph-payroll-api", Env: "test", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		apihttp.NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo)),
		apihttp.NewPayrollHandler(payrollService.NewPayrollService(payrollRepo, employeeRepo, ratetable.Default(), payrollService.Options{}), missingEmployeeOK),
		apihttp.NewHealthHandler(nil),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL + "/api/")
	require.NoError(t, err)
	return c
}

func newEmployee(suffix string, salary string) employee.CreateEmployeeRequest {
	monthly := decimal.RequireFromString(salary)
	return employee.CreateEmployeeRequest{
		FirstName:      "Maria",
		LastName:       "Santos",
		Email:          fmt.Sprintf("maria.%s.%d@example.com", suffix, time.Now().UnixNano()),
		Position:       "HR Manager",
		Department:     "Human Resources",
		EmploymentType: "regular",
		MonthlySalary:  &monthly,
		DateHired:      "2022-06-01",
	}
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "http://", "://bad"} {
		_, err := client.New(raw)
		assert.Error(t, err, raw)
	}
}

func TestClient_EmployeeRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, false)

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)

	created, err := c.CreateEmployee(ctx, newEmployee("rt", "45000"))
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", created.FullName)

	got, err := c.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)

	position := "People Lead"
	updated, err := c.UpdateEmployee(ctx, created.ID, employee.UpdateEmployeeRequest{Position: &position})
	require.NoError(t, err)
	assert.Equal(t, position, updated.Position)

	list, err := c.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.DeleteEmployee(ctx, created.ID))
	list, err = c.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_APIErrors(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, false)

	_, err := c.GetEmployee(ctx, 99999)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))

	bad := newEmployee("bad", "1000")
	bad.Email = "test@"
	_, err = c.CreateEmployee(ctx, bad)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Details, "email")
}

func TestClient_CalculateAndHistory(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, false)

	emp, err := c.CreateEmployee(ctx, newEmployee("calc", "50000"))
	require.NoError(t, err)

	req := payroll.CalculatePayrollRequest{EmployeeID: int64Ptr(emp.ID), PeriodMonth: intPtr(1), PeriodYear: intPtr(2025)}
	first, created, err := c.CalculatePayroll(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "42911.67", first.NetPay.StringFixed(2))

	second, created, err := c.CalculatePayroll(ctx, req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	history, err := c.ListHistory(ctx, payroll.HistoryFilter{EmployeeID: int64Ptr(emp.ID), Year: intPtr(2025)})
	require.NoError(t, err)
	require.Len(t, history, 1)

	record, err := c.GetRecord(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", record.EmployeeName)

	require.NoError(t, c.DeleteRecord(ctx, first.ID))
	_, err = c.GetRecord(ctx, first.ID)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))

	info, err := c.TaxBrackets(ctx)
	require.NoError(t, err)
	assert.Len(t, info.Brackets, 6)
}

func TestClient_MissingEmployee(t *testing.T) {
	ctx := context.Background()
	req := payroll.CalculatePayrollRequest{EmployeeID: int64Ptr(99999), PeriodMonth: intPtr(1), PeriodYear: intPtr(2025)}

	_, _, err := newTestClient(t, false).CalculatePayroll(ctx, req)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))

	// A 200 carrying an error body still surfaces as an error.
	_, _, err = newTestClient(t, true).CalculatePayroll(ctx, req)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Equal(t, "Employee not found.", apiErr.Message)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := client.New(srv.URL, client.WithToken("abc"))
	require.NoError(t, err)
	require.NoError(t, c.DeleteRecord(context.Background(), 1))
	assert.Equal(t, "Bearer abc", gotAuth)
}
