package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/ratetable"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/repository/memory"
	employeeService "github.com/cmlabs-hris/ph-payroll-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/ph-payroll-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt-at-least-32"

type testOptions struct {
	payroll           payrollService.Options
	missingEmployeeOK bool
	jwtService        jwt.Service
	db                Pinger
}

func newTestRouter(t *testing.T, opts testOptions) http.Handler {
	t.Helper()

	employeeRepo := memory.NewEmployeeRepository()
	payrollRepo := memory.NewPayrollRepository(employeeRepo)

	cfg := RouterConfig{
		AppName:        "ph-payroll-api",
		Env:            "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if opts.jwtService != nil {
		cfg.JWTAuth = opts.jwtService.JWTAuth()
	}

	return NewRouter(cfg,
		NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo)),
		NewPayrollHandler(payrollService.NewPayrollService(payrollRepo, employeeRepo, ratetable.Default(), opts.payroll), opts.missingEmployeeOK),
		NewHealthHandler(opts.db),
	)
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

var employeeSeq int

func employeePayload(salary string) map[string]interface{} {
	employeeSeq++
	return map[string]interface{}{
		"first_name":      "Juan",
		"last_name":       "Dela Cruz",
		"email":           fmt.Sprintf("qa.test.%d.%d@example.com", time.Now().UnixNano(), employeeSeq),
		"position":        "Software Engineer",
		"department":      "Engineering",
		"employment_type": "regular",
		"monthly_salary":  salary,
		"date_hired":      "2023-01-15",
	}
}

func createEmployee(t *testing.T, h http.Handler, salary string) int64 {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/employees/", employeePayload(salary))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &created)
	return created.ID
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, testOptions{})

	for _, path := range []string{"/api/health/", "/api/health"} {
		rec := doRequest(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body HealthResponse
		decodeBody(t, rec, &body)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "Payroll API is running.", body.Message)
	}
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealth_DatabaseDown(t *testing.T) {
	h := newTestRouter(t, testOptions{db: failingPinger{}})

	rec := doRequest(t, h, http.MethodGet, "/api/health/", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateEmployee_ReturnsFullName(t *testing.T) {
	h := newTestRouter(t, testOptions{})

	rec := doRequest(t, h, http.MethodPost, "/api/employees/", employeePayload("50000.00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "Juan Dela Cruz", body["full_name"])
	assert.Equal(t, "50000.00", body["monthly_salary"])
	assert.Equal(t, "2023-01-15", body["date_hired"])
	assert.Equal(t, true, body["is_active"])
}

func TestCreateEmployee_Errors(t *testing.T) {
	h := newTestRouter(t, testOptions{})

	rec := doRequest(t, h, http.MethodPost, "/api/employees/", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	invalid := employeePayload("50000")
	invalid["email"] = "test@"
	rec = doRequest(t, h, http.MethodPost, "/api/employees/", invalid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body response.ErrorBody
	decodeBody(t, rec, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Contains(t, body.Details, "email")

	missing := employeePayload("50000")
	delete(missing, "monthly_salary")
	rec = doRequest(t, h, http.MethodPost, "/api/employees/", missing)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = response.ErrorBody{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "is required", body.Details["monthly_salary"])

	rec = doRequest(t, h, http.MethodGet, "/api/employees/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	decodeBody(t, rec, &list)
	assert.Empty(t, list)

	dup := employeePayload("50000")
	rec = doRequest(t, h, http.MethodPost, "/api/employees/", dup)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, h, http.MethodPost, "/api/employees/", dup)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEmployeeLifecycle(t *testing.T) {
	h := newTestRouter(t, testOptions{})
	id := createEmployee(t, h, "30000")
	path := fmt.Sprintf("/api/employees/%d/", id)

	rec := doRequest(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPut, path, map[string]interface{}{"position": "Tech Lead", "monthly_salary": "65000.00"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated map[string]interface{}
	decodeBody(t, rec, &updated)
	assert.Equal(t, "Tech Lead", updated["position"])
	assert.Equal(t, "65000.00", updated["monthly_salary"])

	rec = doRequest(t, h, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/employees/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	decodeBody(t, rec, &list)
	for _, e := range list {
		assert.NotEqual(t, float64(id), e["id"])
	}
}

func TestEmployee_NotFoundAndBadID(t *testing.T) {
	h := newTestRouter(t, testOptions{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var body interface{}
		if method == http.MethodPut {
			body = map[string]interface{}{"position": "X"}
		}
		rec := doRequest(t, h, method, "/api/employees/99999/", body)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}

	rec := doRequest(t, h, http.MethodGet, "/api/employees/abc/", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculatePayroll_CreateThenUpdate(t *testing.T) {
	h := newTestRouter(t, testOptions{})
	id := createEmployee(t, h, "50000")

	req := map[string]interface{}{"employee_id": id, "period_month": 1, "period_year": 2025}
	rec := doRequest(t, h, http.MethodPost, "/api/calculate-payroll/", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var first map[string]interface{}
	decodeBody(t, rec, &first)
	assert.Equal(t, "Juan Dela Cruz", first["employee_name"])
	assert.Equal(t, "4738.33", first["income_tax"])
	assert.Equal(t, "42911.67", first["net_pay"])
	assert.Nil(t, first["override_salary"])

	// Whole peso amounts keep their centavos.
	assert.Equal(t, "50000.00", first["gross_pay"])
	assert.Equal(t, "900.00", first["sss_employee"])
	assert.Equal(t, "1250.00", first["philhealth_employee"])
	assert.Equal(t, "200.00", first["pagibig_employee"])

	req["override_salary"] = "25000.00"
	rec = doRequest(t, h, http.MethodPost, "/api/calculate-payroll/", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var second map[string]interface{}
	decodeBody(t, rec, &second)
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, "22908.75", second["net_pay"])
	assert.Equal(t, "25000.00", second["override_salary"])
}

func TestCalculatePayroll_NegativeOverrideRejected(t *testing.T) {
	h := newTestRouter(t, testOptions{})
	id := createEmployee(t, h, "50000")

	rec := doRequest(t, h, http.MethodPost, "/api/calculate-payroll/", map[string]interface{}{
		"employee_id": id, "period_month": 1, "period_year": 2025, "override_salary": -5000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body response.ErrorBody
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body.Error)
	assert.Contains(t, body.Details, "override_salary")

	rec = doRequest(t, h, http.MethodGet, fmt.Sprintf("/api/payroll-history/?employee_id=%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]interface{}
	decodeBody(t, rec, &history)
	assert.Empty(t, history)
}

func TestCalculatePayroll_LegacyNegativeOverrideAccepted(t *testing.T) {
	h := newTestRouter(t, testOptions{payroll: payrollService.Options{AllowNegativeOverride: true}})
	id := createEmployee(t, h, "50000")

	rec := doRequest(t, h, http.MethodPost, "/api/calculate-payroll/", map[string]interface{}{
		"employee_id": id, "period_month": 1, "period_year": 2025, "override_salary": "-5000",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCalculatePayroll_MissingEmployeeIs404(t *testing.T) {
	h := newTestRouter(t, testOptions{})

	rec := doRequest(t, h, http.MethodPost, "/api/calculate-payroll/", map[string]interface{}{
		"employee_id": 99999, "period_month": 1, "period_year": 2025,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body response.ErrorBody
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body.Error)
}

func TestCalculatePayroll_LegacyMissingEmployeeIs200(t *testing.T) {
	h := newTestRouter(t, testOptions{missingEmployeeOK: true})

	rec := doRequest(t, h, http.MethodPost, "/api/calculate-payroll/", map[string]interface{}{
		"employee_id": 99999, "period_month": 1, "period_year": 2025,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body response.ErrorBody
	decodeBody(t, rec, &body)
	assert.Equal(t, "Employee not found.", body.Error)
}

func TestCalculatePayroll_BadRequests(t *testing.T) {
	h := newTestRouter(t, testOptions{})
	id := createEmployee(t, h, "50000")

	tests := []struct {
		name string
		body interface{}
	}{
		{"malformed json", "{"},
		{"string employee id", `{"employee_id": "abc", "period_month": 1, "period_year": 2025}`},
		{"missing month", map[string]interface{}{"employee_id": id, "period_year": 2025}},
		{"month 13", map[string]interface{}{"employee_id": id, "period_month": 13, "period_year": 2025}},
		{"year 1999", map[string]interface{}{"employee_id": id, "period_month": 1, "period_year": 1999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/calculate-payroll/", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestPayrollHistory(t *testing.T) {
	h := newTestRouter(t, testOptions{})
	id := createEmployee(t, h, "25000")

	for _, p := range [][2]int{{1, 2024}, {3, 2025}, {2, 2025}} {
		rec := doRequest(t, h, http.MethodPost, "/api/calculate-payroll/", map[string]interface{}{
			"employee_id": id, "period_month": p[0], "period_year": p[1],
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, h, http.MethodGet, "/api/payroll-history/?year=2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []struct {
		ID          int64 `json:"id"`
		PeriodMonth int   `json:"period_month"`
		PeriodYear  int   `json:"period_year"`
	}
	decodeBody(t, rec, &history)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].PeriodMonth)
	assert.Equal(t, 2, history[1].PeriodMonth)

	rec = doRequest(t, h, http.MethodGet, "/api/payroll-history/?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	recordPath := fmt.Sprintf("/api/payroll-history/%d/", history[0].ID)
	rec = doRequest(t, h, http.MethodGet, recordPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, recordPath, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodGet, recordPath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaxBrackets(t *testing.T) {
	h := newTestRouter(t, testOptions{})

	rec := doRequest(t, h, http.MethodGet, "/api/tax-brackets/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Brackets []struct {
			LowerBound decimal.Decimal  `json:"lower_bound"`
			UpperBound *decimal.Decimal `json:"upper_bound"`
			Label      string           `json:"label"`
		} `json:"brackets"`
		SSS        map[string]interface{} `json:"sss"`
		PhilHealth map[string]interface{} `json:"philhealth"`
		PagIbig    map[string]interface{} `json:"pagibig"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Brackets, 6)
	assert.Equal(t, "₱0 – ₱250,000", body.Brackets[0].Label)
	assert.Nil(t, body.Brackets[5].UpperBound)
	assert.NotEmpty(t, body.SSS)
	assert.NotEmpty(t, body.PhilHealth)
	assert.NotEmpty(t, body.PagIbig)
}

func TestWriteProtection(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	h := newTestRouter(t, testOptions{jwtService: jwtService})

	rec := doRequest(t, h, http.MethodGet, "/api/employees/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/employees/", employeePayload("50000"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := jwtService.GenerateAccessToken("qa", "admin")
	require.NoError(t, err)
	rec = doRequest(t, h, http.MethodPost, "/api/employees/", employeePayload("50000"), "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestRouter(t, testOptions{})

	rec := doRequest(t, h, http.MethodGet, "/api/health/", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = doRequest(t, h, http.MethodGet, "/api/health/", nil, "X-Request-Id", "fixed-id")
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-Id"))
}
