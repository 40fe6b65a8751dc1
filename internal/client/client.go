// Package client is a typed HTTP client for the payroll API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// APIError is returned for non-2xx responses and for 2xx bodies that carry
// an error field.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("payroll api: http %d: %s", e.Status, msg)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// New builds a client rooted at baseURL, e.g. "http://localhost:8000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("payroll api: missing base url")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.New("payroll api: invalid base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("payroll api: invalid base url scheme")
	}
	if u.Host == "" {
		return nil, errors.New("payroll api: invalid base url host")
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ========== EMPLOYEES ==========

func (c *Client) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	var out []employee.EmployeeResponse
	if _, err := c.do(ctx, http.MethodGet, "/employees/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	var out employee.EmployeeResponse
	_, err := c.do(ctx, http.MethodGet, employeePath(id), nil, &out)
	return out, err
}

func (c *Client) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	var out employee.EmployeeResponse
	_, err := c.do(ctx, http.MethodPost, "/employees/", req, &out)
	return out, err
}

func (c *Client) UpdateEmployee(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	var out employee.EmployeeResponse
	_, err := c.do(ctx, http.MethodPut, employeePath(id), req, &out)
	return out, err
}

func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, employeePath(id), nil, nil)
	return err
}

// ========== PAYROLL ==========

// CalculatePayroll reports created=true when the server answered 201.
func (c *Client) CalculatePayroll(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollRecordResponse, bool, error) {
	var out payroll.PayrollRecordResponse
	status, err := c.do(ctx, http.MethodPost, "/calculate-payroll/", req, &out)
	return out, status == http.StatusCreated, err
}

func (c *Client) ListHistory(ctx context.Context, filter payroll.HistoryFilter) ([]payroll.PayrollRecordResponse, error) {
	q := url.Values{}
	if filter.EmployeeID != nil {
		q.Set("employee_id", strconv.FormatInt(*filter.EmployeeID, 10))
	}
	if filter.Year != nil {
		q.Set("year", strconv.Itoa(*filter.Year))
	}
	path := "/payroll-history/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []payroll.PayrollRecordResponse
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRecord(ctx context.Context, id int64) (payroll.PayrollRecordResponse, error) {
	var out payroll.PayrollRecordResponse
	_, err := c.do(ctx, http.MethodGet, recordPath(id), nil, &out)
	return out, err
}

func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, recordPath(id), nil, nil)
	return err
}

func (c *Client) TaxBrackets(ctx context.Context) (payroll.TaxInfoResponse, error) {
	var out payroll.TaxInfoResponse
	_, err := c.do(ctx, http.MethodGet, "/tax-brackets/", nil, &out)
	return out, err
}

// ========== HEALTH ==========

type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	_, err := c.do(ctx, http.MethodGet, "/health/", nil, &out)
	return out, err
}

func employeePath(id int64) string {
	return "/employees/" + strconv.FormatInt(id, 10) + "/"
}

func recordPath(id int64) string {
	return "/payroll-history/" + strconv.FormatInt(id, 10) + "/"
}

type errorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("payroll api: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return resp.StatusCode, readAPIError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return resp.StatusCode, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	// Some builds answer failures with 200 and an error body.
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Code: eb.Code, Message: eb.Error, Details: eb.Details}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("payroll api: decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func readAPIError(resp *http.Response) error {
	const maxBody = 4096
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	apiErr := &APIError{Status: resp.StatusCode}
	var eb errorBody
	if err := json.Unmarshal(b, &eb); err == nil && eb.Error != "" {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Error
		apiErr.Details = eb.Details
	} else {
		apiErr.Message = string(b)
	}
	return apiErr
}
