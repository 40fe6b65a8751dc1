package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	CalculatePayroll(w http.ResponseWriter, r *http.Request)

	// History
	ListHistory(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	DeleteRecord(w http.ResponseWriter, r *http.Request)

	// Tax info
	GetTaxBrackets(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService

	// missingEmployeeOK answers a calculation for an unknown employee with
	// 200 instead of 404, as the historical build did.
	missingEmployeeOK bool
}

func NewPayrollHandler(payrollService payroll.PayrollService, missingEmployeeOK bool) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService:    payrollService,
		missingEmployeeOK: missingEmployeeOK,
	}
}

// ========== CALCULATION ==========

func (h *payrollHandlerImpl) CalculatePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, created, err := h.payrollService.CalculatePayroll(r.Context(), req)
	if err != nil {
		if h.missingEmployeeOK && errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Warn("Answering missing employee with 200", "employee_id", *req.EmployeeID)
			response.JSON(w, http.StatusOK, response.ErrorBody{Error: "Employee not found.", Code: "NOT_FOUND"})
			return
		}
		response.HandleError(w, err)
		return
	}

	if created {
		response.Created(w, result)
		return
	}
	response.Success(w, result)
}

// ========== HISTORY ==========

func (h *payrollHandlerImpl) ListHistory(w http.ResponseWriter, r *http.Request) {
	var filter payroll.HistoryFilter

	if employeeIDStr := r.URL.Query().Get("employee_id"); employeeIDStr != "" {
		employeeID, err := strconv.ParseInt(employeeIDStr, 10, 64)
		if err != nil {
			response.BadRequest(w, "employee_id must be an integer", map[string]string{"employee_id": "must be an integer"})
			return
		}
		filter.EmployeeID = &employeeID
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.BadRequest(w, "year must be an integer", map[string]string{"year": "must be an integer"})
			return
		}
		filter.Year = &year
	}

	result, err := h.payrollService.ListHistory(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.HandleError(w, payroll.ErrInvalidRecordID)
		return
	}

	result, err := h.payrollService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.HandleError(w, payroll.ErrInvalidRecordID)
		return
	}

	if err := h.payrollService.DeleteRecord(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// ========== TAX INFO ==========

func (h *payrollHandlerImpl) GetTaxBrackets(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetTaxInfo(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
