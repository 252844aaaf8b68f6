package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	GetPaymentHistory(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	MarkUnpaid(w http.ResponseWriter, r *http.Request)
	GenerateReceipt(w http.ResponseWriter, r *http.Request)
	DownloadReceipt(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	receiptService  employee.ReceiptService
}

func NewEmployeeHandler(employeeService employee.EmployeeService, receiptService employee.ReceiptService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		receiptService:  receiptService,
	}
}

// decodeOptional decodes a JSON body into dst, treating an empty body as "no fields".
func decodeOptional(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		Query:  r.URL.Query().Get("q"),
		Status: employee.StatusFilter(r.URL.Query().Get("status")),
	}
	switch filter.Status {
	case "", employee.StatusFilterAll, employee.StatusFilterActive, employee.StatusFilterInactive:
	default:
		response.BadRequest(w, "status must be one of all, active, inactive", nil)
		return
	}

	result, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	if err := h.employeeService.DeleteEmployee(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// GetPaymentHistory implements EmployeeHandler
func (h *employeeHandlerImpl) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetPaymentHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MarkPaid implements EmployeeHandler
func (h *employeeHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req employee.MarkPaymentRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.employeeService.MarkPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment marked as paid", result)
}

// MarkUnpaid implements EmployeeHandler
func (h *employeeHandlerImpl) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	var req employee.MarkPaymentRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.employeeService.MarkUnpaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Payment marked as unpaid"
	if !result.Changed {
		message = "No payment recorded for this month"
	} else if err := h.receiptService.Remove(r.Context(), req.EmployeeID, result.Month); err != nil {
		slog.Warn("failed to remove stale receipt", "employee_id", req.EmployeeID, "month", result.Month, "error", err)
	}
	response.SuccessWithMessage(w, message, result)
}

// GenerateReceipt implements EmployeeHandler
func (h *employeeHandlerImpl) GenerateReceipt(w http.ResponseWriter, r *http.Request) {
	result, err := h.receiptService.Generate(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Receipt generated", result)
}

// DownloadReceipt implements EmployeeHandler
func (h *employeeHandlerImpl) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	id, month := chi.URLParam(r, "id"), chi.URLParam(r, "month")
	rc, err := h.receiptService.Open(r.Context(), id, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="receipt-%s.pdf"`, month))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("receipt download interrupted", "employee_id", id, "month", month, "error", err)
	}
}
