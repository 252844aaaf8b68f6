package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDRequired):
		BadRequest(w, "Employee ID is required", nil)
	case errors.Is(err, employee.ErrInvalidMonth):
		BadRequest(w, err.Error(), map[string]string{"month": employee.ErrInvalidMonth.Error()})
	case errors.Is(err, employee.ErrPaymentNotRecorded):
		NotFound(w, "No payment recorded for this month")
	case errors.Is(err, employee.ErrReceiptNotFound):
		NotFound(w, "Receipt has not been generated")

	// Settings domain errors
	case errors.Is(err, settings.ErrIncorrectPin):
		Unauthorized(w, "Incorrect PIN")
	case errors.Is(err, settings.ErrLocked):
		Locked(w, err.Error())
	case errors.Is(err, settings.ErrPinMismatch):
		BadRequest(w, err.Error(), map[string]string{"confirmPin": err.Error()})
	case errors.Is(err, settings.ErrInvalidCurrency):
		BadRequest(w, err.Error(), map[string]string{"currency": err.Error()})
	case errors.Is(err, settings.ErrPinNotEnabled):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
