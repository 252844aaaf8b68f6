package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeIDRequired   = errors.New("employee id is required")
	ErrInvalidMonth         = errors.New("month must be in YYYY-MM format")
	ErrPaymentNotRecorded   = errors.New("no paid record for this month")
	ErrReceiptNotFound      = errors.New("receipt not found")
	ErrInvalidSalaryCycle   = errors.New("salary cycle dates are invalid")
	ErrCorruptEmployeeStore = errors.New("stored employee data is corrupt")
)
