package employee

import (
	"context"
	"io"
)

// EmployeeService defines business logic for employee and payment operations
type EmployeeService interface {
	// ListEmployees lists employees matching the filter together with headcount and payroll totals
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// GetEmployee retrieves a single employee with its current salary cycle
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee validates the request and stores a new employee
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee replaces the editable fields of an employee, keeping its payment history
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes an employee and its payment history
	DeleteEmployee(ctx context.Context, id string) error

	// MarkPaid records a payment for a month (current month by default)
	MarkPaid(ctx context.Context, req MarkPaymentRequest) (PaymentUpdateResponse, error)

	// MarkUnpaid flips an existing payment record back to unpaid
	MarkUnpaid(ctx context.Context, req MarkPaymentRequest) (PaymentUpdateResponse, error)

	// GetPaymentHistory returns the employee's payment records, newest month first
	GetPaymentHistory(ctx context.Context, id string) (PaymentHistoryResponse, error)
}

// ReceiptService renders payment receipts for recorded payments
type ReceiptService interface {
	// Generate renders the receipt for a paid month and stores it
	Generate(ctx context.Context, employeeID string, month string) (ReceiptResponse, error)

	// Open streams a previously generated receipt
	Open(ctx context.Context, employeeID string, month string) (io.ReadCloser, error)

	// Remove deletes a stored receipt, if any
	Remove(ctx context.Context, employeeID string, month string) error
}
