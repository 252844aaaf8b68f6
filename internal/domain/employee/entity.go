package employee

import (
	"github.com/shopspring/decimal"
)

func init() {
	// money fields are stored and served as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Employee is one tracked person. Field names match the persisted JSON document.
type Employee struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Position       string          `json:"position"`
	Department     string          `json:"department"`
	Email          *string         `json:"email,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Salary         decimal.Decimal `json:"salary"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	SalaryDate     int             `json:"salaryDate"` // legacy day-of-month anchor
	IsActive       bool            `json:"isActive"`
	PaymentHistory []PaymentRecord `json:"paymentHistory"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

// PaymentRecord is the ledger entry for one (employee, month) pair.
type PaymentRecord struct {
	ID       string          `json:"id"`
	Month    string          `json:"month"` // "YYYY-MM"
	Amount   decimal.Decimal `json:"amount"`
	PaidDate string          `json:"paidDate"`
	Status   PaymentStatus   `json:"status"`
	Notes    *string         `json:"notes,omitempty"`
}

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// Clone returns a copy whose payment history does not alias e's.
func (e Employee) Clone() Employee {
	out := e
	if e.PaymentHistory != nil {
		out.PaymentHistory = make([]PaymentRecord, len(e.PaymentHistory))
		copy(out.PaymentHistory, e.PaymentHistory)
	}
	return out
}

type StatusFilter string

const (
	StatusFilterAll      StatusFilter = "all"
	StatusFilterActive   StatusFilter = "active"
	StatusFilterInactive StatusFilter = "inactive"
)
