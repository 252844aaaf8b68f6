package employee

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/salary-tracker/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// NumberString accepts either a JSON number or a JSON string and keeps the raw text,
// so a non-numeric value becomes a field validation error instead of a decode error.
type NumberString string

func (n *NumberString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumberString(strings.TrimSpace(s))
		return nil
	}
	*n = NumberString(raw)
	return nil
}

func (n NumberString) IsEmpty() bool {
	return validator.IsEmpty(string(n))
}

func (n NumberString) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(string(n))
}

// Amount limits. Raw input is capped before any arithmetic so an exponent
// like 1e20000000 never reaches rescaling.
const (
	maxAmountInputLen = 32
	maxAmountScale    = 8
)

var MaxAmount = decimal.New(1, 12)

// Amount parses n as a positive money value within MaxAmount. The returned
// message is empty when the value is acceptable.
func (n NumberString) Amount(label string) (decimal.Decimal, string) {
	if len(n) > maxAmountInputLen {
		return decimal.Zero, label + " must not exceed 1,000,000,000,000"
	}
	amount, err := n.Decimal()
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, label + " must be a positive number"
	}
	if amount.Exponent() < -maxAmountScale {
		return decimal.Zero, label + " must have at most 8 decimal places"
	}
	if amount.NumDigits()+int(amount.Exponent()) > 13 || amount.GreaterThan(MaxAmount) {
		return decimal.Zero, label + " must not exceed 1,000,000,000,000"
	}
	return amount, ""
}

func (n NumberString) Int() (int, error) {
	return strconv.Atoi(string(n))
}

// ========== EMPLOYEE DTOs ==========

type CreateEmployeeRequest struct {
	Name       string       `json:"name"`
	Position   string       `json:"position"`
	Department string       `json:"department"`
	Email      *string      `json:"email,omitempty"`
	Phone      *string      `json:"phone,omitempty"`
	Salary     NumberString `json:"salary"`
	SalaryDate NumberString `json:"salaryDate"`
	StartDate  string       `json:"startDate"`
	EndDate    string       `json:"endDate"`
	IsActive   *bool        `json:"isActive,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "Name is required")
	}
	if validator.IsEmpty(r.Position) {
		errs.Add("position", "Position is required")
	}
	if validator.IsEmpty(r.Department) {
		errs.Add("department", "Department is required")
	}

	if r.Salary.IsEmpty() {
		errs.Add("salary", "Salary is required")
	} else if _, msg := r.Salary.Amount("Salary"); msg != "" {
		errs.Add("salary", msg)
	}

	if r.SalaryDate.IsEmpty() {
		errs.Add("salaryDate", "Salary date is required")
	} else if day, err := r.SalaryDate.Int(); err != nil || !validator.IsValidDayOfMonth(day) {
		errs.Add("salaryDate", "Salary date must be between 1 and 31")
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if validator.IsEmpty(r.StartDate) {
		errs.Add("startDate", "Start date is required")
	} else if !startOK {
		errs.Add("startDate", "Start date must be in YYYY-MM-DD format")
	}

	if validator.IsEmpty(r.EndDate) {
		errs.Add("endDate", "End date is required")
	} else if end, ok := validator.IsValidDate(r.EndDate); !ok {
		errs.Add("endDate", "End date must be in YYYY-MM-DD format")
	} else if startOK && end.Before(start) {
		errs.Add("endDate", "End date cannot be before start date")
	}

	if r.Email != nil && !validator.IsEmpty(*r.Email) && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "Please enter a valid email")
	}

	return errs.OrNil()
}

type UpdateEmployeeRequest struct {
	ID string `json:"-"`
	CreateEmployeeRequest
}

func (r *UpdateEmployeeRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return ErrEmployeeIDRequired
	}
	return r.CreateEmployeeRequest.Validate()
}

type EmployeeFilter struct {
	Query  string
	Status StatusFilter
}

// ========== PAYMENT DTOs ==========

type MarkPaymentRequest struct {
	EmployeeID string       `json:"-"`
	Month      string       `json:"month,omitempty"`
	Amount     NumberString `json:"amount,omitempty"`
	Notes      *string      `json:"notes,omitempty"`
}

func (r *MarkPaymentRequest) Validate() error {
	if validator.IsEmpty(r.EmployeeID) {
		return ErrEmployeeIDRequired
	}

	var errs validator.ValidationErrors
	if r.Month != "" && !validator.IsValidMonth(r.Month) {
		errs.Add("month", ErrInvalidMonth.Error())
	}
	if !r.Amount.IsEmpty() {
		if _, msg := r.Amount.Amount("Amount"); msg != "" {
			errs.Add("amount", msg)
		}
	}
	return errs.OrNil()
}

// ========== RESPONSES ==========

type SalaryCycleResponse struct {
	CycleStart      string `json:"cycleStart"`
	CycleEnd        string `json:"cycleEnd"`
	TotalDays       int    `json:"totalDays"`
	DaysRemaining   int    `json:"daysRemaining"`
	Progress        int    `json:"progress"`
	IsActive        bool   `json:"isActive"`
	DaysUntilSalary int    `json:"daysUntilSalary"`
	StatusText      string `json:"statusText"`
}

type EmployeeResponse struct {
	Employee
	FormattedSalary    string              `json:"formattedSalary"`
	SalaryCycle        SalaryCycleResponse `json:"salaryCycle"`
	CurrentMonth       string              `json:"currentMonth"`
	CurrentMonthStatus PaymentStatus       `json:"currentMonthStatus"`
}

type ListSummary struct {
	Total               int             `json:"total"`
	Active              int             `json:"active"`
	Inactive            int             `json:"inactive"`
	TotalMonthlyPayroll decimal.Decimal `json:"totalMonthlyPayroll"`
	FormattedPayroll    string          `json:"formattedPayroll"`
}

type ListEmployeeResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	Summary   ListSummary        `json:"summary"`
}

type PaymentRecordResponse struct {
	PaymentRecord
	MonthName       string `json:"monthName"`
	FormattedAmount string `json:"formattedAmount"`
}

type PaymentHistoryResponse struct {
	EmployeeID string                  `json:"employeeId"`
	Payments   []PaymentRecordResponse `json:"payments"`
}

type PaymentUpdateResponse struct {
	Employee EmployeeResponse `json:"employee"`
	Month    string           `json:"month"`
	Status   PaymentStatus    `json:"status"`
	Changed  bool             `json:"changed"`
}

type ReceiptResponse struct {
	EmployeeID string `json:"employeeId"`
	Month      string `json:"month"`
	Path       string `json:"path"`
	URL        string `json:"url"`
}
