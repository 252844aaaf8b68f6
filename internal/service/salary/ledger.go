package salary

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/shopspring/decimal"
)

const MonthLayout = "2006-01"

// CurrentMonth returns the "YYYY-MM" key for today's calendar month.
func CurrentMonth(today time.Time) string {
	return today.Format(MonthLayout)
}

// MonthName renders a month key as "January 2024".
func MonthName(month string) (string, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return "", fmt.Errorf("%w: %q", employee.ErrInvalidMonth, month)
	}
	return t.Format("January 2006"), nil
}

func findPayment(history []employee.PaymentRecord, month string) int {
	for i := range history {
		if history[i].Month == month {
			return i
		}
	}
	return -1
}

// PaymentStatus returns the recorded status for month, or unpaid when nothing was recorded.
func PaymentStatus(e employee.Employee, month string) employee.PaymentStatus {
	if i := findPayment(e.PaymentHistory, month); i >= 0 && e.PaymentHistory[i].Status != "" {
		return e.PaymentHistory[i].Status
	}
	return employee.PaymentStatusUnpaid
}

// PaymentRecord returns the record for month, if any.
func PaymentRecord(e employee.Employee, month string) (employee.PaymentRecord, bool) {
	if i := findPayment(e.PaymentHistory, month); i >= 0 {
		return e.PaymentHistory[i], true
	}
	return employee.PaymentRecord{}, false
}

// MarkPaid returns a copy of e with month marked paid. An existing record keeps its ID;
// otherwise one is appended, so the history never holds two records for a month.
func MarkPaid(e employee.Employee, month string, amount decimal.Decimal, notes *string, now time.Time) employee.Employee {
	out := e.Clone()
	paidAt := now.UTC().Format(time.RFC3339)

	if i := findPayment(out.PaymentHistory, month); i >= 0 {
		rec := out.PaymentHistory[i]
		rec.Status = employee.PaymentStatusPaid
		rec.PaidDate = paidAt
		rec.Amount = amount
		rec.Notes = notes
		out.PaymentHistory[i] = rec
	} else {
		out.PaymentHistory = append(out.PaymentHistory, employee.PaymentRecord{
			ID:       GenerateID(),
			Month:    month,
			Amount:   amount,
			PaidDate: paidAt,
			Status:   employee.PaymentStatusPaid,
			Notes:    notes,
		})
	}

	out.UpdatedAt = paidAt
	return out
}

// MarkUnpaid returns a copy of e with month's record set to unpaid. Without a record
// for month it returns e unchanged; it never creates one.
func MarkUnpaid(e employee.Employee, month string, now time.Time) employee.Employee {
	i := findPayment(e.PaymentHistory, month)
	if i < 0 {
		return e
	}

	out := e.Clone()
	rec := out.PaymentHistory[i]
	rec.Status = employee.PaymentStatusUnpaid
	rec.PaidDate = ""
	out.PaymentHistory[i] = rec
	out.UpdatedAt = now.UTC().Format(time.RFC3339)
	return out
}

// SortedHistory returns the payment history ordered by month, newest first.
func SortedHistory(e employee.Employee) []employee.PaymentRecord {
	history := make([]employee.PaymentRecord, len(e.PaymentHistory))
	copy(history, e.PaymentHistory)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Month > history[j].Month
	})
	return history
}
