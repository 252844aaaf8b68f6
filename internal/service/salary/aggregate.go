package salary

import (
	"strings"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// TotalMonthlyPayroll sums the salary of active employees.
func TotalMonthlyPayroll(employees []employee.Employee) decimal.Decimal {
	total := decimal.Zero
	for _, e := range employees {
		if e.IsActive {
			total = total.Add(e.Salary)
		}
	}
	return total
}

func ActiveEmployees(employees []employee.Employee) []employee.Employee {
	return filter(employees, func(e employee.Employee) bool { return e.IsActive })
}

func InactiveEmployees(employees []employee.Employee) []employee.Employee {
	return filter(employees, func(e employee.Employee) bool { return !e.IsActive })
}

// FilterByStatus applies the list screen's all/active/inactive switch.
func FilterByStatus(employees []employee.Employee, status employee.StatusFilter) []employee.Employee {
	switch status {
	case employee.StatusFilterActive:
		return ActiveEmployees(employees)
	case employee.StatusFilterInactive:
		return InactiveEmployees(employees)
	default:
		return employees
	}
}

// Search matches query case-insensitively against name, position, department and email.
// A blank query matches everyone.
func Search(employees []employee.Employee, query string) []employee.Employee {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return employees
	}
	return filter(employees, func(e employee.Employee) bool {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Position), q) ||
			strings.Contains(strings.ToLower(e.Department), q) {
			return true
		}
		return e.Email != nil && strings.Contains(strings.ToLower(*e.Email), q)
	})
}

// PaidCount counts active employees whose month is marked paid.
func PaidCount(employees []employee.Employee, month string) int {
	n := 0
	for _, e := range employees {
		if e.IsActive && PaymentStatus(e, month) == employee.PaymentStatusPaid {
			n++
		}
	}
	return n
}

func filter(employees []employee.Employee, keep func(employee.Employee) bool) []employee.Employee {
	out := make([]employee.Employee, 0, len(employees))
	for _, e := range employees {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
