package dashboard

import "github.com/shopspring/decimal"

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	EmployeeSummary EmployeeSummaryResponse `json:"employeeSummary"`
	PayrollSummary  PayrollSummaryResponse  `json:"payrollSummary"`
	PaymentStats    PaymentStatsResponse    `json:"paymentStats"`
	UpcomingSalary  []UpcomingSalaryItem    `json:"upcomingSalary"`
	GeneratedAt     string                  `json:"generatedAt"`
}

// ========== EMPLOYEE SUMMARY ==========

type EmployeeSummaryResponse struct {
	TotalEmployee    int `json:"totalEmployee"`
	ActiveEmployee   int `json:"activeEmployee"`
	InactiveEmployee int `json:"inactiveEmployee"`
}

// ========== PAYROLL ==========

// PayrollSummaryResponse is the monthly payroll of active employees
type PayrollSummaryResponse struct {
	TotalMonthlyPayroll decimal.Decimal `json:"totalMonthlyPayroll"`
	FormattedPayroll    string          `json:"formattedPayroll"`
	Currency            string          `json:"currency"`
}

// ========== PAYMENTS (current month) ==========

type PaymentStatsResponse struct {
	Month     string `json:"month"` // Format: "YYYY-MM"
	MonthName string `json:"monthName"`
	Paid      int    `json:"paid"`
	Unpaid    int    `json:"unpaid"`
}

// ========== SALARY DUE SOON ==========

// UpcomingSalaryItem is an active employee whose cycle ends today or tomorrow
type UpcomingSalaryItem struct {
	EmployeeID      string `json:"employeeId"`
	Name            string `json:"name"`
	DaysUntilSalary int    `json:"daysUntilSalary"`
	StatusText      string `json:"statusText"`
	FormattedSalary string `json:"formattedSalary"`
	PaymentStatus   string `json:"paymentStatus"`
}
