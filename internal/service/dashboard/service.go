package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/dashboard"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/service/salary"
)

type DashboardServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	settingsRepo settings.SettingsRepository
	logger       *slog.Logger
	now          func() time.Time
}

func NewDashboardService(
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
	logger *slog.Logger,
	now func() time.Time,
) dashboard.DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardServiceImpl{
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
		now:          now,
	}
}

// GetDashboard implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	appSettings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	currency := string(appSettings.Currency)

	today := s.now()
	month := salary.CurrentMonth(today)
	monthName, _ := salary.MonthName(month)
	active := salary.ActiveEmployees(employees)
	payroll := salary.TotalMonthlyPayroll(employees)
	paid := salary.PaidCount(employees, month)

	return dashboard.DashboardResponse{
		EmployeeSummary: dashboard.EmployeeSummaryResponse{
			TotalEmployee:    len(employees),
			ActiveEmployee:   len(active),
			InactiveEmployee: len(employees) - len(active),
		},
		PayrollSummary: dashboard.PayrollSummaryResponse{
			TotalMonthlyPayroll: payroll,
			FormattedPayroll:    salary.FormatCurrency(payroll, currency),
			Currency:            currency,
		},
		PaymentStats: dashboard.PaymentStatsResponse{
			Month:     month,
			MonthName: monthName,
			Paid:      paid,
			Unpaid:    len(active) - paid,
		},
		UpcomingSalary: s.upcoming(active, month, currency, today),
		GeneratedAt:    today.UTC().Format(time.RFC3339),
	}, nil
}

// upcoming lists active employees whose salary day is today or tomorrow, soonest first.
func (s *DashboardServiceImpl) upcoming(active []employee.Employee, month, currency string, today time.Time) []dashboard.UpcomingSalaryItem {
	items := make([]dashboard.UpcomingSalaryItem, 0)
	for _, e := range active {
		info, err := salary.CycleInfo(e.StartDate, e.EndDate, today)
		if err != nil {
			s.logger.Warn("invalid salary cycle", "employee_id", e.ID, "error", err)
			continue
		}
		if !info.IsActive || info.DaysUntilSalary < 0 || info.DaysUntilSalary > 1 {
			continue
		}
		items = append(items, dashboard.UpcomingSalaryItem{
			EmployeeID:      e.ID,
			Name:            e.Name,
			DaysUntilSalary: info.DaysUntilSalary,
			StatusText:      info.StatusText,
			FormattedSalary: salary.FormatCurrency(e.Salary, currency),
			PaymentStatus:   string(salary.PaymentStatus(e, month)),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DaysUntilSalary < items[j].DaysUntilSalary
	})
	return items
}
