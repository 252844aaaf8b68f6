package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/salary-tracker/internal/service/salary"
)

// SalaryDue is the payload of a salary.due event.
type SalaryDue struct {
	EmployeeID      string `json:"employeeId"`
	Name            string `json:"name"`
	Month           string `json:"month"`
	DaysUntilSalary int    `json:"daysUntilSalary"`
	StatusText      string `json:"statusText"`
}

type SalaryReminderJobs struct {
	employeeRepo employee.EmployeeRepository
	publisher    sse.Publisher
	logger       *slog.Logger
	now          func() time.Time
}

func NewSalaryReminderJobs(
	employeeRepo employee.EmployeeRepository,
	publisher sse.Publisher,
	logger *slog.Logger,
	now func() time.Time,
) *SalaryReminderJobs {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SalaryReminderJobs{
		employeeRepo: employeeRepo,
		publisher:    publisher,
		logger:       logger,
		now:          now,
	}
}

func (j *SalaryReminderJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("salary_due_reminder", interval, j.RemindDueSalaries)
}

// RemindDueSalaries publishes salary.due for every active, unpaid employee whose
// cycle ends today or tomorrow.
func (j *SalaryReminderJobs) RemindDueSalaries(ctx context.Context) error {
	employees, err := j.employeeRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}

	today := j.now()
	month := salary.CurrentMonth(today)
	sent := 0

	for _, e := range salary.ActiveEmployees(employees) {
		if salary.PaymentStatus(e, month) == employee.PaymentStatusPaid {
			continue
		}
		info, err := salary.CycleInfo(e.StartDate, e.EndDate, today)
		if err != nil {
			j.logger.Warn("Cron: skipping employee with invalid cycle", "employee_id", e.ID, "error", err)
			continue
		}
		if !info.IsActive || info.DaysUntilSalary > 1 || info.DaysUntilSalary < 0 {
			continue
		}

		j.publisher.Publish(sse.Event{
			Event: sse.EventSalaryDue,
			Data: SalaryDue{
				EmployeeID:      e.ID,
				Name:            e.Name,
				Month:           month,
				DaysUntilSalary: info.DaysUntilSalary,
				StatusText:      info.StatusText,
			},
		})
		sent++
	}

	j.logger.Debug("Cron: salary reminders sent", "count", sent, "month", month)
	return nil
}
