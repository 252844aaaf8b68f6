package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/salary-tracker/internal/repository/kvstore"
	"github.com/cmlabs-hris/salary-tracker/internal/service/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []sse.Event
}

func (p *recordingPublisher) Publish(e sse.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func reminderEmployee(id, start, end string, active bool) employee.Employee {
	return employee.Employee{
		ID: id, Name: "Employee " + id, Salary: decimal.NewFromInt(100),
		StartDate: start, EndDate: end, IsActive: active,
		PaymentHistory: []employee.PaymentRecord{},
	}
}

func TestRemindDueSalaries(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 1, 30, 8, 0, 0, 0, time.UTC)
	repo := kvstore.NewEmployeeRepository(database.NewMemoryGateway())

	paid := salary.MarkPaid(reminderEmployee("paid", "2024-01-01", "2024-01-31", true), "2024-01", decimal.NewFromInt(100), nil, today)
	seed := []employee.Employee{
		reminderEmployee("tomorrow", "2024-01-01", "2024-01-31", true),
		reminderEmployee("today", "2024-01-01", "2024-01-30", true),
		reminderEmployee("later", "2024-01-15", "2024-02-14", true),
		reminderEmployee("inactive", "2024-01-01", "2024-01-31", false),
		reminderEmployee("notstarted", "2024-01-31", "2024-02-29", true),
		paid,
	}
	require.NoError(t, repo.ReplaceAll(ctx, seed))

	pub := &recordingPublisher{}
	jobs := NewSalaryReminderJobs(repo, pub, nil, func() time.Time { return today })
	require.NoError(t, jobs.RemindDueSalaries(ctx))

	var ids []string
	for _, ev := range pub.events {
		assert.Equal(t, sse.EventSalaryDue, ev.Event)
		due := ev.Data.(SalaryDue)
		assert.Equal(t, "2024-01", due.Month)
		ids = append(ids, due.EmployeeID)
	}
	assert.Equal(t, []string{"tomorrow", "today"}, ids)
}

func TestSalaryReminderJobs_Register(t *testing.T) {
	s := NewScheduler(nil)
	jobs := NewSalaryReminderJobs(kvstore.NewEmployeeRepository(database.NewMemoryGateway()), sse.Discard{}, nil, nil)
	jobs.RegisterJobs(s, time.Hour)

	require.Len(t, s.jobs, 1)
	assert.Equal(t, "salary_due_reminder", s.jobs[0].Name)
	s.RunOnce(context.Background())
}
