package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/salary-tracker/internal/service/salary"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	settingsRepo settings.SettingsRepository
	publisher    sse.Publisher
	logger       *slog.Logger
	now          func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
	publisher sse.Publisher,
	logger *slog.Logger,
	now func() time.Time,
) employee.EmployeeService {
	if publisher == nil {
		publisher = sse.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		publisher:    publisher,
		logger:       logger,
		now:          now,
	}
}

func (s *EmployeeServiceImpl) currency(ctx context.Context) (string, error) {
	appSettings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	return string(appSettings.Currency), nil
}

// toResponse decorates e with its cycle and current-month status as of today.
func (s *EmployeeServiceImpl) toResponse(e employee.Employee, currency string, today time.Time) employee.EmployeeResponse {
	month := salary.CurrentMonth(today)
	resp := employee.EmployeeResponse{
		Employee:           e,
		FormattedSalary:    salary.FormatCurrency(e.Salary, currency),
		CurrentMonth:       month,
		CurrentMonthStatus: salary.PaymentStatus(e, month),
	}

	info, err := salary.CycleInfo(e.StartDate, e.EndDate, today)
	if err != nil {
		s.logger.Warn("invalid salary cycle", "employee_id", e.ID, "error", err)
		resp.SalaryCycle.StatusText = employee.ErrInvalidSalaryCycle.Error()
		return resp
	}
	resp.SalaryCycle = employee.SalaryCycleResponse{
		CycleStart:      salary.FormatISODate(info.CycleStart),
		CycleEnd:        salary.FormatISODate(info.CycleEnd),
		TotalDays:       info.TotalDays,
		DaysRemaining:   info.DaysRemaining,
		Progress:        info.ProgressPercent,
		IsActive:        info.IsActive,
		DaysUntilSalary: info.DaysUntilSalary,
		StatusText:      info.StatusText,
	}
	return resp
}

func (s *EmployeeServiceImpl) publish(event string, data interface{}) {
	s.publisher.Publish(sse.Event{Event: event, Data: data, At: s.now().UTC()})
}

func optionalString(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// applyRequest copies the editable fields of req onto e. req must be valid.
func applyRequest(e *employee.Employee, req employee.CreateEmployeeRequest) {
	amount, _ := req.Salary.Decimal()
	salaryDay, _ := req.SalaryDate.Int()

	e.Name = strings.TrimSpace(req.Name)
	e.Position = strings.TrimSpace(req.Position)
	e.Department = strings.TrimSpace(req.Department)
	e.Email = optionalString(req.Email)
	e.Phone = optionalString(req.Phone)
	e.Salary = amount
	e.SalaryDate = salaryDay
	e.StartDate = req.StartDate
	e.EndDate = req.EndDate
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	all, err := s.employeeRepo.List(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	currency, err := s.currency(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	today := s.now()
	matched := salary.Search(salary.FilterByStatus(all, filter.Status), filter.Query)
	responses := make([]employee.EmployeeResponse, 0, len(matched))
	for _, e := range matched {
		responses = append(responses, s.toResponse(e, currency, today))
	}

	payroll := salary.TotalMonthlyPayroll(all)
	active := len(salary.ActiveEmployees(all))
	return employee.ListEmployeeResponse{
		Employees: responses,
		Summary: employee.ListSummary{
			Total:               len(all),
			Active:              active,
			Inactive:            len(all) - active,
			TotalMonthlyPayroll: payroll,
			FormattedPayroll:    salary.FormatCurrency(payroll, currency),
		},
	}, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if strings.TrimSpace(id) == "" {
		return employee.EmployeeResponse{}, employee.ErrEmployeeIDRequired
	}
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	currency, err := s.currency(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(e, currency, s.now()), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	currency, err := s.currency(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	now := s.now()
	stamp := now.UTC().Format(time.RFC3339)
	newEmployee := employee.Employee{
		ID:             salary.GenerateID(),
		IsActive:       true,
		PaymentHistory: []employee.PaymentRecord{},
		CreatedAt:      stamp,
		UpdatedAt:      stamp,
	}
	applyRequest(&newEmployee, req)

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("employee created", "employee_id", created.ID)
	resp := s.toResponse(created, currency, now)
	s.publish(sse.EventEmployeeCreated, resp)
	return resp, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	currency, err := s.currency(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	now := s.now()
	saved, err := s.employeeRepo.Modify(ctx, req.ID, func(e employee.Employee) (employee.Employee, error) {
		applyRequest(&e, req.CreateEmployeeRequest)
		e.UpdatedAt = now.UTC().Format(time.RFC3339)
		return e, nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	resp := s.toResponse(saved, currency, now)
	s.publish(sse.EventEmployeeUpdated, resp)
	return resp, nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return employee.ErrEmployeeIDRequired
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.logger.Info("employee deleted", "employee_id", id)
	s.publish(sse.EventEmployeeDeleted, map[string]string{"id": id})
	return nil
}

// MarkPaid implements employee.EmployeeService.
func (s *EmployeeServiceImpl) MarkPaid(ctx context.Context, req employee.MarkPaymentRequest) (employee.PaymentUpdateResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.PaymentUpdateResponse{}, err
	}
	currency, err := s.currency(ctx)
	if err != nil {
		return employee.PaymentUpdateResponse{}, err
	}

	now := s.now()
	month := req.Month
	if month == "" {
		month = salary.CurrentMonth(now)
	}

	saved, err := s.employeeRepo.Modify(ctx, req.EmployeeID, func(e employee.Employee) (employee.Employee, error) {
		amount := e.Salary
		if !req.Amount.IsEmpty() {
			amount, _ = req.Amount.Decimal()
		}
		return salary.MarkPaid(e, month, amount, optionalString(req.Notes), now), nil
	})
	if err != nil {
		return employee.PaymentUpdateResponse{}, fmt.Errorf("failed to record payment: %w", err)
	}

	resp := employee.PaymentUpdateResponse{
		Employee: s.toResponse(saved, currency, now),
		Month:    month,
		Status:   employee.PaymentStatusPaid,
		Changed:  true,
	}
	s.publish(sse.EventPaymentUpdated, resp)
	return resp, nil
}

// errNoRecord aborts a MarkUnpaid write when the month was never recorded.
var errNoRecord = errors.New("no record for month")

// MarkUnpaid implements employee.EmployeeService.
func (s *EmployeeServiceImpl) MarkUnpaid(ctx context.Context, req employee.MarkPaymentRequest) (employee.PaymentUpdateResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.PaymentUpdateResponse{}, err
	}
	currency, err := s.currency(ctx)
	if err != nil {
		return employee.PaymentUpdateResponse{}, err
	}

	now := s.now()
	month := req.Month
	if month == "" {
		month = salary.CurrentMonth(now)
	}

	resp := employee.PaymentUpdateResponse{Month: month, Status: employee.PaymentStatusUnpaid}
	var unchanged employee.Employee
	saved, err := s.employeeRepo.Modify(ctx, req.EmployeeID, func(e employee.Employee) (employee.Employee, error) {
		if _, ok := salary.PaymentRecord(e, month); !ok {
			unchanged = e
			return e, errNoRecord
		}
		return salary.MarkUnpaid(e, month, now), nil
	})
	switch {
	case errors.Is(err, errNoRecord):
		resp.Employee = s.toResponse(unchanged, currency, now)
		return resp, nil
	case err != nil:
		return employee.PaymentUpdateResponse{}, fmt.Errorf("failed to update payment: %w", err)
	}

	resp.Employee = s.toResponse(saved, currency, now)
	resp.Changed = true
	s.publish(sse.EventPaymentUpdated, resp)
	return resp, nil
}

// GetPaymentHistory implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetPaymentHistory(ctx context.Context, id string) (employee.PaymentHistoryResponse, error) {
	if strings.TrimSpace(id) == "" {
		return employee.PaymentHistoryResponse{}, employee.ErrEmployeeIDRequired
	}
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.PaymentHistoryResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	currency, err := s.currency(ctx)
	if err != nil {
		return employee.PaymentHistoryResponse{}, err
	}

	history := salary.SortedHistory(e)
	payments := make([]employee.PaymentRecordResponse, 0, len(history))
	for _, rec := range history {
		name, err := salary.MonthName(rec.Month)
		if err != nil {
			name = rec.Month
		}
		payments = append(payments, employee.PaymentRecordResponse{
			PaymentRecord:   rec,
			MonthName:       name,
			FormattedAmount: salary.FormatCurrency(rec.Amount, currency),
		})
	}
	return employee.PaymentHistoryResponse{EmployeeID: e.ID, Payments: payments}, nil
}
