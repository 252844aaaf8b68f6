package employee

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/validator"
	"github.com/cmlabs-hris/salary-tracker/internal/repository/kvstore"
	"github.com/cmlabs-hris/salary-tracker/internal/service/salary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(e sse.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e.Event)
}

type fixture struct {
	svc       employee.EmployeeService
	repo      employee.EmployeeRepository
	settings  settings.SettingsRepository
	publisher *recordingPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gw := database.NewMemoryGateway()
	repo := kvstore.NewEmployeeRepository(gw)
	settingsRepo := kvstore.NewSettingsRepository(gw)
	pub := &recordingPublisher{}
	return fixture{
		svc:       NewEmployeeService(repo, settingsRepo, pub, nil, func() time.Time { return testNow }),
		repo:      repo,
		settings:  settingsRepo,
		publisher: pub,
	}
}

func validRequest() employee.CreateEmployeeRequest {
	email := " hana@example.com "
	return employee.CreateEmployeeRequest{
		Name:       "  Hana Tesfaye ",
		Position:   "Backend Developer",
		Department: "Engineering",
		Email:      &email,
		Salary:     "1500.50",
		SalaryDate: "1",
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-31",
	}
}

func TestCreateEmployee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Hana Tesfaye", resp.Name)
	require.NotNil(t, resp.Email)
	assert.Equal(t, "hana@example.com", *resp.Email)
	assert.True(t, resp.IsActive)
	assert.Empty(t, resp.PaymentHistory)
	assert.Equal(t, "2024-03-10T09:00:00Z", resp.CreatedAt)
	assert.Equal(t, "ETB 1,500.50", resp.FormattedSalary)
	assert.Equal(t, "2024-03", resp.CurrentMonth)
	assert.Equal(t, employee.PaymentStatusUnpaid, resp.CurrentMonthStatus)
	assert.Equal(t, "2024-03-03", resp.SalaryCycle.CycleStart)
	assert.Equal(t, "2024-04-02", resp.SalaryCycle.CycleEnd)
	assert.Equal(t, 23, resp.SalaryCycle.DaysUntilSalary)
	assert.Equal(t, []string{sse.EventEmployeeCreated}, f.publisher.events)

	stored, err := f.repo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "1500.5", stored.Salary.String())
}

func TestCreateEmployee_Validation(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Name = ""
	req.Salary = "-5"
	req.EndDate = "2023-12-31"
	bad := "not-an-email"
	req.Email = &bad

	_, err := f.svc.CreateEmployee(context.Background(), req)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Salary must be a positive number", fields["salary"])
	assert.Equal(t, "End date cannot be before start date", fields["endDate"])
	assert.Equal(t, "Please enter a valid email", fields["email"])
	assert.Empty(t, f.publisher.events)
}

func TestCreateEmployee_UsesConfiguredCurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.settings.Save(ctx, settings.AppSettings{Currency: settings.CurrencyUSD}))

	resp, err := f.svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "$1,500.50", resp.FormattedSalary)
}

func TestUpdateEmployee_KeepsIdentityAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)
	_, err = f.svc.MarkPaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID})
	require.NoError(t, err)

	inactive := false
	req := employee.UpdateEmployeeRequest{ID: created.ID, CreateEmployeeRequest: validRequest()}
	req.Position = "Tech Lead"
	req.Salary = "2000"
	req.IsActive = &inactive

	updated, err := f.svc.UpdateEmployee(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Tech Lead", updated.Position)
	assert.False(t, updated.IsActive)
	assert.Len(t, updated.PaymentHistory, 1)
}

func TestUpdateEmployee_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateEmployee(context.Background(), employee.UpdateEmployeeRequest{CreateEmployeeRequest: validRequest()})
	assert.ErrorIs(t, err, employee.ErrEmployeeIDRequired)

	_, err = f.svc.UpdateEmployee(context.Background(), employee.UpdateEmployeeRequest{ID: "missing", CreateEmployeeRequest: validRequest()})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDeleteEmployee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEmployee(ctx, created.ID))
	_, err = f.svc.GetEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, created.ID), employee.ErrEmployeeNotFound)
	assert.Contains(t, f.publisher.events, sse.EventEmployeeDeleted)
}

func TestListEmployees_FilterSearchAndSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	eng := validRequest()
	eng.Salary = "1000"
	_, err := f.svc.CreateEmployee(ctx, eng)
	require.NoError(t, err)

	inactive := false
	sales := validRequest()
	sales.Name = "Dawit Alemu"
	sales.Position = "Account Manager"
	sales.Department = "Sales"
	sales.Email = nil
	sales.Salary = "500"
	sales.IsActive = &inactive
	_, err = f.svc.CreateEmployee(ctx, sales)
	require.NoError(t, err)

	all, err := f.svc.ListEmployees(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Employees, 2)
	assert.Equal(t, 2, all.Summary.Total)
	assert.Equal(t, 1, all.Summary.Active)
	assert.Equal(t, 1, all.Summary.Inactive)
	assert.Equal(t, "1000", all.Summary.TotalMonthlyPayroll.String())
	assert.Equal(t, "ETB 1,000.00", all.Summary.FormattedPayroll)

	found, err := f.svc.ListEmployees(ctx, employee.EmployeeFilter{Query: "eng"})
	require.NoError(t, err)
	require.Len(t, found.Employees, 1)
	assert.Equal(t, "Engineering", found.Employees[0].Department)
	assert.Equal(t, 2, found.Summary.Total)

	inactiveOnly, err := f.svc.ListEmployees(ctx, employee.EmployeeFilter{Status: employee.StatusFilterInactive})
	require.NoError(t, err)
	require.Len(t, inactiveOnly.Employees, 1)
	assert.Equal(t, "Dawit Alemu", inactiveOnly.Employees[0].Name)
}

func TestMarkPaid_DefaultsAndIdempotence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)

	first, err := f.svc.MarkPaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "2024-03", first.Month)
	assert.True(t, first.Changed)
	assert.Equal(t, employee.PaymentStatusPaid, first.Employee.CurrentMonthStatus)
	require.Len(t, first.Employee.PaymentHistory, 1)
	assert.Equal(t, "1500.5", first.Employee.PaymentHistory[0].Amount.String())

	second, err := f.svc.MarkPaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID, Amount: "1600"})
	require.NoError(t, err)
	require.Len(t, second.Employee.PaymentHistory, 1)
	assert.Equal(t, first.Employee.PaymentHistory[0].ID, second.Employee.PaymentHistory[0].ID)
	assert.Equal(t, "1600", second.Employee.PaymentHistory[0].Amount.String())
}

func TestMarkPaid_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID, Month: "March"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "month")

	_, err = f.svc.MarkPaid(ctx, employee.MarkPaymentRequest{EmployeeID: "missing"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.MarkPaid(ctx, employee.MarkPaymentRequest{})
	assert.ErrorIs(t, err, employee.ErrEmployeeIDRequired)
}

func TestMarkUnpaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)

	noop, err := f.svc.MarkUnpaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID, Month: "2024-02"})
	require.NoError(t, err)
	assert.False(t, noop.Changed)
	assert.Empty(t, noop.Employee.PaymentHistory)

	_, err = f.svc.MarkPaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID, Month: "2024-02"})
	require.NoError(t, err)
	flipped, err := f.svc.MarkUnpaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID, Month: "2024-02"})
	require.NoError(t, err)
	assert.True(t, flipped.Changed)
	require.Len(t, flipped.Employee.PaymentHistory, 1)
	assert.Equal(t, employee.PaymentStatusUnpaid, flipped.Employee.PaymentHistory[0].Status)
	assert.Empty(t, flipped.Employee.PaymentHistory[0].PaidDate)

	assert.Equal(t, []string{sse.EventEmployeeCreated, sse.EventPaymentUpdated, sse.EventPaymentUpdated}, f.publisher.events)
}

func TestGetPaymentHistory_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)

	for _, m := range []string{"2024-01", "2024-03", "2024-02"} {
		_, err := f.svc.MarkPaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID, Month: m})
		require.NoError(t, err)
	}

	history, err := f.svc.GetPaymentHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history.Payments, 3)
	assert.Equal(t, "2024-03", history.Payments[0].Month)
	assert.Equal(t, "March 2024", history.Payments[0].MonthName)
	assert.Equal(t, "ETB 1,500.50", history.Payments[0].FormattedAmount)
	assert.Equal(t, "2024-01", history.Payments[2].Month)
}

func TestGetEmployee_InvalidStoredCycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.repo.Create(ctx, employee.Employee{ID: "bad", Name: "Bad", StartDate: "2024-02-01", EndDate: "2024-01-01"})
	require.NoError(t, err)

	resp, err := f.svc.GetEmployee(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, employee.ErrInvalidSalaryCycle.Error(), resp.SalaryCycle.StatusText)
}

// slowGateway delays reads so concurrent writers overlap.
type slowGateway struct {
	*database.MemoryGateway
}

func (g slowGateway) Get(ctx context.Context, key string) (string, bool, error) {
	time.Sleep(time.Millisecond)
	return g.MemoryGateway.Get(ctx, key)
}

func TestMarkPaid_ConcurrentMonthsAllPersist(t *testing.T) {
	ctx := context.Background()
	gw := slowGateway{database.NewMemoryGateway()}
	repo := kvstore.NewEmployeeRepository(gw)
	svc := NewEmployeeService(repo, kvstore.NewSettingsRepository(gw), nil, nil, func() time.Time { return testNow })

	created, err := svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for m := 1; m <= 12; m++ {
		wg.Add(1)
		go func(month string) {
			defer wg.Done()
			_, err := svc.MarkPaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID, Month: month})
			assert.NoError(t, err)
		}(fmt.Sprintf("2023-%02d", m))
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.PaymentHistory, 12)
	for _, rec := range stored.PaymentHistory {
		assert.Equal(t, employee.PaymentStatusPaid, rec.Status)
	}
}

func TestMarkPaidAndUpdate_ConcurrentKeepBoth(t *testing.T) {
	ctx := context.Background()
	gw := slowGateway{database.NewMemoryGateway()}
	repo := kvstore.NewEmployeeRepository(gw)
	svc := NewEmployeeService(repo, kvstore.NewSettingsRepository(gw), nil, nil, func() time.Time { return testNow })

	created, err := svc.CreateEmployee(ctx, validRequest())
	require.NoError(t, err)

	update := employee.UpdateEmployeeRequest{ID: created.ID, CreateEmployeeRequest: validRequest()}
	update.Position = "Staff Engineer"

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.MarkPaid(ctx, employee.MarkPaymentRequest{EmployeeID: created.ID, Month: "2024-02"})
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := svc.UpdateEmployee(ctx, update)
		assert.NoError(t, err)
	}()
	wg.Wait()

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", stored.Position)
	assert.Equal(t, employee.PaymentStatusPaid, salary.PaymentStatus(stored, "2024-02"))
}
