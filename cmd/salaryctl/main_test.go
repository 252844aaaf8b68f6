package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/salary-tracker/internal/repository/kvstore"
	"github.com/cmlabs-hris/salary-tracker/internal/service/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) database.Gateway {
	t.Helper()
	ctx := context.Background()
	gw := database.NewMemoryGateway()
	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	paid := employee.Employee{ID: "a", Name: "Almaz", Salary: decimal.NewFromInt(1200), IsActive: true,
		StartDate: "2024-05-01", EndDate: "2024-05-31", PaymentHistory: []employee.PaymentRecord{}}
	paid = salary.MarkPaid(paid, "2024-05", paid.Salary, nil, now)

	require.NoError(t, kvstore.NewEmployeeRepository(gw).ReplaceAll(ctx, []employee.Employee{
		paid,
		{ID: "b", Name: "Bereket", Salary: decimal.NewFromInt(800), IsActive: true,
			StartDate: "2024-05-01", EndDate: "2024-05-31", PaymentHistory: []employee.PaymentRecord{}},
		{ID: "c", Name: "Chaltu", Salary: decimal.NewFromInt(500), IsActive: false,
			StartDate: "2024-05-01", EndDate: "2024-05-31", PaymentHistory: []employee.PaymentRecord{}},
	}))
	require.NoError(t, kvstore.NewSettingsRepository(gw).Save(ctx, settings.AppSettings{Currency: settings.CurrencyUSD}))
	return gw
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	err := printSummary(context.Background(), &out, seed(t), time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Employees:       3 (2 active, 1 inactive)")
	assert.Contains(t, out.String(), "Monthly payroll: $2,000.00")
	assert.Contains(t, out.String(), "May 2024:   1 paid, 1 unpaid")
}

func TestRunReminders(t *testing.T) {
	var out bytes.Buffer
	n := runReminders(context.Background(), &out, seed(t), time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "Bereket (2024-05):")
	assert.NotContains(t, out.String(), "Almaz")
	assert.NotContains(t, out.String(), "Chaltu")
}

func TestExportEmployees(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "nested", "employees.json")

	n, err := exportEmployees(context.Background(), seed(t), outPath)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var exported []employee.Employee
	require.NoError(t, json.Unmarshal(data, &exported))
	require.Len(t, exported, 3)
	assert.Equal(t, "Almaz", exported[0].Name)
	assert.Len(t, exported[0].PaymentHistory, 1)
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "salaryctl version "+Version+"\n", out.String())
}

func TestMigrateCommand_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")
	ctx := context.Background()

	gw, err := database.NewSQLiteGateway(ctx, dbPath)
	require.NoError(t, err)
	legacy := `[{"id":"x","name":"Legacy","position":"Clerk","department":"Ops","salary":100,"startDate":"2024-01-15","isActive":true}]`
	require.NoError(t, gw.Set(ctx, kvstore.KeyEmployees, legacy))
	require.NoError(t, gw.Close())

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"migrate", "--driver", "sqlite", "--sqlite-path", dbPath, "--log-level", "error"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "employees: 1 (changed: true)")

	gw, err = database.NewSQLiteGateway(ctx, dbPath)
	require.NoError(t, err)
	defer gw.Close()
	stored, err := kvstore.NewEmployeeRepository(gw).List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "2024-02-14", stored[0].EndDate)
	assert.Equal(t, 15, stored[0].SalaryDate)
}
