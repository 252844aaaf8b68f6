package salary

import (
	"testing"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleEmployees() []employee.Employee {
	return []employee.Employee{
		{ID: "1", Name: "Hana Tesfaye", Position: "Backend Developer", Department: "Engineering",
			Email: strPtr("hana@example.com"), Salary: decimal.NewFromInt(1000), IsActive: true},
		{ID: "2", Name: "Dawit Alemu", Position: "Account Manager", Department: "Sales",
			Salary: decimal.NewFromInt(500), IsActive: false},
		{ID: "3", Name: "Sara Bekele", Position: "Designer", Department: "Product",
			Email: strPtr("sara@studio.io"), Salary: decimal.RequireFromString("750.25"), IsActive: true},
	}
}

func TestTotalMonthlyPayroll(t *testing.T) {
	es := []employee.Employee{
		{Salary: decimal.NewFromInt(1000), IsActive: true},
		{Salary: decimal.NewFromInt(500), IsActive: false},
	}
	assert.True(t, TotalMonthlyPayroll(es).Equal(decimal.NewFromInt(1000)))
	assert.True(t, TotalMonthlyPayroll(nil).IsZero())
	assert.Equal(t, "1750.25", TotalMonthlyPayroll(sampleEmployees()).String())
}

func TestActiveInactivePartition(t *testing.T) {
	es := sampleEmployees()
	active := ActiveEmployees(es)
	inactive := InactiveEmployees(es)

	assert.Len(t, active, 2)
	assert.Len(t, inactive, 1)
	assert.Equal(t, "2", inactive[0].ID)
	assert.Len(t, FilterByStatus(es, employee.StatusFilterAll), 3)
	assert.Len(t, FilterByStatus(es, employee.StatusFilterActive), 2)
	assert.Len(t, FilterByStatus(es, employee.StatusFilterInactive), 1)
}

func TestSearch(t *testing.T) {
	es := sampleEmployees()

	got := Search(es, "eng")
	require.Len(t, got, 1)
	assert.Equal(t, "Engineering", got[0].Department)

	cases := []struct {
		query string
		ids   []string
	}{
		{"DAWIT", []string{"2"}},
		{"designer", []string{"3"}},
		{"studio.io", []string{"3"}},
		{"a", []string{"1", "2", "3"}},
		{"", []string{"1", "2", "3"}},
		{"   ", []string{"1", "2", "3"}},
		{"nobody", nil},
	}
	for _, c := range cases {
		var ids []string
		for _, e := range Search(es, c.query) {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, c.ids, ids, "query %q", c.query)
	}
}

func TestPaidCount(t *testing.T) {
	es := sampleEmployees()
	es[0] = MarkPaid(es[0], "2024-03", es[0].Salary, nil, ledgerNow)
	es[1] = MarkPaid(es[1], "2024-03", es[1].Salary, nil, ledgerNow)

	assert.Equal(t, 1, PaidCount(es, "2024-03"))
	assert.Equal(t, 0, PaidCount(es, "2024-04"))
}
