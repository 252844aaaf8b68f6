package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberString_Amount(t *testing.T) {
	cases := []struct {
		raw  NumberString
		want string
		msg  string
	}{
		{raw: "15000", want: "15000"},
		{raw: "1e12", want: "1000000000000"},
		{raw: "1000000000000", want: "1000000000000"},
		{raw: "0.01", want: "0.01"},
		{raw: "1000000000000.01", msg: "Salary must not exceed 1,000,000,000,000"},
		{raw: "1e13", msg: "Salary must not exceed 1,000,000,000,000"},
		{raw: "1e20000000", msg: "Salary must not exceed 1,000,000,000,000"},
		{raw: "1e-20000000", msg: "Salary must have at most 8 decimal places"},
		{raw: "123456789012345678901234567890123", msg: "Salary must not exceed 1,000,000,000,000"},
		{raw: "0", msg: "Salary must be a positive number"},
		{raw: "abc", msg: "Salary must be a positive number"},
	}
	for _, c := range cases {
		amount, msg := c.raw.Amount("Salary")
		assert.Equal(t, c.msg, msg, string(c.raw))
		if c.msg == "" {
			assert.Equal(t, c.want, amount.String(), string(c.raw))
		}
	}
}

func TestMarkPaymentRequest_RejectsOversizedAmount(t *testing.T) {
	req := MarkPaymentRequest{EmployeeID: "e1", Amount: "9e15"}
	err := req.Validate()
	assert.ErrorContains(t, err, "Amount must not exceed")
}
