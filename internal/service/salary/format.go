package salary

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CurrencyETB = "ETB"
	CurrencyUSD = "USD"
)

// GenerateID returns a time-ordered random identifier (UUIDv7).
func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// FormatCurrency renders amount with two decimals and thousands separators.
// Unknown currencies fall back to ETB, the app default.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.Sign() < 0 {
		sign = "-"
	}
	number := groupThousands(rounded.Abs().StringFixed(2))

	if currency == CurrencyUSD {
		return sign + "$" + number
	}
	return fmt.Sprintf("%s%s %s", sign, CurrencyETB, number)
}

// groupThousands inserts separators into the integer part of a fixed-point
// string without leaving exact arithmetic.
func groupThousands(fixed string) string {
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return fixed
	}
	if whole.IsInt64() {
		intPart = humanize.Comma(whole.Int64())
	} else {
		intPart = humanize.BigComma(whole)
	}
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

// FormatDate renders an ISO date or timestamp as "Jan 2, 2006".
func FormatDate(iso string) (string, error) {
	if t, err := time.Parse(DateLayout, iso); err == nil {
		return t.Format("Jan 2, 2006"), nil
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, iso)
	}
	return t.Format("Jan 2, 2006"), nil
}
