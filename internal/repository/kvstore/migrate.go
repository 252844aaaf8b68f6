package kvstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/service/salary"
	"golang.org/x/crypto/bcrypt"
)

// storedEmployee overlays the fields that older app versions did not write.
type storedEmployee struct {
	employee.Employee
	EndDate        *string                   `json:"endDate"`
	SalaryDate     *int                      `json:"salaryDate"`
	PaymentHistory *[]employee.PaymentRecord `json:"paymentHistory"`
}

// MigrateEmployees decodes the employees document and upgrades legacy records.
// The bool reports whether any record was changed.
func MigrateEmployees(raw []byte) ([]employee.Employee, bool, error) {
	var stored []storedEmployee
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, err
	}

	changed := false
	out := make([]employee.Employee, 0, len(stored))
	for _, s := range stored {
		e, c := migrateEmployee(s)
		changed = changed || c
		out = append(out, e)
	}
	return out, changed, nil
}

func migrateEmployee(s storedEmployee) (employee.Employee, bool) {
	e := s.Employee
	changed := false
	start, startErr := salary.ParseDate(e.StartDate)

	if s.EndDate != nil && *s.EndDate != "" {
		e.EndDate = *s.EndDate
	} else if startErr == nil {
		// one calendar month, inclusive
		e.EndDate = salary.FormatISODate(start.AddDate(0, 1, -1))
		changed = true
	}

	if s.SalaryDate != nil {
		e.SalaryDate = *s.SalaryDate
	} else if startErr == nil {
		e.SalaryDate = start.Day()
		changed = true
	}

	if s.PaymentHistory != nil {
		history, c := migrateHistory(*s.PaymentHistory)
		e.PaymentHistory = history
		changed = changed || c
	} else {
		e.PaymentHistory = []employee.PaymentRecord{}
		changed = true
	}
	return e, changed
}

func migrateHistory(history []employee.PaymentRecord) ([]employee.PaymentRecord, bool) {
	changed := false
	out := make([]employee.PaymentRecord, 0, len(history))
	byMonth := make(map[string]int, len(history))

	for _, rec := range history {
		if rec.Status == "" {
			rec.Status = employee.PaymentStatusUnpaid
			if rec.PaidDate != "" {
				rec.Status = employee.PaymentStatusPaid
			}
			changed = true
		}
		if rec.ID == "" {
			rec.ID = salary.GenerateID()
			changed = true
		}
		if i, dup := byMonth[rec.Month]; dup {
			out[i] = rec
			changed = true
			continue
		}
		byMonth[rec.Month] = len(out)
		out = append(out, rec)
	}
	return out, changed
}

type storedSettings struct {
	Currency string     `json:"currency"`
	Pin      *storedPin `json:"pin"`
}

type storedPin struct {
	IsEnabled bool   `json:"isEnabled"`
	PinHash   string `json:"pinHash"`
	Pin       string `json:"pin"` // plaintext, written by older versions
}

// MigrateSettings decodes the settings document, hashing a legacy plaintext PIN and
// falling back to ETB for an unknown currency.
func MigrateSettings(raw []byte) (settings.AppSettings, bool, error) {
	var stored storedSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		return settings.AppSettings{}, false, err
	}

	changed := false
	out := settings.DefaultSettings()

	if c := settings.Currency(strings.ToUpper(strings.TrimSpace(stored.Currency))); c.IsValid() {
		out.Currency = c
		changed = string(c) != stored.Currency
	} else {
		changed = true
	}

	if p := stored.Pin; p != nil {
		pin := &settings.PinSettings{IsEnabled: p.IsEnabled, PinHash: p.PinHash}
		if pin.PinHash == "" && p.Pin != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(p.Pin), bcrypt.DefaultCost)
			if err != nil {
				return settings.AppSettings{}, false, fmt.Errorf("hash legacy pin: %w", err)
			}
			pin.PinHash = string(hash)
			changed = true
		} else if p.Pin != "" {
			changed = true
		}
		if pin.IsEnabled && pin.PinHash == "" {
			pin.IsEnabled = false
			changed = true
		}
		out.Pin = pin
	}
	return out, changed, nil
}
