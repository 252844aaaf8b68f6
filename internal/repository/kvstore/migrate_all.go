package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/salary-tracker/internal/pkg/database"
)

// MigrateResult reports which documents were rewritten by Migrate.
type MigrateResult struct {
	Employees        int
	EmployeesChanged bool
	SettingsChanged  bool
}

// Migrate upgrades both stored documents in place, writing back only what changed.
func Migrate(ctx context.Context, db database.Gateway) (MigrateResult, error) {
	var result MigrateResult

	raw, found, err := db.Get(ctx, KeyEmployees)
	if err != nil {
		return result, fmt.Errorf("failed to read employees: %w", err)
	}
	if found && raw != "" {
		employees, changed, err := MigrateEmployees([]byte(raw))
		if err != nil {
			return result, fmt.Errorf("employees: %w", err)
		}
		result.Employees = len(employees)
		if changed {
			out, err := json.Marshal(employees)
			if err != nil {
				return result, err
			}
			if err := db.Set(ctx, KeyEmployees, string(out)); err != nil {
				return result, fmt.Errorf("failed to write employees: %w", err)
			}
			result.EmployeesChanged = true
		}
	}

	raw, found, err = db.Get(ctx, KeySettings)
	if err != nil {
		return result, fmt.Errorf("failed to read settings: %w", err)
	}
	if found && raw != "" {
		s, changed, err := MigrateSettings([]byte(raw))
		if err != nil {
			return result, fmt.Errorf("settings: %w", err)
		}
		if changed {
			out, err := json.Marshal(s)
			if err != nil {
				return result, err
			}
			if err := db.Set(ctx, KeySettings, string(out)); err != nil {
				return result, fmt.Errorf("failed to write settings: %w", err)
			}
			result.SettingsChanged = true
		}
	}
	return result, nil
}
