package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/database"
)

type settingsRepositoryImpl struct {
	db database.Gateway
	mu sync.Mutex
}

func NewSettingsRepository(db database.Gateway) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// Get implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Get(ctx context.Context) (settings.AppSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, found, err := r.db.Get(ctx, KeySettings)
	if err != nil {
		return settings.AppSettings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if !found || raw == "" {
		return settings.DefaultSettings(), nil
	}

	s, _, err := MigrateSettings([]byte(raw))
	if err != nil {
		return settings.AppSettings{}, fmt.Errorf("%w: %v", settings.ErrCorruptSettingsStore, err)
	}
	return s, nil
}

// Save implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Save(ctx context.Context, s settings.AppSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := r.db.Set(ctx, KeySettings, string(raw)); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
