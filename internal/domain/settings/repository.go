package settings

import "context"

type SettingsRepository interface {
	// Get returns the stored settings, or DefaultSettings when nothing was saved yet.
	Get(ctx context.Context) (AppSettings, error)
	Save(ctx context.Context, s AppSettings) error
}
