package settings

import "context"

type SettingsService interface {
	Get(ctx context.Context) (SettingsResponse, error)
	UpdateCurrency(ctx context.Context, req UpdateCurrencyRequest) (SettingsResponse, error)
	SetPin(ctx context.Context, req SetPinRequest) (SettingsResponse, error)
	DisablePin(ctx context.Context) (SettingsResponse, error)

	// VerifyPin checks the PIN and issues a short-lived unlock token
	VerifyPin(ctx context.Context, req VerifyPinRequest) (UnlockResponse, error)

	// IsLocked reports whether requests must carry an unlock token
	IsLocked(ctx context.Context) (bool, error)

	// ClearAllData deletes every employee and payment record; settings are kept
	ClearAllData(ctx context.Context) error
}
