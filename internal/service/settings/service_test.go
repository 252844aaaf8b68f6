package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/validator"
	"github.com/cmlabs-hris/salary-tracker/internal/repository/kvstore"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc          settings.SettingsService
	jwt          *jwt.JWTService
	employeeRepo employee.EmployeeRepository
	settingsRepo settings.SettingsRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gw := database.NewMemoryGateway()
	employeeRepo := kvstore.NewEmployeeRepository(gw)
	settingsRepo := kvstore.NewSettingsRepository(gw)
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour)
	return fixture{
		svc:          NewSettingsService(settingsRepo, employeeRepo, jwtService, nil, nil),
		jwt:          jwtService,
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
	}
}

func TestGet_Defaults(t *testing.T) {
	f := newFixture(t)
	resp, err := f.svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.CurrencyETB, resp.Currency)
	assert.False(t, resp.PinEnabled)
}

func TestUpdateCurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.UpdateCurrency(ctx, settings.UpdateCurrencyRequest{Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, settings.CurrencyUSD, resp.Currency)

	_, err = f.svc.UpdateCurrency(ctx, settings.UpdateCurrencyRequest{Currency: "EUR"})
	assert.ErrorIs(t, err, settings.ErrInvalidCurrency)

	stored, err := f.settingsRepo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.CurrencyUSD, stored.Currency)
}

func TestSetPin_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetPin(ctx, settings.SetPinRequest{Pin: "12a4", ConfirmPin: "12a4"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "pin")

	_, err = f.svc.SetPin(ctx, settings.SetPinRequest{Pin: "1234", ConfirmPin: "4321"})
	assert.ErrorIs(t, err, settings.ErrPinMismatch)

	locked, err := f.svc.IsLocked(ctx)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestSetPin_StoresHashAndLocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.SetPin(ctx, settings.SetPinRequest{Pin: "1234", ConfirmPin: "1234"})
	require.NoError(t, err)
	assert.True(t, resp.PinEnabled)

	stored, err := f.settingsRepo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored.Pin)
	assert.NotEqual(t, "1234", stored.Pin.PinHash)

	locked, err := f.svc.IsLocked(ctx)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestVerifyPin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.VerifyPin(ctx, settings.VerifyPinRequest{Pin: "1234"})
	assert.ErrorIs(t, err, settings.ErrPinNotEnabled)

	_, err = f.svc.SetPin(ctx, settings.SetPinRequest{Pin: "1234", ConfirmPin: "1234"})
	require.NoError(t, err)

	_, err = f.svc.VerifyPin(ctx, settings.VerifyPinRequest{Pin: "0000"})
	assert.ErrorIs(t, err, settings.ErrIncorrectPin)

	unlock, err := f.svc.VerifyPin(ctx, settings.VerifyPinRequest{Pin: "1234"})
	require.NoError(t, err)
	assert.NotEmpty(t, unlock.Token)
	assert.True(t, unlock.ExpiresAt.After(time.Now()))

	tok, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), unlock.Token)
	require.NoError(t, err)
	claims, err := tok.AsMap(ctx)
	require.NoError(t, err)
	assert.NoError(t, f.jwt.ValidateUnlockClaims(claims))

	// changing the PIN revokes outstanding tokens
	_, err = f.svc.SetPin(ctx, settings.SetPinRequest{Pin: "5678", ConfirmPin: "5678"})
	require.NoError(t, err)
	assert.ErrorIs(t, f.jwt.ValidateUnlockClaims(claims), jwt.ErrTokenRevoked)
}

func TestDisablePin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.SetPin(ctx, settings.SetPinRequest{Pin: "1234", ConfirmPin: "1234"})
	require.NoError(t, err)

	resp, err := f.svc.DisablePin(ctx)
	require.NoError(t, err)
	assert.False(t, resp.PinEnabled)

	locked, err := f.svc.IsLocked(ctx)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestClearAllData_KeepsSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.UpdateCurrency(ctx, settings.UpdateCurrencyRequest{Currency: "USD"})
	require.NoError(t, err)
	_, err = f.employeeRepo.Create(ctx, employee.Employee{ID: "a", StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearAllData(ctx))

	list, err := f.employeeRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	resp, err := f.svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.CurrencyUSD, resp.Currency)
}
