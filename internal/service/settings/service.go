package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/sse"
	"golang.org/x/crypto/bcrypt"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
	employeeRepo employee.EmployeeRepository
	jwtService   jwt.Service
	publisher    sse.Publisher
	logger       *slog.Logger
}

func NewSettingsService(
	settingsRepo settings.SettingsRepository,
	employeeRepo employee.EmployeeRepository,
	jwtService jwt.Service,
	publisher sse.Publisher,
	logger *slog.Logger,
) settings.SettingsService {
	if publisher == nil {
		publisher = sse.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsServiceImpl{
		settingsRepo: settingsRepo,
		employeeRepo: employeeRepo,
		jwtService:   jwtService,
		publisher:    publisher,
		logger:       logger,
	}
}

func toResponse(s settings.AppSettings) settings.SettingsResponse {
	return settings.SettingsResponse{Currency: s.Currency, PinEnabled: s.PinEnabled()}
}

func (s *SettingsServiceImpl) load(ctx context.Context) (settings.AppSettings, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return settings.AppSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return current, nil
}

func (s *SettingsServiceImpl) save(ctx context.Context, updated settings.AppSettings) error {
	if err := s.settingsRepo.Save(ctx, updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	current, err := s.load(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return toResponse(current), nil
}

// UpdateCurrency implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateCurrency(ctx context.Context, req settings.UpdateCurrencyRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}
	current, err := s.load(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	current.Currency = settings.Currency(req.Currency)
	if err := s.save(ctx, current); err != nil {
		return settings.SettingsResponse{}, err
	}
	return toResponse(current), nil
}

// SetPin implements settings.SettingsService.
func (s *SettingsServiceImpl) SetPin(ctx context.Context, req settings.SetPinRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}
	current, err := s.load(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to hash pin: %w", err)
	}
	current.Pin = &settings.PinSettings{IsEnabled: true, PinHash: string(hash)}
	if err := s.save(ctx, current); err != nil {
		return settings.SettingsResponse{}, err
	}

	// a new PIN locks out every previously unlocked client
	s.jwtService.RevokeAll()
	s.logger.Info("pin lock enabled")
	return toResponse(current), nil
}

// DisablePin implements settings.SettingsService.
func (s *SettingsServiceImpl) DisablePin(ctx context.Context) (settings.SettingsResponse, error) {
	current, err := s.load(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	current.Pin = &settings.PinSettings{IsEnabled: false}
	if err := s.save(ctx, current); err != nil {
		return settings.SettingsResponse{}, err
	}

	s.jwtService.RevokeAll()
	s.logger.Info("pin lock disabled")
	return toResponse(current), nil
}

// VerifyPin implements settings.SettingsService.
func (s *SettingsServiceImpl) VerifyPin(ctx context.Context, req settings.VerifyPinRequest) (settings.UnlockResponse, error) {
	current, err := s.load(ctx)
	if err != nil {
		return settings.UnlockResponse{}, err
	}
	if !current.PinEnabled() {
		return settings.UnlockResponse{}, settings.ErrPinNotEnabled
	}
	if err := req.Validate(); err != nil {
		return settings.UnlockResponse{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(current.Pin.PinHash), []byte(req.Pin))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		s.logger.Warn("incorrect pin entered")
		return settings.UnlockResponse{}, settings.ErrIncorrectPin
	}
	if err != nil {
		return settings.UnlockResponse{}, fmt.Errorf("failed to verify pin: %w", err)
	}

	token, expiresAt, err := s.jwtService.GenerateUnlockToken()
	if err != nil {
		return settings.UnlockResponse{}, fmt.Errorf("failed to issue unlock token: %w", err)
	}
	return settings.UnlockResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// IsLocked implements settings.SettingsService.
func (s *SettingsServiceImpl) IsLocked(ctx context.Context) (bool, error) {
	current, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return current.PinEnabled(), nil
}

// ClearAllData implements settings.SettingsService.
func (s *SettingsServiceImpl) ClearAllData(ctx context.Context) error {
	if err := s.employeeRepo.ReplaceAll(ctx, []employee.Employee{}); err != nil {
		return fmt.Errorf("failed to clear employees: %w", err)
	}
	s.logger.Warn("all employee data cleared")
	s.publisher.Publish(sse.Event{Event: sse.EventDataCleared})
	return nil
}
