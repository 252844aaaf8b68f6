package settings

import (
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/pkg/validator"
)

type UpdateCurrencyRequest struct {
	Currency string `json:"currency"`
}

func (r *UpdateCurrencyRequest) Validate() error {
	if validator.IsEmpty(r.Currency) {
		var errs validator.ValidationErrors
		errs.Add("currency", "Currency is required")
		return errs
	}
	if !Currency(r.Currency).IsValid() {
		return ErrInvalidCurrency
	}
	return nil
}

type SetPinRequest struct {
	Pin        string `json:"pin"`
	ConfirmPin string `json:"confirmPin"`
}

func (r *SetPinRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidPIN(r.Pin) {
		errs.Add("pin", "PIN must be exactly 4 digits")
	}
	if validator.IsEmpty(r.ConfirmPin) {
		errs.Add("confirmPin", "Please confirm your PIN")
	}
	if len(errs) > 0 {
		return errs
	}
	if r.Pin != r.ConfirmPin {
		return ErrPinMismatch
	}
	return nil
}

type VerifyPinRequest struct {
	Pin string `json:"pin"`
}

func (r *VerifyPinRequest) Validate() error {
	if !validator.IsValidPIN(r.Pin) {
		var errs validator.ValidationErrors
		errs.Add("pin", "PIN must be exactly 4 digits")
		return errs
	}
	return nil
}

type SettingsResponse struct {
	Currency   Currency `json:"currency"`
	PinEnabled bool     `json:"pinEnabled"`
}

type UnlockResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
