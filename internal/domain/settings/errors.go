package settings

import "errors"

var (
	ErrInvalidCurrency      = errors.New("currency must be ETB or USD")
	ErrPinMismatch          = errors.New("PINs do not match")
	ErrIncorrectPin         = errors.New("incorrect PIN")
	ErrPinNotEnabled        = errors.New("PIN lock is not enabled")
	ErrLocked               = errors.New("app is locked, enter your PIN")
	ErrCorruptSettingsStore = errors.New("stored settings data is corrupt")
)
