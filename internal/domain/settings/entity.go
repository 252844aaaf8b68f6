package settings

type Currency string

const (
	CurrencyETB Currency = "ETB"
	CurrencyUSD Currency = "USD"
)

func (c Currency) IsValid() bool {
	return c == CurrencyETB || c == CurrencyUSD
}

// PinSettings holds the optional app lock. Only the bcrypt hash is persisted.
type PinSettings struct {
	IsEnabled bool   `json:"isEnabled"`
	PinHash   string `json:"pinHash,omitempty"`
}

// AppSettings is the persisted "settings" document.
type AppSettings struct {
	Currency Currency     `json:"currency"`
	Pin      *PinSettings `json:"pin,omitempty"`
}

func DefaultSettings() AppSettings {
	return AppSettings{Currency: CurrencyETB}
}

func (s AppSettings) PinEnabled() bool {
	return s.Pin != nil && s.Pin.IsEnabled && s.Pin.PinHash != ""
}
