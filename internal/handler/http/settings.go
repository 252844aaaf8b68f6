package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/handler/http/response"
)

type SettingsHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateCurrency(w http.ResponseWriter, r *http.Request)
	SetPin(w http.ResponseWriter, r *http.Request)
	DisablePin(w http.ResponseWriter, r *http.Request)
	Unlock(w http.ResponseWriter, r *http.Request)
	ClearData(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

// GetSettings implements SettingsHandler
func (h *settingsHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateCurrency implements SettingsHandler
func (h *settingsHandlerImpl) UpdateCurrency(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settingsService.UpdateCurrency(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Currency updated", result)
}

// SetPin implements SettingsHandler
func (h *settingsHandlerImpl) SetPin(w http.ResponseWriter, r *http.Request) {
	var req settings.SetPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settingsService.SetPin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "PIN lock enabled", result)
}

// DisablePin implements SettingsHandler
func (h *settingsHandlerImpl) DisablePin(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.DisablePin(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "PIN lock disabled", result)
}

// Unlock implements SettingsHandler
func (h *settingsHandlerImpl) Unlock(w http.ResponseWriter, r *http.Request) {
	var req settings.VerifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settingsService.VerifyPin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Unlocked", result)
}

// ClearData implements SettingsHandler
func (h *settingsHandlerImpl) ClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.settingsService.ClearAllData(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "All employee data cleared", nil)
}
