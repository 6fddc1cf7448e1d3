// Package settings exposes the admin configuration of payment methods and
// notification channels.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage"
)

// SettingsHandler holds the dependencies for settings handlers.
type SettingsHandler struct {
	Store storage.SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store storage.SettingsStore) *SettingsHandler {
	return &SettingsHandler{Store: store}
}

// SetPaymentMethodRequest sets the instructions shown at checkout for one
// payment method. Methods are stored lower-cased.
type SetPaymentMethodRequest struct {
	Method       string `json:"method"`
	Instructions string `json:"instructions"`
}

// SetPaymentMethod handles the admin update of one payment method's instructions.
func (h *SettingsHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req SetPaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	method := strings.ToLower(strings.TrimSpace(req.Method))
	if method == "" || req.Instructions == "" {
		http.Error(w, "method and instructions are required", http.StatusBadRequest)
		return
	}

	settings, err := h.loadOrInit(r, tenant)
	if err != nil {
		writeError(w, err)
		return
	}

	if settings.PaymentMethods == nil {
		settings.PaymentMethods = make(map[string]string)
	}
	settings.PaymentMethods[method] = req.Instructions

	if err := h.Store.PutSettings(r.Context(), settings); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// SetChannelsRequest updates notification channel configuration. Empty fields
// are left unchanged.
type SetChannelsRequest struct {
	OrderChannel        string `json:"order_channel,omitempty"`
	AnnouncementChannel string `json:"announcement_channel,omitempty"`
}

// SetChannels handles the admin update of notification channels.
func (h *SettingsHandler) SetChannels(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req SetChannelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	settings, err := h.loadOrInit(r, tenant)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.OrderChannel != "" {
		settings.OrderChannel = req.OrderChannel
	}
	if req.AnnouncementChannel != "" {
		settings.AnnouncementChannel = req.AnnouncementChannel
	}

	if err := h.Store.PutSettings(r.Context(), settings); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// GetSettings handles the admin read of a tenant's settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	settings, err := h.Store.GetSettings(r.Context(), tenant)
	if err != nil {
		if errors.Is(err, storage.ErrSettingsNotFound) {
			writeJSON(w, http.StatusOK, &models.Settings{TenantId: tenant})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) loadOrInit(r *http.Request, tenant string) (*models.Settings, error) {
	settings, err := h.Store.GetSettings(r.Context(), tenant)
	if errors.Is(err, storage.ErrSettingsNotFound) {
		return &models.Settings{TenantId: tenant}, nil
	}
	return settings, err
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrStoreUnavailable) {
		http.Error(w, "Store unavailable, try again later", http.StatusServiceUnavailable)
		return
	}
	slog.Error("settings operation failed", "error", err)
	http.Error(w, "Failed to process settings operation", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
