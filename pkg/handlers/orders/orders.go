// Package orders exposes order placement, lookup, checkout instructions and
// the admin delivery operation over HTTP.
package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/ledger"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	ordercore "github.com/WeAreDevs-ops/Discord-botrb/pkg/orders"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage"
)

// OrdersHandler holds the dependencies for order-related handlers.
type OrdersHandler struct {
	Manager  *ordercore.Manager
	Store    storage.OrderReader
	Settings storage.SettingsStore
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(manager *ordercore.Manager, store storage.OrderReader, settings storage.SettingsStore) *OrdersHandler {
	return &OrdersHandler{Manager: manager, Store: store, Settings: settings}
}

// PlaceOrderRequest is a buyer's purchase submission.
type PlaceOrderRequest struct {
	BuyerID       string `json:"buyer_id"`
	ItemID        string `json:"item_id"`
	Quantity      int64  `json:"quantity"`
	PaymentMethod string `json:"payment_method"`
	DeliverTo     string `json:"deliver_to"`
}

// PlaceOrder handles the logic for placing a new order.
func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	order, err := h.Manager.PlaceOrder(r.Context(), tenant, ordercore.PlaceOrderInput{
		BuyerID:       req.BuyerID,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		PaymentMethod: req.PaymentMethod,
		DeliverTo:     req.DeliverTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, ordercore.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, storage.ErrItemNotFound):
			http.Error(w, "Item not found", http.StatusNotFound)
		case errors.Is(err, ledger.ErrInsufficientStock):
			http.Error(w, "Not enough stock available", http.StatusUnprocessableEntity)
		case errors.Is(err, storage.ErrVersionConflict):
			http.Error(w, "Stock was modified concurrently, try again", http.StatusConflict)
		case errors.Is(err, storage.ErrStoreUnavailable):
			http.Error(w, "Store unavailable, try again later", http.StatusServiceUnavailable)
		default:
			slog.Error("failed to place order", "tenant", tenant, "error", err)
			http.Error(w, "Failed to place order", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetOrder handles order status lookup. Buyers may only read their own
// orders; the caller identifies itself via the X-Buyer-ID header.
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	orderID := chi.URLParam(r, "orderID")

	order, err := h.Store.GetOrder(r.Context(), tenant, orderID)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	if buyer := r.Header.Get("X-Buyer-ID"); buyer != order.BuyerId {
		http.Error(w, "You can only view your own orders", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListMyOrders handles a buyer's order history lookup.
func (h *OrdersHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	buyer := r.Header.Get("X-Buyer-ID")
	if buyer == "" {
		http.Error(w, "X-Buyer-ID header is required", http.StatusBadRequest)
		return
	}

	orders, err := h.Store.ListOrdersByBuyer(r.Context(), tenant, buyer)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// CheckoutResponse pairs an order with the payment instructions configured
// for the method the buyer claimed, when one matches.
type CheckoutResponse struct {
	Order        *models.Order `json:"order"`
	Instructions string        `json:"instructions,omitempty"`
}

// Checkout returns payment instructions for an order. The buyer's free-text
// payment method is matched lower-cased against the configured methods; a
// miss simply returns no instructions.
func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	orderID := chi.URLParam(r, "orderID")

	order, err := h.Store.GetOrder(r.Context(), tenant, orderID)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	if buyer := r.Header.Get("X-Buyer-ID"); buyer != order.BuyerId {
		http.Error(w, "You can only view your own orders", http.StatusForbidden)
		return
	}

	resp := CheckoutResponse{Order: order}
	settings, err := h.Settings.GetSettings(r.Context(), tenant)
	if err == nil {
		method := strings.ToLower(strings.TrimSpace(order.PaymentMethod))
		resp.Instructions = settings.PaymentMethods[method]
	} else if !errors.Is(err, storage.ErrSettingsNotFound) {
		slog.Error("failed to load settings for checkout", "tenant", tenant, "error", err)
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListAllOrders handles the admin view of every order in a tenant.
func (h *OrdersHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	orders, err := h.Store.ListOrders(r.Context(), tenant)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// DeliverRequest carries the optional credentials for one-off deliveries.
type DeliverRequest struct {
	Credentials string `json:"credentials,omitempty"`
}

// Deliver handles the admin delivery transition for an order.
func (h *OrdersHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	orderID := chi.URLParam(r, "orderID")

	var req DeliverRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
	}

	if err := h.Manager.Deliver(r.Context(), tenant, orderID, req.Credentials); err != nil {
		writeOrderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrOrderNotFound):
		http.Error(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrStoreUnavailable):
		http.Error(w, "Store unavailable, try again later", http.StatusServiceUnavailable)
	default:
		slog.Error("order operation failed", "error", err)
		http.Error(w, "Failed to process order operation", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
