// Package stock exposes the admin stock operations and the buyer-facing
// listing view over HTTP.
package stock

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/ledger"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage"
)

// StockHandler holds the dependencies for stock-related handlers.
type StockHandler struct {
	Ledger *ledger.Ledger
	Store  storage.StockReader
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ldg *ledger.Ledger, store storage.StockReader) *StockHandler {
	return &StockHandler{Ledger: ldg, Store: store}
}

// ListedItem is the buyer-facing view of a stock item. Buyers only ever see
// the available count, never the raw quantity/reserved split.
type ListedItem struct {
	Id         string          `json:"id"`
	Name       string          `json:"name"`
	Kind       models.ItemKind `json:"kind"`
	Price      models.Money    `json:"price"`
	Available  int64           `json:"available"`
	Attributes string          `json:"attributes,omitempty"`
}

// ListItems returns every item with available stock. Expired holds are swept
// first so displayed counts reflect reclaimable stock.
func (h *StockHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	if _, err := h.Ledger.SweepExpired(r.Context(), tenant); err != nil {
		slog.Error("expiry sweep failed before listing", "tenant", tenant, "error", err)
	}

	items, err := h.Store.ListStock(r.Context(), tenant)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	listed := make([]ListedItem, 0, len(items))
	for i := range items {
		if items[i].Available() <= 0 {
			continue
		}
		listed = append(listed, ListedItem{
			Id:         items[i].Id,
			Name:       items[i].Name,
			Kind:       items[i].Kind,
			Price:      items[i].Price,
			Available:  items[i].Available(),
			Attributes: items[i].Attributes,
		})
	}

	writeJSON(w, http.StatusOK, listed)
}

// AddConsumableRequest describes an admin consumable-stock addition. Repeated
// adds for the same amount accumulate on one item family.
type AddConsumableRequest struct {
	Amount   int64        `json:"amount"`
	Quantity int64        `json:"quantity"`
	Price    models.Money `json:"price"`
}

// AddConsumable handles the admin addition of consumable stock.
func (h *StockHandler) AddConsumable(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req AddConsumableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 || req.Quantity <= 0 {
		http.Error(w, "amount and quantity must be positive", http.StatusBadRequest)
		return
	}

	item, err := h.Ledger.AddStock(r.Context(), tenant, ledger.AddStockInput{
		Id:       fmt.Sprintf("robux_%d", req.Amount),
		Name:     fmt.Sprintf("%d Robux", req.Amount),
		Kind:     models.Consumable,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidPrice) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// AddOneOffRequest describes an admin one-off listing (an account). Quantity
// is fixed at 1.
type AddOneOffRequest struct {
	Name       string       `json:"name"`
	Attributes string       `json:"attributes"`
	Price      models.Money `json:"price"`
}

// AddOneOff handles the admin addition of a one-off listing.
func (h *StockHandler) AddOneOff(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req AddOneOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	item, err := h.Ledger.AddStock(r.Context(), tenant, ledger.AddStockInput{
		Name:       req.Name,
		Kind:       models.OneOff,
		Price:      req.Price,
		Attributes: req.Attributes,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidPrice) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// RemoveStockRequest describes an admin stock removal.
type RemoveStockRequest struct {
	Quantity int64 `json:"quantity"`
}

// RemoveStock handles the admin removal of available stock. Held units are
// not removable.
func (h *StockHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	itemID := chi.URLParam(r, "itemID")

	var req RemoveStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	item, err := h.Ledger.RemoveStock(r.Context(), tenant, itemID, req.Quantity)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// SetPriceRequest describes an admin price update.
type SetPriceRequest struct {
	Price models.Money `json:"price"`
}

// SetPrice handles the admin price update for an item.
func (h *StockHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	itemID := chi.URLParam(r, "itemID")

	var req SetPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	item, err := h.Ledger.SetPrice(r.Context(), tenant, itemID, req.Price)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidPrice) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrItemNotFound):
		http.Error(w, "Item not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrVersionConflict):
		http.Error(w, "Item was modified concurrently, try again", http.StatusConflict)
	case errors.Is(err, storage.ErrStoreUnavailable):
		http.Error(w, "Store unavailable, try again later", http.StatusServiceUnavailable)
	default:
		http.Error(w, fmt.Sprintf("Failed to process stock operation: %v", err), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
