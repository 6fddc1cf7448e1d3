package stock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/clock"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/ledger"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *storetest.MemStore, *clock.Fixed) {
	t.Helper()
	store := storetest.New()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	handler := NewStockHandler(ledger.New(store, clk), store)

	router := chi.NewRouter()
	router.Route("/tenants/{tenant}", func(r chi.Router) {
		r.Get("/items", handler.ListItems)
		r.Post("/admin/stock/consumables", handler.AddConsumable)
		r.Post("/admin/stock/one-offs", handler.AddOneOff)
		r.Post("/admin/stock/{itemID}/remove", handler.RemoveStock)
		r.Put("/admin/stock/{itemID}/price", handler.SetPrice)
	})
	return router, store, clk
}

func seedItem(t *testing.T, store *storetest.MemStore, id string, quantity, reserved int64, reservedAt *time.Time) {
	t.Helper()
	price, err := models.NewMoney("4.99")
	require.NoError(t, err)
	store.SeedStock(models.StockItem{
		TenantId:   "guild-123",
		Id:         id,
		Name:       "1000 Robux",
		Kind:       models.Consumable,
		Price:      price,
		Quantity:   quantity,
		Reserved:   reserved,
		ReservedAt: reservedAt,
		Version:    1,
	})
}

func TestListItems(t *testing.T) {
	t.Run("Shows Available Count Only", func(t *testing.T) {
		// 1. Setup: 10 on hand with 4 freshly held leaves 6 visible.
		router, store, clk := newTestRouter(t)
		heldAt := clk.Now()
		seedItem(t, store, "robux_1000", 10, 4, &heldAt)

		// 2. Execute
		req := httptest.NewRequest(http.MethodGet, "/tenants/guild-123/items", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		// 3. Assert
		require.Equal(t, http.StatusOK, rr.Code)
		var listed []ListedItem
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
		require.Len(t, listed, 1)
		assert.Equal(t, int64(6), listed[0].Available)
	})

	t.Run("Sweeps Expired Holds Before Listing", func(t *testing.T) {
		router, store, clk := newTestRouter(t)
		staleAt := clk.Now().Add(-31 * time.Minute)
		seedItem(t, store, "robux_1000", 10, 10, &staleAt)

		req := httptest.NewRequest(http.MethodGet, "/tenants/guild-123/items", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var listed []ListedItem
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
		require.Len(t, listed, 1)
		assert.Equal(t, int64(10), listed[0].Available)
	})

	t.Run("Hides Fully Held Items", func(t *testing.T) {
		router, store, clk := newTestRouter(t)
		heldAt := clk.Now()
		seedItem(t, store, "robux_1000", 4, 4, &heldAt)

		req := httptest.NewRequest(http.MethodGet, "/tenants/guild-123/items", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var listed []ListedItem
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
		assert.Empty(t, listed)
	})
}

func TestAddConsumable(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, store, _ := newTestRouter(t)

		body := `{"amount": 1000, "quantity": 20, "price": "4.99"}`
		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/admin/stock/consumables", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		item, ok := store.StockSnapshot("guild-123", "robux_1000")
		require.True(t, ok)
		assert.Equal(t, "1000 Robux", item.Name)
		assert.Equal(t, int64(20), item.Quantity)
	})

	t.Run("Rejects Non-Positive Quantity", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := `{"amount": 1000, "quantity": 0, "price": "4.99"}`
		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/admin/stock/consumables", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Rejects Negative Price", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := `{"amount": 1000, "quantity": 5, "price": "-1"}`
		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/admin/stock/consumables", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAddOneOff(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := `{"name": "Stacked Account", "attributes": "korblox, headless", "price": "25"}`
	req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/admin/stock/one-offs", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var item models.StockItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &item))
	assert.Equal(t, models.OneOff, item.Kind)
	assert.Equal(t, int64(1), item.Quantity)
	assert.Contains(t, item.Id, "account_")
}

func TestRemoveStock(t *testing.T) {
	t.Run("Caps At Available", func(t *testing.T) {
		router, store, clk := newTestRouter(t)
		heldAt := clk.Now()
		seedItem(t, store, "robux_1000", 10, 4, &heldAt)

		body := `{"quantity": 100}`
		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/admin/stock/robux_1000/remove", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		item, _ := store.StockSnapshot("guild-123", "robux_1000")
		assert.Equal(t, int64(4), item.Quantity)
	})

	t.Run("Unknown Item", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := `{"quantity": 1}`
		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/admin/stock/missing/remove", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSetPrice(t *testing.T) {
	router, store, _ := newTestRouter(t)
	seedItem(t, store, "robux_1000", 10, 0, nil)

	body := `{"price": "6.25"}`
	req := httptest.NewRequest(http.MethodPut, "/tenants/guild-123/admin/stock/robux_1000/price", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	item, _ := store.StockSnapshot("guild-123", "robux_1000")
	assert.Equal(t, "6.25", item.Price.String())
}
