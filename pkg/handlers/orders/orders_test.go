package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/WeAreDevs-ops/Discord-botrb/pkg/clock"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/ledger"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/listings"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/notify"
	ordercore "github.com/WeAreDevs-ops/Discord-botrb/pkg/orders"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage/storetest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *storetest.MemStore) {
	t.Helper()
	store := storetest.New()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ldg := ledger.New(store, clk)
	manager := ordercore.New(ldg, store, notify.NoOpDispatcher{}, listings.NoOpRetractor{}, clk)
	handler := NewOrdersHandler(manager, store, store)

	router := chi.NewRouter()
	router.Route("/tenants/{tenant}", func(r chi.Router) {
		r.Post("/orders", handler.PlaceOrder)
		r.Get("/orders", handler.ListMyOrders)
		r.Get("/orders/{orderID}", handler.GetOrder)
		r.Get("/orders/{orderID}/checkout", handler.Checkout)
		r.Get("/admin/orders", handler.ListAllOrders)
		r.Post("/admin/orders/{orderID}/deliver", handler.Deliver)
	})
	return router, store
}

func seedItem(t *testing.T, store *storetest.MemStore, id string, quantity int64) {
	t.Helper()
	price, err := models.NewMoney("4.99")
	require.NoError(t, err)
	store.SeedStock(models.StockItem{
		TenantId: "guild-123",
		Id:       id,
		Name:     "1000 Robux",
		Kind:     models.Consumable,
		Price:    price,
		Quantity: quantity,
		Version:  1,
	})
}

func placeOrder(t *testing.T, router *chi.Mux) models.Order {
	t.Helper()
	body := `{"buyer_id": "buyer-1", "item_id": "robux_1000", "quantity": 2, "payment_method": "PayPal", "deliver_to": "roblox_user_99"}`
	req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/orders", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &order))
	return order
}

func TestPlaceOrderHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, store := newTestRouter(t)
		seedItem(t, store, "robux_1000", 10)

		order := placeOrder(t, router)

		assert.Equal(t, models.PendingPayment, order.Status)
		assert.Equal(t, "9.98", order.TotalPrice.String())
		item, _ := store.StockSnapshot("guild-123", "robux_1000")
		assert.Equal(t, int64(2), item.Reserved)
	})

	t.Run("Invalid Input", func(t *testing.T) {
		router, store := newTestRouter(t)
		seedItem(t, store, "robux_1000", 10)

		body := `{"buyer_id": "", "item_id": "robux_1000", "quantity": 2, "payment_method": "paypal", "deliver_to": "x"}`
		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/orders", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Unknown Item", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := `{"buyer_id": "buyer-1", "item_id": "missing", "quantity": 1, "payment_method": "paypal", "deliver_to": "x"}`
		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/orders", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Insufficient Stock", func(t *testing.T) {
		router, store := newTestRouter(t)
		seedItem(t, store, "robux_1000", 1)

		body := `{"buyer_id": "buyer-1", "item_id": "robux_1000", "quantity": 5, "payment_method": "paypal", "deliver_to": "x"}`
		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/orders", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	t.Run("Owner Can Read", func(t *testing.T) {
		router, store := newTestRouter(t)
		seedItem(t, store, "robux_1000", 10)
		order := placeOrder(t, router)

		req := httptest.NewRequest(http.MethodGet, "/tenants/guild-123/orders/"+order.Id, nil)
		req.Header.Set("X-Buyer-ID", "buyer-1")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Other Buyers Are Refused", func(t *testing.T) {
		router, store := newTestRouter(t)
		seedItem(t, store, "robux_1000", 10)
		order := placeOrder(t, router)

		req := httptest.NewRequest(http.MethodGet, "/tenants/guild-123/orders/"+order.Id, nil)
		req.Header.Set("X-Buyer-ID", "buyer-2")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/tenants/guild-123/orders/missing", nil)
		req.Header.Set("X-Buyer-ID", "buyer-1")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("Matches Configured Method Case-Insensitively", func(t *testing.T) {
		// The order above claims "PayPal"; the configured key is lower-cased.
		router, store := newTestRouter(t)
		seedItem(t, store, "robux_1000", 10)
		require.NoError(t, store.PutSettings(context.Background(), &models.Settings{
			TenantId:       "guild-123",
			PaymentMethods: map[string]string{"paypal": "Send to paypal.me/example"},
		}))
		order := placeOrder(t, router)

		req := httptest.NewRequest(http.MethodGet, "/tenants/guild-123/orders/"+order.Id+"/checkout", nil)
		req.Header.Set("X-Buyer-ID", "buyer-1")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp CheckoutResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Send to paypal.me/example", resp.Instructions)
	})

	t.Run("Unconfigured Method Returns No Instructions", func(t *testing.T) {
		router, store := newTestRouter(t)
		seedItem(t, store, "robux_1000", 10)
		order := placeOrder(t, router)

		req := httptest.NewRequest(http.MethodGet, "/tenants/guild-123/orders/"+order.Id+"/checkout", nil)
		req.Header.Set("X-Buyer-ID", "buyer-1")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp CheckoutResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Empty(t, resp.Instructions)
	})
}

func TestDeliverHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, store := newTestRouter(t)
		seedItem(t, store, "robux_1000", 10)
		order := placeOrder(t, router)

		body := `{"credentials": "user:pass123"}`
		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/admin/orders/"+order.Id+"/deliver", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		stored, _ := store.OrderSnapshot("guild-123", order.Id)
		assert.Equal(t, models.Delivered, stored.Status)
		item, _ := store.StockSnapshot("guild-123", "robux_1000")
		assert.Equal(t, int64(8), item.Quantity)
	})

	t.Run("Empty Body Is Allowed", func(t *testing.T) {
		router, store := newTestRouter(t)
		seedItem(t, store, "robux_1000", 10)
		order := placeOrder(t, router)

		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/admin/orders/"+order.Id+"/deliver", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Unknown Order", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/tenants/guild-123/admin/orders/missing/deliver", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
