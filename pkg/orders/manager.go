// Package orders drives the order lifecycle: reservation-backed creation and
// the single forward transition to delivered.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/clock"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/ledger"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/listings"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/notify"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage"
)

// ErrInvalidInput is returned when a purchase request is missing a quantity,
// payment method claim or delivery identifier.
var ErrInvalidInput = errors.New("invalid order input")

// Manager coordinates the ledger, order store, notification dispatch and
// listing retraction. It owns Order.Status and never touches ledger fields
// except through ledger operations.
type Manager struct {
	ledger     *ledger.Ledger
	store      storage.OrderStore
	dispatcher notify.Dispatcher
	retractor  listings.Retractor
	clock      clock.Clock
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger overrides the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// New creates a Manager.
func New(ldg *ledger.Ledger, store storage.OrderStore, dispatcher notify.Dispatcher, retractor listings.Retractor, clk clock.Clock, opts ...Option) *Manager {
	m := &Manager{
		ledger:     ldg,
		store:      store,
		dispatcher: dispatcher,
		retractor:  retractor,
		clock:      clk,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PlaceOrderInput describes a buyer's purchase intent. PaymentMethod and
// DeliverTo are unverified free-text claims.
type PlaceOrderInput struct {
	BuyerID       string
	ItemID        string
	Quantity      int64
	PaymentMethod string
	DeliverTo     string
}

func (in *PlaceOrderInput) validate() error {
	if in.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if strings.TrimSpace(in.BuyerID) == "" {
		return fmt.Errorf("%w: buyer id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.DeliverTo) == "" {
		return fmt.Errorf("%w: delivery identifier is required", ErrInvalidInput)
	}
	return nil
}

// PlaceOrder converts purchase intent into a durable pending order: sweep
// stale holds, reserve stock, persist the order, then announce it.
//
// A successful reservation followed by a failed order persist leaks the hold
// until the next expiry sweep; that condition is logged distinctly and never
// auto-compensated.
func (m *Manager) PlaceOrder(ctx context.Context, tenant string, in PlaceOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := m.ledger.SweepExpired(ctx, tenant); err != nil {
		// The reservation below re-checks availability, so a failed sweep
		// only delays hold recovery.
		m.logger.Error("expiry sweep failed before reserve", "tenant", tenant, "error", err)
	}

	item, err := m.ledger.Reserve(ctx, tenant, in.ItemID, in.Quantity)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	order := &models.Order{
		TenantId:      tenant,
		Id:            uuid.New().String(),
		BuyerId:       in.BuyerID,
		ItemId:        item.Id,
		ItemName:      item.Name,
		Quantity:      in.Quantity,
		TotalPrice:    item.Price.Times(in.Quantity),
		PaymentMethod: in.PaymentMethod,
		DeliverTo:     in.DeliverTo,
		Status:        models.PendingPayment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := m.store.CreateOrder(ctx, order); err != nil {
		m.logger.Error("RESERVATION LEAK: order persist failed after successful reservation; stock stays held until expiry",
			"tenant", tenant, "item", item.Id, "quantity", in.Quantity, "error", err)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if err := m.dispatcher.OrderPlaced(ctx, order); err != nil {
		m.logger.Error("failed to dispatch order-placed notification", "tenant", tenant, "order", order.Id, "error", err)
	}

	return order, nil
}

// Deliver marks an order delivered, reconciles the item's stock and hold,
// signals retraction for exhausted listings, and dispatches delivery
// notifications. Credentials ride only in the confidential payload and are
// scrubbed as soon as the dispatch call returns.
//
// Re-delivering an already delivered order re-runs the stock decrement under
// the floor-at-zero guards; callers serialize by order id to avoid
// double-decrement across truly concurrent calls.
func (m *Manager) Deliver(ctx context.Context, tenant, orderID, credentials string) error {
	order, err := m.store.GetOrder(ctx, tenant, orderID)
	if err != nil {
		return err
	}

	order.Status = models.Delivered
	order.UpdatedAt = m.clock.Now()
	if err := m.store.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to persist delivery: %w", err)
	}

	item, err := m.ledger.CommitDelivery(ctx, tenant, order.ItemId, order.Quantity)
	if err != nil {
		// The order is already delivered; stock reconciliation failures are
		// reported but do not undo the transition.
		m.logger.Error("failed to reconcile stock for delivered order",
			"tenant", tenant, "order", order.Id, "item", order.ItemId, "error", err)
	}

	if item != nil && item.Quantity == 0 {
		if err := m.retractor.ItemExhausted(ctx, tenant, item.Id); err != nil {
			m.logger.Error("failed to signal item exhausted", "tenant", tenant, "item", item.Id, "error", err)
		}
	}

	summary := notify.DeliverySummary{
		OrderID:    order.Id,
		BuyerID:    order.BuyerId,
		ItemID:     order.ItemId,
		ItemName:   order.ItemName,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice.String(),
	}
	var confidential *notify.ConfidentialDelivery
	if credentials != "" {
		confidential = &notify.ConfidentialDelivery{
			OrderID:     order.Id,
			BuyerID:     order.BuyerId,
			Credentials: credentials,
		}
	}

	if err := m.dispatcher.OrderDelivered(ctx, order, summary, confidential); err != nil {
		m.logger.Error("failed to dispatch delivery notification", "tenant", tenant, "order", order.Id, "error", err)
	}

	// Scrub credentials whether or not the dispatch succeeded.
	if confidential != nil {
		confidential.Credentials = ""
	}

	return nil
}
