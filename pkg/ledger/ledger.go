// Package ledger owns every mutation of stock quantity, reserved counts and
// hold timestamps. All other components reach stock state through it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/clock"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage"
)

// ErrInsufficientStock is returned when a reservation asks for more than the
// item's available (quantity minus reserved) count.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidRelease is returned when a release asks for more than is reserved.
var ErrInvalidRelease = errors.New("release exceeds reserved amount")

// ErrInvalidPrice is returned when an admin sets a negative price.
var ErrInvalidPrice = errors.New("price must not be negative")

// DefaultReservationExpiry is how long a pooled hold survives without being
// delivered before a sweep releases it back to available stock.
const DefaultReservationExpiry = 30 * time.Minute

// casAttempts bounds the read-validate-write loop on version conflicts.
const casAttempts = 3

// Ledger enforces the reservation invariants on a tenant's stock collection:
// 0 <= reserved <= quantity after every operation.
type Ledger struct {
	store  storage.StockStore
	clock  clock.Clock
	expiry time.Duration
	logger *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithReservationExpiry overrides the default hold expiry window.
func WithReservationExpiry(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.expiry = d
		}
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New creates a Ledger over the given stock store.
func New(store storage.StockStore, clk clock.Clock, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		clock:  clk,
		expiry: DefaultReservationExpiry,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reserve places a hold of qty units on an item. The hold window restarts at
// now on every successful reservation because holds are pooled per item, not
// tracked per order. Returns the updated item so callers can price the order.
//
// The write is conditional on the version the item was read at; a losing
// writer re-reads and re-validates, so two racing reservations can never
// jointly exceed available stock.
func (l *Ledger) Reserve(ctx context.Context, tenant, itemID string, qty int64) (*models.StockItem, error) {
	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		item, err := l.store.GetStockItem(ctx, tenant, itemID)
		if err != nil {
			return nil, err
		}

		if item.Available() < qty {
			return nil, fmt.Errorf("item %s: want %d, available %d: %w", itemID, qty, item.Available(), ErrInsufficientStock)
		}

		now := l.clock.Now()
		item.Reserved += qty
		item.ReservedAt = &now
		item.UpdatedAt = now

		err = l.store.UpdateStockItem(ctx, item)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("reserve gave up after %d attempts: %w", casAttempts, lastErr)
}

// Release returns qty previously reserved units to the available pool.
// Releasing more than is currently reserved fails with ErrInvalidRelease and
// leaves state unchanged.
func (l *Ledger) Release(ctx context.Context, tenant, itemID string, qty int64) error {
	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		item, err := l.store.GetStockItem(ctx, tenant, itemID)
		if err != nil {
			return err
		}

		if qty > item.Reserved {
			return fmt.Errorf("item %s: release %d, reserved %d: %w", itemID, qty, item.Reserved, ErrInvalidRelease)
		}

		item.Reserved -= qty
		if item.Reserved == 0 {
			item.ReservedAt = nil
		}
		item.UpdatedAt = l.clock.Now()

		err = l.store.UpdateStockItem(ctx, item)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("release gave up after %d attempts: %w", casAttempts, lastErr)
}

// SweepExpired releases the pooled hold of every item whose window started
// more than the expiry ago. Quantity is untouched: reserved units were never
// subtracted from quantity at reserve time, so only the reserved counter and
// the timestamp are cleared. Returns the number of items released.
//
// Items that lose a version race are skipped; the next sweep picks them up.
func (l *Ledger) SweepExpired(ctx context.Context, tenant string) (int, error) {
	items, err := l.store.ListStock(ctx, tenant)
	if err != nil {
		return 0, err
	}

	cutoff := l.clock.Now().Add(-l.expiry)
	released := 0
	for i := range items {
		item := &items[i]
		if item.Reserved == 0 || item.ReservedAt == nil || !item.ReservedAt.Before(cutoff) {
			continue
		}

		held := item.Reserved
		item.Reserved = 0
		item.ReservedAt = nil
		item.UpdatedAt = l.clock.Now()

		if err := l.store.UpdateStockItem(ctx, item); err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				l.logger.Warn("expiry sweep lost a write race, will retry next sweep",
					"tenant", tenant, "item", item.Id)
				continue
			}
			return released, err
		}

		l.logger.Info("released expired hold",
			"tenant", tenant, "item", item.Id, "released", held)
		released++
	}

	return released, nil
}

// AddStockInput describes an admin stock addition.
type AddStockInput struct {
	// Id is the semantic family id for consumables (repeated adds accumulate).
	// Leave empty for one-off items; a fresh id is generated.
	Id         string
	Name       string
	Kind       models.ItemKind
	Price      models.Money
	Quantity   int64
	Attributes string
}

// AddStock lists new stock. Consumable adds to an existing family accumulate
// quantity and take the latest price; one-off items are always created fresh
// with quantity 1.
func (l *Ledger) AddStock(ctx context.Context, tenant string, in AddStockInput) (*models.StockItem, error) {
	if in.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	now := l.clock.Now()
	if in.Kind == models.OneOff {
		item := &models.StockItem{
			TenantId:   tenant,
			Id:         "account_" + uuid.New().String(),
			Name:       in.Name,
			Kind:       models.OneOff,
			Price:      in.Price,
			Quantity:   1,
			Attributes: in.Attributes,
			Version:    1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := l.store.CreateStockItem(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	}

	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		item, err := l.store.GetStockItem(ctx, tenant, in.Id)
		if errors.Is(err, storage.ErrItemNotFound) {
			item = &models.StockItem{
				TenantId:   tenant,
				Id:         in.Id,
				Name:       in.Name,
				Kind:       models.Consumable,
				Price:      in.Price,
				Quantity:   in.Quantity,
				Attributes: in.Attributes,
				Version:    1,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			err = l.store.CreateStockItem(ctx, item)
			if errors.Is(err, storage.ErrItemExists) {
				// Created concurrently; fold into the accumulate path.
				lastErr = err
				continue
			}
			if err != nil {
				return nil, err
			}
			return item, nil
		}
		if err != nil {
			return nil, err
		}

		item.Quantity += in.Quantity
		item.Price = in.Price
		item.UpdatedAt = now

		err = l.store.UpdateStockItem(ctx, item)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("add stock gave up after %d attempts: %w", casAttempts, lastErr)
}

// RemoveStock removes up to qty units from an item's available pool. Held
// units are never removed, so the reserved <= quantity invariant survives.
// Returns the item after removal.
func (l *Ledger) RemoveStock(ctx context.Context, tenant, itemID string, qty int64) (*models.StockItem, error) {
	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		item, err := l.store.GetStockItem(ctx, tenant, itemID)
		if err != nil {
			return nil, err
		}

		removable := qty
		if available := item.Available(); removable > available {
			removable = available
		}
		item.Quantity -= removable
		item.UpdatedAt = l.clock.Now()

		err = l.store.UpdateStockItem(ctx, item)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("remove stock gave up after %d attempts: %w", casAttempts, lastErr)
}

// SetPrice updates an item's unit price. Existing pending orders keep the
// total computed at reservation time.
func (l *Ledger) SetPrice(ctx context.Context, tenant, itemID string, price models.Money) (*models.StockItem, error) {
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		item, err := l.store.GetStockItem(ctx, tenant, itemID)
		if err != nil {
			return nil, err
		}

		item.Price = price
		item.UpdatedAt = l.clock.Now()

		err = l.store.UpdateStockItem(ctx, item)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("set price gave up after %d attempts: %w", casAttempts, lastErr)
}

// CommitDelivery reconciles stock for a delivered order: the order's quantity
// comes off both the reserved count and the real quantity, floored at zero so
// re-delivery and missing holds stay safe. A missing item is tolerated and
// reported as (nil, nil). Returns the updated item so callers can detect
// exhaustion.
func (l *Ledger) CommitDelivery(ctx context.Context, tenant, itemID string, qty int64) (*models.StockItem, error) {
	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		item, err := l.store.GetStockItem(ctx, tenant, itemID)
		if errors.Is(err, storage.ErrItemNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		releaseQty := qty
		if releaseQty > item.Reserved {
			releaseQty = item.Reserved
		}
		deductQty := qty
		if deductQty > item.Quantity {
			deductQty = item.Quantity
		}

		item.Reserved -= releaseQty
		item.Quantity -= deductQty
		if item.Reserved == 0 {
			item.ReservedAt = nil
		}
		// Removal can leave reserved above quantity only if state was already
		// inconsistent; clamp to restore the invariant.
		if item.Reserved > item.Quantity {
			item.Reserved = item.Quantity
		}
		item.UpdatedAt = l.clock.Now()

		err = l.store.UpdateStockItem(ctx, item)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("commit delivery gave up after %d attempts: %w", casAttempts, lastErr)
}
