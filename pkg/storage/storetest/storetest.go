// Package storetest provides an in-memory Storage implementation with the
// same conditional-write semantics as the DynamoDB store, for use in tests.
package storetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage"
)

// MemStore is an in-memory Storage. Stock writes are version-checked exactly
// like the DynamoDB implementation, so compare-and-swap behavior is testable
// without a running database.
type MemStore struct {
	mu       sync.Mutex
	stock    map[string]map[string]models.StockItem
	orders   map[string]map[string]models.Order
	settings map[string]models.Settings

	// FailNextCreateOrder makes the next CreateOrder call fail with this
	// error, for exercising the reservation-leak path.
	FailNextCreateOrder error

	// OnUpdateStock, when set, runs against the stored record just before a
	// stock update's version check, holding the store lock. Tests use it to
	// interleave a competing writer.
	OnUpdateStock func(stored *models.StockItem)
}

// New creates an empty MemStore.
func New() *MemStore {
	return &MemStore{
		stock:    make(map[string]map[string]models.StockItem),
		orders:   make(map[string]map[string]models.Order),
		settings: make(map[string]models.Settings),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*MemStore)(nil)

// SeedStock inserts an item directly, bypassing version checks.
func (s *MemStore) SeedStock(item models.StockItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stock[item.TenantId] == nil {
		s.stock[item.TenantId] = make(map[string]models.StockItem)
	}
	s.stock[item.TenantId][item.Id] = item
}

// StockSnapshot returns a copy of the stored item state.
func (s *MemStore) StockSnapshot(tenant, itemID string) (models.StockItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.stock[tenant][itemID]
	return item, ok
}

// OrderSnapshot returns a copy of the stored order state.
func (s *MemStore) OrderSnapshot(tenant, orderID string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[tenant][orderID]
	return order, ok
}

func (s *MemStore) GetStockItem(ctx context.Context, tenant, itemID string) (*models.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.stock[tenant][itemID]
	if !ok {
		return nil, fmt.Errorf("item %s in tenant %s: %w", itemID, tenant, storage.ErrItemNotFound)
	}
	copied := item
	return &copied, nil
}

func (s *MemStore) ListStock(ctx context.Context, tenant string) ([]models.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.StockItem, 0, len(s.stock[tenant]))
	for _, item := range s.stock[tenant] {
		items = append(items, item)
	}
	return items, nil
}

func (s *MemStore) CreateStockItem(ctx context.Context, item *models.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stock[item.TenantId][item.Id]; ok {
		return fmt.Errorf("item %s in tenant %s: %w", item.Id, item.TenantId, storage.ErrItemExists)
	}
	if s.stock[item.TenantId] == nil {
		s.stock[item.TenantId] = make(map[string]models.StockItem)
	}
	s.stock[item.TenantId][item.Id] = *item
	return nil
}

func (s *MemStore) UpdateStockItem(ctx context.Context, item *models.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.stock[item.TenantId][item.Id]
	if ok && s.OnUpdateStock != nil {
		hook := s.OnUpdateStock
		s.OnUpdateStock = nil
		hook(&stored)
		s.stock[item.TenantId][item.Id] = stored
	}

	if !ok || stored.Version != item.Version {
		return fmt.Errorf("item %s in tenant %s: %w", item.Id, item.TenantId, storage.ErrVersionConflict)
	}

	item.Version++
	s.stock[item.TenantId][item.Id] = *item
	return nil
}

func (s *MemStore) GetOrder(ctx context.Context, tenant, orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[tenant][orderID]
	if !ok {
		return nil, fmt.Errorf("order %s in tenant %s: %w", orderID, tenant, storage.ErrOrderNotFound)
	}
	copied := order
	return &copied, nil
}

func (s *MemStore) ListOrdersByBuyer(ctx context.Context, tenant, buyerID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []models.Order
	for _, order := range s.orders[tenant] {
		if order.BuyerId == buyerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (s *MemStore) ListOrders(ctx context.Context, tenant string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]models.Order, 0, len(s.orders[tenant]))
	for _, order := range s.orders[tenant] {
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *MemStore) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailNextCreateOrder; err != nil {
		s.FailNextCreateOrder = nil
		return err
	}
	if _, ok := s.orders[order.TenantId][order.Id]; ok {
		return fmt.Errorf("order %s in tenant %s: %w", order.Id, order.TenantId, storage.ErrOrderExists)
	}
	if s.orders[order.TenantId] == nil {
		s.orders[order.TenantId] = make(map[string]models.Order)
	}
	s.orders[order.TenantId][order.Id] = *order
	return nil
}

func (s *MemStore) UpdateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.TenantId][order.Id]; !ok {
		return fmt.Errorf("order %s in tenant %s: %w", order.Id, order.TenantId, storage.ErrOrderNotFound)
	}
	s.orders[order.TenantId][order.Id] = *order
	return nil
}

func (s *MemStore) GetSettings(ctx context.Context, tenant string) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.settings[tenant]
	if !ok {
		return nil, fmt.Errorf("tenant %s: %w", tenant, storage.ErrSettingsNotFound)
	}
	copied := settings
	return &copied, nil
}

func (s *MemStore) PutSettings(ctx context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.TenantId] = *settings
	return nil
}
