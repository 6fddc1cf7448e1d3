package storage

import (
	"context"

	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
)

// StockReader defines the interface for reading a tenant's stock collection.
type StockReader interface {
	// GetStockItem retrieves a stock item by id.
	GetStockItem(ctx context.Context, tenant, itemID string) (*models.StockItem, error)

	// ListStock retrieves every stock item for a tenant.
	ListStock(ctx context.Context, tenant string) ([]models.StockItem, error)
}

// StockWriter defines the interface for mutating a tenant's stock collection.
// Only the inventory ledger should hold a StockWriter.
type StockWriter interface {
	// CreateStockItem inserts a new item. The item's id must not be taken.
	CreateStockItem(ctx context.Context, item *models.StockItem) error

	// UpdateStockItem writes the item conditionally on the version it was read
	// at. On success the item's Version is advanced in place; a lost race
	// returns ErrVersionConflict and leaves the stored item untouched.
	UpdateStockItem(ctx context.Context, item *models.StockItem) error
}

// StockStore combines the reader and writer interfaces.
type StockStore interface {
	StockReader
	StockWriter
}
