package storage

import (
	"context"

	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
)

// OrderReader defines the interface for reading order data.
type OrderReader interface {
	// GetOrder retrieves an order by its id.
	GetOrder(ctx context.Context, tenant, orderID string) (*models.Order, error)

	// ListOrdersByBuyer retrieves all orders a buyer has placed in a tenant.
	ListOrdersByBuyer(ctx context.Context, tenant, buyerID string) ([]models.Order, error)

	// ListOrders retrieves every order for a tenant.
	ListOrders(ctx context.Context, tenant string) ([]models.Order, error)
}

// OrderWriter defines the interface for creating and transitioning orders.
type OrderWriter interface {
	// CreateOrder persists a new order. The order's id must not be taken.
	CreateOrder(ctx context.Context, order *models.Order) error

	// UpdateOrder overwrites an existing order record.
	UpdateOrder(ctx context.Context, order *models.Order) error
}

// OrderStore combines the reader and writer interfaces.
type OrderStore interface {
	OrderReader
	OrderWriter
}
