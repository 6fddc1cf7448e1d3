package notify

import (
	"context"

	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
)

// Dispatcher emits storefront notification events. Delivery is best-effort:
// the core logs dispatch failures and never rolls back the state transition
// that triggered them.
type Dispatcher interface {
	// OrderPlaced announces a new pending order.
	OrderPlaced(ctx context.Context, order *models.Order) error

	// OrderDelivered announces a delivery with a redacted summary for shared
	// channels and, for one-off items, a confidential payload for the buyer's
	// direct notification.
	OrderDelivered(ctx context.Context, order *models.Order, summary DeliverySummary, confidential *ConfidentialDelivery) error
}
