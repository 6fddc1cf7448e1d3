package notify

import (
	"context"

	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
)

// NoOpDispatcher is a dispatcher that does nothing.
type NoOpDispatcher struct{}

// OrderPlaced does nothing.
func (NoOpDispatcher) OrderPlaced(ctx context.Context, order *models.Order) error {
	return nil
}

// OrderDelivered does nothing.
func (NoOpDispatcher) OrderDelivered(ctx context.Context, order *models.Order, summary DeliverySummary, confidential *ConfidentialDelivery) error {
	return nil
}
