package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
)

// SQSAPI captures the subset of the SQS client used by the dispatcher.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSDispatcher implements Dispatcher by enqueueing events for the
// Discord-facing relay that owns channel and DM delivery.
type SQSDispatcher struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSDispatcher creates a new SQSDispatcher.
func NewSQSDispatcher(client SQSAPI, queueURL string) *SQSDispatcher {
	return &SQSDispatcher{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Dispatcher = (*SQSDispatcher)(nil)

// OrderPlaced enqueues an order-placed event.
func (d *SQSDispatcher) OrderPlaced(ctx context.Context, order *models.Order) error {
	return d.send(ctx, Event{
		Type:   EventTypeOrderPlaced,
		Tenant: order.TenantId,
		Payload: OrderPlacedPayload{
			OrderID:       order.Id,
			BuyerID:       order.BuyerId,
			ItemID:        order.ItemId,
			ItemName:      order.ItemName,
			Quantity:      order.Quantity,
			TotalPrice:    order.TotalPrice.String(),
			PaymentMethod: order.PaymentMethod,
			DeliverTo:     order.DeliverTo,
		},
	})
}

// OrderDelivered enqueues one event per payload: the redacted summary for the
// shared channel, and the confidential payload when present.
func (d *SQSDispatcher) OrderDelivered(ctx context.Context, order *models.Order, summary DeliverySummary, confidential *ConfidentialDelivery) error {
	if err := d.send(ctx, Event{
		Type:    EventTypeOrderDelivered,
		Tenant:  order.TenantId,
		Payload: summary,
	}); err != nil {
		return err
	}

	if confidential == nil {
		return nil
	}
	return d.send(ctx, Event{
		Type:    EventTypeOrderDelivered,
		Tenant:  order.TenantId,
		Payload: *confidential,
	})
}

func (d *SQSDispatcher) send(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for SQS: %w", err)
	}

	_, err = d.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(d.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send event to SQS: %w", err)
	}

	return nil
}
