package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	sent []string
	err  error
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, *params.MessageBody)
	return &sqs.SendMessageOutput{}, nil
}

func testOrder(t *testing.T) *models.Order {
	t.Helper()
	total, err := models.NewMoney("59.99")
	require.NoError(t, err)
	return &models.Order{
		TenantId:      "guild-123",
		Id:            "order-1",
		BuyerId:       "buyer-1",
		ItemId:        "robux_1000",
		ItemName:      "1000 Robux",
		Quantity:      3,
		TotalPrice:    total,
		PaymentMethod: "paypal",
		DeliverTo:     "roblox_user_99",
		Status:        models.PendingPayment,
	}
}

func TestOrderPlaced(t *testing.T) {
	client := &fakeSQS{}
	dispatcher := NewSQSDispatcher(client, "https://sqs.test/queue")

	err := dispatcher.OrderPlaced(context.Background(), testOrder(t))

	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	var event struct {
		Type    EventType          `json:"type"`
		Tenant  string             `json:"tenant"`
		Payload OrderPlacedPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(client.sent[0]), &event))
	assert.Equal(t, EventTypeOrderPlaced, event.Type)
	assert.Equal(t, "guild-123", event.Tenant)
	assert.Equal(t, "order-1", event.Payload.OrderID)
	assert.Equal(t, "59.99", event.Payload.TotalPrice)
}

func TestOrderDelivered(t *testing.T) {
	summary := DeliverySummary{
		OrderID:    "order-1",
		BuyerID:    "buyer-1",
		ItemID:     "account_abc",
		ItemName:   "Stacked Account",
		Quantity:   1,
		TotalPrice: "25",
	}

	t.Run("Summary Only", func(t *testing.T) {
		client := &fakeSQS{}
		dispatcher := NewSQSDispatcher(client, "https://sqs.test/queue")

		err := dispatcher.OrderDelivered(context.Background(), testOrder(t), summary, nil)

		require.NoError(t, err)
		require.Len(t, client.sent, 1)
		assert.NotContains(t, client.sent[0], "credentials")
	})

	t.Run("With Confidential Payload", func(t *testing.T) {
		client := &fakeSQS{}
		dispatcher := NewSQSDispatcher(client, "https://sqs.test/queue")
		confidential := &ConfidentialDelivery{
			OrderID:     "order-1",
			BuyerID:     "buyer-1",
			Credentials: "user:pass123",
		}

		err := dispatcher.OrderDelivered(context.Background(), testOrder(t), summary, confidential)

		require.NoError(t, err)
		require.Len(t, client.sent, 2)
		// The shared-channel summary never carries credentials; only the
		// second, buyer-directed event does.
		assert.NotContains(t, client.sent[0], "user:pass123")
		assert.Contains(t, client.sent[1], "user:pass123")
	})

	t.Run("Queue Failure", func(t *testing.T) {
		client := &fakeSQS{err: errors.New("queue unreachable")}
		dispatcher := NewSQSDispatcher(client, "https://sqs.test/queue")

		err := dispatcher.OrderDelivered(context.Background(), testOrder(t), summary, nil)

		assert.Error(t, err)
	})
}
