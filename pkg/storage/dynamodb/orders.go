package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage"
)

// GetOrder retrieves an order from DynamoDB by tenant and id.
func (s *Store) GetOrder(ctx context.Context, tenant, orderID string) (*models.Order, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"tenant_id": tenant, "id": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order key: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.OrdersTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, unavailable("failed to get order", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("order %s in tenant %s: %w", orderID, tenant, storage.ErrOrderNotFound)
	}

	var order models.Order
	if err := attributevalue.UnmarshalMap(result.Item, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return &order, nil
}

// ListOrdersByBuyer retrieves all orders placed by one buyer within a tenant.
func (s *Store) ListOrdersByBuyer(ctx context.Context, tenant, buyerID string) ([]models.Order, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.OrdersTableName),
		KeyConditionExpression: aws.String("tenant_id = :tenant"),
		FilterExpression:       aws.String("buyer_id = :buyer"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tenant": &types.AttributeValueMemberS{Value: tenant},
			":buyer":  &types.AttributeValueMemberS{Value: buyerID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, unavailable("failed to query orders by buyer", err)
	}

	var orders []models.Order
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
	}

	return orders, nil
}

// ListOrders retrieves every order under a tenant's partition.
func (s *Store) ListOrders(ctx context.Context, tenant string) ([]models.Order, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.OrdersTableName),
		KeyConditionExpression: aws.String("tenant_id = :tenant"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tenant": &types.AttributeValueMemberS{Value: tenant},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, unavailable("failed to query orders", err)
	}

	var orders []models.Order
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
	}

	return orders, nil
}

// CreateOrder persists a new order, refusing to overwrite an existing id.
// Order creation and the stock reservation that precedes it are two
// independent writes; a failure here leaks the reservation until the next
// expiry sweep, which the caller logs distinctly.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	orderAV, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.OrdersTableName),
		Item:                orderAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("order %s in tenant %s: %w", order.Id, order.TenantId, storage.ErrOrderExists)
		}
		return unavailable("failed to create order", err)
	}

	return nil
}

// UpdateOrder overwrites an existing order record. Orders are never deleted,
// so the only caller is the delivery transition.
func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	orderAV, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.OrdersTableName),
		Item:                orderAV,
		ConditionExpression: aws.String("attribute_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("order %s in tenant %s: %w", order.Id, order.TenantId, storage.ErrOrderNotFound)
		}
		return unavailable("failed to update order", err)
	}

	return nil
}
