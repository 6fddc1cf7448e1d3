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

// GetStockItem retrieves a stock item from DynamoDB by tenant and id.
func (s *Store) GetStockItem(ctx context.Context, tenant, itemID string) (*models.StockItem, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"tenant_id": tenant, "id": itemID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stock item key: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.StockTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, unavailable("failed to get stock item", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("item %s in tenant %s: %w", itemID, tenant, storage.ErrItemNotFound)
	}

	var item models.StockItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stock item: %w", err)
	}

	return &item, nil
}

// ListStock retrieves every stock item under a tenant's partition.
func (s *Store) ListStock(ctx context.Context, tenant string) ([]models.StockItem, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.StockTableName),
		KeyConditionExpression: aws.String("tenant_id = :tenant"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tenant": &types.AttributeValueMemberS{Value: tenant},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, unavailable("failed to query stock", err)
	}

	var items []models.StockItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stock items: %w", err)
	}

	return items, nil
}

// CreateStockItem inserts a new stock item, refusing to overwrite an existing id.
func (s *Store) CreateStockItem(ctx context.Context, item *models.StockItem) error {
	itemAV, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal stock item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.StockTableName),
		Item:                itemAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("item %s in tenant %s: %w", item.Id, item.TenantId, storage.ErrItemExists)
		}
		return unavailable("failed to create stock item", err)
	}

	return nil
}

// UpdateStockItem writes the full item conditionally on the version it was
// read at. This is the compare-and-swap that keeps concurrent reservations
// from overselling: a writer that lost the race gets ErrVersionConflict and
// must re-read before retrying. On success the in-memory Version advances to
// match the stored record.
func (s *Store) UpdateStockItem(ctx context.Context, item *models.StockItem) error {
	expectedVersion := item.Version
	item.Version = expectedVersion + 1

	itemAV, err := attributevalue.MarshalMap(item)
	if err != nil {
		item.Version = expectedVersion
		return fmt.Errorf("failed to marshal stock item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.StockTableName),
		Item:                itemAV,
		ConditionExpression: aws.String("version = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
		},
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		item.Version = expectedVersion
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("item %s in tenant %s: %w", item.Id, item.TenantId, storage.ErrVersionConflict)
		}
		return unavailable("failed to update stock item", err)
	}

	return nil
}
