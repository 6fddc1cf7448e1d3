package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage"
)

// GetSettings retrieves a tenant's storefront settings.
func (s *Store) GetSettings(ctx context.Context, tenant string) (*models.Settings, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"tenant_id": tenant})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings key: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.SettingsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, unavailable("failed to get settings", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("tenant %s: %w", tenant, storage.ErrSettingsNotFound)
	}

	var settings models.Settings
	if err := attributevalue.UnmarshalMap(result.Item, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &settings, nil
}

// PutSettings upserts a tenant's storefront settings.
func (s *Store) PutSettings(ctx context.Context, settings *models.Settings) error {
	settingsAV, err := attributevalue.MarshalMap(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.SettingsTableName),
		Item:      settingsAV,
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return unavailable("failed to put settings", err)
	}

	return nil
}
