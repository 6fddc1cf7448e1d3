package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/storage"
)

// DynamoDBAPI captures the subset of the DynamoDB client used by the store,
// so tests can substitute a mock.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store implements the Storage interface on DynamoDB. Each tenant's stock,
// orders and settings live under that tenant's partition key, so every read
// and write is scoped to one guild.
type Store struct {
	Client            DynamoDBAPI
	StockTableName    string
	OrdersTableName   string
	SettingsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, stockTable, ordersTable, settingsTable string) *Store {
	return &Store{
		Client:            client,
		StockTableName:    stockTable,
		OrdersTableName:   ordersTable,
		SettingsTableName: settingsTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// unavailable wraps a transport-level client failure so callers can classify
// it with errors.Is(err, storage.ErrStoreUnavailable).
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(storage.ErrStoreUnavailable, err))
}
