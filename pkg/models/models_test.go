package models

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyTimes(t *testing.T) {
	cases := []struct {
		name  string
		price string
		qty   int64
		want  string
	}{
		{"rounds half up", "19.995", 3, "59.99"},
		{"exact", "4.99", 2, "9.98"},
		{"whole", "25", 1, "25"},
		{"no drift across repeated cents", "0.10", 3, "0.3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price, err := NewMoney(tc.price)
			require.NoError(t, err)
			assert.Equal(t, tc.want, price.Times(tc.qty).String())
		})
	}
}

func TestNewMoneyRejectsGarbage(t *testing.T) {
	_, err := NewMoney("4,99")
	assert.Error(t, err)
}

func TestMoneyDynamoDBRoundTrip(t *testing.T) {
	price, err := NewMoney("19.995")
	require.NoError(t, err)

	av, err := price.MarshalDynamoDBAttributeValue()
	require.NoError(t, err)
	n, ok := av.(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "19.995", n.Value)

	var decoded Money
	require.NoError(t, decoded.UnmarshalDynamoDBAttributeValue(av))
	assert.True(t, decoded.Equal(price.Decimal))

	err = decoded.UnmarshalDynamoDBAttributeValue(&types.AttributeValueMemberS{Value: "19.995"})
	assert.Error(t, err)
}

func TestStockItemAvailable(t *testing.T) {
	item := &StockItem{Quantity: 10, Reserved: 4}
	assert.Equal(t, int64(6), item.Available())

	item.Reserved = 0
	assert.Equal(t, int64(10), item.Available())
}
