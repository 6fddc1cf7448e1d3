package models

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Money is a currency-agnostic decimal amount. It marshals to a DynamoDB
// number attribute so stored prices keep their exact decimal value.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a Money from a decimal string such as "19.995".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{Decimal: d}, nil
}

// MoneyFromDecimal wraps an existing decimal value.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// Times returns the amount multiplied by qty, rounded half-up to two decimal
// places. This is the rounding rule for order totals.
func (m Money) Times(qty int64) Money {
	return Money{Decimal: m.Decimal.Mul(decimal.NewFromInt(qty)).Round(2)}
}

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler.
func (m Money) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: m.Decimal.String()}, nil
}

// UnmarshalDynamoDBAttributeValue implements attributevalue.Unmarshaler.
func (m *Money) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("money attribute must be a number, got %T", av)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("invalid money attribute %q: %w", n.Value, err)
	}
	m.Decimal = d
	return nil
}
