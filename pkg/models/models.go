package models

import (
	"time"
)

// ItemKind distinguishes replenishable listings from single-sale listings.
type ItemKind string

const (
	// Consumable items (currency bundles) support partial fulfilment across
	// many orders; admin adds to the same item id accumulate quantity.
	Consumable ItemKind = "CONSUMABLE"
	// OneOff items (accounts) are listed with quantity 1 and retired after a
	// single sale.
	OneOff ItemKind = "ONE_OFF"
)

// OrderStatus defines the possible states of an order.
type OrderStatus string

const (
	PendingPayment OrderStatus = "PENDING_PAYMENT"
	Delivered      OrderStatus = "DELIVERED"
)

// StockItem represents one purchasable listing within a tenant (guild).
// Reserved counts units held against unconfirmed orders; holds are pooled,
// so ReservedAt is the start of the current hold window, not per-order.
type StockItem struct {
	TenantId   string      `json:"tenant_id" dynamodbav:"tenant_id"`
	Id         string      `json:"id" dynamodbav:"id"`
	Name       string      `json:"name" dynamodbav:"name"`
	Kind       ItemKind    `json:"kind" dynamodbav:"kind"`
	Price      Money       `json:"price" dynamodbav:"price"`
	Quantity   int64       `json:"quantity" dynamodbav:"quantity"`
	Reserved   int64       `json:"reserved" dynamodbav:"reserved"`
	ReservedAt *time.Time  `json:"reserved_at,omitempty" dynamodbav:"reserved_at,omitempty"`
	Attributes string      `json:"attributes,omitempty" dynamodbav:"attributes,omitempty"`
	Version    int64       `json:"version" dynamodbav:"version"`
	CreatedAt  time.Time   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" dynamodbav:"updated_at"`
}

// Available returns the quantity buyers can still purchase.
// Invariant: 0 <= Reserved <= Quantity, so this is never negative.
func (i *StockItem) Available() int64 {
	return i.Quantity - i.Reserved
}

// Order represents one purchase attempt. Orders are created only after a
// successful reservation and are never deleted; the only mutation is the
// delivery transition.
type Order struct {
	TenantId      string      `json:"tenant_id" dynamodbav:"tenant_id"`
	Id            string      `json:"id" dynamodbav:"id"`
	BuyerId       string      `json:"buyer_id" dynamodbav:"buyer_id"`
	ItemId        string      `json:"item_id" dynamodbav:"item_id"`
	ItemName      string      `json:"item_name" dynamodbav:"item_name"`
	Quantity      int64       `json:"quantity" dynamodbav:"quantity"`
	TotalPrice    Money       `json:"total_price" dynamodbav:"total_price"`
	PaymentMethod string      `json:"payment_method" dynamodbav:"payment_method"`
	DeliverTo     string      `json:"deliver_to" dynamodbav:"deliver_to"`
	Status        OrderStatus `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" dynamodbav:"updated_at"`
}

// Settings holds per-tenant storefront configuration. PaymentMethods maps
// lower-cased method names to the instructions shown at checkout; the method
// a buyer types is free text, so lookups may miss.
type Settings struct {
	TenantId            string            `json:"tenant_id" dynamodbav:"tenant_id"`
	PaymentMethods      map[string]string `json:"payment_methods" dynamodbav:"payment_methods"`
	OrderChannel        string            `json:"order_channel,omitempty" dynamodbav:"order_channel,omitempty"`
	AnnouncementChannel string            `json:"announcement_channel,omitempty" dynamodbav:"announcement_channel,omitempty"`
}
