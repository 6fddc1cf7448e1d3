package notify

// EventType defines the type of a storefront notification event.
type EventType string

const (
	// EventTypeOrderPlaced is emitted when a buyer's order is persisted.
	EventTypeOrderPlaced EventType = "orderPlaced"
	// EventTypeOrderDelivered is emitted when an admin marks an order delivered.
	EventTypeOrderDelivered EventType = "orderDelivered"
)

// Event is the envelope for a notification. The consumer (the Discord-facing
// relay) routes it to the tenant's configured channel and the buyer's DMs.
type Event struct {
	Type    EventType   `json:"type"`
	Tenant  string      `json:"tenant"`
	Payload interface{} `json:"payload"`
}

// OrderPlacedPayload announces a freshly placed order.
type OrderPlacedPayload struct {
	OrderID       string `json:"order_id"`
	BuyerID       string `json:"buyer_id"`
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	Quantity      int64  `json:"quantity"`
	TotalPrice    string `json:"total_price"`
	PaymentMethod string `json:"payment_method"`
	DeliverTo     string `json:"deliver_to"`
}

// DeliverySummary is the redacted delivery payload, safe for shared channels.
// It never carries credentials.
type DeliverySummary struct {
	OrderID    string `json:"order_id"`
	BuyerID    string `json:"buyer_id"`
	ItemID     string `json:"item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int64  `json:"quantity"`
	TotalPrice string `json:"total_price"`
}

// ConfidentialDelivery carries credentials for direct buyer notification of
// one-off items. Callers scrub Credentials as soon as the dispatch call
// returns, whether or not it succeeded.
type ConfidentialDelivery struct {
	OrderID     string `json:"order_id"`
	BuyerID     string `json:"buyer_id"`
	Credentials string `json:"credentials"`
}
