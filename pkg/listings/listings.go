// Package listings tracks the outbound listing messages published for stock
// items, so exhausted items can have their public listings withdrawn.
package listings

import (
	"context"
	"sync"
)

// Retractor receives the item-exhausted signal the order lifecycle emits when
// a delivery drains an item's quantity to zero.
type Retractor interface {
	ItemExhausted(ctx context.Context, tenant, itemID string) error
}

// RetractFunc is called with the message ids recorded for an exhausted item.
type RetractFunc func(ctx context.Context, tenant, itemID string, messageIDs []string)

// RetractorFunc adapts a plain function to the Retractor interface.
type RetractorFunc func(ctx context.Context, tenant, itemID string) error

func (f RetractorFunc) ItemExhausted(ctx context.Context, tenant, itemID string) error {
	return f(ctx, tenant, itemID)
}

// MemoryIndex is an in-process listing index keyed by tenant and item id.
// It replaces ad-hoc global message-id tracking: the presentation layer
// records message ids as it publishes listings, and the index hands them back
// when the item is exhausted.
type MemoryIndex struct {
	mu        sync.Mutex
	messages  map[string]map[string][]string
	onRetract RetractFunc
}

// NewMemoryIndex creates a MemoryIndex. onRetract may be nil.
func NewMemoryIndex(onRetract RetractFunc) *MemoryIndex {
	return &MemoryIndex{
		messages:  make(map[string]map[string][]string),
		onRetract: onRetract,
	}
}

// Make sure we conform to the interface
var _ Retractor = (*MemoryIndex)(nil)

// Record remembers a published listing message for an item.
func (m *MemoryIndex) Record(tenant, itemID, messageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messages[tenant] == nil {
		m.messages[tenant] = make(map[string][]string)
	}
	m.messages[tenant][itemID] = append(m.messages[tenant][itemID], messageID)
}

// ItemExhausted drops the item's recorded messages and forwards them to the
// retraction callback.
func (m *MemoryIndex) ItemExhausted(ctx context.Context, tenant, itemID string) error {
	m.mu.Lock()
	var ids []string
	if byItem := m.messages[tenant]; byItem != nil {
		ids = byItem[itemID]
		delete(byItem, itemID)
	}
	m.mu.Unlock()

	if m.onRetract != nil {
		m.onRetract(ctx, tenant, itemID, ids)
	}
	return nil
}

// NoOpRetractor ignores the exhausted signal.
type NoOpRetractor struct{}

// ItemExhausted does nothing.
func (NoOpRetractor) ItemExhausted(ctx context.Context, tenant, itemID string) error {
	return nil
}
