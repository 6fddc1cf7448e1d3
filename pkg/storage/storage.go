package storage

// ApiStore defines the complete set of operations needed by the HTTP surface.
// It composes other interfaces to provide a clear boundary for data access;
// components should depend on the most granular interface that serves them.
type ApiStore interface {
	StockStore
	OrderStore
	SettingsStore
}

// Storage defines the root interface for the entire data layer.
type Storage interface {
	ApiStore
}
