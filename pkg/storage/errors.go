package storage

import "errors"

// ErrItemNotFound is returned when a stock item does not exist in the tenant's collection.
var ErrItemNotFound = errors.New("stock item not found")

// ErrOrderNotFound is returned when an order does not exist in the tenant's collection.
var ErrOrderNotFound = errors.New("order not found")

// ErrSettingsNotFound is returned when a tenant has no stored settings yet.
var ErrSettingsNotFound = errors.New("settings not found")

// ErrOrderExists is returned when creating an order whose id is already taken.
var ErrOrderExists = errors.New("order already exists")

// ErrItemExists is returned when creating a stock item whose id is already taken.
var ErrItemExists = errors.New("stock item already exists")

// ErrVersionConflict is returned when a conditional write loses a race with a
// concurrent writer. Callers re-read and re-validate before retrying.
var ErrVersionConflict = errors.New("stock item version conflict")

// ErrStoreUnavailable classifies transport-level store failures. The core
// never retries these; the current operation fails and is reported.
var ErrStoreUnavailable = errors.New("store unavailable")
