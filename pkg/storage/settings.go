package storage

import (
	"context"

	"github.com/WeAreDevs-ops/Discord-botrb/pkg/models"
)

// SettingsStore defines the interface for per-tenant storefront settings.
type SettingsStore interface {
	// GetSettings retrieves a tenant's settings, or ErrSettingsNotFound.
	GetSettings(ctx context.Context, tenant string) (*models.Settings, error)

	// PutSettings upserts a tenant's settings.
	PutSettings(ctx context.Context, settings *models.Settings) error
}
