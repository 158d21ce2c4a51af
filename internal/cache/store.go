// Package cache provides the persistent key-value store that survives
// application restarts. Cached resource payloads and UI settings both live
// here; clearing the store wipes both.
package cache

import (
	"github.com/trop3n/ARCompanion/internal/models"
)

// Store is the persistence boundary used by the fetch layer and the API
// surface. Implementations must be safe for concurrent use; distinct resource
// keys are written independently.
type Store interface {
	// Get returns the record stored under key, reporting whether one exists.
	Get(key string) (models.CacheRecord, bool, error)

	// Set creates or overwrites the record under record.Key.
	Set(record models.CacheRecord) error

	// Clear removes every record and any saved settings.
	Clear() error

	// GetSettings returns saved settings, or defaults when none were saved.
	GetSettings() (models.Settings, error)

	// SetSettings persists the settings blob as-is.
	SetSettings(settings models.Settings) error

	// Close releases the underlying storage handle.
	Close() error
}
