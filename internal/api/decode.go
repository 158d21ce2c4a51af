package api

import (
	"encoding/json"
	"fmt"

	"github.com/trop3n/ARCompanion/internal/models"
)

// decodeRawEvents coerces an events payload into raw event records. The
// payload is best-effort: a non-array or otherwise unusable body leaves the
// slice empty so the caller falls back to the default rotation.
func decodeRawEvents(data json.RawMessage, out *[]models.RawEvent) error {
	if len(data) == 0 {
		return fmt.Errorf("empty events payload")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode events payload: %w", err)
	}
	return nil
}
