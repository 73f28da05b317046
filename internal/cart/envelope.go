package cart

import (
	"encoding/json"
	"fmt"
)

// StorageVersion tags persisted cart snapshots. Older or missing versions are
// migrated forward without discarding items.
const StorageVersion = 2

type envelope struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// EncodeSnapshot serializes the items under the current storage version.
func EncodeSnapshot(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(envelope{Version: StorageVersion, Items: items})
}

// DecodeSnapshot parses a persisted cart payload. It accepts the current
// envelope, envelopes with a missing or lower version number, and the legacy
// bare-array format; in every case the items survive and the caller re-tags
// them at StorageVersion on the next save.
func DecodeSnapshot(data []byte) ([]Item, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && (env.Version > 0 || env.Items != nil) {
		return env.Items, nil
	}

	var legacy []Item
	if err := json.Unmarshal(data, &legacy); err == nil {
		return legacy, nil
	}

	return nil, fmt.Errorf("cart snapshot: unrecognized payload")
}
