package fetch

import (
	"fmt"

	"github.com/goccy/go-json"
)

// CloneFunc returns a copy of v that shares no mutable state with it.
type CloneFunc[T any] func(v T) (T, error)

// JSONClone deep-copies v through a JSON round trip. Fields that do not
// survive JSON encoding are lost, which matches how snapshots are taken.
func JSONClone[T any](v T) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("clone: encode: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("clone: decode: %w", err)
	}
	return out, nil
}
