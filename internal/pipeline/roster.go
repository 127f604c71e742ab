package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// UnknownName is the display name used when the roster cannot resolve a
// symbol.
const UnknownName = "unknown"

// LoadRoster reads the symbol-to-name index. The roster is required: every
// instrument needs a display name for selection and reporting, so a missing
// or unreadable file aborts the run.
func LoadRoster(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read roster %s: %w", path, err)
	}
	roster := make(map[string]string)
	if err := json.Unmarshal(raw, &roster); err != nil {
		return nil, fmt.Errorf("pipeline: parse roster %s: %w", path, err)
	}
	return roster, nil
}
