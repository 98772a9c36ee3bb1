package topology

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a platform description from a JSON file.
func LoadFile(path string) (*Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}

	return Load(data)
}

// Load parses a platform description from JSON bytes.
func Load(data []byte) (*Platform, error) {
	p := &Platform{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}

	return p, nil
}
