package formats

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// ParseJSON parses a JSON catalogue.
func ParseJSON(data []byte) ([]core.Level, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return doc.Levels()
}

// EncodeJSON writes levels as an indented JSON catalogue.
func EncodeJSON(levels []core.Level) ([]byte, error) {
	data, err := json.MarshalIndent(FromLevels(levels), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(data, '\n'), nil
}
