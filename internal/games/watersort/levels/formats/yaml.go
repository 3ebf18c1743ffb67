package formats

import (
	"fmt"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML catalogue.
func ParseYAML(data []byte) ([]core.Level, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return doc.Levels()
}

// EncodeYAML writes levels as a YAML catalogue.
func EncodeYAML(levels []core.Level) ([]byte, error) {
	data, err := yaml.Marshal(FromLevels(levels))
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}
