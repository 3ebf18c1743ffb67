package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/games/watersort/levels/formats"
)

// LoadFile reads a catalogue file. The format is chosen by extension.
// Every level is checked with core.ValidateLevel.
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return nil, fmt.Errorf("levels: parsing file %s: %w", path, err)
	}

	if err := checkIDs(parsed); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", path, err)
	}
	for _, l := range parsed {
		if err := core.ValidateLevel(l); err != nil {
			return nil, fmt.Errorf("levels: level %d in %s: %w", l.ID, path, err)
		}
	}

	return NewCatalogue(parsed), nil
}

// checkIDs requires positive level ids that appear once.
func checkIDs(parsed []core.Level) error {
	seen := make(map[int]bool, len(parsed))
	for _, l := range parsed {
		if l.ID < 1 {
			return fmt.Errorf("level id %d must be positive", l.ID)
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate level id %d", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

// SaveFile writes levels to path, creating parent directories.
func SaveFile(path string, levels []core.Level) error {
	ext := strings.ToLower(filepath.Ext(path))
	data, err := encodeByExtension(levels, ext)
	if err != nil {
		return fmt.Errorf("levels: encoding %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("levels: creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("levels: writing file %s: %w", path, err)
	}
	return nil
}

// IsSupported reports whether path has a catalogue extension.
func IsSupported(path string) bool {
	return slices.Contains(formats.FormatExtensions(), strings.ToLower(filepath.Ext(path)))
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) ([]core.Level, error) {
	switch ext {
	case ".json":
		return formats.ParseJSON(data)
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported extension: %s", ext)
	}
}

func encodeByExtension(levels []core.Level, ext string) ([]byte, error) {
	switch ext {
	case ".json":
		return formats.EncodeJSON(levels)
	case ".yaml", ".yml":
		return formats.EncodeYAML(levels)
	default:
		return nil, fmt.Errorf("unsupported extension: %s", ext)
	}
}
