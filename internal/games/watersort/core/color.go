package core

import (
	"fmt"
	"strings"
)

// Color identifies a liquid colour from the fixed palette.
// The engine compares colours by value only; names and hex codes belong to
// the serialization and presentation layers.
type Color uint8

const (
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorYellow
	ColorPurple
	ColorOrange
	ColorCyan
	ColorPink
	ColorLime
	ColorMagenta
	ColorTeal
	ColorCoral
	ColorCount // Sentinel value for iteration
)

type colorInfo struct {
	name string
	hex  string
	char rune
}

var palette = [ColorCount]colorInfo{
	ColorRed:     {"red", "#FF0000", 'R'},
	ColorBlue:    {"blue", "#0000FF", 'B'},
	ColorGreen:   {"green", "#00FF00", 'G'},
	ColorYellow:  {"yellow", "#FFFF00", 'Y'},
	ColorPurple:  {"purple", "#800080", 'P'},
	ColorOrange:  {"orange", "#FFA500", 'O'},
	ColorCyan:    {"cyan", "#00FFFF", 'C'},
	ColorPink:    {"pink", "#FFC0CB", 'K'},
	ColorLime:    {"lime", "#32CD32", 'L'},
	ColorMagenta: {"magenta", "#FF00FF", 'M'},
	ColorTeal:    {"teal", "#008080", 'T'},
	ColorCoral:   {"coral", "#FF7F50", 'A'},
}

// PaletteSize is the number of distinct colours a level may use.
const PaletteSize = int(ColorCount)

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	return c < ColorCount
}

// String returns the stable token used in catalogue files.
func (c Color) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return palette[c].name
}

// Hex returns the presentation hex code of the colour.
func (c Color) Hex() string {
	if !c.Valid() {
		return "#000000"
	}
	return palette[c].hex
}

// Char returns a single character representation for ASCII rendering.
func (c Color) Char() rune {
	if !c.Valid() {
		return '?'
	}
	return palette[c].char
}

// MarshalText encodes the colour as its token.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a token or a legacy hex code.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("unknown color %q", string(text))
	}
	*c = parsed
	return nil
}

// ParseColor converts a token to a Color. Names are matched case-insensitively
// and the hex codes written by older catalogue generators are accepted too.
// Returns ColorRed and false if the string is not recognized.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		for i, info := range palette {
			if strings.EqualFold(info.hex, s) {
				return Color(i), true
			}
		}
		return ColorRed, false
	}
	lower := strings.ToLower(s)
	for i, info := range palette {
		if info.name == lower {
			return Color(i), true
		}
	}
	return ColorRed, false
}

// AllColors returns the palette in declaration order.
func AllColors() []Color {
	colors := make([]Color, 0, ColorCount)
	for c := Color(0); c < ColorCount; c++ {
		colors = append(colors, c)
	}
	return colors
}
