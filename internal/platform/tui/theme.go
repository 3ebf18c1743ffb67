package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// Theme contains the visual styles of the terminal client.
type Theme struct {
	// Bottle styles
	Glass         lipgloss.Style
	GlassCursor   lipgloss.Style
	GlassSelected lipgloss.Style
	GlassHint     lipgloss.Style
	EmptySlot     lipgloss.Style
	IndexLabel    lipgloss.Style

	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style
	HUDError     lipgloss.Style
	HUDSuccess   lipgloss.Style

	// Overlay styles
	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
	OverlayText   lipgloss.Style

	// Menu styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style

	// Liquid renders one unit; nil selects LiquidByHex
	Liquid func(c core.Color) lipgloss.Style

	// Letters draws units as their palette letter instead of a block
	Letters bool
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Glass:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		GlassCursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		GlassSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		GlassHint:     lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
		EmptySlot:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		IndexLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDControls:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDError:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		HUDSuccess:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),

		OverlayBorder: lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		OverlayTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		OverlayText:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Liquid: LiquidByHex,
	}
}

// MonochromeTheme renders liquids by their letter only, for terminals
// without colour.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.Liquid = func(core.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	}
	theme.Letters = true
	return theme
}

// LiquidByHex colours a unit with the palette hex code.
func LiquidByHex(c core.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}

func (t Theme) liquid(c core.Color) lipgloss.Style {
	if t.Liquid == nil {
		return LiquidByHex(c)
	}
	return t.Liquid(c)
}
