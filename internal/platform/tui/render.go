package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

const bottleGap = " "

// RenderBoard draws the bottles side by side, top unit first, with a marker
// row above and 1-based indices below.
func RenderBoard(b *Board, theme Theme) string {
	state := b.State()
	hint, hasHint := b.Hint()

	columns := make([]string, len(state.Bottles))
	for i, bottle := range state.Bottles {
		marker := "    "
		glass := theme.Glass
		switch {
		case i == b.Selected():
			marker, glass = " ** ", theme.GlassSelected
		case hasHint && i == hint.From:
			marker, glass = " ?? ", theme.GlassHint
		case hasHint && i == hint.To:
			marker, glass = " !! ", theme.GlassHint
		}
		if i == b.Cursor() {
			marker, glass = " vv ", theme.GlassCursor
		}
		columns[i] = renderBottle(bottle, state.Capacity, i, marker, glass, theme)
	}

	return lipgloss.JoinHorizontal(lipgloss.Bottom, interleave(columns, bottleGap)...)
}

func renderBottle(bottle core.Bottle, capacity, index int, marker string, glass lipgloss.Style, theme Theme) string {
	var sb strings.Builder
	sb.WriteString(glass.Render(marker))
	sb.WriteByte('\n')
	for row := capacity - 1; row >= 0; row-- {
		sb.WriteString(glass.Render("│"))
		if row < len(bottle) {
			sb.WriteString(renderUnit(bottle[row], theme))
		} else {
			sb.WriteString(theme.EmptySlot.Render("  "))
		}
		sb.WriteString(glass.Render("│"))
		sb.WriteByte('\n')
	}
	sb.WriteString(glass.Render("└──┘"))
	sb.WriteByte('\n')
	sb.WriteString(theme.IndexLabel.Render(lipgloss.PlaceHorizontal(4, lipgloss.Center, strconv.Itoa(index+1))))
	return sb.String()
}

func renderUnit(c core.Color, theme Theme) string {
	text := "██"
	if theme.Letters {
		text = strings.Repeat(string(c.Char()), 2)
	}
	return theme.liquid(c).Render(text)
}

// RenderPlain draws a state as one line per bottle using palette letters,
// bottom first. Used by the command line tools.
func RenderPlain(l core.Level) string {
	var sb strings.Builder
	width := len(strconv.Itoa(len(l.Bottles)))
	for i, bottle := range l.Bottles {
		label := strconv.Itoa(i + 1)
		sb.WriteString(strings.Repeat(" ", width-len(label)))
		sb.WriteString(label)
		sb.WriteString(" [")
		for j := range l.Capacity {
			if j < len(bottle) {
				sb.WriteRune(bottle[j].Char())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, len(items)*2)
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
