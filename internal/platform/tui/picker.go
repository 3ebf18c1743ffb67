package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/watersort/internal/storage"
)

// PickerModel is the level picker screen.
type PickerModel struct {
	ids      []int
	progress storage.Progress
	online   bool // Whether the online entry is offered
	table    table.Model
	help     help.Model
	keys     PickerKeyMap
	theme    Theme
	width    int
	height   int

	chosen     int
	wantOnline bool
	quitting   bool
}

// NewPickerModel creates a picker over ids. The cursor starts on the
// player's current level.
func NewPickerModel(ids []int, progress storage.Progress, online bool, theme Theme, width, height int) PickerModel {
	h := help.New()
	h.ShowAll = false
	m := PickerModel{
		ids:      ids,
		progress: progress,
		online:   online,
		help:     h,
		keys:     DefaultPickerKeyMap(),
		theme:    theme,
		width:    width,
		height:   height,
	}
	if !online {
		m.keys.Online.SetEnabled(false)
	}
	m.table = m.createTable()
	m.updateTableRows()
	m.table.SetCursor(m.indexOf(m.resumeLevel()))
	return m
}

// createTable creates the level table sized to the window.
func (m *PickerModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Level", Width: 7},
		{Title: "Status", Width: 10},
		{Title: "Best", Width: 8},
	}

	height := m.height - 8 // Leave room for title and help
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// updateTableRows fills the table from the level ids and progress.
func (m *PickerModel) updateTableRows() {
	rows := make([]table.Row, len(m.ids))
	for i, id := range m.ids {
		status := ""
		best := "-"
		switch {
		case m.progress.Completed(id):
			status = "solved"
			best = strconv.Itoa(m.progress.BestMoves[id])
		case id == m.progress.LastLevel:
			status = "current"
		}
		rows[i] = table.Row{strconv.Itoa(id), status, best}
	}
	m.table.SetRows(rows)
}

// resumeLevel is the level "continue" starts: the player's current level, or
// the last one when they are past the end of the catalogue.
func (m PickerModel) resumeLevel() int {
	if len(m.ids) == 0 {
		return 0
	}
	for _, id := range m.ids {
		if id >= m.progress.LastLevel {
			return id
		}
	}
	return m.ids[len(m.ids)-1]
}

func (m PickerModel) indexOf(id int) int {
	for i, v := range m.ids {
		if v == id {
			return i
		}
	}
	return 0
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			m.chosen = m.highlighted()
			return m, nil
		case key.Matches(msg, m.keys.Resume):
			m.chosen = m.resumeLevel()
			return m, nil
		case key.Matches(msg, m.keys.Online):
			if id := m.highlighted(); id > 0 {
				m.chosen = id
				m.wantOnline = true
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// highlighted returns the level id under the table cursor, or 0.
func (m PickerModel) highlighted() int {
	if len(m.ids) == 0 {
		return 0
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.ids) {
		return 0
	}
	return m.ids[i]
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("W A T E R   S O R T"), m.width))
	b.WriteString("\n\n")

	solved := len(m.progress.BestMoves)
	subtitle := fmt.Sprintf("%d of %d levels solved", solved, len(m.ids))
	if m.progress.Player != "" {
		subtitle = m.progress.Player + "  |  " + subtitle
	}
	b.WriteString(centerText(m.theme.MenuDescription.Render(subtitle), m.width))
	b.WriteString("\n\n")

	if len(m.ids) == 0 {
		b.WriteString(centerText(m.theme.HUDError.Render("No levels available"), m.width))
		b.WriteString("\n")
	} else {
		for _, line := range strings.Split(m.table.View(), "\n") {
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	b.WriteString("\n")
	return b.String()
}

// Chosen returns the picked level id, or 0 while still choosing.
func (m PickerModel) Chosen() int { return m.chosen }

// WantsOnline reports whether the pick is for an online race.
func (m PickerModel) WantsOnline() bool { return m.wantOnline }

// IsQuitting reports whether the player quit.
func (m PickerModel) IsQuitting() bool { return m.quitting }
