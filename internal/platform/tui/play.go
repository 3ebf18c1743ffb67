package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/multiplayer"
	"github.com/vovakirdan/watersort/internal/storage"
)

// ProgressStore persists single-player progress.
type ProgressStore interface {
	LoadProgress(player string) (storage.Progress, error)
	CompleteLevel(player string, levelID, moves int) error
}

// RoomLink connects a board to a multiplayer room.
type RoomLink struct {
	Rooms    *multiplayer.Manager
	RoomID   multiplayer.RoomID
	PlayerID multiplayer.PlayerID
	Watcher  *multiplayer.Watcher
	View     multiplayer.RoomView
}

// roomEventMsg carries a room event into the update loop.
type roomEventMsg struct {
	evt multiplayer.RoomEvent
}

// roomClosedMsg is sent when a watcher stops delivering.
type roomClosedMsg struct{}

// waitForRoomEvent blocks on the watcher and returns its next event. Events
// buffered before the watcher closed are still delivered.
func waitForRoomEvent(w *multiplayer.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case evt := <-w.Events():
			return roomEventMsg{evt: evt}
		case <-w.Done():
			select {
			case evt := <-w.Events():
				return roomEventMsg{evt: evt}
			default:
				return roomClosedMsg{}
			}
		}
	}
}

// PlayModel is the Bubble Tea model for playing one level.
type PlayModel struct {
	board    *Board
	keys     PlayKeyMap
	help     help.Model
	theme    Theme
	player   string
	progress ProgressStore // Optional
	room     *RoomLink     // Optional
	logger   *log.Logger
	width    int
	height   int

	message  string
	isError  bool
	saved    bool
	back     bool
	next     bool
	quitting bool
}

// PlayOptions configures NewPlayModel.
type PlayOptions struct {
	Player   string
	Progress ProgressStore
	Room     *RoomLink
	Theme    Theme
	Logger   *log.Logger
	Width    int
	Height   int
}

// NewPlayModel creates a board screen for l.
func NewPlayModel(l core.Level, opts PlayOptions) PlayModel {
	h := help.New()
	h.ShowAll = false
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return PlayModel{
		board:    NewBoard(l),
		keys:     DefaultPlayKeyMap(),
		help:     h,
		theme:    opts.Theme,
		player:   opts.Player,
		progress: opts.Progress,
		room:     opts.Room,
		logger:   logger,
		width:    opts.Width,
		height:   opts.Height,
	}
}

// Init starts listening for room events when racing.
func (m PlayModel) Init() tea.Cmd {
	if m.room != nil {
		return waitForRoomEvent(m.room.Watcher)
	}
	return nil
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case roomEventMsg:
		if m.room == nil {
			return m, nil
		}
		m.room.View = msg.evt.Room()
		if w, ok := msg.evt.(multiplayer.WinnerEvent); ok && w.Winner != m.room.PlayerID {
			m.setMessage("Opponent finished first", true)
		}
		return m, waitForRoomEvent(m.room.Watcher)
	case roomClosedMsg:
		if m.room != nil && m.room.View.State != multiplayer.RoomFinished {
			m.setMessage("Room closed", true)
		}
		return m, nil
	}
	return m, nil
}

func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.back = true
		return m, nil
	case key.Matches(msg, m.keys.Left):
		m.board.MoveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.board.MoveCursor(1)
	case key.Matches(msg, m.keys.Cancel):
		m.board.ClearSelection()
	case key.Matches(msg, m.keys.Select):
		m.applySelect()
	case key.Matches(msg, m.keys.Undo):
		if m.room != nil {
			m.setMessage("Undo is disabled in a race", true)
		} else if !m.board.Undo() {
			m.setMessage("Nothing to undo", true)
		} else {
			m.setMessage("", false)
		}
	case key.Matches(msg, m.keys.Restart):
		if m.room != nil {
			m.setMessage("Restart is disabled in a race", true)
		} else {
			m.board.Restart()
			m.saved = false
			m.setMessage("", false)
		}
	case key.Matches(msg, m.keys.Hint):
		if m.board.RequestHint() {
			hint, _ := m.board.Hint()
			m.setMessage(fmt.Sprintf("Try %d -> %d", hint.From+1, hint.To+1), false)
		} else {
			m.setMessage("No hint available", true)
		}
	case key.Matches(msg, m.keys.Next):
		if m.board.Solved() && m.room == nil {
			m.next = true
		}
	default:
		if i, ok := digitIndex(msg.String()); ok {
			if m.board.SetCursor(i) {
				m.applySelect()
			}
		}
	}
	return m, nil
}

// applySelect picks or pours at the cursor and handles the consequences.
func (m *PlayModel) applySelect() {
	moved, err := m.board.Select()
	var illegal *core.IllegalMoveError
	if errors.As(err, &illegal) {
		m.setMessage("Can't pour: "+illegal.Reason, true)
		return
	}
	if moved == 0 {
		return
	}

	m.setMessage(fmt.Sprintf("Poured %d", moved), false)
	solved := m.board.Solved()
	if m.room != nil {
		m.report(solved)
	}
	if solved {
		m.setMessage(fmt.Sprintf("Solved in %d moves!", m.board.Moves()), false)
		m.saveProgress()
	}
}

// report sends the move count to the room.
func (m *PlayModel) report(completed bool) {
	view, err := m.room.Rooms.Report(m.room.RoomID, m.room.PlayerID, m.board.Moves(), completed)
	if err != nil {
		m.logger.Warn("room report failed", "room", m.room.RoomID, "err", err)
		m.setMessage("Room update failed", true)
		return
	}
	m.room.View = view
}

// saveProgress records a finished single-player level once.
func (m *PlayModel) saveProgress() {
	if m.saved || m.room != nil || m.progress == nil || m.player == "" {
		return
	}
	if err := m.progress.CompleteLevel(m.player, m.board.LevelID(), m.board.Moves()); err != nil {
		m.logger.Warn("could not save progress", "player", m.player, "level", m.board.LevelID(), "err", err)
		return
	}
	m.saved = true
}

func (m *PlayModel) setMessage(text string, isError bool) {
	m.message = text
	m.isError = isError
}

// digitIndex maps "1".."9" to bottle indices 0..8.
func digitIndex(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

// View renders the board, the HUD and help.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(m.renderHUD(), m.width))
	b.WriteString("\n\n")

	for _, line := range strings.Split(RenderBoard(m.board, m.theme), "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.room != nil {
		b.WriteString(centerText(m.renderRoom(), m.width))
		b.WriteString("\n")
	}

	if m.message != "" {
		style := m.theme.HUDValue
		if m.isError {
			style = m.theme.HUDError
		} else if m.board.Solved() {
			style = m.theme.HUDSuccess
		}
		b.WriteString(centerText(style.Render(m.message), m.width))
		b.WriteString("\n")
	}

	if m.board.Solved() && m.room == nil {
		b.WriteString(centerText(m.theme.HUDControls.Render("n: next level  |  esc: levels"), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	b.WriteString("\n")
	return b.String()
}

func (m PlayModel) renderHUD() string {
	sep := m.theme.HUDSeparator.Render("  |  ")
	parts := []string{
		m.theme.HUDTitle.Render(fmt.Sprintf("LEVEL %d", m.board.LevelID())),
		m.theme.HUDValue.Render(fmt.Sprintf("Moves: %d", m.board.Moves())),
	}
	if m.player != "" {
		parts = append(parts, m.theme.HUDValue.Render(m.player))
	}
	return strings.Join(parts, sep)
}

func (m PlayModel) renderRoom() string {
	view := m.room.View
	var parts []string
	parts = append(parts, m.theme.HUDTitle.Render("ROOM "+string(view.ID)))
	for _, p := range view.Players {
		name := p.Name
		if p.ID == m.room.PlayerID {
			name += " (you)"
		}
		status := fmt.Sprintf("%s: %d", name, p.Moves)
		if p.Completed {
			status += " done"
		}
		if view.Winner == p.ID {
			status += " WINNER"
		}
		parts = append(parts, m.theme.HUDValue.Render(status))
	}
	if len(view.Players) < multiplayer.MaxPlayers {
		parts = append(parts, m.theme.HUDControls.Render("waiting for opponent"))
	}
	return strings.Join(parts, m.theme.HUDSeparator.Render("  |  "))
}

// Board returns the underlying board.
func (m PlayModel) Board() *Board { return m.board }

// WantsBack reports whether the player left the board.
func (m PlayModel) WantsBack() bool { return m.back }

// WantsNext reports whether the player asked for the next level.
func (m PlayModel) WantsNext() bool { return m.next }

// IsQuitting reports whether the player quit.
func (m PlayModel) IsQuitting() bool { return m.quitting }
