package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/watersort/internal/games/watersort/levels"
	"github.com/vovakirdan/watersort/internal/multiplayer"
	"github.com/vovakirdan/watersort/internal/storage"
)

// SessionConfig holds everything a terminal session needs.
type SessionConfig struct {
	Levels     levels.Provider
	Progress   ProgressStore        // Optional
	Rooms      *multiplayer.Manager // Optional; enables online races
	Player     string
	Theme      Theme
	Logger     *log.Logger
	Width      int
	Height     int
	StartLevel int // Non-zero skips the picker
}

type screen int

const (
	screenPicker screen = iota
	screenPlay
	screenLobby
)

// SessionModel manages the session flow: picker -> board or lobby -> picker.
// This is the top-level model for both local and SSH sessions.
type SessionModel struct {
	cfg      SessionConfig
	screen   screen
	picker   PickerModel
	play     PlayModel
	lobby    LobbyModel
	err      string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SessionConfig) SessionModel {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Theme.Liquid == nil {
		cfg.Theme = DefaultTheme()
	}
	m := SessionModel{cfg: cfg}
	m.picker = m.newPicker()
	if cfg.StartLevel > 0 {
		m.startLevel(cfg.StartLevel)
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenPlay {
		return m.play.Init()
	}
	return m.picker.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Width = wsm.Width
		m.cfg.Height = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenLobby:
		return m.updateLobby(msg)
	default:
		return m.updatePicker(msg)
	}
}

func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.picker.Update(msg)
	if p, ok := next.(PickerModel); ok {
		m.picker = p
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	id := m.picker.Chosen()
	if id == 0 {
		return m, cmd
	}
	if m.picker.WantsOnline() && m.cfg.Rooms != nil {
		m.lobby = NewLobbyModel(m.cfg.Rooms, id, m.cfg.Player, m.cfg.Theme, m.cfg.Width, m.cfg.Height)
		m.screen = screenLobby
		return m, m.lobby.Init()
	}
	if !m.startLevel(id) {
		m.picker = m.newPicker()
		return m, nil
	}
	return m, m.play.Init()
}

func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.play.Update(msg)
	if p, ok := next.(PlayModel); ok {
		m.play = p
	}

	switch {
	case m.play.IsQuitting():
		m.leaveRoom()
		m.quitting = true
		return m, tea.Quit
	case m.play.WantsBack():
		m.leaveRoom()
		return m.toPicker()
	case m.play.WantsNext():
		if id, ok := m.nextLevel(m.play.Board().LevelID()); ok && m.startLevel(id) {
			return m, m.play.Init()
		}
		return m.toPicker()
	}
	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.lobby.Update(msg)
	if l, ok := next.(LobbyModel); ok {
		m.lobby = l
	}

	switch {
	case m.lobby.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.lobby.WantsBack():
		return m.toPicker()
	}

	if link, ok := m.lobby.Link(); ok {
		m.play = NewPlayModel(m.lobby.JoinResult().Level, PlayOptions{
			Player: m.cfg.Player,
			Room:   link,
			Theme:  m.cfg.Theme,
			Logger: m.cfg.Logger,
			Width:  m.cfg.Width,
			Height: m.cfg.Height,
		})
		m.screen = screenPlay
		return m, m.play.Init()
	}
	return m, cmd
}

// startLevel loads a level onto the board. It reports false and keeps the
// current screen when the level cannot be loaded.
func (m *SessionModel) startLevel(id int) bool {
	l, err := m.cfg.Levels.Level(id)
	if err != nil {
		m.cfg.Logger.Warn("cannot load level", "level", id, "err", err)
		m.err = err.Error()
		return false
	}
	m.play = NewPlayModel(l, PlayOptions{
		Player:   m.cfg.Player,
		Progress: m.cfg.Progress,
		Theme:    m.cfg.Theme,
		Logger:   m.cfg.Logger,
		Width:    m.cfg.Width,
		Height:   m.cfg.Height,
	})
	m.err = ""
	m.screen = screenPlay
	return true
}

func (m SessionModel) toPicker() (tea.Model, tea.Cmd) {
	m.picker = m.newPicker()
	m.screen = screenPicker
	return m, m.picker.Init()
}

func (m SessionModel) newPicker() PickerModel {
	progress := storage.Progress{Player: m.cfg.Player, LastLevel: 1}
	if m.cfg.Progress != nil && m.cfg.Player != "" {
		if p, err := m.cfg.Progress.LoadProgress(m.cfg.Player); err == nil {
			progress = p
		} else {
			m.cfg.Logger.Warn("cannot load progress", "player", m.cfg.Player, "err", err)
		}
	}
	return NewPickerModel(m.cfg.Levels.IDs(), progress, m.cfg.Rooms != nil, m.cfg.Theme, m.cfg.Width, m.cfg.Height)
}

// nextLevel returns the id after current in catalogue order.
func (m SessionModel) nextLevel(current int) (int, bool) {
	for _, id := range m.cfg.Levels.IDs() {
		if id > current {
			return id, true
		}
	}
	return 0, false
}

func (m *SessionModel) leaveRoom() {
	if m.play.room != nil && m.play.room.Watcher != nil {
		m.cfg.Rooms.Unwatch(m.play.room.Watcher)
	}
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenLobby:
		return m.lobby.View()
	default:
		view := m.picker.View()
		if m.err != "" {
			view += "\n" + centerText(m.cfg.Theme.HUDError.Render(m.err), m.cfg.Width) + "\n"
		}
		return view
	}
}

// Run starts a local session in the alternate screen.
func Run(cfg SessionConfig) error {
	p := tea.NewProgram(NewSessionModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
