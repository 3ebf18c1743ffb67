package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/watersort/internal/multiplayer"
)

// LobbyState represents the current step of the online flow.
type LobbyState int

const (
	LobbyChoose    LobbyState = iota // Choose quick match, host or join
	LobbyEnterCode                   // Typing a join code
	LobbyWaiting                     // Seated, waiting for an opponent
	LobbyReady                       // Both seats taken, race can start
)

// LobbyModel handles matchmaking for a two-player race on one level.
type LobbyModel struct {
	rooms   *multiplayer.Manager
	levelID int
	player  string
	keys    LobbyKeyMap
	help    help.Model
	input   textinput.Model
	theme   Theme
	width   int
	height  int

	state   LobbyState
	joined  multiplayer.JoinResult
	watcher *multiplayer.Watcher
	err     string

	back     bool
	quitting bool
}

// NewLobbyModel creates a lobby for levelID.
func NewLobbyModel(rooms *multiplayer.Manager, levelID int, player string, theme Theme, width, height int) LobbyModel {
	ti := textinput.New()
	ti.Placeholder = "ROOM CODE"
	ti.CharLimit = 6
	ti.Width = 8

	return LobbyModel{
		rooms:   rooms,
		levelID: levelID,
		player:  player,
		keys:    DefaultLobbyKeyMap(),
		help:    help.New(),
		input:   ti,
		theme:   theme,
		width:   width,
		height:  height,
		state:   LobbyChoose,
	}
}

// Init initializes the lobby.
func (m LobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case roomEventMsg:
		if m.state != LobbyWaiting {
			return m, nil
		}
		m.joined.Room = msg.evt.Room()
		if len(m.joined.Room.Players) >= multiplayer.MaxPlayers {
			m.state = LobbyReady
			return m, nil
		}
		return m, waitForRoomEvent(m.watcher)
	case roomClosedMsg:
		if m.state == LobbyWaiting {
			m.err = "room expired"
			m.state = LobbyChoose
			m.watcher = nil
		}
		return m, nil
	}

	if m.state == LobbyEnterCode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m LobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case LobbyChoose:
		switch {
		case key.Matches(msg, m.keys.Quick):
			res, err := m.rooms.JoinOrCreate(m.levelID, m.player, "")
			return m.seated(res, err)
		case key.Matches(msg, m.keys.Host):
			res, err := m.rooms.Create(m.levelID, m.player)
			return m.seated(res, err)
		case key.Matches(msg, m.keys.Join):
			m.state = LobbyEnterCode
			m.err = ""
			m.input.SetValue("")
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Back), msg.String() == "q":
			m.back = true
			return m, nil
		}

	case LobbyEnterCode:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.input.Blur()
			m.state = LobbyChoose
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			code := strings.ToUpper(strings.TrimSpace(m.input.Value()))
			if code == "" {
				return m, nil
			}
			res, err := m.rooms.Join(multiplayer.RoomID(code), m.player)
			if err == nil {
				m.input.Blur()
			}
			return m.seated(res, err)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case LobbyWaiting:
		if key.Matches(msg, m.keys.Back) {
			m.leave()
			m.state = LobbyChoose
			return m, nil
		}
	}

	return m, nil
}

// seated subscribes to the room the player just entered.
func (m LobbyModel) seated(res multiplayer.JoinResult, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err.Error()
		return m, nil
	}

	w, err := m.rooms.Watch(res.Room.ID)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.joined = res
	m.watcher = w
	m.err = ""

	// The opponent may have joined before the watcher was registered.
	if view, err := m.rooms.Get(res.Room.ID); err == nil {
		m.joined.Room = view
	}
	if len(m.joined.Room.Players) >= multiplayer.MaxPlayers {
		m.state = LobbyReady
		return m, nil
	}
	m.state = LobbyWaiting
	return m, waitForRoomEvent(w)
}

// leave drops the room subscription.
func (m *LobbyModel) leave() {
	if m.watcher != nil {
		m.rooms.Unwatch(m.watcher)
		m.watcher = nil
	}
}

// View renders the current step.
func (m LobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("O N L I N E   R A C E"), m.width))
	b.WriteString("\n\n")

	line := func(s string) {
		b.WriteString(centerText(s, m.width))
		b.WriteString("\n")
	}

	switch m.state {
	case LobbyChoose:
		line(m.theme.MenuDescription.Render("Level " + strconv.Itoa(m.levelID)))
		b.WriteString("\n")
		line(m.theme.MenuItemNormal.Render("[M] Quick match"))
		line(m.theme.MenuItemNormal.Render("[H] Host a room"))
		line(m.theme.MenuItemNormal.Render("[J] Join by code"))
	case LobbyEnterCode:
		line(m.theme.MenuDescription.Render("Enter the room code:"))
		b.WriteString("\n")
		line(m.input.View())
	case LobbyWaiting:
		line(m.theme.MenuDescription.Render("Share this code with your opponent:"))
		b.WriteString("\n")
		line(m.theme.OverlayTitle.Render(string(m.joined.Room.ID)))
		b.WriteString("\n")
		line(m.theme.HUDControls.Render("Waiting for opponent..."))
	case LobbyReady:
		line(m.theme.HUDSuccess.Render("Opponent found. Go!"))
	}

	if m.err != "" {
		b.WriteString("\n")
		line(m.theme.HUDError.Render(m.err))
	}

	b.WriteString("\n")
	line(m.help.View(m.keys))
	return b.String()
}

// State returns the current step.
func (m LobbyModel) State() LobbyState { return m.state }

// Link returns the room connection once the lobby is ready.
func (m LobbyModel) Link() (*RoomLink, bool) {
	if m.state != LobbyReady {
		return nil, false
	}
	return &RoomLink{
		Rooms:    m.rooms,
		RoomID:   m.joined.Room.ID,
		PlayerID: m.joined.PlayerID,
		Watcher:  m.watcher,
		View:     m.joined.Room,
	}, true
}

// JoinResult returns the seat taken in the room.
func (m LobbyModel) JoinResult() multiplayer.JoinResult { return m.joined }

// WantsBack reports whether the player left the lobby.
func (m LobbyModel) WantsBack() bool { return m.back }

// IsQuitting reports whether the player quit.
func (m LobbyModel) IsQuitting() bool { return m.quitting }
