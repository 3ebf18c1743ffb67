package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/games/watersort/levels"
	"github.com/vovakirdan/watersort/internal/multiplayer"
	"github.com/vovakirdan/watersort/internal/storage"
)

func twoLevels() *levels.Catalogue {
	second := smallLevel()
	second.ID = 2
	return levels.NewCatalogue([]core.Level{smallLevel(), second})
}

func updateSession(t *testing.T, m SessionModel, msgs ...tea.Msg) SessionModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		sm, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = sm
	}
	return m
}

func TestSessionPickerToBoardAndBack(t *testing.T) {
	progress := newFakeProgress()
	m := NewSessionModel(SessionConfig{Levels: twoLevels(), Progress: progress, Player: "alice", Width: 80, Height: 30})
	if m.screen != screenPicker {
		t.Fatalf("session should start on the picker")
	}

	m = updateSession(t, m, keys("enter")...)
	if m.screen != screenPlay || m.play.Board().LevelID() != 1 {
		t.Fatalf("enter should open level 1, screen %d", m.screen)
	}

	m = updateSession(t, m, keys("1", "3", "2", "1", "2", "3", "n")...)
	if m.screen != screenPlay || m.play.Board().LevelID() != 2 {
		t.Fatalf("n should advance to level 2")
	}

	m = updateSession(t, m, keys("esc")...)
	if m.screen != screenPicker {
		t.Fatalf("esc should return to the picker")
	}
	if m.picker.resumeLevel() != 2 {
		t.Errorf("resume level = %d, want 2", m.picker.resumeLevel())
	}

	m = updateSession(t, m, keys("c")...)
	if m.screen != screenPlay || m.play.Board().LevelID() != 2 {
		t.Errorf("continue should open level 2")
	}
}

func TestSessionStartLevel(t *testing.T) {
	m := NewSessionModel(SessionConfig{Levels: twoLevels(), StartLevel: 2})
	if m.screen != screenPlay || m.play.Board().LevelID() != 2 {
		t.Fatalf("StartLevel should open the board directly")
	}

	m = NewSessionModel(SessionConfig{Levels: twoLevels(), StartLevel: 9})
	if m.screen != screenPicker || m.err == "" {
		t.Errorf("unknown start level should stay on the picker with an error")
	}
}

func TestSessionLastLevelNextReturnsToPicker(t *testing.T) {
	m := NewSessionModel(SessionConfig{Levels: twoLevels(), StartLevel: 2})
	m = updateSession(t, m, keys("1", "3", "2", "1", "2", "3", "n")...)
	if m.screen != screenPicker {
		t.Errorf("next after the last level should return to the picker")
	}
}

func TestSessionOnlineRace(t *testing.T) {
	catalogue := twoLevels()
	rooms := multiplayer.NewManager(multiplayer.DefaultManagerConfig(), catalogue, nil, nil)

	host := NewSessionModel(SessionConfig{Levels: catalogue, Rooms: rooms, Player: "alice"})
	host = updateSession(t, host, keys("o")...)
	if host.screen != screenLobby {
		t.Fatalf("o should open the lobby")
	}
	host = updateSession(t, host, keys("h")...)
	if host.lobby.State() != LobbyWaiting {
		t.Fatalf("hosting should wait for an opponent, state %d", host.lobby.State())
	}
	code := host.lobby.JoinResult().Room.ID

	guest := NewSessionModel(SessionConfig{Levels: catalogue, Rooms: rooms, Player: "bob"})
	guest = updateSession(t, guest, keys("o", "j")...)
	guest = updateSession(t, guest, keys(string(code))...)
	guest = updateSession(t, guest, keys("enter")...)
	if guest.screen != screenPlay || guest.play.room == nil {
		t.Fatalf("joining should start the race, screen %d", guest.screen)
	}

	view, err := rooms.Get(code)
	if err != nil {
		t.Fatal(err)
	}
	host = updateSession(t, host, roomEventMsg{evt: multiplayer.PlayerJoinedEvent{View: view}})
	if host.screen != screenPlay {
		t.Errorf("host should start once the opponent joins")
	}

	guest = updateSession(t, guest, keys("esc")...)
	if guest.screen != screenPicker {
		t.Errorf("esc should leave the race")
	}
}

func TestPickerEmptyCatalogue(t *testing.T) {
	m := NewPickerModel(nil, storage.Progress{LastLevel: 1}, false, DefaultTheme(), 80, 24)
	next, _ := m.Update(keys("enter")[0])
	if next.(PickerModel).Chosen() != 0 {
		t.Errorf("empty picker should not choose a level")
	}
}
