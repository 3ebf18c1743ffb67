package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/games/watersort/levels"
	"github.com/vovakirdan/watersort/internal/multiplayer"
	"github.com/vovakirdan/watersort/internal/storage"
)

type fakeProgress struct {
	mu    sync.Mutex
	calls []storage.Progress
	last  map[string]int
	best  map[int]int
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{last: map[string]int{}, best: map[int]int{}}
}

func (f *fakeProgress) LoadProgress(player string) (storage.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	last := f.last[player]
	if last == 0 {
		last = 1
	}
	best := make(map[int]int, len(f.best))
	for k, v := range f.best {
		best[k] = v
	}
	return storage.Progress{Player: player, LastLevel: last, BestMoves: best}, nil
}

func (f *fakeProgress) CompleteLevel(player string, levelID, moves int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, storage.Progress{Player: player, LastLevel: levelID, BestMoves: map[int]int{levelID: moves}})
	f.last[player] = levelID + 1
	f.best[levelID] = moves
	return nil
}

func keys(s ...string) []tea.Msg {
	msgs := make([]tea.Msg, len(s))
	for i, k := range s {
		switch k {
		case "enter":
			msgs[i] = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msgs[i] = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msgs[i] = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msgs[i] = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
	}
	return msgs
}

func updatePlay(t *testing.T, m PlayModel, msgs ...tea.Msg) PlayModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		pm, ok := next.(PlayModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = pm
	}
	return m
}

func TestPlayModelSolveSavesProgressOnce(t *testing.T) {
	progress := newFakeProgress()
	m := NewPlayModel(smallLevel(), PlayOptions{Player: "alice", Progress: progress, Theme: DefaultTheme(), Width: 80})

	// Digit keys pick and pour: 1->3, 2->1, 2->3.
	m = updatePlay(t, m, keys("1", "3", "2", "1", "2", "3")...)

	if !m.Board().Solved() {
		t.Fatalf("level should be solved, state %v", m.Board().State().Bottles)
	}
	if len(progress.calls) != 1 {
		t.Fatalf("expected 1 progress save, got %d", len(progress.calls))
	}
	if got := progress.calls[0]; got.Player != "alice" || got.BestMoves[1] != 3 {
		t.Errorf("saved %+v, want alice level 1 in 3 moves", got)
	}
	if !strings.Contains(m.View(), "Solved in 3 moves") {
		t.Errorf("view should announce the solve")
	}

	m = updatePlay(t, m, keys("n")...)
	if !m.WantsNext() {
		t.Errorf("n on a solved board should request the next level")
	}
	if len(progress.calls) != 1 {
		t.Errorf("progress saved again")
	}
}

func TestPlayModelIllegalMoveMessage(t *testing.T) {
	tests := []struct {
		name   string
		level  core.Level
		reason string
	}{
		{"color clash", clashLevel(), core.ReasonColorClash},
		{"destination full", smallLevel(), core.ReasonDestFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPlayModel(tt.level, PlayOptions{Theme: DefaultTheme()})

			m = updatePlay(t, m, keys("1", "2")...)
			if m.Board().Moves() != 0 {
				t.Errorf("illegal pour should not count")
			}
			if !m.isError || !strings.Contains(m.message, tt.reason) {
				t.Errorf("message = %q, want %q", m.message, tt.reason)
			}
		})
	}
}

func TestPlayModelNavigationKeys(t *testing.T) {
	m := NewPlayModel(smallLevel(), PlayOptions{Theme: DefaultTheme()})

	m = updatePlay(t, m, keys("l", "l", " ")...)
	if m.Board().Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", m.Board().Cursor())
	}
	if m.Board().Selected() != -1 {
		t.Errorf("picking the empty bottle should not select it")
	}

	m = updatePlay(t, m, keys("h", "h", " ", "l", "l", "enter")...)
	if m.Board().Moves() != 1 {
		t.Errorf("expected a pour, got %d moves", m.Board().Moves())
	}

	m = updatePlay(t, m, keys("u")...)
	if m.Board().Moves() != 0 {
		t.Errorf("undo failed")
	}

	m = updatePlay(t, m, keys("?")...)
	if _, ok := m.Board().Hint(); !ok {
		t.Errorf("hint missing")
	}

	m = updatePlay(t, m, keys("esc")...)
	if !m.WantsBack() {
		t.Errorf("esc should leave the board")
	}
}

func TestPlayModelQuit(t *testing.T) {
	m := NewPlayModel(smallLevel(), PlayOptions{Theme: DefaultTheme()})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(PlayModel).IsQuitting() {
		t.Errorf("ctrl+c should quit")
	}
	if cmd == nil {
		t.Errorf("quit should return a command")
	}
	if next.View() != "" {
		t.Errorf("quitting model should render nothing")
	}
}

func TestPlayModelRace(t *testing.T) {
	catalogue := levels.NewCatalogue([]core.Level{smallLevel()})
	rooms := multiplayer.NewManager(multiplayer.DefaultManagerConfig(), catalogue, nil, nil)

	alice, err := rooms.Create(1, "alice")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := rooms.Join(alice.Room.ID, "bob")
	if err != nil {
		t.Fatal(err)
	}
	w, err := rooms.Watch(alice.Room.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer rooms.Unwatch(w)

	link := &RoomLink{Rooms: rooms, RoomID: alice.Room.ID, PlayerID: alice.PlayerID, Watcher: w, View: bob.Room}
	progress := newFakeProgress()
	m := NewPlayModel(alice.Level, PlayOptions{Player: "alice", Progress: progress, Room: link, Theme: DefaultTheme()})

	m = updatePlay(t, m, keys("u", "1", "3")...)
	if m.Board().Moves() != 1 {
		t.Fatalf("expected one move, got %d", m.Board().Moves())
	}
	view, err := rooms.Get(alice.Room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := view.Player(alice.PlayerID); p.Moves != 1 {
		t.Errorf("room saw %d moves, want 1", p.Moves)
	}

	m = updatePlay(t, m, keys("2", "1", "2", "3")...)
	if !m.Board().Solved() {
		t.Fatal("board should be solved")
	}
	view, _ = rooms.Get(alice.Room.ID)
	if view.Winner != alice.PlayerID {
		t.Errorf("winner = %q, want alice", view.Winner)
	}
	if m.room.View.Winner != alice.PlayerID {
		t.Errorf("model view not updated with winner")
	}
	if len(progress.calls) != 0 {
		t.Errorf("races must not record single-player progress")
	}

	m = updatePlay(t, m, roomEventMsg{evt: multiplayer.WinnerEvent{View: view, Winner: bob.PlayerID}})
	if !m.isError {
		t.Errorf("losing the race should be flagged")
	}
	if !strings.Contains(m.View(), "ROOM "+string(alice.Room.ID)) {
		t.Errorf("view should show the room")
	}
}

func TestDigitIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 0, true},
		{"9", 8, true},
		{"0", 0, false},
		{"a", 0, false},
		{"12", 0, false},
	}
	for _, tt := range tests {
		got, ok := digitIndex(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("digitIndex(%q) = %d, %v", tt.in, got, ok)
		}
	}
}

func TestWaitForRoomEventDeliversExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := multiplayer.DefaultManagerConfig()
	cfg.RoomTTL = time.Minute
	cfg.Clock = func() time.Time { return now }
	rooms := multiplayer.NewManager(cfg, levels.NewCatalogue([]core.Level{smallLevel()}), nil, nil)

	res, err := rooms.Create(1, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w, err := rooms.Watch(res.Room.ID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer rooms.Unwatch(w)

	now = now.Add(2 * time.Minute)
	if n := rooms.CleanupExpired(); n != 1 {
		t.Fatalf("expired %d rooms, want 1", n)
	}

	msg, ok := waitForRoomEvent(w)().(roomEventMsg)
	if !ok {
		t.Fatalf("expected the buffered expiry event first")
	}
	if _, ok := msg.evt.(multiplayer.RoomExpiredEvent); !ok {
		t.Errorf("event = %T, want RoomExpiredEvent", msg.evt)
	}
	if _, ok := waitForRoomEvent(w)().(roomClosedMsg); !ok {
		t.Errorf("expected roomClosedMsg once the buffer is empty")
	}
}
