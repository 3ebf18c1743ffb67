package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// LevelSource provides template levels by id.
type LevelSource interface {
	Level(id int) (core.Level, error)
}

// ManagerConfig holds configuration for the room manager.
type ManagerConfig struct {
	RoomTTL       time.Duration    // Inactivity after which a room is removed
	CleanupPeriod time.Duration    // How often to look for expired rooms
	WatchBuffer   int              // Events buffered per watcher
	Clock         func() time.Time // Defaults to time.Now
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		RoomTTL:       30 * time.Minute,
		CleanupPeriod: time.Minute,
		WatchBuffer:   16,
		Clock:         time.Now,
	}
}

// ResultSaver persists finished rooms.
// This allows the manager to save results without depending on the storage package.
type ResultSaver interface {
	SaveRoomResult(result RoomResult) error
}

// RoomResult contains a finished room for persistence.
type RoomResult struct {
	RoomID       RoomID
	LevelID      int
	WinnerID     PlayerID
	WinnerName   string
	WinnerMoves  int
	Players      []PlayerView
	DurationSecs int
	FinishedAt   time.Time
}

// JoinResult is returned to a player taking a seat.
// Level is the caller's own copy; other players' copies are never exposed.
type JoinResult struct {
	PlayerID PlayerID
	Room     RoomView
	Level    core.Level
}

// Manager owns the room registry and its lifecycle.
type Manager struct {
	config      ManagerConfig
	levels      LevelSource
	store       Store
	resultSaver ResultSaver // Optional, can be nil
	logger      *log.Logger
	watchers    *watchers

	observersMu sync.RWMutex
	observers   []func(RoomEvent)

	// matchmaking serializes room creation and join-or-create lookups
	matchmaking sync.Mutex

	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a room manager. A nil store selects a MemoryStore and a
// nil logger discards output.
func NewManager(cfg ManagerConfig, levels LevelSource, store Store, logger *log.Logger) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = time.Minute
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		config:   cfg,
		levels:   levels,
		store:    store,
		logger:   logger,
		watchers: newWatchers(),
		done:     make(chan struct{}),
	}
}

// SetResultSaver sets the optional result saver.
func (m *Manager) SetResultSaver(saver ResultSaver) {
	m.resultSaver = saver
}

// Observe registers fn to receive every event of every room.
// fn runs synchronously and must not call back into the manager.
func (m *Manager) Observe(fn func(RoomEvent)) {
	m.observersMu.Lock()
	defer m.observersMu.Unlock()
	m.observers = append(m.observers, fn)
}

// publish delivers an event to room watchers and global observers.
func (m *Manager) publish(id RoomID, evt RoomEvent) {
	m.watchers.publish(id, evt)

	m.observersMu.RLock()
	defer m.observersMu.RUnlock()
	for _, fn := range m.observers {
		fn(evt)
	}
}

// Start begins expiry of idle rooms.
func (m *Manager) Start() {
	go m.cleanupLoop()
}

// Stop shuts down the manager. Safe to call multiple times.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}

// Create opens a new room for levelID with the caller in the first seat.
func (m *Manager) Create(levelID int, name string) (JoinResult, error) {
	m.matchmaking.Lock()
	defer m.matchmaking.Unlock()

	return m.createLocked(levelID, name)
}

// Join seats the caller in an existing room.
func (m *Manager) Join(id RoomID, name string) (JoinResult, error) {
	room, ok := m.store.Get(normalizeID(id))
	if !ok {
		return JoinResult{}, &RoomNotFoundError{RoomID: id}
	}
	return m.seat(room, name)
}

// JoinOrCreate joins roomID when it is given and still waiting, otherwise the
// oldest waiting room for levelID, otherwise a new room.
func (m *Manager) JoinOrCreate(levelID int, name string, id RoomID) (JoinResult, error) {
	m.matchmaking.Lock()
	defer m.matchmaking.Unlock()

	if id != "" {
		if room, ok := m.store.Get(normalizeID(id)); ok && room.LevelID() == levelID && room.joinable() {
			return m.seat(room, name)
		}
	}

	var oldest *Room
	for _, room := range m.store.List() {
		if room.LevelID() != levelID || !room.joinable() {
			continue
		}
		if oldest == nil || room.createdAt.Before(oldest.createdAt) {
			oldest = room
		}
	}
	if oldest != nil {
		res, err := m.seat(oldest, name)
		if err == nil {
			return res, nil
		}
		// Lost the seat to a direct Join; fall through and create.
	}

	return m.createLocked(levelID, name)
}

// Report records the caller's move count and completion.
// The first completed report processed for a room wins; later reports update
// only the caller's record and never change the winner.
func (m *Manager) Report(id RoomID, playerID PlayerID, moves int, completed bool) (RoomView, error) {
	room, ok := m.store.Get(normalizeID(id))
	if !ok {
		return RoomView{}, &RoomNotFoundError{RoomID: id}
	}

	view, won, err := room.report(playerID, moves, completed, m.config.Clock())
	if err != nil {
		return RoomView{}, err
	}

	m.publish(room.ID(), ProgressEvent{View: view, PlayerID: playerID})
	if won {
		m.logger.Info("room finished", "room", room.ID(), "level", room.LevelID(), "winner", playerID, "moves", moves)
		m.publish(room.ID(), WinnerEvent{View: view, Winner: playerID})
		m.saveResult(view)
	}
	return view, nil
}

// Get returns a snapshot of a room.
func (m *Manager) Get(id RoomID) (RoomView, error) {
	room, ok := m.store.Get(normalizeID(id))
	if !ok {
		return RoomView{}, &RoomNotFoundError{RoomID: id}
	}
	return room.View(), nil
}

// List returns snapshots of all rooms.
func (m *Manager) List() []RoomView {
	rooms := m.store.List()
	views := make([]RoomView, len(rooms))
	for i, r := range rooms {
		views[i] = r.View()
	}
	return views
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	return len(m.store.List())
}

// Watch subscribes to events of a room. Call Unwatch when done.
func (m *Manager) Watch(id RoomID) (*Watcher, error) {
	room, ok := m.store.Get(normalizeID(id))
	if !ok {
		return nil, &RoomNotFoundError{RoomID: id}
	}
	w := newWatcher(room.ID(), m.config.WatchBuffer)
	m.watchers.add(w)
	return w, nil
}

// Unwatch closes a watcher and stops delivery to it.
func (m *Manager) Unwatch(w *Watcher) {
	m.watchers.remove(w)
	w.Close()
}

// CleanupExpired removes rooms idle for longer than the TTL and returns how
// many were removed. A zero TTL disables expiry.
func (m *Manager) CleanupExpired() int {
	if m.config.RoomTTL <= 0 {
		return 0
	}

	now := m.config.Clock()
	removed := 0
	for _, room := range m.store.List() {
		if now.Sub(room.idleSince()) <= m.config.RoomTTL {
			continue
		}
		view := room.View()
		m.store.Delete(room.ID())
		m.publish(room.ID(), RoomExpiredEvent{View: view})
		m.watchers.closeRoom(room.ID())
		m.logger.Debug("room expired", "room", room.ID(), "state", view.State)
		removed++
	}
	return removed
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupExpired()
		case <-m.done:
			return
		}
	}
}

// createLocked must be called with matchmaking held.
func (m *Manager) createLocked(levelID int, name string) (JoinResult, error) {
	template, err := m.levels.Level(levelID)
	if err != nil {
		return JoinResult{}, fmt.Errorf("multiplayer: level %d: %w", levelID, err)
	}

	room := newRoom(m.generateUniqueID(), template, m.config.Clock())
	res, err := m.seat(room, name)
	if err != nil {
		return JoinResult{}, err
	}
	m.store.Put(room)
	m.logger.Info("room created", "room", room.ID(), "level", levelID, "player", res.PlayerID)
	return res, nil
}

func (m *Manager) seat(room *Room, name string) (JoinResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Player"
	}

	id := PlayerID(uuid.NewString())
	level, view, err := room.seat(id, name, m.config.Clock())
	if err != nil {
		return JoinResult{}, err
	}

	m.publish(room.ID(), PlayerJoinedEvent{View: view, PlayerID: id})
	if view.State == RoomPlaying {
		m.logger.Info("room started", "room", room.ID(), "level", room.LevelID())
	}
	return JoinResult{PlayerID: id, Room: view, Level: level}, nil
}

func (m *Manager) saveResult(view RoomView) {
	if m.resultSaver == nil {
		return
	}

	winner, _ := view.Player(view.Winner)
	finished := m.config.Clock()
	result := RoomResult{
		RoomID:       view.ID,
		LevelID:      view.LevelID,
		WinnerID:     winner.ID,
		WinnerName:   winner.Name,
		WinnerMoves:  winner.Moves,
		Players:      view.Players,
		DurationSecs: int(finished.Sub(view.CreatedAt).Seconds()),
		FinishedAt:   finished,
	}
	if err := m.resultSaver.SaveRoomResult(result); err != nil {
		m.logger.Error("failed to save room result", "room", view.ID, "err", err)
	}
}

func (m *Manager) generateUniqueID() RoomID {
	for {
		id := RoomID(generateJoinCode())
		if _, exists := m.store.Get(id); !exists {
			return id
		}
	}
}

func normalizeID(id RoomID) RoomID {
	return RoomID(strings.ToUpper(strings.TrimSpace(string(id))))
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	_, err := rand.Read(b)
	if err != nil {
		// Fallback to timestamp-based
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}
