package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// player is a seat in a room.
type player struct {
	id          PlayerID
	name        string
	moves       int
	completed   bool
	completedAt time.Time
	level       core.Level // independent working copy
}

func (p *player) view() PlayerView {
	v := PlayerView{ID: p.id, Name: p.name, Moves: p.moves, Completed: p.completed}
	if p.completed {
		at := p.completedAt
		v.CompletedAt = &at
	}
	return v
}

// Room holds the state of one race. All fields are guarded by mu, which is
// the only serialization point for deciding the winner.
type Room struct {
	id       RoomID
	levelID  int
	template core.Level

	mu        sync.Mutex
	state     RoomState
	players   []*player
	winner    PlayerID
	createdAt time.Time
	updatedAt time.Time
}

func newRoom(id RoomID, template core.Level, now time.Time) *Room {
	return &Room{
		id:        id,
		levelID:   template.ID,
		template:  template,
		state:     RoomWaiting,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the room id.
func (r *Room) ID() RoomID {
	return r.id
}

// LevelID returns the level raced in this room.
func (r *Room) LevelID() int {
	return r.levelID
}

// View returns a snapshot of the room.
func (r *Room) View() RoomView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *Room) viewLocked() RoomView {
	v := RoomView{
		ID:        r.id,
		LevelID:   r.levelID,
		State:     r.state,
		Players:   make([]PlayerView, len(r.players)),
		Winner:    r.winner,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
	for i, p := range r.players {
		v.Players[i] = p.view()
	}
	return v
}

// seat adds a player with a fresh copy of the level.
func (r *Room) seat(id PlayerID, name string, now time.Time) (core.Level, RoomView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == RoomFinished {
		return core.Level{}, RoomView{}, ErrRoomClosed
	}
	if len(r.players) >= MaxPlayers {
		return core.Level{}, RoomView{}, ErrRoomFull
	}

	p := &player{id: id, name: name, level: r.template.Clone()}
	r.players = append(r.players, p)
	if len(r.players) == MaxPlayers {
		r.state = RoomPlaying
	}
	r.updatedAt = now
	return p.level.Clone(), r.viewLocked(), nil
}

// joinable reports whether the room is waiting for a second player.
func (r *Room) joinable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == RoomWaiting && len(r.players) < MaxPlayers
}

// report records one player's progress.
// won is true only for the report that declared the winner.
func (r *Room) report(id PlayerID, moves int, completed bool, now time.Time) (view RoomView, won bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var p *player
	for _, candidate := range r.players {
		if candidate.id == id {
			p = candidate
			break
		}
	}
	if p == nil {
		return RoomView{}, false, &PlayerNotFoundError{RoomID: r.id, PlayerID: id}
	}

	p.moves = moves
	if completed && !p.completed {
		p.completed = true
		p.completedAt = now
	}
	if completed && r.winner == "" {
		r.winner = id
		r.state = RoomFinished
		won = true
	}
	r.updatedAt = now
	return r.viewLocked(), won, nil
}

// idleSince returns the time of the last join or report.
func (r *Room) idleSince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updatedAt
}
