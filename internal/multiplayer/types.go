// Package multiplayer provides room state for head-to-head races on the same
// level. Each player solves an independent copy; the first completed report
// wins.
package multiplayer

import (
	"fmt"
	"time"
)

// RoomID is a short join code identifying a room.
type RoomID string

// PlayerID uniquely identifies a player within the service.
type PlayerID string

// MaxPlayers is the number of seats in a room.
const MaxPlayers = 2

// RoomState is the lifecycle stage of a room.
type RoomState int

const (
	// RoomWaiting has one player and accepts a second.
	RoomWaiting RoomState = iota

	// RoomPlaying has both players racing.
	RoomPlaying

	// RoomFinished has a winner. The winner never changes afterwards.
	RoomFinished
)

// String returns the wire name of the state.
func (s RoomState) String() string {
	switch s {
	case RoomWaiting:
		return "waiting"
	case RoomPlaying:
		return "playing"
	case RoomFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state as its wire name.
func (s RoomState) MarshalText() ([]byte, error) {
	if s < RoomWaiting || s > RoomFinished {
		return nil, fmt.Errorf("invalid room state %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a wire name.
func (s *RoomState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "waiting":
		*s = RoomWaiting
	case "playing":
		*s = RoomPlaying
	case "finished":
		*s = RoomFinished
	default:
		return fmt.Errorf("unknown room state %q", b)
	}
	return nil
}

// PlayerView is the public part of a player's record.
type PlayerView struct {
	ID          PlayerID   `json:"id"`
	Name        string     `json:"name"`
	Moves       int        `json:"moves"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RoomView is a snapshot of a room safe to hand to any client.
// It never carries bottle contents.
type RoomView struct {
	ID        RoomID       `json:"room_id"`
	LevelID   int          `json:"level_id"`
	State     RoomState    `json:"state"`
	Players   []PlayerView `json:"players"`
	Winner    PlayerID     `json:"winner,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Player returns the view of one player.
func (v RoomView) Player(id PlayerID) (PlayerView, bool) {
	for _, p := range v.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}
