package multiplayer

import (
	"errors"
	"fmt"
)

// ErrRoomFull is returned when joining a room whose seats are taken.
var ErrRoomFull = errors.New("room is full")

// ErrRoomClosed is returned when joining a room that already has a winner.
var ErrRoomClosed = errors.New("room is finished")

// RoomNotFoundError reports an unknown or expired room.
type RoomNotFoundError struct {
	RoomID RoomID
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("room %s not found", e.RoomID)
}

// PlayerNotFoundError reports a player that is not seated in the room.
type PlayerNotFoundError struct {
	RoomID   RoomID
	PlayerID PlayerID
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player %s not found in room %s", e.PlayerID, e.RoomID)
}
