package multiplayer

// RoomEvent is published to watchers of a room.
type RoomEvent interface {
	roomEvent()
	Room() RoomView
}

// PlayerJoinedEvent is sent when a seat is taken.
type PlayerJoinedEvent struct {
	View     RoomView
	PlayerID PlayerID
}

func (PlayerJoinedEvent) roomEvent() {}

// Room returns the room snapshot.
func (e PlayerJoinedEvent) Room() RoomView { return e.View }

// ProgressEvent is sent for every accepted progress report.
type ProgressEvent struct {
	View     RoomView
	PlayerID PlayerID
}

func (ProgressEvent) roomEvent() {}

// Room returns the room snapshot.
func (e ProgressEvent) Room() RoomView { return e.View }

// WinnerEvent is sent once, when the first completed report is processed.
type WinnerEvent struct {
	View   RoomView
	Winner PlayerID
}

func (WinnerEvent) roomEvent() {}

// Room returns the room snapshot.
func (e WinnerEvent) Room() RoomView { return e.View }

// RoomExpiredEvent is sent when the room is removed for inactivity.
type RoomExpiredEvent struct {
	View RoomView
}

func (RoomExpiredEvent) roomEvent() {}

// Room returns the room snapshot.
func (e RoomExpiredEvent) Room() RoomView { return e.View }
