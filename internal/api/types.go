package api

import (
	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/games/watersort/levels/formats"
	"github.com/vovakirdan/watersort/internal/multiplayer"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`
}

// IllegalMoveResponse is returned with 422 when a pour is rejected.
type IllegalMoveResponse struct {
	ErrorResponse
	From   int    `json:"from"`
	To     int    `json:"to"`
	Reason string `json:"reason"`
}

// Error codes returned by the API.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidState   = "INVALID_STATE"
	CodeIllegalMove    = "ILLEGAL_MOVE"
	CodeInvalidTier    = "INVALID_TIER"
	CodeUnverified     = "UNVERIFIED"
	CodeLevelNotFound  = "LEVEL_NOT_FOUND"
	CodeRoomNotFound   = "ROOM_NOT_FOUND"
	CodePlayerNotFound = "PLAYER_NOT_FOUND"
	CodeRoomFull       = "ROOM_FULL"
	CodeRoomClosed     = "ROOM_CLOSED"
	CodeInternal       = "INTERNAL"
	CodeRateLimited    = "RATE_LIMITED"
)

// StateRequest carries a board: bottles of colour tokens, bottom first.
type StateRequest struct {
	Bottles  [][]string `json:"bottles" binding:"required"`
	Capacity int        `json:"capacity"` // 0 selects the default capacity
}

// level converts the board into a validated state.
func (r StateRequest) level() (core.Level, error) {
	l, err := formats.Record{Bottles: r.Bottles, Capacity: r.Capacity}.ToLevel()
	if err != nil {
		return core.Level{}, err
	}
	if err := core.ValidateState(l); err != nil {
		return core.Level{}, err
	}
	return l, nil
}

// PourRequest asks for one pour on a board.
type PourRequest struct {
	StateRequest
	From int `json:"from"`
	To   int `json:"to"`
}

// PourResponse is the board after a legal pour.
type PourResponse struct {
	Bottles    [][]string `json:"bottles"`
	MovedUnits int        `json:"moved_units"`
	Solved     bool       `json:"solved"`
}

// SolveRequest asks the greedy solver to play a board.
type SolveRequest struct {
	StateRequest
	Budget int `json:"budget"` // 0 selects the configured budget
}

// SolveResponse is the solver outcome. Solved false does not mean the board
// is unsolvable.
type SolveResponse struct {
	Moves      []core.Move `json:"moves"`
	Solved     bool        `json:"solved"`
	Iterations int         `json:"iterations"`
}

// HintResponse is the move the solver would play first.
type HintResponse struct {
	Move *core.Move `json:"move,omitempty"`
	Ok   bool       `json:"ok"`
}

// GenerateRequest asks for a level to be generated.
type GenerateRequest struct {
	LevelID int    `json:"level_id" binding:"required"`
	Seed    uint64 `json:"seed"`
}

// CreateRoomRequest opens a room.
type CreateRoomRequest struct {
	LevelID    int    `json:"level_id" binding:"required"`
	PlayerName string `json:"player_name"`
}

// JoinRoomRequest takes the second seat of a room.
type JoinRoomRequest struct {
	PlayerName string `json:"player_name"`
}

// MatchmakeRequest joins a waiting room for the level or opens one.
type MatchmakeRequest struct {
	LevelID    int    `json:"level_id" binding:"required"`
	PlayerName string `json:"player_name"`
	RoomID     string `json:"room_id"`
}

// ReportRequest records the caller's progress in a room.
type ReportRequest struct {
	PlayerID  string `json:"player_id" binding:"required"`
	Moves     int    `json:"moves"`
	Completed bool   `json:"completed"`
}

// JoinResponse is returned to a player taking a seat.
// Level is the caller's own copy.
type JoinResponse struct {
	PlayerID multiplayer.PlayerID `json:"player_id"`
	Room     multiplayer.RoomView `json:"room"`
	Level    formats.Record       `json:"level"`
}

// CompleteLevelRequest records a finished single-player level.
type CompleteLevelRequest struct {
	Player  string `json:"player" binding:"required"`
	LevelID int    `json:"level_id" binding:"required"`
	Moves   int    `json:"moves"`
}

// HealthResponse reports service status.
type HealthResponse struct {
	Status string `json:"status"`
	Levels int    `json:"levels"`
	Rooms  int    `json:"rooms"`
}

func tokens(l core.Level) [][]string {
	return formats.FromLevel(l).Bottles
}
