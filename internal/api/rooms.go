package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/watersort/internal/games/watersort/levels/formats"
	"github.com/vovakirdan/watersort/internal/multiplayer"
)

// HandleListRooms handles GET /multiplayer/rooms.
func (h *Handlers) HandleListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Rooms.List())
}

// HandleCreateRoom handles POST /multiplayer/rooms.
//
// Response:
//
//	201 Created: JoinResponse with the creator's seat
//	404 Not Found: unknown level
func (h *Handlers) HandleCreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.deps.Rooms.Create(req.LevelID, req.PlayerName)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, joinResponse(res))
}

// HandleMatchmake handles POST /multiplayer/join.
func (h *Handlers) HandleMatchmake(c *gin.Context) {
	var req MatchmakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.deps.Rooms.JoinOrCreate(req.LevelID, req.PlayerName, multiplayer.RoomID(req.RoomID))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, joinResponse(res))
}

// HandleGetRoom handles GET /multiplayer/rooms/:id.
func (h *Handlers) HandleGetRoom(c *gin.Context) {
	view, err := h.deps.Rooms.Get(multiplayer.RoomID(c.Param("id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleJoinRoom handles POST /multiplayer/rooms/:id/join.
//
// Response:
//
//	200 OK: JoinResponse
//	404 Not Found: unknown room
//	409 Conflict: room full or finished
func (h *Handlers) HandleJoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	// An empty body is allowed; the player is then anonymous.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	res, err := h.deps.Rooms.Join(multiplayer.RoomID(c.Param("id")), req.PlayerName)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, joinResponse(res))
}

// HandleReport handles POST /multiplayer/rooms/:id/progress.
func (h *Handlers) HandleReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	view, err := h.deps.Rooms.Report(multiplayer.RoomID(c.Param("id")), multiplayer.PlayerID(req.PlayerID), req.Moves, req.Completed)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleRoomEvents handles GET /multiplayer/rooms/:id/events as a server-sent event
// stream. The current snapshot is sent first, then one event per room change.
// The stream ends when the client goes away or the room expires.
func (h *Handlers) HandleRoomEvents(c *gin.Context) {
	id := multiplayer.RoomID(c.Param("id"))
	view, err := h.deps.Rooms.Get(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	w, err := h.deps.Rooms.Watch(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer h.deps.Rooms.Unwatch(w)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("snapshot", view)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		evt, ok := nextRoomEvent(ctx, w)
		if !ok {
			return false
		}
		name, done := eventName(evt)
		c.SSEvent(name, evt.Room())
		return !done
	})
}

// nextRoomEvent waits for the watcher's next event. Expiry publishes before
// it closes the watcher, so events still buffered at close are delivered
// before ok turns false.
func nextRoomEvent(ctx context.Context, w *multiplayer.Watcher) (multiplayer.RoomEvent, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case evt := <-w.Events():
		return evt, true
	case <-w.Done():
		select {
		case evt := <-w.Events():
			return evt, true
		default:
			return nil, false
		}
	}
}

// eventName maps a room event to its SSE name and reports whether it ends
// the stream.
func eventName(evt multiplayer.RoomEvent) (string, bool) {
	switch evt.(type) {
	case multiplayer.PlayerJoinedEvent:
		return "joined", false
	case multiplayer.ProgressEvent:
		return "progress", false
	case multiplayer.WinnerEvent:
		return "winner", false
	case multiplayer.RoomExpiredEvent:
		return "expired", true
	default:
		return "update", false
	}
}

func joinResponse(res multiplayer.JoinResult) JoinResponse {
	return JoinResponse{
		PlayerID: res.PlayerID,
		Room:     res.Room,
		Level:    formats.FromLevel(res.Level),
	}
}

// HandleGetProgress handles GET /progress/:player.
func (h *Handlers) HandleGetProgress(c *gin.Context) {
	p, err := h.deps.Progress.LoadProgress(c.Param("player"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// HandleCompleteLevel handles POST /progress.
func (h *Handlers) HandleCompleteLevel(c *gin.Context) {
	var req CompleteLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if _, err := h.deps.Levels.Level(req.LevelID); err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.deps.Progress.CompleteLevel(req.Player, req.LevelID, req.Moves); err != nil {
		h.writeError(c, err)
		return
	}
	p, err := h.deps.Progress.LoadProgress(req.Player)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
