// Package api exposes the water sort engine, level catalogue, rooms and
// progress over HTTP.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/games/watersort/levels"
	"github.com/vovakirdan/watersort/internal/games/watersort/levels/formats"
	"github.com/vovakirdan/watersort/internal/metrics"
	"github.com/vovakirdan/watersort/internal/multiplayer"
	"github.com/vovakirdan/watersort/internal/storage"
)

// ProgressStore persists single-player progress.
type ProgressStore interface {
	LoadProgress(player string) (storage.Progress, error)
	CompleteLevel(player string, levelID, moves int) error
}

// Deps are the collaborators of the handlers. Rooms and Progress may be nil,
// in which case their routes are not registered.
type Deps struct {
	Levels    levels.Provider
	Rooms     *multiplayer.Manager
	Progress  ProgressStore
	Policy    core.TierPolicy
	GenParams core.GenParams
	Logger    *log.Logger
}

// Handlers serves the HTTP endpoints.
type Handlers struct {
	deps   Deps
	logger *log.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handlers{deps: deps, logger: logger}
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	resp := HealthResponse{Status: "healthy", Levels: len(h.deps.Levels.IDs())}
	if h.deps.Rooms != nil {
		resp.Rooms = h.deps.Rooms.Count()
	}
	c.JSON(http.StatusOK, resp)
}

// HandleListLevels handles GET /levels.
//
// Response:
//
//	200 OK: catalogue map {"<id>": {level_id, bottles, capacity, verified}}
func (h *Handlers) HandleListLevels(c *gin.Context) {
	ids := h.deps.Levels.IDs()
	all := make([]core.Level, 0, len(ids))
	for _, id := range ids {
		l, err := h.deps.Levels.Level(id)
		if err != nil {
			h.logger.Error("level unavailable", "level", id, "err", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeInternal})
			return
		}
		all = append(all, l)
	}
	c.JSON(http.StatusOK, formats.FromLevels(all))
}

// HandleGetLevel handles GET /levels/:id.
//
// Response:
//
//	200 OK: level record
//	404 Not Found: id outside the catalogue
func (h *Handlers) HandleGetLevel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "level id must be an integer", Code: CodeInvalidRequest})
		return
	}

	l, err := h.deps.Levels.Level(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, formats.FromLevel(l))
}

// HandlePour handles POST /pour.
//
// Response:
//
//	200 OK: PourResponse
//	400 Bad Request: malformed board
//	422 Unprocessable Entity: IllegalMoveResponse; the board is unchanged
func (h *Handlers) HandlePour(c *gin.Context) {
	var req PourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	state, err := req.level()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidState})
		return
	}

	next, moved, err := core.Pour(state, req.From, req.To)
	metrics.RecordPour(moved, err)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, PourResponse{
		Bottles:    tokens(next),
		MovedUnits: moved,
		Solved:     next.IsSolved(),
	})
}

// HandleSolve handles POST /solve.
func (h *Handlers) HandleSolve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	state, err := req.level()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidState})
		return
	}

	params := h.deps.GenParams.Solver
	if req.Budget > 0 {
		params.Budget = req.Budget
	}
	res := core.Solve(state, params)
	metrics.RecordSolve(res)

	c.JSON(http.StatusOK, SolveResponse{
		Moves:      res.Moves,
		Solved:     res.Solved,
		Iterations: res.Iterations,
	})
}

// HandleHint handles POST /hint.
func (h *Handlers) HandleHint(c *gin.Context) {
	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	state, err := req.level()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidState})
		return
	}

	move, ok := core.Hint(state)
	resp := HintResponse{Ok: ok}
	if ok {
		resp.Move = &move
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGenerate handles POST /generate.
//
// Response:
//
//	200 OK: level record
//	400 Bad Request: INVALID_TIER when the curve yields unusable parameters
//	422 Unprocessable Entity: UNVERIFIED when verification is required and failed
func (h *Handlers) HandleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	params := h.deps.GenParams
	if req.Seed != 0 {
		params.Seed = req.Seed
	}

	start := time.Now()
	l, err := core.Generate(req.LevelID, h.deps.Policy, params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	metrics.RecordGenerate(l, time.Since(start))

	c.JSON(http.StatusOK, formats.FromLevel(l))
}

func (h *Handlers) badRequest(c *gin.Context, err error) {
	h.logger.Debug("invalid request body", "path", c.FullPath(), "err", err)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Code: CodeInvalidRequest})
}

// writeError maps domain errors to status codes.
func (h *Handlers) writeError(c *gin.Context, err error) {
	var (
		illegal   *core.IllegalMoveError
		tierErr   *core.InvalidTierError
		roomErr   *multiplayer.RoomNotFoundError
		playerErr *multiplayer.PlayerNotFoundError
	)

	switch {
	case errors.As(err, &illegal):
		c.JSON(http.StatusUnprocessableEntity, IllegalMoveResponse{
			ErrorResponse: ErrorResponse{Error: err.Error(), Code: CodeIllegalMove},
			From:          illegal.From,
			To:            illegal.To,
			Reason:        illegal.Reason,
		})
	case errors.As(err, &tierErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidTier})
	case errors.Is(err, core.ErrUnverified):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeUnverified})
	case errors.Is(err, levels.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeLevelNotFound})
	case errors.As(err, &roomErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeRoomNotFound})
	case errors.As(err, &playerErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodePlayerNotFound})
	case errors.Is(err, multiplayer.ErrRoomFull):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: CodeRoomFull})
	case errors.Is(err, multiplayer.ErrRoomClosed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: CodeRoomClosed})
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeInternal})
	}
}
