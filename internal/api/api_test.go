package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/games/watersort/levels"
	"github.com/vovakirdan/watersort/internal/multiplayer"
	"github.com/vovakirdan/watersort/internal/storage"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryProgress implements ProgressStore in memory.
type memoryProgress struct {
	mu   sync.Mutex
	data map[string]storage.Progress
}

func newMemoryProgress() *memoryProgress {
	return &memoryProgress{data: make(map[string]storage.Progress)}
}

func (m *memoryProgress) LoadProgress(player string) (storage.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[player]
	if !ok {
		return storage.Progress{Player: player, LastLevel: 1, BestMoves: map[int]int{}}, nil
	}
	return p, nil
}

func (m *memoryProgress) CompleteLevel(player string, levelID, moves int) error {
	p, _ := m.LoadProgress(player)
	m.mu.Lock()
	defer m.mu.Unlock()
	if best, ok := p.BestMoves[levelID]; !ok || moves < best {
		p.BestMoves[levelID] = moves
	}
	p.LastLevel = levelID + 1
	m.data[player] = p
	return nil
}

func testLevels() *levels.Catalogue {
	return levels.NewCatalogue([]core.Level{
		core.NewLevel(1, 2, []core.Bottle{
			{core.ColorRed, core.ColorBlue},
			{core.ColorBlue, core.ColorRed},
			{},
		}),
		core.NewLevel(2, 4, []core.Bottle{
			{core.ColorRed, core.ColorRed, core.ColorRed, core.ColorRed},
			{},
		}),
	})
}

type testEnv struct {
	router   *gin.Engine
	rooms    *multiplayer.Manager
	progress *memoryProgress
}

func newTestEnv(t *testing.T, opts RouterOptions) *testEnv {
	t.Helper()
	catalogue := testLevels()
	rooms := multiplayer.NewManager(multiplayer.DefaultManagerConfig(), catalogue, nil, nil)
	progress := newMemoryProgress()

	params := core.DefaultGenParams()
	params.Seed = 7
	h := NewHandlers(Deps{
		Levels:    catalogue,
		Rooms:     rooms,
		Progress:  progress,
		Policy:    core.FixedTier(core.Tier{NumColors: 3, NumBottles: 5, NumEmpty: 2}),
		GenParams: params,
	})
	return &testEnv{router: NewRouter(h, opts), rooms: rooms, progress: progress}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

// =============================================================================
// Health and Levels
// =============================================================================

func TestHealth(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 2, resp.Levels)
	assert.Equal(t, 0, resp.Rooms)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	env.do(t, http.MethodGet, "/health", nil)

	w := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "watersort_http_requests_total")
}

func TestLevels(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	t.Run("list", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/levels", nil)
		require.Equal(t, http.StatusOK, w.Code)
		doc := decode[map[string]json.RawMessage](t, w)
		assert.Len(t, doc, 2)
		assert.Contains(t, doc, "1")
		assert.Contains(t, doc, "2")
	})

	t.Run("get", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/levels/2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"level_id":2`)
	})

	t.Run("not found", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/levels/99", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, CodeLevelNotFound, decode[ErrorResponse](t, w).Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/levels/abc", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeInvalidRequest, decode[ErrorResponse](t, w).Code)
	})
}

// =============================================================================
// Engine
// =============================================================================

func TestPour(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	t.Run("legal pour", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/pour", map[string]any{
			"bottles":  [][]string{{"red", "blue"}, {"blue"}, {}},
			"capacity": 2,
			"from":     0,
			"to":       1,
		})
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[PourResponse](t, w)
		assert.Equal(t, 1, resp.MovedUnits)
		assert.Equal(t, [][]string{{"red"}, {"blue", "blue"}, {}}, resp.Bottles)
		assert.False(t, resp.Solved)
	})

	t.Run("finishing pour", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/pour", map[string]any{
			"bottles":  [][]string{{"red"}, {"red"}},
			"capacity": 2,
			"from":     0,
			"to":       1,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[PourResponse](t, w).Solved)
	})

	t.Run("illegal move", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/pour", map[string]any{
			"bottles":  [][]string{{"red"}, {"blue"}},
			"capacity": 2,
			"from":     0,
			"to":       1,
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decode[IllegalMoveResponse](t, w)
		assert.Equal(t, CodeIllegalMove, resp.Code)
		assert.Equal(t, core.ReasonColorClash, resp.Reason)
		assert.Equal(t, 0, resp.From)
		assert.Equal(t, 1, resp.To)
	})

	t.Run("invalid state", func(t *testing.T) {
		tests := []struct {
			name    string
			bottles [][]string
		}{
			{"unknown color", [][]string{{"ultraviolet"}, {}}},
			{"over capacity", [][]string{{"red", "red", "red"}, {}}},
			{"no bottles", [][]string{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := env.do(t, http.MethodPost, "/api/v1/pour", map[string]any{
					"bottles":  tt.bottles,
					"capacity": 2,
					"from":     0,
					"to":       1,
				})
				require.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, CodeInvalidState, decode[ErrorResponse](t, w).Code)
			})
		}
	})

	t.Run("missing bottles", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/pour", map[string]any{"from": 0, "to": 1})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeInvalidRequest, decode[ErrorResponse](t, w).Code)
	})
}

func TestSolveAndHint(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	board := [][]string{{"red", "blue"}, {"blue", "red"}, {}}

	w := env.do(t, http.MethodPost, "/api/v1/solve", map[string]any{"bottles": board, "capacity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[SolveResponse](t, w)
	require.True(t, resp.Solved)
	assert.Equal(t, []core.Move{{From: 0, To: 2}, {From: 1, To: 0}, {From: 1, To: 2}}, resp.Moves)
	assert.Equal(t, len(resp.Moves), resp.Iterations)

	w = env.do(t, http.MethodPost, "/api/v1/hint", map[string]any{"bottles": board, "capacity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	hint := decode[HintResponse](t, w)
	require.True(t, hint.Ok)
	assert.Equal(t, core.Move{From: 0, To: 2}, *hint.Move)

	w = env.do(t, http.MethodPost, "/api/v1/hint", map[string]any{
		"bottles":  [][]string{{"red", "red"}, {}},
		"capacity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	hint = decode[HintResponse](t, w)
	assert.False(t, hint.Ok)
	assert.Nil(t, hint.Move)
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	w := env.do(t, http.MethodPost, "/api/v1/generate", GenerateRequest{LevelID: 3})
	require.Equal(t, http.StatusOK, w.Code)

	var rec struct {
		LevelID  int        `json:"level_id"`
		Bottles  [][]string `json:"bottles"`
		Capacity int        `json:"capacity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, 3, rec.LevelID)
	assert.Equal(t, 4, rec.Capacity)
	assert.Len(t, rec.Bottles, 5)

	again := env.do(t, http.MethodPost, "/api/v1/generate", GenerateRequest{LevelID: 3})
	assert.Equal(t, w.Body.String(), again.Body.String(), "same id and seed must give the same level")

	w = env.do(t, http.MethodPost, "/api/v1/generate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("invalid tier", func(t *testing.T) {
		h := NewHandlers(Deps{
			Levels:    testLevels(),
			Policy:    core.FixedTier(core.Tier{NumColors: 3, NumBottles: 2, NumEmpty: 1}),
			GenParams: core.DefaultGenParams(),
		})
		router := NewRouter(h, RouterOptions{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(`{"level_id":1}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), CodeInvalidTier)
	})

	t.Run("unverified", func(t *testing.T) {
		params := core.DefaultGenParams()
		params.RequireVerified = true
		params.MaxAttempts = 3
		h := NewHandlers(Deps{
			Levels:    testLevels(),
			Policy:    core.FixedTier(core.Tier{NumColors: 5, NumBottles: 5, NumEmpty: 0}),
			GenParams: params,
		})
		router := NewRouter(h, RouterOptions{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(`{"level_id":1}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), CodeUnverified)
	})
}

// =============================================================================
// Rooms
// =============================================================================

func TestRoomFlow(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	w := env.do(t, http.MethodPost, "/api/v1/multiplayer/rooms", CreateRoomRequest{LevelID: 1, PlayerName: "alice"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[JoinResponse](t, w)
	require.NotEmpty(t, created.PlayerID)
	assert.Equal(t, 1, created.Level.LevelID)
	assert.Len(t, created.Level.Bottles, 3)
	roomPath := "/api/v1/multiplayer/rooms/" + string(created.Room.ID)

	w = env.do(t, http.MethodPost, roomPath+"/join", JoinRoomRequest{PlayerName: "bob"})
	require.Equal(t, http.StatusOK, w.Code)
	joined := decode[JoinResponse](t, w)
	assert.Equal(t, multiplayer.RoomPlaying, joined.Room.State)

	w = env.do(t, http.MethodPost, roomPath+"/join", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeRoomFull, decode[ErrorResponse](t, w).Code)

	w = env.do(t, http.MethodPost, roomPath+"/progress", ReportRequest{PlayerID: string(joined.PlayerID), Moves: 3, Completed: true})
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[multiplayer.RoomView](t, w)
	assert.Equal(t, joined.PlayerID, view.Winner)
	assert.Equal(t, multiplayer.RoomFinished, view.State)

	w = env.do(t, http.MethodPost, roomPath+"/progress", ReportRequest{PlayerID: string(created.PlayerID), Moves: 5, Completed: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, joined.PlayerID, decode[multiplayer.RoomView](t, w).Winner, "the winner never changes")

	w = env.do(t, http.MethodGet, roomPath, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/multiplayer/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]multiplayer.RoomView](t, w), 1)
}

func TestRoomErrors(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	w := env.do(t, http.MethodGet, "/api/v1/multiplayer/rooms/NOPE42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeRoomNotFound, decode[ErrorResponse](t, w).Code)

	w = env.do(t, http.MethodPost, "/api/v1/multiplayer/rooms", CreateRoomRequest{LevelID: 42})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeLevelNotFound, decode[ErrorResponse](t, w).Code)

	w = env.do(t, http.MethodPost, "/api/v1/multiplayer/rooms", CreateRoomRequest{LevelID: 1})
	require.Equal(t, http.StatusCreated, w.Code)
	room := decode[JoinResponse](t, w).Room

	w = env.do(t, http.MethodPost, "/api/v1/multiplayer/rooms/"+string(room.ID)+"/progress", ReportRequest{PlayerID: "stranger"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodePlayerNotFound, decode[ErrorResponse](t, w).Code)
}

func TestMatchmake(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	w := env.do(t, http.MethodPost, "/api/v1/multiplayer/join", MatchmakeRequest{LevelID: 1, PlayerName: "a"})
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[JoinResponse](t, w)

	w = env.do(t, http.MethodPost, "/api/v1/multiplayer/join", MatchmakeRequest{LevelID: 1, PlayerName: "b"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[JoinResponse](t, w)

	assert.Equal(t, first.Room.ID, second.Room.ID)
	assert.Len(t, second.Room.Players, 2)
	assert.Equal(t, 1, env.rooms.Count())
}

func TestRoomEventStream(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	res, err := env.rooms.Create(1, "alice")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/multiplayer/rooms/"+string(res.Room.ID)+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := bufio.NewScanner(resp.Body)
	nextEvent := func() string {
		for lines.Scan() {
			if name, ok := strings.CutPrefix(lines.Text(), "event:"); ok {
				return strings.TrimSpace(name)
			}
		}
		return ""
	}

	require.Equal(t, "snapshot", nextEvent())

	_, err = env.rooms.Join(res.Room.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "joined", nextEvent())

	_, err = env.rooms.Report(res.Room.ID, res.PlayerID, 2, false)
	require.NoError(t, err)
	assert.Equal(t, "progress", nextEvent())
}

func TestNextRoomEventDeliversExpiryBeforeClose(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := multiplayer.DefaultManagerConfig()
	cfg.RoomTTL = time.Minute
	cfg.Clock = func() time.Time { return now }
	rooms := multiplayer.NewManager(cfg, testLevels(), nil, nil)

	// Repeat so a random pick between the ready channels would show up.
	for range 50 {
		res, err := rooms.Create(1, "alice")
		require.NoError(t, err)
		w, err := rooms.Watch(res.Room.ID)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		require.Equal(t, 1, rooms.CleanupExpired())

		evt, ok := nextRoomEvent(context.Background(), w)
		require.True(t, ok, "expiry must be delivered")
		name, done := eventName(evt)
		require.Equal(t, "expired", name)
		require.True(t, done)

		_, ok = nextRoomEvent(context.Background(), w)
		require.False(t, ok)
		rooms.Unwatch(w)
	}
}

func TestEventName(t *testing.T) {
	tests := []struct {
		evt  multiplayer.RoomEvent
		name string
		done bool
	}{
		{multiplayer.PlayerJoinedEvent{}, "joined", false},
		{multiplayer.ProgressEvent{}, "progress", false},
		{multiplayer.WinnerEvent{}, "winner", false},
		{multiplayer.RoomExpiredEvent{}, "expired", true},
	}
	for _, tt := range tests {
		name, done := eventName(tt.evt)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.done, done)
	}
}

// =============================================================================
// Progress
// =============================================================================

func TestProgress(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	w := env.do(t, http.MethodGet, "/api/v1/progress/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[storage.Progress](t, w).LastLevel)

	w = env.do(t, http.MethodPost, "/api/v1/progress", CompleteLevelRequest{Player: "alice", LevelID: 1, Moves: 7})
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[storage.Progress](t, w)
	assert.Equal(t, 2, p.LastLevel)
	assert.Equal(t, 7, p.BestMoves[1])

	w = env.do(t, http.MethodPost, "/api/v1/progress", CompleteLevelRequest{Player: "alice", LevelID: 9})
	require.Equal(t, http.StatusNotFound, w.Code)
}

// =============================================================================
// Middleware
// =============================================================================

func TestRateLimiter(t *testing.T) {
	env := newTestEnv(t, RouterOptions{RateLimit: 0.001, Burst: 1})

	w := env.do(t, http.MethodGet, "/api/v1/levels/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/levels/1", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, CodeRateLimited, decode[ErrorResponse](t, w).Code)

	w = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code, "health is not rate limited")
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiter("10.0.0.1")
	rl.limiter("10.0.0.2")
	require.Equal(t, 2, rl.Len())

	now = now.Add(limiterIdleTTL / 2)
	rl.limiter("10.0.0.2")

	now = now.Add(limiterIdleTTL/2 + time.Second)
	rl.limiter("10.0.0.3")
	assert.Equal(t, 2, rl.Len(), "only the idle client is dropped")

	rl.mu.Lock()
	_, idleKept := rl.clients["10.0.0.1"]
	_, activeKept := rl.clients["10.0.0.2"]
	rl.mu.Unlock()
	assert.False(t, idleKept)
	assert.True(t, activeKept)
}
