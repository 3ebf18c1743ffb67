package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	RateLimit float64 // Requests per second per client; 0 disables limiting
	Burst     int
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(h.logger))
	RegisterRoutes(router, h, NewRateLimiter(opts.RateLimit, opts.Burst))
	return router
}

// RegisterRoutes mounts the API on router.
func RegisterRoutes(router *gin.Engine, h *Handlers, limiter *RateLimiter) {
	router.GET("/health", h.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter.Middleware())
	}
	{
		v1.GET("/levels", h.HandleListLevels)
		v1.GET("/levels/:id", h.HandleGetLevel)
		v1.POST("/pour", h.HandlePour)
		v1.POST("/solve", h.HandleSolve)
		v1.POST("/hint", h.HandleHint)

		if h.deps.Policy != nil {
			v1.POST("/generate", h.HandleGenerate)
		}

		if h.deps.Rooms != nil {
			mp := v1.Group("/multiplayer")
			{
				mp.POST("/join", h.HandleMatchmake)
				mp.GET("/rooms", h.HandleListRooms)
				mp.POST("/rooms", h.HandleCreateRoom)
				mp.GET("/rooms/:id", h.HandleGetRoom)
				mp.POST("/rooms/:id/join", h.HandleJoinRoom)
				mp.POST("/rooms/:id/progress", h.HandleReport)
				mp.GET("/rooms/:id/events", h.HandleRoomEvents)
			}
		}

		if h.deps.Progress != nil {
			v1.GET("/progress/:player", h.HandleGetProgress)
			v1.POST("/progress", h.HandleCompleteLevel)
		}
	}
}
