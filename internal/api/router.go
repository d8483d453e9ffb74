package api

import (
	"path"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"interviewengine/internal/auth"
	"interviewengine/internal/cache"
	"interviewengine/internal/config"
	"interviewengine/internal/orchestrator"
)

// SetupRouter wires the interview engine's one authenticated WebSocket
// route plus a health check, grounded on the teacher's router.go route-
// group shape (subpath-aware grouping, middleware per route).
func SetupRouter(cfg *config.Config, rdb *redis.Client, c2 *cache.Cache, orch *orchestrator.Orchestrator) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler(c2))
		group.GET(path.Join("/interviews/:id/ws"), auth.Middleware(cfg, rdb), WSInterviewHandler(orch, c2))
	}
	return r
}
