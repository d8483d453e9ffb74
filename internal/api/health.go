package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interviewengine/internal/cache"
)

// healthHandler reports liveness plus the current live-interview count,
// grounded on the teacher's OnlineUserCountHandler capacity-reporting use.
func healthHandler(c2 *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{"status": "ok"}
		if c2 != nil {
			if n, err := c2.LiveSessionCount(c.Request.Context()); err == nil {
				resp["live_interviews"] = n
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
