package auth

import (
	"net/http"
	"strings"
	"time"

	"interviewengine/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Middleware authenticates a candidate bearer token and refreshes its
// Redis-backed session on every request. There is no admin role in the
// interview domain — every request authenticates as a single candidate.
func Middleware(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Missing or invalid Authorization header"}})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ParseJWT(cfg.Server.JWTSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid or expired token"}})
			return
		}
		sessionToken, err := GetSession(rdb, claims.CandidateID)
		if err != nil || sessionToken != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Session expired or invalid"}})
			return
		}
		_ = SetSession(rdb, claims.CandidateID, tokenStr, 30*time.Minute)

		c.Set("candidateId", claims.CandidateID)
		c.Next()
	}
}
