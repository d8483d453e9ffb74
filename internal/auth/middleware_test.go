package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"interviewengine/internal/config"
	redisdb "interviewengine/internal/redis"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func setupTestJWT(secret, candidateID string, exp time.Duration) string {
	token, _ := GenerateJWT(secret, candidateID, exp)
	return token
}

func setupTestRedis() *redis.Client {
	cfg := &config.Config{}
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.DB = 15
	return redisdb.NewClient(cfg)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	rdb := setupTestRedis()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(cfg, rdb))
	r.GET("/test", func(c *gin.Context) {
		c.String(200, "OK")
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	rdb := setupTestRedis()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(cfg, rdb))
	r.GET("/test", func(c *gin.Context) {
		c.String(200, "OK")
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer not.a.valid.jwt")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid JWT, got %d", w.Code)
	}
}

func TestMiddleware_SessionInvalid(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	rdb := setupTestRedis()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(cfg, rdb))
	r.GET("/test", func(c *gin.Context) {
		c.String(200, "OK")
	})
	token := setupTestJWT(cfg.Server.JWTSecret, "cand-123", time.Minute)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	// No session in Redis, should be session error.
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for session error, got %d", w.Code)
	}
}

func TestMiddleware_ValidSessionAllowed(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	rdb := setupTestRedis()
	candidateID := "cand-222"
	token := setupTestJWT(cfg.Server.JWTSecret, candidateID, time.Minute)
	_ = SetSession(rdb, candidateID, token, time.Minute)
	defer DeleteSession(rdb, candidateID)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(cfg, rdb))
	r.GET("/test", func(c *gin.Context) {
		c.String(200, "OK")
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for valid session, got %d", w.Code)
	}
}
