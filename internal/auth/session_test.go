package auth

import (
	"testing"
	"time"

	"interviewengine/internal/config"
	redisdb "interviewengine/internal/redis"
)

func TestSessionSetGetDelete(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.DB = 15
	rdb := redisdb.NewClient(cfg)

	candidateID := "cand-12345"
	token := "session_test_token"
	duration := 2 * time.Second

	if err := SetSession(rdb, candidateID, token, duration); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	gotToken, err := GetSession(rdb, candidateID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if gotToken != token {
		t.Errorf("expected token %q, got %q", token, gotToken)
	}

	if err := DeleteSession(rdb, candidateID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	_, err = GetSession(rdb, candidateID)
	if err == nil {
		t.Errorf("expected error for deleted session, got nil")
	}
}
