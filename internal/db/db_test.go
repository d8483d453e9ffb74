package db

import (
	"os"
	"testing"

	"interviewengine/internal/config"
	"interviewengine/internal/domain"
)

// Dummy DSN for test (won't actually connect, just checks error path).
func TestInit_InvalidDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.Postgres.DSN = "invalid-dsn-for-testing"
	err := Init(cfg)
	if err == nil {
		t.Errorf("expected error for invalid DSN, got nil")
	}
}

// Only runs against a real Postgres instance; skipped unless TEST_DB_DSN
// is set.
func TestInit_ValidDSN_AndMigrates(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("set TEST_DB_DSN to run real DB test")
	}
	cfg := &config.Config{}
	cfg.Postgres.DSN = dsn
	err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if DB == nil {
		t.Fatalf("DB not set")
	}
	if err := DB.AutoMigrate(&domain.Candidate{}, &domain.Interview{}, &domain.Question{}); err != nil {
		t.Errorf("AutoMigrate failed: %v", err)
	}
}
