// Package config loads the interview engine's JSON configuration file
// into a process-wide singleton, modeled on the teacher's
// sync.Once-guarded loader.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// LLMConfig names one reachable LLM provider endpoint.
type LLMConfig struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContextSize int    `json:"context_size"`
}

// LLMQueueConfig tunes internal/llm.Manager's priority scheduling.
type LLMQueueConfig struct {
	MaxConcurrent            int `json:"max_concurrent"`
	CriticalQueueSize        int `json:"critical_queue_size"`
	BackgroundQueueSize      int `json:"background_queue_size"`
	CriticalTimeoutSeconds   int `json:"critical_timeout_seconds"`
	BackgroundTimeoutSeconds int `json:"background_timeout_seconds"`
}

// EmbeddingConfig points at the embedding HTTP provider and its Qdrant
// exemplar index.
type EmbeddingConfig struct {
	URL    string `json:"url"`
	Qdrant struct {
		URL        string `json:"url"`
		Collection string `json:"collection"`
		APIKey     string `json:"api_key"`
	} `json:"qdrant"`
}

// SpeechConfig points at the STT/TTS HTTP providers.
type SpeechConfig struct {
	TranscribeURL string `json:"transcribe_url"`
	SynthesizeURL string `json:"synthesize_url"`
	DefaultVoice  string `json:"default_voice"`
}

// CircuitBreakerConfig tunes internal/tools.CircuitBreaker for every
// outbound provider adapter.
type CircuitBreakerConfig struct {
	FailureThreshold int `json:"failure_threshold"`
	OpenSeconds      int `json:"open_seconds"`
}

type Config struct {
	Server struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Subpath   string `json:"subpath"`
		JWTSecret string `json:"jwtSecret"`
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	LLMs           []LLMConfig          `json:"llms"`
	LLMQueue       LLMQueueConfig       `json:"llm_queue"`
	Embedding      EmbeddingConfig      `json:"embedding"`
	Speech         SpeechConfig         `json:"speech"`
	CircuitBreaker CircuitBreakerConfig `json:"circuit_breaker"`
	UseMockProviders bool               `json:"use_mock_providers"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads the JSON config file from disk once per process.
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		applyDefaults(&c)
		cfg = &c
	})
	return cfg, cfgErr
}

func applyDefaults(c *Config) {
	if c.LLMQueue.MaxConcurrent == 0 {
		c.LLMQueue.MaxConcurrent = 4
	}
	if c.LLMQueue.CriticalQueueSize == 0 {
		c.LLMQueue.CriticalQueueSize = 16
	}
	if c.LLMQueue.BackgroundQueueSize == 0 {
		c.LLMQueue.BackgroundQueueSize = 64
	}
	if c.LLMQueue.CriticalTimeoutSeconds == 0 {
		c.LLMQueue.CriticalTimeoutSeconds = 30
	}
	if c.LLMQueue.BackgroundTimeoutSeconds == 0 {
		c.LLMQueue.BackgroundTimeoutSeconds = 120
	}
	if c.CircuitBreaker.FailureThreshold == 0 {
		c.CircuitBreaker.FailureThreshold = 3
	}
	if c.CircuitBreaker.OpenSeconds == 0 {
		c.CircuitBreaker.OpenSeconds = 300
	}
	if c.Speech.DefaultVoice == "" {
		c.Speech.DefaultVoice = "neutral"
	}
	if c.Embedding.Qdrant.Collection == "" {
		c.Embedding.Qdrant.Collection = "interview_questions"
	}
}

// GetConfig returns the loaded config (must call LoadConfig first).
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only).
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
