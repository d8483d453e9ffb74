package llm

import "time"

// Config controls queue behavior
type Config struct {
	// Concurrency control
	MaxConcurrent int // Total concurrent LLM requests

	// Queue sizes
	CriticalQueueSize   int // Session requests (small, rarely queues)
	BackgroundQueueSize int // Planner/summarizer batch tasks (larger buffer)

	// Timeouts
	CriticalTimeout   time.Duration
	BackgroundTimeout time.Duration
}

// DefaultConfig returns sensible defaults, per the recommended external
// call budget (30s for LLM calls).
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrent:       4,
		CriticalQueueSize:   20,
		BackgroundQueueSize: 100,
		CriticalTimeout:     30 * time.Second,
		BackgroundTimeout:   60 * time.Second,
	}
}
