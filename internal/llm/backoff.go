package llm

import (
	"math"
	"math/rand"
	"time"
)

// BackoffConfig tunes the exponential backoff applied between retried calls
// to the underlying ChatModel. Zero values are replaced by applyDefaults.
type BackoffConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	JitterFraction float64
}

func (c *BackoffConfig) applyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = time.Second
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2.0
	}
	if c.JitterFraction == 0 {
		c.JitterFraction = 0.1
	}
}

// computeBackoff returns the wait duration before attempt (0-indexed, the
// attempt number that is about to run): backoff = min(initial * factor^attempt,
// max) plus up to JitterFraction of random noise.
func computeBackoff(cfg BackoffConfig, attempt int) time.Duration {
	base := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffFactor, float64(attempt))
	if base > float64(cfg.MaxBackoff) {
		base = float64(cfg.MaxBackoff)
	}
	jitter := base * cfg.JitterFraction * rand.Float64()
	return time.Duration(base + jitter)
}
