package resilience

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Breaker defaults used for the account service.
const (
	DefaultFailureThreshold = 5
	DefaultOpenTimeout      = 15 * time.Second
	DefaultHalfOpenRequests = 2
)

// CircuitBreakerConfig tunes a CircuitBreaker. Zero values take the defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	// HalfOpenRequests is how many trial calls run after OpenTimeout, and how
	// many must succeed before the breaker closes.
	HalfOpenRequests int
}

// Validate rejects negative settings. Zero is allowed and means default.
func (c CircuitBreakerConfig) Validate() error {
	switch {
	case c.FailureThreshold < 0:
		return errors.Newf("circuit breaker failure threshold must not be negative, got %d", c.FailureThreshold)
	case c.OpenTimeout < 0:
		return errors.Newf("circuit breaker open timeout must not be negative, got %s", c.OpenTimeout)
	case c.HalfOpenRequests < 0:
		return errors.Newf("circuit breaker half-open requests must not be negative, got %d", c.HalfOpenRequests)
	case c.FailureThreshold > 0 && c.HalfOpenRequests > c.FailureThreshold:
		return errors.Newf("circuit breaker half-open requests (%d) exceed the failure threshold (%d)", c.HalfOpenRequests, c.FailureThreshold)
	}
	return nil
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = DefaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = DefaultOpenTimeout
	}
	if c.HalfOpenRequests < 1 {
		c.HalfOpenRequests = min(DefaultHalfOpenRequests, c.FailureThreshold)
	}
	return c
}
