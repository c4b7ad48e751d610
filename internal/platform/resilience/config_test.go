package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreakerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CircuitBreakerConfig
		wantErr bool
	}{
		{name: "zero values", cfg: CircuitBreakerConfig{Enabled: true}},
		{name: "explicit values", cfg: CircuitBreakerConfig{FailureThreshold: 3, OpenTimeout: time.Second, HalfOpenRequests: 3}},
		{name: "negative threshold", cfg: CircuitBreakerConfig{FailureThreshold: -1}, wantErr: true},
		{name: "negative timeout", cfg: CircuitBreakerConfig{OpenTimeout: -time.Second}, wantErr: true},
		{name: "negative half-open requests", cfg: CircuitBreakerConfig{HalfOpenRequests: -2}, wantErr: true},
		{name: "half-open above threshold", cfg: CircuitBreakerConfig{FailureThreshold: 1, HalfOpenRequests: 2}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCircuitBreakerConfig_WithDefaults(t *testing.T) {
	got := CircuitBreakerConfig{Enabled: true}.withDefaults()
	assert.Equal(t, CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: DefaultFailureThreshold,
		OpenTimeout:      DefaultOpenTimeout,
		HalfOpenRequests: DefaultHalfOpenRequests,
	}, got)

	single := CircuitBreakerConfig{FailureThreshold: 1}.withDefaults()
	assert.Equal(t, 1, single.HalfOpenRequests)
}
