// Package config defines configuration for the external sync layer.
//
// The connector layer is embedded in a CMS batch context; the embedding
// application loads one SyncConfig (typically from YAML) and passes it to
// the connector factories. All timeouts are explicit rather than relying
// on transport defaults.
package config

import (
	"fmt"
	"time"
)

// SyncConfig is the top-level configuration for external record sync.
type SyncConfig struct {
	// UserAgent is sent on every outbound provider request
	UserAgent string `yaml:"user_agent" json:"user_agent"`

	// Timeouts contains all network timeout settings
	Timeouts TimeoutConfig `yaml:"timeouts" json:"timeouts"`

	// Reliability contains retry behavior for rate-limited and failed calls
	Reliability ReliabilityConfig `yaml:"reliability" json:"reliability"`

	// Observability contains logging settings
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// TimeoutConfig contains network timeout settings.
type TimeoutConfig struct {
	// Request timeout for individual provider calls
	Request time.Duration `yaml:"request" json:"request"`
	// Connection timeout for establishing connections
	Connection time.Duration `yaml:"connection" json:"connection"`
	// Idle timeout before closing inactive connections
	Idle time.Duration `yaml:"idle" json:"idle"`
	// KeepAlive interval for connection health checks
	KeepAlive time.Duration `yaml:"keep_alive" json:"keep_alive"`
	// TLSHandshake timeout for the TLS handshake
	TLSHandshake time.Duration `yaml:"tls_handshake" json:"tls_handshake"`
}

// ReliabilityConfig contains retry settings for provider calls.
//
// Providers enforce a fixed rate-limit window, so the delay is flat
// rather than exponential. Both values are tunable per deployment;
// tests inject near-zero delays.
type ReliabilityConfig struct {
	// RetryAttempts sets how many times a retryable call may run in total
	RetryAttempts int `yaml:"retry_attempts" json:"retry_attempts"`
	// RetryDelay is the fixed delay between attempts
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// ObservabilityConfig contains logging settings.
type ObservabilityConfig struct {
	// LogLevel sets the minimum log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogFormat selects the log encoding (json or console)
	LogFormat string `yaml:"log_format" json:"log_format"`
}

// DefaultSyncConfig returns the production defaults.
func DefaultSyncConfig() *SyncConfig {
	return &SyncConfig{
		UserAgent: "recordsync/1.0",
		Timeouts: TimeoutConfig{
			Request:      60 * time.Second,
			Connection:   30 * time.Second,
			Idle:         90 * time.Second,
			KeepAlive:    30 * time.Second,
			TLSHandshake: 10 * time.Second,
		},
		Reliability: ReliabilityConfig{
			RetryAttempts: 5,
			RetryDelay:    30 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *SyncConfig) Validate() error {
	if c.Reliability.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1, got %d", c.Reliability.RetryAttempts)
	}
	if c.Reliability.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must not be negative, got %s", c.Reliability.RetryDelay)
	}
	if c.Timeouts.Request <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.Timeouts.Request)
	}
	return nil
}
