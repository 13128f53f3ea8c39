package config

import "time"

// Config is the root configuration for a pipewatch instance.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Stream StreamConfig `yaml:"stream"`
	Log    LogConfig    `yaml:"log"`
}

// APIConfig holds orchestrator REST API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"` // e.g. https://host/api/v1
	Email      string        `yaml:"email"`
	Password   string        `yaml:"password"`
	Token      string        `yaml:"token"` // pre-issued bearer token; skips login
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// StreamConfig holds the real-time event stream settings.
type StreamConfig struct {
	WSURL                string        `yaml:"ws_url"` // e.g. wss://host
	HeartbeatInterval    time.Duration `yaml:"heartbeat_interval"`
	ReconnectBaseDelay   time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay    time.Duration `yaml:"reconnect_max_delay"`
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`
	BufferSize           int           `yaml:"buffer_size"`

	// Resync refetches the task list through the REST API after every
	// re-established connection, covering events missed across the gap.
	Resync bool `yaml:"resync"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
