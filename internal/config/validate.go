package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is usable. Defaults should be
// applied first.
func (c *Config) Validate() error {
	if c.Stream.WSURL == "" {
		return fmt.Errorf("stream.ws_url is required")
	}
	if !strings.HasPrefix(c.Stream.WSURL, "ws://") && !strings.HasPrefix(c.Stream.WSURL, "wss://") {
		return fmt.Errorf("stream.ws_url must start with ws:// or wss://, got %q", c.Stream.WSURL)
	}

	if c.API.BaseURL != "" &&
		!strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must start with http:// or https://, got %q", c.API.BaseURL)
	}

	if c.Stream.Resync && c.API.BaseURL == "" {
		return fmt.Errorf("stream.resync requires api.base_url")
	}

	if c.Stream.ReconnectBaseDelay <= 0 {
		return fmt.Errorf("stream.reconnect_base_delay must be positive")
	}
	if c.Stream.ReconnectMaxDelay < c.Stream.ReconnectBaseDelay {
		return fmt.Errorf("stream.reconnect_max_delay must be >= reconnect_base_delay")
	}
	if c.Stream.MaxReconnectAttempts < 1 {
		return fmt.Errorf("stream.max_reconnect_attempts must be >= 1")
	}
	if c.Stream.HeartbeatInterval <= 0 {
		return fmt.Errorf("stream.heartbeat_interval must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}

	return nil
}
