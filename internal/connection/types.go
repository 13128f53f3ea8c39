package connection

import (
	"errors"
	"fmt"
	"time"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
	// ErrNormalClosure is reported when the server closes the connection
	// with the normal close code; it suppresses reconnection.
	ErrNormalClosure = errors.New("normal closure")
	// ErrStaleConnection is reported when a heartbeat probe goes
	// unanswered for a full heartbeat interval.
	ErrStaleConnection = errors.New("connection stale (heartbeat reply missed)")
)

// State is the connection lifecycle state.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosing
	StateReconnecting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status is a state snapshot passed to the consumer on every transition.
// Attempt is the 1-indexed reconnect try count, set while reconnecting.
type Status struct {
	State   State
	Attempt int
}

// TimestampedMessage wraps raw frame data with a receive timestamp.
type TimestampedMessage struct {
	Data       []byte
	ReceivedAt time.Time
}

// ClientConfig configures a single WebSocket client.
type ClientConfig struct {
	URL          string        // full connection URL including the credential
	DialTimeout  time.Duration // handshake timeout
	WriteTimeout time.Duration // write deadline for sends
	BufferSize   int           // message channel buffer size
}

// ManagerConfig configures a Connection Manager for one subscription.
type ManagerConfig struct {
	URL        string // base WebSocket URL (e.g. wss://host)
	Key        string // subscription key scoping this connection
	Credential string // bearer token, appended as a query parameter

	HeartbeatInterval    time.Duration // probe interval; also the reply deadline
	ReconnectBaseDelay   time.Duration
	ReconnectMaxDelay    time.Duration
	MaxReconnectAttempts int

	DialTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		HeartbeatInterval:    15 * time.Second,
		ReconnectBaseDelay:   1 * time.Second,
		ReconnectMaxDelay:    30 * time.Second,
		MaxReconnectAttempts: 5,
		DialTimeout:          10 * time.Second,
		WriteTimeout:         5 * time.Second,
		BufferSize:           256,
	}
}

// Backoff returns the reconnect delay for the 1-indexed attempt:
// min(base * 2^(attempt-1), max). No jitter, so the schedule is
// deterministic and reproducible in tests.
func Backoff(attempt int, base, max time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}
