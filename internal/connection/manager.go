package connection

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/systemcrafter/pipewatch/internal/event"
)

// Callbacks are invoked synchronously from manager goroutines. They must
// be fast and must not call back into the Manager.
type Callbacks struct {
	// OnMessage receives every decoded domain message in arrival order.
	// Heartbeat replies are consumed internally and never forwarded.
	OnMessage func(event.Message)

	// OnStateChange is invoked on every state transition.
	OnStateChange func(Status)
}

// Manager owns the single logical connection for one subscription key.
type Manager struct {
	cfg    ManagerConfig
	cb     Callbacks
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	attempt int    // 1-indexed reconnect try count
	gen     uint64 // generation token, bumped per connection attempt
	client  Client
	retry   *time.Timer
	// awaitingReply is set when a probe has been sent and no reply has
	// arrived yet; checked at the next probe tick.
	awaitingReply bool
}

// NewManager creates a Connection Manager for one subscription key.
func NewManager(cfg ManagerConfig, cb Callbacks, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		cfg:    cfg,
		cb:     cb,
		logger: logger.With("key", cfg.Key),
		state:  StateIdle,
	}
}

// Open establishes the connection. Calling Open while the manager is
// already connecting, open, or waiting on a scheduled reconnect is a safe
// no-op, so rapid repeated subscription attempts never produce duplicate
// sockets. Open from Failed resets the attempt counter and tries again.
func (m *Manager) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateConnecting, StateOpen, StateReconnecting:
		return nil
	case StateClosing:
		return ErrAlreadyClosed
	}

	m.attempt = 0
	m.gen++
	m.setStateLocked(Status{State: StateConnecting})
	go m.connect(ctx, m.gen)
	return nil
}

// Close shuts the connection down and cancels all pending timers. No
// reconnect fires after Close returns: the generation bump invalidates
// every scheduled callback.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateIdle {
		return nil
	}

	m.gen++
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}

	m.setStateLocked(Status{State: StateClosing})
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	m.attempt = 0
	m.setStateLocked(Status{State: StateIdle})
	return nil
}

// State returns the current state snapshot.
func (m *Manager) State() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{State: m.state, Attempt: m.attempt}
}

// endpoint builds the key-scoped connection URL with the credential
// appended as a query parameter.
func (m *Manager) endpoint() string {
	u := m.cfg.URL + "/api/v1/ws/projects/" + url.PathEscape(m.cfg.Key)
	if m.cfg.Credential != "" {
		u += "?token=" + url.QueryEscape(m.cfg.Credential)
	}
	return u
}

// connect performs one connection attempt under the given generation.
func (m *Manager) connect(ctx context.Context, gen uint64) {
	client := NewClient(ClientConfig{
		URL:          m.endpoint(),
		DialTimeout:  m.cfg.DialTimeout,
		WriteTimeout: m.cfg.WriteTimeout,
		BufferSize:   m.cfg.BufferSize,
	}, m.logger)

	err := client.Connect(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		// Superseded by Close or a newer Open while dialing.
		client.Close()
		return
	}

	if err != nil {
		m.logger.Warn("connect failed", "error", err)
		m.scheduleRetryLocked(ctx)
		return
	}

	m.client = client
	m.attempt = 0
	m.awaitingReply = false
	m.setStateLocked(Status{State: StateOpen})

	go m.readLoop(ctx, client, gen)
	go m.heartbeatLoop(ctx, client, gen)
}

// readLoop forwards decoded frames to the consumer until the connection
// ends, then decides whether the closure warrants a reconnect.
func (m *Manager) readLoop(ctx context.Context, client Client, gen uint64) {
	for {
		select {
		case <-client.Done():
			return

		case err := <-client.Errors():
			m.mu.Lock()
			if gen != m.gen {
				m.mu.Unlock()
				return
			}
			client.Close()
			m.client = nil
			if errors.Is(err, ErrNormalClosure) {
				// Designated normal code: no reconnect.
				m.logger.Info("server closed connection")
				m.setStateLocked(Status{State: StateClosing})
				m.attempt = 0
				m.setStateLocked(Status{State: StateIdle})
			} else {
				m.logger.Warn("connection lost", "error", err)
				m.scheduleRetryLocked(ctx)
			}
			m.mu.Unlock()
			return

		case msg, ok := <-client.Messages():
			if !ok {
				return
			}

			if event.IsHeartbeatReply(msg.Data) {
				m.mu.Lock()
				if gen == m.gen {
					m.awaitingReply = false
				}
				m.mu.Unlock()
				continue
			}

			decoded := event.Decode(msg.Data)
			if pe, ok := decoded.(event.ProtocolError); ok {
				// Dropped by the reconciler; never fatal.
				m.logger.Warn("undecodable frame", "len", len(pe.Raw))
			}
			if m.cb.OnMessage != nil {
				m.cb.OnMessage(decoded)
			}
		}
	}
}

// heartbeatLoop probes the server on a fixed interval while the
// connection is open. A probe left unanswered by the time the next probe
// is due marks the connection stale without waiting for the transport's
// own failure detection.
func (m *Manager) heartbeatLoop(ctx context.Context, client Client, gen uint64) {
	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-client.Done():
			return

		case <-ticker.C:
			m.mu.Lock()
			if gen != m.gen || m.state != StateOpen {
				m.mu.Unlock()
				return
			}
			if m.awaitingReply {
				m.logger.Warn("forcing reconnect", "error", ErrStaleConnection)
				client.Close()
				m.client = nil
				m.scheduleRetryLocked(ctx)
				m.mu.Unlock()
				return
			}
			m.awaitingReply = true
			m.mu.Unlock()

			if err := client.Send(event.ProbeFrame()); err != nil {
				// The read loop observes the transport failure.
				m.logger.Debug("heartbeat send failed", "error", err)
			}
		}
	}
}

// scheduleRetryLocked advances the reconnect counter and either arms the
// backoff timer or gives up at the attempt ceiling. Callers hold m.mu.
func (m *Manager) scheduleRetryLocked(ctx context.Context) {
	m.attempt++
	if m.attempt > m.cfg.MaxReconnectAttempts {
		m.logger.Error("reconnect attempts exhausted",
			"attempts", m.cfg.MaxReconnectAttempts,
		)
		m.setStateLocked(Status{State: StateFailed})
		return
	}

	delay := Backoff(m.attempt, m.cfg.ReconnectBaseDelay, m.cfg.ReconnectMaxDelay)
	m.logger.Info("reconnecting",
		"attempt", m.attempt,
		"delay", delay,
	)
	m.setStateLocked(Status{State: StateReconnecting, Attempt: m.attempt})

	gen := m.gen
	m.retry = time.AfterFunc(delay, func() {
		m.mu.Lock()
		if gen != m.gen || m.state != StateReconnecting {
			m.mu.Unlock()
			return
		}
		m.gen++
		next := m.gen
		m.setStateLocked(Status{State: StateConnecting})
		m.mu.Unlock()

		m.connect(ctx, next)
	})
}

// setStateLocked records a transition and notifies the consumer.
// Callers hold m.mu; OnStateChange therefore runs with the lock held and
// must not call back into the Manager.
func (m *Manager) setStateLocked(s Status) {
	m.state = s.State
	if m.cb.OnStateChange != nil {
		m.cb.OnStateChange(s)
	}
}
