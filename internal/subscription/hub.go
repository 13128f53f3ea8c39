package subscription

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/systemcrafter/pipewatch/internal/api"
	"github.com/systemcrafter/pipewatch/internal/connection"
)

// ErrUnknownKey is returned when releasing a key that was never acquired.
var ErrUnknownKey = errors.New("subscription: unknown key")

// Hub manages one watcher per subscription key.
type Hub struct {
	cfg    connection.ManagerConfig
	rest   *api.Client // nil disables post-reconnect resync
	logger *slog.Logger

	mu       sync.Mutex
	watchers map[string]*Watcher
}

// NewHub creates a hub. cfg is the base connection configuration; the
// subscription key is stamped per watcher. A nil rest client disables the
// post-reconnect task resync.
func NewHub(cfg connection.ManagerConfig, rest *api.Client, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		cfg:      cfg,
		rest:     rest,
		logger:   logger,
		watchers: make(map[string]*Watcher),
	}
}

// Acquire returns the watcher for key, creating and opening one if the key
// is not yet subscribed. Acquiring an already-subscribed key returns the
// existing watcher without touching its connection; the callbacks argument
// is only used for a newly created watcher.
func (h *Hub) Acquire(ctx context.Context, key string, cb Callbacks) (*Watcher, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if w, ok := h.watchers[key]; ok {
		return w, nil
	}

	cfg := h.cfg
	cfg.Key = key

	w := newWatcher(cfg, cb, h.rest, h.logger)
	if err := w.Open(ctx); err != nil {
		return nil, err
	}

	h.watchers[key] = w
	h.logger.Info("subscription acquired", "key", key)
	return w, nil
}

// Get returns the watcher for key if one exists.
func (h *Hub) Get(key string) (*Watcher, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.watchers[key]
	return w, ok
}

// Release closes the key's connection and discards its projected state.
func (h *Hub) Release(key string) error {
	h.mu.Lock()
	w, ok := h.watchers[key]
	delete(h.watchers, key)
	h.mu.Unlock()

	if !ok {
		return ErrUnknownKey
	}

	h.logger.Info("subscription released", "key", key)
	return w.Close()
}

// Close releases every active subscription.
func (h *Hub) Close() error {
	h.mu.Lock()
	watchers := h.watchers
	h.watchers = make(map[string]*Watcher)
	h.mu.Unlock()

	var firstErr error
	for key, w := range watchers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		h.logger.Info("subscription released", "key", key)
	}
	return firstErr
}
