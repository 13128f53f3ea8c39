package subscription

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/systemcrafter/pipewatch/internal/api"
	"github.com/systemcrafter/pipewatch/internal/connection"
	"github.com/systemcrafter/pipewatch/internal/event"
	"github.com/systemcrafter/pipewatch/internal/projection"
)

// Callbacks are invoked synchronously from connection goroutines. They
// must be fast and must not call back into the Watcher or its Hub.
type Callbacks struct {
	// OnEvent receives every decoded message before it is folded into
	// the projection, including Unknown and ProtocolError.
	OnEvent func(event.Message)

	// OnDelta receives the projection change produced by each event.
	// Events that change nothing are not reported.
	OnDelta func(projection.Delta)

	// OnState receives every connection state transition.
	OnState func(connection.Status)
}

// Watcher binds one subscription key to a connection manager and the
// projection fed by it.
type Watcher struct {
	key    string
	cb     Callbacks
	rest   *api.Client // nil disables post-reconnect resync
	logger *slog.Logger

	manager *connection.Manager

	mu   sync.Mutex
	proj *projection.Projection
	// reconnected records that the connection dropped since it was last
	// open, so the next transition to Open triggers a snapshot refetch.
	reconnected bool
	ctx         context.Context
}

func newWatcher(cfg connection.ManagerConfig, cb Callbacks, rest *api.Client, logger *slog.Logger) *Watcher {
	w := &Watcher{
		key:    cfg.Key,
		cb:     cb,
		rest:   rest,
		logger: logger.With("key", cfg.Key),
		proj:   projection.New(),
	}

	w.manager = connection.NewManager(cfg, connection.Callbacks{
		OnMessage:     w.handleMessage,
		OnStateChange: w.handleState,
	}, logger)

	return w
}

// Key returns the subscription key this watcher is bound to.
func (w *Watcher) Key() string {
	return w.key
}

// Open establishes the watcher's connection. Safe to call repeatedly.
func (w *Watcher) Open(ctx context.Context) error {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()
	return w.manager.Open(ctx)
}

// Close tears the connection down. The projected state remains readable
// until the watcher is released from its hub.
func (w *Watcher) Close() error {
	return w.manager.Close()
}

// ConnState returns the current connection state snapshot.
func (w *Watcher) ConnState() connection.Status {
	return w.manager.State()
}

// Task returns a copy of the projected task with the given ID.
func (w *Watcher) Task(id string) (projection.Task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.proj.Task(id)
}

// Tasks returns the projected tasks in first-seen order.
func (w *Watcher) Tasks() []projection.Task {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.proj.Tasks()
}

// Log returns the accumulated log entries in arrival order.
func (w *Watcher) Log() []projection.LogEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.proj.Log()
}

// PipelineStatus returns the last reported pipeline status.
func (w *Watcher) PipelineStatus() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.proj.Status()
}

func (w *Watcher) handleMessage(msg event.Message) {
	if w.cb.OnEvent != nil {
		w.cb.OnEvent(msg)
	}

	w.mu.Lock()
	delta := w.proj.Apply(msg)
	w.mu.Unlock()

	if delta.Kind != projection.DeltaNone && w.cb.OnDelta != nil {
		w.cb.OnDelta(delta)
	}
}

func (w *Watcher) handleState(st connection.Status) {
	w.mu.Lock()
	switch st.State {
	case connection.StateReconnecting:
		w.reconnected = true
	case connection.StateOpen:
		if w.reconnected {
			w.reconnected = false
			if w.rest != nil {
				// Refetch off the connection goroutine; the stream
				// keeps flowing while the snapshot folds in.
				go w.resync(w.ctx)
			}
		}
	}
	w.mu.Unlock()

	if w.cb.OnState != nil {
		w.cb.OnState(st)
	}
}

// resync folds the server's task list into the projection after a
// re-established connection, covering events missed while disconnected.
func (w *Watcher) resync(ctx context.Context) {
	projectID, err := uuid.Parse(w.key)
	if err != nil {
		w.logger.Warn("resync skipped, key is not a project id", "error", err)
		return
	}

	tasks, err := w.rest.ListProjectTasks(ctx, projectID)
	if err != nil {
		w.logger.Warn("resync failed", "error", err)
		return
	}

	w.logger.Info("resynced task list", "tasks", len(tasks))

	for _, t := range tasks {
		snap := snapshotTask(t)

		w.mu.Lock()
		delta := w.proj.Sync(snap)
		w.mu.Unlock()

		if delta.Kind != projection.DeltaNone && w.cb.OnDelta != nil {
			w.cb.OnDelta(delta)
		}
	}
}

// snapshotTask converts a REST task into its projected form.
func snapshotTask(t api.APITask) projection.Task {
	snap := projection.Task{
		ID:        t.ID.String(),
		AgentKind: t.AgentType,
	}

	switch t.Status {
	case "queued":
		snap.Status = projection.StatusQueued
	case "completed":
		snap.Status = projection.StatusCompleted
		snap.Progress = 100
		if len(t.OutputData) > 0 {
			snap.Result = string(t.OutputData)
		}
	case "failed":
		snap.Status = projection.StatusFailed
		if t.ErrorMessage != nil {
			snap.ErrorText = *t.ErrorMessage
		}
	default:
		// running, retrying, and anything the server adds later
		snap.Status = projection.StatusRunning
	}

	return snap
}
