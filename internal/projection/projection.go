package projection

import (
	"github.com/systemcrafter/pipewatch/internal/event"
)

// TaskStatus is the reconciled state of one pipeline stage.
type TaskStatus string

const (
	StatusQueued    TaskStatus = "queued"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// Task is the projected state of one pipeline stage.
type Task struct {
	ID        string
	AgentKind string
	Status    TaskStatus
	Progress  int // 0-100, monotone non-decreasing while running
	Result    string
	ErrorText string
}

// LogEntry is one build/deploy log line in arrival order.
type LogEntry struct {
	Seq    int // arrival index, 0-based
	Source string
	Text   string
}

// DeltaKind identifies what part of the projection an event changed.
type DeltaKind int

const (
	DeltaNone DeltaKind = iota
	DeltaTask
	DeltaLog
	DeltaArtifact
	DeltaStatus
)

// Delta describes the effect of applying one event.
type Delta struct {
	Kind       DeltaKind
	Task       *Task     // task state after apply (DeltaTask)
	Entry      *LogEntry // appended entry (DeltaLog)
	ArtifactID string    // DeltaArtifact: signal to refresh the artifact list
	Status     string    // pipeline status after apply (DeltaStatus)
}

// Projection is the reconciled view of one pipeline run.
type Projection struct {
	tasks  map[string]*Task
	order  []string // task IDs in first-seen order
	log    []LogEntry
	status string
}

// New creates an empty projection.
func New() *Projection {
	return &Projection{
		tasks: make(map[string]*Task),
	}
}

// Apply folds one event into the projection in arrival order and returns
// a Delta describing the change. Unknown and malformed events produce no
// change; an event referencing an unseen task ID creates it implicitly.
func (p *Projection) Apply(msg event.Message) Delta {
	switch m := msg.(type) {
	case event.TaskStarted:
		t := p.upsert(m.TaskID)
		if m.AgentKind != "" {
			t.AgentKind = m.AgentKind
		}
		t.Status = StatusRunning
		t.Progress = 0
		return taskDelta(t)

	case event.TaskProgress:
		t := p.upsert(m.TaskID)
		if pr := clamp(m.Progress); pr > t.Progress {
			t.Progress = pr
		}
		return taskDelta(t)

	case event.TaskCompleted:
		t := p.upsert(m.TaskID)
		t.Status = StatusCompleted
		t.Progress = 100
		t.Result = m.Result
		return taskDelta(t)

	case event.TaskFailed:
		t := p.upsert(m.TaskID)
		t.Status = StatusFailed
		t.ErrorText = m.ErrorText
		return taskDelta(t)

	case event.LogAppended:
		return p.appendLog(m.Source, m.Text)

	case event.ArtifactCreated:
		// Never mutates task or log state; the consumer refreshes the
		// artifact list through the REST API.
		return Delta{Kind: DeltaArtifact, ArtifactID: m.ArtifactID}

	case event.ProjectStatus:
		p.status = m.Status
		return Delta{Kind: DeltaStatus, Status: m.Status}

	case event.PipelineError:
		return p.appendLog("pipeline", m.Message)

	default:
		// event.Unknown, event.ProtocolError
		return Delta{Kind: DeltaNone}
	}
}

// Sync upserts a task snapshot fetched from the REST API after a
// reconnect. The server is authoritative for status and error text;
// progress never regresses below what the live stream already showed.
func (p *Projection) Sync(snap Task) Delta {
	t := p.upsert(snap.ID)
	if snap.AgentKind != "" {
		t.AgentKind = snap.AgentKind
	}
	t.Status = snap.Status
	t.Result = snap.Result
	t.ErrorText = snap.ErrorText
	if pr := clamp(snap.Progress); pr > t.Progress {
		t.Progress = pr
	}
	if t.Status == StatusCompleted {
		t.Progress = 100
	}
	return taskDelta(t)
}

// Task returns a copy of the task with the given ID.
func (p *Projection) Task(id string) (Task, bool) {
	t, ok := p.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Tasks returns copies of all tasks in first-seen order.
func (p *Projection) Tasks() []Task {
	out := make([]Task, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.tasks[id])
	}
	return out
}

// Log returns the append-only log sequence in arrival order. The core
// never truncates; display-side capping is the consumer's concern.
func (p *Projection) Log() []LogEntry {
	out := make([]LogEntry, len(p.log))
	copy(out, p.log)
	return out
}

// Status returns the overall pipeline status, or "" if none seen yet.
func (p *Projection) Status() string {
	return p.status
}

// upsert returns the task with the given ID, creating it as an implicit
// start (running, progress 0) on first sight.
func (p *Projection) upsert(id string) *Task {
	if t, ok := p.tasks[id]; ok {
		return t
	}
	t := &Task{ID: id, Status: StatusRunning}
	p.tasks[id] = t
	p.order = append(p.order, id)
	return t
}

func (p *Projection) appendLog(source, text string) Delta {
	entry := LogEntry{Seq: len(p.log), Source: source, Text: text}
	p.log = append(p.log, entry)
	return Delta{Kind: DeltaLog, Entry: &entry}
}

func taskDelta(t *Task) Delta {
	snapshot := *t
	return Delta{Kind: DeltaTask, Task: &snapshot}
}

func clamp(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
