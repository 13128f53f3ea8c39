package projection

import (
	"testing"

	"github.com/systemcrafter/pipewatch/internal/event"
)

func TestApply_ProgressIsMaxSeen(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"increasing", []int{10, 40, 70}, 70},
		{"out of order", []int{40, 30, 60, 50}, 60},
		{"repeated", []int{25, 25, 25}, 25},
		{"clamped high", []int{40, 250}, 100},
		{"clamped low", []int{-5, 30}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			p.Apply(event.TaskStarted{TaskID: "t1", AgentKind: "builder"})
			for _, v := range tt.values {
				p.Apply(event.TaskProgress{TaskID: "t1", Progress: v})
			}

			task, ok := p.Task("t1")
			if !ok {
				t.Fatal("task t1 not found")
			}
			if task.Progress != tt.want {
				t.Errorf("Progress = %d, want %d", task.Progress, tt.want)
			}
			if task.Status != StatusRunning {
				t.Errorf("Status = %q, want %q", task.Status, StatusRunning)
			}
		})
	}
}

func TestApply_CompletedForcesProgress100(t *testing.T) {
	p := New()
	p.Apply(event.TaskStarted{TaskID: "t1"})

	delta := p.Apply(event.TaskCompleted{TaskID: "t1", Result: "ok"})
	if delta.Kind != DeltaTask {
		t.Fatalf("Kind = %v, want DeltaTask", delta.Kind)
	}

	task, _ := p.Task("t1")
	if task.Status != StatusCompleted {
		t.Errorf("Status = %q, want %q", task.Status, StatusCompleted)
	}
	if task.Progress != 100 {
		t.Errorf("Progress = %d, want 100 (was 0 before completion)", task.Progress)
	}
	if task.Result != "ok" {
		t.Errorf("Result = %q, want %q", task.Result, "ok")
	}
}

func TestApply_FailedKeepsProgressSetsError(t *testing.T) {
	p := New()
	p.Apply(event.TaskStarted{TaskID: "t1"})
	p.Apply(event.TaskProgress{TaskID: "t1", Progress: 60})

	p.Apply(event.TaskFailed{TaskID: "t1", ErrorText: "llm timeout"})

	task, _ := p.Task("t1")
	if task.Status != StatusFailed {
		t.Errorf("Status = %q, want %q", task.Status, StatusFailed)
	}
	if task.Progress != 60 {
		t.Errorf("Progress = %d, want 60 (unchanged)", task.Progress)
	}
	if task.ErrorText != "llm timeout" {
		t.Errorf("ErrorText = %q, want %q", task.ErrorText, "llm timeout")
	}
}

func TestApply_ImplicitStart(t *testing.T) {
	p := New()

	// Progress for a task never started: created as running.
	p.Apply(event.TaskProgress{TaskID: "t1", Progress: 30})
	task, ok := p.Task("t1")
	if !ok {
		t.Fatal("task t1 not created implicitly")
	}
	if task.Status != StatusRunning {
		t.Errorf("Status = %q, want %q", task.Status, StatusRunning)
	}
	if task.Progress != 30 {
		t.Errorf("Progress = %d, want 30", task.Progress)
	}

	// Completion for a task never started.
	p.Apply(event.TaskCompleted{TaskID: "t2"})
	task, ok = p.Task("t2")
	if !ok {
		t.Fatal("task t2 not created implicitly")
	}
	if task.Status != StatusCompleted || task.Progress != 100 {
		t.Errorf("got %q/%d, want completed/100", task.Status, task.Progress)
	}
}

func TestApply_OutOfOrderScenario(t *testing.T) {
	// [TaskStarted(t1), TaskProgress(t1,40), TaskProgress(t1,30),
	//  TaskCompleted(t1)] -> {t1: completed, progress 100}.
	p := New()
	msgs := []event.Message{
		event.TaskStarted{TaskID: "t1", AgentKind: "backend_generator"},
		event.TaskProgress{TaskID: "t1", Progress: 40},
		event.TaskProgress{TaskID: "t1", Progress: 30},
		event.TaskCompleted{TaskID: "t1"},
	}
	for _, m := range msgs {
		p.Apply(m)
	}

	task, _ := p.Task("t1")
	if task.Status != StatusCompleted {
		t.Errorf("Status = %q, want %q", task.Status, StatusCompleted)
	}
	if task.Progress != 100 {
		t.Errorf("Progress = %d, want 100", task.Progress)
	}
}

func TestApply_StartResetsProgress(t *testing.T) {
	p := New()
	p.Apply(event.TaskProgress{TaskID: "t1", Progress: 70})

	p.Apply(event.TaskStarted{TaskID: "t1", AgentKind: "builder"})

	task, _ := p.Task("t1")
	if task.Progress != 0 {
		t.Errorf("Progress = %d, want 0 after explicit start", task.Progress)
	}
	if task.AgentKind != "builder" {
		t.Errorf("AgentKind = %q, want %q", task.AgentKind, "builder")
	}
}

func TestApply_LogInterleaving(t *testing.T) {
	p := New()
	p.Apply(event.TaskStarted{TaskID: "t1"})
	p.Apply(event.LogAppended{Source: "build", Text: "step 1"})
	p.Apply(event.TaskProgress{TaskID: "t1", Progress: 50})
	p.Apply(event.LogAppended{Source: "build", Text: "step 2"})
	p.Apply(event.LogAppended{Source: "deploy", Text: "step 3"})

	// Log events never alter tasks.
	task, _ := p.Task("t1")
	if task.Status != StatusRunning || task.Progress != 50 {
		t.Errorf("task mutated by log events: %+v", task)
	}

	// Arrival order preserved.
	log := p.Log()
	if len(log) != 3 {
		t.Fatalf("len(log) = %d, want 3", len(log))
	}
	wantTexts := []string{"step 1", "step 2", "step 3"}
	for i, want := range wantTexts {
		if log[i].Text != want {
			t.Errorf("log[%d].Text = %q, want %q", i, log[i].Text, want)
		}
		if log[i].Seq != i {
			t.Errorf("log[%d].Seq = %d, want %d", i, log[i].Seq, i)
		}
	}
}

func TestApply_ArtifactDoesNotMutate(t *testing.T) {
	p := New()
	p.Apply(event.TaskStarted{TaskID: "t1"})
	p.Apply(event.LogAppended{Source: "build", Text: "line"})

	delta := p.Apply(event.ArtifactCreated{ArtifactID: "a1"})

	if delta.Kind != DeltaArtifact || delta.ArtifactID != "a1" {
		t.Errorf("delta = %+v, want artifact signal a1", delta)
	}
	if len(p.Tasks()) != 1 || len(p.Log()) != 1 {
		t.Error("artifact event mutated projection state")
	}
}

func TestApply_ProjectStatusAndPipelineError(t *testing.T) {
	p := New()

	delta := p.Apply(event.ProjectStatus{Status: "building"})
	if delta.Kind != DeltaStatus || delta.Status != "building" {
		t.Errorf("delta = %+v, want status building", delta)
	}
	if p.Status() != "building" {
		t.Errorf("Status() = %q, want %q", p.Status(), "building")
	}

	delta = p.Apply(event.PipelineError{Message: "no healthy workers"})
	if delta.Kind != DeltaLog {
		t.Fatalf("Kind = %v, want DeltaLog", delta.Kind)
	}
	log := p.Log()
	if len(log) != 1 || log[0].Source != "pipeline" || log[0].Text != "no healthy workers" {
		t.Errorf("log = %+v, want one pipeline entry", log)
	}
}

func TestApply_IgnoredVariants(t *testing.T) {
	p := New()

	if d := p.Apply(event.Unknown{Type: "llm_tokens"}); d.Kind != DeltaNone {
		t.Errorf("Unknown: Kind = %v, want DeltaNone", d.Kind)
	}
	if d := p.Apply(event.ProtocolError{Raw: []byte("!!!")}); d.Kind != DeltaNone {
		t.Errorf("ProtocolError: Kind = %v, want DeltaNone", d.Kind)
	}
	if len(p.Tasks()) != 0 || len(p.Log()) != 0 {
		t.Error("ignored variants mutated projection state")
	}
}

func TestTasks_FirstSeenOrder(t *testing.T) {
	p := New()
	p.Apply(event.TaskStarted{TaskID: "t2"})
	p.Apply(event.TaskStarted{TaskID: "t1"})
	p.Apply(event.TaskProgress{TaskID: "t2", Progress: 10})
	p.Apply(event.TaskStarted{TaskID: "t3"})

	tasks := p.Tasks()
	want := []string{"t2", "t1", "t3"}
	if len(tasks) != len(want) {
		t.Fatalf("len(tasks) = %d, want %d", len(tasks), len(want))
	}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d].ID = %q, want %q", i, tasks[i].ID, id)
		}
	}
}

func TestSync_ServerAuthoritativeButProgressMonotone(t *testing.T) {
	p := New()
	p.Apply(event.TaskStarted{TaskID: "t1", AgentKind: "builder"})
	p.Apply(event.TaskProgress{TaskID: "t1", Progress: 80})

	// REST snapshot lags behind the live stream.
	p.Sync(Task{ID: "t1", Status: StatusRunning, Progress: 40})
	task, _ := p.Task("t1")
	if task.Progress != 80 {
		t.Errorf("Progress = %d, want 80 (no regression)", task.Progress)
	}

	// Snapshot says completed: status wins, progress forced to 100.
	p.Sync(Task{ID: "t1", Status: StatusCompleted, Result: "ok"})
	task, _ = p.Task("t1")
	if task.Status != StatusCompleted || task.Progress != 100 {
		t.Errorf("got %q/%d, want completed/100", task.Status, task.Progress)
	}

	// Snapshot introduces a task the stream never mentioned.
	p.Sync(Task{ID: "t9", AgentKind: "qa_agent", Status: StatusQueued})
	task, ok := p.Task("t9")
	if !ok {
		t.Fatal("task t9 not created from snapshot")
	}
	if task.Status != StatusQueued {
		t.Errorf("Status = %q, want %q", task.Status, StatusQueued)
	}
}
