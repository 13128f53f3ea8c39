package event

import (
	"reflect"
	"testing"
)

func TestDecode_TaskEvents(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Message
	}{
		{
			name: "task started",
			raw:  `{"type":"task_started","project_id":"p1","data":{"task_id":"t1","agent_type":"builder"},"timestamp":"2026-01-15 10:00:00"}`,
			want: TaskStarted{TaskID: "t1", AgentKind: "builder"},
		},
		{
			name: "task progress",
			raw:  `{"type":"task_progress","project_id":"p1","data":{"task_id":"t1","progress":40}}`,
			want: TaskProgress{TaskID: "t1", Progress: 40},
		},
		{
			name: "task completed",
			raw:  `{"type":"task_completed","project_id":"p1","data":{"task_id":"t1","result":"ok"}}`,
			want: TaskCompleted{TaskID: "t1", Result: "ok"},
		},
		{
			name: "task failed",
			raw:  `{"type":"task_failed","project_id":"p1","data":{"task_id":"t1","agent_type":"qa_agent","error":"timeout"}}`,
			want: TaskFailed{TaskID: "t1", ErrorText: "timeout"},
		},
		{
			name: "build log",
			raw:  `{"type":"build_log","project_id":"p1","data":{"log":"compiling"}}`,
			want: LogAppended{Source: "build", Text: "compiling"},
		},
		{
			name: "deploy log",
			raw:  `{"type":"deploy_log","project_id":"p1","data":{"log":"pushing image"}}`,
			want: LogAppended{Source: "deploy", Text: "pushing image"},
		},
		{
			name: "artifact created",
			raw:  `{"type":"artifact_created","project_id":"p1","data":{"artifact_id":"a9"}}`,
			want: ArtifactCreated{ArtifactID: "a9"},
		},
		{
			name: "project status",
			raw:  `{"type":"project_status","project_id":"p1","data":{"status":"building"}}`,
			want: ProjectStatus{Status: "building"},
		},
		{
			name: "pipeline error",
			raw:  `{"type":"error","project_id":"p1","data":{"message":"pipeline failed"}}`,
			want: PipelineError{Message: "pipeline failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode([]byte(tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecode_UnknownType(t *testing.T) {
	raw := []byte(`{"type":"llm_tokens","project_id":"p1","data":{"count":12}}`)

	msg := Decode(raw)
	unknown, ok := msg.(Unknown)
	if !ok {
		t.Fatalf("Decode() = %#v, want Unknown", msg)
	}
	if unknown.Type != "llm_tokens" {
		t.Errorf("Type = %q, want %q", unknown.Type, "llm_tokens")
	}
	if string(unknown.Raw) != string(raw) {
		t.Errorf("Raw = %q, want original frame", unknown.Raw)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "!!!"},
		{"empty", ""},
		{"missing type", `{"project_id":"p1","data":{}}`},
		{"bad data payload", `{"type":"task_progress","data":[1,2,3]}`},
		{"stray text frame", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Decode([]byte(tt.raw))
			if _, ok := msg.(ProtocolError); !ok {
				t.Errorf("Decode(%q) = %#v, want ProtocolError", tt.raw, msg)
			}
		})
	}
}

func TestHeartbeatTokens(t *testing.T) {
	if !IsHeartbeatReply([]byte("pong")) {
		t.Error(`IsHeartbeatReply("pong") = false, want true`)
	}
	if IsHeartbeatReply([]byte("ping")) {
		t.Error(`IsHeartbeatReply("ping") = true, want false`)
	}
	if IsHeartbeatReply([]byte(`{"type":"pong"}`)) {
		t.Error("json frame classified as heartbeat reply")
	}
	if string(ProbeFrame()) != "ping" {
		t.Errorf("ProbeFrame() = %q, want %q", ProbeFrame(), "ping")
	}
}
