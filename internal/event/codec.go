package event

import (
	"bytes"
	"encoding/json"
)

// Heartbeat control tokens. The client sends the probe as a literal text
// frame and the server answers with the reply token. Any other payload is
// treated as a domain message.
const (
	probeToken = "ping"
	replyToken = "pong"
)

// envelope is the wire shape of every domain event.
type envelope struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"project_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

// eventData is the union of all data fields across event types. Only the
// fields relevant to the envelope's type are populated by the server.
type eventData struct {
	TaskID     string `json:"task_id"`
	AgentType  string `json:"agent_type"`
	Progress   int    `json:"progress"`
	Result     string `json:"result"`
	Error      string `json:"error"`
	Log        string `json:"log"`
	ArtifactID string `json:"artifact_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// ProbeFrame returns the raw frame for a heartbeat probe.
func ProbeFrame() []byte {
	return []byte(probeToken)
}

// IsHeartbeatReply reports whether raw is the heartbeat reply token.
// Callers check this before Decode; replies never become Messages.
func IsHeartbeatReply(raw []byte) bool {
	return bytes.Equal(raw, []byte(replyToken))
}

// Decode converts a raw frame into a Message. Decoding is total: malformed
// input yields ProtocolError and an unrecognized type yields Unknown.
func Decode(raw []byte) Message {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Type == "" {
		return ProtocolError{Raw: raw}
	}

	var data eventData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return ProtocolError{Raw: raw}
		}
	}

	switch env.Type {
	case "task_started":
		return TaskStarted{TaskID: data.TaskID, AgentKind: data.AgentType}
	case "task_progress":
		return TaskProgress{TaskID: data.TaskID, Progress: data.Progress}
	case "task_completed":
		return TaskCompleted{TaskID: data.TaskID, Result: data.Result}
	case "task_failed":
		return TaskFailed{TaskID: data.TaskID, ErrorText: data.Error}
	case "build_log":
		return LogAppended{Source: "build", Text: data.Log}
	case "deploy_log":
		return LogAppended{Source: "deploy", Text: data.Log}
	case "artifact_created":
		return ArtifactCreated{ArtifactID: data.ArtifactID}
	case "project_status":
		return ProjectStatus{Status: data.Status}
	case "error":
		return PipelineError{Message: data.Message}
	default:
		return Unknown{Type: env.Type, Raw: raw}
	}
}
