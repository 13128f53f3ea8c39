package event

// Message is a decoded domain event from the generation pipeline stream.
//
// It is a closed sum type: every variant is declared in this package, so a
// type switch over Message can be checked for exhaustiveness by inspection.
// Heartbeat control frames are not Messages; they are consumed by the
// Connection Manager before decoding.
type Message interface {
	domainMessage()
}

// TaskStarted signals that a pipeline stage began executing.
type TaskStarted struct {
	TaskID    string
	AgentKind string
}

// TaskProgress reports stage completion in percent (0-100).
type TaskProgress struct {
	TaskID   string
	Progress int
}

// TaskCompleted signals that a pipeline stage finished successfully.
type TaskCompleted struct {
	TaskID string
	Result string
}

// TaskFailed signals that a pipeline stage failed.
type TaskFailed struct {
	TaskID    string
	ErrorText string
}

// LogAppended carries one build or deploy log line.
type LogAppended struct {
	Source string // "build" or "deploy"
	Text   string
}

// ArtifactCreated signals that the pipeline produced a new artifact.
// It carries no state of its own; consumers refresh the artifact list
// through the REST API.
type ArtifactCreated struct {
	ArtifactID string
}

// ProjectStatus reports the overall pipeline phase
// (pending, analyzing, designing, generating, building, deploying,
// completed, failed).
type ProjectStatus struct {
	Status string
}

// PipelineError reports a pipeline-level failure message.
type PipelineError struct {
	Message string
}

// Unknown is a recognized envelope whose type discriminant this client
// does not know. Surfaced as data, not as an error, so newer servers can
// add event types without breaking older clients.
type Unknown struct {
	Type string
	Raw  []byte
}

// ProtocolError is a frame that failed to decode. The frame is dropped by
// the reconciler; the raw bytes are kept for observability.
type ProtocolError struct {
	Raw []byte
}

func (TaskStarted) domainMessage()     {}
func (TaskProgress) domainMessage()    {}
func (TaskCompleted) domainMessage()   {}
func (TaskFailed) domainMessage()      {}
func (LogAppended) domainMessage()     {}
func (ArtifactCreated) domainMessage() {}
func (ProjectStatus) domainMessage()   {}
func (PipelineError) domainMessage()   {}
func (Unknown) domainMessage()         {}
func (ProtocolError) domainMessage()   {}
