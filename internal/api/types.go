package api

import (
	"encoding/json"

	"github.com/google/uuid"
)

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse from POST /auth/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Project from GET /projects/{id}.
//
// Timestamps arrive as the server formats them, which is not always
// RFC 3339, so they stay strings.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	OwnerID     uuid.UUID `json:"owner_id"`
	RepoURL     *string   `json:"repo_url"`
	LocalPath   *string   `json:"local_path"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	CompletedAt *string   `json:"completed_at"`
}

// ProjectListResponse from GET /projects.
type ProjectListResponse struct {
	Items []Project `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Pages int       `json:"pages"`
}

// APITask represents an agent task from the orchestrator API.
type APITask struct {
	ID              uuid.UUID       `json:"id"`
	ProjectID       uuid.UUID       `json:"project_id"`
	AgentType       string          `json:"agent_type"`
	Status          string          `json:"status"`
	InputData       json.RawMessage `json:"input_data"`
	OutputData      json.RawMessage `json:"output_data"`
	StartedAt       *string         `json:"started_at"`
	CompletedAt     *string         `json:"completed_at"`
	DurationSeconds *float64        `json:"duration_seconds"`
	ErrorMessage    *string         `json:"error_message"`
	RetryCount      int             `json:"retry_count"`
	CreatedAt       string          `json:"created_at"`
}

// TaskLogs from GET /tasks/{id}/logs.
type TaskLogs struct {
	TaskID       uuid.UUID `json:"task_id"`
	AgentType    string    `json:"agent_type"`
	LLMPrompt    *string   `json:"llm_prompt"`
	LLMResponse  *string   `json:"llm_response"`
	TokensUsed   *int      `json:"tokens_used"`
	ErrorMessage *string   `json:"error_message"`
}

// Artifact from GET /projects/{id}/artifacts.
type Artifact struct {
	ID           uuid.UUID       `json:"id"`
	ProjectID    uuid.UUID       `json:"project_id"`
	TaskID       *uuid.UUID      `json:"task_id"`
	ArtifactType string          `json:"artifact_type"`
	Name         string          `json:"name"`
	FilePath     *string         `json:"file_path"`
	Content      *string         `json:"content"`
	Metadata     json.RawMessage `json:"metadata"`
	CreatedAt    string          `json:"created_at"`
}
