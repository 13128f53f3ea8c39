package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ListProjectTasks fetches all agent tasks for a project, ordered by creation
// time on the server side.
func (c *Client) ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]APITask, error) {
	var resp []APITask
	if err := c.get(ctx, "/tasks/project/"+projectID.String(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list project tasks %s: %w", projectID, err)
	}
	return resp, nil
}

// GetTask fetches a single agent task by ID.
func (c *Client) GetTask(ctx context.Context, taskID uuid.UUID) (*APITask, error) {
	var resp APITask
	if err := c.get(ctx, "/tasks/"+taskID.String(), nil, &resp); err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}
	return &resp, nil
}

// GetTaskLogs fetches the execution logs recorded for a task.
func (c *Client) GetTaskLogs(ctx context.Context, taskID uuid.UUID) (*TaskLogs, error) {
	var resp TaskLogs
	if err := c.get(ctx, "/tasks/"+taskID.String()+"/logs", nil, &resp); err != nil {
		return nil, fmt.Errorf("get task logs %s: %w", taskID, err)
	}
	return &resp, nil
}
