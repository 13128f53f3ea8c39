package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, projectID uuid.UUID) (*Project, error) {
	var resp Project
	if err := c.get(ctx, "/projects/"+projectID.String(), nil, &resp); err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	return &resp, nil
}

// ListProjects fetches a page of projects owned by the caller.
func (c *Client) ListProjects(ctx context.Context, page, size int) (*ProjectListResponse, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	var resp ProjectListResponse
	if err := c.get(ctx, "/projects", query, &resp); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return &resp, nil
}

// ListArtifacts fetches all artifacts produced for a project.
func (c *Client) ListArtifacts(ctx context.Context, projectID uuid.UUID) ([]Artifact, error) {
	var resp []Artifact
	if err := c.get(ctx, "/projects/"+projectID.String()+"/artifacts", nil, &resp); err != nil {
		return nil, fmt.Errorf("list artifacts %s: %w", projectID, err)
	}
	return resp, nil
}
