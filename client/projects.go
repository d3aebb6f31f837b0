package client

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"portfolio/api/models"
)

func projectPath(id int64) string {
	return "/projects/" + strconv.FormatInt(id, 10)
}

// GetProjects returns all projects, or an empty list on failure.
func (c *Client) GetProjects(ctx context.Context) []models.Project {
	var projects []models.Project
	if err := c.getJSON(ctx, "/projects", &projects); err != nil {
		c.logger.Error().Err(err).Msg("error fetching projects")
		return []models.Project{}
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects
}

// GetProject returns the project or nil on failure.
func (c *Client) GetProject(ctx context.Context, id int64) *models.Project {
	var p models.Project
	if err := c.getJSON(ctx, projectPath(id), &p); err != nil {
		c.logger.Error().Err(err).Int64("id", id).Msg("error fetching project")
		return nil
	}
	return &p
}

// CreateProject returns the stored project, with its server id, or nil on
// failure.
func (c *Client) CreateProject(ctx context.Context, p models.Project) *models.Project {
	p.ID = nil
	return c.sendProject(ctx, http.MethodPost, "/projects", p)
}

// UpdateProject returns the stored project or nil on failure.
func (c *Client) UpdateProject(ctx context.Context, id int64, p models.Project) *models.Project {
	return c.sendProject(ctx, http.MethodPut, projectPath(id), p)
}

func (c *Client) sendProject(ctx context.Context, method, path string, p models.Project) *models.Project {
	resp, err := c.do(ctx, method, path, p, true)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("error saving project")
		return nil
	}
	var out models.Project
	if err := decodeResponse(resp, &out); err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("error decoding project")
		return nil
	}
	return &out
}

// DeleteProject reports whether the collector deleted the project.
func (c *Client) DeleteProject(ctx context.Context, id int64) bool {
	resp, err := c.do(ctx, http.MethodDelete, projectPath(id), nil, true)
	if err != nil {
		c.logger.Error().Err(err).Int64("id", id).Msg("error deleting project")
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return true
}
