package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portfolio/api/models"
	"portfolio/api/store"
)

// ProjectRepository persists portfolio projects.
type ProjectRepository interface {
	List(ctx context.Context) ([]models.Project, error)
	Get(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, p models.Project) (*models.Project, error)
	Update(ctx context.Context, id int64, p models.Project) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
}

type ProjectHandlers struct {
	Projects ProjectRepository
	logger   zerolog.Logger
}

func NewProjectHandlers(projects ProjectRepository, logger zerolog.Logger) *ProjectHandlers {
	return &ProjectHandlers{
		Projects: projects,
		logger:   logger.With().Str("component", "projects").Logger(),
	}
}

func (h *ProjectHandlers) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	projects, err := h.Projects.List(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list projects")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}
	c.JSON(http.StatusOK, orEmpty(projects))
}

func (h *ProjectHandlers) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Projects.Get(ctx, id)
	if err != nil {
		h.respondError(c, err, id, "get")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectHandlers) Create(c *gin.Context) {
	var req models.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Projects.Create(ctx, req)
	if err != nil {
		h.logger.Error().Err(err).Str("title", req.Title).Msg("failed to create project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}
	h.logger.Info().Int64("id", *p.ID).Str("by", c.GetString("admin_user")).Msg("project created")
	c.JSON(http.StatusCreated, p)
}

func (h *ProjectHandlers) Update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req models.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Projects.Update(ctx, id, req)
	if err != nil {
		h.respondError(c, err, id, "update")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectHandlers) Delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.Projects.Delete(ctx, id); err != nil {
		h.respondError(c, err, id, "delete")
		return
	}
	h.logger.Info().Int64("id", id).Str("by", c.GetString("admin_user")).Msg("project deleted")
	c.Status(http.StatusNoContent)
}

func (h *ProjectHandlers) respondError(c *gin.Context, err error, id int64, op string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	h.logger.Error().Err(err).Int64("id", id).Str("op", op).Msg("project operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op + " project"})
}

func projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return 0, false
	}
	return id, true
}
