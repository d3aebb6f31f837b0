package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"portfolio/api/models"
)

type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore instance.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, title, description, tech_stack, github_url, demo_url, images`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p         models.Project
		id        int64
		techStack pq.StringArray
		images    pq.StringArray
	)
	if err := row.Scan(&id, &p.Title, &p.Description, &techStack, &p.GithubURL, &p.DemoURL, &images); err != nil {
		return nil, err
	}
	p.ID = &id
	p.TechStack = []string(techStack)
	p.Images = []string(images)
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

// List returns every project ordered by id.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// Get returns the project with the given id or ErrNotFound.
func (s *ProjectStore) Get(ctx context.Context, id int64) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project %d: %w", id, err)
	}
	return p, nil
}

// Create inserts p, ignoring any client-supplied id.
func (s *ProjectStore) Create(ctx context.Context, p models.Project) (*models.Project, error) {
	query := `
		INSERT INTO projects (title, description, tech_stack, github_url, demo_url, images)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + projectColumns
	row := s.db.QueryRowContext(ctx, query,
		p.Title, p.Description, pq.Array(nonNil(p.TechStack)), p.GithubURL, p.DemoURL, pq.Array(nonNil(p.Images)))
	created, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return created, nil
}

// Update replaces every editable field of the project with the given id.
func (s *ProjectStore) Update(ctx context.Context, id int64, p models.Project) (*models.Project, error) {
	query := `
		UPDATE projects
		SET title = $2, description = $3, tech_stack = $4, github_url = $5, demo_url = $6, images = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + projectColumns
	row := s.db.QueryRowContext(ctx, query,
		id, p.Title, p.Description, pq.Array(nonNil(p.TechStack)), p.GithubURL, p.DemoURL, pq.Array(nonNil(p.Images)))
	updated, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update project %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes the project with the given id or returns ErrNotFound.
func (s *ProjectStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of stored projects.
func (s *ProjectStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
