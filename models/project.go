package models

// Project is a portfolio work item.
type Project struct {
	ID          *int64   `json:"id,omitempty"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	TechStack   []string `json:"techStack"`
	GithubURL   string   `json:"githubUrl"`
	DemoURL     string   `json:"demoUrl"`
	Images      []string `json:"images"`
}
