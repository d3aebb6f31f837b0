package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"portfolio/api/models"
)

// DefaultProjects are the portfolio entries loaded into an empty database.
var DefaultProjects = []models.Project{
	{
		Title:       "AI Portfolio Assistant",
		Description: "A ChatGPT-powered bot that answers questions about my skills & projects live on my portfolio site. Features intelligent conversation capabilities, real-time responses, and seamless integration with my portfolio content.",
		TechStack:   []string{"Next.js", "OpenAI API", "Zustand", "TypeScript", "Tailwind CSS"},
		GithubURL:   "https://github.com/glaogideonelorm/Portfolio",
		DemoURL:     "https://gideonglago.com",
		Images:      []string{"/api/projects/1/images/1", "/api/projects/1/images/2"},
	},
	{
		Title:       "P2P Payment Automation Platform",
		Description: "A comprehensive peer-to-peer payment automation system built with Java and React. Features secure transaction processing, real-time payment tracking, automated reconciliation, and fraud detection capabilities.",
		TechStack:   []string{"Java", "Spring Boot", "React", "PostgreSQL", "Redis", "Docker"},
		GithubURL:   "https://github.com/glaogideonelorm/p2p-payment-platform",
		DemoURL:     "https://p2p-payment.demo.com",
		Images:      []string{"/api/projects/2/images/1", "/api/projects/2/images/2"},
	},
	{
		Title:       "Smart Expense Classifier",
		Description: "An AI-powered system that classifies bank SMS alerts into spending categories using transformer embeddings. Automatically categorizes transactions for better financial tracking and budgeting.",
		TechStack:   []string{"Python", "FastAPI", "HuggingFace", "Transformers", "Machine Learning"},
		GithubURL:   "https://github.com/glaogideonelorm/smart-expense-classifier",
		DemoURL:     "https://expense-classifier.demo.com",
		Images:      []string{"/api/projects/3/images/1", "/api/projects/3/images/2"},
	},
	{
		Title:       "Code-Prompt Snippets",
		Description: "A VS Code extension that suggests code completions fine-tuned on my GitHub data. Provides intelligent code suggestions based on my coding patterns and project history.",
		TechStack:   []string{"TypeScript", "OpenAI API", "VS Code Extension API", "Node.js"},
		GithubURL:   "https://github.com/glaogideonelorm/code-prompt-snippets",
		DemoURL:     "https://marketplace.visualstudio.com/items?itemName=glaogideonelorm.code-snippets",
		Images:      []string{"/api/projects/4/images/1", "/api/projects/4/images/2"},
	},
	{
		Title:       "P2P Fraud Detector",
		Description: "A real-time fraud detection system for peer-to-peer transactions using machine learning. Detects anomalous transactions and suspicious patterns to prevent financial fraud.",
		TechStack:   []string{"Java", "XGBoost", "Spring Boot", "Apache Kafka", "Redis", "Docker"},
		GithubURL:   "https://github.com/glaogideonelorm/p2p-fraud-detector",
		DemoURL:     "https://fraud-detector.demo.com",
		Images:      []string{"/api/projects/5/images/1", "/api/projects/5/images/2"},
	},
	{
		Title:       "Cybersecurity Dashboard",
		Description: "A comprehensive cybersecurity monitoring dashboard that provides real-time threat detection, vulnerability assessment, and security analytics. Features include network monitoring, incident response, and compliance reporting.",
		TechStack:   []string{"React", "Node.js", "PostgreSQL", "Docker", "Redis", "WebSocket"},
		GithubURL:   "https://github.com/glaogideonelorm/cyber-dashboard",
		DemoURL:     "https://cyber-dashboard.demo.com",
		Images:      []string{"/api/projects/6/images/1", "/api/projects/6/images/2"},
	},
}

// ProjectSeeder is the subset of ProjectStore used for seeding.
type ProjectSeeder interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, p models.Project) (*models.Project, error)
}

// SeedProjects inserts DefaultProjects when no project exists yet.
// It reports how many projects were created.
func SeedProjects(ctx context.Context, s ProjectSeeder, logger zerolog.Logger) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for i, p := range DefaultProjects {
		if _, err := s.Create(ctx, p); err != nil {
			return i, fmt.Errorf("failed to seed project %q: %w", p.Title, err)
		}
	}

	logger.Info().Int("count", len(DefaultProjects)).Msg("seeded default projects")
	return len(DefaultProjects), nil
}
