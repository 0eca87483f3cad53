package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lingofolio/internal/database"
	"lingofolio/internal/models"
)

// GrammarRepository handles database operations for grammar topics
type GrammarRepository struct {
	db *database.DB
}

// NewGrammarRepository creates a new grammar repository
func NewGrammarRepository(db *database.DB) *GrammarRepository {
	return &GrammarRepository{db: db}
}

// List returns topics, optionally restricted to one level
func (r *GrammarRepository) List(ctx context.Context, level string) ([]models.GrammarTopic, error) {
	query := `SELECT id, title, level, body, created_at, updated_at FROM grammar_topics`
	var args []interface{}
	if level != "" {
		query += ` WHERE level = ?`
		args = append(args, level)
	}
	query += ` ORDER BY level, title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grammar topics: %w", err)
	}
	defer rows.Close()

	var topics []models.GrammarTopic
	for rows.Next() {
		var g models.GrammarTopic
		if err := rows.Scan(&g.ID, &g.Title, &g.Level, &g.Body, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grammar topic: %w", err)
		}
		topics = append(topics, g)
	}

	return topics, rows.Err()
}

// GetByID retrieves a topic by ID, or nil if it does not exist
func (r *GrammarRepository) GetByID(ctx context.Context, id int64) (*models.GrammarTopic, error) {
	query := `SELECT id, title, level, body, created_at, updated_at FROM grammar_topics WHERE id = ?`
	g := &models.GrammarTopic{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Title, &g.Level, &g.Body, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grammar topic: %w", err)
	}
	return g, nil
}

// Create inserts a topic
func (r *GrammarRepository) Create(ctx context.Context, g *models.GrammarTopic) error {
	now := time.Now().UTC()
	g.CreatedAt, g.UpdatedAt = now, now
	query := "INSERT INTO grammar_topics (title, level, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, g.Title, g.Level, g.Body, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create grammar topic: %w", err)
	}
	g.ID = id
	return nil
}

// Update rewrites a topic
func (r *GrammarRepository) Update(ctx context.Context, g *models.GrammarTopic) error {
	g.UpdatedAt = time.Now().UTC()
	query := "UPDATE grammar_topics SET title = ?, level = ?, body = ?, updated_at = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, g.Title, g.Level, g.Body, g.UpdatedAt, g.ID)
	if err != nil {
		return fmt.Errorf("failed to update grammar topic: %w", err)
	}
	return expectAffected(result)
}

// Delete removes a topic
func (r *GrammarRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM grammar_topics WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete grammar topic: %w", err)
	}
	return expectAffected(result)
}
