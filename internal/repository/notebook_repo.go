package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lingofolio/internal/database"
	"lingofolio/internal/models"
)

// NotebookRepository handles database operations for the programming notebook
type NotebookRepository struct {
	db *database.DB
}

// NewNotebookRepository creates a new notebook repository
func NewNotebookRepository(db *database.DB) *NotebookRepository {
	return &NotebookRepository{db: db}
}

// List returns entries for one programming language, or all entries when language is empty
func (r *NotebookRepository) List(ctx context.Context, language string) ([]models.NotebookEntry, error) {
	query := `SELECT id, language, title, code, notes, created_at, updated_at FROM notebook_entries`
	var args []interface{}
	if language != "" {
		query += ` WHERE language = ?`
		args = append(args, language)
	}
	query += ` ORDER BY updated_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notebook entries: %w", err)
	}
	defer rows.Close()

	var entries []models.NotebookEntry
	for rows.Next() {
		var n models.NotebookEntry
		if err := rows.Scan(&n.ID, &n.Language, &n.Title, &n.Code, &n.Notes, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notebook entry: %w", err)
		}
		entries = append(entries, n)
	}

	return entries, rows.Err()
}

// GetByID retrieves an entry by ID, or nil if it does not exist
func (r *NotebookRepository) GetByID(ctx context.Context, id int64) (*models.NotebookEntry, error) {
	query := `SELECT id, language, title, code, notes, created_at, updated_at FROM notebook_entries WHERE id = ?`
	n := &models.NotebookEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&n.ID, &n.Language, &n.Title, &n.Code, &n.Notes, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notebook entry: %w", err)
	}
	return n, nil
}

// Create inserts an entry
func (r *NotebookRepository) Create(ctx context.Context, n *models.NotebookEntry) error {
	now := time.Now().UTC()
	n.CreatedAt, n.UpdatedAt = now, now
	query := "INSERT INTO notebook_entries (language, title, code, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, n.Language, n.Title, n.Code, n.Notes, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notebook entry: %w", err)
	}
	n.ID = id
	return nil
}

// Update rewrites an entry
func (r *NotebookRepository) Update(ctx context.Context, n *models.NotebookEntry) error {
	n.UpdatedAt = time.Now().UTC()
	query := "UPDATE notebook_entries SET language = ?, title = ?, code = ?, notes = ?, updated_at = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, n.Language, n.Title, n.Code, n.Notes, n.UpdatedAt, n.ID)
	if err != nil {
		return fmt.Errorf("failed to update notebook entry: %w", err)
	}
	return expectAffected(result)
}

// Delete removes an entry
func (r *NotebookRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM notebook_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete notebook entry: %w", err)
	}
	return expectAffected(result)
}

// Languages lists the distinct languages that have entries
func (r *NotebookRepository) Languages(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT language FROM notebook_entries ORDER BY language")
	if err != nil {
		return nil, fmt.Errorf("failed to query notebook languages: %w", err)
	}
	defer rows.Close()

	var languages []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("failed to scan notebook language: %w", err)
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}
