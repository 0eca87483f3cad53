package repository

import (
	"context"
	"fmt"
	"time"

	"lingofolio/internal/database"
	"lingofolio/internal/models"
)

// ContactRepository stores messages left through the contact form
type ContactRepository struct {
	db *database.DB
}

func NewContactRepository(db *database.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create stores a message
func (r *ContactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	m.CreatedAt = time.Now().UTC()
	query := "INSERT INTO contact_messages (name, email, message, remote_addr, created_at) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, m.Name, m.Email, m.Message, m.RemoteAddr, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store contact message: %w", err)
	}
	m.ID = id
	return nil
}

// Recent returns the newest messages first
func (r *ContactRepository) Recent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	query := `
		SELECT id, name, email, message, remote_addr, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ContactMessage
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.RemoteAddr, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
