package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lingofolio/internal/database"
	"lingofolio/internal/models"
)

// VerbRepository handles database operations for the irregular verb table
type VerbRepository struct {
	db *database.DB
}

// NewVerbRepository creates a new verb repository
func NewVerbRepository(db *database.DB) *VerbRepository {
	return &VerbRepository{db: db}
}

// List returns all verbs ordered by base form
func (r *VerbRepository) List(ctx context.Context) ([]models.IrregularVerb, error) {
	query := `
		SELECT id, base_form, past_simple, past_participle, translation, created_at
		FROM irregular_verbs
		ORDER BY base_form
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query verbs: %w", err)
	}
	defer rows.Close()

	var verbs []models.IrregularVerb
	for rows.Next() {
		var v models.IrregularVerb
		if err := rows.Scan(&v.ID, &v.BaseForm, &v.PastSimple, &v.PastParticiple, &v.Translation, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan verb: %w", err)
		}
		verbs = append(verbs, v)
	}

	return verbs, rows.Err()
}

// GetByID retrieves a verb by ID, or nil if it does not exist
func (r *VerbRepository) GetByID(ctx context.Context, id int64) (*models.IrregularVerb, error) {
	query := `
		SELECT id, base_form, past_simple, past_participle, translation, created_at
		FROM irregular_verbs
		WHERE id = ?
	`
	v := &models.IrregularVerb{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.BaseForm, &v.PastSimple, &v.PastParticiple, &v.Translation, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verb: %w", err)
	}
	return v, nil
}

// Create inserts a verb
func (r *VerbRepository) Create(ctx context.Context, v *models.IrregularVerb) error {
	v.CreatedAt = time.Now().UTC()
	query := "INSERT INTO irregular_verbs (base_form, past_simple, past_participle, translation, created_at) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, v.BaseForm, v.PastSimple, v.PastParticiple, v.Translation, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create verb: %w", err)
	}
	v.ID = id
	return nil
}

// Update rewrites a verb's forms
func (r *VerbRepository) Update(ctx context.Context, v *models.IrregularVerb) error {
	query := "UPDATE irregular_verbs SET base_form = ?, past_simple = ?, past_participle = ?, translation = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, v.BaseForm, v.PastSimple, v.PastParticiple, v.Translation, v.ID)
	if err != nil {
		return fmt.Errorf("failed to update verb: %w", err)
	}
	return expectAffected(result)
}

// Delete removes a verb
func (r *VerbRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM irregular_verbs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete verb: %w", err)
	}
	return expectAffected(result)
}
