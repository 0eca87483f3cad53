package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lingofolio/internal/database"
	"lingofolio/internal/models"
)

// ErrNotFound is returned by updates and deletes that matched no row
var ErrNotFound = errors.New("record not found")

const vocabularyColumns = `id, word_type, term, translation, definition, reading, example, memorized, favorite, created_at, updated_at`

// VocabularyRepository handles database operations for vocabulary entries
type VocabularyRepository struct {
	db *database.DB
}

// NewVocabularyRepository creates a new vocabulary repository
func NewVocabularyRepository(db *database.DB) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (models.VocabularyEntry, error) {
	var e models.VocabularyEntry
	err := row.Scan(
		&e.ID,
		&e.Type,
		&e.Term,
		&e.Translation,
		&e.Definition,
		&e.Reading,
		&e.Example,
		&e.Memorized,
		&e.Favorite,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// ListByType loads the whole collection of one word type, newest first
func (r *VocabularyRepository) ListByType(ctx context.Context, wordType models.WordType) ([]models.VocabularyEntry, error) {
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary WHERE word_type = ? ORDER BY created_at DESC, id`
	return r.list(ctx, query, string(wordType))
}

// ListAll loads every entry regardless of word type
func (r *VocabularyRepository) ListAll(ctx context.Context) ([]models.VocabularyEntry, error) {
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *VocabularyRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.VocabularyEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabulary: %w", err)
	}
	defer rows.Close()

	var entries []models.VocabularyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vocabulary: %w", err)
	}

	return entries, nil
}

// Create inserts an entry, assigning its ID and timestamps
func (r *VocabularyRepository) Create(ctx context.Context, e *models.VocabularyEntry) error {
	return insertEntry(ctx, r.db, e)
}

// CreateBatch inserts all entries in one transaction
func (r *VocabularyRepository) CreateBatch(ctx context.Context, entries []*models.VocabularyEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithinTx(ctx, func(ctx context.Context, tx *database.Tx) error {
		for _, e := range entries {
			if err := insertEntry(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertEntry(ctx context.Context, db database.DBTX, e *models.VocabularyEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	query := `INSERT INTO vocabulary (` + vocabularyColumns + `) VALUES (` + database.Placeholders(11) + `)`
	_, err := db.ExecContext(ctx, query,
		e.ID,
		string(e.Type),
		e.Term,
		e.Translation,
		e.Definition,
		e.Reading,
		e.Example,
		e.Memorized,
		e.Favorite,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary entry: %w", err)
	}
	return nil
}

// Update writes every editable field of an entry
func (r *VocabularyRepository) Update(ctx context.Context, e *models.VocabularyEntry) error {
	e.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE vocabulary
		SET term = ?, translation = ?, definition = ?, reading = ?, example = ?,
		    memorized = ?, favorite = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		e.Term,
		e.Translation,
		e.Definition,
		e.Reading,
		e.Example,
		e.Memorized,
		e.Favorite,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vocabulary entry: %w", err)
	}
	return expectAffected(result)
}

// Delete removes an entry
func (r *VocabularyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM vocabulary WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete vocabulary entry: %w", err)
	}
	return expectAffected(result)
}

// MarkMemorized sets the memorized flag for all ids in a single statement and returns how many
// rows changed.
func (r *VocabularyRepository) MarkMemorized(ctx context.Context, ids []string, memorized bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var (
		query string
		args  []interface{}
	)
	if r.db.Dialect.SupportsArrayParams() {
		query = "UPDATE vocabulary SET memorized = ?, updated_at = ? WHERE id = ANY(?)"
		args = []interface{}{memorized, time.Now().UTC(), pq.Array(ids)}
	} else {
		query = "UPDATE vocabulary SET memorized = ?, updated_at = ? WHERE id IN (" + database.Placeholders(len(ids)) + ")"
		args = make([]interface{}, 0, len(ids)+2)
		args = append(args, memorized, time.Now().UTC())
		for _, id := range ids {
			args = append(args, id)
		}
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark vocabulary memorized: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

func expectAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
