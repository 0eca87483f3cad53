package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"lingofolio/internal/database"
	"lingofolio/internal/models"
	"lingofolio/internal/repository"
)

// BackupVersion is written into every export. Imports accept only this version.
const BackupVersion = "2.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string                   `json:"version"`
	ExportedAt   time.Time                `json:"exported_at"`
	DatabaseType string                   `json:"database_type"`
	Vocabulary   []models.VocabularyEntry `json:"vocabulary"`
	Verbs        []models.IrregularVerb   `json:"irregular_verbs"`
	Grammar      []models.GrammarTopic    `json:"grammar_topics"`
	Notebook     []models.NotebookEntry   `json:"notebook_entries"`
}

// backupTables lists the tables a backup covers, in the order they are cleared
var backupTables = []string{
	"vocabulary",
	"irregular_verbs",
	"grammar_topics",
	"notebook_entries",
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db         *database.DB
	vocabulary *repository.VocabularyRepository
	logger     *zap.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, logger *zap.Logger) *BackupService {
	return &BackupService{
		db:         db,
		vocabulary: repository.NewVocabularyRepository(db),
		logger:     logger,
	}
}

// Snapshot reads every backed-up table
func (s *BackupService) Snapshot(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.Name(),
	}

	if err := s.exportVocabulary(ctx, backup); err != nil {
		return nil, fmt.Errorf("failed to export vocabulary: %w", err)
	}
	if err := s.exportVerbs(ctx, backup); err != nil {
		return nil, fmt.Errorf("failed to export irregular verbs: %w", err)
	}
	if err := s.exportGrammar(ctx, backup); err != nil {
		return nil, fmt.Errorf("failed to export grammar topics: %w", err)
	}
	if err := s.exportNotebook(ctx, backup); err != nil {
		return nil, fmt.Errorf("failed to export notebook entries: %w", err)
	}
	return backup, nil
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	s.logger.Info("Starting database export", zap.String("path", outputPath))

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return err
	}

	s.logger.Info("Database exported",
		zap.String("path", outputPath),
		zap.Int("vocabulary", len(backup.Vocabulary)),
		zap.Int("irregular_verbs", len(backup.Verbs)),
		zap.Int("grammar_topics", len(backup.Grammar)),
		zap.Int("notebook_entries", len(backup.Notebook)),
	)
	return nil
}

// ExportToWriter writes the backup as indented JSON to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return backup, nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a backup in a single transaction
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	s.logger.Info("Importing backup",
		zap.String("version", backup.Version),
		zap.Time("exported_at", backup.ExportedAt),
		zap.String("source_database", backup.DatabaseType),
	)

	err := s.db.WithinTx(ctx, func(ctx context.Context, tx *database.Tx) error {
		if err := importVocabulary(ctx, tx, backup.Vocabulary); err != nil {
			return fmt.Errorf("failed to import vocabulary: %w", err)
		}
		if err := importVerbs(ctx, tx, backup.Verbs); err != nil {
			return fmt.Errorf("failed to import irregular verbs: %w", err)
		}
		if err := importGrammar(ctx, tx, backup.Grammar); err != nil {
			return fmt.Errorf("failed to import grammar topics: %w", err)
		}
		if err := importNotebook(ctx, tx, backup.Notebook); err != nil {
			return fmt.Errorf("failed to import notebook entries: %w", err)
		}
		return resetSequences(ctx, tx)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Database import completed",
		zap.Int("vocabulary", len(backup.Vocabulary)),
		zap.Int("irregular_verbs", len(backup.Verbs)),
		zap.Int("grammar_topics", len(backup.Grammar)),
		zap.Int("notebook_entries", len(backup.Notebook)),
	)
	return nil
}

// Clear deletes every row of the backed-up tables
func (s *BackupService) Clear(ctx context.Context) error {
	return s.db.WithinTx(ctx, func(ctx context.Context, tx *database.Tx) error {
		for _, table := range backupTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
			s.logger.Info("Cleared table", zap.String("table", table))
		}
		return nil
	})
}

func (s *BackupService) exportVocabulary(ctx context.Context, backup *BackupData) error {
	entries, err := s.vocabulary.ListAll(ctx)
	if err != nil {
		return err
	}
	backup.Vocabulary = entries
	return nil
}

func (s *BackupService) exportVerbs(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, base_form, past_simple, past_participle, translation, created_at FROM irregular_verbs ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.IrregularVerb
		if err := rows.Scan(&v.ID, &v.BaseForm, &v.PastSimple, &v.PastParticiple, &v.Translation, &v.CreatedAt); err != nil {
			return err
		}
		backup.Verbs = append(backup.Verbs, v)
	}
	return rows.Err()
}

func (s *BackupService) exportGrammar(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, title, level, body, created_at, updated_at FROM grammar_topics ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g models.GrammarTopic
		if err := rows.Scan(&g.ID, &g.Title, &g.Level, &g.Body, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		backup.Grammar = append(backup.Grammar, g)
	}
	return rows.Err()
}

func (s *BackupService) exportNotebook(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, language, title, code, notes, created_at, updated_at FROM notebook_entries ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var n models.NotebookEntry
		if err := rows.Scan(&n.ID, &n.Language, &n.Title, &n.Code, &n.Notes, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return err
		}
		backup.Notebook = append(backup.Notebook, n)
	}
	return rows.Err()
}

func importVocabulary(ctx context.Context, tx database.DBTX, entries []models.VocabularyEntry) error {
	query := "INSERT INTO vocabulary (id, word_type, term, translation, definition, reading, example, memorized, favorite, created_at, updated_at) VALUES (" + database.Placeholders(11) + ")"
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, query, e.ID, string(e.Type), e.Term, e.Translation, e.Definition, e.Reading, e.Example, e.Memorized, e.Favorite, e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.ID, err)
		}
	}
	return nil
}

func importVerbs(ctx context.Context, tx database.DBTX, verbs []models.IrregularVerb) error {
	query := "INSERT INTO irregular_verbs (id, base_form, past_simple, past_participle, translation, created_at) VALUES (?, ?, ?, ?, ?, ?)"
	for _, v := range verbs {
		if _, err := tx.ExecContext(ctx, query, v.ID, v.BaseForm, v.PastSimple, v.PastParticiple, v.Translation, v.CreatedAt); err != nil {
			return fmt.Errorf("verb %d: %w", v.ID, err)
		}
	}
	return nil
}

func importGrammar(ctx context.Context, tx database.DBTX, topics []models.GrammarTopic) error {
	query := "INSERT INTO grammar_topics (id, title, level, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	for _, g := range topics {
		if _, err := tx.ExecContext(ctx, query, g.ID, g.Title, g.Level, g.Body, g.CreatedAt, g.UpdatedAt); err != nil {
			return fmt.Errorf("topic %d: %w", g.ID, err)
		}
	}
	return nil
}

func importNotebook(ctx context.Context, tx database.DBTX, entries []models.NotebookEntry) error {
	query := "INSERT INTO notebook_entries (id, language, title, code, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	for _, n := range entries {
		if _, err := tx.ExecContext(ctx, query, n.ID, n.Language, n.Title, n.Code, n.Notes, n.CreatedAt, n.UpdatedAt); err != nil {
			return fmt.Errorf("notebook entry %d: %w", n.ID, err)
		}
	}
	return nil
}

// resetSequences moves PostgreSQL serial sequences past the imported IDs. SQLite and MySQL
// track their counters from the inserted rows.
func resetSequences(ctx context.Context, tx database.DBTX) error {
	if tx.GetDialect().Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"irregular_verbs", "grammar_topics", "notebook_entries"} {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %s", table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}
