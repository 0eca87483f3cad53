package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// RunMigrations executes the dialect's SQL migration files found under migrationsPath
func (db *DB) RunMigrations(ctx context.Context, migrationsPath string, logger *zap.Logger) error {
	// Create migrations table if it doesn't exist
	if _, err := db.ExecContext(ctx, db.Dialect.CreateMigrationsTableQuery()); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get all migration files
	dir := filepath.Join(migrationsPath, db.Dialect.MigrationsSubdir())
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	// Sort files to ensure they run in order
	sort.Strings(files)

	for _, file := range files {
		filename := filepath.Base(file)

		hasRun, err := db.hasMigrationRun(ctx, filename)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if hasRun {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		if err := db.executeMigration(ctx, filename, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		logger.Info("migration completed", zap.String("file", filename))
	}

	return nil
}

// hasMigrationRun checks if a migration has already been executed
func (db *DB) hasMigrationRun(ctx context.Context, filename string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM migrations WHERE filename = ?"
	if err := db.QueryRowContext(ctx, query, filename).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// executeMigration runs every statement of a migration and records it in one transaction.
// Statements are split so drivers without multi-statement support (MySQL) work too.
func (db *DB) executeMigration(ctx context.Context, filename, content string) error {
	return db.WithinTx(ctx, func(ctx context.Context, tx *Tx) error {
		for _, stmt := range SplitStatements(content) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO migrations (filename) VALUES (?)", filename)
		return err
	})
}

// SplitStatements splits a SQL script on semicolons that end a line,
// dropping blank statements and full-line "--" comments.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		statements = append(statements, rest)
	}
	return statements
}
