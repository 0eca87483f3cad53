package database

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// PureSQLiteDialect implements Dialect for SQLite through the cgo-free
// modernc.org driver. It shares schema and migrations with SQLiteDialect.
type PureSQLiteDialect struct {
	SQLiteDialect
}

// NewPureSQLiteDialect creates a new cgo-free SQLite dialect
func NewPureSQLiteDialect() *PureSQLiteDialect {
	return &PureSQLiteDialect{}
}

func (d *PureSQLiteDialect) Name() string {
	return "sqlite-pure"
}

func (d *PureSQLiteDialect) DriverName() string {
	return "sqlite"
}

func (d *PureSQLiteDialect) ConfigureConnection(db *sql.DB) error {
	return configureSQLite(db)
}
