package database

import (
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("SupportsArrayParams", func(t *testing.T) {
		if dialect.SupportsArrayParams() {
			t.Error("SupportsArrayParams() should return false for SQLite")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectPureSQLite(t *testing.T) {
	dialect := NewPureSQLiteDialect()

	if got := dialect.DriverName(); got != "sqlite" {
		t.Errorf("DriverName() = %v, want sqlite", got)
	}
	if got := dialect.Name(); got != "sqlite-pure" {
		t.Errorf("Name() = %v, want sqlite-pure", got)
	}
	// Shares schema with the cgo SQLite dialect
	if got := dialect.MigrationsSubdir(); got != "sqlite" {
		t.Errorf("MigrationsSubdir() = %v, want sqlite", got)
	}
	if got := dialect.RewriteQuery("SELECT ?"); got != "SELECT ?" {
		t.Errorf("RewriteQuery() = %v, want unchanged", got)
	}
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "pgx"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("SupportsArrayParams", func(t *testing.T) {
		if !dialect.SupportsArrayParams() {
			t.Error("SupportsArrayParams() should return true for PostgreSQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})

	t.Run("DSN enables parseTime", func(t *testing.T) {
		dsn := dialect.DSN(DialectConfig{URL: "app:secret@tcp(db:3306)/lingofolio"})
		if !strings.Contains(dsn, "parseTime=true") {
			t.Errorf("DSN() = %v, want parseTime=true", dsn)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM vocabulary WHERE id = ?",
			expected: "SELECT * FROM vocabulary WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM vocabulary WHERE id = ?",
			expected: "SELECT * FROM vocabulary WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO vocabulary (term, translation) VALUES (?, ?)",
			expected: "INSERT INTO vocabulary (term, translation) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE vocabulary SET term = ?, translation = ? WHERE id = ?",
			expected: "UPDATE vocabulary SET term = ?, translation = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dbType   string
		wantName string
		wantErr  bool
	}{
		{dbType: "", wantName: "sqlite"},
		{dbType: "sqlite3", wantName: "sqlite"},
		{dbType: "sqlite-pure", wantName: "sqlite-pure"},
		{dbType: "PostgreSQL", wantName: "postgres"},
		{dbType: "mysql", wantName: "mysql"},
		{dbType: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			dialect, _, err := DialectFor(tt.dbType, "x.db", "url")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported type")
				}
				return
			}
			if err != nil {
				t.Fatalf("DialectFor() error = %v", err)
			}
			if dialect.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", dialect.Name(), tt.wantName)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders(0); got != "" {
		t.Errorf("Placeholders(0) = %q, want empty", got)
	}
	if got := Placeholders(3); got != "?, ?, ?" {
		t.Errorf("Placeholders(3) = %q, want %q", got, "?, ?, ?")
	}
}

func TestSplitStatements(t *testing.T) {
	script := `-- comment
CREATE TABLE a (
    id INTEGER
);

CREATE INDEX idx ON a(id);
`
	stmts := SplitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[1] != "CREATE INDEX idx ON a(id);" {
		t.Errorf("unexpected second statement %q", stmts[1])
	}
}
