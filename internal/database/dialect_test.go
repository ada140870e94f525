package database

import (
	"strings"
	"testing"
)

func TestDialectDriverNames(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{NewSQLiteDialect(), "sqlite3"},
		{NewMySQLDialect(), "mysql"},
		{NewPostgresDialect(), "postgres"},
	}
	for _, tt := range tests {
		if got := tt.dialect.DriverName(); got != tt.want {
			t.Errorf("DriverName() = %q, want %q", got, tt.want)
		}
	}
}

func TestDialectLastInsertId(t *testing.T) {
	if !NewSQLiteDialect().SupportsLastInsertId() {
		t.Error("sqlite should support LastInsertId")
	}
	if !NewMySQLDialect().SupportsLastInsertId() {
		t.Error("mysql should support LastInsertId")
	}
	if NewPostgresDialect().SupportsLastInsertId() {
		t.Error("postgres should not support LastInsertId")
	}
}

func TestDialectMigrationsSubdir(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{NewSQLiteDialect(), "sqlite"},
		{NewMySQLDialect(), "mysql"},
		{NewPostgresDialect(), "postgres"},
	}
	for _, tt := range tests {
		if got := tt.dialect.MigrationsSubdir(); got != tt.want {
			t.Errorf("MigrationsSubdir() = %q, want %q", got, tt.want)
		}
	}
}

func TestRewriteQuery(t *testing.T) {
	query := "SELECT id FROM vocabulary WHERE next_due <= ? AND mastered = ? LIMIT ?"

	if got := NewSQLiteDialect().RewriteQuery(query); got != query {
		t.Errorf("sqlite rewrote query to %q", got)
	}
	if got := NewMySQLDialect().RewriteQuery(query); got != query {
		t.Errorf("mysql rewrote query to %q", got)
	}

	got := NewPostgresDialect().RewriteQuery(query)
	want := "SELECT id FROM vocabulary WHERE next_due <= $1 AND mastered = $2 LIMIT $3"
	if got != want {
		t.Errorf("postgres rewrite = %q, want %q", got, want)
	}
}

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"INSERT INTO t (a) VALUES (?)", "INSERT INTO t (a) VALUES ($1)"},
		{"UPDATE t SET a = ?, b = ? WHERE id = ?", "UPDATE t SET a = $1, b = $2 WHERE id = $3"},
	}
	for _, tt := range tests {
		if got := rewritePlaceholdersToNumbered(tt.in); got != tt.want {
			t.Errorf("rewrite(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateMigrationsTableQuery(t *testing.T) {
	for _, dialect := range []Dialect{NewSQLiteDialect(), NewMySQLDialect(), NewPostgresDialect()} {
		query := dialect.CreateMigrationsTableQuery()
		if !strings.Contains(query, "migrations") {
			t.Errorf("%s migrations table query missing table name: %q", dialect.DriverName(), query)
		}
	}
}
