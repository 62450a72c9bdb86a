package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		name       string
		dialect    Dialect
		driver     string
		subdir     string
		upsertHint string
	}{
		{name: "sqlite", dialect: NewSQLiteDialect(), driver: "sqlite3", subdir: "sqlite", upsertHint: "ON CONFLICT(id)"},
		{name: "postgres", dialect: NewPostgresDialect(), driver: "postgres", subdir: "postgres", upsertHint: "EXCLUDED.title"},
		{name: "mysql", dialect: NewMySQLDialect(), driver: "mysql", subdir: "mysql", upsertHint: "ON DUPLICATE KEY UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.driver, tt.dialect.DriverName())
			assert.Equal(t, tt.subdir, tt.dialect.MigrationsSubdir())
			assert.Contains(t, tt.dialect.UpsertTopicQuery(), tt.upsertHint)
			assert.NotContains(t, tt.dialect.UpsertTopicQuery(), "sort_order = ")
			assert.Contains(t, tt.dialect.CreateMigrationsTableQuery(), "migrations")
		})
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		input  string
		driver string
	}{
		{"sqlite", "sqlite3"},
		{"", "sqlite3"},
		{"SQLite3", "sqlite3"},
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"mysql", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := DialectFor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, d.DriverName())
		})
	}

	_, err := DialectFor("oracle")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	d := NewSQLiteDialect()
	assert.Equal(t, "quiz.db?_foreign_keys=on", d.DSN(DialectConfig{Path: "quiz.db"}))
	assert.Equal(t, "file:quiz.db?cache=shared&_foreign_keys=on", d.DSN(DialectConfig{Path: "file:quiz.db?cache=shared"}))
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
			query:    "SELECT * FROM topics WHERE id = ?",
			expected: "SELECT * FROM topics WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM topics WHERE id = ?",
			expected: "SELECT * FROM topics WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO questions (topic_id, id, prompt) VALUES (?, ?, ?)",
			expected: "INSERT INTO questions (topic_id, id, prompt) VALUES ($1, $2, $3)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE topics SET title = ? WHERE id = ?",
			expected: "UPDATE topics SET title = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.RewriteQuery(tt.query))
		})
	}
}

func TestSplitStatements(t *testing.T) {
	script := `
-- topics
CREATE TABLE a (
    id TEXT
);

CREATE INDEX idx ON a(id);
SELECT 1`

	assert.Equal(t, []string{
		"CREATE TABLE a (\n    id TEXT\n)",
		"CREATE INDEX idx ON a(id)",
		"SELECT 1",
	}, SplitStatements(script))
}

func TestEmbeddedMigrationsExistForEveryDialect(t *testing.T) {
	for _, d := range []Dialect{NewSQLiteDialect(), NewPostgresDialect(), NewMySQLDialect()} {
		content, err := migrationFiles.ReadFile("migrations/" + d.MigrationsSubdir() + "/001_create_topics.sql")
		require.NoError(t, err, d.MigrationsSubdir())
		assert.Len(t, SplitStatements(string(content)), migrationStatementCount(d), d.MigrationsSubdir())
	}
}

func migrationStatementCount(d Dialect) int {
	if d.MigrationsSubdir() == "mysql" {
		return 2
	}
	return 4
}
