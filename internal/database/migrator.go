package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Dialects understood by Open.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
	DialectLibSQL   = "libsql"
)

// DB wraps a *sql.DB together with its placeholder dialect.
type DB struct {
	*sql.DB
	Dialect string
}

// Open connects to the database for the given dialect and pings it.
func Open(ctx context.Context, dialect, dsn string) (*DB, error) {
	driver, ok := map[string]string{
		DialectPostgres: "postgres",
		DialectSQLite:   "sqlite",
		DialectLibSQL:   "libsql",
	}[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == DialectSQLite {
		// a single connection avoids SQLITE_BUSY between concurrent writers
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Rebind rewrites ? placeholders into the dialect's form.
func (d *DB) Rebind(query string) string {
	return Rebind(d.Dialect, query)
}

type Migrator struct {
	db     *DB
	logger *slog.Logger
}

func NewMigrator(db *DB, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{db: db, logger: logger}
}

// Run applies every embedded migration that has not been recorded yet, each in its
// own transaction.
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		migrationName := entry.Name()

		applied, err := m.isMigrationApplied(ctx, migrationName)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			m.logger.Debug("migration already applied", "migration", migrationName)
			continue
		}

		migrationSQL, err := migrationsFS.ReadFile("migrations/" + migrationName)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", migrationName, err)
		}

		m.logger.Info("applying migration", "migration", migrationName)

		tx, err := m.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		for _, stmt := range splitStatements(string(migrationSQL)) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to execute migration %s: %w", migrationName, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			m.db.Rebind("INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)"),
			migrationName, time.Now().Unix(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", migrationName, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", migrationName, err)
		}
	}

	return nil
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at BIGINT NOT NULL
		)
	`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

func (m *Migrator) isMigrationApplied(ctx context.Context, name string) (bool, error) {
	var count int
	err := m.db.QueryRowContext(ctx,
		m.db.Rebind("SELECT COUNT(*) FROM schema_migrations WHERE name = ?"),
		name,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// splitStatements breaks a migration file on semicolons; not every driver accepts
// several statements in one Exec.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
