package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed schema_sqlite.sql schema_postgres.sql
var ddl embed.FS

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// ErrUnknownDriver is returned by Open for anything but sqlite or postgres.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// DB is the journaling store. The same SQL serves both dialects; placeholders
// are written as ? and rebound for postgres.
type DB struct {
	*sql.DB
	dialect Dialect
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to the database and applies the schema.
func Open(driver, dsn string) (*DB, error) {
	var (
		d   *DB
		err error
	)
	switch driver {
	case "sqlite", "":
		d, err = openSQLite(dsn)
	case "postgres":
		d, err = openPostgres(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}
	if err := d.migrate(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return d, nil
}

func openSQLite(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// one connection: every transaction is a per-process critical section
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return &DB{DB: db, dialect: SQLite}, nil
}

func openPostgres(dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &DB{DB: db, dialect: Postgres}, nil
}

func (d *DB) migrate() error {
	name := "schema_sqlite.sql"
	if d.dialect == Postgres {
		name = "schema_postgres.sql"
	}
	b, err := ddl.ReadFile(name)
	if err != nil {
		return err
	}
	_, err = d.Exec(string(b))
	return err
}

// rebind turns ? placeholders into $n for postgres.
func (d *DB) rebind(query string) string {
	if d.dialect != Postgres {
		return query
	}
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EraseUser removes every row owned by chatID in one transaction.
// Erasing an unknown user is a no-op.
func (d *DB) EraseUser(ctx context.Context, chatID int64) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tables := []string{
		"responses",
		"conversation_states",
		"schedules",
		"users",
	}
	for _, tbl := range tables {
		if _, err := tx.ExecContext(ctx,
			d.rebind(fmt.Sprintf("DELETE FROM %s WHERE chat_id = ?", tbl)),
			chatID,
		); err != nil {
			return fmt.Errorf("failed to erase %s for %d: %w", tbl, chatID, err)
		}
	}

	return tx.Commit()
}
