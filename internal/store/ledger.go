package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// currentSchemaVersion is stamped into PRAGMA user_version.
const currentSchemaVersion = 1

// ErrSchemaTooNew is returned when opening a ledger written by a newer release.
var ErrSchemaTooNew = errors.New("ledger schema is newer than this build")

const (
	seqIdentities = "identities"
	seqChains     = "chains"
)

// Ledger is the shared, public state of dotflow: identities, the chain
// registry, encrypted address records and address books. It is backed by
// SQLite.
type Ledger struct {
	db *sql.DB
}

// OpenLedger creates or opens the SQLite ledger at path and applies pragmas
// and the schema. It is safe to call on an existing database.
func OpenLedger(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect ledger: %w", err)
	}

	// One connection serialises writers; SQLite allows a single writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Ping checks that the database is reachable.
func (l *Ledger) Ping(ctx context.Context) error { return l.db.PingContext(ctx) }

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return checkSchemaVersion(db)
}

// checkSchemaVersion refuses ledgers written by a newer schema and stamps
// user_version on fresh ones.
func checkSchemaVersion(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("%w: v%d, supported v%d", ErrSchemaTooNew, version, currentSchemaVersion)
	}
	if version == currentSchemaVersion {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// withTx runs fn in a transaction and commits only if fn succeeds.
func (l *Ledger) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// nextID reserves the next value of a named sequence. IDs are never reused,
// even after the row they named is deleted.
func nextID(ctx context.Context, tx *sql.Tx, name string) (uint32, error) {
	var next int64
	err := tx.QueryRowContext(ctx, "SELECT next FROM sequences WHERE name = ?", name).Scan(&next)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		next = 0
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sequences (name, next) VALUES (?, 1)", name); err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE sequences SET next = next + 1 WHERE name = ?", name); err != nil {
			return 0, err
		}
	}
	return uint32(next), nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
