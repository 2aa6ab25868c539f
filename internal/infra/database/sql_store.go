package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// SQLStore keeps every key in one console_state table. The same queries run
// on SQLite and PostgreSQL; only the placeholders differ.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS console_state (
		state_key TEXT PRIMARY KEY,
		payload   TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create console_state table: %w", err)
	}
	return s, nil
}

const upsertQuery = `INSERT INTO console_state (state_key, payload) VALUES (?, ?)
	ON CONFLICT (state_key) DO UPDATE SET payload = excluded.payload`

// rebind turns ? placeholders into $n for postgres.
func (s *SQLStore) rebind(q string) string {
	if s.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT payload FROM console_state WHERE state_key = ?`), key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(upsertQuery), key, string(value)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM console_state WHERE state_key = ?`), key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Commit(ctx context.Context, writes map[string][]byte) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	q := s.rebind(upsertQuery)
	for k, v := range writes {
		if _, err := tx.ExecContext(ctx, q, k, string(v)); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLStore) DeletePrefix(ctx context.Context, prefix string) error {
	q := s.rebind(`DELETE FROM console_state WHERE substr(state_key, 1, ?) = ?`)
	if _, err := s.db.ExecContext(ctx, q, len(prefix), prefix); err != nil {
		return fmt.Errorf("delete prefix %s: %w", prefix, err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *SQLStore) Close() error                   { return s.db.Close() }
