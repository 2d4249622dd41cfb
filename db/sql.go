// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/tallyboard/tally"
)

// SQL dialects. The dialect name is also the database/sql driver name.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// writeLockKey is the postgres advisory lock held by every write
// transaction, so writers run one at a time as on sqlite.
const writeLockKey int64 = 0x74616c6c79

// SQL stores every namespace in the single kv table.
type SQL struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger
}

// OpenSQL connects to dsn, verifies the connection and creates the schema.
func OpenSQL(ctx context.Context, dialect, dsn string, logger *slog.Logger) (*SQL, error) {
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported SQL dialect %q", dialect)
	}

	conn, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One writer at a time; also keeps ":memory:" databases shared.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}
	if err := CreateSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return NewSQL(conn, dialect, logger), nil
}

// NewSQL wraps an open connection whose schema already exists.
func NewSQL(conn *sql.DB, dialect string, logger *slog.Logger) *SQL {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQL{db: conn, dialect: dialect, logger: logger}
}

func (s *SQL) View(ctx context.Context, fn func(tally.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(&sqlTx{ctx: ctx, tx: tx, s: s, readOnly: true})
}

func (s *SQL) Update(ctx context.Context, fn func(tally.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if s.dialect == DialectPostgres {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, writeLockKey); err != nil {
			return fmt.Errorf("failed to take write lock: %w", err)
		}
	}

	if err := fn(&sqlTx{ctx: ctx, tx: tx, s: s}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", "dialect", s.dialect, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQL) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
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

type sqlTx struct {
	ctx      context.Context
	tx       *sql.Tx
	s        *SQL
	readOnly bool
}

func (t *sqlTx) Get(ns, key string) ([]byte, bool, error) {
	var v string
	err := t.tx.QueryRowContext(t.ctx, t.s.rebind(`
		SELECT v FROM kv WHERE ns = ? AND k = ?
	`), ns, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query kv: %w", err)
	}
	return []byte(v), true, nil
}

func (t *sqlTx) Put(ns, key string, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	_, err := t.tx.ExecContext(t.ctx, t.s.rebind(`
		INSERT INTO kv (ns, k, v, seq)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM kv WHERE ns = ?))
		ON CONFLICT (ns, k) DO UPDATE SET v = excluded.v
	`), ns, key, string(value), ns)
	if err != nil {
		return fmt.Errorf("failed to write kv: %w", err)
	}
	return nil
}

// Scan reads the whole namespace before calling fn so fn may issue further
// queries on the same transaction.
func (t *sqlTx) Scan(ns string, fn func(key string, value []byte) error) error {
	rows, err := t.tx.QueryContext(t.ctx, t.s.rebind(`
		SELECT k, v FROM kv WHERE ns = ? ORDER BY seq, k
	`), ns)
	if err != nil {
		return fmt.Errorf("failed to query kv: %w", err)
	}

	var entries []entry
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan kv row: %w", err)
		}
		entries = append(entries, entry{key: k, value: []byte(v)})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate kv rows: %w", err)
	}
	rows.Close()

	for _, e := range entries {
		if err := fn(e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}
