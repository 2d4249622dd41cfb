// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates the key/value table used by the SQL backend.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The same DDL runs on sqlite and postgres. seq records first-insertion
// order within a namespace; upserts leave it untouched.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
    ns TEXT NOT NULL,
    k TEXT NOT NULL,
    v TEXT NOT NULL,
    seq BIGINT NOT NULL,
    PRIMARY KEY (ns, k)
);

CREATE INDEX IF NOT EXISTS idx_kv_ns_seq ON kv(ns, seq);
`
