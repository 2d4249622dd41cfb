// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "context"

// Backend is a durable, transactional key/value mapping split into
// namespaces. Implementations live in the db package.
type Backend interface {
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(Tx) error) error
	// Update runs fn in a read-write transaction. Writes are committed only
	// if fn returns nil.
	Update(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Tx exposes get/insert access to the namespaces. There is no delete.
//
// Put on an existing key replaces the value and keeps the key's original
// position. Scan visits keys in first-insertion order. Writes made earlier in
// the same transaction are visible to Get and Scan.
type Tx interface {
	Get(ns, key string) ([]byte, bool, error)
	Put(ns, key string, value []byte) error
	Scan(ns string, fn func(key string, value []byte) error) error
}
