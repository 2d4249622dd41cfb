// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"time"

	"go.etcd.io/bbolt"

	"github.com/danielhkuo/tallyboard/tally"
)

// orderSuffix names the companion bucket that records first-insertion order
// for a namespace bucket: sequence number → key.
const orderSuffix = "#order"

// Bolt keeps each namespace in its own bbolt bucket.
type Bolt struct {
	conn *bbolt.DB
}

// OpenBolt opens (or creates) the database file at path.
func OpenBolt(path string) (*Bolt, error) {
	conn, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db: %w", err)
	}
	return &Bolt{conn: conn}, nil
}

func (b *Bolt) View(ctx context.Context, fn func(tally.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.conn.View(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

func (b *Bolt) Update(ctx context.Context, fn func(tally.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.conn.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

func (b *Bolt) Close() error {
	return b.conn.Close()
}

type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) Get(ns, key string) ([]byte, bool, error) {
	bucket := t.tx.Bucket([]byte(ns))
	if bucket == nil {
		return nil, false, nil
	}
	v := bucket.Get([]byte(key))
	if v == nil {
		return nil, false, nil
	}
	// bbolt values are only valid for the life of the transaction
	return slices.Clone(v), true, nil
}

func (t *boltTx) Put(ns, key string, value []byte) error {
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	bucket, err := t.tx.CreateBucketIfNotExists([]byte(ns))
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", ns, err)
	}

	if bucket.Get([]byte(key)) == nil {
		order, err := t.tx.CreateBucketIfNotExists([]byte(ns + orderSuffix))
		if err != nil {
			return fmt.Errorf("failed to create order bucket %s: %w", ns, err)
		}
		seq, err := order.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence in %s: %w", ns, err)
		}
		if err := order.Put(uint64ToBytes(seq), []byte(key)); err != nil {
			return fmt.Errorf("failed to record key order in %s: %w", ns, err)
		}
	}

	if err := bucket.Put([]byte(key), value); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", ns, key, err)
	}
	return nil
}

func (t *boltTx) Scan(ns string, fn func(key string, value []byte) error) error {
	bucket := t.tx.Bucket([]byte(ns))
	order := t.tx.Bucket([]byte(ns + orderSuffix))
	if bucket == nil || order == nil {
		return nil
	}

	cursor := order.Cursor()
	for _, k := cursor.First(); k != nil; _, k = cursor.Next() {
		v := bucket.Get(k)
		if v == nil {
			return fmt.Errorf("order bucket for %s references missing key %q", ns, k)
		}
		if err := fn(string(k), slices.Clone(v)); err != nil {
			return err
		}
	}
	return nil
}

// uint64ToBytes encodes big-endian so cursor order matches numeric order.
func uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
