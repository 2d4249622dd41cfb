// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/danielhkuo/tallyboard/tally"
)

var (
	ErrClosed   = errors.New("backend is closed")
	ErrReadOnly = errors.New("write in read-only transaction")
)

// Memory is an in-process backend. Nothing survives a restart; it exists for
// tests and throwaway servers.
type Memory struct {
	mu         sync.RWMutex
	namespaces map[string]*orderedMap
	closed     bool
}

type orderedMap struct {
	keys   []string
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{namespaces: make(map[string]*orderedMap)}
}

func (m *Memory) View(ctx context.Context, fn func(tally.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return fn(&memoryTx{m: m})
}

func (m *Memory) Update(ctx context.Context, fn func(tally.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	tx := &memoryTx{m: m, writes: newWriteSet()}
	if err := fn(tx); err != nil {
		return err
	}
	for _, k := range tx.writes.order {
		m.put(k.ns, k.key, tx.writes.values[k])
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// put must be called with mu held for writing.
func (m *Memory) put(ns, key string, value []byte) {
	om, ok := m.namespaces[ns]
	if !ok {
		om = &orderedMap{values: make(map[string][]byte)}
		m.namespaces[ns] = om
	}
	if _, exists := om.values[key]; !exists {
		om.keys = append(om.keys, key)
	}
	om.values[key] = value
}

// memoryTx reads the committed maps through its pending writes. A nil
// writes set marks a read-only transaction.
type memoryTx struct {
	m      *Memory
	writes *writeSet
}

func (tx *memoryTx) Get(ns, key string) ([]byte, bool, error) {
	if tx.writes != nil {
		if v, ok := tx.writes.get(ns, key); ok {
			return slices.Clone(v), true, nil
		}
	}
	om, ok := tx.m.namespaces[ns]
	if !ok {
		return nil, false, nil
	}
	v, ok := om.values[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (tx *memoryTx) Put(ns, key string, value []byte) error {
	if tx.writes == nil {
		return ErrReadOnly
	}
	_, exists, _ := tx.Get(ns, key)
	tx.writes.put(ns, key, value, !exists)
	return nil
}

func (tx *memoryTx) Scan(ns string, fn func(key string, value []byte) error) error {
	var base []entry
	if om, ok := tx.m.namespaces[ns]; ok {
		base = make([]entry, 0, len(om.keys))
		for _, k := range om.keys {
			base = append(base, entry{key: k, value: om.values[k]})
		}
	}
	if tx.writes == nil {
		for _, e := range base {
			if err := fn(e.key, slices.Clone(e.value)); err != nil {
				return err
			}
		}
		return nil
	}
	return tx.writes.overlay(ns, base, fn)
}
