// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import "slices"

type nsKey struct {
	ns  string
	key string
}

// writeSet buffers the writes of an open transaction until commit.
type writeSet struct {
	order  []nsKey
	values map[nsKey][]byte
	// fresh marks keys that did not exist before this transaction.
	fresh map[nsKey]bool
}

func newWriteSet() *writeSet {
	return &writeSet{
		values: make(map[nsKey][]byte),
		fresh:  make(map[nsKey]bool),
	}
}

func (w *writeSet) put(ns, key string, value []byte, fresh bool) {
	k := nsKey{ns, key}
	if _, ok := w.values[k]; !ok {
		w.order = append(w.order, k)
		w.fresh[k] = fresh
	}
	w.values[k] = slices.Clone(value)
}

func (w *writeSet) get(ns, key string) ([]byte, bool) {
	v, ok := w.values[nsKey{ns, key}]
	return v, ok
}

func (w *writeSet) empty() bool {
	return len(w.order) == 0
}

// entry is one stored key/value pair.
type entry struct {
	key   string
	value []byte
}

// overlay merges committed entries of ns (in their stored order) with the
// buffered writes: overwritten values are substituted in place and new keys
// follow in write order.
func (w *writeSet) overlay(ns string, base []entry, fn func(key string, value []byte) error) error {
	seen := make(map[string]struct{}, len(base))
	for _, e := range base {
		seen[e.key] = struct{}{}
		v := e.value
		if pending, ok := w.get(ns, e.key); ok {
			v = pending
		}
		if err := fn(e.key, slices.Clone(v)); err != nil {
			return err
		}
	}
	for _, k := range w.order {
		if k.ns != ns {
			continue
		}
		if _, ok := seen[k.key]; ok {
			continue
		}
		if err := fn(k.key, slices.Clone(w.values[k])); err != nil {
			return err
		}
	}
	return nil
}
