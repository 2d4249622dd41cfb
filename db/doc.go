// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides the storage backends for the tally store.

# Backends

Every backend implements tally.Backend, a transactional key/value mapping
split into namespaces:

  - Memory: ordered in-process maps, for tests and throwaway servers
  - SQL: one kv table on sqlite (modernc.org/sqlite) or postgres (lib/pq)
  - Bolt: one bbolt bucket per namespace
  - Redis: plain keys plus an order list per namespace, WATCH/MULTI/EXEC

Open picks one from the configuration:

	backend, err := db.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer backend.Close()

# Ordering

Scan visits keys in first-insertion order on every backend. Memory keeps a
key slice, SQL a seq column, Bolt a companion "<ns>#order" bucket keyed by
NextSequence, and Redis a "<prefix>:<ns>#order" list.

# Transactions

Update commits all writes or none. Memory and Redis buffer writes in a
write set and apply them on commit; SQL and Bolt use the database's own
transaction. A Redis update fails with ErrConflict if another writer
committed first.

# Schema

CreateSchema initializes the SQL table:

	kv(ns, k, v, seq)  PRIMARY KEY (ns, k)

Safe to call multiple times - uses IF NOT EXISTS.
*/
package db
