// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/danielhkuo/tallyboard/tally"
)

// ErrConflict is returned when another writer committed between the start of
// a Redis transaction and its EXEC. Nothing was written; the call may be
// issued again.
var ErrConflict = errors.New("concurrent update detected")

// Redis stores values under "<prefix>:<ns>:<key>" and the insertion order of
// each namespace in the list "<prefix>:<ns>#order". Every committed update
// bumps "<prefix>#version", which all updates WATCH.
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// ConnectRedis establishes a connection to Redis and verifies it with PING.
func ConnectRedis(ctx context.Context, addr, prefix string, logger *slog.Logger) (*Redis, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	return NewRedis(client, prefix, logger), nil
}

func NewRedis(client *redis.Client, prefix string, logger *slog.Logger) *Redis {
	if prefix == "" {
		prefix = "tally"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, prefix: prefix, logger: logger}
}

func (r *Redis) valueKey(ns, key string) string {
	return r.prefix + ":" + ns + ":" + key
}

func (r *Redis) orderKey(ns string) string {
	return r.prefix + ":" + ns + orderSuffix
}

func (r *Redis) versionKey() string {
	return r.prefix + "#version"
}

func (r *Redis) View(ctx context.Context, fn func(tally.Tx) error) error {
	return fn(&redisTx{ctx: ctx, r: r, cmd: r.client})
}

func (r *Redis) Update(ctx context.Context, fn func(tally.Tx) error) error {
	err := r.client.Watch(ctx, func(rtx *redis.Tx) error {
		t := &redisTx{ctx: ctx, r: r, cmd: rtx, writes: newWriteSet()}
		if err := fn(t); err != nil {
			return err
		}
		if t.writes.empty() {
			return nil
		}

		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, k := range t.writes.order {
				pipe.Set(ctx, r.valueKey(k.ns, k.key), t.writes.values[k], 0)
				if t.writes.fresh[k] {
					pipe.RPush(ctx, r.orderKey(k.ns), k.key)
				}
			}
			pipe.Incr(ctx, r.versionKey())
			return nil
		})
		return err
	}, r.versionKey())

	if errors.Is(err, redis.TxFailedErr) {
		r.logger.Warn("redis transaction aborted by concurrent writer", "prefix", r.prefix)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// redisReader is the subset of commands shared by *redis.Client and
// *redis.Tx that transactions read with.
type redisReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// redisTx buffers writes until EXEC. A nil writes set marks a read-only
// transaction.
type redisTx struct {
	ctx    context.Context
	r      *Redis
	cmd    redisReader
	writes *writeSet
}

func (t *redisTx) Get(ns, key string) ([]byte, bool, error) {
	if t.writes != nil {
		if v, ok := t.writes.get(ns, key); ok {
			return v, true, nil
		}
	}
	v, err := t.cmd.Get(t.ctx, t.r.valueKey(ns, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s/%s: %w", ns, key, err)
	}
	return v, true, nil
}

func (t *redisTx) Put(ns, key string, value []byte) error {
	if t.writes == nil {
		return ErrReadOnly
	}
	if _, pending := t.writes.get(ns, key); pending {
		t.writes.put(ns, key, value, false)
		return nil
	}
	n, err := t.cmd.Exists(t.ctx, t.r.valueKey(ns, key)).Result()
	if err != nil {
		return fmt.Errorf("failed to check %s/%s: %w", ns, key, err)
	}
	t.writes.put(ns, key, value, n == 0)
	return nil
}

func (t *redisTx) Scan(ns string, fn func(key string, value []byte) error) error {
	keys, err := t.cmd.LRange(t.ctx, t.r.orderKey(ns), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", ns, err)
	}

	base := make([]entry, 0, len(keys))
	if len(keys) > 0 {
		valueKeys := make([]string, len(keys))
		for i, k := range keys {
			valueKeys[i] = t.r.valueKey(ns, k)
		}
		values, err := t.cmd.MGet(t.ctx, valueKeys...).Result()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", ns, err)
		}
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("order list for %s references missing key %q", ns, keys[i])
			}
			base = append(base, entry{key: keys[i], value: []byte(s)})
		}
	}

	if t.writes == nil {
		for _, e := range base {
			if err := fn(e.key, e.value); err != nil {
				return err
			}
		}
		return nil
	}
	return t.writes.overlay(ns, base, fn)
}
