// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/tallyboard/cliparse"
	"github.com/danielhkuo/tallyboard/tally"
)

// Open returns the backend selected by cfg.DatabaseType, connected and
// ready for use.
func Open(ctx context.Context, cfg cliparse.Config, logger *slog.Logger) (tally.Backend, error) {
	var (
		backend tally.Backend
		err     error
	)
	switch cfg.DatabaseType {
	case cliparse.DatabaseMemory:
		backend = NewMemory()
	case cliparse.DatabaseSQLite, cliparse.DatabasePostgres:
		var s *SQL
		if s, err = OpenSQL(ctx, cfg.DatabaseType, cfg.DatabaseURL, logger); err == nil {
			backend = s
		}
	case cliparse.DatabaseBolt:
		var b *Bolt
		if b, err = OpenBolt(cfg.DatabaseURL); err == nil {
			backend = b
		}
	case cliparse.DatabaseRedis:
		var r *Redis
		if r, err = ConnectRedis(ctx, cfg.DatabaseURL, cfg.RedisPrefix, logger); err == nil {
			backend = r
		}
	default:
		err = fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}
	if err != nil {
		return nil, err
	}
	return backend, nil
}
