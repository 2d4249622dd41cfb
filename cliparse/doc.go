// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: memory, sqlite, postgres, bolt or redis (default: sqlite)
  - DatabaseURL: DSN, file path or redis address (required unless memory)
  - PrivilegedCallers: callers allowed to back-fill chart data
  - CallerSecret: HMAC secret for caller signatures (optional)
  - RedisPrefix: key prefix for the redis backend (default: tally)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	--privileged    Comma separated privileged callers
	--caller-secret Caller signature secret
	--redis-prefix  Redis key prefix
	--env           Env file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	PRIVILEGED_CALLERS → --privileged
	CALLER_SECRET      → --caller-secret
	REDIS_PREFIX       → --redis-prefix

CLI flags take precedence over environment variables. The env file is loaded
with godotenv before the lookup and never overrides variables that are
already set; a missing file is ignored.

# Validation

ParseFlags returns an error if:

  - PORT is not a number
  - DATABASE_TYPE is not one of the supported types
  - DATABASE_URL is missing for any type but memory
*/
package cliparse
