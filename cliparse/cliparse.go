// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Database types accepted by -t / DATABASE_TYPE
const (
	DatabaseMemory   = "memory"
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseBolt     = "bolt"
	DatabaseRedis    = "redis"
)

type Config struct {
	Port              int
	DatabaseURL       string
	DatabaseType      string
	PrivilegedCallers []string
	CallerSecret      string
	RedisPrefix       string
}

// ParseFlags validates flags and fills the rest from the environment.
// Precedence: CLI flag, then environment (including the .env file), then
// defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, privileged string

	flags := flag.NewFlagSet("tallyboard", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL, file path or redis address")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (memory, sqlite, postgres, bolt or redis)")
	flags.StringVar(&cfg.RedisPrefix, "redis-prefix", "", "Key prefix for the redis backend")
	flags.StringVar(&envFile, "env", ".env", "Optional file of environment variables")

	// Caller settings (prefer env variables, but allow CLI for dev)
	flags.StringVar(&privileged, "privileged", "", "Comma separated callers allowed to back-fill votes")
	flags.StringVar(&cfg.CallerSecret, "caller-secret", "", "Caller signature secret (prefer env)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	switch cfg.DatabaseType {
	case DatabaseMemory, DatabaseSQLite, DatabasePostgres, DatabaseBolt, DatabaseRedis:
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType != DatabaseMemory {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = os.Getenv("REDIS_PREFIX")
		if cfg.RedisPrefix == "" {
			cfg.RedisPrefix = "tally"
		}
	}

	if privileged == "" {
		privileged = os.Getenv("PRIVILEGED_CALLERS")
	}
	cfg.PrivilegedCallers = splitList(privileged)

	// Optional: without a secret, caller ids are trusted as sent
	if cfg.CallerSecret == "" {
		cfg.CallerSecret = os.Getenv("CALLER_SECRET")
	}

	return cfg, nil
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
