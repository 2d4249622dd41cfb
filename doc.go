// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the tallyboard API server.

tallyboard tallies a single election: it registers candidates, records one
vote per voter, keeps a running total per candidate and buckets votes into
daily points (midnight UTC) for charting.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_TYPE=sqlite DATABASE_URL=tally.db go run .

Or with flags:

	go run . -p 3318 -t bolt -d tally.bolt --privileged rubikone.testnet

Variables may also be placed in a .env file next to the binary.

# Configuration

Settings:

  - DATABASE_TYPE (-t): memory, sqlite, postgres, bolt or redis (default: sqlite)
  - DATABASE_URL (-d): DSN, file path or redis address (required unless memory)
  - PRIVILEGED_CALLERS (--privileged): callers allowed to back-fill votes
  - CALLER_SECRET (--caller-secret): require signed caller ids
  - PORT (-p): Server port (default: 3318)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - tally: the tally store (candidates, voter records, totals, day buckets)
  - db: storage backends behind tally.Backend
  - handlers: HTTP request handlers (candidates, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Record and request/response types
  - auth: Caller identity and signatures
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
