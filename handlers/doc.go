// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the tallyboard API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - CandidateHandler: Candidate registration and statistics
  - VotingHandler: Vote casting, back-filling and voter lookup
  - ResultsHandler: Per-candidate daily chart

Handlers are created via constructor functions that accept *tally.Store and Config:

	votingHandler := handlers.NewVotingHandler(store, cfg)

# Candidates

	POST /candidates      → RegisterCandidate
	GET /candidates       → ListCandidates (registration order)
	GET /candidates/{id}  → GetCandidate

# Voting

	POST /candidates/{id}/votes    → CastVote
	POST /candidates/{id}/backfill → Backfill (privileged callers only)
	GET /voters/{voter}/vote       → CheckVoted

Voting operations identify the caller with the X-Caller-ID header. When a
caller secret is configured the X-Caller-Signature header must carry the
matching signature.

Votes are stamped with the handler's clock. Tests pin it with WithClock:

	handler := handlers.NewVotingHandler(store, cfg).WithClock(fixed)

# Errors

Store errors map to statuses in errors.go: invalid arguments are 400,
unknown candidates 404, duplicates and repeat votes 409, unauthorized
back-fills 403 and store inconsistencies 500. A Redis write that lost a race
to another writer is 503 and may be retried.
*/
package handlers
