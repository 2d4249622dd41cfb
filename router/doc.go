// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the tallyboard API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

# Endpoints

Health:

	GET /health

Candidates:

	POST /candidates      - Register candidate
	GET  /candidates      - List candidates with totals
	GET  /candidates/{id} - Single candidate with total

Voting (requires X-Caller-ID):

	POST /candidates/{id}/votes    - Cast the caller's vote
	POST /candidates/{id}/backfill - Back-fill a bucket (privileged)
	GET  /voters/{voter}/vote      - Who did a voter vote for

Results:

	GET /chart - Daily series per candidate

# Handler Initialization

The router creates handler instances with dependency injection:

	candidateHandler := handlers.NewCandidateHandler(store, cfg)
	votingHandler := handlers.NewVotingHandler(store, cfg)
	resultsHandler := handlers.NewResultsHandler(store, cfg)

All handlers receive the tally store and configuration.
*/
package router
