// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/tallyboard/cliparse"
	"github.com/danielhkuo/tallyboard/handlers"
	"github.com/danielhkuo/tallyboard/middleware"
	"github.com/danielhkuo/tallyboard/tally"
)

func NewRouter(store *tally.Store, cfg cliparse.Config) *http.ServeMux {
	return NewRouterWithHandlers(
		handlers.NewCandidateHandler(store, cfg),
		handlers.NewVotingHandler(store, cfg),
		handlers.NewResultsHandler(store, cfg),
	)
}

// NewRouterWithHandlers registers routes for already built handlers, so
// tests can swap the voting clock.
func NewRouterWithHandlers(
	candidateHandler *handlers.CandidateHandler,
	votingHandler *handlers.VotingHandler,
	resultsHandler *handlers.ResultsHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Candidates
	mux.HandleFunc("POST /candidates", middleware.WithLogging(candidateHandler.RegisterCandidate))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("GET /candidates/{id}", middleware.WithLogging(candidateHandler.GetCandidate))

	// Voting (caller identity from X-Caller-ID)
	mux.HandleFunc("POST /candidates/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("POST /candidates/{id}/backfill", middleware.WithLogging(votingHandler.Backfill))
	mux.HandleFunc("GET /voters/{voter}/vote", middleware.WithLogging(votingHandler.CheckVoted))

	// Results
	mux.HandleFunc("GET /chart", middleware.WithLogging(resultsHandler.GetChart))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tallyboard API v1"))
	})

	return mux
}
