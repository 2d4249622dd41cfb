// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/tallyboard/auth"
	"github.com/danielhkuo/tallyboard/cliparse"
	"github.com/danielhkuo/tallyboard/middleware"
	"github.com/danielhkuo/tallyboard/models"
	"github.com/danielhkuo/tallyboard/tally"
)

type VotingHandler struct {
	store *tally.Store
	cfg   cliparse.Config
	now   func() time.Time
}

func NewVotingHandler(store *tally.Store, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: store, cfg: cfg, now: time.Now}
}

// WithClock replaces the clock used to stamp votes
func (h *VotingHandler) WithClock(now func() time.Time) *VotingHandler {
	h.now = now
	return h
}

// caller builds the Caller Context for this request
func (h *VotingHandler) caller(r *http.Request) (tally.Caller, error) {
	callerID, err := auth.CallerFromRequest(r, h.cfg.CallerSecret)
	if err != nil {
		return tally.Caller{}, err
	}
	return tally.Caller{VoterID: callerID, Now: h.now()}, nil
}

// CastVote handles POST /candidates/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return
	}

	caller, err := h.caller(r)
	if err != nil {
		callerErrorResponse(w, err)
		return
	}

	if err := h.store.CastVote(r.Context(), caller, candidateID); err != nil {
		storeErrorResponse(w, r, err, "cast_vote")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SuccessResponse{Success: true})
}

// Backfill handles POST /candidates/{id}/backfill
// Privileged callers only; the timestamp is the bucket key as given
func (h *VotingHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return
	}

	caller, err := h.caller(r)
	if err != nil {
		callerErrorResponse(w, err)
		return
	}

	var req models.BackfillRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Timestamp == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "timestamp is required")
		return
	}

	if err := h.store.CastVoteAt(r.Context(), caller, candidateID, *req.Timestamp); err != nil {
		storeErrorResponse(w, r, err, "cast_vote_with_timestamp")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SuccessResponse{Success: true})
}

// CheckVoted handles GET /voters/{voter}/vote
func (h *VotingHandler) CheckVoted(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("voter")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	candidate, voted, err := h.store.CheckVoted(r.Context(), voterID)
	if err != nil {
		storeErrorResponse(w, r, err, "check_voted")
		return
	}

	resp := models.CheckVotedResponse{Voted: voted}
	if voted {
		resp.Candidate = &candidate
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
