// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/tallyboard/cliparse"
	"github.com/danielhkuo/tallyboard/middleware"
	"github.com/danielhkuo/tallyboard/models"
	"github.com/danielhkuo/tallyboard/tally"
)

type CandidateHandler struct {
	store *tally.Store
	cfg   cliparse.Config
}

func NewCandidateHandler(store *tally.Store, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{store: store, cfg: cfg}
}

// RegisterCandidate handles POST /candidates
func (h *CandidateHandler) RegisterCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := h.store.RegisterCandidate(r.Context(), models.Candidate{
		CandidateID: req.CandidateID,
		Name:        req.Name,
	})
	if err != nil {
		storeErrorResponse(w, r, err, "register_candidate")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SuccessResponse{Success: true})
}

// ListCandidates handles GET /candidates
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListCandidates(r.Context())
	if err != nil {
		storeErrorResponse(w, r, err, "list_candidates")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetCandidate handles GET /candidates/{id}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return
	}

	stats, err := h.store.CandidateStats(r.Context(), candidateID)
	if err != nil {
		storeErrorResponse(w, r, err, "get_candidate_stats")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}
