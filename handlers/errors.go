// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/tallyboard/auth"
	"github.com/danielhkuo/tallyboard/db"
	"github.com/danielhkuo/tallyboard/middleware"
	"github.com/danielhkuo/tallyboard/tally"
)

// storeErrorResponse maps a tally store error to its HTTP status
func storeErrorResponse(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, tally.ErrInvalidArgument):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tally.ErrCandidateNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tally.ErrDuplicateCandidate), errors.Is(err, tally.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, db.ErrConflict):
		// a concurrent writer won; nothing was written
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "concurrent update, retry the request")
	case errors.Is(err, tally.ErrUnauthorized):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, tally.ErrInternalInconsistency):
		middleware.Logger(r.Context()).Error("tally store inconsistent", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
	default:
		middleware.Logger(r.Context()).Error("tally store failed", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// callerErrorResponse reports a missing or forged caller identity
func callerErrorResponse(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrMissingCaller) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.CallerHeader+" header is required")
		return
	}
	middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
}
