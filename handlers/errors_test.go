// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/tallyboard/auth"
	"github.com/danielhkuo/tallyboard/db"
	"github.com/danielhkuo/tallyboard/models"
	"github.com/danielhkuo/tallyboard/tally"
	"github.com/danielhkuo/tallyboard/testutil"
)

func TestStoreErrorResponse(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{"invalid argument", fmt.Errorf("%w: name is required", tally.ErrInvalidArgument), http.StatusBadRequest, "invalid argument: name is required"},
		{"not found", tally.ErrCandidateNotFound, http.StatusNotFound, "candidate not found"},
		{"duplicate", tally.ErrDuplicateCandidate, http.StatusConflict, "candidate already exists"},
		{"already voted", tally.ErrAlreadyVoted, http.StatusConflict, "voter has already voted"},
		{"unauthorized", tally.ErrUnauthorized, http.StatusForbidden, "caller is not authorized"},
		{"inconsistent", tally.ErrInternalInconsistency, http.StatusInternalServerError, "internal inconsistency"},
		{"redis conflict", fmt.Errorf("%w: watch failed", db.ErrConflict), http.StatusServiceUnavailable, "concurrent update, retry the request"},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, "Database error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			storeErrorResponse(w, httptest.NewRequest("GET", "/", nil), tc.err, "test")

			testutil.AssertStatus(t, w, tc.expectedStatus)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			assert.Equal(t, tc.expectedMsg, resp.Message)
		})
	}
}

func TestCallerErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	callerErrorResponse(w, auth.ErrMissingCaller)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = httptest.NewRecorder()
	callerErrorResponse(w, auth.ErrInvalidSignature)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
