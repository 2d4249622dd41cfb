// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tallyboard/auth"
	"github.com/danielhkuo/tallyboard/models"
	"github.com/danielhkuo/tallyboard/testutil"
)

func castVoteRequest(candidateID string, headers map[string]string) *http.Request {
	req := testutil.MakeRequest("POST", "/candidates/"+candidateID+"/votes", nil, headers)
	req.SetPathValue("id", candidateID)
	return req
}

func TestCastVote(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	handler := NewVotingHandler(store, cfg).WithClock(testutil.FixedClock(testutil.VoteTime))

	testutil.RegisterTestCandidate(t, store, "0", "Trump")
	testutil.CastTestVote(t, store, "already_near", "0")

	tests := []struct {
		name           string
		candidateID    string
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:           "valid vote",
			candidateID:    "0",
			headers:        testutil.CallerHeaders("bob_near", ""),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing caller",
			candidateID:    "0",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "already voted",
			candidateID:    "0",
			headers:        testutil.CallerHeaders("already_near", ""),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "candidate not found",
			candidateID:    "1",
			headers:        testutil.CallerHeaders("carol_near", ""),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			handler.CastVote(w, castVoteRequest(tt.candidateID, tt.headers))

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	stats, err := store.CandidateStats(context.Background(), "0")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalVote)
}

func TestCastVoteUsesClock(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	handler := NewVotingHandler(store, cfg).WithClock(testutil.FixedClock(testutil.VoteTime))

	testutil.RegisterTestCandidate(t, store, "0", "Trump")

	w := httptest.NewRecorder()
	handler.CastVote(w, castVoteRequest("0", testutil.CallerHeaders("bob_near", "")))
	testutil.AssertStatus(t, w, http.StatusCreated)

	charts, err := store.Chart(context.Background())
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, []models.ChartPoint{{X: testutil.DayStart, Y: 1}}, charts[0].Data)
}

func TestCastVoteSignedCaller(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.CallerSecret = "gateway-secret"
	store := testutil.SetupTestStore(t, cfg)
	handler := NewVotingHandler(store, cfg).WithClock(testutil.FixedClock(testutil.VoteTime))

	testutil.RegisterTestCandidate(t, store, "0", "Trump")

	t.Run("unsigned caller rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CastVote(w, castVoteRequest("0", testutil.CallerHeaders("bob_near", "")))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("forged signature rejected", func(t *testing.T) {
		headers := testutil.CallerHeaders("bob_near", "wrong-secret")
		w := httptest.NewRecorder()
		handler.CastVote(w, castVoteRequest("0", headers))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("signed caller accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CastVote(w, castVoteRequest("0", testutil.CallerHeaders("bob_near", cfg.CallerSecret)))
		testutil.AssertStatus(t, w, http.StatusCreated)
	})
}

func backfillRequest(candidateID string, timestamp int64, headers map[string]string) *http.Request {
	req := testutil.MakeRequest("POST", "/candidates/"+candidateID+"/backfill",
		models.BackfillRequest{Timestamp: &timestamp}, headers)
	req.SetPathValue("id", candidateID)
	return req
}

func TestBackfill(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	handler := NewVotingHandler(store, cfg)

	testutil.RegisterTestCandidate(t, store, "0", "Trump")

	tests := []struct {
		name           string
		candidateID    string
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:           "privileged caller",
			candidateID:    "0",
			headers:        testutil.CallerHeaders(testutil.PrivilegedCaller, ""),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "privileged caller repeats",
			candidateID:    "0",
			headers:        testutil.CallerHeaders(testutil.PrivilegedCaller, ""),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "ordinary caller",
			candidateID:    "0",
			headers:        testutil.CallerHeaders("bob_near", ""),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing caller",
			candidateID:    "0",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown candidate",
			candidateID:    "7",
			headers:        testutil.CallerHeaders(testutil.PrivilegedCaller, ""),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			handler.Backfill(w, backfillRequest(tt.candidateID, testutil.DayStart, tt.headers))

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	charts, err := store.Chart(context.Background())
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, []models.ChartPoint{{X: testutil.DayStart, Y: 2}}, charts[0].Data)

	// back-filling never records a voter
	_, voted, err := store.CheckVoted(context.Background(), testutil.PrivilegedCaller)
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestBackfillInvalidJSON(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	handler := NewVotingHandler(store, cfg)

	testutil.RegisterTestCandidate(t, store, "0", "Trump")

	req := testutil.MakeRequest("POST", "/candidates/0/backfill", nil,
		testutil.CallerHeaders(testutil.PrivilegedCaller, ""))
	req.SetPathValue("id", "0")
	w := httptest.NewRecorder()

	handler.Backfill(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestBackfillRequiresTimestamp(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	handler := NewVotingHandler(store, cfg)

	testutil.RegisterTestCandidate(t, store, "0", "Trump")

	req := httptest.NewRequest("POST", "/candidates/0/backfill", strings.NewReader(`{}`))
	req.Header.Set(auth.CallerHeader, testutil.PrivilegedCaller)
	req.SetPathValue("id", "0")
	w := httptest.NewRecorder()

	handler.Backfill(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// nothing landed in the epoch bucket
	charts, err := store.Chart(context.Background())
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Empty(t, charts[0].Data)
}

func TestBackfillZeroTimestamp(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	handler := NewVotingHandler(store, cfg)

	testutil.RegisterTestCandidate(t, store, "0", "Trump")

	// an explicit zero is a valid bucket key
	w := httptest.NewRecorder()
	handler.Backfill(w, backfillRequest("0", 0, testutil.CallerHeaders(testutil.PrivilegedCaller, "")))
	testutil.AssertStatus(t, w, http.StatusCreated)

	charts, err := store.Chart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.ChartPoint{{X: 0, Y: 1}}, charts[0].Data)
}

func TestCheckVoted(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	handler := NewVotingHandler(store, cfg)

	testutil.RegisterTestCandidate(t, store, "0", "Trump")
	testutil.CastTestVote(t, store, "bob_near", "0")

	t.Run("voter found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/voters/bob_near/vote", nil)
		req.SetPathValue("voter", "bob_near")
		w := httptest.NewRecorder()

		handler.CheckVoted(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.CheckVotedResponse
		testutil.AssertJSON(t, w, &resp)
		assert.True(t, resp.Voted)
		require.NotNil(t, resp.Candidate)
		assert.Equal(t, models.Candidate{CandidateID: "0", Name: "Trump"}, *resp.Candidate)
	})

	t.Run("unknown voter is not an error", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/voters/nobody/vote", nil)
		req.SetPathValue("voter", "nobody")
		w := httptest.NewRecorder()

		handler.CheckVoted(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.CheckVotedResponse
		testutil.AssertJSON(t, w, &resp)
		assert.False(t, resp.Voted)
		assert.Nil(t, resp.Candidate)
	})
}

func TestCallerHeaderName(t *testing.T) {
	// Frontends depend on these header names
	assert.Equal(t, "X-Caller-ID", auth.CallerHeader)
	assert.Equal(t, "X-Caller-Signature", auth.SignatureHeader)
}
