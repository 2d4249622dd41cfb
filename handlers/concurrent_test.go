// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tallyboard/testutil"
)

// TestConcurrentVotes verifies that simultaneous votes from different voters
// are all counted, in the total and in the day bucket
func TestConcurrentVotes(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	votingHandler := NewVotingHandler(store, cfg).WithClock(testutil.FixedClock(testutil.VoteTime))

	testutil.RegisterTestCandidate(t, store, "0", "Trump")

	numVoters := 20
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			voterID := fmt.Sprintf("voter%02d_near", voterIdx)
			w := httptest.NewRecorder()
			votingHandler.CastVote(w, castVoteRequest("0", testutil.CallerHeaders(voterID, "")))

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, int32(numVoters), successCount.Load())

	stats, err := store.CandidateStats(context.Background(), "0")
	require.NoError(t, err)
	assert.Equal(t, int64(numVoters), stats.TotalVote)

	charts, err := store.Chart(context.Background())
	require.NoError(t, err)
	require.Len(t, charts, 1)
	require.Len(t, charts[0].Data, 1)
	assert.Equal(t, int64(numVoters), charts[0].Data[0].Y)
}

// TestConcurrentSameVoter verifies that a voter racing against itself is
// counted exactly once
func TestConcurrentSameVoter(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	votingHandler := NewVotingHandler(store, cfg).WithClock(testutil.FixedClock(testutil.VoteTime))

	testutil.RegisterTestCandidate(t, store, "0", "Trump")
	testutil.RegisterTestCandidate(t, store, "1", "Biden")

	numAttempts := 10
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(attempt int) {
			defer wg.Done()

			candidateID := fmt.Sprint(attempt % 2)
			w := httptest.NewRecorder()
			votingHandler.CastVote(w, castVoteRequest(candidateID, testutil.CallerHeaders("bob_near", "")))

			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, int32(1), successCount.Load(), "exactly one vote should succeed")
	assert.Equal(t, int32(numAttempts-1), conflictCount.Load())

	list, err := store.ListCandidates(context.Background())
	require.NoError(t, err)
	var total int64
	for _, c := range list {
		total += c.TotalVote
	}
	assert.Equal(t, int64(1), total)
}

// TestConcurrentReadsDuringVotes verifies that chart reads succeed while
// votes are being written
func TestConcurrentReadsDuringVotes(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, cfg)
	votingHandler := NewVotingHandler(store, cfg).WithClock(testutil.FixedClock(testutil.VoteTime))
	resultsHandler := NewResultsHandler(store, cfg)

	testutil.RegisterTestCandidate(t, store, "0", "Trump")

	var wg sync.WaitGroup
	var readErrors atomic.Int32

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(voterIdx int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			votingHandler.CastVote(w, castVoteRequest("0", testutil.CallerHeaders(fmt.Sprintf("reader%d_near", voterIdx), "")))
		}(i)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			resultsHandler.GetChart(w, httptest.NewRequest("GET", "/chart", nil))
			if w.Code != http.StatusOK {
				readErrors.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(0), readErrors.Load())
}
