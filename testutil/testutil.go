// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tallyboard/auth"
	"github.com/danielhkuo/tallyboard/cliparse"
	"github.com/danielhkuo/tallyboard/db"
	"github.com/danielhkuo/tallyboard/models"
	"github.com/danielhkuo/tallyboard/tally"
)

// PrivilegedCaller is the back-fill identity in GetTestConfig
const PrivilegedCaller = "rubikone.testnet"

// VoteTime is 2021-11-27T19:17:01Z; its day bucket is DayStart.
var VoteTime = time.Unix(0, 1638040621000000000).UTC()

// DayStart is the midnight UTC bucket of VoteTime in Unix milliseconds
const DayStart int64 = 1637971200000

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseType:      cliparse.DatabaseMemory,
		PrivilegedCallers: []string{PrivilegedCaller},
		RedisPrefix:       "tally-test",
	}
}

// SetupTestStore creates a tally store on a fresh in-memory backend
func SetupTestStore(t *testing.T, cfg cliparse.Config) *tally.Store {
	t.Helper()
	return newStore(t, db.NewMemory(), cfg)
}

// SetupSQLiteStore creates a tally store on a fresh sqlite file
func SetupSQLiteStore(t *testing.T, cfg cliparse.Config) *tally.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tally.db")
	backend, err := db.OpenSQL(context.Background(), db.DialectSQLite, path, nil)
	require.NoError(t, err, "Failed to open test database")

	return newStore(t, backend, cfg)
}

func newStore(t *testing.T, backend tally.Backend, cfg cliparse.Config) *tally.Store {
	t.Helper()
	store := tally.New(backend, tally.Config{PrivilegedCallers: cfg.PrivilegedCallers}, nil)
	t.Cleanup(func() { store.Close() })
	return store
}

// FixedClock returns a clock that always reads at
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// RegisterTestCandidate adds a candidate directly through the store
func RegisterTestCandidate(t *testing.T, store *tally.Store, id, name string) {
	t.Helper()
	err := store.RegisterCandidate(context.Background(), models.Candidate{CandidateID: id, Name: name})
	require.NoError(t, err, "Failed to register test candidate")
}

// CastTestVote casts voterID's vote at VoteTime directly through the store
func CastTestVote(t *testing.T, store *tally.Store, voterID, candidateID string) {
	t.Helper()
	err := store.CastVote(context.Background(), tally.Caller{VoterID: voterID, Now: VoteTime}, candidateID)
	require.NoError(t, err, "Failed to cast test vote")
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// CallerHeaders returns the headers identifying callerID, signed when
// secret is set
func CallerHeaders(callerID, secret string) map[string]string {
	headers := map[string]string{auth.CallerHeader: callerID}
	if secret != "" {
		headers[auth.SignatureHeader] = auth.SignCaller(callerID, secret)
	}
	return headers
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
