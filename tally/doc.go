// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally implements the vote tally for a single election.

# State

A Store owns four mappings kept in a Backend:

  - candidates: candidate_id → Candidate, in registration order
  - voter records: voter_id → candidate_id, written once per voter
  - vote totals: candidate_id → running count
  - chart series: candidate_id → day bucket (Unix ms) → count

For every candidate the sum of its day buckets equals its total.

# Operations

	store := tally.New(backend, tally.Config{PrivilegedCallers: []string{"admin"}}, logger)

	store.RegisterCandidate(ctx, models.Candidate{CandidateID: "0", Name: "Trump"})
	store.CastVote(ctx, tally.Caller{VoterID: "bob", Now: time.Now()}, "0")
	store.CheckVoted(ctx, "bob")
	store.ListCandidates(ctx)
	store.Chart(ctx)

The caller identity and clock are always passed in through Caller; the store
never reads them from the environment.

# Day Buckets

CastVote counts each vote in the bucket returned by DayStartMillis, the
vote's instant truncated to midnight UTC. CastVoteAt, available only to
privileged callers, uses the supplied timestamp as the bucket key without
truncation and skips the one-vote-per-voter gate.

# Strict and Lenient Reads

CandidateStats fails with ErrInternalInconsistency when a candidate has no
total; ListCandidates reports such a candidate with zero votes. Chart is
strict about missing series.
*/
package tally
