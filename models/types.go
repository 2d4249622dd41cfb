// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Domain types

type Candidate struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
}

type CandidateStats struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	TotalVote   int64  `json:"total_vote"`
}

// ChartPoint is one day bucket: X is the bucket start in Unix milliseconds,
// Y the number of votes counted in it.
type ChartPoint struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

type CandidateChart struct {
	CandidateID string       `json:"candidate_id"`
	Name        string       `json:"name"`
	Data        []ChartPoint `json:"data"`
}

// Request types

type RegisterCandidateRequest struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
}

// Timestamp is used verbatim as the bucket key and is required.
type BackfillRequest struct {
	Timestamp *int64 `json:"timestamp"`
}

// Response types

type SuccessResponse struct {
	Success bool `json:"success"`
}

type CheckVotedResponse struct {
	Voted     bool       `json:"voted"`
	Candidate *Candidate `json:"candidate,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
