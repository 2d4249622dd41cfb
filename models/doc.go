// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the records exchanged between the tally store and its
callers.

# Domain Types

  - Candidate: a registered option (candidate_id, name)
  - CandidateStats: a candidate plus its running total_vote
  - CandidateChart: a candidate plus its daily series
  - ChartPoint: one day bucket (x = day start in Unix ms, y = count)

# Request/Response Types

Request types (e.g. RegisterCandidateRequest) are decoded by the HTTP
handlers; response types (SuccessResponse, CheckVotedResponse, ErrorResponse)
are encoded back to the client. JSON field names use snake_case and match the
field names rendered by the chart frontend.
*/
package models
