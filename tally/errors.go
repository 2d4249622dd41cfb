// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "errors"

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrDuplicateCandidate = errors.New("candidate already exists")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrAlreadyVoted       = errors.New("voter has already voted")
	ErrUnauthorized       = errors.New("caller is not authorized")

	// ErrInternalInconsistency means the mappings disagree with each other.
	// It is never the caller's fault and never expected in a healthy store.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)
