// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Request headers carrying the caller identity
const (
	CallerHeader    = "X-Caller-ID"
	SignatureHeader = "X-Caller-Signature"
)

var (
	ErrMissingCaller    = errors.New("missing caller identity")
	ErrInvalidSignature = errors.New("invalid caller signature")
)

// SignCaller creates an HMAC-based signature for a caller id
// This is deterministic and verifiable
func SignCaller(callerID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(callerID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner signatures
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// VerifyCaller checks that signature was produced by SignCaller for callerID
func VerifyCaller(callerID, signature, secret string) error {
	expected := SignCaller(callerID, secret)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// CallerFromRequest extracts the caller identity from the request headers.
// With an empty secret the id is trusted as sent; otherwise the signature
// header must match.
func CallerFromRequest(r *http.Request, secret string) (string, error) {
	callerID := strings.TrimSpace(r.Header.Get(CallerHeader))
	if callerID == "" {
		return "", ErrMissingCaller
	}
	if secret == "" {
		return callerID, nil
	}
	if err := VerifyCaller(callerID, r.Header.Get(SignatureHeader), secret); err != nil {
		return "", err
	}
	return callerID, nil
}
