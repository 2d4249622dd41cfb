// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves the caller identity of a request.

# Caller Identity

The caller id is an opaque string sent in the X-Caller-ID header. It is
the voter id for CastVote and the identity checked against the privileged
allowlist for back-filling.

	callerID, err := auth.CallerFromRequest(r, cfg.CallerSecret)

# Signatures

When a caller secret is configured, the upstream gateway signs each caller
id with HMAC-SHA256 and sends it in X-Caller-Signature:

	sig := auth.SignCaller(callerID, secret)
	err := auth.VerifyCaller(callerID, sig, secret)

The signature is URL-safe base64 encoded without padding. Since it's
deterministic, nothing needs to be stored to validate it.
*/
package auth
