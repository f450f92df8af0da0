// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Authentication

RequireAuth verifies the Authorization bearer token and attaches the
resolved identity to the request context:

	mux.HandleFunc("POST /votes", middleware.RequireAuth(secret, handler))

Downstream handlers read it back:

	identity, ok := middleware.IdentityFrom(r)

A missing header yields 401 with code "unauthenticated"; a malformed or
expired token yields 401 with code "invalid_credential".

# Authorization

RequireRole gates a handler on an exact role. It is a pure check over
the context identity, re-evaluated per request:

	middleware.RequireAuth(secret, middleware.RequireRole(auth.RoleAdmin, handler))

Wrong role yields 403 with code "forbidden".

# Rate Limiting

RateLimiter is a fixed-window counter keyed by client IP:

	limiter := middleware.NewRateLimiter(5, 15*time.Minute)
	mux.HandleFunc("POST /auth/login", limiter.Wrap(handler))

Over-budget requests yield 429 with code "rate_limited". For voting the
limiter is an auxiliary guard only; correctness comes from the database
uniqueness constraint.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyVoted, "message")

Parse JSON request bodies:

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the rate-limiter key.
*/
package middleware
