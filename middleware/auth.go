// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/models"
)

type contextKey string

const identityKey contextKey = "identity"

// RequireAuth extracts and verifies the bearer token, attaching the
// resolved identity to the request context. A missing token and an
// invalid or expired one are reported distinctly but both map to 401.
func RequireAuth(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		identity, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredential, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole passes the request through only when the authenticated
// identity holds the given role. Pure check, no I/O; evaluated on
// every request.
func RequireRole(role auth.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r)
		if !ok {
			ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Authentication required")
			return
		}
		if identity.Role != role {
			ErrorResponse(w, http.StatusForbidden, models.CodeForbidden, "Insufficient role for this operation")
			return
		}
		next(w, r)
	}
}

// IdentityFrom returns the identity attached by RequireAuth.
func IdentityFrom(r *http.Request) (auth.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(auth.Identity)
	return identity, ok
}

// WithIdentity returns a request carrying the identity, as RequireAuth
// would produce. Test helper for exercising handlers directly.
func WithIdentity(r *http.Request, identity auth.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, identity))
}
