// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Ballotbox API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Authentication (rate limited):

	POST /auth/register - Create a voter account
	POST /auth/login    - Exchange credentials for a token

Account profile (any valid token):

	GET    /profile          - Own account details
	PUT    /profile          - Update name fields
	PUT    /profile/password - Change password (current password required)
	DELETE /profile          - Delete account (votes survive as audit records)

Election management (admin token):

	POST   /elections                 - Create election (+inline candidates)
	PUT    /elections/{id}            - Update fields or lifecycle status
	DELETE /elections/{id}            - Delete (cascades to candidates, votes)
	POST   /elections/{id}/candidates - Add candidate (pending only)

Election retrieval (public):

	GET /elections                  - List with candidate/vote counts
	GET /elections/{id}             - Detail with candidates
	GET /elections/{id}/candidates  - Candidates only

Voting (voter token):

	POST /votes                  - Cast a vote (rate limited)
	GET  /elections/{id}/my-vote - Has this voter voted here?
	GET  /votes/history          - The voter's past votes

Results:

	GET /elections/{id}/results - Counts and percentages
	GET /elections/{id}/stats   - Turnout (any valid token)

Results are public unless the server runs with --public-results=false,
in which case any valid token is required.

# Middleware Chains

The router composes the chains: logging wraps everything; auth wraps
role-gated routes; rate limiters wrap login, register, and vote:

	mux.HandleFunc("POST /votes",
		middleware.WithLogging(
			middleware.RequireAuth(secret,
				middleware.RequireRole(auth.RoleVoter,
					voteLimiter.Wrap(voteHandler.CastVote)))))
*/
package router
