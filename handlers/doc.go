// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Ballotbox API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: Registration, login, and profile lifecycle
  - ElectionHandler: Election and candidate lifecycle (admin)
  - VoteHandler: Vote casting, has-voted check, voting history
  - ResultsHandler: Tallies, percentages, turnout stats

Handlers are created via constructor functions that accept *sql.DB and Config:

	voteHandler := handlers.NewVoteHandler(db, cfg)

# Profile

	GET    /profile          → GetProfile
	PUT    /profile          → UpdateProfile
	PUT    /profile/password → ChangePassword
	DELETE /profile          → DeleteAccount

Any valid token. Password change and account deletion re-verify the
password first. Deleting an account leaves its votes in place: they are
audit records, and removing them would alter settled tallies.

# Election Lifecycle

Elections progress through three states: pending → active → closed

	POST   /elections                  → CreateElection (with inline candidates)
	POST   /elections/{id}/candidates  → AddCandidate (pending only)
	PUT    /elections/{id}             → UpdateElection (fields and status)
	DELETE /elections/{id}             → DeleteElection (cascades)

Admin operations require a bearer token with the admin role.

# Voting

	POST /votes                     → CastVote
	GET  /elections/{id}/my-vote    → MyVote
	GET  /votes/history             → History

Voter operations require a bearer token with the voter role. CastVote
runs its checks and writes inside a single transaction; the vote
table's UNIQUE (account_id, election_id) constraint guarantees at most
one vote per voter per election even under concurrent requests, and a
constraint violation is reported as the already_voted error code.

# Results

	GET /elections/{id}/results → GetResults
	GET /elections/{id}/stats   → GetStats

Results are computed from vote rows with percentages rounded to two
decimals; an election with no votes reports 0% for every candidate.
*/
package handlers
