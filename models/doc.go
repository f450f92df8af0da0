// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: email, password, first_name, last_name
  - LoginRequest: email, password, optional role hint
  - CreateElectionRequest: title, description, dates, inline candidates
  - UpdateElectionRequest: partial update (pointer fields)
  - AddCandidateRequest: name, party
  - CastVoteRequest: election_id, candidate_id

# Response Types

Types for JSON responses:

  - RegisterResponse: account_id, email, role
  - LoginResponse: token, account
  - CreateElectionResponse: election_id, candidate_ids
  - CastVoteResponse: the vote receipt
  - MyVoteResponse: has_voted plus vote details
  - ResultsResponse: per-candidate counts and percentages
  - StatsResponse: turnout figures
  - ErrorResponse: error, code, message

# Domain Types

Internal data structures:

  - Account: credential holder with a role
  - Election: time-boxed voting event with lifecycle state
  - Candidate: option within one election, with its running tally
  - HistoryEntry: one row of a voter's history

# Constants

Election status values:

	StatusPending = "pending"
	StatusActive  = "active"
	StatusClosed  = "closed"

Error codes (the stable contract for clients) are the Code* constants,
e.g. CodeAlreadyVoted, CodeElectionNotActive, CodeForbidden.
*/
package models
