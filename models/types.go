// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status constants
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusClosed  = "closed"
)

// Stable error codes returned in the "code" field of error responses.
// Clients branch on these, not on messages.
const (
	CodeUnauthenticated   = "unauthenticated"
	CodeInvalidCredential = "invalid_credential"
	CodeForbidden         = "forbidden"
	CodeAlreadyVoted      = "already_voted"
	CodeElectionNotActive = "election_not_active"
	CodeInvalidCandidate  = "invalid_candidate"
	CodeAlreadyExists     = "already_exists"
	CodeNotFound          = "not_found"
	CodeRateLimited       = "rate_limited"
	CodeValidation        = "validation"
	CodeInternal          = "internal"
)

// Request types

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role is a UI routing hint only; the authoritative role always
	// comes from the stored account.
	Role string `json:"role,omitempty"`
}

type NewCandidate struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

type CreateElectionRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	Candidates  []NewCandidate `json:"candidates,omitempty"`
}

// UpdateElectionRequest uses pointers so absent fields are left unchanged.
type UpdateElectionRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

// UpdateProfileRequest uses pointers so absent fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// DeleteAccountRequest carries the password re-check that guards the
// destructive operation.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type AddCandidateRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

type CastVoteRequest struct {
	ElectionID  string `json:"election_id"`
	CandidateID string `json:"candidate_id"`
}

// Response types

type RegisterResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

type CreateElectionResponse struct {
	ElectionID   string   `json:"election_id"`
	CandidateIDs []string `json:"candidate_ids,omitempty"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

// CastVoteResponse is the receipt confirming a recorded vote.
type CastVoteResponse struct {
	VoteID      string    `json:"vote_id"`
	ElectionID  string    `json:"election_id"`
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
	Message     string    `json:"message"`
}

type MyVoteResponse struct {
	HasVoted    bool       `json:"has_voted"`
	CandidateID *string    `json:"candidate_id,omitempty"`
	CastAt      *time.Time `json:"cast_at,omitempty"`
}

type HistoryEntry struct {
	ElectionTitle  string    `json:"election_title"`
	CandidateName  string    `json:"candidate_name"`
	CandidateParty string    `json:"candidate_party"`
	CastAt         time.Time `json:"cast_at"`
	CastAgo        string    `json:"cast_ago"`
}

type CandidateResult struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Party       string  `json:"party"`
	VoteCount   int     `json:"vote_count"`
	Percentage  float64 `json:"percentage"`
}

type ResultsResponse struct {
	ElectionID string            `json:"election_id"`
	Status     string            `json:"status"`
	TotalVotes int               `json:"total_votes"`
	Results    []CandidateResult `json:"results"`
}

type StatsResponse struct {
	ElectionID      string  `json:"election_id"`
	TotalVoters     int     `json:"total_voters"`
	EligibleVoters  int     `json:"eligible_voters"`
	TotalCandidates int     `json:"total_candidates"`
	TotalVotes      int     `json:"total_votes"`
	Turnout         float64 `json:"turnout"`
}

// Domain types

type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Election struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	CandidateCount int       `json:"candidate_count"`
	VoteCount      int       `json:"vote_count"`
}

type Candidate struct {
	ID         string `json:"id"`
	ElectionID string `json:"election_id"`
	Name       string `json:"name"`
	Party      string `json:"party"`
	Votes      int    `json:"votes"`
}

type ElectionWithCandidates struct {
	Election   Election    `json:"election"`
	Candidates []Candidate `json:"candidates"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
