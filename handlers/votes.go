// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg}
}

// CastVote handles POST /votes
//
// All checks and writes run inside one transaction:
// election active → no prior vote → candidate belongs to election →
// insert vote → increment tally → commit. Any failure rolls the whole
// attempt back, so no partial state is ever visible.
//
// The in-transaction prior-vote check gives the friendly error; the
// UNIQUE (account_id, election_id) constraint is what actually
// serializes concurrent attempts, including across processes. A
// constraint violation on insert is translated to already_voted.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Authentication required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if req.ElectionID == "" || req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "election_id and candidate_id are required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer tx.Rollback()

	// Election must exist and be active at evaluation time.
	var status string
	err = tx.QueryRow(`SELECT status FROM election WHERE id = $1`, req.ElectionID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if status != models.StatusActive {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeElectionNotActive, "Election is not active")
		return
	}

	// Prior vote?
	var hasVoted bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM vote WHERE account_id = $1 AND election_id = $2)
	`, identity.AccountID, req.ElectionID).Scan(&hasVoted)
	if err != nil {
		slog.Error("failed to check prior vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if hasVoted {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyVoted, "You have already voted in this election")
		return
	}

	// Candidate must belong to the election being voted in.
	var candidateValid bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM candidate WHERE id = $1 AND election_id = $2)
	`, req.CandidateID, req.ElectionID).Scan(&candidateValid)
	if err != nil {
		slog.Error("failed to check candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if !candidateValid {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidCandidate, "Invalid candidate for this election")
		return
	}

	voteID := uuid.NewString()
	castAt := time.Now()
	_, err = tx.Exec(`
		INSERT INTO vote (id, account_id, candidate_id, election_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, identity.AccountID, req.CandidateID, req.ElectionID, castAt)

	if err != nil {
		// A concurrent attempt won the race; same outcome as the
		// explicit check above.
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyVoted, "You have already voted in this election")
			return
		}
		slog.Error("failed to insert vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to record vote")
		return
	}

	_, err = tx.Exec(`UPDATE candidate SET votes = votes + 1 WHERE id = $1`, req.CandidateID)
	if err != nil {
		slog.Error("failed to increment tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to record vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to record vote")
		return
	}

	slog.Info("vote cast", "election_id", req.ElectionID, "vote_id", voteID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:      voteID,
		ElectionID:  req.ElectionID,
		CandidateID: req.CandidateID,
		CastAt:      castAt,
		Message:     "Vote recorded successfully",
	})
}

// MyVote handles GET /elections/{id}/my-vote
// Lets a voter confirm whether (and how) they voted in an election.
func (h *VoteHandler) MyVote(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Authentication required")
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "election id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)`, electionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Election not found")
		return
	}

	var candidateID string
	var castAt time.Time
	err = h.db.QueryRow(`
		SELECT candidate_id, created_at FROM vote
		WHERE account_id = $1 AND election_id = $2
	`, identity.AccountID, electionID).Scan(&candidateID, &castAt)

	if err == sql.ErrNoRows {
		middleware.JSONResponse(w, http.StatusOK, models.MyVoteResponse{HasVoted: false})
		return
	}
	if err != nil {
		slog.Error("failed to query vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyVoteResponse{
		HasVoted:    true,
		CandidateID: &candidateID,
		CastAt:      &castAt,
	})
}

// History handles GET /votes/history
// Newest first, with a human-readable relative timestamp.
func (h *VoteHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Authentication required")
		return
	}

	rows, err := h.db.Query(`
		SELECT e.title, c.name, c.party, v.created_at
		FROM vote v
		JOIN election e ON v.election_id = e.id
		JOIN candidate c ON v.candidate_id = c.id
		WHERE v.account_id = $1
		ORDER BY v.created_at DESC
	`, identity.AccountID)
	if err != nil {
		slog.Error("failed to query voting history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer rows.Close()

	history := []models.HistoryEntry{}
	for rows.Next() {
		var entry models.HistoryEntry
		if err := rows.Scan(&entry.ElectionTitle, &entry.CandidateName, &entry.CandidateParty, &entry.CastAt); err != nil {
			slog.Error("failed to scan history entry", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		entry.CastAgo = humanize.Time(entry.CastAt)
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read voting history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, history)
}
