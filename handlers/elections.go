// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

func validStatus(s string) bool {
	return s == models.StatusPending || s == models.StatusActive || s == models.StatusClosed
}

// CreateElection handles POST /elections
// Candidates may be supplied inline; election and candidates are
// inserted in one transaction.
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "title is required")
		return
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "start_date and end_date are required")
		return
	}
	if !req.EndDate.After(req.StartDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "end_date must be after start_date")
		return
	}
	for _, c := range req.Candidates {
		if c.Name == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "candidate name is required")
			return
		}
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create election")
		return
	}
	defer tx.Rollback()

	electionID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO election (id, title, description, start_date, end_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, electionID, req.Title, req.Description, req.StartDate, req.EndDate, models.StatusPending, time.Now())

	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create election")
		return
	}

	candidateIDs := make([]string, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		candidateID := uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO candidate (id, election_id, name, party)
			VALUES ($1, $2, $3, $4)
		`, candidateID, electionID, c.Name, c.Party)

		if err != nil {
			slog.Error("failed to insert candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create election")
			return
		}
		candidateIDs = append(candidateIDs, candidateID)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", electionID, "candidates", len(candidateIDs))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID:   electionID,
		CandidateIDs: candidateIDs,
	})
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.status, e.created_at,
		       COUNT(DISTINCT c.id), COUNT(DISTINCT v.id)
		FROM election e
		LEFT JOIN candidate c ON e.id = c.election_id
		LEFT JOIN vote v ON e.id = v.election_id
		GROUP BY e.id, e.title, e.description, e.start_date, e.end_date, e.status, e.created_at
		ORDER BY e.created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
			&e.Status, &e.CreatedAt, &e.CandidateCount, &e.VoteCount); err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "election id is required")
		return
	}

	var e models.Election
	err := h.db.QueryRow(`
		SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.status, e.created_at,
		       COUNT(DISTINCT c.id), COUNT(DISTINCT v.id)
		FROM election e
		LEFT JOIN candidate c ON e.id = c.election_id
		LEFT JOIN vote v ON e.id = v.election_id
		WHERE e.id = $1
		GROUP BY e.id, e.title, e.description, e.start_date, e.end_date, e.status, e.created_at
	`, electionID).Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
		&e.Status, &e.CreatedAt, &e.CandidateCount, &e.VoteCount)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	candidates, err := h.queryCandidates(electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   e,
		Candidates: candidates,
	})
}

// UpdateElection handles PUT /elections/{id}
// Partial update: only fields present in the body change. Status
// transitions (pending/active/closed) happen here.
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "election id is required")
		return
	}

	var req models.UpdateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	var e models.Election
	err := h.db.QueryRow(`
		SELECT id, title, description, start_date, end_date, status, created_at
		FROM election WHERE id = $1
	`, electionID).Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.Status, &e.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "title cannot be empty")
			return
		}
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = *req.EndDate
	}
	if !e.EndDate.After(e.StartDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "end_date must be after start_date")
		return
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "status must be pending, active, or closed")
			return
		}
		e.Status = *req.Status
	}

	_, err = h.db.Exec(`
		UPDATE election
		SET title = $1, description = $2, start_date = $3, end_date = $4, status = $5
		WHERE id = $6
	`, e.Title, e.Description, e.StartDate, e.EndDate, e.Status, electionID)

	if err != nil {
		slog.Error("failed to update election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to update election")
		return
	}

	slog.Info("election updated", "election_id", electionID, "status", e.Status)

	middleware.JSONResponse(w, http.StatusOK, e)
}

// DeleteElection handles DELETE /elections/{id}
// Intentionally destructive: the schema cascades to candidates and
// votes.
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "election id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM election WHERE id = $1`, electionID)
	if err != nil {
		slog.Error("failed to delete election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to delete election")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to delete election")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Election not found")
		return
	}

	slog.Info("election deleted", "election_id", electionID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Election deleted",
	})
}

// AddCandidate handles POST /elections/{id}/candidates
// Candidates can only be added while the election is pending.
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "election id is required")
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "name is required")
		return
	}

	var status string
	err := h.db.QueryRow(`SELECT status FROM election WHERE id = $1`, electionID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	if status != models.StatusPending {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeValidation, "Cannot add candidates to a non-pending election")
		return
	}

	candidateID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO candidate (id, election_id, name, party)
		VALUES ($1, $2, $3, $4)
	`, candidateID, electionID, req.Name, req.Party)

	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create candidate")
		return
	}

	slog.Info("candidate added", "election_id", electionID, "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidateID,
	})
}

// ListCandidates handles GET /elections/{id}/candidates
func (h *ElectionHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
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

	candidates, err := h.queryCandidates(electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

func (h *ElectionHandler) queryCandidates(electionID string) ([]models.Candidate, error) {
	rows, err := h.db.Query(`
		SELECT id, election_id, name, party, votes
		FROM candidate
		WHERE election_id = $1
		ORDER BY id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Party, &c.Votes); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}
