// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"math"
	"net/http"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetResults handles GET /elections/{id}/results
// Counts come from the vote rows, not the cached tally column, so the
// response is correct even if the cache were ever to drift.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "election id is required")
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

	rows, err := h.db.Query(`
		SELECT c.id, c.name, c.party, COUNT(v.id)
		FROM candidate c
		LEFT JOIN vote v ON c.id = v.candidate_id
		WHERE c.election_id = $1
		GROUP BY c.id, c.name, c.party
		ORDER BY COUNT(v.id) DESC, c.id
	`, electionID)
	if err != nil {
		slog.Error("failed to query results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer rows.Close()

	results := []models.CandidateResult{}
	totalVotes := 0
	for rows.Next() {
		var res models.CandidateResult
		if err := rows.Scan(&res.CandidateID, &res.Name, &res.Party, &res.VoteCount); err != nil {
			slog.Error("failed to scan result", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		totalVotes += res.VoteCount
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	// Percentages are all zero when nobody has voted yet.
	for i := range results {
		results[i].Percentage = percentage(results[i].VoteCount, totalVotes)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		ElectionID: electionID,
		Status:     status,
		TotalVotes: totalVotes,
		Results:    results,
	})
}

// GetStats handles GET /elections/{id}/stats
// Turnout figures for an election.
func (h *ResultsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
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

	stats := models.StatsResponse{ElectionID: electionID}

	err = h.db.QueryRow(`
		SELECT COUNT(DISTINCT account_id), COUNT(id) FROM vote WHERE election_id = $1
	`, electionID).Scan(&stats.TotalVoters, &stats.TotalVotes)
	if err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	err = h.db.QueryRow(`SELECT COUNT(*) FROM candidate WHERE election_id = $1`, electionID).Scan(&stats.TotalCandidates)
	if err != nil {
		slog.Error("failed to count candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	err = h.db.QueryRow(`SELECT COUNT(*) FROM account WHERE role = 'voter'`).Scan(&stats.EligibleVoters)
	if err != nil {
		slog.Error("failed to count eligible voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	stats.Turnout = percentage(stats.TotalVoters, stats.EligibleVoters)

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// percentage returns part/whole as a percent rounded to two decimals,
// with 0 when whole is zero.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}
