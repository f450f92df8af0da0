// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()
	secret := []byte(cfg.JWTSecret)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Rate limit windows mirror the usual abuse patterns: credential
	// stuffing on login, bulk signups, vote hammering. The vote limiter
	// is auxiliary; the DB constraint is what prevents double voting.
	loginLimiter := middleware.NewRateLimiter(5, 15*time.Minute)
	registerLimiter := middleware.NewRateLimiter(5, time.Hour)
	voteLimiter := middleware.NewRateLimiter(1, 24*time.Hour)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(secret, middleware.RequireRole(auth.RoleAdmin, h)))
	}
	voter := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(secret, middleware.RequireRole(auth.RoleVoter, h)))
	}
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(secret, h))
	}
	public := middleware.WithLogging

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /auth/register", public(registerLimiter.Wrap(accountHandler.Register)))
	mux.HandleFunc("POST /auth/login", public(loginLimiter.Wrap(accountHandler.Login)))

	// Account profile (any valid token)
	mux.HandleFunc("GET /profile", authed(accountHandler.GetProfile))
	mux.HandleFunc("PUT /profile", authed(accountHandler.UpdateProfile))
	mux.HandleFunc("PUT /profile/password", authed(accountHandler.ChangePassword))
	mux.HandleFunc("DELETE /profile", authed(accountHandler.DeleteAccount))

	// Election management (admin)
	mux.HandleFunc("POST /elections", admin(electionHandler.CreateElection))
	mux.HandleFunc("PUT /elections/{id}", admin(electionHandler.UpdateElection))
	mux.HandleFunc("DELETE /elections/{id}", admin(electionHandler.DeleteElection))
	mux.HandleFunc("POST /elections/{id}/candidates", admin(electionHandler.AddCandidate))

	// Election retrieval (public)
	mux.HandleFunc("GET /elections", public(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/{id}", public(electionHandler.GetElection))
	mux.HandleFunc("GET /elections/{id}/candidates", public(electionHandler.ListCandidates))

	// Voting (voter)
	mux.HandleFunc("POST /votes", voter(voteLimiter.Wrap(voteHandler.CastVote)))
	mux.HandleFunc("GET /elections/{id}/my-vote", voter(voteHandler.MyVote))
	mux.HandleFunc("GET /votes/history", voter(voteHandler.History))

	// Results: public by default, gated behind any valid token when
	// configured private.
	results := public(resultsHandler.GetResults)
	if !cfg.PublicResults {
		results = authed(resultsHandler.GetResults)
	}
	mux.HandleFunc("GET /elections/{id}/results", results)
	mux.HandleFunc("GET /elections/{id}/stats", authed(resultsHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
