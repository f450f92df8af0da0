// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
)

// SetupTestDB creates a fresh sqlite database under the test's temp
// directory with the full schema. One writer at a time: sqlite has a
// single-writer model, so the pool is capped to keep concurrent test
// transactions deterministic.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ballotbox_test.db")
	conn, err := db.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          8090,
		DatabaseURL:   "file:test.db",
		DatabaseType:  "sqlite",
		JWTSecret:     "test-jwt-secret",
		TokenTTL:      time.Hour,
		PublicResults: true,
	}
}

// CreateTestAccount inserts an account and returns its ID. Passwords
// are hashed like production so login tests exercise the real path.
func CreateTestAccount(t *testing.T, conn *sql.DB, email, password string, role auth.Role) string {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	accountID := uuid.NewString()
	_, err = conn.Exec(`
		INSERT INTO account (id, email, password_hash, role, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, accountID, email, hash, string(role), true, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return accountID
}

// MintToken issues a token for the account the way login would.
func MintToken(t *testing.T, cfg cliparse.Config, accountID string, role auth.Role) string {
	t.Helper()

	token, err := auth.GenerateToken(auth.Identity{AccountID: accountID, Role: role}, []byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}

	return token
}

// CreateTestElection inserts an election with the given status and
// returns its ID. The voting window brackets the current time.
func CreateTestElection(t *testing.T, conn *sql.DB, status string) string {
	t.Helper()

	electionID := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, start_date, end_date, status, created_at)
		VALUES ($1, 'Test Election', 'An election for testing', $2, $3, $4, $5)
	`, electionID, now.Add(-time.Hour), now.Add(time.Hour), status, now)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID
}

// AddTestCandidate adds a candidate to an election and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name, party string) string {
	t.Helper()

	candidateID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, election_id, name, party)
		VALUES ($1, $2, $3, $4)
	`, candidateID, electionID, name, party)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// CastTestVote records a vote directly, bypassing the handler, and
// keeps the tally column in step.
func CastTestVote(t *testing.T, conn *sql.DB, accountID, electionID, candidateID string) string {
	t.Helper()

	voteID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO vote (id, account_id, candidate_id, election_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, accountID, candidateID, electionID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	_, err = conn.Exec(`UPDATE candidate SET votes = votes + 1 WHERE id = $1`, candidateID)
	if err != nil {
		t.Fatalf("Failed to update test tally: %v", err)
	}

	return voteID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
