// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballotbox/auth"
)

// Open connects using the configured database type. For sqlite the DSN
// gains foreign-key enforcement and a busy timeout unless the caller
// already set pragmas.
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	switch databaseType {
	case "postgres":
		return sql.Open("postgres", databaseURL)
	case "sqlite":
		if !strings.Contains(databaseURL, "_pragma") {
			sep := "?"
			if strings.Contains(databaseURL, "?") {
				sep = "&"
			}
			databaseURL += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
		return sql.Open("sqlite", databaseURL)
	}
	return nil, fmt.Errorf("unsupported database type %q", databaseType)
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(conn *sql.DB) error {
	_, err := conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SeedAdmin creates the admin account if no account with that email
// exists. A no-op when email or password is empty.
func SeedAdmin(conn *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	err := conn.QueryRow(`SELECT EXISTS(SELECT 1 FROM account WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = conn.Exec(`
		INSERT INTO account (id, email, password_hash, role, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), email, hash, string(auth.RoleAdmin), true, time.Now())
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	return nil
}

// The schema is portable across the two supported drivers: TEXT ids,
// CURRENT_TIMESTAMP defaults, no driver-specific column types.
const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS account (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'voter' CHECK (role IN ('admin', 'voter')),
    is_verified BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_account_role ON account(role);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'active', 'closed')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_election_status ON election(status);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    party TEXT NOT NULL DEFAULT '',
    votes INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id);

-- Votes
-- The UNIQUE (account_id, election_id) constraint is the load-bearing
-- guarantee that one account casts at most one vote per election; the
-- handler's in-transaction existence check is advisory on top of it.
-- account_id deliberately carries no foreign key: votes are audit
-- records and must survive account deletion with tallies intact.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (account_id, election_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_election_id ON vote(election_id);
CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);
CREATE INDEX IF NOT EXISTS idx_vote_account_id ON vote(account_id);
`
