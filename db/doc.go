// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Supported types are "postgres" (lib/pq) and "sqlite" (modernc.org/sqlite).
For sqlite, Open enables foreign-key enforcement and a busy timeout via
DSN pragmas.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - account: Credential holders with an immutable role (admin or voter)
  - election: Voting events with a time window and lifecycle status
  - candidate: Options per election, with the denormalized vote tally
  - vote: One immutable row per (account, election)

# Relationships

	election 1──* candidate
	election 1──* vote
	account  1──* vote

Election deletion cascades to its candidates and votes. Votes do NOT
cascade from accounts - they are audit records.

# Constraints

The uniqueness constraint on vote(account_id, election_id) is the
correctness mechanism for one-vote-per-election; concurrent inserts for
the same pair fail at the storage layer and are translated to the
already_voted error code.

# Seeding

SeedAdmin creates the initial admin account when ADMIN_EMAIL and
ADMIN_PASSWORD are configured:

	if err := db.SeedAdmin(conn, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}
*/
package db
