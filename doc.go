// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Ballotbox API server.

Ballotbox is an online voting service: admins create elections with
candidates and drive them through a pending → active → closed
lifecycle; registered voters cast exactly one vote per election and can
review their voting history; results are tallied with percentages and
turnout statistics.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:ballotbox.db JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 8090 -d "postgres://..." -t postgres --jwt-secret ...

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string
  - JWT_SECRET (--jwt-secret): Secret for signing access tokens

Optional settings:

  - PORT (-p): Server port (default: 8090)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - TOKEN_TTL (--token-ttl): Access token lifetime (default: 1h)
  - PUBLIC_RESULTS (--public-results): Whether results require a token (default: public)
  - ADMIN_EMAIL / ADMIN_PASSWORD: Seed an admin account at startup

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, elections, votes, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Auth, rate limiting, CORS, logging, JSON helpers
  - models: Request/response types and stable error codes
  - auth: JWT issuing/verification and password hashing
  - db: Schema creation and driver selection
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
