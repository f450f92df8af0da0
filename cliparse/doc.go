// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8090)
  - DatabaseURL: Connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - JWTSecret: Token signing secret (required)
  - TokenTTL: Token validity window (default: 1h)
  - PublicResults: Whether results require authentication (default: public)
  - AdminEmail / AdminPassword: Optional initial admin seed (env only)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	--jwt-secret     JWT signing secret
	--token-ttl      Token validity duration
	--public-results Serve results without authentication

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	JWT_SECRET     → --jwt-secret
	TOKEN_TTL      → --token-ttl
	PUBLIC_RESULTS → --public-results
	ADMIN_EMAIL, ADMIN_PASSWORD (no flag equivalent)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - JWT_SECRET must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
