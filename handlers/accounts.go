// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type AccountHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{db: db, cfg: cfg}
}

// Register handles POST /auth/register
// Always creates a voter; the admin role has no self-service path.
// Accounts start verified: there is no mail loop, and login refuses
// accounts whose flag was cleared out-of-band.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "valid email is required")
		return
	}
	if len(req.Password) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to register")
		return
	}

	accountID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO account (id, email, password_hash, first_name, last_name, role, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, accountID, req.Email, hash, req.FirstName, req.LastName, string(auth.RoleVoter), true, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyExists, "An account with this email already exists")
			return
		}
		slog.Error("failed to insert account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to register")
		return
	}

	slog.Info("account registered", "account_id", accountID)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		AccountID: accountID,
		Email:     req.Email,
		Role:      string(auth.RoleVoter),
	})
}

// Login handles POST /auth/login
// Unknown email and wrong password produce the same generic failure so
// account existence cannot be probed.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "email and password are required")
		return
	}

	var account models.Account
	var passwordHash string
	var isVerified bool
	err := h.db.QueryRow(`
		SELECT id, email, password_hash, first_name, last_name, role, is_verified, created_at
		FROM account WHERE email = $1
	`, req.Email).Scan(
		&account.ID, &account.Email, &passwordHash,
		&account.FirstName, &account.LastName, &account.Role, &isVerified, &account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredential, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Login failed")
		return
	}

	if err := auth.CheckPassword(passwordHash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredential, "Invalid credentials")
		return
	}

	// Self-service registration creates verified accounts; the flag can
	// be cleared out-of-band to suspend an account without deleting it.
	if !isVerified {
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeForbidden, "Account is not verified")
		return
	}

	// The stored role is authoritative; req.Role is only a UI hint.
	role, err := auth.ParseRole(account.Role)
	if err != nil {
		slog.Error("account has invalid role", "account_id", account.ID, "role", account.Role)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Login failed")
		return
	}

	token, err := auth.GenerateToken(auth.Identity{AccountID: account.ID, Role: role}, []byte(h.cfg.JWTSecret), h.cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Login failed")
		return
	}

	slog.Info("login succeeded", "account_id", account.ID, "role", account.Role)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:   token,
		Account: account,
	})
}
