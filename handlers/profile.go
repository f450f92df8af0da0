// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

// GetProfile handles GET /profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Authentication required")
		return
	}

	var account models.Account
	err := h.db.QueryRow(`
		SELECT id, email, first_name, last_name, role, created_at
		FROM account WHERE id = $1
	`, identity.AccountID).Scan(
		&account.ID, &account.Email, &account.FirstName,
		&account.LastName, &account.Role, &account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Account not found")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, account)
}

// UpdateProfile handles PUT /profile
// Partial update of the name fields; email and role are not mutable here.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	var account models.Account
	err := h.db.QueryRow(`
		SELECT id, email, first_name, last_name, role, created_at
		FROM account WHERE id = $1
	`, identity.AccountID).Scan(
		&account.ID, &account.Email, &account.FirstName,
		&account.LastName, &account.Role, &account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Account not found")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}

	_, err = h.db.Exec(`
		UPDATE account SET first_name = $1, last_name = $2 WHERE id = $3
	`, account.FirstName, account.LastName, identity.AccountID)
	if err != nil {
		slog.Error("failed to update profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to update profile")
		return
	}

	slog.Info("profile updated", "account_id", identity.AccountID)

	middleware.JSONResponse(w, http.StatusOK, account)
}

// ChangePassword handles PUT /profile/password
// The authenticated stand-in for a password reset: the current password
// must verify before the new one replaces it.
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Authentication required")
		return
	}

	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if len(req.NewPassword) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "new password must be at least 8 characters")
		return
	}

	var passwordHash string
	err := h.db.QueryRow(`SELECT password_hash FROM account WHERE id = $1`, identity.AccountID).Scan(&passwordHash)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Account not found")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	if err := auth.CheckPassword(passwordHash, req.CurrentPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredential, "Current password is incorrect")
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to change password")
		return
	}

	_, err = h.db.Exec(`UPDATE account SET password_hash = $1 WHERE id = $2`, newHash, identity.AccountID)
	if err != nil {
		slog.Error("failed to update password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to change password")
		return
	}

	slog.Info("password changed", "account_id", identity.AccountID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}

// DeleteAccount handles DELETE /profile
// Requires the password again before the destructive step. Votes are
// audit records and deliberately survive: the vote table has no cascade
// from account, so tallies and turnout stay intact.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Authentication required")
		return
	}

	var req models.DeleteAccountRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	var passwordHash string
	err := h.db.QueryRow(`SELECT password_hash FROM account WHERE id = $1`, identity.AccountID).Scan(&passwordHash)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Account not found")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	if err := auth.CheckPassword(passwordHash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredential, "Password is incorrect")
		return
	}

	_, err = h.db.Exec(`DELETE FROM account WHERE id = $1`, identity.AccountID)
	if err != nil {
		slog.Error("failed to delete account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to delete account")
		return
	}

	slog.Info("account deleted", "account_id", identity.AccountID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Account deleted successfully",
	})
}
