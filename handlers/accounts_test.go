// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.RegisterResponse)
	}{
		{
			name: "valid registration",
			requestBody: models.RegisterRequest{
				Email:     "alice@example.com",
				Password:  "correct-horse",
				FirstName: "Alice",
				LastName:  "Nguyen",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.RegisterResponse) {
				if resp.AccountID == "" {
					t.Error("Expected non-empty account_id")
				}
				if resp.Role != string(auth.RoleVoter) {
					t.Errorf("Expected role voter, got %s", resp.Role)
				}

				// Verify account was created with a hashed password
				var storedHash, storedRole string
				err := db.QueryRow(`
					SELECT password_hash, role FROM account WHERE email = $1
				`, "alice@example.com").Scan(&storedHash, &storedRole)
				if err != nil {
					t.Fatalf("Failed to query account: %v", err)
				}
				if storedHash == "correct-horse" {
					t.Error("Password was stored in plaintext")
				}
				if err := auth.CheckPassword(storedHash, "correct-horse"); err != nil {
					t.Errorf("Stored hash does not verify: %v", err)
				}
				if storedRole != string(auth.RoleVoter) {
					t.Errorf("Expected stored role voter, got %s", storedRole)
				}
			},
		},
		{
			name: "email is normalized",
			requestBody: models.RegisterRequest{
				Email:    "  Bob@Example.COM ",
				Password: "longenough",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.RegisterResponse) {
				if resp.Email != "bob@example.com" {
					t.Errorf("Expected normalized email, got %s", resp.Email)
				}
			},
		},
		{
			name: "requested admin role is ignored",
			requestBody: map[string]interface{}{
				"email":    "sneaky@example.com",
				"password": "longenough",
				"role":     "admin",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.RegisterResponse) {
				if resp.Role != string(auth.RoleVoter) {
					t.Errorf("Expected role voter, got %s", resp.Role)
				}
			},
		},
		{
			name: "missing email",
			requestBody: models.RegisterRequest{
				Password: "longenough",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "email without at sign",
			requestBody: models.RegisterRequest{
				Email:    "not-an-email",
				Password: "longenough",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			requestBody: models.RegisterRequest{
				Email:    "short@example.com",
				Password: "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/register", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.RegisterResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	testutil.CreateTestAccount(t, db, "taken@example.com", "password123", auth.RoleVoter)

	req := testutil.MakeRequest("POST", "/auth/register", models.RegisterRequest{
		Email:    "taken@example.com",
		Password: "password456",
	}, nil)
	w := httptest.NewRecorder()

	handler.Register(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Code != models.CodeAlreadyExists {
		t.Errorf("Expected code %s, got %s", models.CodeAlreadyExists, resp.Code)
	}
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	accountID := testutil.CreateTestAccount(t, db, "voter@example.com", "password123", auth.RoleVoter)
	testutil.CreateTestAccount(t, db, "admin@example.com", "adminpass1", auth.RoleAdmin)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.LoginResponse)
	}{
		{
			name: "valid login",
			requestBody: models.LoginRequest{
				Email:    "voter@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.LoginResponse) {
				if resp.Token == "" {
					t.Error("Expected non-empty token")
				}
				if resp.Account.ID != accountID {
					t.Errorf("Expected account %s, got %s", accountID, resp.Account.ID)
				}

				// Token must round-trip through the verifier
				identity, err := auth.ParseToken(resp.Token, []byte(cfg.JWTSecret))
				if err != nil {
					t.Fatalf("Failed to parse issued token: %v", err)
				}
				if identity.AccountID != accountID {
					t.Errorf("Token carries account %s, expected %s", identity.AccountID, accountID)
				}
				if identity.Role != auth.RoleVoter {
					t.Errorf("Token carries role %s, expected voter", identity.Role)
				}
			},
		},
		{
			name: "email case does not matter",
			requestBody: models.LoginRequest{
				Email:    "VOTER@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "stored role wins over requested role",
			requestBody: models.LoginRequest{
				Email:    "voter@example.com",
				Password: "password123",
				Role:     "admin",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.LoginResponse) {
				identity, err := auth.ParseToken(resp.Token, []byte(cfg.JWTSecret))
				if err != nil {
					t.Fatalf("Failed to parse issued token: %v", err)
				}
				if identity.Role != auth.RoleVoter {
					t.Errorf("Expected voter role in token, got %s", identity.Role)
				}
			},
		},
		{
			name: "wrong password",
			requestBody: models.LoginRequest{
				Email:    "voter@example.com",
				Password: "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			requestBody: models.LoginRequest{
				Email:    "nobody@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing password",
			requestBody: models.LoginRequest{
				Email: "voter@example.com",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/login", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK && tt.checkResponse != nil {
				var resp models.LoginResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestLoginUnverifiedAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	accountID := testutil.CreateTestAccount(t, db, "suspended@example.com", "password123", auth.RoleVoter)
	if _, err := db.Exec(`UPDATE account SET is_verified = FALSE WHERE id = $1`, accountID); err != nil {
		t.Fatalf("Failed to clear verification flag: %v", err)
	}

	req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
		Email:    "suspended@example.com",
		Password: "password123",
	}, nil)
	w := httptest.NewRecorder()

	handler.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusForbidden)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Code != models.CodeForbidden {
		t.Errorf("Expected code %s, got %s", models.CodeForbidden, resp.Code)
	}
}

// Unknown email and wrong password must be indistinguishable so the
// endpoint cannot be used to enumerate accounts.
func TestLoginFailuresAreUniform(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	testutil.CreateTestAccount(t, db, "real@example.com", "password123", auth.RoleVoter)

	attempts := []models.LoginRequest{
		{Email: "real@example.com", Password: "wrongpassword"},
		{Email: "ghost@example.com", Password: "password123"},
	}

	var responses []models.ErrorResponse
	for _, attempt := range attempts {
		req := testutil.MakeRequest("POST", "/auth/login", attempt, nil)
		w := httptest.NewRecorder()

		handler.Login(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		responses = append(responses, resp)
	}

	if responses[0].Code != responses[1].Code || responses[0].Message != responses[1].Message {
		t.Errorf("Expected identical failure responses, got %+v and %+v", responses[0], responses[1])
	}
	if responses[0].Code != models.CodeInvalidCredential {
		t.Errorf("Expected code %s, got %s", models.CodeInvalidCredential, responses[0].Code)
	}
}
