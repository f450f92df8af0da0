// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrUnknownRole       = errors.New("unknown role")
)

// bcryptCost trades login latency for brute-force resistance.
const bcryptCost = 12

// Role is the closed set of account roles. Handlers never compare raw
// strings; ParseRole is the only place a string becomes a Role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleVoter Role = "voter"
)

// ParseRole validates a stored or transmitted role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleVoter:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Identity is the resolved caller attached to authenticated requests.
type Identity struct {
	AccountID string
	Role      Role
}

// Claims carries the account identity inside the signed token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
}

// GenerateToken mints an HS256 token for the identity, valid for ttl.
func GenerateToken(identity Identity, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: identity.AccountID,
		Role:      string(identity.Role),
	})

	return token.SignedString(secret)
}

// ParseToken verifies signature and expiry and returns the embedded
// identity. Any failure, including an unknown role claim, maps to
// ErrInvalidToken so callers emit one uniform outward signal.
func ParseToken(tokenString string, secret []byte) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	if !token.Valid || claims.AccountID == "" {
		return Identity{}, ErrInvalidToken
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{AccountID: claims.AccountID, Role: role}, nil
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash against a candidate password.
// bcrypt's comparison is constant-time; plaintext is never stored or
// compared directly.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredential
	}
	return nil
}
