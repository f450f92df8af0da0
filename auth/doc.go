// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token issuance and credential verification.

# Tokens

Tokens are HS256 JWTs carrying the account ID and role:

	token, err := auth.GenerateToken(auth.Identity{AccountID: id, Role: auth.RoleVoter}, secret, time.Hour)
	identity, err := auth.ParseToken(token, secret)

ParseToken verifies the signature and expiry and rejects tokens whose
role claim is not one of the known roles. All parse failures collapse
into ErrInvalidToken.

# Roles

Role is a closed type; the only values are RoleAdmin and RoleVoter.
ParseRole is the single point where raw strings are validated:

	role, err := auth.ParseRole("voter")

# Passwords

Passwords are stored as bcrypt hashes (cost 12) and verified with
bcrypt's constant-time comparison:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

CheckPassword returns ErrInvalidCredential on mismatch so login can
report one generic failure for both unknown email and wrong password.
*/
package auth
