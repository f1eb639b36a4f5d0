// Package auth implements credential hashing and session token handling.
//
// Passwords are stored as hex(SHA256(password ++ salt)) with a random
// per-user hex salt. The scheme matches what the existing user table
// already holds, so stored credentials keep verifying across versions.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const saltBytes = 16

// NewSalt returns a fresh hex-encoded random salt.
func NewSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword computes the stored form of a password for the given salt.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether password matches the stored hash/salt
// pair. Comparison is constant-time.
func VerifyPassword(password, storedHash, salt string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
