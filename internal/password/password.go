// Package password wraps bcrypt behind the two operations the account
// service needs: one-way hashing and constant-time verification.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost matches the bcrypt work factor of the hosted backend this mock stands
// in for, so digests are interchangeable with seeded fixtures.
const Cost = 10

// Hash generates a salted bcrypt digest of password. The salt and cost are
// embedded in the digest itself, so Verify needs no extra parameters. An
// error here means the underlying library failed and the calling operation
// should abort.
func Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. A mismatch, or a digest
// bcrypt cannot parse, is false rather than an error: callers treat both as
// bad credentials.
func Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
