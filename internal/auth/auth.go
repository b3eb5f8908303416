package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// User is the authenticated identity projection attached to requests.
// It never carries the password hash.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// SessionLookup resolves session tokens to users.
type SessionLookup interface {
	LookupSession(ctx context.Context, token string) (*User, error)
}

// GenerateSessionToken creates a new opaque session token. It returns the
// plaintext token (to be sent to the client) and its SHA-256 hash (the only
// form ever stored).
func GenerateSessionToken() (plaintext, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating session token: %w", err)
	}
	plaintext = hex.EncodeToString(b)
	return plaintext, HashToken(plaintext), nil
}

// HashToken returns the hex-encoded SHA-256 hash of a plaintext session token.
func HashToken(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}
