package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/blog-platform/internal/kvstore"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

const sessionKeyPrefix = "session:"

// 32 random bytes hex-encode to 64 chars, inside bcrypt's 72-byte input cap.
const sessionTokenBytes = 32

// SessionManager keeps at most one live session record per identity in the
// shared state store. The record holds a bcrypt hash of an opaque random
// token; the raw value is returned exactly once. Creating a session
// unconditionally replaces any prior record for that identity, so a second
// login invalidates the first device's session.
type SessionManager struct {
	store kvstore.Store
	ttl   time.Duration
	cost  int
}

// NewSessionManager builds the manager.
func NewSessionManager(store kvstore.Store, ttl time.Duration, bcryptCost int) *SessionManager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &SessionManager{store: store, ttl: ttl, cost: bcryptCost}
}

func sessionKey(subjectID string) string {
	return sessionKeyPrefix + subjectID
}

// Create generates a new opaque session token for the subject, stores its
// hash with TTL, and returns the raw value. Fails closed when the store is
// unreachable.
func (m *SessionManager) Create(ctx context.Context, subjectID string) (string, time.Duration, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", 0, err
	}
	raw := hex.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), m.cost)
	if err != nil {
		return "", 0, err
	}

	if err := m.store.Set(ctx, sessionKey(subjectID), string(hashed), m.ttl); err != nil {
		return "", 0, apperrors.NewStoreUnavailable("session store unavailable", err)
	}
	return raw, m.ttl, nil
}

// Verify compares a presented token against the stored hash. Absent or
// expired records verify false without error; store failures fail closed.
func (m *SessionManager) Verify(ctx context.Context, subjectID, presented string) (bool, error) {
	stored, err := m.store.Get(ctx, sessionKey(subjectID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStoreUnavailable("session store unavailable", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)); err != nil {
		return false, nil
	}
	return true, nil
}

// Revoke deletes the session record. Revoking an absent session is not an
// error.
func (m *SessionManager) Revoke(ctx context.Context, subjectID string) error {
	if err := m.store.Delete(ctx, sessionKey(subjectID)); err != nil {
		return apperrors.NewStoreUnavailable("session store unavailable", err)
	}
	return nil
}

// Rotate revokes the current session and issues a fresh one. Used by the
// refresh flow, which rotates unconditionally on every successful refresh.
func (m *SessionManager) Rotate(ctx context.Context, subjectID string) (string, time.Duration, error) {
	if err := m.Revoke(ctx, subjectID); err != nil {
		return "", 0, err
	}
	return m.Create(ctx, subjectID)
}
