package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-platform/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "u1",
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  domain.RoleWriter,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 2*time.Minute)

	token, expiresAt, err := tm.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Minute), expiresAt, 2*time.Second)

	ident, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", ident.SubjectID)
	assert.Equal(t, domain.RoleWriter, ident.Role)
	assert.Equal(t, "Alice", ident.Name)
	assert.Equal(t, "alice@example.com", ident.Email)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	tm.ttl = -time.Minute

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Minute)
	verifier := NewTokenManager("secret-b", time.Minute)

	token, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestTokenUnknownRoleRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)

	user := testUser()
	user.Role = domain.Role("Superuser")
	token, _, err := tm.Issue(user)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)

	_, err := tm.Parse("not-a-token")
	assert.Error(t, err)
}
