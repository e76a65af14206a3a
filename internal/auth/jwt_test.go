package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouwaficbdr/my-facebook/internal/models"
)

func testUser() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: 42},
		Email:     "jean@ex.com",
		Role:      models.UserRoleUser,
	}
}

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 8*time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "jean@ex.com", claims.Email)
	assert.Equal(t, models.UserRoleUser, claims.Role)
	assert.False(t, claims.IsAdminSession)
}

func TestTokenIssuer_IssueAdminSetsFlag(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 8*time.Hour)

	user := testUser()
	user.Role = models.UserRoleAdmin

	token, err := issuer.IssueAdmin(user)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdminSession)
	assert.Equal(t, models.UserRoleAdmin, claims.Role)
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	// Negative TTL makes the token already expired at issue time.
	issuer := NewTokenIssuer("test-secret", -time.Minute, -time.Minute)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour, time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_MalformedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, time.Hour)

	for _, tokenStr := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := issuer.Parse(tokenStr)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tokenStr)
	}
}
