package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domain"
)

const testSecret = "unit-test-secret-0123456789abcdefghij"

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60, 60*24)

	token, err := tm.GenerateAccessToken(7, "alice", domain.RoleLibrarian)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int32(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleLibrarian, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)

	actor := claims.Actor()
	assert.Equal(t, int32(7), actor.UserID)
	assert.True(t, actor.IsLibrarian())
}

func TestTokenManager_RefreshTokenHasNoRole(t *testing.T) {
	tm := NewTokenManager(testSecret, 60, 60*24)

	token, err := tm.GenerateRefreshToken(7, "alice")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
	assert.Empty(t, claims.Role)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 60, 60*24)
	other := NewTokenManager("another-secret-entirely-0123456789ab", 60, 60*24)

	token, err := tm.GenerateAccessToken(7, "alice", domain.RolePatron)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, -1, 60)

	token, err := tm.GenerateAccessToken(7, "alice", domain.RolePatron)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 60, 60)
	_, err := tm.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
