package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglists/internal/config"
	"github.com/mrlokans/readinglists/internal/entities"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret", config.Auth{
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func TestTokenService_IssuePair(t *testing.T) {
	ts := newTestTokenService()
	user := &entities.User{ID: 42, Username: "alice"}

	pair, err := ts.IssuePair(user)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	claims, err := ts.Parse(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenService_TypesAreNotInterchangeable(t *testing.T) {
	ts := newTestTokenService()
	pair, err := ts.IssuePair(&entities.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = ts.Parse(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, _, err = ts.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestTokenService_Refresh(t *testing.T) {
	ts := newTestTokenService()
	pair, err := ts.IssuePair(&entities.User{ID: 7, Username: "bob"})
	require.NoError(t, err)

	access, exp, err := ts.Refresh(pair.Refresh)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := ts.Parse(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestTokenService_Expired(t *testing.T) {
	ts := newTestTokenService()
	pair, err := ts.IssuePair(&entities.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	ts.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err = ts.Parse(pair.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Refresh token is still within its lifetime
	_, _, err = ts.Refresh(pair.Refresh)
	assert.NoError(t, err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	pair, err := newTestTokenService().IssuePair(&entities.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	other := NewTokenService("other-secret", config.Auth{})
	_, err = other.Parse(pair.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.Parse("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
