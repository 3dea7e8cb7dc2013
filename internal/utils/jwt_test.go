package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, true, 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.NotEmpty(t, tok.JTI)

	claims, err := ParseToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, tok.JTI, claims.JTI)
	assert.True(t, claims.Fresh)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.WithinDuration(t, tok.Exp, claims.Exp, time.Second)
}

func TestRefreshTokenIsNeverFresh(t *testing.T) {
	tok, err := NewRefreshToken(testSecret, 42, 60)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.False(t, claims.Fresh)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
}

func TestJTIUniquePerToken(t *testing.T) {
	a, err := NewAccessToken(testSecret, 1, true, 15)
	require.NoError(t, err)
	b, err := NewAccessToken(testSecret, 1, true, 15)
	require.NoError(t, err)
	assert.NotEqual(t, a.JTI, b.JTI)
}

func TestParseTokenExpired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, true, -1)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenBadSignature(t *testing.T) {
	tok, err := NewAccessToken("other-secret", 42, true, 15)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "definitely.not.a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
