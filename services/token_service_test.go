package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Pland4r/qcm-creator-hub/models"
	"github.com/Pland4r/qcm-creator-hub/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRevocations struct{}

func (failingRevocations) Revoke(context.Context, string, time.Duration) error { return nil }

func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis unavailable")
}

func TestTokenService_IssueAndParse(t *testing.T) {
	tokens := NewTokenService("secret", "qcm", time.Hour, nil)

	token, err := tokens.Issue(&models.User{ID: 7, Username: "alice"})
	require.NoError(t, err)

	claims, err := tokens.Parse(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "qcm", claims.Issuer)
}

func TestTokenService_Rejects(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenService("secret", "qcm", time.Hour, nil)
	user := &models.User{ID: 7, Username: "alice"}

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret", "qcm", time.Hour, nil)
		token, err := other.Issue(user)
		require.NoError(t, err)

		_, err = tokens.Parse(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenService("secret", "someone-else", time.Hour, nil)
		token, err := other.Issue(user)
		require.NoError(t, err)

		_, err = tokens.Parse(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := tokens.Issue(user)
		require.NoError(t, err)

		later := NewTokenService("secret", "qcm", time.Hour, nil)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Parse(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := Claims{
			UserID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "x",
				Issuer:    "qcm",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Parse(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing identity", func(t *testing.T) {
		token, err := tokens.Issue(&models.User{Username: "anonymous"})
		require.NoError(t, err)

		_, err = tokens.Parse(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenService_RevokeUsesRemainingLifetime(t *testing.T) {
	ctx := context.Background()
	client, srv := testutil.NewRedis(t)
	tokens := NewTokenService("secret", "qcm", 30*time.Minute, NewRedisRevocationStore(client))

	token, err := tokens.Issue(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)
	claims, err := tokens.Parse(ctx, token)
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(ctx, claims))

	ttl := srv.TTL(revokedTokenPrefix + claims.ID)
	assert.Greater(t, ttl, 29*time.Minute)
	assert.LessOrEqual(t, ttl, 30*time.Minute)

	_, err = tokens.Parse(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Once the entry expires the token is past its own expiry as well.
	srv.FastForward(31 * time.Minute)
	revoked, err := NewRedisRevocationStore(client).IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenService_RevocationStoreFailure(t *testing.T) {
	tokens := NewTokenService("secret", "qcm", time.Hour, failingRevocations{})

	token, err := tokens.Issue(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = tokens.Parse(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RevokeWithoutStore(t *testing.T) {
	tokens := NewTokenService("secret", "qcm", time.Hour, nil)
	err := tokens.Revoke(context.Background(), &Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "x"}})
	assert.Error(t, err)
}
