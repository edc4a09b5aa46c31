package auth

import (
	"context"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier(testSecret, "authenticated")

	token, err := v.Sign("user-1", "guest@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "guest@example.com", claims.Email)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier(testSecret, "authenticated")

	expired := NewVerifier(testSecret, "authenticated")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Sign("user-1", "", time.Hour)
	require.NoError(t, err)

	otherKey, err := NewVerifier("another-secret-that-is-long-enough-to-use", "authenticated").Sign("user-1", "", time.Hour)
	require.NoError(t, err)

	wrongAudience, err := NewVerifier(testSecret, "anon").Sign("user-1", "", time.Hour)
	require.NoError(t, err)

	noSubject, err := v.Sign("", "", time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "expired", token: expiredToken},
		{name: "wrong key", token: otherKey},
		{name: "wrong audience", token: wrongAudience},
		{name: "missing subject", token: noSubject},
		{name: "none algorithm", token: noneAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(tt.token)
			assert.Nil(t, claims)
			assert.Error(t, err)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	_, ok := IdentityFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, UserIDFromContext(ctx))

	ctx = WithIdentity(ctx, Identity{UserID: "user-1", Email: "a@b.c"})
	id, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "user-1", UserIDFromContext(ctx))
}
