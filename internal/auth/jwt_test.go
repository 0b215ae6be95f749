package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(1, "alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, uint(1), userID)
	require.Equal(t, "alice", claims.Username)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, _, err := ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestConfigure_AppliesSigningSettings(t *testing.T) {
	origSecret, origIssuer, origAudience := jwtSecret, jwtIssuer, jwtAudience
	defer func() {
		jwtSecret, jwtIssuer, jwtAudience = origSecret, origIssuer, origAudience
	}()

	Configure("configured-secret", "configured-issuer", "configured-audience")

	token, err := GenerateToken(7, "alice", time.Hour)
	require.NoError(t, err)

	// The token must verify against the configured secret, not the default.
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("configured-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	userID, claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, uint(7), userID)
	require.Equal(t, "configured-issuer", claims.Issuer)
	require.Contains(t, claims.Audience, "configured-audience")

	// Tokens signed under the previous secret no longer validate.
	Configure("rotated-secret", "configured-issuer", "configured-audience")
	_, _, err = ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken(1, "alice", -time.Minute)
	require.NoError(t, err)

	_, _, err = ValidateToken(token)
	require.Error(t, err)
}
