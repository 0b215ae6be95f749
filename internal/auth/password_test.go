package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hashed)

	require.True(t, VerifyPassword(hashed, "s3cret"))
	require.False(t, VerifyPassword(hashed, "wrong"))
}
