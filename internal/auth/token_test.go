package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	a, err := generateToken(32)
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := generateToken(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestGenerateTokenRejectsShortLength(t *testing.T) {
	_, err := generateToken(8)
	require.Error(t, err)
}
