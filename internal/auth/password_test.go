package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_VerifiesWithComparePassword(t *testing.T) {
	hash, err := HashPassword("pw1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)

	assert.NoError(t, ComparePassword(hash, "pw1"))
	assert.Error(t, ComparePassword(hash, "pw2"))
}

func TestHashPassword_SaltedDigestsDiffer(t *testing.T) {
	first, err := HashPassword("pw1", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("pw1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
