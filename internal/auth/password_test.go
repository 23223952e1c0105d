package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlift/chatlift/internal/auth"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces verifiable hash", func(t *testing.T) {
		hash, err := auth.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "correct horse battery staple", hash)

		assert.True(t, auth.CheckPassword("correct horse battery staple", hash))
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		hash1, err := auth.HashPassword("hunter2hunter2")
		require.NoError(t, err)
		hash2, err := auth.HashPassword("hunter2hunter2")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
		assert.True(t, auth.CheckPassword("hunter2hunter2", hash1))
		assert.True(t, auth.CheckPassword("hunter2hunter2", hash2))
	})
}

func TestCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("the-real-password")
	require.NoError(t, err)

	t.Run("accepts correct password", func(t *testing.T) {
		assert.True(t, auth.CheckPassword("the-real-password", hash))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		assert.False(t, auth.CheckPassword("the-wrong-password", hash))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		assert.False(t, auth.CheckPassword("", hash))
	})

	t.Run("rejects garbage hash", func(t *testing.T) {
		assert.False(t, auth.CheckPassword("anything", "not-a-bcrypt-hash"))
	})
}
