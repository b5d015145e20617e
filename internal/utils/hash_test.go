package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassword      = "SecurePassword123!"
	testWrongPassword = "WrongPassword456!"
)

func TestHashPassword_Success(t *testing.T) {
	hash, err := HashPassword(testPassword)

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, testPassword, hash, "Hash should differ from the plaintext")
	assert.Contains(t, hash, "$argon2id$", "Hash should carry the Argon2id identifier")
}

func TestVerifyPassword_Correct(t *testing.T) {
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	match, err := VerifyPassword(testPassword, hash)

	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerifyPassword_Incorrect(t *testing.T) {
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	match, err := VerifyPassword(testWrongPassword, hash)

	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashPassword_UniqueHashes(t *testing.T) {
	hash1, err1 := HashPassword(testPassword)
	hash2, err2 := HashPassword(testPassword)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2, "Salt randomization should produce distinct hashes")
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	hash, err := HashPassword("")
	require.NoError(t, err)

	match, err := VerifyPassword("", hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	invalidHashes := []string{
		"",
		"plain-text-not-hash",
		"$invalid$format$",
		"$argon2id$v=19$m=65536",
	}

	for _, invalidHash := range invalidHashes {
		t.Run(invalidHash, func(t *testing.T) {
			match, err := VerifyPassword(testPassword, invalidHash)

			assert.Error(t, err)
			assert.False(t, match)
		})
	}
}

func TestVerifyPassword_UnicodePassword(t *testing.T) {
	password := "Contraseña_ñ_ü_ç_ş"

	hash, err := HashPassword(password)
	require.NoError(t, err)

	match, err := VerifyPassword(password, hash)
	require.NoError(t, err)
	assert.True(t, match)
}
