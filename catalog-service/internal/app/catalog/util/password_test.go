package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_Success(t *testing.T) {
	// Arrange
	password := "mysecretpassword123"

	// Act
	hash, err := HashPassword(password, bcrypt.MinCost)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
	assert.True(t, CheckPassword(password, hash))
}

func TestHashPassword_UsesCost(t *testing.T) {
	// Act
	hash, err := HashPassword("mysecretpassword123", 12)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	// Act
	hash1, err1 := HashPassword("mysecretpassword123", bcrypt.MinCost)
	hash2, err2 := HashPassword("mysecretpassword123", bcrypt.MinCost)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2) // bcrypt использует random salt
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, CheckPassword("battery-staple", hash))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("anything", ""))
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
}
