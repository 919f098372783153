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
	hash, err := HashPassword(password)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash) // Хэш не должен совпадать с паролем
}

func TestHashPassword_UsesConfiguredCost(t *testing.T) {
	// Arrange
	hash, err := HashPassword("mysecretpassword123")
	require.NoError(t, err)

	// Act
	cost, err := bcrypt.Cost([]byte(hash))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	// Arrange
	password := "mysecretpassword123"

	// Act
	hash1, err1 := HashPassword(password)
	hash2, err2 := HashPassword(password)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2) // bcrypt использует random salt, поэтому хэши разные
}

func TestCheckPassword_CorrectPassword(t *testing.T) {
	// Arrange
	password := "correctpassword123"
	hash, _ := HashPassword(password)

	// Act
	result := CheckPassword(password, hash)

	// Assert
	assert.True(t, result)
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	// Arrange
	password := "correctpassword123"
	hash, _ := HashPassword(password)

	// Act
	result := CheckPassword("wrongpassword", hash)

	// Assert
	assert.False(t, result)
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	// Arrange
	password := "somepassword"

	// Act
	result := CheckPassword(password, "")

	// Assert
	assert.False(t, result)
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	// Arrange
	password := "somepassword"

	// Act
	result := CheckPassword(password, "not-a-valid-bcrypt-hash")

	// Assert
	assert.False(t, result)
}

func TestCheckPassword_CaseSensitive(t *testing.T) {
	// Arrange
	password := "MyPassword123"
	hash, _ := HashPassword(password)

	// Act & Assert
	assert.True(t, CheckPassword("MyPassword123", hash))
	assert.False(t, CheckPassword("mypassword123", hash))
	assert.False(t, CheckPassword("MYPASSWORD123", hash))
}
