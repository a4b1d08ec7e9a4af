package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	t.Setenv("JWT_KEY", "test-signing-key")

	userID := primitive.NewObjectID().Hex()
	token, err := GenerateJWT(userID, TokenTTL)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	t.Setenv("JWT_KEY", "test-signing-key")

	token, err := GenerateJWT(primitive.NewObjectID().Hex(), -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_KEY", "test-signing-key")

	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestIsValidRole(t *testing.T) {
	for _, r := range []string{RoleStudent, RoleTeacher, RoleAdmin} {
		assert.True(t, IsValidRole(r), r)
	}
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}

func TestIsValidDepartment(t *testing.T) {
	for _, d := range Departments {
		assert.True(t, IsValidDepartment(d), d)
	}
	assert.False(t, IsValidDepartment("Basket Weaving"))
}
