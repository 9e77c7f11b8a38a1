package utils

import (
	"testing"

	"market-catalog/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = config.JWTConfig{Secret: "test-secret", TTLHours: 1, Issuer: "test"}

func TestGenerateAndValidate(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken(id, testCfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testCfg)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), testCfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, config.JWTConfig{Secret: "other", TTLHours: 1})
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	token, err := GenerateToken(uuid.New(), config.JWTConfig{Secret: "test-secret", TTLHours: -1})
	require.NoError(t, err)

	_, err = ValidateToken(token, testCfg)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", testCfg)
	assert.Error(t, err)
}

func TestGenerate_NoSecret(t *testing.T) {
	_, err := GenerateToken(uuid.New(), config.JWTConfig{})
	assert.Error(t, err)
}
