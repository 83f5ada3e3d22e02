package service

import (
	"testing"
	"time"

	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceTokenExpiryBoundary(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	auth := NewAuthService(testConfig()).WithClock(func() time.Time { return clock })

	admin := &model.Admin{ID: "a1", Role: model.RoleAdmin}
	token, err := auth.GenerateToken(admin)
	require.NoError(t, err)

	clock = issued.Add(6 * 24 * time.Hour)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.AdminID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "a1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, issued.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	clock = issued.Add(8 * 24 * time.Hour)
	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthServiceRejectsForeignSignature(t *testing.T) {
	auth := NewAuthService(testConfig())
	otherCfg := testConfig()
	otherCfg.JWTSecret = "other-secret"
	other := NewAuthService(otherCfg)

	token, err := other.GenerateToken(&model.Admin{ID: "a1", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = auth.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthServicePasswordHashing(t *testing.T) {
	auth := NewAuthService(testConfig())

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, auth.CheckPassword(hash, "secret123"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}
