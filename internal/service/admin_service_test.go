package service

import (
	"context"
	"testing"

	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminService() (*AdminService, *AuthService) {
	auth := NewAuthService(testConfig())
	return NewAdminService(memory.NewAdminRepository(), auth, nopLog), auth
}

func TestAdminServiceRegister(t *testing.T) {
	svc, auth := newAdminService()
	ctx := context.Background()

	res, err := svc.Register(ctx, "Site Admin", "Admin@Example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin@example.com", res.Admin.Email)
	assert.Equal(t, model.RoleAdmin, res.Admin.Role)

	claims, err := auth.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Admin.ID, claims.AdminID)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAdminServiceRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAdminService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "First", "a@x.io", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Second", "A@X.IO", "secret456")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAdminServiceLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAdminService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Site Admin", "a@x.io", "secret123")
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nobody@x.io", "secret123")
	_, wrongErr := svc.Login(ctx, "a@x.io", "wrong-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	res, err := svc.Login(ctx, " A@x.io ", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestAdminServiceCurrent(t *testing.T) {
	svc, _ := newAdminService()
	ctx := context.Background()

	res, err := svc.Register(ctx, "Site Admin", "a@x.io", "secret123")
	require.NoError(t, err)

	summary, err := svc.Current(ctx, res.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Admin, summary)

	_, err = svc.Current(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
