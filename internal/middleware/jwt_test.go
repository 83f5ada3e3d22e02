package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/config"
	"github.com/stemsi/contact-backend/internal/repository/memory"
	"github.com/stemsi/contact-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	auth   *service.AuthService
	admins *service.AdminService
	token  string
	clock  time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{clock: time.Now()}
	cfg := &config.Config{JWTSecret: "mw-secret", JWTExpiry: 7 * 24 * time.Hour, BcryptCost: bcrypt.MinCost}
	f.auth = service.NewAuthService(cfg).WithClock(func() time.Time { return f.clock })
	f.admins = service.NewAdminService(memory.NewAdminRepository(), f.auth, zerolog.Nop())

	res, err := f.admins.Register(context.Background(), "Site Admin", "admin@x.io", "secret123")
	require.NoError(t, err)
	f.token = res.Token
	return f
}

func (f *authFixture) router() *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireAdminJWT(f.auth, f.admins), func(c *gin.Context) {
		admin, _ := GetAdmin(c)
		c.JSON(http.StatusOK, gin.H{"email": admin.Email, "id": GetClaims(c).AdminID})
	})
	r.GET("/ws", RequireAdminWSAuth(f.auth, f.admins), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAdminJWTValidToken(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	f.router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@x.io")
}

func TestRequireAdminJWTFailures(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "TOKEN_REQUIRED"},
		{"wrong scheme", "Basic " + f.token, "TOKEN_REQUIRED"},
		{"garbage token", "Bearer not-a-jwt", "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			f.router().ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestRequireAdminJWTExpired(t *testing.T) {
	f := newAuthFixture(t)
	f.clock = f.clock.Add(8 * 24 * time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	f.router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestRequireAdminJWTUnknownAdmin(t *testing.T) {
	f := newAuthFixture(t)

	// A token signed with the same secret for an admin the store has never seen.
	other := service.NewAdminService(memory.NewAdminRepository(), f.auth, zerolog.Nop())
	res, err := other.Register(context.Background(), "Ghost", "ghost@x.io", "secret123")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	f.router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
}

func TestRequireAdminWSAuthQueryToken(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	f.router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+f.token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	f.router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
