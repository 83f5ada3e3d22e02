package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/response"
	"github.com/stemsi/contact-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
	// ContextKeyAdmin is the Gin context key for the resolved admin summary.
	ContextKeyAdmin = "admin"
)

// RequireAdminJWT validates a bearer token from the Authorization header and
// resolves it to an existing admin.
func RequireAdminJWT(authService *service.AuthService, adminService *service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, authService, adminService, bearerToken(c))
	}
}

// RequireAdminWSAuth validates a token from the query param ?token=...
// Browsers cannot set headers on WebSocket upgrade requests.
func RequireAdminWSAuth(authService *service.AuthService, adminService *service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, authService, adminService, c.Query("token"))
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetAdmin retrieves the authenticated admin from the Gin context.
func GetAdmin(c *gin.Context) (model.AdminSummary, bool) {
	val, exists := c.Get(ContextKeyAdmin)
	if !exists {
		return model.AdminSummary{}, false
	}
	admin, ok := val.(model.AdminSummary)
	return admin, ok
}

func authenticate(c *gin.Context, authService *service.AuthService, adminService *service.AdminService, tokenStr string) {
	if tokenStr == "" {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	claims, err := authService.ValidateToken(tokenStr)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			return
		}
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	admin, err := adminService.Current(c.Request.Context(), claims.AdminID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		log.Ctx(c.Request.Context()).Error().Err(err).Str("admin_id", claims.AdminID).Msg("Admin lookup failed")
		response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeyAdmin, admin)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
