package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/contact-backend/internal/middleware"
	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/response"
	"github.com/stemsi/contact-backend/internal/service"
	"github.com/stemsi/contact-backend/internal/validator"
)

// AuthHandler handles admin registration, login and profile endpoints.
type AuthHandler struct {
	adminService *service.AdminService
	exposeDetail bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(adminService *service.AdminService, exposeDetail bool) *AuthHandler {
	return &AuthHandler{adminService: adminService, exposeDetail: exposeDetail}
}

// Register godoc
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		respondValidation(c, fields)
		return
	}

	res, err := h.adminService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err, h.exposeDetail)
		return
	}

	response.Send(c, http.StatusCreated, response.Response{
		Message: "Admin registered successfully",
		Token:   res.Token,
		Admin:   res.Admin,
	})
}

// Login godoc
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		respondValidation(c, fields)
		return
	}

	res, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, h.exposeDetail)
		return
	}

	response.Send(c, http.StatusOK, response.Response{
		Message: "Login successful",
		Token:   res.Token,
		Admin:   res.Admin,
	})
}

// Me godoc
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	admin, ok := middleware.GetAdmin(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	response.Send(c, http.StatusOK, response.Response{Admin: admin})
}
