package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stemsi/contact-backend/internal/response"
	"github.com/stemsi/contact-backend/internal/service"
)

// respondError maps a service error to its HTTP response. Unknown errors
// become a 500 whose detail is only exposed when exposeDetail is set.
func respondError(c *gin.Context, err error, exposeDetail bool) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		response.Fail(c, http.StatusBadRequest, response.ErrDuplicateEmail)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrInvalidArgument):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidArgument)
	case errors.Is(err, service.ErrTokenExpired):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenExpired)
	case errors.Is(err, service.ErrTokenInvalid):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	default:
		log.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("route", c.FullPath()).
			Msg("Request failed")

		detail := ""
		if exposeDetail {
			detail = err.Error()
		}
		response.FailInternal(c, "", detail)
	}
}

// respondValidation sends a 400 with per-field messages.
func respondValidation(c *gin.Context, fields map[string]string) {
	response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
}
