package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Response is the standardized API response envelope. Every endpoint answers
// with success plus whichever optional sections apply.
type Response struct {
	Success      bool              `json:"success"`
	Code         ErrCode           `json:"code,omitempty"`
	Message      string            `json:"message,omitempty"`
	Token        string            `json:"token,omitempty"`
	Admin        interface{}       `json:"admin,omitempty"`
	Data         interface{}       `json:"data,omitempty"`
	Errors       map[string]string `json:"errors,omitempty"`
	Error        string            `json:"error,omitempty"`
	Pagination   *Pagination       `json:"pagination,omitempty"`
	Stats        interface{}       `json:"stats,omitempty"`
	DeletedCount *int64            `json:"deletedCount,omitempty"`
	Timestamp    string            `json:"timestamp,omitempty"`
}

// Pagination holds pagination information.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// NewPagination computes totalPages = ceil(totalItems / perPage).
func NewPagination(page, perPage, totalItems int) *Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = (totalItems + perPage - 1) / perPage
	}
	return &Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: perPage,
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends a successful JSON response carrying data.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Success: true, Data: data})
}

// SuccessMessage sends a successful response with a human-readable message and optional data.
func SuccessMessage(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{Success: true, Message: message, Data: data})
}

// SuccessWithPagination sends a listing with pagination metadata and aggregate stats.
func SuccessWithPagination(c *gin.Context, statusCode int, data interface{}, pagination *Pagination, stats interface{}) {
	c.JSON(statusCode, Response{
		Success:    true,
		Data:       data,
		Pagination: pagination,
		Stats:      stats,
	})
}

// Send writes a fully built envelope, forcing success to true.
func Send(c *gin.Context, statusCode int, body Response) {
	body.Success = true
	c.JSON(statusCode, body)
}

// Fail sends an error response with an error code and no field-level details.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, Response{Code: code, Message: GetMessage(code)})
}

// FailWithMessage sends an error response overriding the default message for code.
func FailWithMessage(c *gin.Context, statusCode int, code ErrCode, message string) {
	c.JSON(statusCode, Response{Code: code, Message: message})
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, Response{Code: code, Message: GetMessage(code), Errors: fields})
}

// FailInternal sends a generic 500. detail is only echoed when non-empty,
// which callers restrict to development mode.
func FailInternal(c *gin.Context, message, detail string) {
	if message == "" {
		message = GetMessage(ErrInternal)
	}
	c.JSON(500, Response{Code: ErrInternal, Message: message, Error: detail})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, Response{Code: code, Message: GetMessage(code)})
}

// AbortFailWithMessage aborts the chain with a custom message for code.
func AbortFailWithMessage(c *gin.Context, statusCode int, code ErrCode, message string) {
	c.AbortWithStatusJSON(statusCode, Response{Code: code, Message: message})
}

// Now is the timestamp format used by the health probe.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
