package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/response"
	"github.com/stemsi/contact-backend/internal/service"
	"github.com/stemsi/contact-backend/internal/validator"
)

// MessageHandler handles contact form submission and message triage.
type MessageHandler struct {
	messageService *service.MessageService
	exposeDetail   bool
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *service.MessageService, exposeDetail bool) *MessageHandler {
	return &MessageHandler{messageService: messageService, exposeDetail: exposeDetail}
}

// Submit godoc
// POST /api/messages
func (h *MessageHandler) Submit(c *gin.Context) {
	var req model.SubmitMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		respondValidation(c, fields)
		return
	}

	receipt, err := h.messageService.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, h.exposeDetail)
		return
	}

	response.SuccessMessage(c, http.StatusCreated,
		"Your message has been sent successfully! We will get back to you soon.", receipt)
}

// List godoc
// GET /api/messages?status=&search=&page=&limit=
func (h *MessageHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageLimit)))

	res, err := h.messageService.List(c.Request.Context(), service.ListQuery{
		Status: model.ParseMessageStatus(c.Query("status")),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err, h.exposeDetail)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, res.Items,
		response.NewPagination(res.Page, res.Limit, res.TotalItems), res.Stats)
}

// Get godoc
// GET /api/messages/:id
func (h *MessageHandler) Get(c *gin.Context) {
	m, err := h.messageService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.exposeDetail)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// UpdateReadStatus godoc
// PATCH /api/messages/:id/read
// A missing isRead marks the message as read.
func (h *MessageHandler) UpdateReadStatus(c *gin.Context) {
	var req model.UpdateReadStatusRequest
	if fields := validator.BindOptional(c, &req); fields != nil {
		respondValidation(c, fields)
		return
	}

	isRead := true
	if req.IsRead != nil {
		isRead = *req.IsRead
	}

	m, err := h.messageService.SetReadStatus(c.Request.Context(), c.Param("id"), isRead)
	if err != nil {
		respondError(c, err, h.exposeDetail)
		return
	}

	state := "unread"
	if isRead {
		state = "read"
	}
	response.SuccessMessage(c, http.StatusOK, "Message marked as "+state, m)
}

// MarkSpam godoc
// PATCH /api/messages/:id/spam
func (h *MessageHandler) MarkSpam(c *gin.Context) {
	m, err := h.messageService.MarkSpam(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.exposeDetail)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Message marked as spam", m)
}

// Delete godoc
// DELETE /api/messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.messageService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, h.exposeDetail)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Message deleted successfully", nil)
}

// BulkDelete godoc
// POST /api/messages/bulk/delete
func (h *MessageHandler) BulkDelete(c *gin.Context) {
	var req model.BulkDeleteRequest
	if fields := validator.BindOptional(c, &req); fields != nil {
		respondValidation(c, fields)
		return
	}

	deleted, err := h.messageService.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err, h.exposeDetail)
		return
	}

	response.Send(c, http.StatusOK, response.Response{
		Message:      fmt.Sprintf("%d message(s) deleted successfully", deleted),
		DeletedCount: &deleted,
	})
}
