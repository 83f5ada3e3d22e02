package model

import (
	"regexp"
	"strings"
	"time"
)

var phoneSeparators = regexp.MustCompile(`[\s-]+`)

// Message is a visitor-submitted contact-form entry.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Phone     *string   `json:"phone,omitempty"`
	IsRead    bool      `json:"isRead"`
	IsSpam    bool      `json:"isSpam"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Receipt returns the minimal acknowledgement sent back to the submitter.
func (m *Message) Receipt() MessageReceipt {
	return MessageReceipt{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		CreatedAt: m.CreatedAt,
	}
}

// MessageReceipt omits the body and triage flags.
type MessageReceipt struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageStatus selects which triage bucket a listing shows.
type MessageStatus string

const (
	// MessageStatusAll is the default inbox: every non-spam message.
	MessageStatusAll    MessageStatus = ""
	MessageStatusRead   MessageStatus = "read"
	MessageStatusUnread MessageStatus = "unread"
	MessageStatusSpam   MessageStatus = "spam"
)

// ParseMessageStatus maps a query value to a status. Unknown values fall back to the default inbox.
func ParseMessageStatus(raw string) MessageStatus {
	switch MessageStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case MessageStatusRead:
		return MessageStatusRead
	case MessageStatusUnread:
		return MessageStatusUnread
	case MessageStatusSpam:
		return MessageStatusSpam
	default:
		return MessageStatusAll
	}
}

// MessageFilter is the store-level predicate for message listings.
type MessageFilter struct {
	Status MessageStatus
	Search string
}

// Matches reports whether m satisfies the filter. Stores that cannot push the
// predicate down (the in-memory store) use it directly.
func (f MessageFilter) Matches(m *Message) bool {
	switch f.Status {
	case MessageStatusRead:
		if !m.IsRead || m.IsSpam {
			return false
		}
	case MessageStatusUnread:
		if m.IsRead || m.IsSpam {
			return false
		}
	case MessageStatusSpam:
		if !m.IsSpam {
			return false
		}
	default:
		if m.IsSpam {
			return false
		}
	}

	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	for _, field := range []string{m.Name, m.Email, m.Subject, m.Message} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// MessageStats are global inbox counters, independent of any listing filter.
type MessageStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Read   int `json:"read"`
	Spam   int `json:"spam"`
}

// SubmitMessageRequest is the public contact-form payload.
type SubmitMessageRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=100,personname"`
	Email   string  `json:"email" binding:"required,email,max=255"`
	Subject string  `json:"subject" binding:"required,min=3,max=200"`
	Message string  `json:"message" binding:"required,min=10,max=2000"`
	Phone   *string `json:"phone" binding:"omitempty,inphone"`
}

// Normalize trims free-text fields and canonicalizes the email and phone
// before validation. A phone is stored without spaces or hyphens; an
// all-blank phone is treated as absent.
func (r *SubmitMessageRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	if r.Phone != nil {
		p := NormalizePhone(*r.Phone)
		if p == "" {
			r.Phone = nil
		} else {
			r.Phone = &p
		}
	}
}

// NormalizePhone strips whitespace and hyphens, e.g. "+91 98765-43210"
// becomes "+919876543210".
func NormalizePhone(phone string) string {
	return phoneSeparators.ReplaceAllString(phone, "")
}

// UpdateReadStatusRequest is the body of PATCH /messages/:id/read. A missing
// isRead marks the message as read.
type UpdateReadStatusRequest struct {
	IsRead *bool `json:"isRead"`
}

// BulkDeleteRequest is the body of POST /messages/bulk/delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}
