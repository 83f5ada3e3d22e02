package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/events"
	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/repository"
	"go.opentelemetry.io/otel/attribute"
)

// Listing page size bounds.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ListQuery describes a message listing request.
type ListQuery struct {
	Status model.MessageStatus
	Search string
	Page   int
	Limit  int
}

// MessagePage is one page of a listing plus global inbox stats.
type MessagePage struct {
	Items      []model.Message
	Page       int
	Limit      int
	TotalItems int
	Stats      model.MessageStats
}

// MessageService handles contact message submission and triage.
type MessageService struct {
	messages MessageStore
	broker   events.Broker
	log      zerolog.Logger
	now      func() time.Time
}

// NewMessageService creates a new MessageService. broker may be nil, in
// which case no feed events are emitted.
func NewMessageService(messages MessageStore, broker events.Broker, log zerolog.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		broker:   broker,
		log:      log.With().Str("component", "message_service").Logger(),
		now:      time.Now,
	}
}

// Submit stores a new, unread, non-spam message. The request is expected to
// be validated already.
func (s *MessageService) Submit(ctx context.Context, req model.SubmitMessageRequest) (receipt model.MessageReceipt, err error) {
	ctx, span := tracer.Start(ctx, "MessageService.Submit")
	defer func() { endSpan(span, err) }()

	m := &model.Message{
		Name:    req.Name,
		Email:   model.NormalizeEmail(req.Email),
		Subject: req.Subject,
		Message: req.Message,
		Phone:   req.Phone,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return model.MessageReceipt{}, fmt.Errorf("create message: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.MessageCreated, Message: m})
	return m.Receipt(), nil
}

// List returns a filtered page of messages, newest first, with stats over
// the whole collection.
func (s *MessageService) List(ctx context.Context, q ListQuery) (page *MessagePage, err error) {
	ctx, span := tracer.Start(ctx, "MessageService.List")
	defer func() { endSpan(span, err) }()

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	span.SetAttributes(
		attribute.String("messages.status", string(q.Status)),
		attribute.Int("messages.page", q.Page),
		attribute.Int("messages.limit", q.Limit),
	)

	filter := model.MessageFilter{Status: q.Status, Search: q.Search}
	items, total, err := s.messages.ListPaginated(ctx, filter, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	stats, err := s.messages.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("message stats: %w", err)
	}

	if items == nil {
		items = []model.Message{}
	}
	return &MessagePage{
		Items:      items,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalItems: total,
		Stats:      stats,
	}, nil
}

// Get returns a single message.
func (s *MessageService) Get(ctx context.Context, id string) (m *model.Message, err error) {
	ctx, span := tracer.Start(ctx, "MessageService.Get")
	defer func() { endSpan(span, err) }()

	m, err = s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "get message")
	}
	return m, nil
}

// SetReadStatus sets the read flag of a message.
func (s *MessageService) SetReadStatus(ctx context.Context, id string, isRead bool) (m *model.Message, err error) {
	ctx, span := tracer.Start(ctx, "MessageService.SetReadStatus")
	defer func() { endSpan(span, err) }()

	m, err = s.messages.SetRead(ctx, id, isRead)
	if err != nil {
		return nil, mapStoreErr(err, "set read status")
	}
	s.publish(ctx, events.Event{Type: events.MessageUpdated, Message: m})
	return m, nil
}

// MarkSpam flags a message as spam. The read flag is left unchanged and
// there is no way back.
func (s *MessageService) MarkSpam(ctx context.Context, id string) (m *model.Message, err error) {
	ctx, span := tracer.Start(ctx, "MessageService.MarkSpam")
	defer func() { endSpan(span, err) }()

	m, err = s.messages.MarkSpam(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "mark spam")
	}
	s.publish(ctx, events.Event{Type: events.MessageUpdated, Message: m})
	return m, nil
}

// Delete permanently removes a message.
func (s *MessageService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracer.Start(ctx, "MessageService.Delete")
	defer func() { endSpan(span, err) }()

	if err := s.messages.Delete(ctx, id); err != nil {
		return mapStoreErr(err, "delete message")
	}
	s.publish(ctx, events.Event{Type: events.MessageDeleted, IDs: []string{id}})
	return nil
}

// BulkDelete removes every listed message that exists and returns how many
// were deleted. Unknown IDs are ignored and left out of the feed event.
func (s *MessageService) BulkDelete(ctx context.Context, ids []string) (deleted int64, err error) {
	if len(ids) == 0 {
		return 0, ErrInvalidArgument
	}

	ctx, span := tracer.Start(ctx, "MessageService.BulkDelete")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int("messages.requested", len(ids)))

	removed, err := s.messages.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	span.SetAttributes(attribute.Int("messages.deleted", len(removed)))
	if len(removed) > 0 {
		s.publish(ctx, events.Event{Type: events.MessageDeleted, IDs: removed})
	}
	return int64(len(removed)), nil
}

// publish emits a feed event. Failures are logged and never fail the request.
func (s *MessageService) publish(ctx context.Context, e events.Event) {
	if s.broker == nil {
		return
	}
	e.OccurredAt = s.now().UTC()
	if err := s.broker.Publish(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("event", string(e.Type)).Msg("Failed to publish feed event")
	}
}

func mapStoreErr(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
