package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stemsi/contact-backend/internal/events"
	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records DeleteMany calls.
type countingStore struct {
	*memory.MessageRepository
	deleteManyCalls int
}

func (s *countingStore) DeleteMany(ctx context.Context, ids []string) ([]string, error) {
	s.deleteManyCalls++
	return s.MessageRepository.DeleteMany(ctx, ids)
}

type failingBroker struct{}

func (failingBroker) Publish(context.Context, events.Event) error { return errors.New("broker down") }
func (failingBroker) Subscribe(context.Context) (<-chan events.Event, func(), error) {
	return nil, nil, errors.New("broker down")
}

func seedMessage(repo *memory.MessageRepository, at time.Time, isRead, isSpam bool) model.Message {
	return repo.Insert(model.Message{
		Name:      "Visitor",
		Email:     "v@x.io",
		Subject:   "Hello",
		Message:   "Hello there, friend",
		IsRead:    isRead,
		IsSpam:    isSpam,
		CreatedAt: at,
	})
}

func TestMessageServiceSubmit(t *testing.T) {
	repo := memory.NewMessageRepository()
	broker := events.NewMemoryBroker()
	svc := NewMessageService(repo, broker, nopLog)
	ctx := context.Background()

	feed, cancel, err := broker.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	receipt, err := svc.Submit(ctx, model.SubmitMessageRequest{
		Name:    "Asha Rao",
		Email:   "Asha@Example.com",
		Subject: "Pricing",
		Message: "Please share your pricing.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, "asha@example.com", receipt.Email)

	stored, err := svc.Get(ctx, receipt.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsRead)
	assert.False(t, stored.IsSpam)
	assert.Nil(t, stored.Phone)

	select {
	case e := <-feed:
		assert.Equal(t, events.MessageCreated, e.Type)
		assert.Equal(t, receipt.ID, e.Message.ID)
	case <-time.After(time.Second):
		t.Fatal("no created event")
	}
}

func TestMessageServiceSubmitIgnoresPublishFailure(t *testing.T) {
	svc := NewMessageService(memory.NewMessageRepository(), failingBroker{}, nopLog)

	_, err := svc.Submit(context.Background(), model.SubmitMessageRequest{
		Name: "Asha Rao", Email: "a@x.io", Subject: "Pricing", Message: "Please share your pricing.",
	})
	assert.NoError(t, err)
}

func TestMessageServiceListDefaultExcludesSpam(t *testing.T) {
	repo := memory.NewMessageRepository()
	svc := NewMessageService(repo, nil, nopLog)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	seedMessage(repo, base, false, false)
	seedMessage(repo, base.Add(time.Minute), true, false)
	seedMessage(repo, base.Add(2*time.Minute), false, true)

	page, err := svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageLimit, page.Limit)
	assert.Equal(t, model.MessageStats{Total: 2, Unread: 1, Read: 1, Spam: 1}, page.Stats)
}

func TestMessageServiceListUnreadSecondPage(t *testing.T) {
	repo := memory.NewMessageRepository()
	svc := NewMessageService(repo, nil, nopLog)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older := seedMessage(repo, base, false, false)
	seedMessage(repo, base.Add(time.Minute), false, false)
	seedMessage(repo, base.Add(2*time.Minute), true, false)
	seedMessage(repo, base.Add(3*time.Minute), false, true)

	page, err := svc.List(context.Background(), ListQuery{Status: model.MessageStatusUnread, Page: 2, Limit: 1})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, older.ID, page.Items[0].ID)
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, model.MessageStats{Total: 3, Unread: 2, Read: 1, Spam: 1}, page.Stats)
}

func TestMessageServiceListSearchAndLimitClamp(t *testing.T) {
	repo := memory.NewMessageRepository()
	svc := NewMessageService(repo, nil, nopLog)

	repo.Insert(model.Message{Name: "Ravi", Email: "r@x.io", Subject: "Invoice 42", Message: "About my invoice please"})
	repo.Insert(model.Message{Name: "Meera", Email: "m@x.io", Subject: "Hello", Message: "General question here"})

	page, err := svc.List(context.Background(), ListQuery{Search: "INVOICE", Limit: 500})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ravi", page.Items[0].Name)
	assert.Equal(t, MaxPageLimit, page.Limit)

	empty, err := svc.List(context.Background(), ListQuery{Search: "nothing matches"})
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestMessageServiceMarkSpamKeepsReadFlag(t *testing.T) {
	repo := memory.NewMessageRepository()
	svc := NewMessageService(repo, nil, nopLog)
	m := seedMessage(repo, time.Now(), true, false)

	got, err := svc.MarkSpam(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSpam)
	assert.True(t, got.IsRead)

	again, err := svc.MarkSpam(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, again.IsSpam)
}

func TestMessageServiceSetReadStatus(t *testing.T) {
	repo := memory.NewMessageRepository()
	svc := NewMessageService(repo, nil, nopLog)
	m := seedMessage(repo, time.Now(), false, false)

	got, err := svc.SetReadStatus(context.Background(), m.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	got, err = svc.SetReadStatus(context.Background(), m.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsRead)
}

func TestMessageServiceNotFound(t *testing.T) {
	svc := NewMessageService(memory.NewMessageRepository(), nil, nopLog)
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SetReadStatus(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.MarkSpam(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
}

func TestMessageServiceBulkDelete(t *testing.T) {
	repo := memory.NewMessageRepository()
	store := &countingStore{MessageRepository: repo}
	svc := NewMessageService(store, nil, nopLog)
	ctx := context.Background()

	a := seedMessage(repo, time.Now(), false, false)
	b := seedMessage(repo, time.Now(), false, false)

	deleted, err := svc.BulkDelete(ctx, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 1, store.deleteManyCalls)
}

func TestMessageServiceBulkDeleteEmpty(t *testing.T) {
	store := &countingStore{MessageRepository: memory.NewMessageRepository()}
	svc := NewMessageService(store, nil, nopLog)

	_, err := svc.BulkDelete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.BulkDelete(context.Background(), []string{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, store.deleteManyCalls)
}

func TestMessageServiceBulkDeletePublishesRemovedIDs(t *testing.T) {
	repo := memory.NewMessageRepository()
	broker := events.NewMemoryBroker()
	svc := NewMessageService(repo, broker, nopLog)
	ctx := context.Background()

	a := seedMessage(repo, time.Now(), false, false)

	feed, cancel, err := broker.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	deleted, err := svc.BulkDelete(ctx, []string{"missing", a.ID, "also-missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	select {
	case e := <-feed:
		assert.Equal(t, events.MessageDeleted, e.Type)
		assert.Equal(t, []string{a.ID}, e.IDs)
	case <-time.After(time.Second):
		t.Fatal("no deleted event")
	}

	// Nothing left to delete, so no event is published.
	deleted, err = svc.BulkDelete(ctx, []string{a.ID})
	require.NoError(t, err)
	assert.Zero(t, deleted)
	select {
	case e := <-feed:
		t.Fatalf("unexpected event %s", e.Type)
	case <-time.After(50 * time.Millisecond):
	}
}
