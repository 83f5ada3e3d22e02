package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/repository"
)

type storedMessage struct {
	model.Message
	seq uint64
}

// MessageRepository keeps messages in process memory.
type MessageRepository struct {
	mu    sync.RWMutex
	items map[string]storedMessage
	seq   uint64
	now   func() time.Time
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{
		items: make(map[string]storedMessage),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source. Tests use it to control ordering.
func (r *MessageRepository) WithClock(now func() time.Time) *MessageRepository {
	r.now = now
	return r
}

func (r *MessageRepository) Create(_ context.Context, m *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	m.ID = uuid.NewString()
	m.IsRead = false
	m.IsSpam = false
	m.CreatedAt = now
	m.UpdatedAt = now

	r.seq++
	r.items[m.ID] = storedMessage{Message: *m, seq: r.seq}
	return nil
}

// Insert stores a fully populated message as-is. Seeding helper for tests.
func (r *MessageRepository) Insert(m model.Message) model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}
	r.seq++
	r.items[m.ID] = storedMessage{Message: m, seq: r.seq}
	return m
}

func (r *MessageRepository) ListPaginated(_ context.Context, filter model.MessageFilter, limit, offset int) ([]model.Message, int, error) {
	r.mu.RLock()
	matched := make([]storedMessage, 0, len(r.items))
	for _, it := range r.items {
		if filter.Matches(&it.Message) {
			matched = append(matched, it)
		}
	}
	r.mu.RUnlock()

	// Newest first; insertion order breaks timestamp ties.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})

	total := len(matched)
	out := []model.Message{}
	if offset >= total {
		return out, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	for _, it := range matched[offset:end] {
		out = append(out, it.Message)
	}
	return out, total, nil
}

func (r *MessageRepository) Stats(_ context.Context) (model.MessageStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s model.MessageStats
	for _, it := range r.items {
		switch {
		case it.IsSpam:
			s.Spam++
		case it.IsRead:
			s.Total++
			s.Read++
		default:
			s.Total++
			s.Unread++
		}
	}
	return s, nil
}

func (r *MessageRepository) GetByID(_ context.Context, id string) (*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m := it.Message
	return &m, nil
}

func (r *MessageRepository) SetRead(_ context.Context, id string, isRead bool) (*model.Message, error) {
	return r.update(id, func(m *model.Message) { m.IsRead = isRead })
}

func (r *MessageRepository) MarkSpam(_ context.Context, id string) (*model.Message, error) {
	return r.update(id, func(m *model.Message) { m.IsSpam = true })
}

func (r *MessageRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MessageRepository) DeleteMany(_ context.Context, ids []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted []string
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			delete(r.items, id)
			deleted = append(deleted, id)
		}
	}
	return deleted, nil
}

func (r *MessageRepository) update(id string, mutate func(*model.Message)) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	mutate(&it.Message)
	it.UpdatedAt = r.now()
	r.items[id] = it

	m := it.Message
	return &m, nil
}
