package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/repository"
)

// AdminRepository keeps admins in process memory. Used for local
// development (STORE_DRIVER=memory) and tests.
type AdminRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.Admin
	byEmail map[string]string
}

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{
		byID:    make(map[string]model.Admin),
		byEmail: make(map[string]string),
	}
}

func (r *AdminRepository) Create(_ context.Context, a *model.Admin) error {
	key := strings.ToLower(a.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[key]; exists {
		return repository.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now

	r.byID[a.ID] = *a
	r.byEmail[key] = a.ID
	return nil
}

func (r *AdminRepository) GetByID(_ context.Context, id string) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *AdminRepository) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *AdminRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
