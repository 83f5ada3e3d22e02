package service

import (
	"context"

	"github.com/stemsi/contact-backend/internal/model"
)

// AdminStore persists admins. Implemented by the postgres, mongodb and
// memory repositories.
type AdminStore interface {
	Create(ctx context.Context, a *model.Admin) error
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id string) (*model.Admin, error)
	Count(ctx context.Context) (int, error)
}

// MessageStore persists contact messages.
type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	ListPaginated(ctx context.Context, filter model.MessageFilter, limit, offset int) ([]model.Message, int, error)
	Stats(ctx context.Context) (model.MessageStats, error)
	GetByID(ctx context.Context, id string) (*model.Message, error)
	SetRead(ctx context.Context, id string, isRead bool) (*model.Message, error)
	MarkSpam(ctx context.Context, id string) (*model.Message, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) ([]string, error)
}
