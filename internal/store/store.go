// Package store opens the persistence backend selected by STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/config"
	"github.com/stemsi/contact-backend/internal/database"
	"github.com/stemsi/contact-backend/internal/repository"
	"github.com/stemsi/contact-backend/internal/repository/memory"
	"github.com/stemsi/contact-backend/internal/repository/mongodb"
	"github.com/stemsi/contact-backend/internal/service"
)

// Stores bundles the repositories of one backend.
type Stores struct {
	Admins   service.AdminStore
	Messages service.MessageStore
	Driver   string

	closers []func()
}

// Close releases the backend's connections.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Open connects to the configured backend. For postgres, pending schema
// migrations are applied first when AUTO_MIGRATE is on.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.StoreDriverMongo:
		return openMongo(ctx, cfg, log)
	case config.StoreDriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return &Stores{
			Admins:   memory.NewAdminRepository(),
			Messages: memory.NewMessageRepository(),
			Driver:   config.StoreDriverMemory,
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Stores{
		Admins:   repository.NewAdminRepository(pool),
		Messages: repository.NewMessageRepository(pool),
		Driver:   config.StoreDriverPostgres,
		closers:  []func(){pool.Close},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	client, err := database.NewMongoClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	closeClient := func() { _ = client.Disconnect(context.Background()) }

	db := client.Database(cfg.MongoDatabase)
	admins := mongodb.NewAdminRepository(db)
	messages := mongodb.NewMessageRepository(db)

	if err := admins.EnsureIndexes(ctx); err != nil {
		closeClient()
		return nil, err
	}
	if err := messages.EnsureIndexes(ctx); err != nil {
		closeClient()
		return nil, err
	}

	return &Stores{
		Admins:   admins,
		Messages: messages,
		Driver:   config.StoreDriverMongo,
		closers:  []func(){closeClient},
	}, nil
}
