package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AdminRepository handles admin data access on MongoDB.
type AdminRepository struct {
	coll *mongo.Collection
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{coll: db.Collection(adminsCollection)}
}

// EnsureIndexes creates the unique email index.
func (r *AdminRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create admins email index: %w", err)
	}
	return nil
}

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail retrieves an admin by email. Emails are stored lowercase.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.findOne(ctx, bson.M{"email": model.NormalizeEmail(email)})
}

// Create inserts a new admin, filling in ID and timestamps.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	now := time.Now().UTC()
	doc := adminDocument{
		ID:        bson.NewObjectID(),
		Name:      a.Name,
		Email:     model.NormalizeEmail(a.Email),
		Password:  a.PasswordHash,
		Role:      a.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	a.ID = doc.ID.Hex()
	a.Email = doc.Email
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// Count returns the number of admins.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return int(n), err
}

func (r *AdminRepository) findOne(ctx context.Context, filter bson.M) (*model.Admin, error) {
	var doc adminDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}
