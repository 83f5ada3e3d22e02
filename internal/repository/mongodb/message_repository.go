package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MessageRepository handles contact message data access on MongoDB.
type MessageRepository struct {
	coll *mongo.Collection
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(messagesCollection)}
}

// EnsureIndexes creates the listing indexes.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "isRead", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isSpam", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create messages indexes: %w", err)
	}
	return nil
}

// Create inserts a new message, filling in ID, flags and timestamps.
func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	now := time.Now().UTC()
	doc := messageDocument{
		ID:        bson.NewObjectID(),
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		Phone:     m.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	*m = doc.toModel()
	return nil
}

// ListPaginated retrieves messages matching filter, newest first, plus the
// total number of matches.
func (r *MessageRepository) ListPaginated(ctx context.Context, filter model.MessageFilter, limit, offset int) ([]model.Message, int, error) {
	query := buildMessageFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []messageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	messages := make([]model.Message, 0, len(docs))
	for i := range docs {
		messages = append(messages, docs[i].toModel())
	}
	return messages, int(total), nil
}

// Stats returns the global inbox counters with a single aggregation.
func (r *MessageRepository) Stats(ctx context.Context) (model.MessageStats, error) {
	notSpam := bson.M{"$eq": bson.A{"$isSpam", false}}
	countIf := func(cond interface{}) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"total":  countIf(notSpam),
			"unread": countIf(bson.M{"$and": bson.A{notSpam, bson.M{"$eq": bson.A{"$isRead", false}}}}),
			"read":   countIf(bson.M{"$and": bson.A{notSpam, bson.M{"$eq": bson.A{"$isRead", true}}}}),
			"spam":   countIf(bson.M{"$eq": bson.A{"$isSpam", true}}),
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return model.MessageStats{}, err
	}
	var rows []struct {
		Total  int `bson:"total"`
		Unread int `bson:"unread"`
		Read   int `bson:"read"`
		Spam   int `bson:"spam"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return model.MessageStats{}, err
	}
	if len(rows) == 0 {
		return model.MessageStats{}, nil
	}
	return model.MessageStats{Total: rows[0].Total, Unread: rows[0].Unread, Read: rows[0].Read, Spam: rows[0].Spam}, nil
}

// GetByID retrieves a message by ID.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc messageDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	m := doc.toModel()
	return &m, nil
}

// SetRead sets isRead and returns the updated message.
func (r *MessageRepository) SetRead(ctx context.Context, id string, isRead bool) (*model.Message, error) {
	return r.updateOne(ctx, id, bson.M{"isRead": isRead})
}

// MarkSpam sets isSpam and returns the updated message. isRead is untouched.
func (r *MessageRepository) MarkSpam(ctx context.Context, id string) (*model.Message, error) {
	return r.updateOne(ctx, id, bson.M{"isSpam": true})
}

// Delete removes a message by ID.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteMany removes every message whose ID is in ids and returns the IDs
// that existed. The lookup and the delete are separate commands, so an ID
// removed concurrently by another request is still reported as gone.
func (r *MessageRepository) DeleteMany(ctx context.Context, ids []string) ([]string, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	filter := bson.M{"_id": bson.M{"$in": oids}}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var found []struct {
		ID bson.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}

	existing := make([]bson.ObjectID, 0, len(found))
	deleted := make([]string, 0, len(found))
	for _, f := range found {
		existing = append(existing, f.ID)
		deleted = append(deleted, f.ID.Hex())
	}
	if _, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": existing}}); err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *MessageRepository) updateOne(ctx context.Context, id string, set bson.M) (*model.Message, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc messageDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	m := doc.toModel()
	return &m, nil
}

// buildMessageFilter translates a listing filter into a query document.
// The search term is matched literally, case-insensitively.
func buildMessageFilter(filter model.MessageFilter) bson.M {
	q := bson.M{}

	switch filter.Status {
	case model.MessageStatusRead:
		q["isRead"] = true
		q["isSpam"] = false
	case model.MessageStatusUnread:
		q["isRead"] = false
		q["isSpam"] = false
	case model.MessageStatusSpam:
		q["isSpam"] = true
	default:
		q["isSpam"] = false
	}

	if filter.Search != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
			bson.M{"subject": re},
			bson.M{"message": re},
		}
	}
	return q
}
