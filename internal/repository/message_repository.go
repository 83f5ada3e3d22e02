package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/contact-backend/internal/model"
)

const messageColumns = `id::text, name, email, subject, message, phone, is_read, is_spam, created_at, updated_at`

// MessageRepository handles contact message data access.
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create inserts a new message, filling in ID, flags and timestamps.
func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO messages (name, email, subject, message, phone)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id::text, is_read, is_spam, created_at, updated_at`,
		m.Name, m.Email, m.Subject, m.Message, m.Phone,
	).Scan(&m.ID, &m.IsRead, &m.IsSpam, &m.CreatedAt, &m.UpdatedAt)
}

// ListPaginated retrieves messages matching filter, newest first, plus the
// total number of matches.
func (r *MessageRepository) ListPaginated(ctx context.Context, filter model.MessageFilter, limit, offset int) ([]model.Message, int, error) {
	where, args := buildMessageWhere(filter)

	// 1. Get total count
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// 2. Get paginated data
	argIdx := len(args) + 1
	query := `SELECT ` + messageColumns + ` FROM messages` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

// Stats returns the global inbox counters in a single scan.
func (r *MessageRepository) Stats(ctx context.Context) (model.MessageStats, error) {
	var s model.MessageStats
	err := r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE NOT is_spam),
			COUNT(*) FILTER (WHERE NOT is_read AND NOT is_spam),
			COUNT(*) FILTER (WHERE is_read AND NOT is_spam),
			COUNT(*) FILTER (WHERE is_spam)
		 FROM messages`,
	).Scan(&s.Total, &s.Unread, &s.Read, &s.Spam)
	return s, err
}

// GetByID retrieves a message by ID.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	return r.returningOne(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1::uuid`, id)
}

// SetRead sets is_read and returns the updated message.
func (r *MessageRepository) SetRead(ctx context.Context, id string, isRead bool) (*model.Message, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	return r.returningOne(ctx,
		`UPDATE messages SET is_read = $2, updated_at = NOW() WHERE id = $1::uuid RETURNING `+messageColumns,
		id, isRead)
}

// MarkSpam sets is_spam and returns the updated message. is_read is untouched.
func (r *MessageRepository) MarkSpam(ctx context.Context, id string) (*model.Message, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	return r.returningOne(ctx,
		`UPDATE messages SET is_spam = TRUE, updated_at = NOW() WHERE id = $1::uuid RETURNING `+messageColumns,
		id)
}

// Delete removes a message by ID.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes every message whose ID is in ids and returns the IDs
// of the rows actually deleted.
func (r *MessageRepository) DeleteMany(ctx context.Context, ids []string) ([]string, error) {
	valid := validUUIDs(ids)
	if len(valid) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `DELETE FROM messages WHERE id = ANY($1::uuid[]) RETURNING id::text`, valid)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *MessageRepository) returningOne(ctx context.Context, query string, args ...interface{}) (*model.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	m := &model.Message{}
	if err := scanMessage(rows, m); err != nil {
		return nil, err
	}
	return m, nil
}

func scanMessage(row pgx.Row, m *model.Message) error {
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Phone, &m.IsRead, &m.IsSpam, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// buildMessageWhere translates a filter into a WHERE clause and positional args.
func buildMessageWhere(filter model.MessageFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	switch filter.Status {
	case model.MessageStatusRead:
		conds = append(conds, "is_read = TRUE", "is_spam = FALSE")
	case model.MessageStatusUnread:
		conds = append(conds, "is_read = FALSE", "is_spam = FALSE")
	case model.MessageStatusSpam:
		conds = append(conds, "is_spam = TRUE")
	default:
		conds = append(conds, "is_spam = FALSE")
	}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		p := "$" + strconv.Itoa(len(args))
		conds = append(conds, "(name ILIKE "+p+" OR email ILIKE "+p+" OR subject ILIKE "+p+" OR message ILIKE "+p+")")
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
