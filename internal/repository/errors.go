package repository

import (
	"errors"

	"github.com/google/uuid"
)

// Store-level errors shared by every backend (postgres, mongo, memory).
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("admin with this email already exists")
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// validUUIDs keeps only ids that parse as UUIDs. Anything else cannot exist
// in a UUID-keyed table.
func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
