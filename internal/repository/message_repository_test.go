package repository

import (
	"testing"

	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildMessageWhere(t *testing.T) {
	cases := []struct {
		name      string
		filter    model.MessageFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "default inbox excludes spam",
			filter:    model.MessageFilter{},
			wantWhere: " WHERE is_spam = FALSE",
		},
		{
			name:      "read",
			filter:    model.MessageFilter{Status: model.MessageStatusRead},
			wantWhere: " WHERE is_read = TRUE AND is_spam = FALSE",
		},
		{
			name:      "unread",
			filter:    model.MessageFilter{Status: model.MessageStatusUnread},
			wantWhere: " WHERE is_read = FALSE AND is_spam = FALSE",
		},
		{
			name:      "spam ignores read flag",
			filter:    model.MessageFilter{Status: model.MessageStatusSpam},
			wantWhere: " WHERE is_spam = TRUE",
		},
		{
			name:      "search covers four columns",
			filter:    model.MessageFilter{Search: "refund"},
			wantWhere: " WHERE is_spam = FALSE AND (name ILIKE $1 OR email ILIKE $1 OR subject ILIKE $1 OR message ILIKE $1)",
			wantArgs:  []interface{}{"%refund%"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			where, args := buildMessageWhere(tc.filter)
			assert.Equal(t, tc.wantWhere, where)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_off\\`, escapeLike(`100% _off\`))
}

func TestValidUUIDs(t *testing.T) {
	ids := []string{"5f1d7c1e-8a0b-4b7a-9d55-0d7a3f6d2c11", "not-a-uuid", ""}
	assert.Equal(t, []string{"5f1d7c1e-8a0b-4b7a-9d55-0d7a3f6d2c11"}, validUUIDs(ids))
}
