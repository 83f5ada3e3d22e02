package mongodb

import (
	"time"

	"github.com/stemsi/contact-backend/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collection names. Field names below keep the camelCase layout of the
// existing contact-form database so old documents stay readable.
const (
	adminsCollection   = "admins"
	messagesCollection = "messages"
)

type adminDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	Role      string        `bson:"role"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d *adminDocument) toModel() *model.Admin {
	role := d.Role
	if role == "" {
		role = model.RoleAdmin
	}
	return &model.Admin{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type messageDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Subject   string        `bson:"subject"`
	Message   string        `bson:"message"`
	Phone     *string       `bson:"phone,omitempty"`
	IsRead    bool          `bson:"isRead"`
	IsSpam    bool          `bson:"isSpam"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d *messageDocument) toModel() model.Message {
	return model.Message{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Subject:   d.Subject,
		Message:   d.Message,
		Phone:     d.Phone,
		IsRead:    d.IsRead,
		IsSpam:    d.IsSpam,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// objectIDs parses hex ids, dropping anything that is not a valid ObjectID.
func objectIDs(ids []string) []bson.ObjectID {
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := bson.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
