// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a profile document for an externally-authenticated account.
//
// NOTE:
//   - AuthID is the opaque id issued by the external auth provider and is
//     unique across the collection. ID is the internal reference key;
//     Thread.Author points at it and it is never reassigned.
//   - Threads holds the ids of every thread (top-level or comment) the user
//     authored. Only the thread tree service mutates it.
type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthID     string               `bson:"auth_id" json:"auth_id"`
	Username   string               `bson:"username" json:"username"`
	UsernameCI string               `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Name       string               `bson:"name" json:"name"`
	NameCI     string               `bson:"name_ci" json:"-"`
	Image      string               `bson:"image,omitempty" json:"image,omitempty"`
	Bio        string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Onboarded  bool                 `bson:"onboarded" json:"onboarded"`
	Threads    []primitive.ObjectID `bson:"threads,omitempty" json:"threads,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
