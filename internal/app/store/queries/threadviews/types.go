// Package threadviews provides read-only queries that join threads with
// their authors and child previews for list and detail views. Writes never
// go through this package; the tree service owns all mutations.
package threadviews

import (
	"time"

	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is the slice of a user document that list and detail views need.
type Author struct {
	ID       primitive.ObjectID `json:"id"`
	AuthID   string             `json:"auth_id"`
	Username string             `json:"username"`
	Name     string             `json:"name"`
	Image    string             `json:"image,omitempty"`
}

// Reply is a comment with its author resolved, one level deep.
type Reply struct {
	ID        primitive.ObjectID   `json:"id"`
	Text      string               `json:"text"`
	Author    Author               `json:"author"`
	ParentID  *primitive.ObjectID  `json:"parent_id,omitempty"`
	Children  []primitive.ObjectID `json:"children,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// Item is a thread with author and one level of children resolved.
type Item struct {
	ID        primitive.ObjectID `json:"id"`
	Text      string             `json:"text"`
	Author    Author             `json:"author"`
	Children  []Reply            `json:"children,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// Detail is a thread resolved transitively to a bounded depth of two:
// the thread's comments, and each comment's comments.
type Detail struct {
	ID        primitive.ObjectID  `json:"id"`
	Text      string              `json:"text"`
	Author    Author              `json:"author"`
	ParentID  *primitive.ObjectID `json:"parent_id,omitempty"`
	Children  []DetailReply       `json:"children,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// DetailReply is a first-level comment in a detail view, with its own
// children resolved one more level.
type DetailReply struct {
	ID        primitive.ObjectID  `json:"id"`
	Text      string              `json:"text"`
	Author    Author              `json:"author"`
	ParentID  *primitive.ObjectID `json:"parent_id,omitempty"`
	Children  []Reply             `json:"children,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func authorOf(u models.User) Author {
	return Author{
		ID:       u.ID,
		AuthID:   u.AuthID,
		Username: u.Username,
		Name:     u.Name,
		Image:    u.Image,
	}
}

// authorIndex maps user ids to the Author view for stitching query results.
func authorIndex(users []models.User) map[primitive.ObjectID]Author {
	idx := make(map[primitive.ObjectID]Author, len(users))
	for _, u := range users {
		idx[u.ID] = authorOf(u)
	}
	return idx
}

func replyOf(t models.Thread, authors map[primitive.ObjectID]Author) Reply {
	return Reply{
		ID:        t.ID,
		Text:      t.Text,
		Author:    authors[t.Author],
		ParentID:  t.ParentID,
		Children:  t.Children,
		CreatedAt: t.CreatedAt,
	}
}
