// internal/domain/models/thread.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread is a post. A nil ParentID means a top-level thread; otherwise the
// document is a comment on the thread ParentID points at.
//
// Tree edges are stored twice: ParentID on the child and Children on the
// parent. A thread with a non-nil ParentID must appear in its parent's
// Children set; that invariant is maintained by the thread tree service,
// which is the only writer of either field.
type Thread struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Text     string               `bson:"text" json:"text"`
	Author   primitive.ObjectID   `bson:"author" json:"author"`
	ParentID *primitive.ObjectID  `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Children []primitive.ObjectID `bson:"children,omitempty" json:"children,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsTopLevel reports whether the thread is a root post rather than a comment.
func (t Thread) IsTopLevel() bool { return t.ParentID == nil }
