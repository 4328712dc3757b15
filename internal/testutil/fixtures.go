package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/threadhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// NewAuthID returns a unique external identity id for test users.
func NewAuthID() string {
	return "user_" + uuid.NewString()
}

// CreateUser creates an onboarded test user with the given username.
// Returns the created user with its generated ids.
func (f *Fixtures) CreateUser(ctx context.Context, username, name string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		AuthID:     NewAuthID(),
		Username:   username,
		UsernameCI: text.Fold(username),
		Name:       name,
		NameCI:     text.Fold(name),
		Onboarded:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, u)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return u
}

// CreateThread inserts a top-level thread document authored by the given
// user and registers it on the author's thread set, the way the tree
// service would.
func (f *Fixtures) CreateThread(ctx context.Context, author models.User, body string) models.Thread {
	f.t.Helper()

	th := models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      body,
		Author:    author.ID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("threads").InsertOne(ctx, th); err != nil {
		f.t.Fatalf("failed to create test thread: %v", err)
	}
	_, err := f.db.Collection("users").UpdateByID(ctx, author.ID,
		bson.M{"$addToSet": bson.M{"threads": th.ID}})
	if err != nil {
		f.t.Fatalf("failed to register test thread on author: %v", err)
	}

	return th
}

// CreateComment inserts a comment document under parent, linking both
// directions and registering it on the author's thread set.
func (f *Fixtures) CreateComment(ctx context.Context, parent models.Thread, author models.User, body string) models.Thread {
	f.t.Helper()

	parentID := parent.ID
	c := models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      body,
		Author:    author.ID,
		ParentID:  &parentID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("threads").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	if _, err := f.db.Collection("threads").UpdateByID(ctx, parent.ID,
		bson.M{"$addToSet": bson.M{"children": c.ID}}); err != nil {
		f.t.Fatalf("failed to link test comment to parent: %v", err)
	}
	if _, err := f.db.Collection("users").UpdateByID(ctx, author.ID,
		bson.M{"$addToSet": bson.M{"threads": c.ID}}); err != nil {
		f.t.Fatalf("failed to register test comment on author: %v", err)
	}

	return c
}
