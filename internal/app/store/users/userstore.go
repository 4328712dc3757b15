// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicateAuthID is returned when an insert races another first-save of
// the same external identity. The unique index on auth_id makes the second
// writer lose.
var ErrDuplicateAuthID = errors.New("a user with this auth id already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Profile holds the caller-editable fields of a user document.
type Profile struct {
	Username string
	Name     string
	Image    string
	Bio      string
}

// Upsert creates or fully updates the user identified by authID and marks
// it onboarded. The operation is idempotent: repeating it with the same
// profile leaves a single document with the same content.
func (s *Store) Upsert(ctx context.Context, authID string, p Profile) (models.User, error) {
	authID = normalize.AuthID(authID)
	username := normalize.Username(p.Username)
	name := normalize.Name(p.Name)
	now := time.Now().UTC()

	set := bson.M{
		"username":    username,
		"username_ci": text.Fold(username),
		"name":        name,
		"name_ci":     text.Fold(name),
		"image":       p.Image,
		"bio":         p.Bio,
		"onboarded":   true,
		"updated_at":  now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"auth_id": authID, "created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"auth_id": authID}, update, opts).Decode(&u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateAuthID
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByAuthID loads a user by external identity id.
// Returns apperr.ErrNotFound when absent.
func (s *Store) GetByAuthID(ctx context.Context, authID string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"auth_id": normalize.AuthID(authID)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.NotFound("user")
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by internal ObjectID.
// Returns apperr.ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.NotFound("user")
		}
		return models.User{}, err
	}
	return u, nil
}

// ByIDs returns the users whose internal ids are in ids.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AttachThread adds threadID to the user's thread set. $addToSet keeps the
// set duplicate-free across retries. Returns apperr.ErrNotFound if the user
// does not exist.
func (s *Store) AttachThread(ctx context.Context, userID, threadID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"threads": threadID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// DetachThreads pulls every id in threadIDs out of the thread sets of the
// given authors with a single bulk update. Authors that no longer exist are
// simply not matched, never an error.
func (s *Store) DetachThreads(ctx context.Context, authorIDs, threadIDs []primitive.ObjectID) error {
	if len(authorIDs) == 0 || len(threadIDs) == 0 {
		return nil
	}
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": authorIDs}},
		bson.M{"$pull": bson.M{"threads": bson.M{"$in": threadIDs}}},
	)
	return err
}
