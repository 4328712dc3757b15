// internal/app/store/threads/threadstore.go
package threadstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("threads")}
}

// Create inserts a new thread document. A nil parentID makes it a top-level
// thread. No other entity is touched; linking the document into the tree and
// onto its author is the tree service's job.
func (s *Store) Create(ctx context.Context, text string, author primitive.ObjectID, parentID *primitive.ObjectID) (models.Thread, error) {
	t := models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Author:    author,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Thread{}, err
	}
	return t, nil
}

// GetByID loads a thread by id. Returns apperr.ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Thread, error) {
	var t models.Thread
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Thread{}, apperr.NotFound("thread")
		}
		return models.Thread{}, err
	}
	return t, nil
}

// ByParent returns the direct children of a thread via the parent_id
// reverse lookup, oldest first. Used by the cascading delete walk, which
// deliberately ignores the denormalized children list so drift between the
// two edge representations cannot hide a descendant.
func (s *Store) ByParent(ctx context.Context, parentID primitive.ObjectID) ([]models.Thread, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"parent_id": parentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Thread
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByAuthor returns every thread (top-level or comment) the user authored,
// newest first.
func (s *Store) ByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Thread, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"author": author}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Thread
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByIDs returns the threads whose ids are in ids, in natural store order.
// Missing ids are silently absent from the result.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Thread, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Thread
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByIDsExcludingAuthor returns the threads whose ids are in ids and whose
// author differs from the given user. Backs the activity feed, which must
// not report self-replies.
func (s *Store) ByIDsExcludingAuthor(ctx context.Context, ids []primitive.ObjectID, author primitive.ObjectID) ([]models.Thread, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{
		"_id":    bson.M{"$in": ids},
		"author": bson.M{"$ne": author},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Thread
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PushChild adds childID to the parent's children set. $addToSet keeps the
// set free of duplicates even if the call is retried. Returns
// apperr.ErrNotFound if the parent no longer exists.
func (s *Store) PushChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, parentID, bson.M{"$addToSet": bson.M{"children": childID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("parent thread")
	}
	return nil
}

// DeleteManyByIDs removes every thread in ids with a single bulk remove.
// Returns the number of documents deleted.
func (s *Store) DeleteManyByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByIDs reports how many of the given ids still exist. Used by tests
// to verify cascade deletes.
func (s *Store) CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.c.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
}
