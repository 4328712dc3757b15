// internal/app/store/queries/threadviews/detail.go
package threadviews

import (
	"context"
	"errors"

	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetDetail loads one thread with its comments resolved transitively to a
// bounded depth of two, every author included. Children are read from the
// denormalized id lists, which the tree service keeps in step with the
// parent pointers.
//
// Returns apperr.ErrNotFound when the thread does not exist.
func GetDetail(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (Detail, error) {
	threads := db.Collection("threads")

	var root models.Thread
	if err := threads.FindOne(ctx, bson.M{"_id": id}).Decode(&root); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Detail{}, apperr.NotFound("thread")
		}
		return Detail{}, err
	}

	// First level: the root's comments.
	level1, err := threadsByIDs(ctx, threads, root.Children)
	if err != nil {
		return Detail{}, err
	}

	// Second level: every first-level comment's comments, in one batch.
	var level2IDs []primitive.ObjectID
	for _, c := range level1 {
		level2IDs = append(level2IDs, c.Children...)
	}
	level2, err := threadsByIDs(ctx, threads, level2IDs)
	if err != nil {
		return Detail{}, err
	}

	// One author fetch covers the root and both levels.
	authorIDs := []primitive.ObjectID{root.Author}
	for _, c := range level1 {
		authorIDs = append(authorIDs, c.Author)
	}
	for _, c := range level2 {
		authorIDs = append(authorIDs, c.Author)
	}
	authors, err := usersByIDs(ctx, db.Collection("users"), authorIDs)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{
		ID:        root.ID,
		Text:      root.Text,
		Author:    authors[root.Author],
		ParentID:  root.ParentID,
		CreatedAt: root.CreatedAt,
	}

	level2ByID := make(map[primitive.ObjectID]models.Thread, len(level2))
	for _, c := range level2 {
		level2ByID[c.ID] = c
	}

	for _, c := range level1 {
		dr := DetailReply{
			ID:        c.ID,
			Text:      c.Text,
			Author:    authors[c.Author],
			ParentID:  c.ParentID,
			CreatedAt: c.CreatedAt,
		}
		for _, gid := range c.Children {
			if g, ok := level2ByID[gid]; ok {
				dr.Children = append(dr.Children, replyOf(g, authors))
			}
		}
		d.Children = append(d.Children, dr)
	}

	return d, nil
}

func threadsByIDs(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) ([]models.Thread, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
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

func usersByIDs(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]Author, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]Author{}, nil
	}
	cur, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return authorIndex(users), nil
}
