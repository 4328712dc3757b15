// internal/app/store/queries/threadviews/userthreads.go
package threadviews

import (
	"context"
	"errors"

	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserThreads loads everything the given user authored (top-level threads
// and comments alike) with one level of children and their authors
// resolved. Used for profile tabs.
//
// Returns apperr.ErrNotFound when the user does not exist.
func UserThreads(ctx context.Context, db *mongo.Database, authID string) ([]Item, error) {
	var u models.User
	err := db.Collection("users").
		FindOne(ctx, bson.M{"auth_id": normalize.AuthID(authID)}).
		Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	if len(u.Threads) == 0 {
		return nil, nil
	}

	threads, err := threadsByIDs(ctx, db.Collection("threads"), u.Threads)
	if err != nil {
		return nil, err
	}

	// Batch the children of every thread, then every involved author.
	var childIDs []primitive.ObjectID
	for _, t := range threads {
		childIDs = append(childIDs, t.Children...)
	}
	children, err := threadsByIDs(ctx, db.Collection("threads"), childIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := []primitive.ObjectID{u.ID}
	for _, c := range children {
		authorIDs = append(authorIDs, c.Author)
	}
	authors, err := usersByIDs(ctx, db.Collection("users"), authorIDs)
	if err != nil {
		return nil, err
	}

	childByID := make(map[primitive.ObjectID]models.Thread, len(children))
	for _, c := range children {
		childByID[c.ID] = c
	}

	items := make([]Item, 0, len(threads))
	for _, t := range threads {
		it := Item{
			ID:        t.ID,
			Text:      t.Text,
			Author:    authors[t.Author],
			CreatedAt: t.CreatedAt,
		}
		for _, cid := range t.Children {
			if c, ok := childByID[cid]; ok {
				it.Children = append(it.Children, replyOf(c, authors))
			}
		}
		items = append(items, it)
	}
	return items, nil
}
