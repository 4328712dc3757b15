// Package activity derives "who replied to my threads": the set of
// comments authored by other users on a given user's threads.
package activity

import (
	"context"
	"time"

	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service aggregates reply activity across the threads and users
// collections.
type Service struct {
	Threads *threadstore.Store
	Users   *userstore.Store
	Log     *zap.Logger
}

// New creates an activity Service over the given database.
func New(db *mongo.Database, logger *zap.Logger) *Service {
	return &Service{
		Threads: threadstore.New(db),
		Users:   userstore.New(db),
		Log:     logger,
	}
}

// Author identifies who wrote a reply.
type Author struct {
	ID       primitive.ObjectID `json:"id"`
	AuthID   string             `json:"auth_id"`
	Username string             `json:"username"`
	Name     string             `json:"name"`
	Image    string             `json:"image,omitempty"`
}

// Reply is one comment by another user on one of the subject's threads.
type Reply struct {
	ID        primitive.ObjectID  `json:"id"`
	Text      string              `json:"text"`
	ParentID  *primitive.ObjectID `json:"parent_id,omitempty"`
	Author    Author              `json:"author"`
	CreatedAt time.Time           `json:"created_at"`
}

// Replies returns every comment by other users on threads the given user
// authored. Candidates come from the denormalized children lists of the
// user's threads (kept consistent by the tree service), matched on _id and
// filtered to exclude self-replies. Order is natural store order.
func (s *Service) Replies(ctx context.Context, userAuthID string) ([]Reply, error) {
	user, err := s.Users.GetByAuthID(ctx, userAuthID)
	if err != nil {
		return nil, err
	}

	authored, err := s.Threads.ByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// Union of all children id lists, deduplicated.
	seen := make(map[primitive.ObjectID]struct{})
	var candidateIDs []primitive.ObjectID
	for _, t := range authored {
		for _, cid := range t.Children {
			if _, ok := seen[cid]; !ok {
				seen[cid] = struct{}{}
				candidateIDs = append(candidateIDs, cid)
			}
		}
	}
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	replies, err := s.Threads.ByIDsExcludingAuthor(ctx, candidateIDs, user.ID)
	if err != nil {
		return nil, err
	}
	if len(replies) == 0 {
		return nil, nil
	}

	// Resolve the reply authors in one batch.
	authorSeen := make(map[primitive.ObjectID]struct{})
	var authorIDs []primitive.ObjectID
	for _, r := range replies {
		if _, ok := authorSeen[r.Author]; !ok {
			authorSeen[r.Author] = struct{}{}
			authorIDs = append(authorIDs, r.Author)
		}
	}
	authorDocs, err := s.Users.ByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authors := make(map[primitive.ObjectID]Author, len(authorDocs))
	for _, u := range authorDocs {
		authors[u.ID] = Author{
			ID:       u.ID,
			AuthID:   u.AuthID,
			Username: u.Username,
			Name:     u.Name,
			Image:    u.Image,
		}
	}

	out := make([]Reply, 0, len(replies))
	for _, r := range replies {
		out = append(out, Reply{
			ID:        r.ID,
			Text:      r.Text,
			ParentID:  r.ParentID,
			Author:    authors[r.Author],
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}
