// internal/app/store/users/search.go
package userstore

import (
	"context"
	"regexp"
	"strings"

	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchParams describes a paged user search.
type SearchParams struct {
	// ExcludeAuthID removes the searching user from their own results.
	ExcludeAuthID string
	// Query is matched case-insensitively as a substring of username or
	// display name. Empty matches everyone.
	Query string
	// SortAsc orders by creation time ascending; default is descending.
	SortAsc bool
	Page    paging.Page
}

// SearchResult is one page of matches plus the flag for "more available".
type SearchResult struct {
	Items   []models.User
	Total   int64
	HasNext bool
}

// Search runs a case-insensitive substring search over username and display
// name, excluding the given user, ordered by creation time. The total count
// is computed per call so the page sequence is restartable; no cursor state
// is retained between calls.
func (s *Store) Search(ctx context.Context, p SearchParams) (SearchResult, error) {
	p.Page = p.Page.Clamp()

	filter := bson.M{
		"auth_id": bson.M{"$ne": normalize.AuthID(p.ExcludeAuthID)},
	}
	if q := strings.TrimSpace(p.Query); q != "" {
		// Match against the folded shadows so "É" finds "e" and vice versa.
		re := primitive.Regex{Pattern: regexp.QuoteMeta(text.Fold(q)), Options: "i"}
		filter["$or"] = []bson.M{
			{"username_ci": re},
			{"name_ci": re},
		}
	}

	sortDir := -1
	if p.SortAsc {
		sortDir = 1
	}
	// _id breaks created_at ties so skip/limit pages never overlap or gap.
	opts := options.Find().
		SetSort(bson.D{
			{Key: "created_at", Value: sortDir},
			{Key: "_id", Value: sortDir},
		}).
		SetSkip(p.Page.Skip()).
		SetLimit(p.Page.Limit())

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return SearchResult{}, err
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return SearchResult{}, err
	}
	defer cur.Close(ctx)

	var items []models.User
	if err := cur.All(ctx, &items); err != nil {
		return SearchResult{}, err
	}

	return SearchResult{
		Items:   items,
		Total:   total,
		HasNext: p.Page.HasNext(total, len(items)),
	}, nil
}
