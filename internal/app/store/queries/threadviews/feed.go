// internal/app/store/queries/threadviews/feed.go
package threadviews

import (
	"context"

	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeedResult contains one page of top-level threads and pagination metadata.
type FeedResult struct {
	Items   []Item
	Total   int64
	HasNext bool
}

// Feed fetches a page of top-level threads (parent_id null or absent),
// newest first, with each thread's author and one level of children (child
// authors resolved) joined in a single aggregation using $facet for data
// and total count in one round trip.
//
// The page sequence is restartable: the total is recomputed per call and no
// cursor state is retained.
func Feed(ctx context.Context, db *mongo.Database, page paging.Page) (FeedResult, error) {
	page = page.Clamp()
	var result FeedResult

	pipe := mongo.Pipeline{
		// nil matches both missing and explicit-null parent_id.
		bson.D{{Key: "$match", Value: bson.M{"parent_id": nil}}},
		bson.D{{Key: "$facet", Value: bson.M{
			"totalCount": []bson.M{
				{"$count": "count"},
			},
			"data": dataPipeline(page),
		}}},
	}

	cur, err := db.Collection("threads").Aggregate(ctx, pipe)
	if err != nil {
		return result, err
	}
	defer cur.Close(ctx)

	var aggResult struct {
		TotalCount []struct {
			Count int64 `bson:"count"`
		} `bson:"totalCount"`
		Data []rawItem `bson:"data"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&aggResult); err != nil {
			return result, err
		}
	}

	if len(aggResult.TotalCount) > 0 {
		result.Total = aggResult.TotalCount[0].Count
	}
	result.Items = make([]Item, 0, len(aggResult.Data))
	for _, raw := range aggResult.Data {
		result.Items = append(result.Items, raw.item())
	}
	result.HasNext = page.HasNext(result.Total, len(result.Items))

	return result, nil
}

// dataPipeline constructs the data portion of the $facet pipeline: sort,
// page window, then author and children joins.
func dataPipeline(page paging.Page) []bson.M {
	return []bson.M{
		{"$sort": bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}},
		{"$skip": page.Skip()},
		{"$limit": page.Limit()},

		// Resolve the thread's author.
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "author",
			"foreignField": "_id",
			"as":           "author_docs",
		}},

		// Resolve one level of children from the denormalized id list.
		{"$lookup": bson.M{
			"from":         "threads",
			"localField":   "children",
			"foreignField": "_id",
			"as":           "child_docs",
		}},

		// Resolve the child authors in one pass.
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "child_docs.author",
			"foreignField": "_id",
			"as":           "child_authors",
		}},
	}
}

// rawItem is the decode target for one aggregated feed row.
type rawItem struct {
	Thread       models.Thread   `bson:",inline"`
	AuthorDocs   []models.User   `bson:"author_docs"`
	ChildDocs    []models.Thread `bson:"child_docs"`
	ChildAuthors []models.User   `bson:"child_authors"`
}

func (r rawItem) item() Item {
	it := Item{
		ID:        r.Thread.ID,
		Text:      r.Thread.Text,
		CreatedAt: r.Thread.CreatedAt,
	}
	if len(r.AuthorDocs) > 0 {
		it.Author = authorOf(r.AuthorDocs[0])
	}
	authors := authorIndex(r.ChildAuthors)
	for _, c := range r.ChildDocs {
		it.Children = append(it.Children, replyOf(c, authors))
	}
	return it
}
