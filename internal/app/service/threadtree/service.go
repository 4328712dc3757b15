// Package threadtree orchestrates the cross-collection invariants of the
// thread tree: creating a top-level thread registers it on the author,
// adding a comment links child and parent bidirectionally, and deleting a
// thread removes the whole descendant subtree and detaches it from every
// affected author.
//
// The store provides no multi-document transactions in this deployment, so
// multi-step mutations are ordered so that a failure leaves a reachable,
// explainable state: the later linking step can fail after the insert
// committed, which is surfaced as apperr.ErrPartialFailure naming the step,
// never rolled back and never swallowed.
package threadtree

import (
	"context"

	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/threadhub/internal/app/system/inputval"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service owns all writes to the threads collection and to users' thread
// sets. Callers must not mutate parent pointers or children lists directly.
type Service struct {
	Threads *threadstore.Store
	Users   *userstore.Store
	Log     *zap.Logger
}

// New creates a thread tree Service over the given database.
func New(db *mongo.Database, logger *zap.Logger) *Service {
	return &Service{
		Threads: threadstore.New(db),
		Users:   userstore.New(db),
		Log:     logger,
	}
}

// cleanText sanitizes and validates thread text. What is stored is the
// sanitized form, so validation runs after sanitization.
func cleanText(text string) (string, error) {
	text = htmlsanitize.Text(text)
	if err := inputval.ThreadText(text); err != nil {
		return "", err
	}
	return text, nil
}

// CreateTopLevel inserts a new top-level thread and registers it on its
// author's thread set. If the registration fails after the insert
// committed, the thread exists but is not referenced by its author; the
// error reports that step and nothing is rolled back.
func (s *Service) CreateTopLevel(ctx context.Context, text, authorAuthID string) (models.Thread, error) {
	text, err := cleanText(text)
	if err != nil {
		return models.Thread{}, err
	}

	author, err := s.Users.GetByAuthID(ctx, authorAuthID)
	if err != nil {
		return models.Thread{}, err
	}

	th, err := s.Threads.Create(ctx, text, author.ID, nil)
	if err != nil {
		return models.Thread{}, err
	}

	if err := s.Users.AttachThread(ctx, author.ID, th.ID); err != nil {
		s.Log.Error("thread created but not registered on author",
			zap.String("thread_id", th.ID.Hex()),
			zap.String("author_id", author.ID.Hex()),
			zap.Error(err))
		return models.Thread{}, apperr.PartialFailure("attach thread to author", err)
	}

	return th, nil
}

// AddComment inserts a comment under parentID and links it both ways: the
// child carries parent_id, and the child's id is appended to the parent's
// children set. The child must exist before the parent references it, so
// insert comes first; a linking failure leaves a comment that exists but is
// unreachable from its parent, surfaced as a partial failure.
func (s *Service) AddComment(ctx context.Context, parentID primitive.ObjectID, text, authorAuthID string) (models.Thread, error) {
	text, err := cleanText(text)
	if err != nil {
		return models.Thread{}, err
	}

	parent, err := s.Threads.GetByID(ctx, parentID)
	if err != nil {
		return models.Thread{}, err
	}

	author, err := s.Users.GetByAuthID(ctx, authorAuthID)
	if err != nil {
		return models.Thread{}, err
	}

	child, err := s.Threads.Create(ctx, text, author.ID, &parent.ID)
	if err != nil {
		return models.Thread{}, err
	}

	if err := s.Threads.PushChild(ctx, parent.ID, child.ID); err != nil {
		s.Log.Error("comment created but not linked to parent",
			zap.String("comment_id", child.ID.Hex()),
			zap.String("parent_id", parent.ID.Hex()),
			zap.Error(err))
		return models.Thread{}, apperr.PartialFailure("link comment to parent", err)
	}

	if err := s.Users.AttachThread(ctx, author.ID, child.ID); err != nil {
		s.Log.Error("comment linked but not registered on author",
			zap.String("comment_id", child.ID.Hex()),
			zap.String("author_id", author.ID.Hex()),
			zap.Error(err))
		return models.Thread{}, apperr.PartialFailure("attach comment to author", err)
	}

	return child, nil
}

// Delete removes threadID and its entire descendant subtree, then pulls
// every deleted id out of the thread sets of all affected authors.
//
// Descendants are collected depth-first over the parent_id reverse lookup,
// not the denormalized children lists, so drift between the two edge
// representations cannot leave orphans behind. The walk issues one query
// per node; depth is bounded only by the real tree.
//
// Steps 5-6 (bulk delete, bulk detach) are not transactional: if the detach
// fails after the delete committed, affected users keep dangling references
// and the error says so; the delete is not undone.
func (s *Service) Delete(ctx context.Context, threadID primitive.ObjectID) error {
	target, err := s.Threads.GetByID(ctx, threadID)
	if err != nil {
		return err
	}

	descendants, err := s.collectDescendants(ctx, target.ID)
	if err != nil {
		return err
	}

	// Union of target + descendants, deduplicated.
	seen := make(map[primitive.ObjectID]struct{}, len(descendants)+1)
	ids := make([]primitive.ObjectID, 0, len(descendants)+1)
	addID := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	addID(target.ID)
	for _, d := range descendants {
		addID(d.ID)
	}

	// Distinct authors across the subtree. Nodes with a missing author
	// reference are skipped, not an error.
	authorSeen := make(map[primitive.ObjectID]struct{})
	var authors []primitive.ObjectID
	addAuthor := func(id primitive.ObjectID) {
		if id.IsZero() {
			return
		}
		if _, ok := authorSeen[id]; !ok {
			authorSeen[id] = struct{}{}
			authors = append(authors, id)
		}
	}
	addAuthor(target.Author)
	for _, d := range descendants {
		addAuthor(d.Author)
	}

	deleted, err := s.Threads.DeleteManyByIDs(ctx, ids)
	if err != nil {
		return err
	}

	if err := s.Users.DetachThreads(ctx, authors, ids); err != nil {
		s.Log.Error("subtree deleted but authors not detached",
			zap.String("root_id", target.ID.Hex()),
			zap.Int("thread_count", len(ids)),
			zap.Int("author_count", len(authors)),
			zap.Error(err))
		return apperr.PartialFailure("detach threads from authors", err)
	}

	s.Log.Info("thread subtree deleted",
		zap.String("root_id", target.ID.Hex()),
		zap.Int64("deleted", deleted),
		zap.Int("authors_touched", len(authors)))
	return nil
}

// collectDescendants walks the tree below rootID depth-first via repeated
// parent_id queries and returns every node found. Visited ids are skipped so
// a parent pointer cycle written out of band cannot hang the walk.
func (s *Service) collectDescendants(ctx context.Context, rootID primitive.ObjectID) ([]models.Thread, error) {
	var out []models.Thread
	visited := map[primitive.ObjectID]struct{}{rootID: {}}
	stack := []primitive.ObjectID{rootID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := s.Threads.ByParent(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if _, ok := visited[c.ID]; ok {
				continue
			}
			visited[c.ID] = struct{}{}
			out = append(out, c)
			stack = append(stack, c.ID)
		}
	}
	return out, nil
}
