package threadtree_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/threadhub/internal/app/service/threadtree"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*threadtree.Service, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return threadtree.New(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestCreateTopLevel_RegistersOnAuthor(t *testing.T) {
	svc, fixtures := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "alice", "Alice")

	th, err := svc.CreateTopLevel(ctx, "my first thread", author.AuthID)
	if err != nil {
		t.Fatalf("CreateTopLevel failed: %v", err)
	}

	if th.ParentID != nil {
		t.Error("expected a top-level thread")
	}
	if th.Author != author.ID {
		t.Errorf("author: got %v, want %v", th.Author, author.ID)
	}

	// The thread id must land in the author's thread set.
	got, err := svc.Users.GetByID(ctx, author.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	var found bool
	for _, id := range got.Threads {
		if id == th.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected the thread registered on its author")
	}
}

func TestCreateTopLevel_SanitizesMarkup(t *testing.T) {
	svc, fixtures := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "alice", "Alice")

	th, err := svc.CreateTopLevel(ctx, "hello <script>alert(1)</script> world", author.AuthID)
	if err != nil {
		t.Fatalf("CreateTopLevel failed: %v", err)
	}
	if th.Text != "hello  world" {
		t.Errorf("text: got %q, want markup stripped", th.Text)
	}
}

func TestCreateTopLevel_TextTooShort(t *testing.T) {
	svc, fixtures := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "alice", "Alice")

	_, err := svc.CreateTopLevel(ctx, "hi", author.AuthID)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestCreateTopLevel_AuthorMissing(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := svc.CreateTopLevel(ctx, "orphan thread", "user_does_not_exist")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddComment_LinksBothDirections(t *testing.T) {
	svc, fixtures := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "Alice")
	bob := fixtures.CreateUser(ctx, "bob", "Bob")
	parent := fixtures.CreateThread(ctx, alice, "parent thread")

	child, err := svc.AddComment(ctx, parent.ID, "a thoughtful reply", bob.AuthID)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	// Child carries the parent pointer.
	if child.ParentID == nil || *child.ParentID != parent.ID {
		t.Error("expected the comment to reference its parent")
	}

	// Parent's children set contains the child.
	gotParent, err := svc.Threads.GetByID(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	var linked bool
	for _, id := range gotParent.Children {
		if id == child.ID {
			linked = true
		}
	}
	if !linked {
		t.Error("expected the comment in the parent's children set")
	}

	// Comment is registered on its author too.
	gotBob, err := svc.Users.GetByID(ctx, bob.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	var onAuthor bool
	for _, id := range gotBob.Threads {
		if id == child.ID {
			onAuthor = true
		}
	}
	if !onAuthor {
		t.Error("expected the comment registered on its author")
	}
}

func TestAddComment_ParentMissing(t *testing.T) {
	svc, fixtures := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bob := fixtures.CreateUser(ctx, "bob", "Bob")

	_, err := svc.AddComment(ctx, primitive.NewObjectID(), "reply to nothing", bob.AuthID)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddComment_ValidationBeforeAnyWrite(t *testing.T) {
	svc, fixtures := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "Alice")
	parent := fixtures.CreateThread(ctx, alice, "parent thread")

	_, err := svc.AddComment(ctx, parent.ID, "x", alice.AuthID)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// The rejected comment must not have touched the parent.
	gotParent, err := svc.Threads.GetByID(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(gotParent.Children) != 0 {
		t.Error("expected no children after a rejected comment")
	}
}

func TestDelete_CascadesThroughDeepTree(t *testing.T) {
	svc, fixtures := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "Alice")
	bob := fixtures.CreateUser(ctx, "bob", "Bob")
	carol := fixtures.CreateUser(ctx, "carol", "Carol")

	// root -> c1 -> c2 -> c3, plus a sibling under root.
	root := fixtures.CreateThread(ctx, alice, "root thread")
	c1 := fixtures.CreateComment(ctx, root, bob, "level one")
	c2 := fixtures.CreateComment(ctx, c1, carol, "level two")
	c3 := fixtures.CreateComment(ctx, c2, alice, "level three")
	sibling := fixtures.CreateComment(ctx, root, carol, "sibling comment")

	// An unrelated thread must survive.
	unrelated := fixtures.CreateThread(ctx, bob, "unrelated thread")

	if err := svc.Delete(ctx, root.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	doomed := []primitive.ObjectID{root.ID, c1.ID, c2.ID, c3.ID, sibling.ID}
	remaining, err := svc.Threads.CountByIDs(ctx, doomed)
	if err != nil {
		t.Fatalf("CountByIDs failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected whole subtree gone, %d documents remain", remaining)
	}

	if _, err := svc.Threads.GetByID(ctx, unrelated.ID); err != nil {
		t.Errorf("unrelated thread should survive: %v", err)
	}

	// Every affected author's thread set is purged of the deleted ids.
	for _, user := range []struct {
		name string
		id   primitive.ObjectID
	}{
		{"alice", alice.ID}, {"bob", bob.ID}, {"carol", carol.ID},
	} {
		got, err := svc.Users.GetByID(ctx, user.id)
		if err != nil {
			t.Fatalf("GetByID(%s) failed: %v", user.name, err)
		}
		for _, tid := range got.Threads {
			for _, d := range doomed {
				if tid == d {
					t.Errorf("%s still references deleted thread %v", user.name, d)
				}
			}
		}
	}

	// Bob keeps his unrelated thread reference.
	gotBob, err := svc.Users.GetByID(ctx, bob.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	var kept bool
	for _, tid := range gotBob.Threads {
		if tid == unrelated.ID {
			kept = true
		}
	}
	if !kept {
		t.Error("expected bob to keep his unrelated thread reference")
	}
}

func TestDelete_SubtreeOnly(t *testing.T) {
	svc, fixtures := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "Alice")
	bob := fixtures.CreateUser(ctx, "bob", "Bob")

	root := fixtures.CreateThread(ctx, alice, "root thread")
	doomedBranch := fixtures.CreateComment(ctx, root, bob, "branch to delete")
	doomedLeaf := fixtures.CreateComment(ctx, doomedBranch, alice, "leaf under branch")
	survivor := fixtures.CreateComment(ctx, root, bob, "branch to keep")

	if err := svc.Delete(ctx, doomedBranch.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	remaining, err := svc.Threads.CountByIDs(ctx,
		[]primitive.ObjectID{doomedBranch.ID, doomedLeaf.ID})
	if err != nil {
		t.Fatalf("CountByIDs failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected deleted branch gone, %d remain", remaining)
	}

	for _, id := range []primitive.ObjectID{root.ID, survivor.ID} {
		if _, err := svc.Threads.GetByID(ctx, id); err != nil {
			t.Errorf("thread %v should survive: %v", id, err)
		}
	}
}

func TestDelete_ToleratesParentPointerCycle(t *testing.T) {
	svc, fixtures := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "Alice")
	a := fixtures.CreateThread(ctx, alice, "thread a")
	b := fixtures.CreateComment(ctx, a, alice, "thread b")

	// Point a back at b so the parent walk would revisit both forever
	// without a visited guard.
	if _, err := fixtures.DB().Collection("threads").UpdateByID(ctx, a.ID,
		bson.M{"$set": bson.M{"parent_id": b.ID}}); err != nil {
		t.Fatalf("failed to rewrite parent pointer: %v", err)
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	remaining, err := svc.Threads.CountByIDs(ctx, []primitive.ObjectID{a.ID, b.ID})
	if err != nil {
		t.Fatalf("CountByIDs failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected both threads in the cycle deleted, %d remain", remaining)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := svc.Delete(ctx, primitive.NewObjectID())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
