package threads_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	threadsfeature "github.com/dalemusser/threadhub/internal/app/features/threads"
	"github.com/dalemusser/threadhub/internal/app/service/threadtree"
	"github.com/dalemusser/threadhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*threadsfeature.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := threadsfeature.NewHandler(db, threadtree.New(db, logger), logger)
	return h, testutil.NewFixtures(t, db), db
}

func TestServeCreate(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "alice", "Alice")

	body := `{"text":"hello from the api","author_id":"` + author.AuthID + `"}`
	req := httptest.NewRequest("POST", "/api/threads", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created struct {
		ID   primitive.ObjectID `json:"id"`
		Text string             `json:"text"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected an id in the response")
	}
	if created.Text != "hello from the api" {
		t.Errorf("text: got %q, want %q", created.Text, "hello from the api")
	}
}

func TestServeCreate_TextTooShort(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "alice", "Alice")

	body := `{"text":"hi","author_id":"` + author.AuthID + `"}`
	req := httptest.NewRequest("POST", "/api/threads", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestServeCreate_UnknownAuthor(t *testing.T) {
	h, _, _ := newHandler(t)

	body := `{"text":"a perfectly fine thread","author_id":"user_does_not_exist"}`
	req := httptest.NewRequest("POST", "/api/threads", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeCreate_MalformedBody(t *testing.T) {
	h, _, _ := newHandler(t)

	req := httptest.NewRequest("POST", "/api/threads", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestServeFeed(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "Alice")
	fixtures.CreateThread(ctx, alice, "first thread")
	fixtures.CreateThread(ctx, alice, "second thread")

	req := httptest.NewRequest("GET", "/api/threads?page=1&size=10", nil)
	rec := httptest.NewRecorder()

	h.ServeFeed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Items   []json.RawMessage `json:"items"`
		Total   int64             `json:"total"`
		HasNext bool              `json:"has_next"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total: got %d, want 2", resp.Total)
	}
	if len(resp.Items) != 2 {
		t.Errorf("items: got %d, want 2", len(resp.Items))
	}
	if resp.HasNext {
		t.Error("single page should not report more results")
	}
}

func TestServeFeed_Empty(t *testing.T) {
	h, _, _ := newHandler(t)

	req := httptest.NewRequest("GET", "/api/threads", nil)
	rec := httptest.NewRecorder()

	h.ServeFeed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	// The items field must be [] rather than null.
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Errorf("expected empty items array, got %s", rec.Body.String())
	}
}

func TestServeDetail_MalformedID(t *testing.T) {
	h, _, _ := newHandler(t)

	req := httptest.NewRequest("GET", "/api/threads/not-a-hex-id", nil)
	req = testutil.WithChiURLParam(req, "threadID", "not-a-hex-id")
	rec := httptest.NewRecorder()

	h.ServeDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeAddComment(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "Alice")
	bob := fixtures.CreateUser(ctx, "bob", "Bob")
	parent := fixtures.CreateThread(ctx, alice, "parent thread")

	body := `{"text":"a reply via the api","author_id":"` + bob.AuthID + `"}`
	req := httptest.NewRequest("POST", "/api/threads/"+parent.ID.Hex()+"/comments", strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "threadID", parent.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeAddComment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var comment struct {
		ParentID *primitive.ObjectID `json:"parent_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &comment); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if comment.ParentID == nil || *comment.ParentID != parent.ID {
		t.Error("expected the comment to reference its parent")
	}
}

func TestServeAddComment_ParentMissing(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bob := fixtures.CreateUser(ctx, "bob", "Bob")
	missing := primitive.NewObjectID().Hex()

	body := `{"text":"reply to nothing at all","author_id":"` + bob.AuthID + `"}`
	req := httptest.NewRequest("POST", "/api/threads/"+missing+"/comments", strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "threadID", missing)
	rec := httptest.NewRecorder()

	h.ServeAddComment(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeDelete(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "Alice")
	bob := fixtures.CreateUser(ctx, "bob", "Bob")
	th := fixtures.CreateThread(ctx, alice, "doomed thread")
	fixtures.CreateComment(ctx, th, bob, "doomed comment")

	req := httptest.NewRequest("DELETE", "/api/threads/"+th.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "threadID", th.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeDelete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusNoContent)
	}

	// A second delete finds nothing.
	req = httptest.NewRequest("DELETE", "/api/threads/"+th.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "threadID", th.ID.Hex())
	rec = httptest.NewRecorder()

	h.ServeDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
