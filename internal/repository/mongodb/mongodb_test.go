package mongodb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/msomdec/todo-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newTestDB connects to the deployment named by TODO_TEST_MONGODB_URI and
// returns a DB bound to a throwaway database.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	uri := os.Getenv("TODO_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TODO_TEST_MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	base, err := Open(ctx, uri)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	db := newDB(base.client, "todo_test_"+primitive.NewObjectID().Hex())
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() {
		db.db.Drop(context.Background())
		db.Close()
	})
	return db
}

func TestObjectID(t *testing.T) {
	if _, err := objectID("12345"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("objectID(12345) error = %v, want ErrNotFound", err)
	}
	hex := primitive.NewObjectID().Hex()
	oid, err := objectID(hex)
	if err != nil {
		t.Fatalf("objectID: %v", err)
	}
	if oid.Hex() != hex {
		t.Errorf("hex = %s, want %s", oid.Hex(), hex)
	}
}

func TestOwnedFilter(t *testing.T) {
	id := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	filter, err := ownedFilter(id.Hex(), owner.Hex())
	if err != nil {
		t.Fatalf("ownedFilter: %v", err)
	}
	if filter["_id"] != id || filter["_author"] != owner {
		t.Errorf("unexpected filter: %v", filter)
	}

	if _, err := ownedFilter("bad", owner.Hex()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("bad id error = %v, want ErrNotFound", err)
	}
}

func TestDocToDomain(t *testing.T) {
	at := int64(1700000000000)
	todo := (&todoDoc{
		ID:          primitive.NewObjectID(),
		Text:        "walk dog",
		Completed:   true,
		CompletedAt: &at,
		Author:      primitive.NewObjectID(),
	}).toDomain()
	if !domain.ValidID(todo.ID) || !domain.ValidID(todo.OwnerID) {
		t.Errorf("expected hex ids, got %+v", todo)
	}
	if *todo.CompletedAt != at {
		t.Errorf("CompletedAt = %d, want %d", *todo.CompletedAt, at)
	}

	user := (&userDoc{
		ID:     primitive.NewObjectID(),
		Email:  "a@test.com",
		Tokens: []tokenDoc{{Access: "auth", Token: "t1"}},
	}).toDomain()
	if !user.HasToken("auth", "t1") {
		t.Errorf("expected token, got %+v", user.Tokens)
	}
}

func TestUserLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := db.Users()

	u := &domain.User{Email: "a@test.com", PasswordHash: "hash"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := users.Create(ctx, &domain.User{Email: "a@test.com", PasswordHash: "x"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("duplicate Create error = %v, want ErrDuplicateEmail", err)
	}

	if err := users.AddToken(ctx, u.ID, domain.Token{Access: domain.AccessAuth, Token: "t1"}); err != nil {
		t.Fatalf("AddToken: %v", err)
	}
	if err := users.AddToken(ctx, u.ID, domain.Token{Access: domain.AccessAuth, Token: "t2"}); err != nil {
		t.Fatalf("AddToken: %v", err)
	}

	got, err := users.GetByToken(ctx, u.ID, domain.AccessAuth, "t1")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.Email != "a@test.com" || len(got.Tokens) != 2 {
		t.Errorf("unexpected user: %+v", got)
	}

	if err := users.RemoveToken(ctx, u.ID, "t1"); err != nil {
		t.Fatalf("RemoveToken: %v", err)
	}
	if _, err := users.GetByToken(ctx, u.ID, domain.AccessAuth, "t1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("removed token lookup error = %v, want ErrNotFound", err)
	}
	if _, err := users.GetByToken(ctx, u.ID, domain.AccessAuth, "t2"); err != nil {
		t.Errorf("other token lookup: %v", err)
	}
	if err := users.RemoveToken(ctx, primitive.NewObjectID().Hex(), "t2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing user RemoveToken error = %v, want ErrNotFound", err)
	}
}

func TestTodoOwnership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := &domain.User{Email: "owner@test.com", PasswordHash: "h"}
	other := &domain.User{Email: "other@test.com", PasswordHash: "h"}
	for _, u := range []*domain.User{owner, other} {
		if err := db.Users().Create(ctx, u); err != nil {
			t.Fatalf("Create user: %v", err)
		}
	}

	todos := db.Todos()
	todo := &domain.Todo{Text: "walk dog", OwnerID: owner.ID}
	if err := todos.Create(ctx, todo); err != nil {
		t.Fatalf("Create todo: %v", err)
	}

	if _, err := todos.GetByID(ctx, todo.ID, other.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign GetByID error = %v, want ErrNotFound", err)
	}

	at := time.Now().UnixMilli()
	updated, err := todos.Update(ctx, todo.ID, owner.ID, domain.TodoUpdate{Completed: true, CompletedAt: &at})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Completed || *updated.CompletedAt != at || updated.Text != "walk dog" {
		t.Errorf("unexpected update: %+v", updated)
	}

	list, err := todos.ListByOwner(ctx, other.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("other owner sees %d todos", len(list))
	}

	if _, err := todos.Delete(ctx, todo.ID, other.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign Delete error = %v, want ErrNotFound", err)
	}
	deleted, err := todos.Delete(ctx, todo.ID, owner.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.ID != todo.ID {
		t.Errorf("deleted id = %s, want %s", deleted.ID, todo.ID)
	}
}
