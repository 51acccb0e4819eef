package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/todo-api/internal/domain"
)

func TestTodoRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := db.Todos()
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com")

	todo := &domain.Todo{Text: "buy milk", OwnerID: owner.ID}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !domain.ValidID(todo.ID) {
		t.Fatalf("expected ObjectID-shaped id, got %q", todo.ID)
	}

	found, err := repo.GetByID(ctx, todo.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Text != "buy milk" || found.Completed || found.CompletedAt != nil || found.OwnerID != owner.ID {
		t.Fatalf("unexpected todo: %+v", found)
	}
}

func TestTodoRepository_OwnerScoping(t *testing.T) {
	db := newTestDB(t)
	repo := db.Todos()
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	todo := &domain.Todo{Text: "alice's", OwnerID: alice.ID}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByID(ctx, todo.ID, bob.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID as other owner: expected ErrNotFound, got %v", err)
	}
	text := "hijacked"
	if _, err := repo.Update(ctx, todo.ID, bob.ID, domain.TodoUpdate{Text: &text}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update as other owner: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Delete(ctx, todo.ID, bob.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete as other owner: expected ErrNotFound, got %v", err)
	}

	list, err := repo.ListByOwner(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected bob to see no todos, got %d", len(list))
	}

	found, err := repo.GetByID(ctx, todo.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetByID as owner: %v", err)
	}
	if found.Text != "alice's" {
		t.Fatalf("todo was modified through another owner: %+v", found)
	}
}

func TestTodoRepository_ListByOwner(t *testing.T) {
	db := newTestDB(t)
	repo := db.Todos()
	ctx := context.Background()
	owner := createTestUser(t, db, "list@example.com")

	for _, text := range []string{"one", "two", "three"} {
		if err := repo.Create(ctx, &domain.Todo{Text: text, OwnerID: owner.ID}); err != nil {
			t.Fatalf("Create(%s): %v", text, err)
		}
	}

	list, err := repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(list))
	}
}

func TestTodoRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := db.Todos()
	ctx := context.Background()
	owner := createTestUser(t, db, "update@example.com")

	todo := &domain.Todo{Text: "draft", OwnerID: owner.ID}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create: %v", err)
	}

	completedAt := int64(1700000000000)
	updated, err := repo.Update(ctx, todo.ID, owner.ID, domain.TodoUpdate{Completed: true, CompletedAt: &completedAt})
	if err != nil {
		t.Fatalf("Update complete: %v", err)
	}
	if updated.Text != "draft" {
		t.Fatalf("expected text to be kept when not set, got %q", updated.Text)
	}
	if !updated.Completed || updated.CompletedAt == nil || *updated.CompletedAt != completedAt {
		t.Fatalf("expected completed todo, got %+v", updated)
	}

	text := "final"
	updated, err = repo.Update(ctx, todo.ID, owner.ID, domain.TodoUpdate{Text: &text})
	if err != nil {
		t.Fatalf("Update text: %v", err)
	}
	if updated.Text != "final" || updated.Completed || updated.CompletedAt != nil {
		t.Fatalf("expected incomplete todo with new text, got %+v", updated)
	}
}

func TestTodoRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := db.Todos()
	ctx := context.Background()
	owner := createTestUser(t, db, "delete@example.com")

	todo := &domain.Todo{Text: "gone soon", OwnerID: owner.ID}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := repo.Delete(ctx, todo.ID, owner.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.ID != todo.ID || deleted.Text != "gone soon" {
		t.Fatalf("expected deleted todo to be returned, got %+v", deleted)
	}

	if _, err := repo.GetByID(ctx, todo.ID, owner.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.Delete(ctx, todo.ID, owner.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
