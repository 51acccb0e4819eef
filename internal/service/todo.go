package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/todo-api/internal/domain"
)

// TodoPatch carries the optional fields of an update request.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

// TodoService applies the ownership scope to every todo operation. The
// owner always comes from the authenticated caller, never from input.
type TodoService struct {
	todos domain.TodoRepository
	now   func() time.Time
}

// NewTodoService creates a new TodoService.
func NewTodoService(todos domain.TodoRepository) *TodoService {
	return &TodoService{todos: todos, now: time.Now}
}

// Create stores a new todo owned by ownerID.
func (s *TodoService) Create(ctx context.Context, ownerID, text string) (*domain.Todo, error) {
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Text:    text,
		OwnerID: ownerID,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// List returns every todo owned by ownerID.
func (s *TodoService) List(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	todos, err := s.todos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Get returns the todo with id if ownerID owns it.
func (s *TodoService) Get(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	return s.todos.GetByID(ctx, id, ownerID)
}

// Update applies patch to the todo with id if ownerID owns it. Completion
// and its timestamp are always written together: only an explicit
// completed=true marks the todo complete.
func (s *TodoService) Update(ctx context.Context, ownerID, id string, patch TodoPatch) (*domain.Todo, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}

	var update domain.TodoUpdate
	if patch.Text != nil {
		text, err := normalizeText(*patch.Text)
		if err != nil {
			return nil, err
		}
		update.Text = &text
	}

	if patch.Completed != nil && *patch.Completed {
		completedAt := s.now().UnixMilli()
		update.Completed = true
		update.CompletedAt = &completedAt
	}

	return s.todos.Update(ctx, id, ownerID, update)
}

// Delete removes the todo with id if ownerID owns it and returns it.
func (s *TodoService) Delete(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	return s.todos.Delete(ctx, id, ownerID)
}

func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	return text, nil
}
